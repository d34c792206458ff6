package events

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Context exposes the properties of the level being converted that some
// mappings depend on.
type Context interface {
	LevelToken() string
	IsTSF() bool
}

// Generator carries the spawn settings of an event wrapped by a legacy
// generator.
type Generator struct {
	Delay        uint8
	InitialDelay bool
}

// Generator flag bits in the modern format.
const GeneratorInitialDelay uint8 = 0x01

// Flags returns the generator flags byte.
func (g *Generator) Flags() uint8 {
	if g.InitialDelay {
		return GeneratorInitialDelay
	}
	return 0
}

// Result is a converted event.
type Result struct {
	Type      Type
	Params    [ParamsSize]byte
	Generator *Generator
}

// Mapping turns one legacy event into a modern one. Preset bytes are copied
// into the parameter block first, then every extracted value is stored at its
// offset. Remap may adjust the result afterwards; returning false marks the
// event as unsupported.
type Mapping struct {
	Type   Type
	Params []Param
	Preset []byte
	Remap  func(c *Converter, ctx Context, v []int32, r *Result) bool
}

// generatorSchema unpacks the parameter word of a legacy generator: the
// wrapped event, the spawn delay and the initial-delay flag.
var generatorSchema = []Param{U(8, 0), U(8, 1), B(2)}

// Converter maps legacy events to modern events. It is safe for concurrent
// use; the table is read-only after construction.
type Converter struct {
	table map[Legacy]Mapping

	mu          sync.Mutex
	unsupported map[Legacy]int
}

// NewConverter returns a converter with the default mapping table.
func NewConverter() *Converter {
	return &Converter{
		table:       defaultTable(),
		unsupported: make(map[Legacy]int),
	}
}

// Mapping returns the table entry for t.
func (c *Converter) Mapping(t Legacy) (Mapping, bool) {
	m, ok := c.table[t]
	return m, ok
}

// TryConvert converts a single legacy event. Unknown types yield an empty
// result and are counted as unsupported.
func (c *Converter) TryConvert(ctx Context, t Legacy, params uint32) Result {
	var r Result
	m, ok := c.table[t]
	if !ok {
		c.markUnsupported(ctx, t)
		return r
	}

	r.Type = m.Type
	copy(r.Params[:], m.Preset)
	v := Extract(params, m.Params)
	for i, p := range m.Params {
		r.put(p, v[i])
	}
	if m.Remap != nil && !m.Remap(c, ctx, v, &r) {
		c.markUnsupported(ctx, t)
		return Result{}
	}
	return r
}

// Convert converts a legacy event, unwrapping generators. The event spawned by
// a generator is converted from the full packed params, and the spawn
// settings are returned in Result.Generator even when that event is
// unsupported.
func (c *Converter) Convert(ctx Context, t Legacy, params uint32) Result {
	if t != JJ2Generator {
		return c.TryConvert(ctx, t, params)
	}

	v := Extract(params, generatorSchema)
	inner := c.TryConvert(ctx, Legacy(v[0]), params)
	inner.Generator = &Generator{
		Delay:        uint8(v[1]),
		InitialDelay: v[2] != 0,
	}
	return inner
}

func (c *Converter) markUnsupported(ctx Context, t Legacy) {
	c.mu.Lock()
	c.unsupported[t]++
	c.mu.Unlock()

	ev := log.Debug().Stringer("event", t)
	if ctx != nil {
		ev = ev.Str("token", ctx.LevelToken())
	}
	ev.Msg("events: unsupported legacy event")
}

// Unsupported returns a snapshot of the unsupported event counts.
func (c *Converter) Unsupported() map[Legacy]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Legacy]int, len(c.unsupported))
	for k, v := range c.unsupported {
		out[k] = v
	}
	return out
}

// UnsupportedCount is one row of an unsupported event report.
type UnsupportedCount struct {
	Event Legacy
	Count int
}

// UnsupportedReport returns the unsupported events sorted by descending count.
func (c *Converter) UnsupportedReport() []UnsupportedCount {
	snap := c.Unsupported()
	out := make([]UnsupportedCount, 0, len(snap))
	for k, v := range snap {
		out = append(out, UnsupportedCount{Event: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Event < out[j].Event
	})
	return out
}
