package levels

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/jazz2conv/events"
	"github.com/milk9111/jazz2conv/jj2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Difficulty selects which events of a converted level are active.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Normal
	Hard
	Multiplayer
)

var difficultyNames = []string{"easy", "normal", "hard", "multiplayer"}

var categoryNames = map[uint8]string{
	jj2.LayerCategoryOther:  "other",
	jj2.LayerCategorySky:    "sky",
	jj2.LayerCategorySprite: "sprite",
}

// ParseDifficulty parses a difficulty name as used on the command line.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return Difficulty(i), nil
		}
	}
	return 0, errors.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) String() string {
	if int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return "unknown"
}

// accepts returns the event difficulty bits active at d. Multiplayer games
// also run events placed for every difficulty.
func (d Difficulty) accepts() uint8 {
	switch d {
	case Easy:
		return jj2.EventEasy
	case Hard:
		return jj2.EventHard
	case Multiplayer:
		return jj2.EventMultiplayer | jj2.EventNormal
	default:
		return jj2.EventNormal
	}
}

// AnimatedTile is an animated tile with its frames already resolved to static
// tiles.
type AnimatedTile struct {
	Speed        uint8
	Delay        uint16
	DelayJitter  uint16
	Reverse      bool
	ReverseDelay uint16
	Frames       []jj2.TileRef
}

// Layer is one tile layer of a converted level.
type Layer struct {
	Category uint8
	Flags    uint8
	Width    int32
	Height   int32

	OffsetX, OffsetY       float32
	SpeedX, SpeedY         float32
	AutoSpeedX, AutoSpeedY float32
	Depth                  int16

	// TexturedType is 0 when the layer has no textured background.
	TexturedType   uint8
	TexturedParams [3]uint8

	Tiles []jj2.TileRef
}

// Tile returns the cell at x, y.
func (l *Layer) Tile(x, y int) jj2.TileRef {
	if x < 0 || y < 0 || x >= int(l.Width) || y >= int(l.Height) {
		return jj2.TileRef{}
	}
	return l.Tiles[y*int(l.Width)+x]
}

// Event is one cell of the event map.
type Event struct {
	Type      events.Type
	Flags     uint8
	Generator *events.Generator
	Params    [events.ParamsSize]byte
}

// Level is a level in the converted format, filtered for one difficulty.
type Level struct {
	Flags   uint16
	Name    string
	Next    string
	Secret  string
	Bonus   string
	Tileset string
	Music   string

	AmbientLight  uint8
	DarknessColor [4]uint8
	Weather       uint8

	TextEvents    []string
	AnimatedTiles []AnimatedTile
	Layers        []Layer

	// Events covers the sprite layer. It is nil when the level has none.
	Events []Event
}

// SpriteLayer returns the layer the player moves in, or nil.
func (l *Level) SpriteLayer() *Layer {
	for i := range l.Layers {
		if l.Layers[i].Category == jj2.LayerCategorySprite {
			return &l.Layers[i]
		}
	}
	return nil
}

// Event returns the event at x, y of the sprite layer.
func (l *Level) Event(x, y int) Event {
	sprite := l.SpriteLayer()
	if sprite == nil || l.Events == nil || x < 0 || y < 0 || x >= int(sprite.Width) || y >= int(sprite.Height) {
		return Event{}
	}
	return l.Events[y*int(sprite.Width)+x]
}

// Load reads a converted level from disk.
func Load(path string, d Difficulty) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read level")
	}
	return parse(data, d, path)
}

// LoadFS reads a converted level from fsys.
func LoadFS(fsys fs.FS, name string, d Difficulty) (*Level, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrap(err, "read level")
	}
	return parse(data, d, name)
}

// Read parses a converted level from r.
func Read(r io.Reader, d Difficulty) (*Level, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read level")
	}
	return parse(data, d, "")
}

func parse(data []byte, d Difficulty, name string) (*Level, error) {
	lvl, err := decode(jj2.NewBlock(data), d)
	if err != nil {
		if name != "" {
			return nil, errors.Wrapf(err, "level %q", name)
		}
		return nil, err
	}
	log.Debug().
		Str("token", lvl.Name).
		Int("layers", len(lvl.Layers)).
		Stringer("difficulty", d).
		Msg("levels: loaded")
	return lvl, nil
}

func readString8(b *jj2.Block) string {
	n := int(b.ReadUint8())
	return string(b.ReadRaw(n))
}

func decode(b *jj2.Block, d Difficulty) (*Level, error) {
	if magic := b.ReadUint64(); magic != jj2.FileMagic {
		if err := b.Err(); err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(jj2.ErrInvalidFormat, "level magic %#x", magic)
	}
	if v := b.ReadUint8(); v != jj2.LevelFormatVersion {
		if err := b.Err(); err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(jj2.ErrInvalidFormat, "level version %d", v)
	}

	lvl := &Level{}
	lvl.Flags = b.ReadUint16()
	lvl.Name = readString8(b)
	lvl.Next = readString8(b)
	lvl.Secret = readString8(b)
	lvl.Bonus = readString8(b)
	lvl.Tileset = readString8(b)
	lvl.Music = readString8(b)

	lvl.AmbientLight = b.ReadUint8()
	copy(lvl.DarknessColor[:], b.ReadRaw(4))
	lvl.Weather = b.ReadUint8()

	lvl.TextEvents = make([]string, b.ReadUint8())
	for i := range lvl.TextEvents {
		n := int(b.ReadUint16())
		lvl.TextEvents[i] = string(b.ReadRaw(n))
	}
	if err := b.Err(); err != nil {
		return nil, errors.Wrap(err, "header")
	}

	if err := decodeAnimatedTiles(b, lvl); err != nil {
		return nil, err
	}
	if err := decodeLayers(b, lvl); err != nil {
		return nil, err
	}
	if lvl.SpriteLayer() != nil {
		if err := decodeEvents(b, lvl, d); err != nil {
			return nil, err
		}
	}

	if n := b.Remaining(); n != 0 {
		return nil, errors.Wrapf(jj2.ErrInvalidFormat, "%d trailing bytes", n)
	}
	return lvl, nil
}

func decodeAnimatedTiles(b *jj2.Block, lvl *Level) error {
	lvl.AnimatedTiles = make([]AnimatedTile, b.ReadUint16())
	for i := range lvl.AnimatedTiles {
		t := &lvl.AnimatedTiles[i]
		frames := int(b.ReadUint8())
		t.Speed = b.ReadUint8()
		t.Delay = b.ReadUint16()
		t.DelayJitter = b.ReadUint16()
		t.Reverse = b.ReadBool()
		t.ReverseDelay = b.ReadUint16()

		t.Frames = make([]jj2.TileRef, frames)
		for j := range t.Frames {
			flags := b.ReadUint8()
			t.Frames[j] = jj2.TileRefFromFlags(flags, b.ReadUint16())
		}
		if err := b.Err(); err != nil {
			return errors.Wrapf(err, "animated tile %d", i)
		}
	}
	return nil
}

const cellSize = 3

func decodeLayers(b *jj2.Block, lvl *Level) error {
	lvl.Layers = make([]Layer, b.ReadUint8())
	for i := range lvl.Layers {
		layer := &lvl.Layers[i]
		layer.Category = b.ReadUint8()
		layer.Flags = b.ReadUint8()
		layer.Width = b.ReadInt32()
		layer.Height = b.ReadInt32()

		if layer.Category != jj2.LayerCategorySprite {
			layer.OffsetX = b.ReadFloat32()
			layer.OffsetY = b.ReadFloat32()
			layer.SpeedX = b.ReadFloat32()
			layer.SpeedY = b.ReadFloat32()
			layer.AutoSpeedX = b.ReadFloat32()
			layer.AutoSpeedY = b.ReadFloat32()
			layer.Depth = b.ReadInt16()

			if layer.Category == jj2.LayerCategorySky && layer.Flags&jj2.LayerTexturedBackground != 0 {
				layer.TexturedType = b.ReadUint8()
				copy(layer.TexturedParams[:], b.ReadRaw(3))
			}
		}
		if err := b.Err(); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}

		cells := int64(layer.Width) * int64(layer.Height)
		if layer.Width < 0 || layer.Height < 0 || cells*cellSize > int64(b.Remaining()) {
			return errors.Wrapf(jj2.ErrInvalidFormat, "layer %d is %dx%d", i, layer.Width, layer.Height)
		}
		layer.Tiles = make([]jj2.TileRef, cells)
		for j := range layer.Tiles {
			flags := b.ReadUint8()
			layer.Tiles[j] = jj2.TileRefFromFlags(flags, b.ReadUint16())
		}
	}
	return b.Err()
}

func decodeEvents(b *jj2.Block, lvl *Level, d Difficulty) error {
	sprite := lvl.SpriteLayer()
	accept := d.accepts()

	lvl.Events = make([]Event, int(sprite.Width)*int(sprite.Height))
	for i := range lvl.Events {
		var e Event
		e.Type = events.Type(b.ReadUint16())
		e.Flags = b.ReadUint8()
		if e.Flags&jj2.EventGenerator != 0 {
			genFlags := b.ReadUint8()
			e.Generator = &events.Generator{
				InitialDelay: genFlags&events.GeneratorInitialDelay != 0,
				Delay:        b.ReadUint8(),
			}
		}
		if e.Flags&jj2.EventNoParams == 0 {
			copy(e.Params[:], b.ReadRaw(events.ParamsSize))
		}
		if err := b.Err(); err != nil {
			return errors.Wrapf(err, "event %d", i)
		}

		if diff := e.Flags & jj2.EventDifficultyMask; diff != 0 && diff&accept == 0 {
			continue
		}
		lvl.Events[i] = e
	}
	return nil
}

// Dump writes a short human readable summary of the level.
func (l *Level) Dump(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n  tileset: %s\n  music:   %s\n", l.Name, l.Tileset, l.Music)
	if l.Next != "" {
		fmt.Fprintf(&buf, "  next:    %s\n", l.Next)
	}
	for i := range l.Layers {
		layer := &l.Layers[i]
		fmt.Fprintf(&buf, "  layer %d: %s %dx%d\n", i, categoryNames[layer.Category], layer.Width, layer.Height)
	}
	fmt.Fprintf(&buf, "  animated tiles: %d\n", len(l.AnimatedTiles))
	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "dump level")
}

// FrameAt returns the frame shown after elapsed time, cycling at Speed
// frames per second. Reverse tiles play back and forth. Delays are not
// applied.
func (a *AnimatedTile) FrameAt(elapsed time.Duration) jj2.TileRef {
	n := len(a.Frames)
	if n == 0 {
		return jj2.TileRef{}
	}
	if a.Speed == 0 || n == 1 || elapsed <= 0 {
		return a.Frames[0]
	}
	step := int(elapsed.Seconds() * float64(a.Speed))
	if a.Reverse {
		cycle := 2*n - 2
		i := step % cycle
		if i >= n {
			i = cycle - i
		}
		return a.Frames[i]
	}
	return a.Frames[step%n]
}

// DrawOrder returns layer indices from the farthest layer to the nearest.
// Deeper layers are drawn first; the sprite layer sits at depth 0.
func (l *Level) DrawOrder() []int {
	order := make([]int, len(l.Layers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return l.Layers[order[i]].Depth > l.Layers[order[j]].Depth
	})
	return order
}
