package jj2

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/milk9111/jazz2conv/events"
	"github.com/pkg/errors"
)

func TestDecodeTileEvent(t *testing.T) {
	cases := []struct {
		name string
		raw  uint32
		want TileEvent
	}{
		{"type_only", 0x00000001, TileEvent{Type: 1}},
		{"difficulty_bits", 0x0000C0FF, TileEvent{Type: 0xFF, Difficulty: DifficultyMultiplayer}},
		{"illuminate", 0x00002010, TileEvent{Type: 0x10, Illuminate: true}},
		{"low_params", 0x00000F05, TileEvent{Type: 5, Params: 0x0F}},
		{"high_params", 0xFFFF0000, TileEvent{Params: 0xFFFF0}},
		{"mixed", 0x12345678, TileEvent{Type: 0x78, Difficulty: DifficultyEasy, Params: 0x12346}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DecodeTileEvent(c.raw); got != c.want {
				t.Fatalf("DecodeTileEvent(%#x): expected %+v, got %+v", c.raw, c.want, got)
			}
			if got := DecodeTileEvent(EncodeTileEvent(c.want)); got != c.want {
				t.Fatalf("encode round trip: expected %+v, got %+v", c.want, got)
			}
		})
	}
}

func TestDecodeLayerEvent(t *testing.T) {
	cases := []struct {
		name string
		raw  uint32
		want TileEvent
	}{
		{"easy", 0x00000107, TileEvent{Type: 7, Difficulty: DifficultyEasy}},
		{"illuminate", 0x000004FF, TileEvent{Type: 0xFF, Illuminate: true}},
		{"multiplayer", 0x00000300, TileEvent{Difficulty: DifficultyMultiplayer}},
		{"all_params", 0xFFFFF000, TileEvent{Params: 0xFFFFF}},
		{"mixed", 0x12345A78, TileEvent{Type: 0x78, Difficulty: DifficultyHard, Params: 0x12345}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DecodeLayerEvent(c.raw); got != c.want {
				t.Fatalf("DecodeLayerEvent(%#x): expected %+v, got %+v", c.raw, c.want, got)
			}
			if got := EncodeLayerEvent(c.want); got != c.raw&^0x0800 {
				t.Fatalf("EncodeLayerEvent: expected %#x, got %#x", c.raw&^0x0800, got)
			}
		})
	}
}

func TestReadLevel(t *testing.T) {
	src := newFixtureLevel()
	l := parseLevel(t, marshalLevel(t, src), true)

	if l.Name != src.Name || l.Version != BaseGame || l.Token != "castle1" {
		t.Fatalf("unexpected header fields: %q %v %q", l.Name, l.Version, l.Token)
	}
	if l.LightingMin != 16 || l.LightingStart != 64 || l.AnimCount != 2 {
		t.Fatalf("unexpected lighting/anim fields: %d %d %d", l.LightingMin, l.LightingStart, l.AnimCount)
	}
	if l.Tileset != "Castle1.j2t" || l.NextLevel != "CASTLE1N.J2L" || l.BonusLevel != "labrat3" || l.SecretLevel != "" || l.Music != "Castle" {
		t.Fatalf("unexpected references: %q %q %q %q %q", l.Tileset, l.NextLevel, l.BonusLevel, l.SecretLevel, l.Music)
	}
	if l.TextEvents[0] != "Hello@World" || l.TextEvents[15] != "last" {
		t.Fatalf("unexpected text events: %q", l.TextEvents)
	}

	sky := l.Layers[SkyLayer]
	if !sky.Used || sky.Depth != 500 || sky.SpeedX != 0.25 || sky.SpeedY != -0.5 || sky.AutoSpeedX != 2 {
		t.Fatalf("unexpected sky layer: %+v", sky)
	}
	if sky.TexturedType != 1 || sky.TexturedParam1 != 10 || sky.TexturedParam2 != 20 || sky.TexturedParam3 != 30 {
		t.Fatalf("unexpected textured params: %+v", sky)
	}
	if l.Layers[SpriteLayer].WaveX != 1.5 {
		t.Fatalf("expected sprite wave 1.5, got %v", l.Layers[SpriteLayer].WaveX)
	}
	if !bytesEqual16(l.Layers[SpriteLayer].Tiles, src.Layers[SpriteLayer].Tiles) {
		t.Fatalf("sprite tiles differ: %v", l.Layers[SpriteLayer].Tiles)
	}
	if !bytesEqual16(sky.Tiles, src.Layers[SkyLayer].Tiles) {
		t.Fatalf("sky tiles differ: %v", sky.Tiles)
	}
	if got := len(l.Layers[0].Tiles); got != 1 {
		t.Fatalf("expected zeroed grid for unused layer, got %d cells", got)
	}

	if len(l.StaticTiles) != 1024 || l.StaticTiles[5].Type != TileTypeTranslucent || !l.StaticTiles[9].Flipped {
		t.Fatalf("unexpected static tiles")
	}
	if l.StaticTiles[9].Event != src.StaticTiles[9].Event {
		t.Fatalf("expected static event %+v, got %+v", src.StaticTiles[9].Event, l.StaticTiles[9].Event)
	}
	if len(l.AnimatedTiles) != 2 || l.AnimatedTiles[1] != src.AnimatedTiles[1] {
		t.Fatalf("unexpected animated tiles: %+v", l.AnimatedTiles)
	}

	for i, e := range src.Events {
		if l.Events[i] != e {
			t.Fatalf("event %d: expected %+v, got %+v", i, e, l.Events[i])
		}
	}
	if !l.HasPit || !l.HasLaps || l.HasCTF {
		t.Fatalf("unexpected derived flags pit=%v laps=%v ctf=%v", l.HasPit, l.HasLaps, l.HasCTF)
	}
}

func bytesEqual16(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func le16(v ...uint16) []byte {
	out := make([]byte, 0, 2*len(v))
	for _, x := range v {
		out = binary.LittleEndian.AppendUint16(out, x)
	}
	return out
}

func TestLoadLayersDictionary(t *testing.T) {
	dict := le16(
		1, 2, 3, 4,
		5, 6, 7, 8,
	)

	cases := []struct {
		name   string
		width  int32
		layout []uint16
		want   []uint16
	}{
		{"full_width", 8, []uint16{0, 1}, []uint16{1, 2, 3, 4, 5, 6, 7, 8}},
		{"clipped_width", 6, []uint16{0, 1}, []uint16{1, 2, 3, 4, 5, 6, 0, 0}},
		{"repeated_word", 8, []uint16{1, 1}, []uint16{5, 6, 7, 8, 5, 6, 7, 8}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := &Level{}
			l.Layers[0] = Layer{Used: true, Width: c.width, InternalWidth: 8, Height: 1}
			err := l.loadLayers(NewBlock(dict), len(dict)/8, NewBlock(le16(c.layout...)))
			if err != nil {
				t.Fatalf("loadLayers: %v", err)
			}
			if !bytesEqual16(l.Layers[0].Tiles, c.want) {
				t.Fatalf("expected %v, got %v", c.want, l.Layers[0].Tiles)
			}
			if len(l.Layers[1].Tiles) != 0 {
				t.Fatalf("expected empty grid for zero-sized unused layer")
			}
		})
	}

	t.Run("out_of_range_word", func(t *testing.T) {
		l := &Level{}
		l.Layers[0] = Layer{Used: true, Width: 4, InternalWidth: 4, Height: 1}
		err := l.loadLayers(NewBlock(dict), 2, NewBlock(le16(2)))
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("short_layout", func(t *testing.T) {
		l := &Level{}
		l.Layers[0] = Layer{Used: true, Width: 8, InternalWidth: 8, Height: 1}
		err := l.loadLayers(NewBlock(dict), 2, NewBlock(le16(0)))
		if !errors.Is(err, ErrTruncatedInput) {
			t.Fatalf("expected ErrTruncatedInput, got %v", err)
		}
	})
}

// staticCountOffset is the position of the static tile count in the info
// block: fixed fields, six names, text events and 8 layers of metadata.
const staticCountOffset = 9 + 2 + 2 + 1 + 1 + 4 + 6*levelNameSize + TextEventStringsCount*textEventSize + LayerCount*51

func TestReadLevelConsistencyChecks(t *testing.T) {
	src := newFixtureLevel()
	valid := marshalLevel(t, src)

	renamed := append([]byte(nil), valid...)
	renamed[PreambleSize+8] = 'X'

	blocks, err := src.legacyBlocks()
	if err != nil {
		t.Fatalf("legacyBlocks: %v", err)
	}
	binary.LittleEndian.PutUint16(blocks[0][staticCountOffset:], 1000)
	var miscount bytes.Buffer
	if err := writeContainer(&miscount, blocks, src.legacyHeader); err != nil {
		t.Fatalf("writeContainer: %v", err)
	}

	cases := []struct {
		name    string
		data    []byte
		size    int64
		wantErr error
	}{
		{"size_mismatch", valid, int64(len(valid)) + 1, ErrSizeMismatch},
		{"name_mismatch", renamed, int64(len(renamed)), ErrLevelNameMismatch},
		{"tile_count_mismatch", miscount.Bytes(), int64(miscount.Len()), ErrTileCountMismatch},
	}

	for _, c := range cases {
		t.Run(c.name+"_strict", func(t *testing.T) {
			_, err := ReadLevel(bytes.NewReader(c.data), c.size, "castle1", true)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
		})
		t.Run(c.name+"_lenient", func(t *testing.T) {
			if _, err := ReadLevel(bytes.NewReader(c.data), c.size, "castle1", false); err != nil {
				t.Fatalf("expected lenient parse to succeed, got %v", err)
			}
		})
	}
}

func TestReadLevelFatalErrors(t *testing.T) {
	valid := marshalLevel(t, newFixtureLevel())

	badMagic := append([]byte(nil), valid...)
	badMagic[PreambleSize] = 'X'

	truncatedBlock := valid[:len(valid)-10]

	cases := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"truncated_preamble", valid[:100], ErrTruncatedInput},
		{"truncated_header", valid[:PreambleSize+40], ErrTruncatedInput},
		{"bad_magic", badMagic, ErrInvalidFormat},
		{"truncated_block", truncatedBlock, ErrTruncatedInput},
	}

	for _, c := range cases {
		for _, strict := range []bool{true, false} {
			name := c.name + "_lenient"
			if strict {
				name = c.name + "_strict"
			}
			t.Run(name, func(t *testing.T) {
				_, err := ReadLevel(bytes.NewReader(c.data), -1, "castle1", strict)
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("expected %v, got %v", c.wantErr, err)
				}
			})
		}
	}
}

func TestReadLevelMLLETrailer(t *testing.T) {
	valid := marshalLevel(t, newFixtureLevel())
	payload := []byte("mlle payload")
	packed := zlibBytes(t, payload)

	trailer := binary.LittleEndian.AppendUint32(nil, mlleMagic)
	trailer = binary.LittleEndian.AppendUint32(trailer, 0x105)
	trailer = binary.LittleEndian.AppendUint32(trailer, uint32(len(packed)))
	trailer = binary.LittleEndian.AppendUint32(trailer, uint32(len(payload)))
	trailer = append(trailer, packed...)

	cases := []struct {
		name string
		tail []byte
	}{
		{"complete", trailer},
		{"short", trailer[:10]},
		{"foreign", []byte("JUNK")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data := append(append([]byte(nil), valid...), c.tail...)
			l, err := ReadLevel(bytes.NewReader(data), int64(len(valid)), "castle1", true)
			if err != nil {
				t.Fatalf("expected trailer to be ignored, got %v", err)
			}
			if l.Name != "Dungeon Dilemma" {
				t.Fatalf("unexpected name %q", l.Name)
			}
		})
	}
}

func TestLevelContext(t *testing.T) {
	var ctx events.Context = &Level{Token: "psych2", Version: TSF}
	if ctx.LevelToken() != "psych2" || !ctx.IsTSF() {
		t.Fatalf("unexpected context values")
	}
}
