package jj2

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/milk9111/jazz2conv/events"
)

func TestDifficultyFlags(t *testing.T) {
	cases := []struct {
		name string
		d    Difficulty
		want uint8
	}{
		{"all", DifficultyAll, EventEasy | EventNormal | EventHard},
		{"easy", DifficultyEasy, EventEasy},
		{"hard", DifficultyHard, EventHard},
		{"multiplayer", DifficultyMultiplayer, EventEasy | EventHard | EventMultiplayer},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DifficultyFlags(c.d); got != c.want {
				t.Fatalf("expected %#x, got %#x", c.want, got)
			}
		})
	}
}

func TestResolveFrame(t *testing.T) {
	// Three animated tiles starting at 1021. Tile 0 points at tile 1, which
	// points at tile 2, whose first frame is static tile 7.
	chain := &Level{Version: BaseGame, AnimCount: 3}
	chain.StaticTiles = make([]StaticTile, 1024)
	chain.StaticTiles[7].Type = TileTypeTranslucent
	chain.AnimatedTiles = []AnimatedTile{
		{FrameCount: 1, Frames: [AnimFrameCount]uint16{1022}},
		{FrameCount: 1, Frames: [AnimFrameCount]uint16{1023}},
		{FrameCount: 1, Frames: [AnimFrameCount]uint16{7}},
	}

	cycle := &Level{Version: BaseGame, AnimCount: 2}
	cycle.AnimatedTiles = []AnimatedTile{
		{FrameCount: 1, Frames: [AnimFrameCount]uint16{1023}},
		{FrameCount: 1, Frames: [AnimFrameCount]uint16{1022}},
	}

	cases := []struct {
		name  string
		level *Level
		raw   uint16
		want  TileRef
	}{
		{"static", chain, 4, TileRef{Index: 4}},
		{"static_flipped", chain, 0x0400 | 4, TileRef{Index: 4, FlipX: true}},
		{"one_hop", chain, 1023, TileRef{Index: 7, LegacyTranslucent: true}},
		{"two_hops", chain, 1021, TileRef{Index: 7, LegacyTranslucent: true}},
		{"two_hops_flipped", chain, 0x0400 | 1021, TileRef{Index: 7, FlipX: true, LegacyTranslucent: true}},
		{"cycle", cycle, 1022, TileRef{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.level.ResolveFrame(c.raw); got != c.want {
				t.Fatalf("ResolveFrame(%#x): expected %+v, got %+v", c.raw, c.want, got)
			}
		})
	}
}

func TestLevelReference(t *testing.T) {
	tokens := func(level string) LevelToken {
		if level == "castle1n" {
			return LevelToken{Episode: "prince", Level: "02_castle1n"}
		}
		return LevelToken{Level: level}
	}

	cases := []struct {
		name   string
		ref    string
		tokens TokenConversion
		want   string
	}{
		{"empty", "", tokens, ""},
		{"no_conversion", "CASTLE1N.J2L", nil, "castle1n"},
		{"lev_suffix", "Old.LEV", nil, "old"},
		{"episode_qualified", "Castle1N.j2l", tokens, "prince/02_castle1n"},
		{"unknown", "custom", tokens, "custom"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := LevelReference(c.ref, c.tokens); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestLevelFlags(t *testing.T) {
	cases := []struct {
		name  string
		level Level
		want  uint16
	}{
		{"none", Level{}, 0},
		{"pit_split", Level{HasPit: true, VerticalSplitscreen: true}, FlagHasPit | FlagVerticalSplitscreen},
		{"laps_without_multiplayer", Level{HasLaps: true, HasCTF: true}, 0},
		{"multiplayer", Level{Multiplayer: true, HasLaps: true, HasCTF: true}, FlagMultiplayer | FlagHasLaps | FlagHasCTF},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.level.Flags(); got != c.want {
				t.Fatalf("expected %#x, got %#x", c.want, got)
			}
		})
	}
}

func TestMusicAndTilesetNames(t *testing.T) {
	l := &Level{Music: "Castle", Tileset: "Castle1.J2T"}
	if got := l.MusicName(); got != "castle.j2b" {
		t.Fatalf("expected castle.j2b, got %q", got)
	}
	if got := l.TilesetName(); got != "castle1" {
		t.Fatalf("expected castle1, got %q", got)
	}
	l.Music = "Boss.IT"
	if got := l.MusicName(); got != "boss.it" {
		t.Fatalf("expected boss.it, got %q", got)
	}
}

func TestConvertWritesHeader(t *testing.T) {
	l := parseLevel(t, marshalLevel(t, newFixtureLevel()), true)
	tokens := func(level string) LevelToken {
		return LevelToken{Episode: "prince", Level: "02_" + level}
	}

	var buf bytes.Buffer
	if err := l.Convert(&buf, events.NewConverter(), tokens); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	b := NewBlock(buf.Bytes())
	if magic := uint64(b.ReadUint32()) | uint64(b.ReadUint32())<<32; magic != FileMagic {
		t.Fatalf("unexpected magic %#x", magic)
	}
	if v := b.ReadUint8(); v != LevelFormatVersion {
		t.Fatalf("unexpected version %d", v)
	}
	if f := b.ReadUint16(); f != FlagHasPit {
		t.Fatalf("expected pit flag only, got %#x", f)
	}

	str8 := func() string {
		n := int(b.ReadUint8())
		return string(b.ReadRaw(n))
	}
	want := []string{"Dungeon Dilemma", "prince/02_castle1n", "", "prince/02_labrat3", "castle1", "castle.j2b"}
	for i, w := range want {
		if got := str8(); got != w {
			t.Fatalf("string %d: expected %q, got %q", i, w, got)
		}
	}
	if ambient := b.ReadUint8(); ambient != 255 {
		t.Fatalf("expected ambient 255, got %d", ambient)
	}
	if dark := b.ReadRaw(4); !bytes.Equal(dark, []byte{0, 0, 0, 255}) {
		t.Fatalf("unexpected darkness %v", dark)
	}
	b.ReadUint8() // weather
	if n := b.ReadUint8(); n != TextEventStringsCount {
		t.Fatalf("expected %d text events, got %d", TextEventStringsCount, n)
	}
	n := int(b.ReadUint16())
	if text := string(b.ReadRaw(n)); text != "Hello\nWorld" {
		t.Fatalf("expected newline substitution, got %q", text)
	}
	if b.Err() != nil {
		t.Fatalf("unexpected read error: %v", b.Err())
	}
}

func TestConvertFileIsAtomic(t *testing.T) {
	l := parseLevel(t, marshalLevel(t, newFixtureLevel()), true)
	path := filepath.Join(t.TempDir(), "castle1.j2l")
	if err := l.ConvertFile(path, events.NewConverter(), nil); err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}

	var buf bytes.Buffer
	if err := l.Convert(&buf, events.NewConverter(), nil); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	got := readFile(t, path)
	if !bytes.Equal(got, buf.Bytes()) {
		t.Fatalf("file content differs from stream output")
	}
}

func TestConvertWritesEventGrid(t *testing.T) {
	src := newFixtureLevel()
	src.Layers[SpriteLayer] = Layer{Used: true, Width: 3, InternalWidth: 4, Height: 1, SpeedX: 1, SpeedY: 1, Tiles: make([]uint16, 4)}
	src.Events = []TileEvent{
		{Type: events.JJ2Carrot, Difficulty: DifficultyAll, Illuminate: true},
		{Type: events.JJ2Generator, Difficulty: DifficultyHard, Params: uint32(events.JJ2Echo) | 5<<8 | 1<<16},
		{Type: events.JJ2WarpTarget, Difficulty: DifficultyEasy, Params: 7},
	}
	l := parseLevel(t, marshalLevel(t, src), false)

	var buf bytes.Buffer
	if err := l.Convert(&buf, events.NewConverter(), nil); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	carrot, warp := uint16(events.Carrot), uint16(events.WarpTarget)
	want := []byte{
		// carrot: easy|normal|hard|illuminate|no params
		byte(carrot), byte(carrot >> 8), 0x75,
		// generator around an unsupported event: empty type, hard|no params|generator,
		// initial delay flag, delay
		0, 0, 0x43, 0x01, 5,
		// warp target: easy only, then the 16-byte param block
		byte(warp), byte(warp >> 8), 0x10, 7, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	out := buf.Bytes()
	if len(out) < len(want) {
		t.Fatalf("output too short: %d bytes", len(out))
	}
	if got := out[len(out)-len(want):]; !bytes.Equal(got, want) {
		t.Fatalf("expected event grid % x, got % x", want, got)
	}
}
