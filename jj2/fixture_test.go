package jj2

import (
	"bytes"
	"os"
	"testing"

	"github.com/milk9111/jazz2conv/events"
)

// newFixtureLevel returns a small base game level with two animated tiles,
// a used sprite layer and a used sky layer.
func newFixtureLevel() *Level {
	l := &Level{
		Token:         "castle1",
		Name:          "Dungeon Dilemma",
		Version:       BaseGame,
		LightingMin:   16,
		LightingStart: 64,
		AnimCount:     2,
		Tileset:       "Castle1.j2t",
		NextLevel:     "CASTLE1N.J2L",
		BonusLevel:    "labrat3",
		Music:         "Castle",
	}
	l.TextEvents[0] = "Hello@World"
	l.TextEvents[15] = "last"

	for i := range l.Layers {
		l.Layers[i] = Layer{Width: 1, Height: 1, SpeedX: 1, SpeedY: 1}
	}
	l.Layers[SpriteLayer] = Layer{
		Flags:         LayerTileX,
		Used:          true,
		Width:         6,
		InternalWidth: 8,
		Height:        2,
		Depth:         0,
		SpeedX:        1,
		SpeedY:        1,
		WaveX:         1.5,
	}
	l.Layers[SkyLayer] = Layer{
		Flags:          LayerTileX | LayerTileY | LayerTexturedBackground,
		Used:           true,
		Width:          4,
		InternalWidth:  4,
		Height:         1,
		Depth:          500,
		SpeedX:         0.25,
		SpeedY:         -0.5,
		AutoSpeedX:     2,
		TexturedType:   1,
		TexturedParam1: 10,
		TexturedParam2: 20,
		TexturedParam3: 30,
	}

	sprite := &l.Layers[SpriteLayer]
	sprite.Tiles = make([]uint16, 8*2)
	copy(sprite.Tiles, []uint16{
		1, 5, 6, 1022, 0x0400 | 2, 0x2000 | 3, 0, 0,
		7, 8, 9, 1023, 10, 11, 0, 0,
	})
	sky := &l.Layers[SkyLayer]
	sky.Tiles = []uint16{12, 13, 14, 15}
	for i := range l.Layers {
		if !l.Layers[i].Used {
			l.Layers[i].Tiles = make([]uint16, 1)
		}
	}

	l.StaticTiles = make([]StaticTile, l.MaxTiles())
	l.StaticTiles[5].Type = TileTypeTranslucent
	l.StaticTiles[6].Type = TileTypeInvisible
	l.StaticTiles[9].Flipped = true
	l.StaticTiles[9].Event = TileEvent{Type: events.JJ2Hurt, Difficulty: DifficultyHard, Params: 0x12345}

	l.AnimatedTiles = []AnimatedTile{
		{Delay: 3, Speed: 10, FrameCount: 2, Frames: [AnimFrameCount]uint16{4, 1023}},
		{Delay: 1, DelayJitter: 2, ReverseDelay: 5, Reverse: true, Speed: 8, FrameCount: 1, Frames: [AnimFrameCount]uint16{5}},
	}

	l.Events = make([]TileEvent, 6*2)
	l.Events[1] = TileEvent{Type: events.JJ2SpringRed, Difficulty: DifficultyHard, Params: 0x01}
	l.Events[2] = TileEvent{Type: events.JJ2Carrot, Illuminate: true}
	l.Events[7] = TileEvent{Type: events.JJ2WarpOrigin, Difficulty: DifficultyMultiplayer, Params: 1<<16 | 3}
	l.Events[11] = TileEvent{Type: events.JJ2MCE}
	return l
}

func marshalLevel(t *testing.T, l *Level) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := l.MarshalLegacy(&buf); err != nil {
		t.Fatalf("MarshalLegacy: %v", err)
	}
	return buf.Bytes()
}

func parseLevel(t *testing.T, data []byte, strict bool) *Level {
	t.Helper()
	l, err := ReadLevel(bytes.NewReader(data), int64(len(data)), "castle1", strict)
	if err != nil {
		t.Fatalf("ReadLevel: %v", err)
	}
	return l
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
