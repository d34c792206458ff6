package jj2

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/jazz2conv/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// PreambleSize is the copyright notice in front of every legacy container.
	PreambleSize = 180
	// HeaderSize is the fixed header that follows the preamble.
	HeaderSize = 262 - PreambleSize

	LayerCount            = 8
	SpriteLayer           = 3
	SkyLayer              = 7
	TextEventStringsCount = 16
	AnimFrameCount        = 64

	levelMagic = 0x4C56454C // LEVL
	mlleMagic  = 0x454C4C4D // MLLE

	levelNameSize = 32
	textEventSize = 512
)

// Version distinguishes the base game containers from the extended ones.
type Version uint8

const (
	BaseGame Version = iota
	TSF
)

func levelVersion(raw uint16) Version {
	if raw <= 514 {
		return BaseGame
	}
	return TSF
}

// MaxTiles returns the size of the combined tile index space.
func (v Version) MaxTiles() uint16 {
	if v == BaseGame {
		return 1024
	}
	return 4096
}

func (v Version) String() string {
	if v == BaseGame {
		return "base"
	}
	return "tsf"
}

// Difficulty is the legacy difficulty field of an event.
type Difficulty uint8

const (
	DifficultyAll Difficulty = iota
	DifficultyEasy
	DifficultyHard
	DifficultyMultiplayer
)

// TileEvent is a legacy event with its packed parameter word.
type TileEvent struct {
	Type       events.Legacy
	Difficulty Difficulty
	Illuminate bool
	Params     uint32
}

// DecodeTileEvent decodes an event word from the static tile table.
func DecodeTileEvent(raw uint32) TileEvent {
	return TileEvent{
		Type:       events.Legacy(raw & 0xFF),
		Difficulty: Difficulty((raw >> 14) & 0x03),
		Illuminate: raw&0x2000 != 0,
		Params:     ((raw >> 12) & 0x000FFFF0) | ((raw >> 8) & 0x0F),
	}
}

// DecodeLayerEvent decodes an event word from the sprite layer event grid.
func DecodeLayerEvent(raw uint32) TileEvent {
	return TileEvent{
		Type:       events.Legacy(raw & 0xFF),
		Difficulty: Difficulty((raw >> 8) & 0x03),
		Illuminate: raw&0x0400 != 0,
		Params:     (raw & 0xFFFFF000) >> 12,
	}
}

// StaticTile holds the per-tile properties of the tile table.
type StaticTile struct {
	Event   TileEvent
	Flipped bool
	Type    uint8
}

// Legacy tile types.
const (
	TileTypeTranslucent = 1
	TileTypeInvisible   = 3
)

// AnimatedTile is one entry of the animated tile table.
type AnimatedTile struct {
	Delay        uint16
	DelayJitter  uint16
	ReverseDelay uint16
	Reverse      bool
	Speed        uint8
	FrameCount   uint8
	Frames       [AnimFrameCount]uint16
}

// Layer is one of the eight tile layers.
type Layer struct {
	Flags          uint32
	Type           uint8
	Used           bool
	Width          int32
	InternalWidth  int32
	Height         int32
	Depth          int32
	DetailLevel    uint8
	WaveX          float32
	WaveY          float32
	SpeedX         float32
	SpeedY         float32
	AutoSpeedX     float32
	AutoSpeedY     float32
	TexturedType   uint8
	TexturedParam1 uint8
	TexturedParam2 uint8
	TexturedParam3 uint8

	// Tiles is row-major with a stride of Stride().
	Tiles []uint16
}

// Layer flag bits.
const (
	LayerTileX              = 0x01
	LayerTileY              = 0x02
	LayerLimitVisibleRegion = 0x04
	LayerTexturedBackground = 0x08
)

// Stride returns the row stride of the tile grid.
func (l *Layer) Stride() int {
	if l.Used {
		return int(l.InternalWidth)
	}
	return int(l.Width)
}

// Tile returns the raw cell at x, y.
func (l *Layer) Tile(x, y int) uint16 {
	i := x + y*l.Stride()
	if x < 0 || y < 0 || i >= len(l.Tiles) {
		return 0
	}
	return l.Tiles[i]
}

// Level is a parsed legacy level.
type Level struct {
	// Token is the lower-cased file name without extension.
	Token   string
	Name    string
	Version Version

	LightingMin   uint8
	LightingStart uint8
	AnimCount     uint16

	VerticalSplitscreen bool
	Multiplayer         bool

	Tileset     string
	BonusLevel  string
	NextLevel   string
	SecretLevel string
	Music       string
	TextEvents  [TextEventStringsCount]string

	Layers        [LayerCount]Layer
	StaticTiles   []StaticTile
	AnimatedTiles []AnimatedTile

	// Events covers the sprite layer, row-major with its logical width.
	Events []TileEvent

	HasPit  bool
	HasCTF  bool
	HasLaps bool
}

// LevelToken implements events.Context.
func (l *Level) LevelToken() string { return l.Token }

// IsTSF implements events.Context.
func (l *Level) IsTSF() bool { return l.Version == TSF }

// MaxTiles returns the size of the combined tile index space.
func (l *Level) MaxTiles() uint16 { return l.Version.MaxTiles() }

// TileSpace returns the index space used by layer cells and animation frames.
func (l *Level) TileSpace() TileSpace {
	return TileSpace{MaxTiles: l.MaxTiles(), AnimCount: l.AnimCount}
}

// Event returns the event at x, y of the sprite layer.
func (l *Level) Event(x, y int) TileEvent {
	w := int(l.Layers[SpriteLayer].Width)
	i := x + y*w
	if x < 0 || y < 0 || x >= w || i >= len(l.Events) {
		return TileEvent{}
	}
	return l.Events[i]
}

// TokenFromPath returns the lower-cased base name of path without extension.
func TokenFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// OpenLevel parses the legacy level at path.
func OpenLevel(path string, strict bool) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open level")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat level")
	}

	lvl, err := ReadLevel(f, info.Size(), TokenFromPath(path), strict)
	if err != nil {
		return nil, errors.Wrapf(err, "level %q", path)
	}
	return lvl, nil
}

// ReadLevel parses a legacy level from r. size is the total stream length used
// for the strict size check; pass a negative value when it is unknown.
func ReadLevel(r io.Reader, size int64, token string, strict bool) (*Level, error) {
	if _, err := io.CopyN(io.Discard, r, PreambleSize); err != nil {
		return nil, errors.Wrap(ErrTruncatedInput, "skip preamble")
	}

	hdr, err := NewHeaderBlock(r, HeaderSize)
	if err != nil {
		return nil, err
	}

	if magic := hdr.ReadUint32(); magic != levelMagic {
		return nil, errors.Wrapf(ErrInvalidFormat, "level magic %#08x", magic)
	}
	hdr.DiscardBytes(4) // password hash

	lvl := &Level{Token: token}
	lvl.Name = hdr.ReadString(levelNameSize, FixedString)
	lvl.Version = levelVersion(hdr.ReadUint16())

	recordedSize := hdr.ReadInt32()
	if size >= 0 && int64(recordedSize) != size {
		err := errors.Wrapf(ErrSizeMismatch, "recorded %d, actual %d", recordedSize, size)
		if err := advisory(strict, err); err != nil {
			return nil, err
		}
	}
	hdr.DiscardBytes(4) // CRC, not validated

	var sizes [4][2]int32
	for i := range sizes {
		sizes[i][0] = hdr.ReadInt32()
		sizes[i][1] = hdr.ReadInt32()
	}
	if err := hdr.Err(); err != nil {
		return nil, err
	}

	var blocks [4]*Block
	for i, s := range sizes {
		blocks[i], err = NewCompressedBlock(r, s[0], s[1])
		if err != nil {
			return nil, errors.Wrapf(err, "level block %d", i)
		}
	}
	info, evts, dict, layout := blocks[0], blocks[1], blocks[2], blocks[3]

	if err := lvl.loadMetadata(info, strict); err != nil {
		return nil, err
	}
	if err := lvl.loadEvents(evts); err != nil {
		return nil, err
	}
	if err := lvl.loadLayers(dict, int(sizes[2][1])/8, layout); err != nil {
		return nil, err
	}

	lvl.loadMLLE(r)
	return lvl, nil
}

// loadMLLE consumes the optional trailer written by the MLLE editor
// extension. Its content is not used.
func (l *Level) loadMLLE(r io.Reader) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return
	}
	trailer := NewBlock(magic[:])
	if trailer.ReadUint32() != mlleMagic {
		return
	}

	hdr, err := NewHeaderBlock(r, 12)
	if err != nil {
		log.Warn().Str("token", l.Token).Msg("jj2: short MLLE trailer")
		return
	}
	version := hdr.ReadUint32()
	packed, unpacked := hdr.ReadInt32(), hdr.ReadInt32()
	if _, err := NewCompressedBlock(r, packed, unpacked); err != nil {
		log.Warn().Err(err).Str("token", l.Token).Uint32("version", version).Msg("jj2: unreadable MLLE data")
		return
	}
	log.Debug().Str("token", l.Token).Uint32("version", version).Msg("jj2: skipped MLLE data")
}
