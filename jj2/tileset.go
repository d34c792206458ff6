package jj2

import (
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	tilesetMagic     = 0x454C4954 // TILE
	tilesetSignature = 0xAFBEADDE

	TileSize       = 32
	TilePixels     = TileSize * TileSize
	tileBitmapSize = TilePixels / 8
	PaletteSize    = 256
)

func tilesetVersion(raw uint16) Version {
	if raw <= 512 {
		return BaseGame
	}
	return TSF
}

// TilesetTile is one 32x32 tile of a tileset.
type TilesetTile struct {
	Opaque bool
	// Image holds palette indices. Pixels outside the transparency mask are 0.
	Image [TilePixels]uint8
	// Mask is the collision mask.
	Mask [TilePixels]bool
}

// Tileset is a parsed legacy tileset.
type Tileset struct {
	Token   string
	Name    string
	Version Version

	// Palette entries are 0xAABBGGRR.
	Palette [PaletteSize]uint32
	Tiles   []TilesetTile
}

// Color returns palette entry i as a color.
func (t *Tileset) Color(i uint8) color.NRGBA {
	c := t.Palette[i]
	return color.NRGBA{R: uint8(c), G: uint8(c >> 8), B: uint8(c >> 16), A: uint8(c >> 24)}
}

// invertAlpha converts the legacy palette alpha, where 0 is opaque.
func invertAlpha(c uint32) uint32 {
	return (c & 0x00FFFFFF) | (255-(c>>24))<<24
}

// OpenTileset parses the legacy tileset at path.
func OpenTileset(path string, strict bool) (*Tileset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open tileset")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat tileset")
	}

	ts, err := ReadTileset(f, info.Size(), TokenFromPath(path), strict)
	if err != nil {
		return nil, errors.Wrapf(err, "tileset %q", path)
	}
	return ts, nil
}

// ReadTileset parses a legacy tileset from r.
func ReadTileset(r io.Reader, size int64, token string, strict bool) (*Tileset, error) {
	if _, err := io.CopyN(io.Discard, r, PreambleSize); err != nil {
		return nil, errors.Wrap(ErrTruncatedInput, "skip preamble")
	}

	hdr, err := NewHeaderBlock(r, HeaderSize)
	if err != nil {
		return nil, err
	}
	if magic := hdr.ReadUint32(); magic != tilesetMagic {
		return nil, errors.Wrapf(ErrInvalidFormat, "tileset magic %#08x", magic)
	}
	if sig := hdr.ReadUint32(); sig != tilesetSignature {
		return nil, errors.Wrapf(ErrInvalidFormat, "tileset signature %#08x", sig)
	}

	ts := &Tileset{Token: token}
	ts.Name = hdr.ReadString(levelNameSize, FixedString)
	ts.Version = tilesetVersion(hdr.ReadUint16())

	recordedSize := hdr.ReadInt32()
	if size >= 0 && int64(recordedSize) != size {
		err := errors.Wrapf(ErrSizeMismatch, "recorded %d, actual %d", recordedSize, size)
		if err := advisory(strict, err); err != nil {
			return nil, err
		}
	}
	hdr.DiscardBytes(4) // CRC, not validated

	var blocks [4]*Block
	var sizes [4][2]int32
	for i := range sizes {
		sizes[i][0] = hdr.ReadInt32()
		sizes[i][1] = hdr.ReadInt32()
	}
	if err := hdr.Err(); err != nil {
		return nil, err
	}
	for i, s := range sizes {
		blocks[i], err = NewCompressedBlock(r, s[0], s[1])
		if err != nil {
			return nil, errors.Wrapf(err, "tileset block %d", i)
		}
	}

	if err := ts.load(blocks[0], blocks[1], blocks[2], blocks[3]); err != nil {
		return nil, err
	}
	return ts, nil
}

func (t *Tileset) load(info, images, alpha, masks *Block) error {
	maxTiles := int(t.Version.MaxTiles())

	for i := range t.Palette {
		t.Palette[i] = invertAlpha(info.ReadUint32())
	}

	count := int(info.ReadInt32())
	if count < 0 || count > maxTiles {
		return errors.Wrapf(ErrInvalidFormat, "tileset declares %d tiles", count)
	}

	opaque := make([]bool, maxTiles)
	for i := range opaque {
		opaque[i] = info.ReadBool()
	}
	info.DiscardBytes(maxTiles)

	readOffsets := func() []uint32 {
		offsets := make([]uint32, maxTiles)
		for i := range offsets {
			offsets[i] = info.ReadUint32()
		}
		info.DiscardBytes(4 * maxTiles)
		return offsets
	}
	imageOffsets := readOffsets()
	alphaOffsets := readOffsets()
	maskOffsets := readOffsets()
	if err := info.Err(); err != nil {
		return errors.Wrap(err, "tileset info")
	}

	t.Tiles = make([]TilesetTile, count)
	for i := range t.Tiles {
		tile := &t.Tiles[i]
		tile.Opaque = opaque[i]

		images.Seek(int(imageOffsets[i]))
		copy(tile.Image[:], images.ReadRaw(TilePixels))

		alpha.Seek(int(alphaOffsets[i]))
		bits := alpha.ReadRaw(tileBitmapSize)
		for j := range tile.Image {
			if bits != nil && !bitSet(bits, j) {
				tile.Image[j] = 0
			}
		}

		masks.Seek(int(maskOffsets[i]))
		if m := masks.ReadRaw(tileBitmapSize); m != nil {
			for j := range tile.Mask {
				tile.Mask[j] = bitSet(m, j)
			}
		}
	}

	for _, b := range []*Block{images, alpha, masks} {
		if err := b.Err(); err != nil {
			return errors.Wrap(err, "tile data")
		}
	}
	return nil
}

func bitSet(bits []byte, i int) bool {
	return bits[i/8]&(1<<(i%8)) != 0
}
