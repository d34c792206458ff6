package levels

import (
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
	"github.com/milk9111/jazz2conv/jj2"
	"github.com/pkg/errors"
)

const (
	tilesetHeaderSize = 8 + 1 + 2 + 4 + jj2.PaletteSize*4
	tileRecordSize    = 1 + jj2.TilePixels + jj2.TilePixels/8
	maxTilesetTiles   = 4096
)

// LoadTileset reads a converted tileset from disk.
func LoadTileset(path string) (*jj2.Tileset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open tileset")
	}
	defer f.Close()

	ts, err := ReadTileset(f)
	if err != nil {
		return nil, errors.Wrapf(err, "tileset %q", path)
	}
	ts.Token = jj2.TokenFromPath(path)
	return ts, nil
}

// ReadTileset parses a converted tileset from r.
func ReadTileset(r io.Reader) (*jj2.Tileset, error) {
	hdr, err := jj2.NewHeaderBlock(r, tilesetHeaderSize)
	if err != nil {
		return nil, err
	}
	if magic := hdr.ReadUint64(); magic != jj2.FileMagic {
		return nil, errors.Wrapf(jj2.ErrInvalidFormat, "tileset magic %#x", magic)
	}
	if typ := hdr.ReadUint8(); typ != jj2.FileTypeTileset {
		return nil, errors.Wrapf(jj2.ErrInvalidFormat, "file type %d", typ)
	}
	if v := hdr.ReadUint16(); v != jj2.TilesetFormatVersion {
		return nil, errors.Wrapf(jj2.ErrInvalidFormat, "tileset version %d", v)
	}
	count := hdr.ReadUint32()
	if count > maxTilesetTiles {
		return nil, errors.Wrapf(jj2.ErrInvalidFormat, "tileset declares %d tiles", count)
	}

	ts := &jj2.Tileset{Version: jj2.BaseGame}
	if count > uint32(jj2.BaseGame.MaxTiles()) {
		ts.Version = jj2.TSF
	}
	for i := range ts.Palette {
		ts.Palette[i] = hdr.ReadUint32()
	}

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errors.Wrapf(jj2.ErrDecompressionFailed, "open tile data: %v", err)
	}
	defer zr.Close()

	body := make([]byte, int(count)*tileRecordSize)
	if _, err := io.ReadFull(zr, body); err != nil {
		return nil, errors.Wrapf(jj2.ErrDecompressionFailed, "read %d tiles: %v", count, err)
	}

	ts.Tiles = make([]jj2.TilesetTile, count)
	b := jj2.NewBlock(body)
	for i := range ts.Tiles {
		tile := &ts.Tiles[i]
		tile.Opaque = b.ReadBool()
		copy(tile.Image[:], b.ReadRaw(jj2.TilePixels))
		mask := b.ReadRaw(jj2.TilePixels / 8)
		for j := range tile.Mask {
			tile.Mask[j] = mask[j/8]&(1<<(j%8)) != 0
		}
	}
	return ts, nil
}
