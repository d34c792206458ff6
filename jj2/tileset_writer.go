package jj2

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// TilesetFormatVersion is the version of the modern tileset format.
const TilesetFormatVersion uint16 = 1

// Convert writes the tileset in the modern format. The tile data follows the
// palette as a single zlib stream.
func (t *Tileset) Convert(w io.Writer) error {
	bw := newBinWriter(w)
	bw.u64(FileMagic)
	bw.u8(FileTypeTileset)
	bw.u16(TilesetFormatVersion)
	bw.u32(uint32(len(t.Tiles)))
	for _, c := range t.Palette {
		bw.u32(c)
	}
	if err := bw.Err(); err != nil {
		return err
	}

	zw := zlib.NewWriter(w)
	body := newBinWriter(zw)
	var mask [tileBitmapSize]byte
	for i := range t.Tiles {
		tile := &t.Tiles[i]
		if tile.Opaque {
			body.u8(1)
		} else {
			body.u8(0)
		}
		body.bytes(tile.Image[:])

		mask = [tileBitmapSize]byte{}
		for j, set := range tile.Mask {
			if set {
				mask[j/8] |= 1 << (j % 8)
			}
		}
		body.bytes(mask[:])
	}
	if err := body.Err(); err != nil {
		zw.Close()
		return err
	}
	return errors.Wrap(zw.Close(), "finish tile data")
}

// ConvertFile writes the converted tileset to path atomically.
func (t *Tileset) ConvertFile(path string) error {
	return WriteFileAtomic(path, t.Convert)
}

// TileImage returns tile i as a paletted image. Index 0 is transparent.
func (t *Tileset) TileImage(i int) *image.Paletted {
	pal := make(color.Palette, PaletteSize)
	for j := range pal {
		pal[j] = t.Color(uint8(j))
	}
	pal[0] = color.NRGBA{}

	img := image.NewPaletted(image.Rect(0, 0, TileSize, TileSize), pal)
	if i >= 0 && i < len(t.Tiles) {
		copy(img.Pix, t.Tiles[i].Image[:])
	}
	return img
}

// Atlas composes all tiles into one image, columns tiles wide. scale > 1
// enlarges each tile with nearest-neighbor sampling.
func (t *Tileset) Atlas(columns, scale int) *image.NRGBA {
	if columns <= 0 {
		columns = 16
	}
	if scale <= 0 {
		scale = 1
	}
	rows := (len(t.Tiles) + columns - 1) / columns
	size := TileSize * scale
	atlas := image.NewNRGBA(image.Rect(0, 0, columns*size, rows*size))

	for i := range t.Tiles {
		x, y := (i%columns)*size, (i/columns)*size
		dst := image.Rect(x, y, x+size, y+size)
		src := t.TileImage(i)
		if scale == 1 {
			draw.Draw(atlas, dst, src, image.Point{}, draw.Src)
		} else {
			draw.NearestNeighbor.Scale(atlas, dst, src, src.Bounds(), draw.Src, nil)
		}
	}
	return atlas
}

// WriteAtlasPNG encodes the atlas of the tileset as PNG.
func (t *Tileset) WriteAtlasPNG(w io.Writer, columns int) error {
	return errors.Wrap(png.Encode(w, t.Atlas(columns, 1)), "encode atlas")
}
