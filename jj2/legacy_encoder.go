package jj2

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Version numbers written by the legacy encoders.
const (
	legacyLevelVersionBase   = 514
	legacyLevelVersionTSF    = 515
	legacyTilesetVersionBase = 512
	legacyTilesetVersionTSF  = 513
)

var legacyPreamble = func() []byte {
	p := bytes.Repeat([]byte{' '}, PreambleSize)
	copy(p, "                      Jazz Jackrabbit 2 Data File\r\n\r\n         Retail distribution of this data is prohibited without\r\n             written permission from Epic MegaGames, Inc.\r\n\r\n\x1a")
	return p
}()

// EncodeTileEvent is the inverse of DecodeTileEvent.
func EncodeTileEvent(e TileEvent) uint32 {
	raw := uint32(e.Type) | uint32(e.Difficulty&0x03)<<14
	if e.Illuminate {
		raw |= 0x2000
	}
	raw |= (e.Params & 0x0F) << 8
	raw |= (e.Params & 0x000FFFF0) << 12
	return raw
}

// EncodeLayerEvent is the inverse of DecodeLayerEvent.
func EncodeLayerEvent(e TileEvent) uint32 {
	raw := uint32(e.Type) | uint32(e.Difficulty&0x03)<<8
	if e.Illuminate {
		raw |= 0x0400
	}
	return raw | (e.Params&0x000FFFFF)<<12
}

func (bw *binWriter) fixedString(s string, n int) {
	enc, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		enc = []byte(s)
	}
	buf := make([]byte, n)
	if len(enc) > n-1 {
		enc = enc[:n-1]
	}
	copy(buf, enc)
	bw.bytes(buf)
}

func (bw *binWriter) boolean(v bool) {
	if v {
		bw.u8(1)
	} else {
		bw.u8(0)
	}
}

func writeLayerField(bw *binWriter, field any) {
	switch p := field.(type) {
	case *uint32:
		bw.u32(*p)
	case *int32:
		bw.i32(*p)
	case *uint8:
		bw.u8(*p)
	case *bool:
		bw.boolean(*p)
	case *float32:
		bw.i32(int32(*p * 65536))
	default:
		panic(errors.Errorf("jj2: unsupported layer field %T", field))
	}
}

func compress(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(p); err != nil {
		return nil, errors.Wrap(err, "compress")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "compress")
	}
	return buf.Bytes(), nil
}

// writeContainer writes the preamble, a header built by head and the
// compressed blocks. head receives the total file size.
func writeContainer(w io.Writer, blocks [4][]byte, head func(bw *binWriter, size int32)) error {
	var packed [4][]byte
	size := PreambleSize + HeaderSize
	for i, b := range blocks {
		p, err := compress(b)
		if err != nil {
			return err
		}
		packed[i] = p
		size += len(p)
	}

	bw := newBinWriter(w)
	bw.bytes(legacyPreamble)
	head(bw, int32(size))
	bw.u32(0) // CRC
	for i := range packed {
		bw.i32(int32(len(packed[i])))
		bw.i32(int32(len(blocks[i])))
	}
	for _, p := range packed {
		bw.bytes(p)
	}
	return bw.Err()
}

// MarshalLegacy encodes the level as a legacy container. Tiles of used
// layers must be laid out with InternalWidth as stride.
func (l *Level) MarshalLegacy(w io.Writer) error {
	blocks, err := l.legacyBlocks()
	if err != nil {
		return err
	}
	return writeContainer(w, blocks, l.legacyHeader)
}

func (l *Level) legacyHeader(bw *binWriter, size int32) {
	bw.u32(levelMagic)
	bw.u32(0) // password hash
	bw.fixedString(l.Name, levelNameSize)
	if l.Version == TSF {
		bw.u16(legacyLevelVersionTSF)
	} else {
		bw.u16(legacyLevelVersionBase)
	}
	bw.i32(size)
}

// legacyBlocks returns the uncompressed info, event, dictionary and layout
// blocks.
func (l *Level) legacyBlocks() ([4][]byte, error) {
	maxTiles := int(l.MaxTiles())

	var info bytes.Buffer
	ib := newBinWriter(&info)
	ib.bytes(make([]byte, 9))
	ib.u8(l.LightingMin)
	ib.u8(l.LightingStart)
	ib.u16(l.AnimCount)
	ib.boolean(l.VerticalSplitscreen)
	ib.boolean(l.Multiplayer)
	ib.i32(0)
	ib.fixedString(l.Name, levelNameSize)
	ib.fixedString(l.Tileset, levelNameSize)
	ib.fixedString(l.BonusLevel, levelNameSize)
	ib.fixedString(l.NextLevel, levelNameSize)
	ib.fixedString(l.SecretLevel, levelNameSize)
	ib.fixedString(l.Music, levelNameSize)
	for _, text := range l.TextEvents {
		ib.fixedString(text, textEventSize)
	}
	for _, col := range layerFields {
		for i := range l.Layers {
			for _, get := range col {
				writeLayerField(ib, get(&l.Layers[i]))
			}
		}
	}
	ib.u16(uint16(maxTiles) - l.AnimCount)

	tile := func(i int) StaticTile {
		if i < len(l.StaticTiles) {
			return l.StaticTiles[i]
		}
		return StaticTile{}
	}
	for i := 0; i < maxTiles; i++ {
		ib.u32(EncodeTileEvent(tile(i).Event))
	}
	for i := 0; i < maxTiles; i++ {
		ib.boolean(tile(i).Flipped)
	}
	for i := 0; i < maxTiles; i++ {
		ib.u8(tile(i).Type)
	}
	ib.bytes(make([]byte, maxTiles))
	for i := 0; i < int(l.AnimCount); i++ {
		var t AnimatedTile
		if i < len(l.AnimatedTiles) {
			t = l.AnimatedTiles[i]
		}
		ib.u16(t.Delay)
		ib.u16(t.DelayJitter)
		ib.u16(t.ReverseDelay)
		ib.boolean(t.Reverse)
		ib.u8(t.Speed)
		ib.u8(t.FrameCount)
		for _, f := range t.Frames {
			ib.u16(f)
		}
	}
	if err := ib.Err(); err != nil {
		return [4][]byte{}, err
	}

	var evts bytes.Buffer
	eb := newBinWriter(&evts)
	sprite := &l.Layers[SpriteLayer]
	if sprite.Width > 0 && sprite.Height > 0 {
		for y := 0; y < int(sprite.Height); y++ {
			for x := 0; x < int(sprite.Width); x++ {
				eb.u32(EncodeLayerEvent(l.Event(x, y)))
			}
		}
	}

	dict, layout := l.encodeLayout()

	return [4][]byte{info.Bytes(), evts.Bytes(), dict, layout}, eb.Err()
}

// encodeLayout builds the four-tile word dictionary and the layout stream of
// the used layers. Word 0 is always the empty word.
func (l *Level) encodeLayout() (dict, layout []byte) {
	words := map[[4]uint16]uint16{{}: 0}
	var dictBuf, layoutBuf bytes.Buffer
	db, lb := newBinWriter(&dictBuf), newBinWriter(&layoutBuf)
	for i := 0; i < 4; i++ {
		db.u16(0)
	}

	for i := range l.Layers {
		layer := &l.Layers[i]
		if !layer.Used {
			continue
		}
		stride := int(layer.InternalWidth)
		for y := 0; y < int(layer.Height); y++ {
			for x := 0; x < stride; x += 4 {
				var word [4]uint16
				for j := range word {
					if x+j < int(layer.Width) {
						word[j] = layer.Tile(x+j, y)
					}
				}
				idx, ok := words[word]
				if !ok {
					idx = uint16(len(words))
					words[word] = idx
					for _, t := range word {
						db.u16(t)
					}
				}
				lb.u16(idx)
			}
		}
	}
	return dictBuf.Bytes(), layoutBuf.Bytes()
}

// MarshalLegacy encodes the tileset as a legacy container. Image pixels with
// index 0 are written as transparent.
func (t *Tileset) MarshalLegacy(w io.Writer) error {
	maxTiles := int(t.Version.MaxTiles())

	var info, images, alpha, masks bytes.Buffer
	ib := newBinWriter(&info)
	for _, c := range t.Palette {
		ib.u32(invertAlpha(c))
	}
	ib.i32(int32(len(t.Tiles)))
	for i := 0; i < maxTiles; i++ {
		ib.boolean(i < len(t.Tiles) && t.Tiles[i].Opaque)
	}
	ib.bytes(make([]byte, maxTiles))
	for _, stride := range []int{TilePixels, tileBitmapSize, tileBitmapSize} {
		for i := 0; i < maxTiles; i++ {
			if i < len(t.Tiles) {
				ib.u32(uint32(i * stride))
			} else {
				ib.u32(0)
			}
		}
		ib.bytes(make([]byte, 4*maxTiles))
	}
	if err := ib.Err(); err != nil {
		return err
	}

	for i := range t.Tiles {
		tile := &t.Tiles[i]
		images.Write(tile.Image[:])
		var a, m [tileBitmapSize]byte
		for j := 0; j < TilePixels; j++ {
			if tile.Image[j] != 0 {
				a[j/8] |= 1 << (j % 8)
			}
			if tile.Mask[j] {
				m[j/8] |= 1 << (j % 8)
			}
		}
		alpha.Write(a[:])
		masks.Write(m[:])
	}

	blocks := [4][]byte{info.Bytes(), images.Bytes(), alpha.Bytes(), masks.Bytes()}
	return writeContainer(w, blocks, func(bw *binWriter, size int32) {
		bw.u32(tilesetMagic)
		bw.u32(tilesetSignature)
		bw.fixedString(t.Name, levelNameSize)
		if t.Version == TSF {
			bw.u16(legacyTilesetVersionTSF)
		} else {
			bw.u16(legacyTilesetVersionBase)
		}
		bw.i32(size)
	})
}

// MarshalLegacy encodes the episode header with title dimensions.
func (e *Episode) MarshalLegacy(w io.Writer) error {
	bw := newBinWriter(w)
	bw.i32(episodeHeaderSize + episodeTitleDimsSize)
	bw.i32(e.Position)
	if e.Registered {
		bw.u32(episodeRegisteredFlag)
	} else {
		bw.u32(0)
	}
	bw.u32(0)
	bw.fixedString(e.DisplayName, episodeNameSize)
	bw.fixedString(e.FirstLevel, levelNameSize)
	bw.i32(e.TitleWidth)
	bw.i32(e.TitleHeight)
	return bw.Err()
}
