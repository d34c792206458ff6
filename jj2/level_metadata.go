package jj2

import (
	"github.com/milk9111/jazz2conv/events"
	"github.com/pkg/errors"
)

// layerColumn is one column of the layer metadata table. The file stores
// each column for all eight layers before the next column starts; a column
// with several accessors stores them interleaved per layer.
type layerColumn []func(*Layer) any

// layerFields lists the layer metadata columns in file order. Accessors
// return pointers; *float32 fields use the 16.16 encoding.
var layerFields = []layerColumn{
	{func(l *Layer) any { return &l.Flags }},
	{func(l *Layer) any { return &l.Type }},
	{func(l *Layer) any { return &l.Used }},
	{func(l *Layer) any { return &l.Width }},
	{func(l *Layer) any { return &l.InternalWidth }},
	{func(l *Layer) any { return &l.Height }},
	{func(l *Layer) any { return &l.Depth }},
	{func(l *Layer) any { return &l.DetailLevel }},
	{func(l *Layer) any { return &l.WaveX }},
	{func(l *Layer) any { return &l.WaveY }},
	{func(l *Layer) any { return &l.SpeedX }},
	{func(l *Layer) any { return &l.SpeedY }},
	{func(l *Layer) any { return &l.AutoSpeedX }},
	{func(l *Layer) any { return &l.AutoSpeedY }},
	{func(l *Layer) any { return &l.TexturedType }},
	{
		func(l *Layer) any { return &l.TexturedParam1 },
		func(l *Layer) any { return &l.TexturedParam2 },
		func(l *Layer) any { return &l.TexturedParam3 },
	},
}

func readLayerField(b *Block, field any) {
	switch p := field.(type) {
	case *uint32:
		*p = b.ReadUint32()
	case *int32:
		*p = b.ReadInt32()
	case *uint8:
		*p = b.ReadUint8()
	case *bool:
		*p = b.ReadBool()
	case *float32:
		*p = b.ReadFloatEncoded()
	default:
		panic(errors.Errorf("jj2: unsupported layer field %T", field))
	}
}

func (l *Level) loadLayerMetadata(b *Block) {
	for _, col := range layerFields {
		for i := range l.Layers {
			for _, get := range col {
				readLayerField(b, get(&l.Layers[i]))
			}
		}
	}
}

func (l *Level) loadMetadata(b *Block, strict bool) error {
	b.DiscardBytes(9) // editor camera position

	l.LightingMin = b.ReadUint8()
	l.LightingStart = b.ReadUint8()
	l.AnimCount = b.ReadUint16()
	l.VerticalSplitscreen = b.ReadBool()
	l.Multiplayer = b.ReadBool()
	b.DiscardBytes(4) // header size

	secondName := b.ReadString(levelNameSize, FixedString)
	l.Tileset = b.ReadString(levelNameSize, FixedString)
	l.BonusLevel = b.ReadString(levelNameSize, FixedString)
	l.NextLevel = b.ReadString(levelNameSize, FixedString)
	l.SecretLevel = b.ReadString(levelNameSize, FixedString)
	l.Music = b.ReadString(levelNameSize, FixedString)
	for i := range l.TextEvents {
		l.TextEvents[i] = b.ReadString(textEventSize, FixedString)
	}
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "level info")
	}

	if secondName != l.Name {
		err := errors.Wrapf(ErrLevelNameMismatch, "header %q, info %q", l.Name, secondName)
		if err := advisory(strict, err); err != nil {
			return err
		}
	}

	maxTiles := l.MaxTiles()
	if l.AnimCount > maxTiles {
		return errors.Wrapf(ErrInvalidFormat, "%d animated tiles exceed %d", l.AnimCount, maxTiles)
	}

	l.loadLayerMetadata(b)

	staticCount := b.ReadUint16()
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "layer metadata")
	}
	if staticCount != maxTiles-l.AnimCount {
		err := errors.Wrapf(ErrTileCountMismatch, "%d static tiles, expected %d", staticCount, maxTiles-l.AnimCount)
		if err := advisory(strict, err); err != nil {
			return err
		}
	}

	l.StaticTiles = make([]StaticTile, maxTiles)
	for i := range l.StaticTiles {
		l.StaticTiles[i].Event = DecodeTileEvent(b.ReadUint32())
	}
	for i := range l.StaticTiles {
		l.StaticTiles[i].Flipped = b.ReadBool()
	}
	for i := range l.StaticTiles {
		l.StaticTiles[i].Type = b.ReadUint8()
	}
	b.DiscardBytes(int(maxTiles)) // XMask

	l.AnimatedTiles = make([]AnimatedTile, l.AnimCount)
	for i := range l.AnimatedTiles {
		t := &l.AnimatedTiles[i]
		t.Delay = b.ReadUint16()
		t.DelayJitter = b.ReadUint16()
		t.ReverseDelay = b.ReadUint16()
		t.Reverse = b.ReadBool()
		t.Speed = b.ReadUint8()
		t.FrameCount = b.ReadUint8()
		for j := range t.Frames {
			t.Frames[j] = b.ReadUint16()
		}
	}
	return errors.Wrap(b.Err(), "tile tables")
}

func (l *Level) validateLayers() error {
	for i := range l.Layers {
		layer := &l.Layers[i]
		if layer.Width < 0 || layer.Height < 0 || layer.InternalWidth < 0 {
			return errors.Wrapf(ErrInvalidFormat, "layer %d size %dx%d", i, layer.Width, layer.Height)
		}
		if int64(layer.Width)*int64(layer.Height) > maxBlockSize {
			return errors.Wrapf(ErrInvalidFormat, "layer %d size %dx%d", i, layer.Width, layer.Height)
		}
		if layer.Used && (layer.InternalWidth < layer.Width || layer.InternalWidth%4 != 0) {
			return errors.Wrapf(ErrInvalidFormat, "layer %d internal width %d for width %d", i, layer.InternalWidth, layer.Width)
		}
		if layer.Used && int64(layer.InternalWidth)*int64(layer.Height) > maxBlockSize {
			return errors.Wrapf(ErrInvalidFormat, "layer %d internal width %d", i, layer.InternalWidth)
		}
	}
	return nil
}

func (l *Level) loadEvents(b *Block) error {
	if err := l.validateLayers(); err != nil {
		return err
	}

	sprite := &l.Layers[SpriteLayer]
	width, height := int(sprite.Width), int(sprite.Height)
	if width <= 0 || height <= 0 {
		return nil
	}

	l.Events = make([]TileEvent, width*height)
	for i := range l.Events {
		l.Events[i] = DecodeLayerEvent(b.ReadUint32())
	}
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "event grid")
	}

	l.HasPit = l.Events[len(l.Events)-1].Type == events.JJ2MCE
	for _, e := range l.Events {
		switch e.Type {
		case events.JJ2CTFBase:
			l.HasCTF = true
		case events.JJ2WarpOrigin:
			if (e.Params>>16)&1 == 1 {
				l.HasLaps = true
			}
		}
	}
	return nil
}

func (l *Level) loadLayers(dict *Block, dictLen int, layout *Block) error {
	dictionary := make([][4]uint16, dictLen)
	for i := range dictionary {
		for j := range dictionary[i] {
			dictionary[i][j] = dict.ReadUint16()
		}
	}
	if err := dict.Err(); err != nil {
		return errors.Wrap(err, "tile dictionary")
	}

	for i := range l.Layers {
		layer := &l.Layers[i]
		if !layer.Used {
			layer.Tiles = make([]uint16, int(layer.Width)*int(layer.Height))
			continue
		}

		stride := int(layer.InternalWidth)
		layer.Tiles = make([]uint16, stride*int(layer.Height))
		for y := 0; y < int(layer.Height); y++ {
			for x := 0; x < stride; x += 4 {
				idx := int(layout.ReadUint16())
				if err := layout.Err(); err != nil {
					return errors.Wrapf(err, "layer %d layout", i)
				}
				if idx >= len(dictionary) {
					return errors.Wrapf(ErrInvalidFormat, "layer %d references word %d of %d", i, idx, len(dictionary))
				}
				for j, tile := range dictionary[idx] {
					if x+j >= int(layer.Width) {
						break
					}
					layer.Tiles[x+j+y*stride] = tile
				}
			}
		}
	}
	return nil
}
