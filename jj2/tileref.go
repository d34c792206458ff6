package jj2

// Tile flag bits of the modern level format.
const (
	TileFlipX             uint8 = 0x01
	TileFlipY             uint8 = 0x02
	TileAnimated          uint8 = 0x04
	TileLegacyTranslucent uint8 = 0x10
	TileInvisible         uint8 = 0x20
)

// cellFlipY is the flip-Y bit of a legacy layer cell.
const cellFlipY = 0x2000

// TileRef is a decoded reference into the combined static/animated tile space.
// Index is relative to the static tile table, or to the animated tile table
// when Animated is set.
type TileRef struct {
	Index             uint16
	FlipX             bool
	FlipY             bool
	Animated          bool
	LegacyTranslucent bool
	Invisible         bool
}

// Flags encodes the boolean fields into a modern tile flags byte.
func (t TileRef) Flags() uint8 {
	var f uint8
	if t.FlipX {
		f |= TileFlipX
	}
	if t.FlipY {
		f |= TileFlipY
	}
	if t.Animated {
		f |= TileAnimated
	}
	if t.LegacyTranslucent {
		f |= TileLegacyTranslucent
	}
	if t.Invisible {
		f |= TileInvisible
	}
	return f
}

// TileRefFromFlags is the inverse of Flags.
func TileRefFromFlags(flags uint8, index uint16) TileRef {
	return TileRef{
		Index:             index,
		FlipX:             flags&TileFlipX != 0,
		FlipY:             flags&TileFlipY != 0,
		Animated:          flags&TileAnimated != 0,
		LegacyTranslucent: flags&TileLegacyTranslucent != 0,
		Invisible:         flags&TileInvisible != 0,
	}
}

// TileSpace describes the combined index space of a level: MaxTiles slots of
// which the last AnimCount are animated tiles. The MaxTiles bit doubles as
// the flip-X bit.
type TileSpace struct {
	MaxTiles  uint16
	AnimCount uint16
}

// FirstAnimated returns the combined index of animated tile 0.
func (s TileSpace) FirstAnimated() uint16 {
	return s.MaxTiles - s.AnimCount
}

func (s TileSpace) mask() uint16 {
	return s.MaxTiles | (s.MaxTiles - 1)
}

// DecodeIndex splits a combined index with an optional flip-X bit.
func (s TileSpace) DecodeIndex(raw uint16) TileRef {
	var ref TileRef
	ref.FlipX = raw&s.MaxTiles != 0
	idx := raw & (s.MaxTiles - 1)
	if idx >= s.FirstAnimated() {
		ref.Animated = true
		idx -= s.FirstAnimated()
	}
	ref.Index = idx
	return ref
}

// DecodeCell decodes a legacy layer cell. Bits above the flip-X bit other
// than flip-Y are stray editor data and are folded into flip-X.
func (s TileSpace) DecodeCell(raw uint16) TileRef {
	flipY := raw&cellFlipY != 0
	raw &^= cellFlipY
	if raw&^s.mask() != 0 {
		raw = raw&s.mask() | s.MaxTiles
	}
	ref := s.DecodeIndex(raw)
	ref.FlipY = flipY
	return ref
}

// EncodeCell is the inverse of DecodeCell for references without stray bits.
func (s TileSpace) EncodeCell(ref TileRef) uint16 {
	raw := ref.Index
	if ref.Animated {
		raw += s.FirstAnimated()
	}
	if ref.FlipX {
		raw |= s.MaxTiles
	}
	if ref.FlipY {
		raw |= cellFlipY
	}
	return raw
}
