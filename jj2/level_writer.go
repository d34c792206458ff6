package jj2

import (
	"io"
	"strings"

	"github.com/milk9111/jazz2conv/events"
)

// LevelFormatVersion is the version byte of the modern level format.
const LevelFormatVersion uint8 = 1

// Level flag bits of the modern format.
const (
	FlagHasPit              uint16 = 0x01
	FlagVerticalSplitscreen uint16 = 0x02
	FlagMultiplayer         uint16 = 0x10
	FlagHasLaps             uint16 = 0x20
	FlagHasCTF              uint16 = 0x40
)

// Event flag bits of the modern format.
const (
	EventNoParams    uint8 = 0x01
	EventGenerator   uint8 = 0x02
	EventIlluminate  uint8 = 0x04
	EventEasy        uint8 = 0x10
	EventNormal      uint8 = 0x20
	EventHard        uint8 = 0x40
	EventMultiplayer uint8 = 0x80

	EventDifficultyMask = EventEasy | EventNormal | EventHard | EventMultiplayer
)

// Layer categories of the modern format.
const (
	LayerCategoryOther  uint8 = 0
	LayerCategorySky    uint8 = 1
	LayerCategorySprite uint8 = 2
)

// DifficultyFlags derives the modern difficulty bits of a legacy event. The
// legacy field cannot express "normal only", so the bits are not exclusive.
func DifficultyFlags(d Difficulty) uint8 {
	var f uint8
	if d != DifficultyHard {
		f |= EventEasy
	}
	if d == DifficultyAll {
		f |= EventNormal
	}
	if d != DifficultyEasy {
		f |= EventHard
	}
	if d == DifficultyMultiplayer {
		f |= EventMultiplayer
	}
	return f
}

// LevelToken names a level inside an episode.
type LevelToken struct {
	Episode string
	Level   string
}

func (t LevelToken) String() string {
	if t.Episode == "" {
		return t.Level
	}
	return t.Episode + "/" + t.Level
}

// TokenConversion maps a legacy level reference to its converted location.
type TokenConversion func(level string) LevelToken

func trimSuffixFold(s string, suffixes ...string) string {
	for _, suffix := range suffixes {
		if len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
			return s[:len(s)-len(suffix)]
		}
	}
	return s
}

// LevelReference normalizes a level reference and applies tokens to it.
func LevelReference(name string, tokens TokenConversion) string {
	if name == "" {
		return ""
	}
	name = trimSuffixFold(strings.ToLower(name), ".j2l", ".lev")
	if tokens == nil {
		return name
	}
	return tokens(name).String()
}

// Flags returns the modern level flags.
func (l *Level) Flags() uint16 {
	var f uint16
	if l.HasPit {
		f |= FlagHasPit
	}
	if l.VerticalSplitscreen {
		f |= FlagVerticalSplitscreen
	}
	if l.Multiplayer {
		f |= FlagMultiplayer
		if l.HasLaps {
			f |= FlagHasLaps
		}
		if l.HasCTF {
			f |= FlagHasCTF
		}
	}
	return f
}

// TilesetName returns the lower-cased tileset reference without extension.
func (l *Level) TilesetName() string {
	return trimSuffixFold(strings.ToLower(l.Tileset), ".j2t")
}

// MusicName returns the lower-cased music reference with an extension.
func (l *Level) MusicName() string {
	music := strings.ToLower(l.Music)
	if music != "" && !strings.Contains(music, ".") {
		music += ".j2b"
	}
	return music
}

// resolveStatic marks legacy tile types on a static reference.
func (l *Level) resolveStatic(ref TileRef) TileRef {
	if ref.Animated || int(ref.Index) >= len(l.StaticTiles) {
		return ref
	}
	switch l.StaticTiles[ref.Index].Type {
	case TileTypeTranslucent:
		ref.LegacyTranslucent = true
	case TileTypeInvisible:
		ref.Invisible = true
	}
	return ref
}

// ResolveCell decodes a layer cell including the legacy tile type flags.
func (l *Level) ResolveCell(raw uint16) TileRef {
	return l.resolveStatic(l.TileSpace().DecodeCell(raw))
}

// ResolveFrame decodes an animation frame. A frame that points at another
// animated tile is replaced by that tile's first frame until a static tile is
// reached. Cycles resolve to static tile 0.
func (l *Level) ResolveFrame(raw uint16) TileRef {
	space := l.TileSpace()
	ref := space.DecodeIndex(raw)
	flipX := ref.FlipX
	for hops := 0; ref.Animated; hops++ {
		if hops >= len(l.AnimatedTiles) || int(ref.Index) >= len(l.AnimatedTiles) {
			ref = TileRef{}
			break
		}
		ref = space.DecodeIndex(l.AnimatedTiles[ref.Index].Frames[0])
		flipX = flipX != ref.FlipX
	}
	ref.FlipX = flipX
	return l.resolveStatic(ref)
}

func (l *Level) usedLayers() int {
	n := 0
	for i := range l.Layers {
		if l.Layers[i].Used {
			n++
		}
	}
	return n
}

// Convert writes the level in the modern format.
func (l *Level) Convert(w io.Writer, conv *events.Converter, tokens TokenConversion) error {
	bw := newBinWriter(w)

	bw.u64(FileMagic)
	bw.u8(LevelFormatVersion)
	bw.u16(l.Flags())

	bw.str8(l.Name)
	bw.str8(LevelReference(l.NextLevel, tokens))
	bw.str8(LevelReference(l.SecretLevel, tokens))
	bw.str8(LevelReference(l.BonusLevel, tokens))
	bw.str8(l.TilesetName())
	bw.str8(l.MusicName())

	bw.u8(uint8(int(l.LightingStart) * 255 / 64))
	bw.bytes([]byte{0, 0, 0, 255}) // darkness color
	bw.u8(0)                        // weather

	bw.u8(TextEventStringsCount)
	for _, text := range l.TextEvents {
		text = strings.ReplaceAll(text, "@", "\n")
		if len(text) > 0xFF {
			text = text[:0xFF]
		}
		bw.u16(uint16(len(text)))
		bw.bytes([]byte(text))
	}

	l.writeAnimatedTiles(bw)
	l.writeLayers(bw)
	if l.Layers[SpriteLayer].Used {
		l.writeEvents(bw, conv)
	}
	return bw.Err()
}

// ConvertFile writes the converted level to path atomically.
func (l *Level) ConvertFile(path string, conv *events.Converter, tokens TokenConversion) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return l.Convert(w, conv, tokens)
	})
}

func (l *Level) writeAnimatedTiles(bw *binWriter) {
	bw.u16(uint16(len(l.AnimatedTiles)))
	for i := range l.AnimatedTiles {
		t := &l.AnimatedTiles[i]
		bw.u8(t.FrameCount)
		bw.u8(t.Speed)
		bw.u16(t.Delay)
		bw.u16(t.DelayJitter)
		if t.Reverse {
			bw.u8(1)
		} else {
			bw.u8(0)
		}
		bw.u16(t.ReverseDelay)

		for j := 0; j < int(t.FrameCount) && j < AnimFrameCount; j++ {
			ref := l.ResolveFrame(t.Frames[j])
			bw.u8(ref.Flags())
			bw.u16(ref.Index)
		}
	}
}

func (l *Level) writeLayers(bw *binWriter) {
	bw.u8(uint8(l.usedLayers()))
	for i := range l.Layers {
		layer := &l.Layers[i]
		if !layer.Used {
			continue
		}

		isSprite, isSky := i == SpriteLayer, i == SkyLayer
		switch {
		case isSprite:
			bw.u8(LayerCategorySprite)
		case isSky:
			bw.u8(LayerCategorySky)
		default:
			bw.u8(LayerCategoryOther)
		}
		bw.u8(uint8(layer.Flags))
		bw.i32(layer.Width)
		bw.i32(layer.Height)

		if !isSprite {
			textured := layer.Flags&LayerTexturedBackground != 0
			if isSky && !textured {
				bw.f32(180)
				bw.f32(-300)
			} else {
				bw.f32(0)
				bw.f32(0)
			}
			bw.f32(layer.SpeedX)
			bw.f32(layer.SpeedY)
			bw.f32(layer.AutoSpeedX)
			bw.f32(layer.AutoSpeedY)
			bw.i16(int16(layer.Depth))

			if isSky && textured {
				bw.u8(layer.TexturedType + 1)
				bw.u8(layer.TexturedParam1)
				bw.u8(layer.TexturedParam2)
				bw.u8(layer.TexturedParam3)
			}
		}

		for y := 0; y < int(layer.Height); y++ {
			for x := 0; x < int(layer.Width); x++ {
				ref := l.ResolveCell(layer.Tile(x, y))
				bw.u8(ref.Flags())
				bw.u16(ref.Index)
			}
		}
	}
}

// EventFlags returns the modern flags byte of a legacy event, without the
// no-params and generator bits.
func EventFlags(e TileEvent) uint8 {
	f := DifficultyFlags(e.Difficulty)
	if e.Illuminate {
		f |= EventIlluminate
	}
	return f
}

func (l *Level) writeEvents(bw *binWriter, conv *events.Converter) {
	sprite := &l.Layers[SpriteLayer]
	for y := 0; y < int(sprite.Height); y++ {
		for x := 0; x < int(sprite.Width); x++ {
			e := l.Event(x, y)
			flags := EventFlags(e)

			var r events.Result
			if e.Type != events.JJ2Empty && conv != nil {
				r = conv.Convert(l, e.Type, e.Params)
			}
			bw.u16(uint16(r.Type))

			hasParams := r.Type != events.Empty && r.HasParams()
			if !hasParams {
				flags |= EventNoParams
			}
			if r.Generator != nil {
				bw.u8(flags | EventGenerator)
				bw.u8(r.Generator.Flags())
				bw.u8(r.Generator.Delay)
			} else {
				bw.u8(flags)
			}
			if hasParams {
				bw.bytes(r.Params[:])
			}
		}
	}
}
