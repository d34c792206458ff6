package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/jazz2conv/events"
	"github.com/milk9111/jazz2conv/jj2"
	"github.com/milk9111/jazz2conv/levels"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	atlasColumns = 64
	scrollSpeed  = 12
)

var eventColor = color.NRGBA{R: 0xff, G: 0x40, B: 0x40, A: 0x80}

type viewer struct {
	level *levels.Level
	order []int
	atlas *ebiten.Image
	tiles int

	camX, camY float64
	zoom       float64
	showEvents bool
	start      time.Time
}

func newViewer(lvl *levels.Level, ts *jj2.Tileset, zoom float64) *viewer {
	if zoom <= 0 {
		zoom = 1
	}
	return &viewer{
		level: lvl,
		order: lvl.DrawOrder(),
		atlas: ebiten.NewImageFromImage(ts.Atlas(atlasColumns, 1)),
		tiles: len(ts.Tiles),
		zoom:  zoom,
		start: time.Now(),
	}
}

func (v *viewer) tileImage(i int) *ebiten.Image {
	x, y := (i%atlasColumns)*jj2.TileSize, (i/atlasColumns)*jj2.TileSize
	return v.atlas.SubImage(image.Rect(x, y, x+jj2.TileSize, y+jj2.TileSize)).(*ebiten.Image)
}

func (v *viewer) Update() error {
	step := scrollSpeed / v.zoom
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		step *= 4
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		v.camX -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		v.camX += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		v.camY -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		v.camY += step
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.zoom = math.Min(v.zoom*2, 4)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		v.zoom = math.Max(v.zoom/2, 0.25)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		v.showEvents = !v.showEvents
	}
	v.camX = math.Max(v.camX, 0)
	v.camY = math.Max(v.camY, 0)
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	dark := v.level.DarknessColor
	screen.Fill(color.RGBA{R: dark[0], G: dark[1], B: dark[2], A: 0xff})

	elapsed := time.Since(v.start)
	for _, i := range v.order {
		v.drawLayer(screen, &v.level.Layers[i], elapsed)
	}
	if v.showEvents {
		v.drawEvents(screen)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\ntileset %s  x %.0f y %.0f  zoom %.2f\narrows/WASD scroll, +/- zoom, E events",
		v.level.Name, v.level.Tileset, v.camX/jj2.TileSize, v.camY/jj2.TileSize, v.zoom))
}

// layerOrigin returns the screen position of the top-left corner of layer.
func (v *viewer) layerOrigin(layer *levels.Layer, elapsed time.Duration) (float64, float64) {
	if layer.Category == jj2.LayerCategorySprite {
		return -v.camX, -v.camY
	}
	secs := elapsed.Seconds()
	x := float64(layer.OffsetX) - v.camX*float64(layer.SpeedX) - secs*float64(layer.AutoSpeedX)*jj2.TileSize
	y := float64(layer.OffsetY) - v.camY*float64(layer.SpeedY) - secs*float64(layer.AutoSpeedY)*jj2.TileSize
	return x, y
}

func (v *viewer) drawLayer(screen *ebiten.Image, layer *levels.Layer, elapsed time.Duration) {
	if layer.Width <= 0 || layer.Height <= 0 {
		return
	}
	ox, oy := v.layerOrigin(layer, elapsed)
	cols := int(math.Ceil(screenWidth/(jj2.TileSize*v.zoom))) + 1
	rows := int(math.Ceil(screenHeight/(jj2.TileSize*v.zoom))) + 1
	firstX := int(math.Floor(-ox / jj2.TileSize))
	firstY := int(math.Floor(-oy / jj2.TileSize))

	for ty := firstY; ty < firstY+rows; ty++ {
		y, ok := wrap(ty, int(layer.Height), layer.Flags&jj2.LayerTileY != 0)
		if !ok {
			continue
		}
		for tx := firstX; tx < firstX+cols; tx++ {
			x, ok := wrap(tx, int(layer.Width), layer.Flags&jj2.LayerTileX != 0)
			if !ok {
				continue
			}
			ref := v.resolve(layer.Tile(x, y), elapsed)
			if ref.Index == 0 || ref.Invisible || int(ref.Index) >= v.tiles {
				continue
			}
			v.drawTile(screen, ref, ox+float64(tx*jj2.TileSize), oy+float64(ty*jj2.TileSize))
		}
	}
}

func wrap(i, n int, repeat bool) (int, bool) {
	if repeat {
		return ((i % n) + n) % n, true
	}
	return i, i >= 0 && i < n
}

func (v *viewer) resolve(ref jj2.TileRef, elapsed time.Duration) jj2.TileRef {
	if !ref.Animated {
		return ref
	}
	if int(ref.Index) >= len(v.level.AnimatedTiles) {
		return jj2.TileRef{}
	}
	frame := v.level.AnimatedTiles[ref.Index].FrameAt(elapsed)
	frame.FlipX = frame.FlipX != ref.FlipX
	frame.FlipY = frame.FlipY != ref.FlipY
	return frame
}

func (v *viewer) drawTile(screen *ebiten.Image, ref jj2.TileRef, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	if ref.FlipX {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(jj2.TileSize, 0)
	}
	if ref.FlipY {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, jj2.TileSize)
	}
	op.GeoM.Translate(x, y)
	op.GeoM.Scale(v.zoom, v.zoom)
	if ref.LegacyTranslucent {
		op.ColorScale.ScaleAlpha(0.7)
	}
	screen.DrawImage(v.tileImage(int(ref.Index)), op)
}

func (v *viewer) drawEvents(screen *ebiten.Image) {
	sprite := v.level.SpriteLayer()
	if sprite == nil {
		return
	}
	size := float32(jj2.TileSize * v.zoom / 2)
	for y := 0; y < int(sprite.Height); y++ {
		for x := 0; x < int(sprite.Width); x++ {
			if v.level.Event(x, y).Type == events.Empty {
				continue
			}
			sx := float32((float64(x*jj2.TileSize)-v.camX)*v.zoom) + size/2
			sy := float32((float64(y*jj2.TileSize)-v.camY)*v.zoom) + size/2
			if sx < -size || sy < -size || sx > screenWidth || sy > screenHeight {
				continue
			}
			vector.DrawFilledRect(screen, sx, sy, size, size, eventColor, false)
		}
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
