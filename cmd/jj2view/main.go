package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/jazz2conv/convert"
	"github.com/milk9111/jazz2conv/levels"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cache := flag.String("cache", "cache", "directory written by the converter")
	level := flag.String("level", "", "converted level, relative to <cache>/Episodes or absolute")
	difficulty := flag.String("difficulty", "normal", "difficulty used to filter events")
	scale := flag.Float64("scale", 1, "initial zoom")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if *level == "" {
		log.Fatal().Msg("-level is required")
	}
	path := *level
	if !filepath.IsAbs(path) {
		path = filepath.Join(*cache, convert.EpisodesDir, path)
	}

	d, err := levels.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid difficulty")
	}
	lvl, err := levels.Load(path, d)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load level")
	}
	ts, err := levels.LoadTileset(filepath.Join(*cache, convert.TilesetsDir, lvl.Tileset+".j2t"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load tileset")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("jj2view - " + lvl.Name)

	if err := ebiten.RunGame(newViewer(lvl, ts, *scale)); err != nil {
		log.Fatal().Err(err).Msg("viewer stopped")
	}
}
