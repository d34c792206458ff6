package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/milk9111/jazz2conv/config"
	"github.com/milk9111/jazz2conv/convert"
	"github.com/milk9111/jazz2conv/events"
	"github.com/milk9111/jazz2conv/jj2"
	"github.com/milk9111/jazz2conv/levels"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	source := flag.String("source", "", "directory with the legacy episodes, levels and tilesets")
	cache := flag.String("cache", "cache", "output directory for converted content")
	configFile := flag.String("config", "", "YAML conversion config (embedded default when empty)")
	scriptFile := flag.String("script", "", "optional tengo script with conversion hooks")
	strict := flag.Bool("strict", false, "treat failed consistency checks as errors")
	workers := flag.Int("workers", 0, "concurrent conversions (0 uses all CPUs)")
	atlas := flag.Bool("atlas", false, "write a PNG atlas next to every converted tileset")
	watch := flag.Bool("watch", false, "keep running and reconvert when the source changes")
	level := flag.String("level", "", "convert a single legacy level instead of a directory")
	out := flag.String("out", "", "output path for -level (default: its place in the cache)")
	dump := flag.String("dump", "", "print a summary of a converted level and exit")
	difficulty := flag.String("difficulty", "normal", "difficulty used by -dump")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *dump != "" {
		d, err := levels.ParseDifficulty(*difficulty)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid difficulty")
		}
		lvl, err := levels.Load(*dump, d)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load level")
		}
		if err := lvl.Dump(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("failed to print level")
		}
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	var script *config.Script
	if *scriptFile != "" {
		if script, err = config.LoadScript(*scriptFile); err != nil {
			log.Fatal().Err(err).Msg("failed to load script")
		}
	}

	if *level != "" {
		convertOne(cfg, script, *level, *out, *cache, *strict)
		return
	}

	if *source == "" {
		log.Fatal().Msg("-source or -level is required")
	}
	opts := convert.Options{
		Source:  *source,
		Cache:   *cache,
		Config:  cfg,
		Script:  script,
		Strict:  *strict,
		Workers: *workers,
		Atlas:   *atlas,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *watch {
		if err := convert.Watch(ctx, opts, nil); err != nil {
			log.Fatal().Err(err).Msg("watch failed")
		}
		return
	}

	report, err := convert.Run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("conversion failed")
	}
	report.Log()
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}

func convertOne(cfg *config.Config, script *config.Script, source, target, cache string, strict bool) {
	conv := cfg.Catalog(nil).Conversions(script)
	if target == "" {
		target = filepath.Join(cache, convert.EpisodesDir, filepath.FromSlash(conv.LevelPath(jj2.TokenFromPath(source))))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}

	converter := events.NewConverter()
	if _, err := convert.ConvertLevel(source, target, converter, conv.Tokens, strict); err != nil {
		log.Fatal().Err(err).Msg("level conversion failed")
	}
	log.Info().Str("target", target).Msg("level converted")
	for _, u := range converter.UnsupportedReport() {
		log.Info().Stringer("event", u.Event).Int("count", u.Count).Msg("unsupported event")
	}
}

