// Package convert rebuilds a cache of modern content from a directory of
// legacy episodes, levels and tilesets.
package convert

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/milk9111/jazz2conv/config"
	"github.com/milk9111/jazz2conv/events"
	"github.com/milk9111/jazz2conv/jj2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Output directories below the cache root.
const (
	EpisodesDir = "Episodes"
	TilesetsDir = "Tilesets"
)

const (
	mlleDataMarker = "-mlle-data-"
	atlasColumns   = 16
)

// Options configures a conversion run.
type Options struct {
	// Source is the directory holding the legacy files. It is not searched
	// recursively.
	Source string
	// Cache is the output root. Its Episodes and Tilesets directories are
	// replaced by every run.
	Cache string
	// Config drives token conversion and episode naming. Nil uses the
	// embedded default.
	Config *config.Config
	// Script optionally overrides the config callbacks.
	Script *config.Script
	// Strict makes consistency check failures fatal for a file.
	Strict bool
	// Workers bounds concurrent level and tileset conversions. Zero uses
	// GOMAXPROCS.
	Workers int
	// Atlas writes a PNG atlas next to every converted tileset.
	Atlas bool
}

// Report summarizes a conversion run.
type Report struct {
	Episodes int
	Levels   int
	Scripts  int
	Tilesets int
	// Skipped counts files left out on purpose.
	Skipped int
	// Failed lists the source files that could not be converted.
	Failed      []string
	Unsupported []events.UnsupportedCount
}

// Log writes the summary of the run.
func (r *Report) Log() {
	log.Info().
		Int("episodes", r.Episodes).
		Int("levels", r.Levels).
		Int("scripts", r.Scripts).
		Int("tilesets", r.Tilesets).
		Int("skipped", r.Skipped).
		Int("failed", len(r.Failed)).
		Msg("convert: done")
	for _, u := range r.Unsupported {
		log.Info().Stringer("event", u.Event).Int("count", u.Count).Msg("convert: unsupported event")
	}
}

// sources groups the legacy files of a directory by kind.
type sources struct {
	episodes []string
	levels   []string
	// tilesets maps lower-cased tokens to paths.
	tilesets map[string]string
}

func scan(dir string) (*sources, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "convert: scan source")
	}

	src := &sources{tilesets: make(map[string]string)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".j2e", ".j2pe":
			src.episodes = append(src.episodes, path)
		case ".j2l":
			src.levels = append(src.levels, path)
		case ".j2t":
			src.tilesets[jj2.TokenFromPath(path)] = path
		}
	}
	return src, nil
}

func (s *sources) hasEpisode(token string) bool {
	for _, path := range s.episodes {
		if jj2.TokenFromPath(path) == token {
			return true
		}
	}
	return false
}

// run holds the state shared by the workers of one conversion.
type run struct {
	opts      Options
	conv      config.Conversions
	catalog   *config.Catalog
	converter *events.Converter
	resolver  *Resolver

	mu       sync.Mutex
	dirs     map[string]bool
	tilesets map[string]bool
	report   Report
}

// Run converts the source directory into the cache.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Source == "" || opts.Cache == "" {
		return nil, errors.New("convert: source and cache directories are required")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Default(); err != nil {
			return nil, err
		}
	}

	src, err := scan(opts.Source)
	if err != nil {
		return nil, err
	}
	resolver, err := NewResolver(0)
	if err != nil {
		return nil, err
	}

	r := &run{
		opts:      opts,
		catalog:   cfg.Catalog(src.hasEpisode),
		converter: events.NewConverter(),
		resolver:  resolver,
		dirs:      make(map[string]bool),
		tilesets:  make(map[string]bool),
	}
	r.conv = r.catalog.Conversions(opts.Script)

	for _, dir := range []string{EpisodesDir, TilesetsDir} {
		path := filepath.Join(opts.Cache, dir)
		if err := os.RemoveAll(path); err != nil {
			return nil, errors.Wrapf(err, "convert: clear %s", dir)
		}
		if err := r.mkdir(path); err != nil {
			return nil, err
		}
	}

	log.Info().Str("source", opts.Source).Str("cache", opts.Cache).
		Int("episodes", len(src.episodes)).Int("levels", len(src.levels)).Int("tilesets", len(src.tilesets)).
		Msg("convert: start")

	for _, path := range src.episodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.convertEpisode(path)
	}

	if err := r.each(ctx, src.levels, r.convertLevel); err != nil {
		return nil, err
	}
	if err := r.each(ctx, r.usedTilesets(), func(name string) { r.convertTileset(src, name) }); err != nil {
		return nil, err
	}

	r.report.Unsupported = r.converter.UnsupportedReport()
	sort.Strings(r.report.Failed)
	return &r.report, nil
}

// each runs fn for every item on a bounded pool. Per-item failures are
// recorded by fn; only cancellation stops the pool.
func (r *run) each(ctx context.Context, items []string, fn func(item string)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		item := item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *run) mkdir(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dirs[dir] {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "convert: create %s", dir)
	}
	r.dirs[dir] = true
	return nil
}

func (r *run) fail(path string, err error) {
	log.Error().Err(err).Str("file", path).Msg("convert: conversion failed")
	r.mu.Lock()
	r.report.Failed = append(r.report.Failed, path)
	r.mu.Unlock()
}

func (r *run) count(field *int) {
	r.mu.Lock()
	*field++
	r.mu.Unlock()
}

func (r *run) convertEpisode(path string) {
	token := jj2.TokenFromPath(path)
	if r.catalog.SkipEpisode(token) {
		log.Info().Str("episode", token).Msg("convert: episode skipped")
		r.count(&r.report.Skipped)
		return
	}

	ep, err := jj2.OpenEpisode(path)
	if err != nil {
		r.fail(path, err)
		return
	}
	target := filepath.Join(r.opts.Cache, EpisodesDir, token+".j2e")
	if err := ep.ConvertFile(target, r.conv.Tokens, r.conv.Names, r.conv.PrevNext); err != nil {
		r.fail(path, err)
		return
	}
	log.Debug().Str("episode", token).Str("target", target).Msg("convert: episode converted")
	r.count(&r.report.Episodes)
}

func (r *run) convertLevel(path string) {
	if strings.Contains(strings.ToLower(filepath.Base(path)), mlleDataMarker) {
		log.Info().Str("file", path).Msg("convert: level skipped (MLLE extra layers)")
		r.count(&r.report.Skipped)
		return
	}

	rel := r.conv.LevelPath(jj2.TokenFromPath(path))
	target := filepath.Join(r.opts.Cache, EpisodesDir, filepath.FromSlash(rel))
	if err := r.mkdir(filepath.Dir(target)); err != nil {
		r.fail(path, err)
		return
	}

	lvl, err := ConvertLevel(path, target, r.converter, r.conv.Tokens, r.opts.Strict)
	if err != nil {
		r.fail(path, err)
		return
	}

	r.mu.Lock()
	if name := lvl.TilesetName(); name != "" {
		r.tilesets[name] = true
	}
	r.mu.Unlock()

	copied, err := r.copyScript(path, target)
	if err != nil {
		r.fail(path, err)
		return
	}
	r.count(&r.report.Levels)
	if copied {
		r.count(&r.report.Scripts)
	}
}

// copyScript copies the level script next to the source level, if any.
func (r *run) copyScript(level, target string) (bool, error) {
	source, err := r.resolver.Find(replaceExt(level, ".j2as"))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, copyFile(source, replaceExt(target, ".j2as"))
}

func (r *run) usedTilesets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.tilesets))
	for name := range r.tilesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *run) convertTileset(src *sources, name string) {
	path, ok := src.tilesets[name]
	if !ok {
		found, err := r.resolver.Find(filepath.Join(r.opts.Source, name+".j2t"))
		if err != nil {
			log.Warn().Str("tileset", name).Msg("convert: referenced tileset not found")
			return
		}
		path = found
	}

	ts, err := jj2.OpenTileset(path, r.opts.Strict)
	if err != nil {
		r.fail(path, err)
		return
	}
	target := filepath.Join(r.opts.Cache, TilesetsDir, name+".j2t")
	if err := r.mkdir(filepath.Dir(target)); err != nil {
		r.fail(path, err)
		return
	}
	if err := ts.ConvertFile(target); err != nil {
		r.fail(path, err)
		return
	}
	if r.opts.Atlas {
		err := jj2.WriteFileAtomic(replaceExt(target, ".png"), func(w io.Writer) error {
			return ts.WriteAtlasPNG(w, atlasColumns)
		})
		if err != nil {
			r.fail(path, err)
			return
		}
	}
	log.Debug().Str("tileset", name).Int("tiles", len(ts.Tiles)).Msg("convert: tileset converted")
	r.count(&r.report.Tilesets)
}

// ConvertLevel converts the legacy level at source into the modern file at
// target and returns the parsed level. Failed consistency checks are errors
// only when strict is set.
func ConvertLevel(source, target string, conv *events.Converter, tokens jj2.TokenConversion, strict bool) (*jj2.Level, error) {
	lvl, err := jj2.OpenLevel(source, strict)
	if err != nil {
		return nil, err
	}
	if err := lvl.ConvertFile(target, conv, tokens); err != nil {
		return nil, errors.Wrapf(err, "convert level %q", source)
	}
	log.Debug().Str("token", lvl.Token).Str("target", target).Msg("convert: level converted")
	return lvl, nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func copyFile(source, target string) error {
	f, err := os.Open(source)
	if err != nil {
		return errors.Wrap(err, "open script")
	}
	defer f.Close()
	return jj2.WriteFileAtomic(target, func(w io.Writer) error {
		_, err := io.Copy(w, f)
		return errors.Wrap(err, "copy script")
	})
}
