package convert

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/jazz2conv/config"
	"github.com/rs/zerolog/log"
)

// settle is how long the source directory must stay quiet before a rerun.
const settle = 500 * time.Millisecond

// IsSourceFile reports whether path names a legacy file read by Run.
func IsSourceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".j2e", ".j2pe", ".j2l", ".j2t", ".j2as":
		return true
	}
	return false
}

// Watch runs a conversion and reruns it whenever files in the source
// directory change, until ctx is done. done, if not nil, receives every
// report. A failed run is logged and the watch continues.
func Watch(ctx context.Context, opts Options, done func(*Report)) error {
	w, err := config.NewWatcher(IsSourceFile, opts.Source)
	if err != nil {
		return err
	}
	defer w.Close()

	rerun := func() {
		report, err := Run(ctx, opts)
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("convert: run failed")
			}
			return
		}
		report.Log()
		if done != nil {
			done(report)
		}
	}
	rerun()

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Debug().Str("file", name).Msg("convert: source changed")
			timer = time.After(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("convert: watch error")
		case <-timer:
			timer = nil
			rerun()
		}
	}
}
