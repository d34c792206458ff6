package convert

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReruns(t *testing.T) {
	src := filepath.Join(t.TempDir(), "source")
	writeLevel(t, filepath.Join(src, "one.j2l"), legacyLevel("One", "castle1", ""))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := Options{Source: src, Cache: t.TempDir()}
	reports := make(chan *Report, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, opts, func(r *Report) { reports <- r })
	}()

	next := func() *Report {
		t.Helper()
		select {
		case r := <-reports:
			return r
		case <-time.After(10 * time.Second):
			t.Fatalf("timed out waiting for a run")
			return nil
		}
	}

	if r := next(); r.Levels != 1 {
		t.Fatalf("expected 1 level, got %d", r.Levels)
	}
	writeLevel(t, filepath.Join(src, "two.j2l"), legacyLevel("Two", "castle1", ""))
	if r := next(); r.Levels != 2 {
		t.Fatalf("expected 2 levels, got %d", r.Levels)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Watch did not stop")
	}
}

func TestWatchMissingSource(t *testing.T) {
	err := Watch(context.Background(), Options{Source: filepath.Join(t.TempDir(), "missing"), Cache: t.TempDir()}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
}
