package jj2

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestWriteFileAtomic(t *testing.T) {
	failed := errors.New("failed")
	cases := []struct {
		name    string
		write   func(w io.Writer) error
		wantErr error
	}{
		{"written", func(w io.Writer) error {
			_, err := io.WriteString(w, "data")
			return err
		}, nil},
		{"failed", func(w io.Writer) error {
			io.WriteString(w, "partial")
			return failed
		}, failed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.j2l")
			err := WriteFileAtomic(path, c.write)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir: %v", err)
			}
			if c.wantErr != nil {
				if len(entries) != 0 {
					t.Fatalf("expected no files, got %d", len(entries))
				}
				return
			}
			if len(entries) != 1 {
				t.Fatalf("expected 1 file, got %d", len(entries))
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Stat: %v", err)
			}
			if info.Mode().Perm() != 0o644 {
				t.Fatalf("expected mode 0644, got %v", info.Mode().Perm())
			}
		})
	}
}
