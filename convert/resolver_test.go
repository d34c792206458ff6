package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestResolverFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Data", "Sub", "File.TXT"), []byte("x"))
	writeFile(t, filepath.Join(root, "Data", "exact.txt"), []byte("x"))
	writeFile(t, filepath.Join(root, "Data", "EXACT.txt"), []byte("x"))

	r, err := NewResolver(4)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	cases := []struct {
		name string
		path string
		want string
	}{
		{"folded", filepath.Join(root, "data", "SUB", "file.txt"), filepath.Join(root, "Data", "Sub", "File.TXT")},
		{"exact_lower", filepath.Join(root, "Data", "exact.txt"), filepath.Join(root, "Data", "exact.txt")},
		{"exact_upper", filepath.Join(root, "Data", "EXACT.txt"), filepath.Join(root, "Data", "EXACT.txt")},
		{"directory", filepath.Join(root, "DATA"), filepath.Join(root, "Data")},
		{"parent", filepath.Join(root, "data", "sub") + string(filepath.Separator) + ".." + string(filepath.Separator) + "EXACT.txt", filepath.Join(root, "Data", "EXACT.txt")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := r.Find(c.path)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}

	if _, err := r.Find(filepath.Join(root, "data", "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestResolverPurge(t *testing.T) {
	root := t.TempDir()
	r, err := NewResolver(0)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	if _, err := r.Find(filepath.Join(root, "late.txt")); err == nil {
		t.Fatalf("expected missing file")
	}
	writeFile(t, filepath.Join(root, "LATE.txt"), []byte("x"))
	if _, err := r.Find(filepath.Join(root, "late.txt")); err == nil {
		t.Fatalf("expected cached listing to hide the new file")
	}

	r.Purge()
	got, err := r.Find(filepath.Join(root, "late.txt"))
	if err != nil {
		t.Fatalf("Find after Purge: %v", err)
	}
	if got != filepath.Join(root, "LATE.txt") {
		t.Fatalf("unexpected path %q", got)
	}
}
