package convert

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const defaultResolverSize = 64

// Resolver finds files whose path components may differ in case from the
// on-disk names. Directory listings are cached; call Purge after the tree
// changes.
type Resolver struct {
	listings *lru.Cache[string, []string]
}

// NewResolver returns a resolver caching up to size directory listings.
func NewResolver(size int) (*Resolver, error) {
	if size <= 0 {
		size = defaultResolverSize
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, errors.Wrap(err, "convert: resolver cache")
	}
	return &Resolver{listings: cache}, nil
}

// Purge drops all cached directory listings.
func (r *Resolver) Purge() {
	r.listings.Purge()
}

// Find returns path with every component replaced by the directory entry
// that matches it. Exact matches win over case-insensitive ones. A missing
// component yields an error wrapping os.ErrNotExist.
func (r *Resolver) Find(path string) (string, error) {
	path = filepath.Clean(path)
	dir := "."
	rest := path
	if filepath.IsAbs(path) {
		dir = filepath.VolumeName(path) + string(filepath.Separator)
		rest = path[len(dir):]
	}
	if rest == "" || rest == "." {
		return dir, nil
	}

	for _, part := range strings.Split(rest, string(filepath.Separator)) {
		if part == ".." {
			dir = filepath.Join(dir, part)
			continue
		}
		name, err := r.match(dir, part)
		if err != nil {
			return "", err
		}
		dir = filepath.Join(dir, name)
	}
	return dir, nil
}

func (r *Resolver) match(dir, part string) (string, error) {
	names, err := r.list(dir)
	if err != nil {
		return "", err
	}
	folded := ""
	for _, name := range names {
		if name == part {
			return name, nil
		}
		if folded == "" && strings.EqualFold(name, part) {
			folded = name
		}
	}
	if folded == "" {
		return "", errors.Wrapf(os.ErrNotExist, "find %s in %s", part, dir)
	}
	return folded, nil
}

func (r *Resolver) list(dir string) ([]string, error) {
	if names, ok := r.listings.Get(dir); ok {
		return names, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	r.listings.Add(dir, names)
	return names, nil
}
