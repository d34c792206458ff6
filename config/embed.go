package config

import (
	"embed"
	"os"
	"path"
	"path/filepath"
)

const defaultName = "default.yaml"

//go:embed default.yaml
var DefaultFS embed.FS

// ReadFile returns the contents of a config file. The empty name selects the
// embedded default; other names are read from disk and fall back to an
// embedded file of the same base name.
func ReadFile(name string) ([]byte, error) {
	if name == "" {
		return DefaultFS.ReadFile(defaultName)
	}
	data, err := os.ReadFile(name)
	if err == nil {
		return data, nil
	}
	if embedded, embedErr := DefaultFS.ReadFile(cleanConfigPath(name)); embedErr == nil {
		return embedded, nil
	}
	return nil, err
}

func cleanConfigPath(name string) string {
	return path.Base(filepath.ToSlash(name))
}
