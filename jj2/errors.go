package jj2

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidFormat reports a bad magic value, version or structural field.
	ErrInvalidFormat = errors.New("jj2: invalid format")
	// ErrTruncatedInput reports a read past the end of a block or stream.
	ErrTruncatedInput = errors.New("jj2: truncated input")
	// ErrDecompressionFailed reports a block that did not inflate to its declared size.
	ErrDecompressionFailed = errors.New("jj2: decompression failed")

	// The following are only fatal when parsing in strict mode.
	ErrSizeMismatch      = errors.New("jj2: recorded file size mismatch")
	ErrLevelNameMismatch = errors.New("jj2: level name mismatch")
	ErrTileCountMismatch = errors.New("jj2: static tile count mismatch")
)

// advisory returns err in strict mode. In lenient mode the failed check is
// logged and parsing continues.
func advisory(strict bool, err error) error {
	if strict {
		return err
	}
	log.Warn().Err(err).Msg("jj2: ignoring failed consistency check")
	return nil
}
