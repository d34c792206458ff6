package jj2

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	episodeHeaderSize     = 176
	episodeTitleDimsSize  = 8
	episodeNameSize       = 128
	episodeRegisteredFlag = 0x01

	// EpisodeFormatVersion is the version of the modern episode format.
	EpisodeFormatVersion uint16 = 1
	// EpisodeUnregistered marks an episode playable in the shareware version.
	EpisodeUnregistered uint16 = 0x01
)

// Episode is a parsed legacy episode.
type Episode struct {
	// Token is the lower-cased file name without extension.
	Token       string
	Position    int32
	DisplayName string
	FirstLevel  string
	Registered  bool

	TitleWidth  int32
	TitleHeight int32
}

// NameConversion returns the display name written for an episode.
type NameConversion func(e *Episode) string

// PrevNextConversion returns the tokens of the episodes before and after e.
type PrevNextConversion func(e *Episode) (prev, next string)

// OpenEpisode parses the legacy episode at path.
func OpenEpisode(path string) (*Episode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open episode")
	}
	defer f.Close()

	e, err := ReadEpisode(f, TokenFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "episode %q", path)
	}
	return e, nil
}

// ReadEpisode parses a legacy episode from r. The title images that follow
// the header are not read.
func ReadEpisode(r io.Reader, token string) (*Episode, error) {
	b, err := NewHeaderBlock(r, episodeHeaderSize)
	if err != nil {
		return nil, err
	}

	headerSize := b.ReadInt32()
	if headerSize < episodeHeaderSize {
		return nil, errors.Wrapf(ErrInvalidFormat, "episode header size %d", headerSize)
	}

	e := &Episode{Token: token}
	e.Position = b.ReadInt32()
	e.Registered = b.ReadUint32()&episodeRegisteredFlag != 0
	b.DiscardBytes(4)
	e.DisplayName = b.ReadString(episodeNameSize, FixedString)
	e.FirstLevel = b.ReadString(levelNameSize, FixedString)
	if err := b.Err(); err != nil {
		return nil, err
	}

	if headerSize >= episodeHeaderSize+episodeTitleDimsSize {
		dims, err := NewHeaderBlock(r, episodeTitleDimsSize)
		if err != nil {
			return nil, err
		}
		e.TitleWidth = dims.ReadInt32()
		e.TitleHeight = dims.ReadInt32()
	}
	return e, nil
}

// Convert writes the episode in the modern format. Any callback may be nil.
func (e *Episode) Convert(w io.Writer, tokens TokenConversion, names NameConversion, prevNext PrevNextConversion) error {
	bw := newBinWriter(w)
	bw.u64(FileMagic)
	bw.u8(FileTypeEpisode)
	bw.u16(EpisodeFormatVersion)

	var flags uint16
	if !e.Registered {
		flags |= EpisodeUnregistered
	}
	bw.u16(flags)

	name := e.DisplayName
	if names != nil {
		name = names(e)
	}
	bw.str8(name)
	bw.u16(uint16(e.Position))

	first := trimSuffixFold(strings.ToLower(e.FirstLevel), ".j2l", ".lev")
	if tokens != nil {
		first = tokens(first).Level
	}
	bw.str8(first)

	var prev, next string
	if prevNext != nil {
		prev, next = prevNext(e)
	}
	bw.str8(prev)
	bw.str8(next)
	return bw.Err()
}

// ConvertFile writes the converted episode to path atomically.
func (e *Episode) ConvertFile(path string, tokens TokenConversion, names NameConversion, prevNext PrevNextConversion) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return e.Convert(w, tokens, names, prevNext)
	})
}
