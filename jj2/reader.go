package jj2

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// maxBlockSize bounds the packed and unpacked sizes accepted from a header.
const maxBlockSize = 64 << 20

// StringMode selects how ReadString interprets a string field.
type StringMode uint8

const (
	// FixedString is a fixed-width field terminated by the first NUL byte.
	FixedString StringMode = iota
	// LengthPrefixed is a fixed-width field whose first byte holds the length
	// of the text that follows.
	LengthPrefixed
)

// Block is a read cursor over one decompressed section of a legacy container.
//
// Reads never panic. The first read that would pass the end of the buffer
// records ErrTruncatedInput and every later read returns zero values; callers
// check Err once per section.
type Block struct {
	data []byte
	off  int
	err  error
}

// NewBlock wraps an in-memory buffer.
func NewBlock(data []byte) *Block {
	return &Block{data: data}
}

// NewHeaderBlock reads n raw bytes from r and wraps them.
func NewHeaderBlock(r io.Reader, n int) (*Block, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrapf(ErrTruncatedInput, "read %d byte header", n)
	}
	return NewBlock(buf), nil
}

// NewCompressedBlock reads packed bytes from r and inflates them into a
// buffer of exactly unpacked bytes.
func NewCompressedBlock(r io.Reader, packed, unpacked int32) (*Block, error) {
	if packed < 0 || unpacked < 0 || packed > maxBlockSize || unpacked > maxBlockSize {
		return nil, errors.Wrapf(ErrInvalidFormat, "block size %d/%d out of range", packed, unpacked)
	}

	src := make([]byte, packed)
	if _, err := io.ReadFull(r, src); err != nil {
		return nil, errors.Wrapf(ErrTruncatedInput, "read %d packed bytes", packed)
	}
	if unpacked == 0 {
		return NewBlock(nil), nil
	}

	data, err := inflate(src, int(unpacked))
	if err != nil {
		return nil, err
	}
	return NewBlock(data), nil
}

func inflate(src []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, errors.Wrapf(ErrDecompressionFailed, "open stream: %v", err)
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, errors.Wrapf(ErrDecompressionFailed, "inflate %d bytes: %v", size, err)
	}

	// The stream must end exactly at the declared size.
	var extra [1]byte
	n, err := zr.Read(extra[:])
	if n != 0 {
		return nil, errors.Wrapf(ErrDecompressionFailed, "stream exceeds declared size %d", size)
	}
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(ErrDecompressionFailed, "finish stream: %v", err)
	}
	return out, nil
}

// Err returns the first overrun recorded by a read, if any.
func (b *Block) Err() error { return b.err }

// Len returns the size of the underlying buffer.
func (b *Block) Len() int { return len(b.data) }

// Offset returns the current cursor position.
func (b *Block) Offset() int { return b.off }

// Remaining returns the number of unread bytes.
func (b *Block) Remaining() int { return len(b.data) - b.off }

// Seek moves the cursor to an absolute offset.
func (b *Block) Seek(off int) {
	if b.err != nil {
		return
	}
	if off < 0 || off > len(b.data) {
		b.err = errors.Wrapf(ErrTruncatedInput, "seek to %d in %d byte block", off, len(b.data))
		return
	}
	b.off = off
}

func (b *Block) take(n int) []byte {
	if b.err != nil {
		return nil
	}
	if n < 0 || b.off+n > len(b.data) {
		b.err = errors.Wrapf(ErrTruncatedInput, "read %d bytes at offset %d of %d", n, b.off, len(b.data))
		return nil
	}
	p := b.data[b.off : b.off+n]
	b.off += n
	return p
}

// DiscardBytes skips n bytes.
func (b *Block) DiscardBytes(n int) {
	b.take(n)
}

// ReadRaw returns the next n bytes. The slice aliases the block buffer.
func (b *Block) ReadRaw(n int) []byte {
	return b.take(n)
}

func (b *Block) ReadUint8() uint8 {
	p := b.take(1)
	if p == nil {
		return 0
	}
	return p[0]
}

// ReadBool reads one byte; any nonzero value is true.
func (b *Block) ReadBool() bool {
	return b.ReadUint8() != 0
}

func (b *Block) ReadUint16() uint16 {
	p := b.take(2)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(p)
}

func (b *Block) ReadInt16() int16 {
	return int16(b.ReadUint16())
}

func (b *Block) ReadUint32() uint32 {
	p := b.take(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (b *Block) ReadInt32() int32 {
	return int32(b.ReadUint32())
}

func (b *Block) ReadUint64() uint64 {
	p := b.take(8)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

// ReadFloat32 reads an IEEE 754 value as written by the modern formats.
func (b *Block) ReadFloat32() float32 {
	return math.Float32frombits(b.ReadUint32())
}

// ReadFloatEncoded reads a 16.16 fixed point value.
func (b *Block) ReadFloatEncoded() float32 {
	return float32(b.ReadInt32()) / 65536
}

// ReadString reads a string field occupying exactly maxLen bytes. Bytes past
// the declared end of the text are padding. Text is decoded from Windows-1252.
func (b *Block) ReadString(maxLen int, mode StringMode) string {
	p := b.take(maxLen)
	if len(p) == 0 {
		return ""
	}

	var raw []byte
	switch mode {
	case LengthPrefixed:
		n := int(p[0])
		if n > maxLen-1 {
			n = maxLen - 1
		}
		raw = p[1 : 1+n]
	default:
		raw = p
		if i := bytes.IndexByte(p, 0); i >= 0 {
			raw = p[:i]
		}
	}
	return decodeLegacyText(raw)
}

func decodeLegacyText(raw []byte) string {
	ascii := true
	for _, c := range raw {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}
