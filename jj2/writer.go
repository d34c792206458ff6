package jj2

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// FileMagic starts every file of the modern formats.
const FileMagic uint64 = 0x2095A59FF0BFBBEF

// Modern file type tags.
const (
	FileTypeLevel   uint8 = 1
	FileTypeEpisode uint8 = 2
	FileTypeTileset uint8 = 5
)

type fixedSize interface {
	constraints.Integer | constraints.Float | ~bool
}

// binWriter writes little-endian values and keeps the first error.
type binWriter struct {
	w   io.Writer
	err error
}

func newBinWriter(w io.Writer) *binWriter {
	return &binWriter{w: w}
}

func put[T fixedSize](bw *binWriter, v T) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binWriter) u8(v uint8)    { put(bw, v) }
func (bw *binWriter) u16(v uint16)  { put(bw, v) }
func (bw *binWriter) i16(v int16)   { put(bw, v) }
func (bw *binWriter) u32(v uint32)  { put(bw, v) }
func (bw *binWriter) i32(v int32)   { put(bw, v) }
func (bw *binWriter) u64(v uint64)  { put(bw, v) }
func (bw *binWriter) f32(v float32) { put(bw, v) }

func (bw *binWriter) bytes(p []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(p)
}

// str8 writes a string with a one byte length prefix. Longer strings are
// truncated to 255 bytes.
func (bw *binWriter) str8(s string) {
	if len(s) > 0xFF {
		s = s[:0xFF]
	}
	bw.u8(uint8(len(s)))
	bw.bytes([]byte(s))
}

func (bw *binWriter) Err() error {
	return errors.Wrap(bw.err, "write")
}
