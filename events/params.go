package events

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// ParamsSize is the size of the parameter block of a modern event.
const ParamsSize = 16

// Kind says how a bit field of a legacy parameter word is interpreted.
type Kind uint8

const (
	UInt Kind = iota
	// Int is a two's complement value at the declared bit width.
	Int
	Bool
)

// Param describes one field of a legacy parameter word. Fields are consumed
// from the least significant bit upward in declaration order. Offset is the
// byte position of the converted value in the modern parameter block.
type Param struct {
	Kind   Kind
	Bits   uint8
	Offset uint8
}

func U(bits, offset uint8) Param { return Param{Kind: UInt, Bits: bits, Offset: offset} }
func I(bits, offset uint8) Param { return Param{Kind: Int, Bits: bits, Offset: offset} }
func B(offset uint8) Param       { return Param{Kind: Bool, Bits: 1, Offset: offset} }

// Wide reports whether the converted value occupies two bytes.
func (p Param) Wide() bool { return p.Bits > 8 }

func lowBits[T constraints.Unsigned](v T, bits uint8) T {
	if bits == 0 {
		return 0
	}
	return v & (T(1)<<bits - 1)
}

// signExtend interprets the low bits of v as a two's complement number.
func signExtend[T constraints.Signed](v T, bits uint8) T {
	if bits == 0 {
		return 0
	}
	sign := T(1) << (bits - 1)
	return (v ^ sign) - sign
}

// Extract splits a packed legacy parameter word according to schema.
func Extract(params uint32, schema []Param) []int32 {
	values := make([]int32, len(schema))
	for i, p := range schema {
		raw := lowBits(params, p.Bits)
		params >>= p.Bits
		switch p.Kind {
		case Int:
			values[i] = signExtend(int32(raw), p.Bits)
		case Bool:
			if raw != 0 {
				values[i] = 1
			}
		default:
			values[i] = int32(raw)
		}
	}
	return values
}

func (r *Result) put(p Param, v int32) {
	if p.Wide() {
		r.PutUint16(p.Offset, uint16(v))
		return
	}
	r.PutUint8(p.Offset, uint8(v))
}

// PutUint8 stores a byte in the parameter block. Out of range offsets are ignored.
func (r *Result) PutUint8(offset uint8, v uint8) {
	if int(offset) < ParamsSize {
		r.Params[offset] = v
	}
}

// PutUint16 stores a little-endian value in the parameter block.
func (r *Result) PutUint16(offset uint8, v uint16) {
	if int(offset)+2 <= ParamsSize {
		binary.LittleEndian.PutUint16(r.Params[offset:], v)
	}
}

// Uint16 reads a little-endian value back from the parameter block.
func (r *Result) Uint16(offset uint8) uint16 {
	if int(offset)+2 > ParamsSize {
		return 0
	}
	return binary.LittleEndian.Uint16(r.Params[offset:])
}

// HasParams reports whether any parameter byte is set.
func (r *Result) HasParams() bool {
	for _, b := range r.Params {
		if b != 0 {
			return true
		}
	}
	return false
}
