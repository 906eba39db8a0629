// Package testutil builds map file fixtures byte by byte, without going
// through the encoders under test.
package testutil

import (
	"bytes"
	"encoding/binary"
)

// Builder appends little-endian fields to a buffer.
type Builder struct {
	buf bytes.Buffer
}

func (b *Builder) Int32(vs ...int32) *Builder {
	for _, v := range vs {
		_ = binary.Write(&b.buf, binary.LittleEndian, v)
	}
	return b
}

// Raw appends s without a terminator.
func (b *Builder) Raw(s string) *Builder {
	b.buf.WriteString(s)
	return b
}

func (b *Builder) Line(s string) *Builder {
	b.buf.WriteString(s)
	b.buf.WriteByte('\n')
	return b
}

func (b *Builder) Byte(vs ...byte) *Builder {
	b.buf.Write(vs)
	return b
}

func (b *Builder) Len() int { return b.buf.Len() }

func (b *Builder) Bytes() []byte {
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}
