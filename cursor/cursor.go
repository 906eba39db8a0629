// Package cursor provides sequential little-endian readers and writers over a
// fully buffered byte slice. Every operation advances an explicit offset and
// reports overruns as *core.TruncatedDataError.
package cursor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/INLOpen/lotcodec/core"
)

const int32Size = 4

// Reader reads fields from buf starting at offset 0.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Offset() int    { return r.off }
func (r *Reader) Len() int       { return len(r.buf) }
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) overrun(n int) error {
	return &core.TruncatedDataError{Offset: r.off + n, Length: len(r.buf)}
}

// Seek moves to an absolute offset. Seeking to Len() is allowed.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return &core.TruncatedDataError{Offset: off, Length: len(r.buf)}
	}
	r.off = off
	return nil
}

func (r *Reader) Skip(n int) error {
	if n < 0 || n > r.Remaining() {
		return r.overrun(n)
	}
	r.off += n
	return nil
}

func (r *Reader) ReadInt32() (int32, error) {
	if r.Remaining() < int32Size {
		return 0, r.overrun(int32Size)
	}
	v := int32(binary.LittleEndian.Uint32(r.buf[r.off:]))
	r.off += int32Size
	return v, nil
}

// ReadCount reads an element count and checks that count elements of at least
// minSize bytes each can still fit in the buffer, so corrupt counts fail
// before anything is allocated.
func (r *Reader) ReadCount(minSize int) (int, error) {
	start := r.off
	v, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	n := int(v)
	if n < 0 || n*minSize > r.Remaining() {
		return 0, &core.TruncatedDataError{Offset: start, Length: len(r.buf)}
	}
	return n, nil
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, r.overrun(n)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

// ReadLine returns the text up to the next '\n' and advances past it. The
// bytes are kept as-is, so lines that are not valid UTF-8 still round-trip.
func (r *Reader) ReadLine() (string, error) {
	i := bytes.IndexByte(r.buf[r.off:], '\n')
	if i < 0 {
		return "", &core.PatternNotFoundError{Pattern: '\n', Offset: r.off}
	}
	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1
	return s, nil
}

// HasPrefix reports whether the unread bytes start with magic. It does not advance.
func (r *Reader) HasPrefix(magic string) bool {
	return r.Remaining() >= len(magic) && string(r.buf[r.off:r.off+len(magic)]) == magic
}

// Finish checks that the whole buffer has been consumed.
func (r *Reader) Finish() error {
	if r.off != len(r.buf) {
		return &core.TruncatedDataError{Offset: r.off, Length: len(r.buf)}
	}
	return nil
}

// Writer writes fields into a buffer of a size fixed at construction.
type Writer struct {
	buf []byte
	off int
}

// NewWriter allocates a writer for exactly size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, size)}
}

func (w *Writer) Offset() int { return w.off }
func (w *Writer) Len() int    { return len(w.buf) }

func (w *Writer) overrun(n int) error {
	return &core.TruncatedDataError{Offset: w.off + n, Length: len(w.buf)}
}

func (w *Writer) WriteInt32(v int32) error {
	if len(w.buf)-w.off < int32Size {
		return w.overrun(int32Size)
	}
	binary.LittleEndian.PutUint32(w.buf[w.off:], uint32(v))
	w.off += int32Size
	return nil
}

func (w *Writer) WriteBytes(p []byte) error {
	if len(w.buf)-w.off < len(p) {
		return w.overrun(len(p))
	}
	w.off += copy(w.buf[w.off:], p)
	return nil
}

// WriteString writes s without a terminator (magic prefixes).
func (w *Writer) WriteString(s string) error {
	if len(w.buf)-w.off < len(s) {
		return w.overrun(len(s))
	}
	w.off += copy(w.buf[w.off:], s)
	return nil
}

// WriteLine writes s followed by '\n'. s itself must not contain a newline.
func (w *Writer) WriteLine(s string) error {
	if strings.IndexByte(s, '\n') >= 0 {
		return fmt.Errorf("line %q contains a newline", s)
	}
	if err := w.WriteString(s); err != nil {
		return err
	}
	if w.off >= len(w.buf) {
		return w.overrun(1)
	}
	w.buf[w.off] = '\n'
	w.off++
	return nil
}

// Finish checks that the buffer was filled exactly and returns it.
func (w *Writer) Finish() ([]byte, error) {
	if w.off != len(w.buf) {
		return nil, &core.TruncatedDataError{Offset: w.off, Length: len(w.buf)}
	}
	return w.buf, nil
}

// LineSize is the encoded size of s written with WriteLine.
func LineSize(s string) int { return len(s) + 1 }

// Int32Size is the encoded size of n int32 values.
func Int32Size(n int) int { return n * int32Size }
