package lotpack

import (
	"fmt"
	"os"

	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/cursor"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/sys"
)

// tableEntrySize is the size of one offset table entry: offset + reserved.
const tableEntrySize = 8

// File is a decoded lotpack. Header is the companion lotheader the file was
// decoded against; File does not own it.
type File struct {
	Version int32             `json:"version"`
	Header  *lotheader.Header `json:"-"`
	Chunks  []*Chunk          `json:"chunks"`
}

// New returns a lotpack with one empty chunk per block of the header's cell.
func New(h *lotheader.Header) *File {
	f := &File{Version: h.Version, Header: h, Chunks: make([]*Chunk, h.ChunkCount())}
	for i := range f.Chunks {
		f.Chunks[i] = NewChunk(int(h.BlockSizeInSquares), h.Layers())
	}
	return f
}

// chunkSpan is the byte range a chunk payload was decoded from.
type chunkSpan struct {
	start, end int
}

// Decode parses a complete lotpack buffer against its companion header.
func Decode(buf []byte, h *lotheader.Header) (*File, error) {
	f, _, err := decode(buf, h)
	return f, err
}

func decode(buf []byte, h *lotheader.Header) (*File, []chunkSpan, error) {
	r := cursor.NewReader(buf)

	var version int32
	if r.HasPrefix(core.LotpackMagic) {
		if err := r.Skip(core.MagicLen); err != nil {
			return nil, nil, err
		}
		v, err := r.ReadInt32()
		if err != nil {
			return nil, nil, fmt.Errorf("read version: %w", err)
		}
		version = v
	}
	if version != h.Version {
		return nil, nil, &core.VersionMismatchError{Header: h.Version, Lotpack: version}
	}

	count, err := r.ReadCount(tableEntrySize)
	if err != nil {
		return nil, nil, fmt.Errorf("read chunk count: %w", err)
	}
	tableOffset := r.Offset()
	blockSize, layers := int(h.BlockSizeInSquares), h.Layers()

	f := &File{Version: version, Header: h, Chunks: make([]*Chunk, count)}
	spans := make([]chunkSpan, count)
	for i := range f.Chunks {
		// The payload position always comes from the table.
		if err := r.Seek(tableOffset + i*tableEntrySize); err != nil {
			return nil, nil, err
		}
		offset, err := r.ReadInt32()
		if err != nil {
			return nil, nil, fmt.Errorf("read offset of chunk %d: %w", i, err)
		}
		if err := r.Seek(int(offset)); err != nil {
			return nil, nil, fmt.Errorf("seek to chunk %d: %w", i, err)
		}
		if f.Chunks[i], err = DecodeChunk(r, blockSize, layers); err != nil {
			return nil, nil, fmt.Errorf("decode chunk %d at offset %d: %w", i, offset, err)
		}
		spans[i] = chunkSpan{start: int(offset), end: r.Offset()}
	}
	if err := r.Finish(); err != nil {
		return nil, nil, err
	}
	return f, spans, nil
}

func (f *File) prefixSize() int {
	if core.LayoutFor(f.Version).UsesMagicPrefix {
		return core.MagicLen + cursor.Int32Size(1)
	}
	return 0
}

// EncodedSize returns the exact size of f once encoded.
func (f *File) EncodedSize() int {
	size := f.prefixSize() + cursor.Int32Size(1) + len(f.Chunks)*tableEntrySize
	for _, c := range f.Chunks {
		size += cursor.Int32Size(c.EncodedLen())
	}
	return size
}

// Encode serializes f. Payloads are laid out in table order right after the
// offset table.
func Encode(f *File) ([]byte, error) {
	if f.Header != nil && f.Header.Version != f.Version {
		return nil, &core.VersionMismatchError{Header: f.Header.Version, Lotpack: f.Version}
	}
	if err := f.checkShapes(); err != nil {
		return nil, err
	}

	w := cursor.NewWriter(f.EncodedSize())
	if core.LayoutFor(f.Version).UsesMagicPrefix {
		if err := w.WriteString(core.LotpackMagic); err != nil {
			return nil, err
		}
		if err := w.WriteInt32(f.Version); err != nil {
			return nil, err
		}
	}
	if err := w.WriteInt32(int32(len(f.Chunks))); err != nil {
		return nil, err
	}

	offset := w.Offset() + len(f.Chunks)*tableEntrySize
	for _, c := range f.Chunks {
		if err := w.WriteInt32(int32(offset)); err != nil {
			return nil, err
		}
		if err := w.WriteInt32(0); err != nil {
			return nil, err
		}
		offset += cursor.Int32Size(c.EncodedLen())
	}
	for i, c := range f.Chunks {
		if err := EncodeChunk(w, c); err != nil {
			return nil, fmt.Errorf("encode chunk %d: %w", i, err)
		}
	}
	return w.Finish()
}

func (f *File) checkShapes() error {
	if f.Header == nil {
		return nil
	}
	blockSize, layers := int(f.Header.BlockSizeInSquares), f.Header.Layers()
	for i, c := range f.Chunks {
		if c.BlockSize() != blockSize || c.Layers() != layers {
			return fmt.Errorf("chunk %d is %dx%dx%d, header expects %dx%dx%d",
				i, c.BlockSize(), c.BlockSize(), c.Layers(), blockSize, blockSize, layers)
		}
	}
	return nil
}

// ReadFile reads and decodes the lotpack at path against h.
func ReadFile(path string, h *lotheader.Header) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(buf, h)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, nil
}

// WriteFile encodes f and atomically replaces the file at path.
func WriteFile(path string, f *File) error {
	buf, err := Encode(f)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return sys.WriteFileAtomic(path, buf, 0o644)
}
