package compressors

import (
	"bytes"
	"fmt"
	"io"

	"github.com/INLOpen/lotcodec/core"
	"github.com/golang/snappy"
)

// SnappyCompressor uses the snappy framing format, so output can be streamed
// and read back without knowing the decoded size.
type SnappyCompressor struct{}

var _ core.Compressor = (*SnappyCompressor)(nil)

func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{}
}

func (c *SnappyCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("snappy compress write error: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("snappy compress close error: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *SnappyCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (c *SnappyCompressor) Decompress(data []byte) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(bytes.NewReader(data))), nil
}

func (c *SnappyCompressor) Type() core.CompressionType {
	return core.CompressionSnappy
}
