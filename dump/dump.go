// Package dump writes decoded map files as (optionally compressed) JSON for
// inspection.
package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/INLOpen/lotcodec/compressors"
	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
	"github.com/INLOpen/lotcodec/sys"
)

// Writer writes dumps into one directory.
type Writer struct {
	dir        string
	compressor core.Compressor
}

// NewWriter creates dir if needed. compression is a name accepted by
// core.ParseCompressionType.
func NewWriter(dir, compression string) (*Writer, error) {
	comp, err := compressors.ForName(compression)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dump directory: %w", err)
	}
	return &Writer{dir: dir, compressor: comp}, nil
}

// Path returns the file a dump called name is written to.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name+".json"+w.compressor.Type().Extension())
}

func (w *Writer) WriteHeader(name string, h *lotheader.Header) error {
	return w.write(name, h)
}

func (w *Writer) WriteLotpack(name string, f *lotpack.File) error {
	return w.write(name, f)
}

func (w *Writer) write(name string, v any) error {
	return sys.WriteAtomic(w.Path(name), 0o644, func(out io.Writer) error {
		cw, err := w.compressor.NewWriter(out)
		if err != nil {
			return err
		}
		if err := json.NewEncoder(cw).Encode(v); err != nil {
			cw.Close()
			return fmt.Errorf("encode %s: %w", name, err)
		}
		return cw.Close()
	})
}

// Read decodes the dump at path into v, picking the decompressor from the
// file extension.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ct := core.CompressionNone
	for _, c := range []core.CompressionType{core.CompressionSnappy, core.CompressionLZ4, core.CompressionZSTD} {
		if filepath.Ext(path) == c.Extension() {
			ct = c
		}
	}
	comp, err := compressors.ForType(ct)
	if err != nil {
		return err
	}
	rc, err := comp.Decompress(data)
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}
