package lotheader

import (
	"fmt"
	"os"

	"github.com/INLOpen/lotcodec/sys"
)

// ReadFile reads and decodes the lotheader at path.
func ReadFile(path string) (*Header, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return h, nil
}

// WriteFile encodes h and atomically replaces the file at path.
func WriteFile(path string, h *Header) error {
	buf, err := Encode(h)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return sys.WriteFileAtomic(path, buf, 0o644)
}
