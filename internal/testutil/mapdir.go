package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/INLOpen/lotcodec/core"
)

// WriteCell writes the fixture lotheader of the given version for cell (x, y)
// into dir, plus a lotpack with chunkCount chunks when chunkCount > 0.
// It returns the header and lotpack paths; the lotpack path is empty when
// none was written.
func WriteCell(t testing.TB, dir string, x, y int, version int32, chunkCount int) (headerPath, lotpackPath string) {
	t.Helper()
	headerPath = filepath.Join(dir, core.FormatHeaderFileName(x, y))
	require.NoError(t, os.WriteFile(headerPath, HeaderBytes(version), 0o644))
	if chunkCount > 0 {
		lotpackPath = filepath.Join(dir, core.FormatLotpackFileName(x, y))
		require.NoError(t, os.WriteFile(lotpackPath, LotpackBytes(version, chunkCount), 0o644))
	}
	return headerPath, lotpackPath
}
