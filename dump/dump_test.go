package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/lotcodec/internal/testutil"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
)

type lotpackDump struct {
	Version int32 `json:"version"`
	Chunks  []struct {
		BlockSize int `json:"block_size"`
		Layers    int `json:"layers"`
		Squares   []struct {
			X, Y, Z int
			RoomID  int32   `json:"room_id"`
			Tiles   []int32 `json:"tiles"`
		} `json:"squares"`
	} `json:"chunks"`
}

func TestWriter_RoundTrip(t *testing.T) {
	h, err := lotheader.Decode(testutil.HeaderBytes(1))
	require.NoError(t, err)
	f, err := lotpack.Decode(testutil.LotpackBytes(1, 2), h)
	require.NoError(t, err)

	for _, compression := range []string{"none", "snappy", "lz4", "zstd"} {
		t.Run(compression, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested")
			w, err := NewWriter(dir, compression)
			require.NoError(t, err)

			require.NoError(t, w.WriteHeader("1_1", h))
			var gotHeader lotheader.Header
			require.NoError(t, Read(w.Path("1_1"), &gotHeader))
			assert.Equal(t, *h, gotHeader)

			require.NoError(t, w.WriteLotpack("world_1_1", f))
			var got lotpackDump
			require.NoError(t, Read(w.Path("world_1_1"), &got))
			assert.Equal(t, int32(1), got.Version)
			require.Len(t, got.Chunks, 2)
			require.Len(t, got.Chunks[0].Squares, 2)
			assert.Equal(t, []int32{0, 1}, got.Chunks[0].Squares[0].Tiles)
			assert.Empty(t, got.Chunks[1].Squares)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 2, "no temp files left behind")
		})
	}
}

func TestWriter_Path(t *testing.T) {
	dir := t.TempDir()
	for compression, want := range map[string]string{
		"none":   "3_4.json",
		"snappy": "3_4.json.sz",
		"lz4":    "3_4.json.lz4",
		"zstd":   "3_4.json.zst",
	} {
		w, err := NewWriter(dir, compression)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, want), w.Path("3_4"))
	}
}

func TestNewWriter_BadCompression(t *testing.T) {
	_, err := NewWriter(t.TempDir(), "brotli")
	assert.Error(t, err)
}
