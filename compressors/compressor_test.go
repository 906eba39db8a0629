package compressors

import (
	"bytes"
	"io"
	"testing"

	"github.com/INLOpen/lotcodec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressors_RoundTrip(t *testing.T) {
	payloads := []struct {
		name string
		data []byte
	}{
		{name: "json", data: []byte(`{"version":1,"tile_names":["floors_exterior_natural_01_0","walls_exterior_house_01_0"]}`)},
		{name: "repetitive", data: bytes.Repeat([]byte{0xff, 0xff, 0xff, 0xff, 0x40, 0, 0, 0}, 4096)},
	}

	for _, ct := range []core.CompressionType{core.CompressionNone, core.CompressionSnappy, core.CompressionLZ4, core.CompressionZSTD} {
		c, err := ForType(ct)
		require.NoError(t, err)
		assert.Equal(t, ct, c.Type())

		for _, p := range payloads {
			t.Run(ct.String()+"/"+p.name, func(t *testing.T) {
				compressed, err := c.Compress(p.data)
				require.NoError(t, err)

				rc, err := c.Decompress(compressed)
				require.NoError(t, err)
				got, err := io.ReadAll(rc)
				require.NoError(t, err)
				require.NoError(t, rc.Close())
				assert.Equal(t, len(p.data), len(got))
				assert.True(t, bytes.Equal(p.data, got))
			})
		}
	}
}

func TestCompressors_StreamWriter(t *testing.T) {
	data := bytes.Repeat([]byte("bedroom\n"), 1000)
	for _, name := range []string{"none", "snappy", "lz4", "zstd"} {
		t.Run(name, func(t *testing.T) {
			c, err := ForName(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			w, err := c.NewWriter(&buf)
			require.NoError(t, err)
			_, err = w.Write(data[:3000])
			require.NoError(t, err)
			_, err = w.Write(data[3000:])
			require.NoError(t, err)
			require.NoError(t, w.Close())

			rc, err := c.Decompress(buf.Bytes())
			require.NoError(t, err)
			defer rc.Close()
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestForName_Unsupported(t *testing.T) {
	_, err := ForName("brotli")
	require.Error(t, err)
}
