package cursor

import (
	"testing"

	"github.com/INLOpen/lotcodec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadInt32(t *testing.T) {
	r := NewReader([]byte{0x01, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0xe0})

	v, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	v, err = r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
	assert.Equal(t, 8, r.Offset())

	_, err = r.ReadInt32()
	require.Error(t, err)
	assert.True(t, core.IsTruncatedData(err))
	assert.Equal(t, 8, r.Offset(), "failed read must not advance")
}

func TestReader_ReadLine(t *testing.T) {
	r := NewReader([]byte("floors_interior_tilesandwood_01_0\nwalls\xffraw\nrest"))

	s, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "floors_interior_tilesandwood_01_0", s)

	s, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "walls\xffraw", s)

	_, err = r.ReadLine()
	require.Error(t, err)
	assert.True(t, core.IsPatternNotFound(err))

	var pnf *core.PatternNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, r.Offset(), pnf.Offset)
}

func TestReader_ReadCount(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		r := NewReader([]byte{2, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0})
		n, err := r.ReadCount(4)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
	t.Run("too large", func(t *testing.T) {
		r := NewReader([]byte{3, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0})
		_, err := r.ReadCount(4)
		assert.True(t, core.IsTruncatedData(err))
	})
	t.Run("negative", func(t *testing.T) {
		r := NewReader([]byte{0xfe, 0xff, 0xff, 0xff})
		_, err := r.ReadCount(1)
		assert.True(t, core.IsTruncatedData(err))
	})
}

func TestReader_SeekSkipPrefix(t *testing.T) {
	r := NewReader([]byte("LOTH\x01\x00\x00\x00"))
	assert.True(t, r.HasPrefix(core.LotheaderMagic))
	assert.False(t, r.HasPrefix(core.LotpackMagic))
	require.NoError(t, r.Skip(4))
	assert.False(t, r.HasPrefix("\x01\x00\x00\x00\x00"))

	require.NoError(t, r.Seek(8))
	require.NoError(t, r.Finish())
	require.Error(t, r.Seek(9))
	require.Error(t, r.Skip(1))

	require.NoError(t, r.Seek(2))
	err := r.Finish()
	var te *core.TruncatedDataError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 2, te.Offset)
	assert.Equal(t, 8, te.Length)
}

func TestWriter(t *testing.T) {
	w := NewWriter(core.MagicLen + Int32Size(2) + LineSize("room") + 2)
	require.NoError(t, w.WriteString(core.LotpackMagic))
	require.NoError(t, w.WriteInt32(1))
	require.NoError(t, w.WriteInt32(-1))
	require.NoError(t, w.WriteLine("room"))

	_, err := w.Finish()
	assert.True(t, core.IsTruncatedData(err), "two bytes still unwritten")

	require.NoError(t, w.WriteBytes([]byte{7, 9}))
	require.Error(t, w.WriteBytes([]byte{1}))

	out, err := w.Finish()
	require.NoError(t, err)
	assert.Equal(t, []byte("LOTP\x01\x00\x00\x00\xff\xff\xff\xffroom\n\x07\x09"), out)
}

func TestWriter_LineWithNewline(t *testing.T) {
	w := NewWriter(16)
	require.Error(t, w.WriteLine("a\nb"))
}
