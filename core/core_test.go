package core

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutFor(t *testing.T) {
	legacy := LayoutFor(0)
	assert.Equal(t, int32(30), legacy.CellSize)
	assert.Equal(t, int32(10), legacy.BlockSize)
	assert.Equal(t, int32(0), legacy.MinLayer)
	assert.Equal(t, int32(8), legacy.MaxLayer)
	assert.True(t, legacy.HasLegacyPadding)
	assert.False(t, legacy.UsesMagicPrefix)
	assert.Equal(t, 300, legacy.SquaresPerCell())
	assert.Equal(t, 900, legacy.SpawnGridSize())

	for _, v := range []int32{1, 2, -7} {
		cur := LayoutFor(v)
		assert.Equal(t, int32(32), cur.CellSize)
		assert.Equal(t, int32(8), cur.BlockSize)
		assert.Equal(t, int32(-32), cur.MinLayer)
		assert.Equal(t, int32(33), cur.MaxLayer)
		assert.True(t, cur.UsesMagicPrefix)
		assert.False(t, cur.HasLegacyPadding)
		assert.Equal(t, 256, cur.SquaresPerCell())
		assert.Equal(t, 1024, cur.SpawnGridSize())
	}
}

func TestCellCoord(t *testing.T) {
	cases := []struct{ chunk, x, y, z int }{
		{0, 0, 0, 0},
		{1023, 511, 511, 32},
		{899, 9, 3, -32},
		{17, 7, 0, -1},
	}
	for _, tc := range cases {
		c := NewCellCoord(tc.chunk, tc.x, tc.y, tc.z)
		assert.Equal(t, tc.chunk, c.Chunk())
		assert.Equal(t, tc.x, c.X())
		assert.Equal(t, tc.y, c.Y())
		assert.Equal(t, tc.z, c.Z())
	}
	assert.Equal(t, CellCoord(1<<25|2<<16|3<<7|33), NewCellCoord(1, 2, 3, 1))
	assert.Equal(t, "chunk=1 x=2 y=3 z=1", NewCellCoord(1, 2, 3, 1).String())
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "35_22.lotheader", FormatHeaderFileName(35, 22))
	assert.Equal(t, "world_35_22.lotpack", FormatLotpackFileName(35, 22))

	x, y, err := ParseHeaderFileName("35_22.lotheader")
	require.NoError(t, err)
	assert.Equal(t, 35, x)
	assert.Equal(t, 22, y)

	_, _, err = ParseHeaderFileName("world_35_22.lotpack")
	var nameErr *InvalidCellFileNameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "world_35_22.lotpack", nameErr.Name)

	assert.Equal(t, 35+22*1024, CellKey(35, 22))
	assert.NotEqual(t, CellKey(1, 0), CellKey(0, 1))
}

func TestErrorKind(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("decode x: %w", err) }
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{wrap(&PatternNotFoundError{Pattern: '\n', Offset: 4}), "PatternNotFound"},
		{wrap(&TruncatedDataError{Offset: 10, Length: 8}), "TruncatedOrTrailingData"},
		{wrap(&VersionMismatchError{Header: 0, Lotpack: 1}), "VersionMismatch"},
		{wrap(&IndexOutOfRangeError{What: "room", Index: 5, Len: 2}), "IndexOutOfRange"},
		{&RoundTripMismatchError{Path: "p"}, "RoundTripMismatch"},
		{&InvalidCellFileNameError{Name: "x"}, "InvalidCellFileName"},
		{os.ErrNotExist, "io"},
		{errors.New("other"), "io"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorKind(tc.err))
	}
}

func TestTruncatedDataError_Message(t *testing.T) {
	assert.Contains(t, (&TruncatedDataError{Offset: 4, Length: 10}).Error(), "trailing data")
	assert.Contains(t, (&TruncatedDataError{Offset: 12, Length: 10}).Error(), "truncated data")
	assert.True(t, IsTruncatedData(wrapOnce(&TruncatedDataError{})))
	assert.False(t, IsTruncatedData(errors.New("x")))
}

func wrapOnce(err error) error { return fmt.Errorf("ctx: %w", err) }

func TestCompressionType(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"": CompressionNone, "none": CompressionNone, "Snappy": CompressionSnappy,
		"lz4": CompressionLZ4, " zstd ": CompressionZSTD,
	} {
		got, err := ParseCompressionType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompressionType("gzip")
	assert.Error(t, err)
	assert.Equal(t, ".zst", CompressionZSTD.Extension())
	assert.Equal(t, "", CompressionNone.Extension())
}
