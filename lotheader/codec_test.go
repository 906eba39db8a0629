package lotheader

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/internal/testutil"
	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalHeader builds a header without tiles, rooms or buildings.
func minimalHeader(version int32, layerFields ...int32) []byte {
	layout := core.LayoutFor(version)
	b := &testutil.Builder{}
	if layout.UsesMagicPrefix {
		b.Raw(core.LotheaderMagic)
	}
	b.Int32(version, 0)
	if layout.HasLegacyPadding {
		b.Byte(0)
	}
	b.Int32(layout.CellSize, layout.CellSize)
	b.Int32(layerFields...)
	b.Int32(0, 0)
	b.Byte(make([]byte, layout.SpawnGridSize())...)
	return b.Bytes()
}

func TestDecode_Fixture(t *testing.T) {
	testCases := []struct {
		name      string
		version   int32
		cellSize  int32
		blockSize int32
		minLayer  int32
		maxLayer  int32
	}{
		{name: "legacy", version: 0, cellSize: 30, blockSize: 10, minLayer: 0, maxLayer: 4},
		{name: "current", version: 1, cellSize: 32, blockSize: 8, minLayer: -1, maxLayer: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Decode(testutil.HeaderBytes(tc.version))
			require.NoError(t, err)

			assert.Equal(t, tc.version, h.Version)
			assert.Equal(t, tc.cellSize, h.CellSizeInBlocks)
			assert.Equal(t, tc.blockSize, h.BlockSizeInSquares)
			assert.Equal(t, tc.minLayer, h.MinLayer)
			assert.Equal(t, tc.maxLayer, h.MaxLayer)
			assert.Equal(t, tc.cellSize, h.Width)
			assert.Equal(t, tc.cellSize, h.Height)
			assert.Equal(t, testutil.FixtureTileNames, h.TileNames)

			require.Len(t, h.Rooms, 3)
			assert.Equal(t, "kitchen", h.Rooms[0].Name)
			assert.Equal(t, int32(16), h.Rooms[0].Area)
			assert.Equal(t, []Rect{{X: 10, Y: 10, Width: 4, Height: 3}, {X: 14, Y: 10, Width: 2, Height: 2}}, h.Rooms[0].Rects)
			assert.Empty(t, h.Rooms[0].Objects)
			assert.Equal(t, int32(1), h.Rooms[1].Layer)
			assert.Equal(t, []RoomObject{{Type: 7, X: 11, Y: 12}}, h.Rooms[1].Objects)
			assert.Equal(t, int32(6), h.Rooms[2].Area)

			require.Len(t, h.Buildings, 2)
			assert.Equal(t, []int32{0, 1}, h.Buildings[0].RoomIDs)
			assert.Equal(t, []int32{2}, h.Buildings[1].RoomIDs)

			require.Len(t, h.ZombieSpawns, int(tc.cellSize*tc.cellSize))
			assert.Equal(t, byte(0), h.SpawnAt(0, 0))
			assert.Equal(t, byte(1), h.SpawnAt(0, 1))
			assert.Equal(t, byte((int(tc.cellSize)+2)%7), h.SpawnAt(1, 2))
		})
	}
}

func TestRoundTrip_ByteIdentical(t *testing.T) {
	for _, version := range []int32{0, 1} {
		original := testutil.HeaderBytes(version)

		h, err := Decode(original)
		require.NoError(t, err)
		assert.Equal(t, len(original), h.EncodedSize())

		encoded, err := Encode(h)
		require.NoError(t, err)
		assert.Equal(t, xxhash.Sum64(original), xxhash.Sum64(encoded), "version %d", version)
		assert.True(t, bytes.Equal(original, encoded))
	}
}

func TestDecode_LayerNarrowing(t *testing.T) {
	testCases := []struct {
		name     string
		version  int32
		fields   []int32
		wantMin  int32
		wantMax  int32
		encodeOK bool
	}{
		{name: "legacy max 5", version: 0, fields: []int32{5}, wantMin: 0, wantMax: 5, encodeOK: true},
		{name: "legacy cannot widen", version: 0, fields: []int32{12}, wantMin: 0, wantMax: 8},
		{name: "current -10..20", version: 1, fields: []int32{-10, 20}, wantMin: -10, wantMax: 21, encodeOK: true},
		{name: "current cannot widen", version: 1, fields: []int32{-40, 40}, wantMin: -32, wantMax: 33},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := minimalHeader(tc.version, tc.fields...)
			h, err := Decode(buf)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMin, h.MinLayer)
			assert.Equal(t, tc.wantMax, h.MaxLayer)

			encoded, err := Encode(h)
			require.NoError(t, err)
			assert.Equal(t, tc.encodeOK, bytes.Equal(buf, encoded))
		})
	}
}

func TestDecode_EmptyLayerRange(t *testing.T) {
	_, err := Decode(minimalHeader(1, 5, 3))
	require.ErrorIs(t, err, ErrEmptyLayerRange)

	_, err = Decode(minimalHeader(0, 0))
	require.ErrorIs(t, err, ErrEmptyLayerRange)
}

func TestDecode_TruncatedOrTrailing(t *testing.T) {
	for _, version := range []int32{0, 1} {
		original := testutil.HeaderBytes(version)

		_, err := Decode(original[:len(original)-1])
		require.Error(t, err)
		assert.True(t, core.IsTruncatedData(err), "truncated, version %d: %v", version, err)

		_, err = Decode(append(append([]byte{}, original...), 0))
		require.Error(t, err)
		var te *core.TruncatedDataError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, len(original), te.Offset)
		assert.Equal(t, len(original)+1, te.Length)
	}
}

func TestDecode_CorruptCounts(t *testing.T) {
	b := &testutil.Builder{}
	b.Raw(core.LotheaderMagic).Int32(1, 0x7fffffff)
	_, err := Decode(b.Bytes())
	require.Error(t, err)
	assert.True(t, core.IsTruncatedData(err))

	_, err = Decode([]byte{1, 0})
	assert.True(t, core.IsTruncatedData(err))
}

func TestDecode_MissingNewline(t *testing.T) {
	b := &testutil.Builder{}
	b.Raw(core.LotheaderMagic).Int32(1, 1).Raw("floors_exterior_natural_01_0")

	_, err := Decode(b.Bytes())
	require.Error(t, err)
	assert.True(t, core.IsPatternNotFound(err))
}

func TestDecode_MissingMagicFallsBackToVersion(t *testing.T) {
	withMagic := minimalHeader(1, 0, 7)
	withoutMagic := withMagic[core.MagicLen:]

	h, err := Decode(withoutMagic)
	require.NoError(t, err)
	assert.Equal(t, int32(1), h.Version)
	assert.Equal(t, int32(8), h.MaxLayer)

	encoded, err := Encode(h)
	require.NoError(t, err)
	assert.Equal(t, withMagic, encoded, "current versions are always written with the magic")
}

func TestEncode_LegacyNeverWritesMagic(t *testing.T) {
	b := &testutil.Builder{}
	b.Raw(core.LotheaderMagic)
	b.Byte(minimalHeader(0, 3)...)

	h, err := Decode(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, int32(3), h.MaxLayer)

	encoded, err := Encode(h)
	require.NoError(t, err)
	assert.Equal(t, minimalHeader(0, 3), encoded)
}

func TestEncode_SpawnGridSize(t *testing.T) {
	h, err := Decode(testutil.HeaderBytes(1))
	require.NoError(t, err)
	h.ZombieSpawns = h.ZombieSpawns[:10]
	_, err = Encode(h)
	require.Error(t, err)
}

func TestEncode_Modified(t *testing.T) {
	h, err := Decode(testutil.HeaderBytes(1))
	require.NoError(t, err)

	h.TileNames = append(h.TileNames, "appliances_cooking_01_16")
	h.Rooms[2].Rects = append(h.Rooms[2].Rects, Rect{X: 43, Y: 2, Width: 1, Height: 1})
	h.Buildings = append(h.Buildings, Building{RoomIDs: []int32{}})

	encoded, err := Encode(h)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	h.Rooms[2].ComputeArea()
	assert.Equal(t, int32(7), h.Rooms[2].Area)
	assert.Equal(t, h, decoded)
}

func TestBinaryMarshaler(t *testing.T) {
	original := testutil.HeaderBytes(0)

	var h Header
	require.NoError(t, h.UnmarshalBinary(original))
	out, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, core.FormatHeaderFileName(12, 7))

	h, err := Decode(testutil.HeaderBytes(1))
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, h))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, h, loaded)

	_, err = ReadFile(filepath.Join(dir, "missing.lotheader"))
	require.Error(t, err)
}
