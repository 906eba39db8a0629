package mapstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/lotcodec/internal/testutil"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
)

func decodeFixture(t *testing.T, version int32, chunks int) (*lotheader.Header, *lotpack.File) {
	t.Helper()
	h, err := lotheader.Decode(testutil.HeaderBytes(version))
	require.NoError(t, err)
	f, err := lotpack.Decode(testutil.LotpackBytes(version, chunks), h)
	require.NoError(t, err)
	return h, f
}

func TestCompute_Fixture(t *testing.T) {
	h, f := decodeFixture(t, 1, 3)
	s, err := Compute(h, f)
	require.NoError(t, err)

	assert.Equal(t, int32(1), s.Version)
	assert.Equal(t, 3, s.Rooms)
	assert.Equal(t, 2, s.Buildings)
	assert.Equal(t, 3, s.TileNames)
	assert.Equal(t, 3, s.Chunks)
	assert.Equal(t, 2, s.EmptyChunks)
	assert.Equal(t, uint64(2), s.OccupiedSquares)
	assert.Equal(t, map[int32]uint64{-1: 1, 3: 1}, s.SquaresPerLayer)
	assert.Equal(t, uint64(3), s.DistinctTiles)
	assert.Equal(t, uint64(2), s.RoomsInUse)
	assert.Zero(t, s.DanglingRoomRefs)

	assert.Equal(t, uint64(2), s.TileStackHeight.Count)
	assert.Equal(t, 1.0, s.TileStackHeight.Min)
	assert.Equal(t, 2.0, s.TileStackHeight.Max)

	// kitchen 16, bedroom 25, bathroom 6
	assert.Equal(t, uint64(3), s.RoomArea.Count)
	assert.Equal(t, 6.0, s.RoomArea.Min)
	assert.Equal(t, 25.0, s.RoomArea.Max)
	for _, q := range []float64{s.RoomArea.P50, s.RoomArea.P90, s.RoomArea.P99} {
		assert.GreaterOrEqual(t, q, 6.0)
		assert.LessOrEqual(t, q, 25.0)
	}
	assert.LessOrEqual(t, s.RoomArea.P50, s.RoomArea.P99)
}

func TestCompute_HeaderOnly(t *testing.T) {
	h, _ := decodeFixture(t, 0, 0)
	s, err := Compute(h, nil)
	require.NoError(t, err)
	assert.Zero(t, s.Chunks)
	assert.Nil(t, s.SquaresPerLayer)
	assert.Equal(t, Distribution{}, s.TileStackHeight)
	assert.Equal(t, uint64(3), s.RoomArea.Count)
}

func TestCompute_DanglingRoomRefs(t *testing.T) {
	h, _ := decodeFixture(t, 1, 0)
	f := lotpack.New(h)
	require.NoError(t, f.Chunks[0].Set(0, 0, 0, &lotpack.SquareData{RoomID: 99, Tiles: []int32{0}}))
	require.NoError(t, f.Chunks[0].Set(1, 0, 0, &lotpack.SquareData{RoomID: 2, Tiles: []int32{1}}))
	require.NoError(t, f.Chunks[1].Set(0, 1, 0, &lotpack.SquareData{RoomID: lotpack.NoRoom, Tiles: []int32{1}}))

	s, err := Compute(h, f)
	require.NoError(t, err)
	assert.Equal(t, 1, s.DanglingRoomRefs)
	assert.Equal(t, uint64(1), s.RoomsInUse)
	assert.Equal(t, uint64(2), s.DistinctTiles)
	assert.Equal(t, uint64(3), s.OccupiedSquares)
	assert.Equal(t, h.ChunkCount()-2, s.EmptyChunks)
}

func TestCompute_EmptyHeader(t *testing.T) {
	s, err := Compute(&lotheader.Header{Version: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, Distribution{}, s.RoomArea)
}
