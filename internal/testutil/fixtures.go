package testutil

// Tile names shared by every fixture header.
var FixtureTileNames = []string{
	"floors_exterior_natural_01_0",
	"walls_exterior_house_01_32",
	"furniture_seating_indoor_01_4",
}

// FixtureGeometry returns the layout constants the fixtures are built with:
// cell size, block size and the narrowed layer range stored in the header.
func FixtureGeometry(version int32) (cellSize, blockSize, minLayer, maxLayer int32) {
	if version == 0 {
		return 30, 10, 0, 4
	}
	return 32, 8, -1, 4
}

// HeaderBytes hand-builds a lotheader with three rooms and two buildings.
// Building 0 owns rooms 0 and 1, building 1 owns room 2.
func HeaderBytes(version int32) []byte {
	cellSize, _, minLayer, maxLayer := FixtureGeometry(version)

	b := &Builder{}
	if version != 0 {
		b.Raw("LOTH")
	}
	b.Int32(version)
	b.Int32(int32(len(FixtureTileNames)))
	for _, name := range FixtureTileNames {
		b.Line(name)
	}
	if version == 0 {
		b.Byte(0)
	}
	b.Int32(cellSize, cellSize)
	if version == 0 {
		b.Int32(maxLayer)
	} else {
		b.Int32(minLayer, maxLayer-1)
	}

	b.Int32(3)
	// kitchen: two rects, no objects
	b.Line("kitchen").Int32(0)
	b.Int32(2).Int32(10, 10, 4, 3).Int32(14, 10, 2, 2)
	b.Int32(0)
	// bedroom: one rect, one object
	b.Line("bedroom").Int32(1)
	b.Int32(1).Int32(10, 10, 5, 5)
	b.Int32(1).Int32(7, 11, 12)
	// bathroom
	b.Line("bathroom").Int32(0)
	b.Int32(1).Int32(40, 2, 3, 2)
	b.Int32(2).Int32(1, 41, 3).Int32(2, 42, 3)

	b.Int32(2)
	b.Int32(2, 0, 1)
	b.Int32(1, 2)

	for i := int32(0); i < cellSize*cellSize; i++ {
		b.Byte(byte(i % 7))
	}
	return b.Bytes()
}

// LotpackBytes hand-builds a lotpack with chunkCount chunks matching
// HeaderBytes(version). Chunk 0 holds two occupied squares, the first and the
// last of the chunk; all other chunks are empty.
func LotpackBytes(version int32, chunkCount int) []byte {
	_, blockSize, minLayer, maxLayer := FixtureGeometry(version)
	total := blockSize * blockSize * (maxLayer - minLayer)

	payloads := make([][]byte, chunkCount)
	for i := range payloads {
		p := &Builder{}
		if i == 0 {
			p.Int32(3, 0, 0, 1)
			p.Int32(-1, total-2)
			p.Int32(2, 1, 2)
		} else {
			p.Int32(-1, total)
		}
		payloads[i] = p.Bytes()
	}
	return AssembleLotpack(version, payloads)
}

// AssembleLotpack lays out an offset table followed by the payloads in order.
func AssembleLotpack(version int32, payloads [][]byte) []byte {
	b := &Builder{}
	if version != 0 {
		b.Raw("LOTP").Int32(version)
	}
	b.Int32(int32(len(payloads)))
	offset := int32(b.Len() + len(payloads)*8)
	for _, p := range payloads {
		b.Int32(offset, 0)
		offset += int32(len(p))
	}
	for _, p := range payloads {
		b.Byte(p...)
	}
	return b.Bytes()
}
