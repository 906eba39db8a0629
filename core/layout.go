package core

// LegacyVersion is the only version using the old 30x30 block layout.
const LegacyVersion int32 = 0

// VersionLayout holds the layout constants that differ between the legacy
// and the current on-disk formats. MaxLayer is exclusive.
type VersionLayout struct {
	CellSize         int32 // blocks per cell side
	BlockSize        int32 // squares per block side
	MinLayer         int32
	MaxLayer         int32
	UsesMagicPrefix  bool
	HasLegacyPadding bool
}

var (
	legacyLayout = VersionLayout{
		CellSize:         30,
		BlockSize:        10,
		MinLayer:         0,
		MaxLayer:         8,
		HasLegacyPadding: true,
	}
	currentLayout = VersionLayout{
		CellSize:        32,
		BlockSize:       8,
		MinLayer:        -32,
		MaxLayer:        33,
		UsesMagicPrefix: true,
	}
)

// LayoutFor resolves the layout of a format version. It must be consulted
// right after the version field is decoded since every later field depends on it.
func LayoutFor(version int32) VersionLayout {
	if version == LegacyVersion {
		return legacyLayout
	}
	return currentLayout
}

// SquaresPerCell is the side length of a cell in squares.
func (l VersionLayout) SquaresPerCell() int {
	return int(l.CellSize) * int(l.BlockSize)
}

// SpawnGridSize is the number of spawn bytes at the end of a lotheader.
func (l VersionLayout) SpawnGridSize() int {
	return int(l.CellSize) * int(l.CellSize)
}
