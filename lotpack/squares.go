package lotpack

import (
	"fmt"
	"iter"

	"github.com/INLOpen/lotcodec/core"
)

// ChunkOrigin returns the square position of chunk i inside its cell.
// Chunks are stored with the block y coordinate varying fastest.
func (f *File) ChunkOrigin(i int) (x, y int) {
	cell := int(f.Header.CellSizeInBlocks)
	block := int(f.Header.BlockSizeInSquares)
	return (i / cell) * block, (i % cell) * block
}

// Squares yields every occupied square with its packed coordinate. The
// coordinate carries the real layer, not the offset from MinLayer.
func (f *File) Squares() iter.Seq2[core.CellCoord, *SquareData] {
	return func(yield func(core.CellCoord, *SquareData) bool) {
		minLayer := 0
		if f.Header != nil {
			minLayer = int(f.Header.MinLayer)
		}
		for ci, c := range f.Chunks {
			for i, sq := range c.squares {
				if sq == nil {
					continue
				}
				x, y, z := c.Position(i)
				if !yield(core.NewCellCoord(ci, x, y, z+minLayer), sq) {
					return
				}
			}
		}
	}
}

// CheckTileRefs verifies that every tile id resolves against the header's
// tile dictionary.
func (f *File) CheckTileRefs() error {
	n := len(f.Header.TileNames)
	for coord, sq := range f.Squares() {
		for _, tile := range sq.Tiles {
			if tile < 0 || int(tile) >= n {
				return fmt.Errorf("square %s: %w", coord, &core.IndexOutOfRangeError{What: "tile", Index: int(tile), Len: n})
			}
		}
	}
	return nil
}

// TileNames resolves the tile stack of sq, bottom to top.
func (f *File) TileNames(sq *SquareData) ([]string, error) {
	names := make([]string, len(sq.Tiles))
	for i, tile := range sq.Tiles {
		name, err := f.Header.TileName(tile)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}
