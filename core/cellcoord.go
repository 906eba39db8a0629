package core

import "fmt"

// CellCoord identifies one square of a cell: the chunk it lives in, its
// position inside the chunk and its layer, packed as
// chunk<<25 | x<<16 | y<<7 | (z+32)&0x7F.
type CellCoord uint64

const (
	cellCoordChunkShift = 25
	cellCoordXShift     = 16
	cellCoordYShift     = 7
	cellCoordLayerBias  = 32
	cellCoordLayerMask  = 0x7F
	cellCoordXYMask     = 0x1FF
	cellCoordChunkMask  = 0x3FF
)

// NewCellCoord packs a square position. z is the real layer and may be negative.
func NewCellCoord(chunk, x, y, z int) CellCoord {
	return CellCoord(uint64(chunk&cellCoordChunkMask)<<cellCoordChunkShift |
		uint64(x&cellCoordXYMask)<<cellCoordXShift |
		uint64(y&cellCoordXYMask)<<cellCoordYShift |
		uint64((z+cellCoordLayerBias)&cellCoordLayerMask))
}

func (c CellCoord) Chunk() int { return int(uint64(c)>>cellCoordChunkShift) & cellCoordChunkMask }
func (c CellCoord) X() int     { return int(uint64(c)>>cellCoordXShift) & cellCoordXYMask }
func (c CellCoord) Y() int     { return int(uint64(c)>>cellCoordYShift) & cellCoordXYMask }
func (c CellCoord) Z() int     { return int(uint64(c)&cellCoordLayerMask) - cellCoordLayerBias }

func (c CellCoord) String() string {
	return fmt.Sprintf("chunk=%d x=%d y=%d z=%d", c.Chunk(), c.X(), c.Y(), c.Z())
}
