// Package lotpack decodes and encodes lotpack files: an offset table of
// chunks, each a run-length encoded grid of tile stacks.
package lotpack

import (
	"encoding/json"
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// NoRoom is the room id of squares outside any room.
const NoRoom int32 = -1

// SquareData is one occupied square of a chunk at one layer.
type SquareData struct {
	// RoomID indexes the header's Rooms, or is NoRoom. It is not validated.
	RoomID int32 `json:"room_id"`
	// Tiles indexes the header's TileNames, bottom to top.
	Tiles []int32 `json:"tiles"`

	// Squares decoded from a count of 0 or 1 carry no room id or tiles;
	// rawCount keeps the stored count so they encode back to the same value.
	rawCount int32
	bare     bool
}

// IsBare reports whether the square was decoded from a stored count of 0 or
// 1, i.e. occupied but without room id and tiles.
func (s *SquareData) IsBare() bool { return s.bare }

func (s *SquareData) appendTo(seq []int32) []int32 {
	if len(s.Tiles) == 0 {
		if s.bare {
			return append(seq, s.rawCount)
		}
		// A room id after a count of 1 would not be read back.
		return append(seq, 1)
	}
	seq = append(seq, int32(len(s.Tiles)+1), s.RoomID)
	return append(seq, s.Tiles...)
}

func (s *SquareData) encodedLen() int {
	if len(s.Tiles) == 0 {
		return 1
	}
	return 2 + len(s.Tiles)
}

// Chunk is a dense blockSize x blockSize x layers grid of optional squares.
// z is the layer offset from the header's MinLayer.
type Chunk struct {
	blockSize int
	layers    int
	squares   []*SquareData // flattened in (z, x, y) order, y fastest
}

// NewChunk returns an empty chunk.
func NewChunk(blockSize, layers int) *Chunk {
	return &Chunk{
		blockSize: blockSize,
		layers:    layers,
		squares:   make([]*SquareData, blockSize*blockSize*layers),
	}
}

func (c *Chunk) BlockSize() int { return c.blockSize }
func (c *Chunk) Layers() int    { return c.layers }

// Len is the number of cells, occupied or not.
func (c *Chunk) Len() int { return len(c.squares) }

// Index flattens (x, y, z) into the (z, x, y) iteration order of the format.
func (c *Chunk) Index(x, y, z int) int {
	return (z*c.blockSize+x)*c.blockSize + y
}

// Position is the inverse of Index.
func (c *Chunk) Position(i int) (x, y, z int) {
	y = i % c.blockSize
	x = (i / c.blockSize) % c.blockSize
	z = i / (c.blockSize * c.blockSize)
	return x, y, z
}

func (c *Chunk) inBounds(x, y, z int) bool {
	return x >= 0 && x < c.blockSize && y >= 0 && y < c.blockSize && z >= 0 && z < c.layers
}

// At returns the square at (x, y, z), or nil if it is empty or out of bounds.
func (c *Chunk) At(x, y, z int) *SquareData {
	if !c.inBounds(x, y, z) {
		return nil
	}
	return c.squares[c.Index(x, y, z)]
}

// Set stores sq at (x, y, z); a nil sq empties the cell.
func (c *Chunk) Set(x, y, z int, sq *SquareData) error {
	if !c.inBounds(x, y, z) {
		return fmt.Errorf("square (%d, %d, %d) outside chunk %dx%dx%d", x, y, z, c.blockSize, c.blockSize, c.layers)
	}
	c.squares[c.Index(x, y, z)] = sq
	return nil
}

// Occupancy returns the flattened indices of occupied cells.
func (c *Chunk) Occupancy() *roaring.Bitmap {
	bm := roaring.New()
	for i, sq := range c.squares {
		if sq != nil {
			bm.AddInt(i)
		}
	}
	return bm
}

// IsEmpty reports whether no cell is occupied.
func (c *Chunk) IsEmpty() bool {
	for _, sq := range c.squares {
		if sq != nil {
			return false
		}
	}
	return true
}

type squareJSON struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Z      int     `json:"z"`
	RoomID int32   `json:"room_id"`
	Tiles  []int32 `json:"tiles"`
}

// MarshalJSON writes occupied squares only.
func (c *Chunk) MarshalJSON() ([]byte, error) {
	out := struct {
		BlockSize int          `json:"block_size"`
		Layers    int          `json:"layers"`
		Squares   []squareJSON `json:"squares"`
	}{BlockSize: c.blockSize, Layers: c.layers, Squares: []squareJSON{}}

	for i, sq := range c.squares {
		if sq == nil {
			continue
		}
		x, y, z := c.Position(i)
		out.Squares = append(out.Squares, squareJSON{X: x, Y: y, Z: z, RoomID: sq.RoomID, Tiles: sq.Tiles})
	}
	return json.Marshal(out)
}
