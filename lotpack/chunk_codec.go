package lotpack

import (
	"fmt"

	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/cursor"
)

const skipCode int32 = -1

// DecodeChunk reads one chunk payload starting at the reader's offset.
//
// Empty cells are stored as (-1, n) runs. A pending run is consumed a whole
// layer or a whole row at a time when it covers one, otherwise cell by cell.
func DecodeChunk(r *cursor.Reader, blockSize, layers int) (*Chunk, error) {
	c := NewChunk(blockSize, layers)
	perLayer := blockSize * blockSize
	skip := 0

	for z := 0; z < layers; z++ {
		if skip >= perLayer {
			skip -= perLayer
			continue
		}
		for x := 0; x < blockSize; x++ {
			if skip >= blockSize {
				skip -= blockSize
				continue
			}
			for y := 0; y < blockSize; y++ {
				if skip > 0 {
					skip--
					continue
				}
				start := r.Offset()
				count, err := r.ReadInt32()
				if err != nil {
					return nil, err
				}
				switch {
				case count == skipCode:
					n, err := r.ReadInt32()
					if err != nil {
						return nil, err
					}
					skip = int(n)
					if skip > 0 {
						skip--
					}
				case count > 1:
					sq, err := readSquare(r, count-1)
					if err != nil {
						return nil, fmt.Errorf("square at offset %d: %w", start, err)
					}
					c.squares[c.Index(x, y, z)] = sq
				default:
					c.squares[c.Index(x, y, z)] = &SquareData{RoomID: NoRoom, rawCount: count, bare: true}
				}
			}
		}
	}
	return c, nil
}

func readSquare(r *cursor.Reader, tileCount int32) (*SquareData, error) {
	roomID, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if int(tileCount) > r.Remaining()/4 {
		return nil, &core.TruncatedDataError{Offset: r.Offset() + int(tileCount)*4, Length: r.Len()}
	}
	sq := &SquareData{RoomID: roomID, Tiles: make([]int32, tileCount)}
	for i := range sq.Tiles {
		if sq.Tiles[i], err = r.ReadInt32(); err != nil {
			return nil, err
		}
	}
	return sq, nil
}

// AppendSequence appends the integer stream of c to seq. Runs of empty cells
// are always emitted cell by cell as (-1, n), never as layer or row skips.
func (c *Chunk) AppendSequence(seq []int32) []int32 {
	run := 0
	for _, sq := range c.squares {
		if sq == nil {
			run++
			continue
		}
		if run > 0 {
			seq = append(seq, skipCode, int32(run))
			run = 0
		}
		seq = sq.appendTo(seq)
	}
	if run > 0 {
		seq = append(seq, skipCode, int32(run))
	}
	return seq
}

// EncodedLen is the number of int32 values AppendSequence emits.
func (c *Chunk) EncodedLen() int {
	n := 0
	inRun := false
	for _, sq := range c.squares {
		if sq == nil {
			if !inRun {
				n += 2
				inRun = true
			}
			continue
		}
		inRun = false
		n += sq.encodedLen()
	}
	return n
}

// EncodeChunk writes the integer stream of c.
func EncodeChunk(w *cursor.Writer, c *Chunk) error {
	for _, v := range c.AppendSequence(make([]int32, 0, c.EncodedLen())) {
		if err := w.WriteInt32(v); err != nil {
			return err
		}
	}
	return nil
}
