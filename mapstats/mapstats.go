// Package mapstats summarizes a decoded cell.
package mapstats

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring"
	tdigest "github.com/caio/go-tdigest/v4"

	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
)

// Distribution is a value distribution. Min and Max are exact, the
// percentiles are t-digest estimates. All fields are zero when Count is 0.
type Distribution struct {
	Count uint64  `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P99   float64 `json:"p99"`
}

type accumulator struct {
	td       *tdigest.TDigest
	min, max float64
}

func newAccumulator() (*accumulator, error) {
	td, err := tdigest.New()
	if err != nil {
		return nil, fmt.Errorf("tdigest.New failed: %w", err)
	}
	return &accumulator{td: td, min: math.Inf(1), max: math.Inf(-1)}, nil
}

func (a *accumulator) add(v float64) error {
	if err := a.td.AddWeighted(v, 1); err != nil {
		return fmt.Errorf("tdigest AddWeighted failed: %w", err)
	}
	a.min = min(a.min, v)
	a.max = max(a.max, v)
	return nil
}

func (a *accumulator) result() Distribution {
	if a.td.Count() == 0 {
		return Distribution{}
	}
	return Distribution{
		Count: a.td.Count(),
		Min:   a.min,
		Max:   a.max,
		P50:   a.td.Quantile(0.50),
		P90:   a.td.Quantile(0.90),
		P99:   a.td.Quantile(0.99),
	}
}

// Stats describes one cell.
type Stats struct {
	Version   int32 `json:"version"`
	Rooms     int   `json:"rooms"`
	Buildings int   `json:"buildings"`
	TileNames int   `json:"tile_names"`

	// Lotpack figures; zero when only the header was given.
	Chunks           int              `json:"chunks"`
	EmptyChunks      int              `json:"empty_chunks"`
	OccupiedSquares  uint64           `json:"occupied_squares"`
	SquaresPerLayer  map[int32]uint64 `json:"squares_per_layer,omitempty"`
	DistinctTiles    uint64           `json:"distinct_tiles"`
	RoomsInUse       uint64           `json:"rooms_in_use"`
	DanglingRoomRefs int              `json:"dangling_room_refs"`
	TileStackHeight  Distribution     `json:"tile_stack_height"`

	RoomArea Distribution `json:"room_area"`
}

// Compute summarizes h and, when f is not nil, its lotpack.
func Compute(h *lotheader.Header, f *lotpack.File) (*Stats, error) {
	s := &Stats{
		Version:   h.Version,
		Rooms:     len(h.Rooms),
		Buildings: len(h.Buildings),
		TileNames: len(h.TileNames),
	}

	areas, err := newAccumulator()
	if err != nil {
		return nil, err
	}
	for i := range h.Rooms {
		if err := areas.add(float64(h.Rooms[i].Area)); err != nil {
			return nil, err
		}
	}
	s.RoomArea = areas.result()

	if f == nil {
		return s, nil
	}
	stacks, err := newAccumulator()
	if err != nil {
		return nil, err
	}
	tiles := roaring.New()
	rooms := roaring.New()
	s.SquaresPerLayer = make(map[int32]uint64)
	s.Chunks = len(f.Chunks)
	for _, c := range f.Chunks {
		occupied := c.Occupancy().GetCardinality()
		if occupied == 0 {
			s.EmptyChunks++
		}
		s.OccupiedSquares += occupied
	}
	for coord, sq := range f.Squares() {
		s.SquaresPerLayer[int32(coord.Z())]++
		if err := stacks.add(float64(len(sq.Tiles))); err != nil {
			return nil, err
		}
		for _, t := range sq.Tiles {
			if t >= 0 {
				tiles.Add(uint32(t))
			}
		}
		switch {
		case sq.RoomID == lotpack.NoRoom:
		case sq.RoomID < 0 || int(sq.RoomID) >= len(h.Rooms):
			s.DanglingRoomRefs++
		default:
			rooms.Add(uint32(sq.RoomID))
		}
	}
	s.DistinctTiles = tiles.GetCardinality()
	s.RoomsInUse = rooms.GetCardinality()
	s.TileStackHeight = stacks.result()
	return s, nil
}
