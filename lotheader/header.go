// Package lotheader decodes and encodes lotheader files: the per-cell tile
// dictionary, layer bounds, rooms, buildings and zombie spawn grid.
package lotheader

import (
	"github.com/INLOpen/lotcodec/core"
)

// Rect is an axis-aligned rectangle in square coordinates.
type Rect struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

// Area returns the number of squares the rectangle covers.
func (r Rect) Area() int32 { return r.Width * r.Height }

// RoomObject is a point annotation inside a room, such as a spawn marker.
type RoomObject struct {
	Type int32 `json:"type"`
	X    int32 `json:"x"`
	Y    int32 `json:"y"`
}

// Room is identified by its index in Header.Rooms.
type Room struct {
	Name    string       `json:"name"`
	Layer   int32        `json:"layer"`
	Rects   []Rect       `json:"rects"`
	Objects []RoomObject `json:"objects"`
	// Area is the summed area of Rects. It is filled on decode and never written.
	Area int32 `json:"area"`
}

// ComputeArea recomputes Area from Rects.
func (r *Room) ComputeArea() {
	r.Area = 0
	for _, rect := range r.Rects {
		r.Area += rect.Area()
	}
}

// Building is identified by its index in Header.Buildings. RoomIDs are plain
// indices into Header.Rooms and are not validated on decode.
type Building struct {
	RoomIDs []int32 `json:"room_ids"`
}

// Header is the decoded content of a lotheader file.
type Header struct {
	Version            int32 `json:"version"`
	CellSizeInBlocks   int32 `json:"cell_size_in_blocks"`
	BlockSizeInSquares int32 `json:"block_size_in_squares"`
	// MinLayer and MaxLayer are the effective layer bounds, MaxLayer exclusive.
	MinLayer     int32      `json:"min_layer"`
	MaxLayer     int32      `json:"max_layer"`
	Width        int32      `json:"width"`
	Height       int32      `json:"height"`
	TileNames    []string   `json:"tile_names"`
	Rooms        []Room     `json:"rooms"`
	Buildings    []Building `json:"buildings"`
	ZombieSpawns []byte     `json:"zombie_spawns"`
}

// Layout returns the version-dependent layout constants of h.
func (h *Header) Layout() core.VersionLayout {
	return core.LayoutFor(h.Version)
}

// Layers is the number of layers a chunk of this cell holds.
func (h *Header) Layers() int {
	return int(h.MaxLayer - h.MinLayer)
}

// ChunkCount is the number of chunks a full lotpack of this cell holds.
func (h *Header) ChunkCount() int {
	return int(h.CellSizeInBlocks) * int(h.CellSizeInBlocks)
}

// SpawnAt returns the spawn weight of block (x, y); y varies fastest.
func (h *Header) SpawnAt(x, y int) byte {
	return h.ZombieSpawns[x*int(h.CellSizeInBlocks)+y]
}

// TileName resolves a tile id against the tile dictionary.
func (h *Header) TileName(id int32) (string, error) {
	if id < 0 || int(id) >= len(h.TileNames) {
		return "", &core.IndexOutOfRangeError{What: "tile", Index: int(id), Len: len(h.TileNames)}
	}
	return h.TileNames[id], nil
}
