package lotheader

import (
	"iter"

	"github.com/INLOpen/lotcodec/core"
)

// Building returns the building with the given index.
func (h *Header) Building(id int) (*Building, error) {
	if id < 0 || id >= len(h.Buildings) {
		return nil, &core.IndexOutOfRangeError{What: "building", Index: id, Len: len(h.Buildings)}
	}
	return &h.Buildings[id], nil
}

// Room returns the room with the given index.
func (h *Header) Room(id int) (*Room, error) {
	if id < 0 || id >= len(h.Rooms) {
		return nil, &core.IndexOutOfRangeError{What: "room", Index: id, Len: len(h.Rooms)}
	}
	return &h.Rooms[id], nil
}

// RoomsOfBuilding yields the rooms of a building in stored order. A room
// index past the end of Rooms yields a *core.IndexOutOfRangeError and stops
// the sequence.
func (h *Header) RoomsOfBuilding(buildingID int) iter.Seq2[*Room, error] {
	return func(yield func(*Room, error) bool) {
		b, err := h.Building(buildingID)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, roomID := range b.RoomIDs {
			room, err := h.Room(int(roomID))
			if !yield(room, err) || err != nil {
				return
			}
		}
	}
}

// BuildingRooms collects RoomsOfBuilding.
func (h *Header) BuildingRooms(buildingID int) ([]*Room, error) {
	var rooms []*Room
	for room, err := range h.RoomsOfBuilding(buildingID) {
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// LayerRooms returns the indices of rooms on the given layer.
func (h *Header) LayerRooms(layer int32) []int {
	var ids []int
	for i := range h.Rooms {
		if h.Rooms[i].Layer == layer {
			ids = append(ids, i)
		}
	}
	return ids
}
