// Package colorize derives stable debug colours from the structural identity
// of rooms and buildings.
package colorize

import (
	"encoding/binary"
	"image/color"

	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/cespare/xxhash/v2"
)

// FromHash slices a 32-bit hash into an opaque RGB colour.
func FromHash(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8((v >> 16) & 0xFF),
		G: uint8((v >> 8) & 0xFF),
		B: uint8(v & 0xFF),
		A: 0xFF,
	}
}

func fold(sum uint64) uint32 {
	return uint32(sum) ^ uint32(sum>>32)
}

// ForBuilding colours a building by its index and the rooms it owns.
func ForBuilding(id int, b lotheader.Building) color.RGBA {
	d := xxhash.New()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(id))
	_, _ = d.Write(buf[:])
	for _, roomID := range b.RoomIDs {
		binary.LittleEndian.PutUint32(buf[:], uint32(roomID))
		_, _ = d.Write(buf[:])
	}
	return FromHash(fold(d.Sum64()))
}

// ForRoom colours a room by its index, name, layer and rectangles.
func ForRoom(id int, r *lotheader.Room) color.RGBA {
	d := xxhash.New()
	var buf [4]byte
	put := func(v int32) {
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		_, _ = d.Write(buf[:])
	}
	put(int32(id))
	_, _ = d.WriteString(r.Name)
	put(r.Layer)
	for _, rect := range r.Rects {
		put(rect.X)
		put(rect.Y)
		put(rect.Width)
		put(rect.Height)
	}
	return FromHash(fold(d.Sum64()))
}
