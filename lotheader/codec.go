package lotheader

import (
	"errors"
	"fmt"

	"github.com/INLOpen/lotcodec/core"
	"github.com/INLOpen/lotcodec/cursor"
)

// ErrEmptyLayerRange is returned when the stored layer bounds leave no layer.
var ErrEmptyLayerRange = errors.New("lotheader: empty layer range")

// Minimum encoded sizes, used to reject corrupt counts before allocating.
const (
	minRoomSize   = 1 + 3*4 // empty name line, layer, rect count, object count
	rectSize      = 4 * 4
	objectSize    = 3 * 4
	minBuildSize  = 4
	roomIndexSize = 4
)

// Decode parses a complete lotheader buffer. It fails unless every byte of
// buf is consumed.
func Decode(buf []byte) (*Header, error) {
	r := cursor.NewReader(buf)
	h := &Header{}

	// A missing magic is tolerated: the first field is then the version.
	if r.HasPrefix(core.LotheaderMagic) {
		if err := r.Skip(core.MagicLen); err != nil {
			return nil, err
		}
	}
	version, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	layout := core.LayoutFor(version)
	h.Version = version
	h.CellSizeInBlocks = layout.CellSize
	h.BlockSizeInSquares = layout.BlockSize

	if h.TileNames, err = readTileNames(r); err != nil {
		return nil, err
	}
	if layout.HasLegacyPadding {
		if err := r.Skip(1); err != nil {
			return nil, fmt.Errorf("skip padding: %w", err)
		}
	}
	if h.Width, err = r.ReadInt32(); err != nil {
		return nil, fmt.Errorf("read width: %w", err)
	}
	if h.Height, err = r.ReadInt32(); err != nil {
		return nil, fmt.Errorf("read height: %w", err)
	}
	if err := readLayers(r, layout, h); err != nil {
		return nil, err
	}
	if h.Rooms, err = readRooms(r); err != nil {
		return nil, err
	}
	if h.Buildings, err = readBuildings(r); err != nil {
		return nil, err
	}
	if h.ZombieSpawns, err = r.ReadBytes(layout.SpawnGridSize()); err != nil {
		return nil, fmt.Errorf("read spawn grid: %w", err)
	}
	if err := r.Finish(); err != nil {
		return nil, err
	}
	return h, nil
}

func readTileNames(r *cursor.Reader) ([]string, error) {
	count, err := r.ReadCount(1)
	if err != nil {
		return nil, fmt.Errorf("read tile count: %w", err)
	}
	names := make([]string, count)
	for i := range names {
		if names[i], err = r.ReadLine(); err != nil {
			return nil, fmt.Errorf("read tile name %d: %w", i, err)
		}
	}
	return names, nil
}

// readLayers narrows the layout's nominal range by the stored bounds. The
// file can restrict the range but never widen it.
func readLayers(r *cursor.Reader, layout core.VersionLayout, h *Header) error {
	h.MinLayer, h.MaxLayer = layout.MinLayer, layout.MaxLayer
	if !layout.UsesMagicPrefix {
		maxLayer, err := r.ReadInt32()
		if err != nil {
			return fmt.Errorf("read max layer: %w", err)
		}
		h.MaxLayer = min(h.MaxLayer, maxLayer)
	} else {
		minLayer, err := r.ReadInt32()
		if err != nil {
			return fmt.Errorf("read min layer: %w", err)
		}
		maxLayer, err := r.ReadInt32()
		if err != nil {
			return fmt.Errorf("read max layer: %w", err)
		}
		h.MinLayer = max(h.MinLayer, minLayer)
		h.MaxLayer = min(h.MaxLayer, maxLayer+1)
	}
	if h.MaxLayer-h.MinLayer <= 0 {
		return fmt.Errorf("%w: [%d, %d)", ErrEmptyLayerRange, h.MinLayer, h.MaxLayer)
	}
	return nil
}

func readRooms(r *cursor.Reader) ([]Room, error) {
	count, err := r.ReadCount(minRoomSize)
	if err != nil {
		return nil, fmt.Errorf("read room count: %w", err)
	}
	rooms := make([]Room, count)
	for i := range rooms {
		if err := readRoom(r, &rooms[i]); err != nil {
			return nil, fmt.Errorf("read room %d: %w", i, err)
		}
	}
	return rooms, nil
}

func readRoom(r *cursor.Reader, room *Room) error {
	var err error
	if room.Name, err = r.ReadLine(); err != nil {
		return err
	}
	if room.Layer, err = r.ReadInt32(); err != nil {
		return err
	}

	rectCount, err := r.ReadCount(rectSize)
	if err != nil {
		return err
	}
	room.Rects = make([]Rect, rectCount)
	for i := range room.Rects {
		rect := &room.Rects[i]
		for _, field := range []*int32{&rect.X, &rect.Y, &rect.Width, &rect.Height} {
			if *field, err = r.ReadInt32(); err != nil {
				return err
			}
		}
		room.Area += rect.Area()
	}

	objectCount, err := r.ReadCount(objectSize)
	if err != nil {
		return err
	}
	room.Objects = make([]RoomObject, objectCount)
	for i := range room.Objects {
		obj := &room.Objects[i]
		for _, field := range []*int32{&obj.Type, &obj.X, &obj.Y} {
			if *field, err = r.ReadInt32(); err != nil {
				return err
			}
		}
	}
	return nil
}

func readBuildings(r *cursor.Reader) ([]Building, error) {
	count, err := r.ReadCount(minBuildSize)
	if err != nil {
		return nil, fmt.Errorf("read building count: %w", err)
	}
	buildings := make([]Building, count)
	for i := range buildings {
		roomCount, err := r.ReadCount(roomIndexSize)
		if err != nil {
			return nil, fmt.Errorf("read building %d: %w", i, err)
		}
		ids := make([]int32, roomCount)
		for j := range ids {
			if ids[j], err = r.ReadInt32(); err != nil {
				return nil, fmt.Errorf("read building %d room %d: %w", i, j, err)
			}
		}
		buildings[i].RoomIDs = ids
	}
	return buildings, nil
}

// EncodedSize returns the exact size of h once encoded.
func (h *Header) EncodedSize() int {
	layout := h.Layout()
	size := 0
	if layout.UsesMagicPrefix {
		size += core.MagicLen
	}
	size += cursor.Int32Size(2) // version, tile count
	for _, name := range h.TileNames {
		size += cursor.LineSize(name)
	}
	if layout.HasLegacyPadding {
		size++
	}
	size += cursor.Int32Size(2) // width, height
	if layout.UsesMagicPrefix {
		size += cursor.Int32Size(2)
	} else {
		size += cursor.Int32Size(1)
	}
	size += cursor.Int32Size(1)
	for _, room := range h.Rooms {
		size += cursor.LineSize(room.Name) + cursor.Int32Size(3)
		size += len(room.Rects)*rectSize + len(room.Objects)*objectSize
	}
	size += cursor.Int32Size(1)
	for _, b := range h.Buildings {
		size += cursor.Int32Size(1 + len(b.RoomIDs))
	}
	return size + layout.SpawnGridSize()
}

// Encode serializes h. It is the exact inverse of Decode for any header
// whose layer bounds lie within the version's nominal range.
func Encode(h *Header) ([]byte, error) {
	layout := h.Layout()
	if len(h.ZombieSpawns) != layout.SpawnGridSize() {
		return nil, fmt.Errorf("spawn grid has %d bytes, version %d needs %d", len(h.ZombieSpawns), h.Version, layout.SpawnGridSize())
	}
	w := cursor.NewWriter(h.EncodedSize())

	if layout.UsesMagicPrefix {
		if err := w.WriteString(core.LotheaderMagic); err != nil {
			return nil, err
		}
	}
	ints := []int32{h.Version, int32(len(h.TileNames))}
	if err := writeInts(w, ints...); err != nil {
		return nil, err
	}
	for i, name := range h.TileNames {
		if err := w.WriteLine(name); err != nil {
			return nil, fmt.Errorf("write tile name %d: %w", i, err)
		}
	}
	if layout.HasLegacyPadding {
		if err := w.WriteBytes([]byte{0}); err != nil {
			return nil, err
		}
	}
	if err := writeInts(w, h.Width, h.Height); err != nil {
		return nil, err
	}
	if layout.UsesMagicPrefix {
		if err := writeInts(w, h.MinLayer, h.MaxLayer-1); err != nil {
			return nil, err
		}
	} else if err := writeInts(w, h.MaxLayer); err != nil {
		return nil, err
	}

	if err := writeInts(w, int32(len(h.Rooms))); err != nil {
		return nil, err
	}
	for i := range h.Rooms {
		if err := writeRoom(w, &h.Rooms[i]); err != nil {
			return nil, fmt.Errorf("write room %d: %w", i, err)
		}
	}

	if err := writeInts(w, int32(len(h.Buildings))); err != nil {
		return nil, err
	}
	for _, b := range h.Buildings {
		if err := writeInts(w, int32(len(b.RoomIDs))); err != nil {
			return nil, err
		}
		if err := writeInts(w, b.RoomIDs...); err != nil {
			return nil, err
		}
	}

	if err := w.WriteBytes(h.ZombieSpawns); err != nil {
		return nil, err
	}
	return w.Finish()
}

func writeRoom(w *cursor.Writer, room *Room) error {
	if err := w.WriteLine(room.Name); err != nil {
		return err
	}
	if err := writeInts(w, room.Layer, int32(len(room.Rects))); err != nil {
		return err
	}
	for _, rect := range room.Rects {
		if err := writeInts(w, rect.X, rect.Y, rect.Width, rect.Height); err != nil {
			return err
		}
	}
	if err := writeInts(w, int32(len(room.Objects))); err != nil {
		return err
	}
	for _, obj := range room.Objects {
		if err := writeInts(w, obj.Type, obj.X, obj.Y); err != nil {
			return err
		}
	}
	return nil
}

func writeInts(w *cursor.Writer, vs ...int32) error {
	for _, v := range vs {
		if err := w.WriteInt32(v); err != nil {
			return err
		}
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (h *Header) MarshalBinary() ([]byte, error) {
	return Encode(h)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (h *Header) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*h = *decoded
	return nil
}
