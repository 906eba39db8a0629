// Package render draws the room geometry of a lotheader as a PNG image for
// visual inspection of decoded cells.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/INLOpen/lotcodec/colorize"
	"github.com/INLOpen/lotcodec/lotheader"
)

// ErrNothingToDraw is returned when no room rectangle lies on the requested layer.
var ErrNothingToDraw = errors.New("render: no rooms on layer")

var (
	background = color.RGBA{A: 0xFF}
	orphanRoom = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}
)

// Options controls what is drawn.
type Options struct {
	Layer int32
	// Scale is the pixel size of one square; values below 1 mean 1.
	Scale int
}

type shape struct {
	rect lotheader.Rect
	fill color.RGBA
}

// Buildings draws every room rectangle on opts.Layer, coloured by the
// building owning the room. Rooms outside any building are drawn grey. The
// canvas spans the bounding box of the drawn rectangles.
func Buildings(w io.Writer, h *lotheader.Header, opts Options) error {
	img, err := Draw(h, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Draw is Buildings without the PNG encoding.
func Draw(h *lotheader.Header, opts Options) (*image.RGBA, error) {
	scale := max(opts.Scale, 1)

	owner := make(map[int32]color.RGBA)
	for id, b := range h.Buildings {
		// Surface corrupt building tables instead of drawing around them.
		if _, err := h.BuildingRooms(id); err != nil {
			return nil, fmt.Errorf("building %d: %w", id, err)
		}
		c := colorize.ForBuilding(id, b)
		for _, roomID := range b.RoomIDs {
			owner[roomID] = c
		}
	}

	var shapes []shape
	var bounds image.Rectangle
	for i := range h.Rooms {
		room := &h.Rooms[i]
		if room.Layer != opts.Layer {
			continue
		}
		fill, ok := owner[int32(i)]
		if !ok {
			fill = orphanRoom
		}
		for _, r := range room.Rects {
			if r.Width <= 0 || r.Height <= 0 {
				continue
			}
			shapes = append(shapes, shape{rect: r, fill: fill})
			bounds = bounds.Union(image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height)))
		}
	}
	if len(shapes) == 0 {
		return nil, fmt.Errorf("%w %d", ErrNothingToDraw, opts.Layer)
	}

	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	for _, s := range shapes {
		px := image.Rect(
			(int(s.rect.X)-bounds.Min.X)*scale,
			(int(s.rect.Y)-bounds.Min.Y)*scale,
			(int(s.rect.X+s.rect.Width)-bounds.Min.X)*scale,
			(int(s.rect.Y+s.rect.Height)-bounds.Min.Y)*scale,
		)
		fillRect(img, px, dim(s.fill))
		outline(img, px, s.fill)
	}
	return img, nil
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0xFF}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}
