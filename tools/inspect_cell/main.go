// Command inspect_cell prints the contents of a lotheader and, optionally,
// statistics of its lotpack.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/INLOpen/lotcodec/colorize"
	"github.com/INLOpen/lotcodec/lotheader"
	"github.com/INLOpen/lotcodec/lotpack"
	"github.com/INLOpen/lotcodec/mapstats"
)

func main() {
	var headerPath, lotpackPath string
	flag.StringVar(&headerPath, "header", "", "path to a .lotheader")
	flag.StringVar(&lotpackPath, "lotpack", "", "optional path to the matching .lotpack")
	flag.Parse()
	if headerPath == "" {
		fmt.Println("provide -header path")
		os.Exit(2)
	}
	if err := run(headerPath, lotpackPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "inspect failed: %v\n", err)
		os.Exit(1)
	}
}

func run(headerPath, lotpackPath string, out io.Writer) error {
	h, err := lotheader.ReadFile(headerPath)
	if err != nil {
		return err
	}
	var f *lotpack.File
	if lotpackPath != "" {
		if f, err = lotpack.ReadFile(lotpackPath, h); err != nil {
			return err
		}
		if err := f.CheckTileRefs(); err != nil {
			fmt.Fprintf(out, "warning: %v\n", err)
		}
	}
	stats, err := mapstats.Compute(h, f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "version\t%d\n", h.Version)
	fmt.Fprintf(tw, "cell\t%d blocks of %d squares\n", h.CellSizeInBlocks, h.BlockSizeInSquares)
	fmt.Fprintf(tw, "layers\t[%d, %d)\n", h.MinLayer, h.MaxLayer)
	fmt.Fprintf(tw, "size\t%d x %d\n", h.Width, h.Height)
	fmt.Fprintf(tw, "tiles\t%d\n", len(h.TileNames))
	fmt.Fprintf(tw, "rooms\t%d (area p50 %.0f, max %.0f)\n", stats.Rooms, stats.RoomArea.P50, stats.RoomArea.Max)
	fmt.Fprintf(tw, "buildings\t%d\n", stats.Buildings)
	if f != nil {
		fmt.Fprintf(tw, "chunks\t%d (%d empty)\n", stats.Chunks, stats.EmptyChunks)
		fmt.Fprintf(tw, "occupied squares\t%d\n", stats.OccupiedSquares)
		fmt.Fprintf(tw, "distinct tiles\t%d\n", stats.DistinctTiles)
		fmt.Fprintf(tw, "stack height\tp50 %.1f  p90 %.1f  p99 %.1f  max %.0f\n",
			stats.TileStackHeight.P50, stats.TileStackHeight.P90, stats.TileStackHeight.P99, stats.TileStackHeight.Max)
		fmt.Fprintf(tw, "rooms in use\t%d\n", stats.RoomsInUse)
		fmt.Fprintf(tw, "dangling room refs\t%d\n", stats.DanglingRoomRefs)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "BUILDING\tCOLOR\tROOM\tNAME\tLAYER\tAREA")
	for id, b := range h.Buildings {
		c := colorize.ForBuilding(id, b)
		rooms, err := h.BuildingRooms(id)
		if err != nil {
			fmt.Fprintf(tw, "%d\t#%02x%02x%02x\t-\t%v\t\t\n", id, c.R, c.G, c.B, err)
			continue
		}
		for i, room := range rooms {
			fmt.Fprintf(tw, "%d\t#%02x%02x%02x\t%d\t%s\t%d\t%d\n", id, c.R, c.G, c.B, b.RoomIDs[i], room.Name, room.Layer, room.Area)
		}
	}
	return tw.Flush()
}
