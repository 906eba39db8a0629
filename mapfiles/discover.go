package mapfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/INLOpen/lotcodec/core"
)

// Cell is one map cell on disk: a lotheader and, usually, its lotpack.
type Cell struct {
	X, Y        int
	HeaderPath  string
	LotpackPath string // empty when the directory has no lotpack for the cell
}

// Key returns the cell's position packed into one integer.
func (c Cell) Key() int { return core.CellKey(c.X, c.Y) }

func (c Cell) String() string { return fmt.Sprintf("%d_%d", c.X, c.Y) }

// ParseCellFileName extracts the cell position from "X_Y.lotheader".
func ParseCellFileName(name string) (x, y int, err error) {
	return core.ParseHeaderFileName(name)
}

// LotpackName returns "world_X_Y.lotpack".
func LotpackName(x, y int) string { return core.FormatLotpackFileName(x, y) }

// Discover lists the cells of a map directory, sorted by key.
func Discover(dir string) ([]Cell, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read map directory: %w", err)
	}
	lotpacks := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), core.LotpackSuffix) {
			lotpacks[e.Name()] = true
		}
	}

	var cells []Cell
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), core.LotheaderSuffix) {
			continue
		}
		x, y, err := ParseCellFileName(e.Name())
		if err != nil {
			// Stray files like "backup.lotheader" are not cells.
			continue
		}
		cell := Cell{X: x, Y: y, HeaderPath: filepath.Join(dir, e.Name())}
		if name := LotpackName(x, y); lotpacks[name] {
			cell.LotpackPath = filepath.Join(dir, name)
		}
		cells = append(cells, cell)
	}
	slices.SortFunc(cells, func(a, b Cell) int { return a.Key() - b.Key() })
	return cells, nil
}
