package core

import (
	"fmt"
	"regexp"
	"strconv"
)

// This file centralizes constants related to the map file formats: magic
// prefixes, file naming and cell addressing.

// --- Magic Strings ---
const (
	// LotheaderMagic prefixes a lotheader file of a non-legacy version.
	LotheaderMagic = "LOTH"
	// LotpackMagic prefixes a lotpack file of a non-legacy version.
	LotpackMagic = "LOTP"
	MagicLen     = 4
)

// --- File Names & Suffixes ---
const (
	LotheaderSuffix = ".lotheader"
	LotpackSuffix   = ".lotpack"
	LotpackPrefix   = "world_"

	// MaxCellsPerAxis bounds cell coordinates when packing them into a key.
	MaxCellsPerAxis = 1024
)

var cellFileNamePattern = regexp.MustCompile(`^(\d+)_(\d+)\.lotheader$`)

// FormatHeaderFileName returns the lotheader file name of a cell, e.g. "35_22.lotheader".
func FormatHeaderFileName(x, y int) string {
	return fmt.Sprintf("%d_%d%s", x, y, LotheaderSuffix)
}

// FormatLotpackFileName returns the lotpack file name of a cell, e.g. "world_35_22.lotpack".
func FormatLotpackFileName(x, y int) string {
	return fmt.Sprintf("%s%d_%d%s", LotpackPrefix, x, y, LotpackSuffix)
}

// ParseHeaderFileName extracts the cell position from a lotheader file name.
func ParseHeaderFileName(name string) (x, y int, err error) {
	m := cellFileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, &InvalidCellFileNameError{Name: name}
	}
	if x, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, &InvalidCellFileNameError{Name: name}
	}
	if y, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, &InvalidCellFileNameError{Name: name}
	}
	return x, y, nil
}

// CellKey packs a cell position into a single integer key.
func CellKey(x, y int) int {
	return x + y*MaxCellsPerAxis
}
