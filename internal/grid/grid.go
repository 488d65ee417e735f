// Package grid converts the annotation service's textual grid-cell
// locations into normalized bounding boxes. Frames are addressed on a
// fixed 4-column by 3-row grid: rows A/B/C top to bottom, columns 1-4
// left to right.
package grid

import (
	"strconv"
	"strings"
)

const (
	// Columns and Rows describe the fixed frame partition.
	Columns = 4
	Rows    = 3

	// minExtent is the smallest box width/height ever emitted, so even
	// single-cell issues stay visible when drawn.
	minExtent = 0.05
)

// Box is a normalized bounding box: all fields in [0,1], origin at the
// top-left of the frame.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// DefaultBox is returned for empty or unparseable grid descriptors.
// Locate never fails; a wrong-but-valid box beats an aborted frame.
func DefaultBox() Box {
	return Box{X: 0.1, Y: 0.1, W: 0.2, H: 0.2}
}

// Locate parses a grid descriptor such as "A1", "B2-B3" or "A1,B1" and
// returns the normalized bounding rectangle covering every valid cell
// mentioned. Malformed tokens are ignored; if no valid cell remains the
// default box is returned.
func Locate(cells string) Box {
	if strings.TrimSpace(cells) == "" {
		return DefaultBox()
	}

	// Range ("A1-A3") and list ("A1,B1") notation both reduce to a set
	// of cells whose bounding rectangle we take.
	tokens := strings.Split(strings.ReplaceAll(cells, "-", ","), ",")

	minRow, maxRow := Rows, -1
	minCol, maxCol := Columns, -1
	for _, token := range tokens {
		row, col, ok := parseCell(token)
		if !ok {
			continue
		}
		if row < minRow {
			minRow = row
		}
		if row > maxRow {
			maxRow = row
		}
		if col < minCol {
			minCol = col
		}
		if col > maxCol {
			maxCol = col
		}
	}
	if maxRow < 0 {
		return DefaultBox()
	}

	const cellW = 1.0 / Columns
	const cellH = 1.0 / Rows

	x := float64(minCol) * cellW
	y := float64(minRow) * cellH
	w := float64(maxCol-minCol+1) * cellW
	h := float64(maxRow-minRow+1) * cellH

	// Clamp into the frame and enforce the minimum extent.
	x = clamp01(x)
	y = clamp01(y)
	w = max64(minExtent, min64(1-x, w))
	h = max64(minExtent, min64(1-y, h))

	return Box{X: x, Y: y, W: w, H: h}
}

// parseCell converts one token like "B3" into zero-based (row, col).
func parseCell(token string) (row, col int, ok bool) {
	cell := strings.ToUpper(strings.TrimSpace(token))
	if len(cell) < 2 {
		return 0, 0, false
	}
	switch cell[0] {
	case 'A':
		row = 0
	case 'B':
		row = 1
	case 'C':
		row = 2
	default:
		return 0, 0, false
	}
	n, err := strconv.Atoi(cell[1:])
	if err != nil || n < 1 || n > Columns {
		return 0, 0, false
	}
	return row, n - 1, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
