package layout

import (
	"fmt"
)

// layoutTablet computes tablet-idiom frames. Each of the four row indices
// has bespoke geometry; any other index indicates a key-set/schema
// mismatch and is returned as an error, which callers treat as fatal.
func (r *Row) layoutTablet(width, height float64, c Constants) error {
	y := (height - c.KeyHeight) / 2
	gap := c.ButtonGap

	// Base key width shared by rows 2 and 3: ten keys and nine gaps
	// spanning the full width.
	base := (width - 9*gap) / 10

	cells := r.Cells()

	switch r.index {
	case 0:
		// Equal keys spanning the full width.
		if n := len(cells); n > 0 {
			w := (width - float64(n-1)*gap) / float64(n)
			placeEqual(cells, 0, y, w, c)
		}

	case 1:
		// Half-key left inset, fixed-width trailing return key, equal
		// keys between them.
		if n := len(cells); n > 1 {
			inset := base / 2
			w := (width - inset - c.TabletReturnKeyWidth - float64(n-1)*gap) / float64(n-1)
			placeEqual(cells[:n-1], inset, y, w, c)
			cells[n-1].Frame = Rect{X: width - c.TabletReturnKeyWidth, Y: y, W: c.TabletReturnKeyWidth, H: c.KeyHeight}
		}

	case 2:
		// Base-width keys from the left edge; the trailing shift key's
		// frame is overridden to its fixed width against the right edge.
		if n := len(cells); n > 1 {
			placeEqual(cells[:n-1], 0, y, base, c)
			cells[n-1].Frame = Rect{X: width - c.TabletShiftKeyWidth, Y: y, W: c.TabletShiftKeyWidth, H: c.KeyHeight}
		}

	case 3:
		// Three independently sized groups. The side groups each span
		// three base key widths plus two gaps; the middle group takes the
		// remainder. Each group divides its span evenly among its keys.
		side := 3*base + 2*gap
		placeDivided(r.left, 0, y, side, c)
		placeDivided(r.middle, side+gap, y, width-2*side-2*gap, c)
		placeDivided(r.right, width-side, y, side, c)

	default:
		return fmt.Errorf("layout: tablet row index %d out of range", r.index)
	}

	r.expandHitRects(width, height, c)
	return nil
}

// placeEqual lays cells left to right from x, all at width w.
func placeEqual(cells []*KeyCell, x, y, w float64, c Constants) {
	for _, cell := range cells {
		cell.Frame = Rect{X: x, Y: y, W: w, H: c.KeyHeight}
		x += w + c.ButtonGap
	}
}

// placeDivided lays cells left to right from x, dividing the span evenly
// among them after subtracting the gaps.
func placeDivided(cells []*KeyCell, x, y, span float64, c Constants) {
	n := len(cells)
	if n == 0 {
		return
	}
	w := (span - float64(n-1)*c.ButtonGap) / float64(n)
	placeEqual(cells, x, y, w, c)
}
