package layout

// expandHitRects derives every cell's hit-test rectangle from the visual
// frames computed by the current layout pass. Walking the concatenated
// left+middle+right cells in visual order, each cell's horizontal span
// runs from the midpoint of the gap to its previous neighbor (or the
// row's left edge for the first cell) to the midpoint of the gap to its
// next neighbor (or the row's right edge for the last cell). The vertical
// span is the full row height, extended above the row for topmost rows by
// TopRowHitSlop.
//
// The resulting rectangles tile the row exactly: no gaps, no overlaps.
func (r *Row) expandHitRects(width, height float64, c Constants) {
	cells := r.Cells()
	if len(cells) == 0 {
		return
	}

	top := 0.0
	if r.kind == RowPhoneTop || (r.kind == RowTablet && r.index == 0) {
		top = -c.TopRowHitSlop
	}

	start := 0.0
	for i, cell := range cells {
		end := width
		if i+1 < len(cells) {
			end = (cell.Frame.MaxX() + cells[i+1].Frame.X) / 2
		}
		cell.HitRect = Rect{X: start, Y: top, W: end - start, H: height - top}
		start = end
	}
}
