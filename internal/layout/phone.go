package layout

// layoutPhone computes phone-idiom frames: the left group starts at the
// row's left edge, the middle group is centered, and the right group ends
// at the row's right edge. Key widths are type-dependent (KeyDef.width).
func (r *Row) layoutPhone(width, height float64, c Constants) error {
	y := (height - c.KeyHeight) / 2

	placeGroup(r.left, 0, y, c)
	placeGroup(r.middle, (width-groupWidth(r.middle, c))/2, y, c)
	placeGroup(r.right, width-groupWidth(r.right, c), y, c)

	// The bottom row's lone space bar absorbs the whole span between the
	// side groups so there is no dead zone around it.
	if r.kind == RowPhoneBottom && len(r.middle) == 1 && r.middle[0].Def.Kind == KindSpace &&
		len(r.left) > 0 && len(r.right) > 0 {
		space := r.middle[0]
		start := r.left[len(r.left)-1].Frame.MaxX() + c.ButtonGap
		end := r.right[0].Frame.X - c.ButtonGap
		space.Frame.X = start
		space.Frame.W = end - start
	}

	r.expandHitRects(width, height, c)
	return nil
}

// groupWidth is the total visual width of a group: per-key widths plus the
// inter-key gaps between them.
func groupWidth(cells []*KeyCell, c Constants) float64 {
	var w float64
	for i, cell := range cells {
		if i > 0 {
			w += c.ButtonGap
		}
		w += cell.Def.width(c)
	}
	return w
}

// placeGroup lays the group's keys left to right starting at x, advancing
// by each key's width plus the button gap.
func placeGroup(cells []*KeyCell, x, y float64, c Constants) {
	for _, cell := range cells {
		w := cell.Def.width(c)
		cell.Frame = Rect{X: x, Y: y, W: w, H: c.KeyHeight}
		x += w + c.ButtonGap
	}
}
