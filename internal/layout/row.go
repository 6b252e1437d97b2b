package layout

import (
	"fmt"
)

// RowKind tags a row with its position-dependent behavior. Phone rows use
// the top/normal/bottom tags; tablet rows are identified by index 0-3.
type RowKind int

const (
	// RowPhoneTop is the topmost phone row. It receives extra hit-test
	// clearance above its frames.
	RowPhoneTop RowKind = iota
	// RowPhoneNormal is any middle phone row.
	RowPhoneNormal
	// RowPhoneBottom is the bottom phone row, where a lone space bar in
	// the middle group stretches to fill the span between the side groups.
	RowPhoneBottom
	// RowTablet marks a tablet row; the row's Index selects its geometry.
	RowTablet
)

// Row is one horizontal strip of keys, split into left, middle and right
// groups. Population reconciles the groups' cells against new descriptors;
// layout computes each cell's frame and hit-test rectangle.
//
// A Row is not safe for concurrent use. Population and layout are expected
// to happen on the host UI thread only.
type Row struct {
	kind  RowKind
	index int // tablet row index, 0-3

	left   []*KeyCell
	middle []*KeyCell
	right  []*KeyCell

	enabled bool
}

// NewPhoneRow creates a phone row with the given tag.
func NewPhoneRow(kind RowKind) *Row {
	return &Row{kind: kind, enabled: true}
}

// NewTabletRow creates a tablet row for the given index. The index is
// validated at layout time, not here, so rows can be constructed from
// not-yet-validated key-set data.
func NewTabletRow(index int) *Row {
	return &Row{kind: RowTablet, index: index, enabled: true}
}

// Kind returns the row's tag.
func (r *Row) Kind() RowKind { return r.kind }

// Index returns the tablet row index. Meaningless for phone rows.
func (r *Row) Index() int { return r.index }

// Groups returns the row's left, middle and right cell slices. The slices
// are the row's own; callers must not mutate them.
func (r *Row) Groups() (left, middle, right []*KeyCell) {
	return r.left, r.middle, r.right
}

// Cells returns the row's cells in visual order: left, then middle, then
// right. This is the order hit-test expansion walks.
func (r *Row) Cells() []*KeyCell {
	cells := make([]*KeyCell, 0, len(r.left)+len(r.middle)+len(r.right))
	cells = append(cells, r.left...)
	cells = append(cells, r.middle...)
	cells = append(cells, r.right...)
	return cells
}

// SetKeys reconciles the row's cells against new key descriptors.
//
// groups must contain either exactly one descriptor list (a unified row,
// treated as middle-only) or exactly three (left, middle, right); any
// other count is a caller contract violation and returns an error.
//
// Cells are reused positionally. The left and middle groups grow by
// appending and shrink from the tail; the right group grows by prepending
// and shrinks from the head, so the visually anchored cells keep their
// identity across plane switches.
//
// When hasInputModeSwitch is false, descriptors requesting the
// input-mode-switch key are substituted with the emoji key. The decision
// is made once per call, not per key.
func (r *Row) SetKeys(groups [][]KeyDef, hasInputModeSwitch bool) error {
	switch len(groups) {
	case 1:
		groups = [][]KeyDef{nil, groups[0], nil}
	case 3:
	default:
		return fmt.Errorf("layout: row wants 1 or 3 key groups, got %d", len(groups))
	}

	r.left = r.reconcileHead(r.left, len(groups[0]))
	r.middle = r.reconcileHead(r.middle, len(groups[1]))
	r.right = r.reconcileTail(r.right, len(groups[2]))

	assign := func(cells []*KeyCell, defs []KeyDef) {
		for i, def := range defs {
			if def.Kind == KindSwitchInputMode && !hasInputModeSwitch {
				def = KeyDef{Kind: KindEmoji}
			}
			cells[i].Def = def
		}
	}
	assign(r.left, groups[0])
	assign(r.middle, groups[1])
	assign(r.right, groups[2])

	return nil
}

// reconcileHead keeps the first min(len(cells), n) cells: it appends new
// cells to grow and drops from the tail to shrink.
func (r *Row) reconcileHead(cells []*KeyCell, n int) []*KeyCell {
	for len(cells) < n {
		cells = append(cells, &KeyCell{Enabled: r.enabled})
	}
	return cells[:n]
}

// reconcileTail keeps the last min(len(cells), n) cells: it prepends new
// cells to grow and drops from the head to shrink.
func (r *Row) reconcileTail(cells []*KeyCell, n int) []*KeyCell {
	if d := n - len(cells); d > 0 {
		fresh := make([]*KeyCell, d, n)
		for i := range fresh {
			fresh[i] = &KeyCell{Enabled: r.enabled}
		}
		return append(fresh, cells...)
	}
	return cells[len(cells)-n:]
}

// SetEnabled toggles the row's enabled state and propagates it to every
// cell in all three groups. There is no partial-enable state.
func (r *Row) SetEnabled(enabled bool) {
	r.enabled = enabled
	for _, g := range [][]*KeyCell{r.left, r.middle, r.right} {
		for _, cell := range g {
			cell.Enabled = enabled
		}
	}
}

// Enabled returns the row's enabled state.
func (r *Row) Enabled() bool { return r.enabled }

// Layout recomputes every cell's frame and hit-test rectangle for a row of
// the given size, dispatching on the idiom carried by c.
func (r *Row) Layout(width, height float64, c Constants) error {
	if c.Idiom == IdiomTablet {
		return r.layoutTablet(width, height, c)
	}
	return r.layoutPhone(width, height, c)
}

// HitTest resolves a point in row-local coordinates to the cell whose
// hit-test rectangle contains it, or nil if the point is outside the row.
func (r *Row) HitTest(p Point) *KeyCell {
	for _, cell := range r.Cells() {
		if cell.HitRect.Contains(p) {
			return cell
		}
	}
	return nil
}
