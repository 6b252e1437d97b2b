package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chars(s string) []KeyDef {
	defs := make([]KeyDef, 0, len(s))
	for _, r := range s {
		defs = append(defs, Char(r))
	}
	return defs
}

func TestSetKeysGroupCounts(t *testing.T) {
	row := NewPhoneRow(RowPhoneNormal)

	require.NoError(t, row.SetKeys([][]KeyDef{chars("asdf")}, true))
	left, middle, right := row.Groups()
	assert.Empty(t, left)
	assert.Len(t, middle, 4)
	assert.Empty(t, right)

	require.NoError(t, row.SetKeys([][]KeyDef{
		{Special(KindShift)},
		chars("zxcv"),
		{Special(KindBackspace)},
	}, true))
	left, middle, right = row.Groups()
	assert.Len(t, left, 1)
	assert.Len(t, middle, 4)
	assert.Len(t, right, 1)

	assert.Error(t, row.SetKeys(nil, true))
	assert.Error(t, row.SetKeys([][]KeyDef{chars("a"), chars("b")}, true))
	assert.Error(t, row.SetKeys([][]KeyDef{nil, nil, nil, nil}, true))
}

func TestSetKeysCountsMatchDescriptors(t *testing.T) {
	row := NewPhoneRow(RowPhoneNormal)

	for _, tc := range []struct{ l, m, r int }{
		{0, 10, 0},
		{1, 7, 1},
		{2, 3, 2},
		{0, 0, 0},
		{3, 9, 3},
	} {
		groups := [][]KeyDef{
			make([]KeyDef, tc.l),
			make([]KeyDef, tc.m),
			make([]KeyDef, tc.r),
		}
		require.NoError(t, row.SetKeys(groups, true))
		left, middle, right := row.Groups()
		assert.Len(t, left, tc.l)
		assert.Len(t, middle, tc.m)
		assert.Len(t, right, tc.r)
	}
}

func TestReconcileReusesCellsFromAnchoredEnd(t *testing.T) {
	row := NewPhoneRow(RowPhoneNormal)
	require.NoError(t, row.SetKeys([][]KeyDef{
		chars("ab"),
		chars("cde"),
		chars("fg"),
	}, true))

	left0, middle0, right0 := row.Groups()
	oldLeft := append([]*KeyCell(nil), left0...)
	oldMiddle := append([]*KeyCell(nil), middle0...)
	oldRight := append([]*KeyCell(nil), right0...)

	// Grow every group. Left and middle keep their first cells; right
	// keeps its last cells.
	require.NoError(t, row.SetKeys([][]KeyDef{
		chars("abxy"),
		chars("cdeq"),
		chars("wzfg"),
	}, true))
	left, middle, right := row.Groups()

	for i, cell := range oldLeft {
		assert.Same(t, cell, left[i], "left cell %d should be reused in place", i)
	}
	for i, cell := range oldMiddle {
		assert.Same(t, cell, middle[i], "middle cell %d should be reused in place", i)
	}
	for i, cell := range oldRight {
		assert.Same(t, cell, right[len(right)-len(oldRight)+i], "right cell %d should keep its tail position", i)
	}

	// Shrink back. Left and middle drop from the tail; right drops from
	// the head.
	require.NoError(t, row.SetKeys([][]KeyDef{
		chars("ab"),
		chars("cde"),
		chars("fg"),
	}, true))
	left, middle, right = row.Groups()

	for i, cell := range oldLeft {
		assert.Same(t, cell, left[i])
	}
	for i, cell := range oldMiddle {
		assert.Same(t, cell, middle[i])
	}
	for i, cell := range oldRight {
		assert.Same(t, cell, right[i])
	}
}

func TestSetKeysSubstitutesInputModeSwitch(t *testing.T) {
	row := NewPhoneRow(RowPhoneBottom)
	groups := [][]KeyDef{
		{Special(KindSymbolToggle), Special(KindSwitchInputMode)},
		{Special(KindSpace)},
		{Special(KindReturn)},
	}

	require.NoError(t, row.SetKeys(groups, false))
	left, _, _ := row.Groups()
	assert.Equal(t, KindEmoji, left[1].Def.Kind, "globe key substituted when no input-mode switch exists")

	require.NoError(t, row.SetKeys(groups, true))
	left, _, _ = row.Groups()
	assert.Equal(t, KindSwitchInputMode, left[1].Def.Kind)
}

func TestSetEnabledPropagatesToEveryCell(t *testing.T) {
	row := NewPhoneRow(RowPhoneNormal)
	require.NoError(t, row.SetKeys([][]KeyDef{
		{Special(KindShift)},
		chars("zxcvbnm"),
		{Special(KindBackspace)},
	}, true))

	row.SetEnabled(false)
	assert.False(t, row.Enabled())
	for i, cell := range row.Cells() {
		assert.False(t, cell.Enabled, "cell %d", i)
	}

	row.SetEnabled(true)
	for i, cell := range row.Cells() {
		assert.True(t, cell.Enabled, "cell %d", i)
	}
}

func TestNewCellsInheritRowEnabledState(t *testing.T) {
	row := NewPhoneRow(RowPhoneNormal)
	row.SetEnabled(false)
	require.NoError(t, row.SetKeys([][]KeyDef{chars("abc")}, true))
	for _, cell := range row.Cells() {
		assert.False(t, cell.Enabled)
	}
}

func TestHitTestResolvesGapTaps(t *testing.T) {
	c := DefaultConstants(IdiomPhone)
	row := NewPhoneRow(RowPhoneNormal)
	require.NoError(t, row.SetKeys([][]KeyDef{chars("asdfghjkl")}, true))
	require.NoError(t, row.Layout(375, 54, c))

	cells := row.Cells()
	// A point in the gap between two keys resolves to the nearer one.
	gapX := cells[0].Frame.MaxX() + c.ButtonGap*0.25
	assert.Same(t, cells[0], row.HitTest(Point{X: gapX, Y: 20}))

	gapX = cells[0].Frame.MaxX() + c.ButtonGap*0.75
	assert.Same(t, cells[1], row.HitTest(Point{X: gapX, Y: 20}))

	// Row corners resolve to the first and last cells.
	assert.Same(t, cells[0], row.HitTest(Point{X: 0, Y: 0}))
	assert.Same(t, cells[len(cells)-1], row.HitTest(Point{X: 374.9, Y: 53.9}))

	assert.Nil(t, row.HitTest(Point{X: -1, Y: 20}))
	assert.Nil(t, row.HitTest(Point{X: 200, Y: 60}))
}
