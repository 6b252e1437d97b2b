package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tabletRow(t *testing.T, index int, groups [][]KeyDef) *Row {
	t.Helper()
	row := NewTabletRow(index)
	require.NoError(t, row.SetKeys(groups, true))
	return row
}

func TestTabletRow0ElevenEqualKeys(t *testing.T) {
	c := DefaultConstants(IdiomTablet)
	groups := [][]KeyDef{append(chars("qwertyuiop"), Special(KindBackspace))}
	row := tabletRow(t, 0, groups)

	const width, height = 1024.0, 72.0
	require.NoError(t, row.Layout(width, height, c))

	cells := row.Cells()
	require.Len(t, cells, 11)

	want := (width - 10*c.ButtonGap) / 11
	for i, cell := range cells {
		assert.InDelta(t, want, cell.Frame.W, geomEps, "cell %d", i)
	}
	assert.InDelta(t, 0, cells[0].Frame.X, geomEps)
	assert.InDelta(t, width, cells[10].Frame.MaxX(), geomEps)
}

func TestTabletRow1InsetAndReturnKey(t *testing.T) {
	c := DefaultConstants(IdiomTablet)
	groups := [][]KeyDef{append(chars("asdfghjkl"), Special(KindReturn))}
	row := tabletRow(t, 1, groups)

	const width, height = 1024.0, 72.0
	require.NoError(t, row.Layout(width, height, c))

	cells := row.Cells()
	require.Len(t, cells, 10)

	base := (width - 9*c.ButtonGap) / 10
	assert.InDelta(t, base/2, cells[0].Frame.X, geomEps, "left inset is half a base key")

	ret := cells[9]
	assert.InDelta(t, c.TabletReturnKeyWidth, ret.Frame.W, geomEps)
	assert.InDelta(t, width, ret.Frame.MaxX(), geomEps)

	// The nine keys between inset and return are equal width.
	for i := 1; i < 9; i++ {
		assert.InDelta(t, cells[0].Frame.W, cells[i].Frame.W, geomEps, "cell %d", i)
	}
}

func TestTabletRow2ShiftOverridesTrailingFrame(t *testing.T) {
	c := DefaultConstants(IdiomTablet)
	groups := [][]KeyDef{append(chars("zxcvbnm,."), Special(KindShift))}
	row := tabletRow(t, 2, groups)

	const width, height = 1024.0, 72.0
	require.NoError(t, row.Layout(width, height, c))

	cells := row.Cells()
	require.Len(t, cells, 10)

	base := (width - 9*c.ButtonGap) / 10
	for i := 0; i < 9; i++ {
		assert.InDelta(t, base, cells[i].Frame.W, geomEps, "cell %d", i)
	}

	shift := cells[9]
	assert.InDelta(t, c.TabletShiftKeyWidth, shift.Frame.W, geomEps)
	assert.InDelta(t, width, shift.Frame.MaxX(), geomEps)
	assert.Greater(t, shift.Frame.X, cells[8].Frame.MaxX(), "shift does not overlap the last letter")
}

func TestTabletRow3GroupWidthsSumToRowWidth(t *testing.T) {
	c := DefaultConstants(IdiomTablet)

	// Group key counts vary; the span equation must hold regardless.
	for _, tc := range []struct{ l, m, r int }{
		{2, 1, 2},
		{3, 1, 3},
		{1, 2, 1},
		{2, 3, 4},
	} {
		groups := [][]KeyDef{
			make([]KeyDef, tc.l),
			make([]KeyDef, tc.m),
			make([]KeyDef, tc.r),
		}
		for i := range groups[1] {
			groups[1][i] = Special(KindSpace)
		}
		row := tabletRow(t, 3, groups)

		for _, width := range []float64{768, 1024, 1366} {
			require.NoError(t, row.Layout(width, 72, c))
			left, middle, right := row.Groups()

			leftSpan := left[len(left)-1].Frame.MaxX() - left[0].Frame.X
			midSpan := middle[len(middle)-1].Frame.MaxX() - middle[0].Frame.X
			rightSpan := right[len(right)-1].Frame.MaxX() - right[0].Frame.X

			assert.InDelta(t, width, leftSpan+midSpan+rightSpan+2*c.ButtonGap, 1e-6,
				"l=%d m=%d r=%d width=%v", tc.l, tc.m, tc.r, width)

			// Side groups span three base keys plus two gaps.
			base := (width - 9*c.ButtonGap) / 10
			assert.InDelta(t, 3*base+2*c.ButtonGap, leftSpan, 1e-6)
			assert.InDelta(t, leftSpan, rightSpan, 1e-6)
		}
	}
}

func TestTabletUnknownRowIndexIsError(t *testing.T) {
	c := DefaultConstants(IdiomTablet)
	for _, index := range []int{-1, 4, 7} {
		row := NewTabletRow(index)
		require.NoError(t, row.SetKeys([][]KeyDef{chars("abc")}, true))
		assert.Error(t, row.Layout(1024, 72, c), "index %d", index)
	}
}
