package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertExactTiling checks the hit-test invariant: the rectangles cover
// [0,width] x [top,height] in visual order with no gaps and no overlaps.
func assertExactTiling(t *testing.T, row *Row, width, height, top float64) {
	t.Helper()
	cells := row.Cells()
	require.NotEmpty(t, cells)

	cursor := 0.0
	for i, cell := range cells {
		assert.InDelta(t, cursor, cell.HitRect.X, 1e-6, "cell %d starts where cell %d ended", i, i-1)
		assert.InDelta(t, top, cell.HitRect.Y, 1e-6, "cell %d top", i)
		assert.InDelta(t, height-top, cell.HitRect.H, 1e-6, "cell %d height", i)
		assert.GreaterOrEqual(t, cell.HitRect.W, 0.0, "cell %d non-negative width", i)
		cursor = cell.HitRect.MaxX()
	}
	assert.InDelta(t, width, cursor, 1e-6, "last cell reaches the right edge")
}

func TestPhoneHitRectsTileRow(t *testing.T) {
	c := DefaultConstants(IdiomPhone)

	rows := map[string]*Row{}

	top := NewPhoneRow(RowPhoneTop)
	require.NoError(t, top.SetKeys([][]KeyDef{chars("qwertyuiop")}, true))
	rows["top"] = top

	normal := NewPhoneRow(RowPhoneNormal)
	require.NoError(t, normal.SetKeys([][]KeyDef{
		{Special(KindShift)},
		chars("zxcvbnm"),
		{Special(KindBackspace)},
	}, true))
	rows["normal"] = normal

	bottom := NewPhoneRow(RowPhoneBottom)
	require.NoError(t, bottom.SetKeys([][]KeyDef{
		{Special(KindSymbolToggle), Special(KindSwitchInputMode)},
		{Special(KindSpace)},
		{Special(KindReturn)},
	}, true))
	rows["bottom"] = bottom

	for name, row := range rows {
		for _, width := range []float64{320, 375, 414, 500, 812} {
			t.Run(fmt.Sprintf("%s/%v", name, width), func(t *testing.T) {
				require.NoError(t, row.Layout(width, 54, c))
				wantTop := 0.0
				if row.Kind() == RowPhoneTop {
					wantTop = -c.TopRowHitSlop
				}
				assertExactTiling(t, row, width, 54, wantTop)
			})
		}
	}
}

func TestTabletHitRectsTileRow(t *testing.T) {
	c := DefaultConstants(IdiomTablet)

	rows := []*Row{
		tabletRow(t, 0, [][]KeyDef{append(chars("qwertyuiop"), Special(KindBackspace))}),
		tabletRow(t, 1, [][]KeyDef{append(chars("asdfghjkl"), Special(KindReturn))}),
		tabletRow(t, 2, [][]KeyDef{append(chars("zxcvbnm,."), Special(KindShift))}),
		tabletRow(t, 3, [][]KeyDef{
			{Special(KindSymbolToggle), Special(KindSwitchInputMode)},
			{Special(KindSpace)},
			{Special(KindDismiss), Special(KindSymbolToggle)},
		}),
	}

	for _, row := range rows {
		for _, width := range []float64{768, 1024, 1366} {
			t.Run(fmt.Sprintf("row%d/%v", row.Index(), width), func(t *testing.T) {
				require.NoError(t, row.Layout(width, 72, c))
				wantTop := 0.0
				if row.Index() == 0 {
					wantTop = -c.TopRowHitSlop
				}
				assertExactTiling(t, row, width, 72, wantTop)
			})
		}
	}
}

func TestTopRowHitSlopExtendsAboveFrames(t *testing.T) {
	c := DefaultConstants(IdiomPhone)
	row := NewPhoneRow(RowPhoneTop)
	require.NoError(t, row.SetKeys([][]KeyDef{chars("qwertyuiop")}, true))
	require.NoError(t, row.Layout(375, 54, c))

	for _, cell := range row.Cells() {
		assert.InDelta(t, -c.TopRowHitSlop, cell.HitRect.Y, geomEps)
		assert.Less(t, cell.HitRect.Y, cell.Frame.Y)
	}

	// Taps above the row top still land on a key.
	cells := row.Cells()
	hit := row.HitTest(Point{X: cells[3].Frame.X + 1, Y: -c.TopRowHitSlop / 2})
	assert.Same(t, cells[3], hit)
}
