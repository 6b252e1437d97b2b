// Package ui renders the on-screen keyboard: a committed-text panel, the
// candidate bar, and the key strip laid out by the layout engine.
package ui

import (
	"errors"
	"image"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"softboard/cmd/softboard-gui/internal/theme"
	"softboard/internal/config"
	"softboard/internal/keyset"
	board "softboard/internal/layout"
	"softboard/internal/logging"
	"softboard/internal/metrics"
	"softboard/internal/rime"
)

// Baseline widths the stock key widths are specified against. Actual key
// widths scale with the window.
const (
	phoneBaseWidth  = 375.0
	tabletBaseWidth = 768.0
)

// Keyboard is the main UI component. It owns the layout rows and drives
// the input-method engine from pointer events.
type Keyboard struct {
	theme  *theme.Theme
	log    *logging.Logger
	engine *rime.Engine
	mtr    *metrics.Softboard

	cfg config.KeyboardConfig
	def *keyset.Keyboard

	plane string
	rows  []*board.Row
	seen  map[*board.KeyCell]struct{}

	pressed *board.KeyCell
	direct  bool // bypass the engine, type labels as-is

	candList   widget.List
	candClicks []widget.Clickable

	output []rune
}

// NewKeyboard builds the keyboard for the configured definition, starting
// on the lower plane.
func NewKeyboard(t *theme.Theme, engine *rime.Engine, mtr *metrics.Softboard, cfg config.KeyboardConfig, log *logging.Logger) (*Keyboard, error) {
	if log == nil {
		log = logging.Default()
	}
	def, err := keyset.Load(cfg.Definition)
	if err != nil {
		return nil, err
	}

	k := &Keyboard{
		theme:  t,
		log:    log.WithComponent("ui"),
		engine: engine,
		mtr:    mtr,
		cfg:    cfg,
		def:    def,
		candList: widget.List{
			List: layout.List{
				Axis: layout.Horizontal,
			},
		},
	}
	if err := k.setPlane(keyset.PlaneLower); err != nil {
		return nil, err
	}
	return k, nil
}

// setPlane populates the rows with the named plane's keys. Rows are reused
// across plane switches so unchanged cells keep their identity.
func (k *Keyboard) setPlane(name string) error {
	defs, err := k.def.Plane(name)
	if err != nil {
		return err
	}

	if len(k.rows) != len(defs) {
		k.rows = make([]*board.Row, len(defs))
		for i, rd := range defs {
			k.rows[i] = rd.NewRow()
		}
	}
	for i, rd := range defs {
		if err := k.rows[i].SetKeys(rd.Groups, k.cfg.HasInputModeSwitch); err != nil {
			return err
		}
	}
	k.plane = name
	k.countNewCells()
	return nil
}

// countNewCells tracks reconciliation efficiency: only cells not seen on
// a previous plane count as created.
func (k *Keyboard) countNewCells() {
	if k.seen == nil {
		k.seen = make(map[*board.KeyCell]struct{})
	}
	for _, r := range k.rows {
		for _, cell := range r.Cells() {
			if _, ok := k.seen[cell]; !ok {
				k.seen[cell] = struct{}{}
				k.mtr.CellsCreated.Inc()
			}
		}
	}
}

// Layout renders the keyboard.
func (k *Keyboard) Layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, k.theme.Palette.Background)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(k.theme.Config.Padding).Layout(gtx, k.layoutOutput)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return k.layoutCandidates(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return k.layoutKeys(gtx)
		}),
	)
}

// layoutOutput shows the committed text with the pending composition
// appended in the accent color.
func (k *Keyboard) layoutOutput(gtx layout.Context) layout.Dimensions {
	comp := k.engine.Composition()

	size := gtx.Constraints.Max
	rect := clip.UniformRRect(image.Rect(0, 0, size.X, size.Y), gtx.Dp(k.theme.Config.CornerRadius)).Op(gtx.Ops)
	paint.FillShape(gtx.Ops, k.theme.Palette.Surface, rect)

	return layout.UniformInset(k.theme.Config.Spacing).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.Label(k.theme.Theme, k.theme.Config.FontPreedit, string(k.output))
				l.Color = k.theme.Palette.Text
				return l.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.Label(k.theme.Theme, k.theme.Config.FontPreedit, comp.Input)
				l.Color = k.theme.Palette.Accent
				return l.Layout(gtx)
			}),
		)
	})
}

// layoutCandidates renders the candidate bar as a horizontal clickable
// list. Clicking a candidate commits it.
func (k *Keyboard) layoutCandidates(gtx layout.Context) layout.Dimensions {
	comp := k.engine.Composition()

	for len(k.candClicks) < len(comp.Candidates) {
		k.candClicks = append(k.candClicks, widget.Clickable{})
	}
	for i := range comp.Candidates {
		if k.candClicks[i].Clicked(gtx) {
			k.commitCandidate(i)
			comp = k.engine.Composition()
		}
	}

	gtx.Constraints.Min.Y = gtx.Dp(k.theme.Config.Spacing) * 5
	return material.List(k.theme.Theme, &k.candList).Layout(gtx, len(comp.Candidates),
		func(gtx layout.Context, i int) layout.Dimensions {
			return material.Clickable(gtx, &k.candClicks[i], func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(k.theme.Config.Spacing).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					l := material.Label(k.theme.Theme, k.theme.Config.FontPreedit, comp.Candidates[i].Phrase)
					l.Color = k.theme.Palette.Text
					return l.Layout(gtx)
				})
			})
		})
}

// layoutKeys lays out the rows for the current width and paints every
// cell, then resolves pointer presses through the rows' hit rectangles.
func (k *Keyboard) layoutKeys(gtx layout.Context) layout.Dimensions {
	width := float64(gtx.Constraints.Max.X)
	c := k.constants(width, float64(gtx.Metric.PxPerDp))
	rowHeight := c.KeyHeight + 2*c.ButtonGap

	for _, r := range k.rows {
		if err := r.Layout(width, rowHeight, c); err != nil {
			k.log.Error("row layout failed", "row", int(r.Kind()), "error", err)
		}
	}
	k.mtr.LayoutPasses.Inc()
	k.mtr.ActiveRows.Set(int64(len(k.rows)))

	size := image.Pt(int(width), int(rowHeight)*len(k.rows))
	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, k.theme.Palette.Surface)

	k.handlePointer(gtx, rowHeight)
	event.Op(gtx.Ops, k)

	for i, r := range k.rows {
		k.drawRow(gtx, r, float64(i)*rowHeight)
	}

	return layout.Dimensions{Size: size}
}

func (k *Keyboard) handlePointer(gtx layout.Context, rowHeight float64) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: k,
			Kinds:  pointer.Press | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		switch pe.Kind {
		case pointer.Press:
			x := float64(pe.Position.X)
			y := float64(pe.Position.Y)

			idx := int(y / rowHeight)
			if idx < 0 {
				idx = 0
			}
			if idx >= len(k.rows) {
				idx = len(k.rows) - 1
			}

			cell := k.rows[idx].HitTest(board.Point{X: x, Y: y - float64(idx)*rowHeight})
			if cell != nil {
				k.pressed = cell
				k.handleKey(cell)
			}

		case pointer.Release, pointer.Cancel:
			k.pressed = nil
		}
	}
}

// constants derives the per-frame layout constants: configured gap and
// key height in device pixels, key widths scaled from the stock geometry
// by the window width.
func (k *Keyboard) constants(widthPx, pxPerDp float64) board.Constants {
	c := board.DefaultConstants(k.def.Idiom)
	if k.cfg.ButtonGap > 0 {
		c.ButtonGap = k.cfg.ButtonGap
	}
	if k.cfg.KeyHeight > 0 {
		c.KeyHeight = k.cfg.KeyHeight
	}

	base := phoneBaseWidth
	if c.Idiom == board.IdiomTablet {
		base = tabletBaseWidth
	}
	wf := widthPx / (base * pxPerDp)

	c.ButtonGap *= pxPerDp
	c.KeyHeight *= pxPerDp
	c.TopRowHitSlop *= pxPerDp
	c.LetterKeyWidth *= pxPerDp * wf
	c.SystemKeyWidth *= pxPerDp * wf
	c.ShiftKeyWidth *= pxPerDp * wf
	c.TabletShiftKeyWidth *= pxPerDp * wf
	c.TabletReturnKeyWidth *= pxPerDp * wf
	return c
}

func (k *Keyboard) drawRow(gtx layout.Context, r *board.Row, offY float64) {
	radius := gtx.Dp(k.theme.Config.CornerRadius)

	for _, cell := range r.Cells() {
		fr := cell.Frame
		rect := image.Rect(int(fr.X), int(offY+fr.Y), int(fr.MaxX()), int(offY+fr.MaxY()))

		fill := k.theme.Palette.Key
		if cell.Def.Kind != board.KindChar {
			fill = k.theme.Palette.KeySpecial
		}
		if cell == k.pressed {
			fill = k.theme.Palette.KeyPressed
		}
		paint.FillShape(gtx.Ops, fill, clip.UniformRRect(rect, radius).Op(gtx.Ops))

		label := k.keyLabel(cell.Def)
		if label == "" {
			continue
		}

		textColor := k.theme.Palette.Text
		if !cell.Enabled {
			textColor = k.theme.Palette.TextMuted
		}
		fontSize := k.theme.Config.FontKey
		if cell.Def.Kind != board.KindChar {
			fontSize = k.theme.Config.FontCaption
		}

		rec := op.Offset(rect.Min).Push(gtx.Ops)
		cgtx := gtx
		cgtx.Constraints = layout.Exact(rect.Size())
		l := material.Label(k.theme.Theme, fontSize, label)
		l.Color = textColor
		layout.Center.Layout(cgtx, l.Layout)
		rec.Pop()
	}
}

// keyLabel returns the glyph painted on a key.
func (k *Keyboard) keyLabel(def board.KeyDef) string {
	switch def.Kind {
	case board.KindShift:
		return "⇧"
	case board.KindCapsLock:
		return "⇪"
	case board.KindBackspace:
		return "⌫"
	case board.KindReturn:
		return "⏎"
	case board.KindSpace:
		return "space"
	case board.KindSymbolToggle:
		if k.plane == keyset.PlaneSymbols {
			return "ABC"
		}
		return "123"
	case board.KindSwitchInputMode:
		if k.direct {
			return "粵"
		}
		return "EN"
	case board.KindEmoji:
		return "☺"
	case board.KindDismiss:
		return "⌄"
	case board.KindCurrency:
		if def.Label == "" {
			return "$"
		}
		return def.Label
	default:
		return def.Label
	}
}

// handleKey dispatches a pressed key cell.
func (k *Keyboard) handleKey(cell *board.KeyCell) {
	if !cell.Enabled {
		return
	}
	composing := k.engine.Composition().Input != ""

	switch cell.Def.Kind {
	case board.KindShift, board.KindCapsLock:
		next := keyset.PlaneUpper
		if k.plane == keyset.PlaneUpper {
			next = keyset.PlaneLower
		}
		k.switchPlane(next)

	case board.KindSymbolToggle:
		next := keyset.PlaneSymbols
		if k.plane == keyset.PlaneSymbols {
			next = keyset.PlaneLower
		}
		k.switchPlane(next)

	case board.KindBackspace:
		if composing {
			if _, err := k.engine.DeleteBackward(); err != nil {
				k.log.Warn("delete failed", "error", err)
			}
			return
		}
		if len(k.output) > 0 {
			k.output = k.output[:len(k.output)-1]
		}

	case board.KindReturn:
		if composing {
			k.commitRaw()
			return
		}
		k.appendOutput("\n")

	case board.KindSpace:
		if composing {
			k.commitCandidate(0)
			return
		}
		k.appendOutput(" ")

	case board.KindSwitchInputMode:
		k.direct = !k.direct
		k.engine.Reset()

	case board.KindEmoji, board.KindDismiss:
		// No emoji picker or host panel in the demo window.

	default:
		label := cell.Def.Label
		if cell.Def.Kind == board.KindCurrency && label == "" {
			label = "$"
		}
		k.typeChar(label)
	}
}

// typeChar feeds a character key through the engine, or straight to the
// output when the engine rejects it or direct mode is on.
func (k *Keyboard) typeChar(label string) {
	if label == "" {
		return
	}
	if k.direct {
		k.appendOutput(label)
		k.unshift()
		return
	}

	runes := []rune(label)
	if _, err := k.engine.ProcessKey(runes[0]); err != nil || len(runes) > 1 {
		// Not a code rune. Flush the composition, then type it literally.
		if k.engine.Composition().Input != "" {
			k.commitRaw()
		}
		k.appendOutput(label)
	}
	k.unshift()
}

// unshift drops back to the lower plane after a one-shot shift.
func (k *Keyboard) unshift() {
	if k.plane == keyset.PlaneUpper {
		k.switchPlane(keyset.PlaneLower)
	}
}

func (k *Keyboard) switchPlane(name string) {
	if err := k.setPlane(name); err != nil {
		k.log.Error("plane switch failed", "plane", name, "error", err)
	}
}

func (k *Keyboard) commitCandidate(i int) {
	text, err := k.engine.CommitCandidate(i)
	if errors.Is(err, rime.ErrNoComposition) {
		k.commitRaw()
		return
	}
	if err != nil {
		k.log.Warn("commit failed", "candidate", i, "error", err)
		return
	}
	k.appendOutput(text)
}

func (k *Keyboard) commitRaw() {
	text, err := k.engine.CommitRaw()
	if err != nil {
		return
	}
	k.appendOutput(text)
}

func (k *Keyboard) appendOutput(text string) {
	k.output = append(k.output, []rune(text)...)
}

// MinHeight reports the window height needed for the key strip plus the
// text and candidate panels.
func (k *Keyboard) MinHeight() unit.Dp {
	c := board.DefaultConstants(k.def.Idiom)
	if k.cfg.ButtonGap > 0 {
		c.ButtonGap = k.cfg.ButtonGap
	}
	if k.cfg.KeyHeight > 0 {
		c.KeyHeight = k.cfg.KeyHeight
	}
	rows := float64(len(k.rows))
	return unit.Dp(rows*(c.KeyHeight+2*c.ButtonGap) + 150)
}
