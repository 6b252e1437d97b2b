//go:build linux

// Package ibus bridges the softboard engine to the Linux IBus daemon over
// D-Bus. It exports an org.freedesktop.IBus.Engine object that feeds key
// events through the input-method engine, shows the composition as
// preedit text, and commits selected candidates.
package ibus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"softboard/internal/logging"
	"softboard/internal/rime"
)

// IBus D-Bus constants.
const (
	BusName          = "com.softboard.IBus"
	EngineName       = "softboard"
	FactoryPath      = "/org/freedesktop/IBus/Factory"
	EnginePath       = "/org/freedesktop/IBus/Engine/softboard"
	factoryInterface = "org.freedesktop.IBus.Factory"
	engineInterface  = "org.freedesktop.IBus.Engine"
)

// IBus key event state masks.
const (
	ShiftMask   uint32 = 1 << 0
	LockMask    uint32 = 1 << 1
	ControlMask uint32 = 1 << 2
	Mod1Mask    uint32 = 1 << 3 // Alt
	ReleaseMask uint32 = 1 << 30
)

// Common GDK key symbols.
const (
	keyBackSpace = 0xff08
	keyReturn    = 0xff0d
	keyEscape    = 0xff1b
	keySpace     = 0x0020
)

// Engine is the IBus-facing engine object. All typing state lives in the
// wrapped rime engine; this type only translates key events and signals.
type Engine struct {
	ime *rime.Engine
	log *logging.Logger

	mu      sync.Mutex
	conn    *dbus.Conn
	focused bool
}

// New creates the IBus bridge around an engine instance owned by the
// caller. Stop does not close the wrapped engine.
func New(ime *rime.Engine, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default()
	}
	return &Engine{ime: ime, log: log.WithComponent("ibus")}
}

// Start connects to the session bus and exports the factory and engine
// objects.
func (e *Engine) Start(ctx context.Context) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	e.conn = conn

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("ibus: bus name already taken")
	}

	if err := conn.Export(&factory{engine: e}, FactoryPath, factoryInterface); err != nil {
		return fmt.Errorf("export factory: %w", err)
	}
	if err := conn.Export(e, EnginePath, engineInterface); err != nil {
		return fmt.Errorf("export engine: %w", err)
	}

	go func() {
		<-ctx.Done()
		e.Stop()
	}()

	e.log.Info("ibus engine started", "bus_name", BusName)
	return nil
}

// Stop releases the bus connection. Idempotent.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil {
		return nil
	}
	err := e.conn.Close()
	e.conn = nil
	return err
}

// factory creates engine instances on demand. There is only ever the one
// exported engine object.
type factory struct {
	engine *Engine
}

// CreateEngine is called by the IBus daemon when the user activates the
// input method.
func (f *factory) CreateEngine(name string) (dbus.ObjectPath, *dbus.Error) {
	if name != EngineName {
		return "", dbus.MakeFailedError(fmt.Errorf("unknown engine %q", name))
	}
	return EnginePath, nil
}

// ProcessKeyEvent handles a key event from IBus. Returning true consumes
// the key; false passes it through to the application.
func (e *Engine) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	if state&ReleaseMask != 0 {
		return false, nil
	}
	// Leave shortcuts to the application.
	if state&(ControlMask|Mod1Mask) != 0 {
		return false, nil
	}

	composing := e.ime.Composition().Input != ""

	switch keyval {
	case keyBackSpace:
		if !composing {
			return false, nil
		}
		comp, _ := e.ime.DeleteBackward()
		e.updatePreedit(comp)
		return true, nil

	case keyEscape:
		if !composing {
			return false, nil
		}
		e.ime.Reset()
		e.updatePreedit(rime.Composition{})
		return true, nil

	case keyReturn:
		if !composing {
			return false, nil
		}
		text, err := e.ime.CommitRaw()
		if err != nil {
			return true, nil
		}
		e.commitText(text)
		return true, nil

	case keySpace:
		if !composing {
			return false, nil
		}
		e.commitCandidate(0)
		return true, nil
	}

	r := keyvalToRune(keyval)
	if r == 0 {
		return false, nil
	}

	// The engine gets first claim on the rune: under the long-press tone
	// scheme the digits 1-6 are code runes.
	comp, err := e.ime.ProcessKey(r)
	if err == nil {
		e.updatePreedit(comp)
		return true, nil
	}

	// Digits the engine rejects select candidates while composing.
	if composing && r >= '1' && r <= '9' {
		if e.commitCandidate(int(r - '1')) {
			return true, nil
		}
	}

	// Not a code rune: pass through unless mid-composition.
	return composing, nil
}

// commitCandidate commits the i-th candidate, falling back to the raw
// code when the composition matches nothing.
func (e *Engine) commitCandidate(i int) bool {
	text, err := e.ime.CommitCandidate(i)
	if errors.Is(err, rime.ErrNoComposition) {
		text, err = e.ime.CommitRaw()
	}
	if err != nil {
		return false
	}
	e.commitText(text)
	return true
}

func (e *Engine) commitText(text string) {
	e.updatePreedit(rime.Composition{})
	e.emit("CommitText", ibusText(text))
}

// updatePreedit shows the composition as preedit and the numbered
// candidates as auxiliary text.
func (e *Engine) updatePreedit(comp rime.Composition) {
	visible := comp.Input != ""
	e.emit("UpdatePreeditText", ibusText(comp.Input), uint32(len(comp.Input)), visible)

	var aux strings.Builder
	for i, cand := range comp.Candidates {
		if i > 0 {
			aux.WriteByte(' ')
		}
		fmt.Fprintf(&aux, "%d.%s", i+1, cand.Phrase)
	}
	e.emit("UpdateAuxiliaryText", ibusText(aux.String()), aux.Len() > 0)
}

// emit sends an engine signal. Signals are dropped while disconnected
// or while no text field has focus.
func (e *Engine) emit(signal string, values ...any) {
	e.mu.Lock()
	conn := e.conn
	focused := e.focused
	e.mu.Unlock()
	if conn == nil || !focused {
		return
	}
	if err := conn.Emit(EnginePath, engineInterface+"."+signal, values...); err != nil {
		e.log.Warn("signal not emitted", "signal", signal, "error", err)
	}
}

// FocusIn is called when a text field gains focus.
func (e *Engine) FocusIn() *dbus.Error {
	e.mu.Lock()
	e.focused = true
	e.mu.Unlock()
	return nil
}

// FocusOut abandons the composition; IBus does not preserve preedit
// across focus changes.
func (e *Engine) FocusOut() *dbus.Error {
	e.mu.Lock()
	e.focused = false
	e.mu.Unlock()
	e.ime.Reset()
	return nil
}

// Reset is called by IBus to drop all composition state.
func (e *Engine) Reset() *dbus.Error {
	e.ime.Reset()
	return nil
}

// Enable and Disable toggle the input method.
func (e *Engine) Enable() *dbus.Error  { return nil }
func (e *Engine) Disable() *dbus.Error { return nil }

// SetCapabilities and SetCursorLocation are accepted and ignored.
func (e *Engine) SetCapabilities(caps uint32) *dbus.Error { return nil }

func (e *Engine) SetCursorLocation(x, y, w, h int32) *dbus.Error { return nil }

func (e *Engine) PropertyActivate(name string, state uint32) *dbus.Error { return nil }

// Destroy is called when the engine instance is discarded.
func (e *Engine) Destroy() *dbus.Error {
	e.ime.Reset()
	return nil
}

// keyvalToRune converts a GDK keysym to the rune it produces. Keysyms in
// the Latin-1 range are their own code points; everything else the
// bridge cares about is handled explicitly in ProcessKeyEvent.
func keyvalToRune(keyval uint32) rune {
	if keyval >= 0x20 && keyval <= 0x7e {
		return rune(keyval)
	}
	if keyval >= 0xa0 && keyval <= 0xff {
		return rune(keyval)
	}
	return 0
}

// ibusText builds the serialized IBusText variant used by engine signals.
func ibusText(s string) dbus.Variant {
	attrs := dbus.MakeVariant(struct {
		Name        string
		Attachments map[string]dbus.Variant
		Attrs       []dbus.Variant
	}{"IBusAttrList", map[string]dbus.Variant{}, []dbus.Variant{}})

	return dbus.MakeVariant(struct {
		Name        string
		Attachments map[string]dbus.Variant
		Text        string
		Attrs       dbus.Variant
	}{"IBusText", map[string]dbus.Variant{}, s, attrs})
}
