//go:build linux

package ibus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softboard/internal/dict"
	"softboard/internal/rime"
)

const testSchema = `
schema:
  id: jyut6ping3
  name: Jyutping
tone_input:
  scheme: longpress
corrector:
  enabled: false
`

// newTestBridge builds a bridge around an engine with a small seeded
// dictionary. The bridge is never connected to a bus.
func newTestBridge(t *testing.T, scheme string) *Engine {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, rime.SchemaFile), []byte(testSchema), 0o644))

	store, err := dict.Open(filepath.Join(dir, rime.DictFile))
	require.NoError(t, err)
	require.NoError(t, store.Seed([]dict.Entry{
		{Code: "ngo5", Phrase: "我", Weight: 100},
		{Code: "ngo5dei6", Phrase: "我哋", Weight: 80},
	}))
	require.NoError(t, store.Close())

	ime, err := rime.New(rime.Options{
		DataDir:     dir,
		UserDataDir: t.TempDir(),
		Settings:    rime.Settings{ToneScheme: scheme},
	})
	require.NoError(t, err)
	t.Cleanup(func() { ime.Close() })

	return New(ime, nil)
}

func pressKeys(t *testing.T, e *Engine, keys string) {
	t.Helper()
	for _, r := range keys {
		handled, derr := e.ProcessKeyEvent(uint32(r), 0, 0)
		require.Nil(t, derr)
		require.True(t, handled, "key %q", r)
	}
}

func TestKeyvalToRune(t *testing.T) {
	assert.Equal(t, 'a', keyvalToRune(0x61))
	assert.Equal(t, 'Z', keyvalToRune(0x5a))
	assert.Equal(t, '5', keyvalToRune(0x35))
	assert.Equal(t, 'é', keyvalToRune(0xe9))

	// Function keysyms produce no rune.
	assert.Equal(t, rune(0), keyvalToRune(keyBackSpace))
	assert.Equal(t, rune(0), keyvalToRune(keyReturn))
	assert.Equal(t, rune(0), keyvalToRune(0xffe1)) // Shift_L
}

func TestProcessKeyEventLongPressToneDigit(t *testing.T) {
	e := newTestBridge(t, rime.ToneSchemeLongPress)

	// The tone digit extends the code; it must not select a candidate.
	pressKeys(t, e, "ngo1")
	assert.Equal(t, "ngo1", e.ime.Composition().Input)
}

func TestProcessKeyEventDigitSelectsCandidate(t *testing.T) {
	e := newTestBridge(t, rime.ToneSchemeVXQ)

	pressKeys(t, e, "ngo")
	require.Len(t, e.ime.Composition().Candidates, 2)

	// Under vxq digits are not code runes, so '2' picks the second
	// candidate and clears the composition.
	handled, derr := e.ProcessKeyEvent('2', 0, 0)
	require.Nil(t, derr)
	assert.True(t, handled)
	assert.Empty(t, e.ime.Composition().Input)

	// A digit past the candidate list is consumed but changes nothing.
	pressKeys(t, e, "ngo")
	handled, derr = e.ProcessKeyEvent('9', 0, 0)
	require.Nil(t, derr)
	assert.True(t, handled)
	assert.Equal(t, "ngo", e.ime.Composition().Input)
}

func TestFocusOutAbandonsComposition(t *testing.T) {
	e := newTestBridge(t, rime.ToneSchemeLongPress)

	require.Nil(t, e.FocusIn())
	assert.True(t, e.focused)

	pressKeys(t, e, "ngo")
	require.Nil(t, e.FocusOut())
	assert.False(t, e.focused)
	assert.Empty(t, e.ime.Composition().Input)
}

func TestIBusTextSerialization(t *testing.T) {
	v := ibusText("我")

	val, ok := v.Value().(struct {
		Name        string
		Attachments map[string]dbus.Variant
		Text        string
		Attrs       dbus.Variant
	})
	require.True(t, ok, "variant should carry the IBusText struct")
	assert.Equal(t, "IBusText", val.Name)
	assert.Equal(t, "我", val.Text)
}
