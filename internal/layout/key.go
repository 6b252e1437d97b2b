package layout

// Kind identifies the logical function of a key, independent of its
// rendered geometry. The kind determines which width class the key falls
// into during a phone layout pass.
type Kind int

const (
	// KindChar is a plain character key committing its label.
	KindChar Kind = iota
	// KindAlternateScript is a character key from the secondary script.
	KindAlternateScript
	// KindContextualSymbol is a punctuation key whose output depends on
	// the surrounding text context.
	KindContextualSymbol
	// KindCurrency is the locale currency symbol key.
	KindCurrency
	// KindShift is the momentary shift key.
	KindShift
	// KindCapsLock is the latched shift key.
	KindCapsLock
	// KindSymbolToggle switches between the letter and symbol planes.
	KindSymbolToggle
	// KindBackspace deletes backwards.
	KindBackspace
	// KindReturn commits the return/enter action.
	KindReturn
	// KindSpace is the space bar.
	KindSpace
	// KindSwitchInputMode is the globe key cycling system input modes.
	// During row setup it is substituted with KindEmoji when the host
	// reports that no input-mode switch is available.
	KindSwitchInputMode
	// KindEmoji opens the emoji picker.
	KindEmoji
	// KindDismiss hides the keyboard.
	KindDismiss
)

// String returns the kind's wire name, matching the key-set JSON format.
func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindAlternateScript:
		return "script"
	case KindContextualSymbol:
		return "contextual"
	case KindCurrency:
		return "currency"
	case KindShift:
		return "shift"
	case KindCapsLock:
		return "capslock"
	case KindSymbolToggle:
		return "symbols"
	case KindBackspace:
		return "backspace"
	case KindReturn:
		return "return"
	case KindSpace:
		return "space"
	case KindSwitchInputMode:
		return "globe"
	case KindEmoji:
		return "emoji"
	case KindDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// KeyDef is a logical key descriptor supplied to Row.SetKeys. For
// character-class kinds, Label is the text the key commits and displays.
type KeyDef struct {
	Kind  Kind
	Label string
}

// Char returns a plain character key descriptor.
func Char(r rune) KeyDef {
	return KeyDef{Kind: KindChar, Label: string(r)}
}

// Special returns a descriptor for a non-character key.
func Special(k Kind) KeyDef {
	return KeyDef{Kind: k}
}

// KeyCell is one positional slot in a row group. Cells are reused across
// population calls; identity is the pointer, not the descriptor. Frame and
// HitRect are valid after the most recent layout pass.
type KeyCell struct {
	Def     KeyDef
	Frame   Rect
	HitRect Rect
	Enabled bool
}

// width returns the key's visual width under the phone idiom.
func (d KeyDef) width(c Constants) float64 {
	switch d.Kind {
	case KindShift, KindCapsLock, KindSymbolToggle, KindBackspace:
		return c.ShiftKeyWidth
	case KindReturn:
		return 1.5 * c.SystemKeyWidth
	case KindChar, KindAlternateScript, KindContextualSymbol, KindCurrency:
		return c.LetterKeyWidth
	default:
		return c.SystemKeyWidth
	}
}
