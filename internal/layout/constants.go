package layout

// Idiom is the device form factor. It selects the layout algorithm.
type Idiom int

const (
	IdiomPhone Idiom = iota
	IdiomTablet
)

// String returns the idiom's wire name.
func (i Idiom) String() string {
	switch i {
	case IdiomPhone:
		return "phone"
	case IdiomTablet:
		return "tablet"
	default:
		return "unknown"
	}
}

// Constants holds the per-session geometry parameters shared by every row
// of one keyboard instance. A Constants value is immutable from the row's
// point of view: it is passed by value into each layout call and never
// stored or mutated by a row.
type Constants struct {
	// Idiom selects the phone or tablet layout algorithm.
	Idiom Idiom

	// ButtonGap is the horizontal spacing between adjacent keys.
	ButtonGap float64

	// KeyHeight is the visual height of a key frame. Rows taller than
	// KeyHeight center the frame vertically.
	KeyHeight float64

	// LetterKeyWidth is the phone width of character-class keys.
	LetterKeyWidth float64

	// SystemKeyWidth is the phone width of function keys without a more
	// specific class. Return keys use 1.5x this width.
	SystemKeyWidth float64

	// ShiftKeyWidth is the phone width of shift, caps lock, symbol
	// toggle and backspace keys.
	ShiftKeyWidth float64

	// TabletShiftKeyWidth is the fixed width of the trailing shift key
	// on tablet row 2.
	TabletShiftKeyWidth float64

	// TabletReturnKeyWidth is the fixed width of the trailing return key
	// on tablet row 1.
	TabletReturnKeyWidth float64

	// TopRowHitSlop is the extra vertical hit-test clearance reserved
	// above the topmost row's frame, making it easier to hit near the
	// screen edge.
	TopRowHitSlop float64
}

// DefaultConstants returns the stock geometry for an idiom at a nominal
// 1x scale. Hosts normally derive widths from the actual screen size and
// override these.
func DefaultConstants(idiom Idiom) Constants {
	switch idiom {
	case IdiomTablet:
		return Constants{
			Idiom:                IdiomTablet,
			ButtonGap:            12,
			KeyHeight:            56,
			LetterKeyWidth:       56,
			SystemKeyWidth:       56,
			ShiftKeyWidth:        56,
			TabletShiftKeyWidth:  84,
			TabletReturnKeyWidth: 112,
			TopRowHitSlop:        8,
		}
	default:
		return Constants{
			Idiom:          IdiomPhone,
			ButtonGap:      6,
			KeyHeight:      42,
			LetterKeyWidth: 31.5,
			SystemKeyWidth: 40,
			ShiftKeyWidth:  42,
			TopRowHitSlop:  8,
		}
	}
}
