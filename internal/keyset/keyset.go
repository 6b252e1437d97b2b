// Package keyset loads named keyboard definitions: the per-plane, per-row
// key descriptor groups a keyboard feeds into the layout engine.
//
// Definitions are JSON documents validated against an embedded JSON
// Schema before parsing, so a malformed definition fails with the
// offending JSON pointer instead of a partially built keyboard.
package keyset

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"softboard/internal/layout"
)

//go:embed schema.json
var schemaJSON string

//go:embed defs/*.json
var defsFS embed.FS

// Well-known plane names. Definitions may carry additional planes.
const (
	PlaneLower   = "lower"
	PlaneUpper   = "upper"
	PlaneSymbols = "symbols"
)

// RowDef is one row of a keyboard definition: a row tag plus the key
// descriptor groups handed to layout.Row.SetKeys.
type RowDef struct {
	// Kind is the phone row tag. For tablet keyboards it is RowTablet.
	Kind layout.RowKind

	// Index is the tablet row index. Zero for phone rows.
	Index int

	// Groups holds one (unified) or three (left/middle/right) ordered
	// descriptor lists.
	Groups [][]layout.KeyDef
}

// NewRow constructs the layout row matching the definition's tag.
func (rd RowDef) NewRow() *layout.Row {
	if rd.Kind == layout.RowTablet {
		return layout.NewTabletRow(rd.Index)
	}
	return layout.NewPhoneRow(rd.Kind)
}

// Keyboard is a parsed keyboard definition.
type Keyboard struct {
	Name  string
	Idiom layout.Idiom

	planes map[string][]RowDef
}

// Plane returns the row definitions of the named plane.
func (k *Keyboard) Plane(name string) ([]RowDef, error) {
	rows, ok := k.planes[name]
	if !ok {
		return nil, fmt.Errorf("keyset: keyboard %q has no plane %q", k.Name, name)
	}
	return rows, nil
}

// PlaneNames returns the keyboard's plane names, sorted.
func (k *Keyboard) PlaneNames() []string {
	names := make([]string, 0, len(k.planes))
	for name := range k.planes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var schema = jsonschema.MustCompileString("keyset.schema.json", schemaJSON)

// rawKeyboard mirrors the JSON document structure.
type rawKeyboard struct {
	Name   string              `json:"name"`
	Idiom  string              `json:"idiom"`
	Planes map[string][]rawRow `json:"planes"`
}

type rawRow struct {
	Kind   string              `json:"kind"`
	Index  *int                `json:"index"`
	Groups [][]json.RawMessage `json:"groups"`
}

// Names lists the built-in keyboard definitions.
func Names() []string {
	entries, err := defsFS.ReadDir("defs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Load parses the built-in keyboard definition with the given name.
func Load(name string) (*Keyboard, error) {
	data, err := defsFS.ReadFile("defs/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("keyset: unknown keyboard %q", name)
	}
	kb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("keyset: built-in %q: %w", name, err)
	}
	return kb, nil
}

// Parse validates and parses a keyboard definition document.
func Parse(data []byte) (*Keyboard, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("keyset: decode: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("keyset: validate: %w", err)
	}

	var raw rawKeyboard
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("keyset: decode: %w", err)
	}

	kb := &Keyboard{
		Name:   raw.Name,
		planes: make(map[string][]RowDef, len(raw.Planes)),
	}
	switch raw.Idiom {
	case "phone":
		kb.Idiom = layout.IdiomPhone
	case "tablet":
		kb.Idiom = layout.IdiomTablet
	}

	for plane, rows := range raw.Planes {
		defs := make([]RowDef, 0, len(rows))
		for i, row := range rows {
			rd, err := parseRow(kb.Idiom, row)
			if err != nil {
				return nil, fmt.Errorf("keyset: plane %q row %d: %w", plane, i, err)
			}
			defs = append(defs, rd)
		}
		kb.planes[plane] = defs
	}

	return kb, nil
}

func parseRow(idiom layout.Idiom, row rawRow) (RowDef, error) {
	var rd RowDef

	switch idiom {
	case layout.IdiomPhone:
		switch row.Kind {
		case "top":
			rd.Kind = layout.RowPhoneTop
		case "normal":
			rd.Kind = layout.RowPhoneNormal
		case "bottom":
			rd.Kind = layout.RowPhoneBottom
		default:
			return rd, fmt.Errorf("phone row needs kind top/normal/bottom, got %q", row.Kind)
		}
	case layout.IdiomTablet:
		if row.Index == nil {
			return rd, fmt.Errorf("tablet row needs an index")
		}
		rd.Kind = layout.RowTablet
		rd.Index = *row.Index
	}

	rd.Groups = make([][]layout.KeyDef, 0, len(row.Groups))
	for gi, group := range row.Groups {
		defs := make([]layout.KeyDef, 0, len(group))
		for ki, entry := range group {
			def, err := parseKey(entry)
			if err != nil {
				return rd, fmt.Errorf("group %d key %d: %w", gi, ki, err)
			}
			defs = append(defs, def)
		}
		rd.Groups = append(rd.Groups, defs)
	}

	return rd, nil
}

var kindByName = map[string]layout.Kind{
	"char":       layout.KindChar,
	"script":     layout.KindAlternateScript,
	"contextual": layout.KindContextualSymbol,
	"currency":   layout.KindCurrency,
	"shift":      layout.KindShift,
	"capslock":   layout.KindCapsLock,
	"symbols":    layout.KindSymbolToggle,
	"backspace":  layout.KindBackspace,
	"return":     layout.KindReturn,
	"space":      layout.KindSpace,
	"globe":      layout.KindSwitchInputMode,
	"emoji":      layout.KindEmoji,
	"dismiss":    layout.KindDismiss,
}

// parseKey decodes a key entry: either a bare string (a character key) or
// an object naming a function and optional label.
func parseKey(entry json.RawMessage) (layout.KeyDef, error) {
	var label string
	if err := json.Unmarshal(entry, &label); err == nil {
		return layout.KeyDef{Kind: layout.KindChar, Label: label}, nil
	}

	var obj struct {
		Fn    string `json:"fn"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(entry, &obj); err != nil {
		return layout.KeyDef{}, fmt.Errorf("decode key: %w", err)
	}

	kind, ok := kindByName[obj.Fn]
	if !ok {
		return layout.KeyDef{}, fmt.Errorf("unknown key function %q", obj.Fn)
	}
	if kind == layout.KindChar && obj.Label == "" {
		return layout.KeyDef{}, fmt.Errorf("char key needs a label")
	}
	return layout.KeyDef{Kind: kind, Label: obj.Label}, nil
}
