// internal/app/system/fieldmode/fieldmode.go

// Package fieldmode declares, for every home page section and nested item
// type, whether each field is editable, readonly or hidden, and provides the
// generic transforms that split a stored record into an editable view and a
// preserved view and merge them back.
//
// The registry is the only place field exposure is decided. Moving a field
// from editable to readonly is a change to the table below; the transforms
// and section wrappers pick it up without modification.
package fieldmode

import (
	"encoding/json"
	"fmt"
)

// Mode is the exposure of one field to the editor.
type Mode uint8

const (
	// Editable fields are shown to and changed by the editor.
	Editable Mode = iota + 1
	// Readonly fields are shown to the editor but preserved verbatim on save.
	Readonly
	// Hidden fields are never shown and preserved verbatim on save.
	Hidden
)

func (m Mode) String() string {
	switch m {
	case Editable:
		return "editable"
	case Readonly:
		return "readonly"
	case Hidden:
		return "hidden"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid reports whether m is one of the three declared modes.
func (m Mode) Valid() bool {
	return m == Editable || m == Readonly || m == Hidden
}

// Preserved reports whether the field is kept out of the editable view.
func (m Mode) Preserved() bool {
	return m == Readonly || m == Hidden
}

// ParseMode converts the textual form back into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "editable":
		return Editable, nil
	case "readonly":
		return Readonly, nil
	case "hidden":
		return Hidden, nil
	}
	return 0, fmt.Errorf("fieldmode: unknown mode %q", s)
}

func (m Mode) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("fieldmode: cannot marshal %s", m)
	}
	return json.Marshal(m.String())
}

func (m *Mode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Map assigns a Mode to each field of one section or item type.
type Map map[string]Mode

// Fields returns the field names with the given mode, in no particular order.
func (m Map) Fields(mode Mode) []string {
	var out []string
	for k, v := range m {
		if v == mode {
			out = append(out, k)
		}
	}
	return out
}

func (m Map) clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
