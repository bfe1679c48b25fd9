// internal/app/system/pagedata/state.go
package pagedata

import (
	"fmt"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
)

// Phase is the controller's position in its load/save cycle.
type Phase int

const (
	Unloaded Phase = iota
	Loading
	Loaded
	Saving
)

func (p Phase) String() string {
	switch p {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText renders the phase by name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name written by MarshalText.
func (p *Phase) UnmarshalText(b []byte) error {
	for _, q := range []Phase{Unloaded, Loading, Loaded, Saving} {
		if q.String() == string(b) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// State is a copy of the controller's state.
type State[F any] struct {
	Phase Phase `json:"phase"`
	Forms F     `json:"forms"`

	// Original is the last successfully loaded document; nil when nothing
	// has been loaded or the document did not exist.
	Original fieldmode.Record `json:"original,omitempty"`

	IsLoading   bool   `json:"isLoading"`
	IsSaving    bool   `json:"isSaving"`
	Error       string `json:"error,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// HasOriginal reports whether a stored document backs the current state.
func (s State[F]) HasOriginal() bool { return s.Original != nil }

// SaveResult reports the outcome of a save. On failure SavedSections is
// empty, Err holds the cause and Error its text.
type SaveResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	SavedSections []string `json:"savedSections"`
	Error         string   `json:"error,omitempty"`
	Err           error    `json:"-"`
}

// ErrorText returns the failure message, or "" on success.
func (r SaveResult) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func failed(message string, err error) SaveResult {
	r := SaveResult{Success: false, Message: message, SavedSections: []string{}, Err: err}
	r.Error = r.ErrorText()
	return r
}
