// internal/app/system/homeforms/items.go
package homeforms

import (
	"errors"
	"fmt"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
)

// List names an item list inside the forms container. Items are paired
// with their readonly counterparts by position, so structural edits must go
// through AddItem, RemoveItem and MoveItem, which change both sides together.
type List string

const (
	ListHeroStats      List = "heroStats"
	ListPrograms       List = "programs"
	ListTestimonials   List = "testimonials"
	ListSupporters     List = "supporters"
	ListContactMethods List = "contactMethods"
)

// ErrItemIndex is returned for an index outside the list.
var ErrItemIndex = errors.New("item index out of range")

// ParseList validates a list name.
func ParseList(s string) (List, error) {
	switch l := List(s); l {
	case ListHeroStats, ListPrograms, ListTestimonials, ListSupporters, ListContactMethods:
		return l, nil
	}
	return "", fmt.Errorf("unknown item list %q", s)
}

// Section returns the section that owns the list.
func (l List) Section() string {
	switch l {
	case ListHeroStats:
		return SectionHero
	case ListContactMethods:
		return SectionContact
	}
	return string(l)
}

// NewItem returns a blank item (all fields) for the list.
func NewItem(l List) (Record, error) {
	switch l {
	case ListHeroStats:
		return CreateNewHeroStat(), nil
	case ListPrograms:
		return CreateNewProgram(), nil
	case ListTestimonials:
		return CreateNewTestimonial(), nil
	case ListSupporters:
		return CreateNewSupporter(), nil
	case ListContactMethods:
		return CreateNewContactMethod(), nil
	}
	return nil, fmt.Errorf("unknown item list %q", l)
}

// pairs exposes the editable and readonly slices of a list for in-place edits.
func (h *HomeForms) pairs(l List) (ed, pv *[]Record, s fieldmode.Section, err error) {
	switch l {
	case ListPrograms:
		return &h.Programs.Editable.Items, &h.Programs.Readonly.Items, fieldmode.Program, nil
	case ListTestimonials:
		return &h.Testimonials.Editable, &h.Testimonials.Readonly, fieldmode.Testimonial, nil
	case ListSupporters:
		return &h.Supporters.Editable.Items, &h.Supporters.Readonly.Items, fieldmode.Supporter, nil
	case ListContactMethods:
		return &h.Contact.Editable.Items, &h.Contact.Readonly.Items, fieldmode.ContactMethod, nil
	}
	return nil, nil, "", fmt.Errorf("unknown item list %q", l)
}

// align pads the readonly side so both slices have the same length.
func align(ed []Record, pv []Record) []Record {
	for len(pv) < len(ed) {
		pv = append(pv, preservedFallback())
	}
	return pv[:len(ed)]
}

// AddItem appends a blank item to the list and returns its index.
func (h *HomeForms) AddItem(l List) (int, error) {
	item, err := NewItem(l)
	if err != nil {
		return 0, err
	}
	if l == ListHeroStats {
		stats := h.heroStats()
		stats = append(stats, item)
		h.setHeroStats(stats)
		return len(stats) - 1, nil
	}

	ed, pv, s, err := h.pairs(l)
	if err != nil {
		return 0, err
	}
	e, p := fieldmode.Separate(item, fieldmode.MustLookup(s))
	*pv = align(*ed, *pv)
	*ed = append(*ed, e)
	*pv = append(*pv, p)
	return len(*ed) - 1, nil
}

// RemoveItem deletes the item at index i from both sides of the list.
func (h *HomeForms) RemoveItem(l List, i int) error {
	if l == ListHeroStats {
		stats := h.heroStats()
		if i < 0 || i >= len(stats) {
			return ErrItemIndex
		}
		h.setHeroStats(append(stats[:i], stats[i+1:]...))
		return nil
	}

	ed, pv, _, err := h.pairs(l)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(*ed) {
		return ErrItemIndex
	}
	*pv = align(*ed, *pv)
	*ed = append((*ed)[:i], (*ed)[i+1:]...)
	*pv = append((*pv)[:i], (*pv)[i+1:]...)
	return nil
}

// MoveItem moves the item at from to position to on both sides of the list.
func (h *HomeForms) MoveItem(l List, from, to int) error {
	if l == ListHeroStats {
		stats := h.heroStats()
		if err := move(stats, from, to); err != nil {
			return err
		}
		h.setHeroStats(stats)
		return nil
	}

	ed, pv, _, err := h.pairs(l)
	if err != nil {
		return err
	}
	*pv = align(*ed, *pv)
	if err := move(*ed, from, to); err != nil {
		return err
	}
	return move(*pv, from, to)
}

func move(s []Record, from, to int) error {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) {
		return ErrItemIndex
	}
	item := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = item
	return nil
}

func (h *HomeForms) heroStats() []Record {
	if h.Hero.Editable == nil {
		h.Hero.Editable = Record{}
	}
	stats, ok := h.Hero.Editable.Records("stats")
	if !ok {
		return []Record{}
	}
	return stats
}

func (h *HomeForms) setHeroStats(stats []Record) {
	h.Hero.Editable["stats"] = fieldmode.ItemsValue(stats)
}
