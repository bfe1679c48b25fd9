// internal/app/system/homeforms/editable.go
package homeforms

import (
	"encoding/json"
	"errors"
	"fmt"

	fm "github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
)

// ErrItemCount is returned when a replacement editable view carries a
// different number of items than the form holds. Items are added and removed
// with AddItem and RemoveItem.
var ErrItemCount = errors.New("item count does not match the form")

// SetEditable replaces the editable view of the named section with data, the
// JSON encoding of that section's "editable" value as the container reports
// it. Only fields the registry marks editable are taken; fields absent from
// data keep their current value. clean, when non-nil, is applied to every
// string taken. The readonly side is never touched.
func (h *HomeForms) SetEditable(name string, data []byte, clean func(string) string) error {
	if clean == nil {
		clean = func(s string) string { return s }
	}

	switch name {
	case SectionHero:
		return setFlat(&h.Hero, fm.Hero, data, clean)
	case SectionMission:
		return setFlat(&h.Mission, fm.Mission, data, clean)
	case SectionCTA:
		return setFlat(&h.CTA, fm.CTA, data, clean)
	case SectionSEO:
		return setFlat(&h.SEO, fm.SEO, data, clean)
	case SectionPrograms:
		return setGroup(&h.Programs, programsGroup, data, clean)
	case SectionSupporters:
		return setGroup(&h.Supporters, supportersGroup, data, clean)
	case SectionContact:
		return setGroup(&h.Contact, contactGroup, data, clean)
	case SectionTestimonials:
		var items []Record
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		if items == nil {
			return nil
		}
		if len(items) != len(h.Testimonials.Editable) {
			return ErrItemCount
		}
		h.Testimonials.Editable = mergeItems(h.Testimonials.Editable, items, fm.Testimonial, clean)
		return nil
	}
	return ErrUnknownSection{Name: name}
}

func setFlat(f *FlatForm, s fm.Section, data []byte, clean func(string) string) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode %s: %w", s, err)
	}
	f.Editable = mergeEditable(f.Editable, rec, s, clean)
	return nil
}

func setGroup(f *GroupForm, g groupSpec, data []byte, clean func(string) string) error {
	var v GroupView
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode %s: %w", g.meta, err)
	}
	if v.Items != nil && len(v.Items) != len(f.Editable.Items) {
		return ErrItemCount
	}
	f.Editable.Meta = mergeEditable(f.Editable.Meta, v.Meta, g.meta, clean)
	if v.Items != nil {
		f.Editable.Items = mergeItems(f.Editable.Items, v.Items, g.item, clean)
	}
	return nil
}

// mergeEditable overlays the editable fields of in onto a copy of current.
func mergeEditable(current, in Record, s fm.Section, clean func(string) string) Record {
	out := current.Clone()
	if out == nil {
		out = Record{}
	}
	ed, _ := fm.Separate(in, fm.MustLookup(s))
	for k, v := range ed {
		out[k] = fm.MapStrings(v, clean)
	}
	return out
}

func mergeItems(current, in []Record, s fm.Section, clean func(string) string) []Record {
	out := make([]Record, len(in))
	for i := range in {
		out[i] = mergeEditable(current[i], in[i], s, clean)
	}
	return out
}
