// internal/app/system/homeforms/forms.go

// Package homeforms converts the stored home page document into the editor's
// forms container (one editable/readonly pair per section) and back.
//
// Pattern per section:
//
//	Separate<Section>Data()      stored record → form
//	Combine<Section>Data()       form → stored record
//	CreateDefault<Section>Editable()  initial editable view
//	CreateNew<Item>()            blank item for "add" flows (arrays only)
package homeforms

import (
	"fmt"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
)

type Record = fieldmode.Record

// Section names, in page order. They double as the keys of the forms
// container and the names accepted by the page controller.
const (
	SectionHero         = "hero"
	SectionMission      = "mission"
	SectionPrograms     = "programs"
	SectionTestimonials = "testimonials"
	SectionSupporters   = "supporters"
	SectionContact      = "contact"
	SectionCTA          = "cta"
	SectionSEO          = "seo"
)

// SectionNames returns every section in page order.
func SectionNames() []string {
	return []string{
		SectionHero,
		SectionMission,
		SectionPrograms,
		SectionTestimonials,
		SectionSupporters,
		SectionContact,
		SectionCTA,
		SectionSEO,
	}
}

// IsSection reports whether name is a known section.
func IsSection(name string) bool {
	for _, s := range SectionNames() {
		if s == name {
			return true
		}
	}
	return false
}

// ErrUnknownSection is returned for section names outside SectionNames.
type ErrUnknownSection struct{ Name string }

func (e ErrUnknownSection) Error() string {
	return fmt.Sprintf("unknown section %q", e.Name)
}

// FlatForm is the form of a section whose fields are all scalars or plain
// arrays (hero, mission, cta, seo).
type FlatForm struct {
	Editable Record `json:"editable"`
	Readonly Record `json:"readonly"`
}

// GroupView is a block header plus its item list.
type GroupView struct {
	Meta  Record   `json:"meta"`
	Items []Record `json:"items"`
}

// GroupForm is the form of a section with a header and an item list
// (programs, supporters, contact). Editable.Items and Readonly.Items are
// paired by index.
type GroupForm struct {
	Editable GroupView `json:"editable"`
	Readonly GroupView `json:"readonly"`
}

// ItemsForm is the form of a section that is only a list (testimonials).
type ItemsForm struct {
	Editable []Record `json:"editable"`
	Readonly []Record `json:"readonly"`
}

// HomeForms is the editor's forms container for the home page.
type HomeForms struct {
	Hero         FlatForm  `json:"hero"`
	Mission      FlatForm  `json:"mission"`
	Programs     GroupForm `json:"programs"`
	Testimonials ItemsForm `json:"testimonials"`
	Supporters   GroupForm `json:"supporters"`
	Contact      GroupForm `json:"contact"`
	CTA          FlatForm  `json:"cta"`
	SEO          FlatForm  `json:"seo"`
}

func cloneRecords(in []Record) []Record {
	if in == nil {
		return nil
	}
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func (f FlatForm) Clone() FlatForm {
	return FlatForm{Editable: f.Editable.Clone(), Readonly: f.Readonly.Clone()}
}

func (v GroupView) Clone() GroupView {
	return GroupView{Meta: v.Meta.Clone(), Items: cloneRecords(v.Items)}
}

func (f GroupForm) Clone() GroupForm {
	return GroupForm{Editable: f.Editable.Clone(), Readonly: f.Readonly.Clone()}
}

func (f ItemsForm) Clone() ItemsForm {
	return ItemsForm{Editable: cloneRecords(f.Editable), Readonly: cloneRecords(f.Readonly)}
}

// Clone returns a deep copy of the whole container.
func (h HomeForms) Clone() HomeForms {
	return HomeForms{
		Hero:         h.Hero.Clone(),
		Mission:      h.Mission.Clone(),
		Programs:     h.Programs.Clone(),
		Testimonials: h.Testimonials.Clone(),
		Supporters:   h.Supporters.Clone(),
		Contact:      h.Contact.Clone(),
		CTA:          h.CTA.Clone(),
		SEO:          h.SEO.Clone(),
	}
}

// Section returns the form of one section as an untyped value, for JSON
// responses and comparisons.
func (h HomeForms) Section(name string) (any, error) {
	switch name {
	case SectionHero:
		return h.Hero, nil
	case SectionMission:
		return h.Mission, nil
	case SectionPrograms:
		return h.Programs, nil
	case SectionTestimonials:
		return h.Testimonials, nil
	case SectionSupporters:
		return h.Supporters, nil
	case SectionContact:
		return h.Contact, nil
	case SectionCTA:
		return h.CTA, nil
	case SectionSEO:
		return h.SEO, nil
	}
	return nil, ErrUnknownSection{Name: name}
}

// CopySection replaces the named section of dst with a copy of src's.
func CopySection(dst *HomeForms, src HomeForms, name string) error {
	switch name {
	case SectionHero:
		dst.Hero = src.Hero.Clone()
	case SectionMission:
		dst.Mission = src.Mission.Clone()
	case SectionPrograms:
		dst.Programs = src.Programs.Clone()
	case SectionTestimonials:
		dst.Testimonials = src.Testimonials.Clone()
	case SectionSupporters:
		dst.Supporters = src.Supporters.Clone()
	case SectionContact:
		dst.Contact = src.Contact.Clone()
	case SectionCTA:
		dst.CTA = src.CTA.Clone()
	case SectionSEO:
		dst.SEO = src.SEO.Clone()
	default:
		return ErrUnknownSection{Name: name}
	}
	return nil
}
