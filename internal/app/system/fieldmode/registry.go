// internal/app/system/fieldmode/registry.go
package fieldmode

// Section identifies a registry entry. Item types nested inside a section
// (program, supporter, contactMethod, testimonial) have their own entries.
type Section string

const (
	Hero          Section = "hero"
	Mission       Section = "mission"
	Programs      Section = "programs"
	Program       Section = "program"
	Testimonial   Section = "testimonial"
	Supporters    Section = "supporters"
	Supporter     Section = "supporter"
	Contact       Section = "contact"
	ContactMethod Section = "contactMethod"
	CTA           Section = "cta"
	SEO           Section = "seo"
)

var registry = map[Section]Map{
	Hero: {
		"badge":      Editable,
		"title":      Editable,
		"subtitle":   Editable,
		"btnDonate":  Editable,
		"btnHistory": Editable,
		"stats":      Editable,
	},
	Mission: {
		"badge":    Editable,
		"title":    Editable,
		"text1":    Editable,
		"text2":    Editable,
		"btnText":  Editable,
		"image":    Editable,
		"imageAlt": Editable,
	},
	// Programs and Supporters hold the block header; their items are
	// split with Program and Supporter.
	Programs: {
		"badge":    Editable,
		"title":    Editable,
		"subtitle": Editable,
	},
	Program: {
		"title":       Editable,
		"description": Editable,
		"icon":        Editable,
		"color":       Hidden,
		"link":        Editable,
	},
	Testimonial: {
		"quote":    Editable,
		"name":     Editable,
		"role":     Editable,
		"initials": Editable,
		"image":    Editable,
		"imageAlt": Editable,
	},
	Supporters: {
		"badge":    Editable,
		"title":    Editable,
		"subtitle": Editable,
	},
	Supporter: {
		"name":     Editable,
		"icon":     Editable,
		"color":    Hidden,
		"image":    Editable,
		"imageAlt": Editable,
		"url":      Editable,
	},
	Contact: {
		"badge":        Editable,
		"title":        Editable,
		"description":  Editable,
		"formSubjects": Editable,
	},
	ContactMethod: {
		"label": Editable,
		"value": Editable,
		"icon":  Editable,
		"color": Hidden,
		"url":   Editable,
	},
	CTA: {
		"title":       Editable,
		"subtitle":    Editable,
		"btnDonate":   Editable,
		"btnProjects": Editable,
	},
	SEO: {
		"title":       Editable,
		"description": Editable,
		"keywords":    Editable,
		"ogImage":     Editable,
		"og":          Hidden,
	},
}

// Lookup returns a copy of the field map for s.
func Lookup(s Section) (Map, bool) {
	m, ok := registry[s]
	if !ok {
		return nil, false
	}
	return m.clone(), true
}

// MustLookup is Lookup for sections known at compile time.
func MustLookup(s Section) Map {
	m, ok := Lookup(s)
	if !ok {
		panic("fieldmode: no field map for section " + string(s))
	}
	return m
}

// ModeOf returns the mode of one field.
func ModeOf(s Section, field string) (Mode, bool) {
	m, ok := registry[s]
	if !ok {
		return 0, false
	}
	mode, ok := m[field]
	return mode, ok
}

// Sections lists every registry entry.
func Sections() []Section {
	return []Section{
		Hero, Mission, Programs, Program, Testimonial, Supporters,
		Supporter, Contact, ContactMethod, CTA, SEO,
	}
}
