// internal/app/system/homeforms/aggregate.go
package homeforms

import (
	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
)

func defaultHeroForm() FlatForm    { return SeparateHeroData(record(heroDefaults())) }
func defaultMissionForm() FlatForm { return SeparateMissionData(record(missionDefaults())) }
func defaultProgramsForm() GroupForm {
	return SeparateProgramsData(record(programsDefaults()))
}
func defaultTestimonialsForm() ItemsForm {
	return SeparateTestimonialsData([]Record{CreateNewTestimonial()})
}
func defaultSupportersForm() GroupForm {
	return SeparateSupportersData(record(supportersDefaults()))
}
func defaultContactForm() ContactForm { return SeparateContactData(record(contactDefaults())) }
func defaultCTAForm() FlatForm        { return SeparateCTAData(record(ctaDefaults())) }
func defaultSEOForm() FlatForm        { return SeparateSEOData(record(seoDefaults())) }

// CreateDefaultHomeForms returns a fully populated container built from
// defaults only. It is the state before the first load and the fallback
// when no document exists.
func CreateDefaultHomeForms() HomeForms {
	return HomeForms{
		Hero:         defaultHeroForm(),
		Mission:      defaultMissionForm(),
		Programs:     defaultProgramsForm(),
		Testimonials: defaultTestimonialsForm(),
		Supporters:   defaultSupportersForm(),
		Contact:      defaultContactForm(),
		CTA:          defaultCTAForm(),
		SEO:          defaultSEOForm(),
	}
}

// SeparateAllSections converts a stored page document into the forms
// container. A missing content block, a missing section or a section of
// the wrong type is replaced by that section's defaults.
func SeparateAllSections(doc Record) HomeForms {
	forms := CreateDefaultHomeForms()

	content, ok := doc.Record("content")
	if !ok {
		content = Record{}
	}

	if r, ok := content.Record(SectionHero); ok {
		forms.Hero = SeparateHeroData(r)
	}
	if r, ok := content.Record(SectionMission); ok {
		forms.Mission = SeparateMissionData(r)
	}
	if r, ok := content.Record(SectionPrograms); ok {
		forms.Programs = SeparateProgramsData(r)
	}
	if items, ok := content.Records(SectionTestimonials); ok {
		forms.Testimonials = SeparateTestimonialsData(items)
	}
	if r, ok := content.Record(SectionSupporters); ok {
		forms.Supporters = SeparateSupportersData(r)
	}
	if r, ok := content.Record(SectionContact); ok {
		forms.Contact = SeparateContactData(r)
	}
	if r, ok := content.Record(SectionCTA); ok {
		forms.CTA = SeparateCTAData(r)
	}
	if r, ok := doc.Record(SectionSEO); ok {
		forms.SEO = SeparateSEOData(r)
	}
	return forms
}

// SectionPath returns the dot path of a section inside the page document.
// SEO sits at the top level; every other section lives under content.
func SectionPath(name string) (string, error) {
	if !IsSection(name) {
		return "", ErrUnknownSection{Name: name}
	}
	if name == SectionSEO {
		return SectionSEO, nil
	}
	return "content." + name, nil
}

// CombineSection rebuilds the stored value of one section and returns it
// with its dot path, ready for a partial update.
func CombineSection(forms HomeForms, name string) (string, any, error) {
	path, err := SectionPath(name)
	if err != nil {
		return "", nil, err
	}
	var value any
	switch name {
	case SectionHero:
		value = CombineHeroData(forms.Hero)
	case SectionMission:
		value = CombineMissionData(forms.Mission)
	case SectionPrograms:
		value = CombineProgramsData(forms.Programs)
	case SectionTestimonials:
		value = fieldmode.ItemsValue(CombineTestimonialsData(forms.Testimonials))
	case SectionSupporters:
		value = CombineSupportersData(forms.Supporters)
	case SectionContact:
		value = CombineContactData(forms.Contact)
	case SectionCTA:
		value = CombineCTAData(forms.CTA)
	case SectionSEO:
		value = CombineSEOData(forms.SEO)
	}
	return path, value, nil
}

// CombineAll returns every section keyed by dot path.
func CombineAll(forms HomeForms) Record {
	out := Record{}
	for _, name := range SectionNames() {
		path, value, _ := CombineSection(forms, name)
		out[path] = value
	}
	return out
}

// CombineDocument builds the nested page document (without audit fields)
// from the forms container.
func CombineDocument(forms HomeForms) Record {
	content := Record{}
	doc := Record{"content": content}
	for _, name := range SectionNames() {
		_, value, _ := CombineSection(forms, name)
		if name == SectionSEO {
			doc[SectionSEO] = value
			continue
		}
		content[name] = value
	}
	return doc
}

// ResetSection copies one section of src into dst. It is the reset hook
// used by the page controller.
func ResetSection(dst *HomeForms, src HomeForms, name string) error {
	return CopySection(dst, src, name)
}
