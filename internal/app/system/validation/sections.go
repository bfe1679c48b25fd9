// internal/app/system/validation/sections.go
package validation

import (
	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"github.com/dalemusser/elaspodem/internal/app/system/homeforms"
	"github.com/dalemusser/elaspodem/internal/app/system/inputval"
)

var (
	heroRules = []FieldRule{
		{Field: "badge", Required: true, MinLength: 3, MaxLength: 60},
		{Field: "title", Required: true, MinLength: 3, MaxLength: 30},
		{Field: "subtitle", Required: true, MinLength: 10, MaxLength: 300},
		{Field: "btnDonate", Required: true, MinLength: 2, MaxLength: 30},
		{Field: "btnHistory", Required: true, MinLength: 2, MaxLength: 30},
	}
	heroStats = CountRule{Min: 1, Max: 6}

	missionRules = []FieldRule{
		{Field: "badge", Required: true, MinLength: 3, MaxLength: 60},
		{Field: "title", Required: true, MinLength: 5, MaxLength: 100},
		{Field: "text1", Required: true, MinLength: 20, MaxLength: 500},
		{Field: "text2", Required: true, MinLength: 20, MaxLength: 500},
		{Field: "btnText", Required: true, MinLength: 2, MaxLength: 40},
	}

	programRules = []FieldRule{
		{Field: "title", Required: true, MinLength: 3, MaxLength: 40},
		{Field: "description", Required: true, MinLength: 10, MaxLength: 200},
		{Field: "link", Required: true, MinLength: 2, MaxLength: 30},
	}
	programItems = CountRule{Min: 1, Max: 8}

	testimonialRules = []FieldRule{
		{Field: "quote", Required: true, MinLength: 20, MaxLength: 500},
		{Field: "name", Required: true, MinLength: 2, MaxLength: 60},
		{Field: "role", Required: true, MinLength: 2, MaxLength: 60},
	}
	testimonialItems = CountRule{Min: 1, Max: 12}

	supporterRules = []FieldRule{
		{Field: "name", Required: true, MinLength: 2, MaxLength: 60},
	}
	supporterItems = CountRule{Min: 1, Max: 20}

	contactRules = []FieldRule{
		{Field: "badge", Required: true, MinLength: 3, MaxLength: 60},
		{Field: "title", Required: true, MinLength: 3, MaxLength: 60},
		{Field: "description", Required: true, MinLength: 10, MaxLength: 300},
	}
	contactMethods = CountRule{Min: 1, Max: 8}
	formSubjects   = CountRule{Min: 1, Max: 10}

	ctaRules = []FieldRule{
		{Field: "title", Required: true, MinLength: 5, MaxLength: 80},
		{Field: "subtitle", Required: true, MinLength: 10, MaxLength: 300},
		{Field: "btnDonate", Required: true, MinLength: 2, MaxLength: 30},
		{Field: "btnProjects", Required: true, MinLength: 2, MaxLength: 30},
	}

	seoRules = []FieldRule{
		{Field: "title", Required: true, MinLength: 5, MaxLength: 60},
		{Field: "description", Required: true, MinLength: 10, MaxLength: 160},
	}
	seoKeywords = CountRule{Min: 1, Max: 20}
)

// Hero validates the editable hero.
func Hero(ed fieldmode.Record) Result {
	errs := ValidateFields(ed, heroRules, "Hero").Errors
	if n, ok := count(ed, "stats"); ok {
		errs = append(errs, ValidateItemCount(n, heroStats, "Stats")...)
	}
	return result(errs)
}

func Mission(ed fieldmode.Record) Result {
	return ValidateFields(ed, missionRules, "Mission")
}

// Programs validates the program cards.
func Programs(items []fieldmode.Record) Result {
	errs := ValidateItemCount(len(items), programItems, "Programs")
	errs = append(errs, ValidateArrayItems(items, programRules, "Program")...)
	return result(errs)
}

func Testimonials(items []fieldmode.Record) Result {
	errs := ValidateItemCount(len(items), testimonialItems, "Testimonials")
	errs = append(errs, ValidateArrayItems(items, testimonialRules, "Testimonial")...)
	return result(errs)
}

func Supporters(items []fieldmode.Record) Result {
	errs := ValidateItemCount(len(items), supporterItems, "Supporters")
	errs = append(errs, ValidateArrayItems(items, supporterRules, "Supporter")...)
	return result(errs)
}

// Contact validates the contact header, method count and form subjects.
func Contact(ed homeforms.GroupView) Result {
	errs := ValidateFields(ed.Meta, contactRules, "Contact").Errors
	errs = append(errs, ValidateItemCount(len(ed.Items), contactMethods, "Contact methods")...)
	if n, ok := count(ed.Meta, "formSubjects"); ok {
		errs = append(errs, ValidateItemCount(n, formSubjects, "Form subjects")...)
	}
	return result(errs)
}

func CTA(ed fieldmode.Record) Result {
	return ValidateFields(ed, ctaRules, "CTA")
}

// SEO validates the SEO block. An OG image, when set, must be an http(s) URL.
func SEO(ed fieldmode.Record) Result {
	errs := ValidateFields(ed, seoRules, "SEO").Errors
	if n, ok := count(ed, "keywords"); ok {
		errs = append(errs, ValidateItemCount(n, seoKeywords, "Keywords")...)
	}
	if img := ed.String("ogImage"); img != "" && !inputval.IsValidHTTPURL(img) {
		errs = append(errs, "SEO: invalid OG image URL")
	}
	return result(errs)
}

// Section validates the editable view of one section of forms.
func Section(forms homeforms.HomeForms, name string) (Result, error) {
	switch name {
	case homeforms.SectionHero:
		return Hero(forms.Hero.Editable), nil
	case homeforms.SectionMission:
		return Mission(forms.Mission.Editable), nil
	case homeforms.SectionPrograms:
		return Programs(forms.Programs.Editable.Items), nil
	case homeforms.SectionTestimonials:
		return Testimonials(forms.Testimonials.Editable), nil
	case homeforms.SectionSupporters:
		return Supporters(forms.Supporters.Editable.Items), nil
	case homeforms.SectionContact:
		return Contact(forms.Contact.Editable), nil
	case homeforms.SectionCTA:
		return CTA(forms.CTA.Editable), nil
	case homeforms.SectionSEO:
		return SEO(forms.SEO.Editable), nil
	}
	return Result{}, homeforms.ErrUnknownSection{Name: name}
}

// All validates every section.
func All(forms homeforms.HomeForms) Result {
	var results []Result
	for _, name := range homeforms.SectionNames() {
		r, _ := Section(forms, name)
		results = append(results, r)
	}
	return Merge(results...)
}
