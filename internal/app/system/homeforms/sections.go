// internal/app/system/homeforms/sections.go
package homeforms

import (
	fm "github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
)

// ─────────────────────────────────────────────────────────────────────────────
// Shared helpers
// ─────────────────────────────────────────────────────────────────────────────

// fillMissing adds every field of defaults absent from rec.
func fillMissing(rec, defaults Record) Record {
	for k, v := range defaults {
		if _, ok := rec[k]; !ok {
			rec[k] = fm.DeepCopy(v)
		}
	}
	return rec
}

func separateFlat(rec Record, s fm.Section) FlatForm {
	ed, pv := fm.Separate(rec, fm.MustLookup(s))
	return FlatForm{Editable: ed, Readonly: pv}
}

// combineFlat merges a flat form and guarantees the stored shape: only
// declared fields, each present (missing ones taken from defaults).
func combineFlat(f FlatForm, s fm.Section, defaults Record) Record {
	m := fm.MustLookup(s)
	out := fm.Restrict(fm.Combine(f.Editable, f.Readonly), m)
	return fillMissing(out, fm.Restrict(defaults, m))
}

type groupSpec struct {
	meta      fm.Section
	item      fm.Section
	arrayKey  string
	defaults  func() Record
	itemBlank func() Record
}

func separateGroup(rec Record, g groupSpec) GroupForm {
	ed, pv := fm.Separate(rec, fm.MustLookup(g.meta))
	items, ok := rec.Records(g.arrayKey)
	if !ok {
		items = []Record{}
	}
	edItems, pvItems := fm.SeparateArray(items, fm.MustLookup(g.item))
	return GroupForm{
		Editable: GroupView{Meta: ed, Items: edItems},
		Readonly: GroupView{Meta: pv, Items: pvItems},
	}
}

func combineGroup(f GroupForm, g groupSpec) Record {
	out := combineFlat(FlatForm{Editable: f.Editable.Meta, Readonly: f.Readonly.Meta}, g.meta, g.defaults())
	out[g.arrayKey] = fm.ItemsValue(combineItems(f.Editable.Items, f.Readonly.Items, g.item, g.itemBlank()))
	return out
}

func combineItems(editable, preserved []Record, s fm.Section, blank Record) []Record {
	m := fm.MustLookup(s)
	items := fm.CombineArray(editable, preserved, preservedFallback())
	for i := range items {
		items[i] = fillMissing(fm.Restrict(items[i], m), fm.Restrict(blank, m))
	}
	return items
}

var (
	programsGroup = groupSpec{
		meta: fm.Programs, item: fm.Program, arrayKey: "items",
		defaults:  func() Record { return record(programsDefaults()) },
		itemBlank: CreateNewProgram,
	}
	supportersGroup = groupSpec{
		meta: fm.Supporters, item: fm.Supporter, arrayKey: "items",
		defaults:  func() Record { return record(supportersDefaults()) },
		itemBlank: CreateNewSupporter,
	}
	contactGroup = groupSpec{
		meta: fm.Contact, item: fm.ContactMethod, arrayKey: "methods",
		defaults:  func() Record { return record(contactDefaults()) },
		itemBlank: CreateNewContactMethod,
	}
)

// ─────────────────────────────────────────────────────────────────────────────
// Hero
// ─────────────────────────────────────────────────────────────────────────────

func SeparateHeroData(rec Record) FlatForm {
	return separateFlat(rec, fm.Hero)
}

func CombineHeroData(f FlatForm) Record {
	return combineFlat(f, fm.Hero, record(heroDefaults()))
}

// ─────────────────────────────────────────────────────────────────────────────
// Mission
// ─────────────────────────────────────────────────────────────────────────────

func SeparateMissionData(rec Record) FlatForm {
	return separateFlat(rec, fm.Mission)
}

func CombineMissionData(f FlatForm) Record {
	return combineFlat(f, fm.Mission, record(missionDefaults()))
}

// ─────────────────────────────────────────────────────────────────────────────
// Programs
// ─────────────────────────────────────────────────────────────────────────────

// SeparateProgramsData splits the programs block. Each program's color is
// hidden and travels in Readonly.Items at the same index.
func SeparateProgramsData(rec Record) GroupForm {
	return separateGroup(rec, programsGroup)
}

// CombineProgramsData rebuilds the programs block. Programs with no readonly
// counterpart get the default color.
func CombineProgramsData(f GroupForm) Record {
	return combineGroup(f, programsGroup)
}

// ─────────────────────────────────────────────────────────────────────────────
// Testimonials
// ─────────────────────────────────────────────────────────────────────────────

func SeparateTestimonialsData(items []Record) ItemsForm {
	ed, pv := fm.SeparateArray(items, fm.MustLookup(fm.Testimonial))
	return ItemsForm{Editable: ed, Readonly: pv}
}

func CombineTestimonialsData(f ItemsForm) []Record {
	return combineItems(f.Editable, f.Readonly, fm.Testimonial, CreateNewTestimonial())
}

// ─────────────────────────────────────────────────────────────────────────────
// Supporters
// ─────────────────────────────────────────────────────────────────────────────

func SeparateSupportersData(rec Record) GroupForm {
	return separateGroup(rec, supportersGroup)
}

func CombineSupportersData(f GroupForm) Record {
	return combineGroup(f, supportersGroup)
}

// ─────────────────────────────────────────────────────────────────────────────
// Contact
// ─────────────────────────────────────────────────────────────────────────────

// SeparateContactData splits the contact block. Scalars and formSubjects go
// to the header; method colors are kept in Readonly.Items.
func SeparateContactData(rec Record) ContactForm {
	return separateGroup(rec, contactGroup)
}

func CombineContactData(f ContactForm) Record {
	return combineGroup(f, contactGroup)
}

// ContactForm is a GroupForm whose items are the contact methods.
type ContactForm = GroupForm

// ─────────────────────────────────────────────────────────────────────────────
// CTA
// ─────────────────────────────────────────────────────────────────────────────

func SeparateCTAData(rec Record) FlatForm {
	return separateFlat(rec, fm.CTA)
}

func CombineCTAData(f FlatForm) Record {
	return combineFlat(f, fm.CTA, record(ctaDefaults()))
}

// ─────────────────────────────────────────────────────────────────────────────
// SEO
// ─────────────────────────────────────────────────────────────────────────────

// SeparateSEOData splits the SEO block; the Open Graph block is hidden.
func SeparateSEOData(rec Record) FlatForm {
	return separateFlat(rec, fm.SEO)
}

func CombineSEOData(f FlatForm) Record {
	return combineFlat(f, fm.SEO, record(seoDefaults()))
}
