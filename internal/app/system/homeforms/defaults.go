// internal/app/system/homeforms/defaults.go
package homeforms

import (
	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"github.com/dalemusser/elaspodem/internal/domain/models"
)

// DefaultColor is the theme color given to items that have no stored color.
const DefaultColor = "magenta"

// Initial values used when the store holds no document (or no section).

func heroDefaults() models.HeroSection {
	return models.HeroSection{
		Badge:      "MOVIMENTO NACIONAL DESDE 2020",
		Title:      "ELAS PO+DEM",
		Subtitle:   "",
		BtnDonate:  "Doe Agora",
		BtnHistory: "Nossa Historia",
		Stats: []models.HeroStat{
			{Icon: "luc-award", Number: "2025", Label: "Sede Propria"},
			{Icon: "luc-megaphone", Number: "5a", Label: "Conferencia Nacional"},
			{Icon: "luc-users", Number: "MS", Label: "Campo Grande"},
		},
	}
}

func heroStatDefaults() models.HeroStat {
	return models.HeroStat{Icon: "luc-star"}
}

func missionDefaults() models.MissionSection {
	return models.MissionSection{
		Badge:   "NOSSA MISSAO",
		Title:   "Elas Podem Amar, Elas Podem Ser, Elas Podem TUDO!",
		BtnText: "Conheca Nossa Historia",
	}
}

func programsDefaults() models.ProgramsSection {
	return models.ProgramsSection{
		Badge: "NOSSOS PROGRAMAS",
		Title: "Nossos Eixos de Atuacao",
		Items: []models.Program{programDefaults()},
	}
}

func programDefaults() models.Program {
	return models.Program{Icon: "luc-star", Color: DefaultColor, Link: "Saiba Mais"}
}

func testimonialDefaults() models.Testimonial {
	return models.Testimonial{}
}

func supportersDefaults() models.SupportersSection {
	return models.SupportersSection{
		Badge: "PARCEIROS",
		Title: "Quem Apoia Nossa Causa",
		Items: []models.Supporter{supporterDefaults()},
	}
}

func supporterDefaults() models.Supporter {
	return models.Supporter{Icon: "luc-building-2", Color: DefaultColor}
}

func contactDefaults() models.ContactSection {
	return models.ContactSection{
		Badge:        "CONTATO",
		Title:        "Vamos Conversar?",
		Methods:      []models.ContactMethod{},
		FormSubjects: []string{"Quero ser voluntaria", "Quero doar", "Parcerias", "Duvidas gerais"},
	}
}

func contactMethodDefaults() models.ContactMethod {
	return models.ContactMethod{Icon: "luc-star", Color: DefaultColor}
}

func ctaDefaults() models.CTASection {
	return models.CTASection{
		Title:       "Juntas Somos Mais Fortes",
		BtnDonate:   "Doar Agora",
		BtnProjects: "Conhecer Projetos",
	}
}

func seoDefaults() models.SEO {
	return models.SEO{
		Title:    "Elas Podem - Coletivo de Mulheres",
		Keywords: []string{"elas podem", "mulheres", "empoderamento"},
		OG: models.OpenGraph{
			Type:     "website",
			SiteName: "Elas Podem",
			Locale:   "pt_BR",
		},
	}
}

// preservedFallback is the preserved view substituted for items added in
// the editor that have no stored counterpart yet.
func preservedFallback() Record {
	return Record{"color": DefaultColor}
}

func record(v any) Record {
	return fieldmode.MustFromStruct(v)
}

// editableOf returns the editable view of a default value.
func editableOf(v any, s fieldmode.Section) Record {
	ed, _ := fieldmode.Separate(record(v), fieldmode.MustLookup(s))
	return ed
}

// CreateDefaultHeroEditable returns the initial editable hero.
func CreateDefaultHeroEditable() Record {
	return editableOf(heroDefaults(), fieldmode.Hero)
}

// CreateDefaultMissionEditable returns the initial editable mission.
func CreateDefaultMissionEditable() Record {
	return editableOf(missionDefaults(), fieldmode.Mission)
}

// CreateDefaultProgramsEditable returns the initial programs header with one
// blank program.
func CreateDefaultProgramsEditable() GroupView {
	return defaultProgramsForm().Editable
}

// CreateDefaultProgramEditable returns the editable view of a blank program.
func CreateDefaultProgramEditable() Record {
	return editableOf(programDefaults(), fieldmode.Program)
}

// CreateDefaultTestimonialEditable returns the editable view of a blank testimonial.
func CreateDefaultTestimonialEditable() Record {
	return editableOf(testimonialDefaults(), fieldmode.Testimonial)
}

// CreateDefaultSupportersEditable returns the initial supporters header with
// one blank supporter.
func CreateDefaultSupportersEditable() GroupView {
	return defaultSupportersForm().Editable
}

// CreateDefaultSupporterEditable returns the editable view of a blank supporter.
func CreateDefaultSupporterEditable() Record {
	return editableOf(supporterDefaults(), fieldmode.Supporter)
}

// CreateDefaultContactEditable returns the initial contact block (no methods).
func CreateDefaultContactEditable() GroupView {
	return defaultContactForm().Editable
}

// CreateDefaultCTAEditable returns the initial editable call to action.
func CreateDefaultCTAEditable() Record {
	return editableOf(ctaDefaults(), fieldmode.CTA)
}

// CreateDefaultSEOEditable returns the initial editable SEO block.
func CreateDefaultSEOEditable() Record {
	return editableOf(seoDefaults(), fieldmode.SEO)
}

// CreateNewHeroStat returns a blank hero stat.
func CreateNewHeroStat() Record {
	return record(heroStatDefaults())
}

// CreateNewProgram returns a blank program with every field, color included.
func CreateNewProgram() Record {
	return record(programDefaults())
}

// CreateNewTestimonial returns a blank testimonial.
func CreateNewTestimonial() Record {
	return record(testimonialDefaults())
}

// CreateNewSupporter returns a blank supporter with every field, color included.
func CreateNewSupporter() Record {
	return record(supporterDefaults())
}

// CreateNewContactMethod returns a blank contact method with every field, color included.
func CreateNewContactMethod() Record {
	return record(contactMethodDefaults())
}
