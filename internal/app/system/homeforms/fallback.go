// internal/app/system/homeforms/fallback.go
package homeforms

import (
	"github.com/dalemusser/elaspodem/internal/domain/models"
)

// FallbackPage is the placeholder document served to the public site when
// the store has no home page document. It has the full stored shape.
func FallbackPage() models.HomePage {
	return models.HomePage{
		Content: models.HomeContent{
			Hero: models.HeroSection{
				Badge:      "LOREM IPSUM DOLOR SIT",
				Title:      "LOREM IPSUM",
				Subtitle:   "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
				BtnDonate:  "Lorem Ipsum",
				BtnHistory: "Lorem Dolor",
				Stats: []models.HeroStat{
					{Icon: "luc-award", Number: "000", Label: "Lorem Ipsum"},
					{Icon: "luc-megaphone", Number: "0a", Label: "Lorem Dolor"},
					{Icon: "luc-users", Number: "XX", Label: "Lorem Sit"},
				},
			},
			Mission: models.MissionSection{
				Badge:    "LOREM IPSUM",
				Title:    "Lorem Ipsum Dolor Sit Amet Consectetur",
				Text1:    "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
				Text2:    "Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non proident.",
				BtnText:  "Lorem Ipsum Dolor",
				ImageAlt: "Lorem ipsum dolor sit amet",
			},
			Programs: models.ProgramsSection{
				Badge:    "LOREM IPSUM",
				Title:    "Lorem Ipsum Dolor Sit",
				Subtitle: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
				Items: []models.Program{
					{Title: "Lorem Ipsum", Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt.", Icon: "luc-megaphone", Color: "magenta", Link: "Lorem ipsum →"},
					{Title: "Dolor Sit Amet", Description: "Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip.", Icon: "luc-graduation-cap", Color: "coral", Link: "Lorem ipsum →"},
					{Title: "Consectetur Elit", Description: "Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat.", Icon: "luc-users", Color: "rosa", Link: "Lorem ipsum →"},
					{Title: "Adipiscing Tempor", Description: "Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit.", Icon: "luc-scale", Color: "oliva", Link: "Lorem ipsum →"},
				},
			},
			Testimonials: []models.Testimonial{
				{Quote: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam.", Name: "Lorem Ipsum", Role: "Lorem Dolor", Initials: "LI", ImageAlt: "Foto de Lorem Ipsum"},
				{Quote: "Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat.", Name: "Dolor Sit", Role: "Lorem Amet", Initials: "DS", ImageAlt: "Foto de Dolor Sit"},
				{Quote: "Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.", Name: "Amet Consectetur", Role: "Lorem Elit", Initials: "AC", ImageAlt: "Foto de Amet Consectetur"},
			},
			Supporters: models.SupportersSection{
				Badge:    "LOREM IPSUM",
				Title:    "Lorem Ipsum Dolor Sit",
				Subtitle: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor.",
				Items: []models.Supporter{
					{Name: "Lorem 1", Icon: "luc-building-2", Color: "magenta"},
					{Name: "Lorem 2", Icon: "luc-heart-handshake", Color: "coral"},
					{Name: "Lorem 3", Icon: "luc-globe", Color: "rosa"},
					{Name: "Lorem 4", Icon: "luc-star", Color: "oliva"},
					{Name: "Lorem 5", Icon: "luc-award", Color: "laranja"},
				},
			},
			Contact: models.ContactSection{
				Badge:       "LOREM IPSUM",
				Title:       "Lorem Ipsum Dolor?",
				Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor.",
				Methods: []models.ContactMethod{
					{Label: "Lorem", Value: "lorem@ipsum.com", Icon: "luc-instagram", Color: "magenta"},
					{Label: "Dolor", Value: "Lorem Ipsum Dolor", Icon: "luc-user-check", Color: "coral"},
					{Label: "Amet", Value: "Lorem - IP", Icon: "luc-map-pin", Color: "rosa"},
				},
				FormSubjects: []string{"Lorem ipsum", "Dolor sit", "Amet consectetur", "Adipiscing elit"},
			},
			CTA: models.CTASection{
				Title:       "Lorem Ipsum Dolor Sit",
				Subtitle:    "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore!",
				BtnDonate:   "Lorem Ipsum",
				BtnProjects: "Lorem Dolor",
			},
		},
		SEO: models.SEO{
			Title:       "Lorem Ipsum - Dolor Sit Amet",
			Description: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
			Keywords:    []string{"lorem", "ipsum", "dolor"},
			OG: models.OpenGraph{
				Type:     "website",
				SiteName: "Lorem Ipsum",
				Locale:   "pt_BR",
			},
		},
	}
}

// Fallback returns FallbackPage as a stored record.
func Fallback() Record {
	return record(FallbackPage())
}

// DefaultPage returns the document that CreateDefaultHomeForms would save,
// used to seed an empty database.
func DefaultPage() Record {
	return CombineDocument(CreateDefaultHomeForms())
}
