// internal/domain/models/page.go
package models

// Page documents live in the "pages" collection keyed by a string _id.
// The home page document has this layout:
//
//	pages/home → { content: { hero, mission, programs, ... }, seo, lastUpdated, updatedById, updatedByName }
//
// Field names are camelCase because the public site reads the document as is.
const (
	PagesCollection = "pages"
	PageIDHome      = "home"
)

// HomePage is the full persisted home page document.
type HomePage struct {
	ID            string      `bson:"_id,omitempty" json:"-"`
	Content       HomeContent `bson:"content" json:"content"`
	SEO           SEO         `bson:"seo" json:"seo"`
	LastUpdated   string      `bson:"lastUpdated" json:"lastUpdated"`
	UpdatedByID   string      `bson:"updatedById" json:"updatedById"`
	UpdatedByName string      `bson:"updatedByName" json:"updatedByName"`
}

// HomeContent groups the visible sections of the home page.
type HomeContent struct {
	Hero         HeroSection       `bson:"hero" json:"hero"`
	Mission      MissionSection    `bson:"mission" json:"mission"`
	Programs     ProgramsSection   `bson:"programs" json:"programs"`
	Testimonials []Testimonial     `bson:"testimonials" json:"testimonials"`
	Supporters   SupportersSection `bson:"supporters" json:"supporters"`
	Contact      ContactSection    `bson:"contact" json:"contact"`
	CTA          CTASection        `bson:"cta" json:"cta"`
}

// HeroStat is one highlighted figure in the hero banner (e.g. "2025 Sede Propria").
type HeroStat struct {
	Icon   string `bson:"icon" json:"icon"`
	Number string `bson:"number" json:"number"`
	Label  string `bson:"label" json:"label"`
}

// HeroSection is the main banner.
type HeroSection struct {
	Badge      string     `bson:"badge" json:"badge"`
	Title      string     `bson:"title" json:"title"`
	Subtitle   string     `bson:"subtitle" json:"subtitle"`
	BtnDonate  string     `bson:"btnDonate" json:"btnDonate"`
	BtnHistory string     `bson:"btnHistory" json:"btnHistory"`
	Stats      []HeroStat `bson:"stats" json:"stats"`
}

type MissionSection struct {
	Badge    string `bson:"badge" json:"badge"`
	Title    string `bson:"title" json:"title"`
	Text1    string `bson:"text1" json:"text1"`
	Text2    string `bson:"text2" json:"text2"`
	BtnText  string `bson:"btnText" json:"btnText"`
	Image    string `bson:"image" json:"image"`
	ImageAlt string `bson:"imageAlt" json:"imageAlt"`
}

// Program is one card in the programs grid. Color is one of the theme colors.
type Program struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
	Color       string `bson:"color" json:"color"`
	Link        string `bson:"link" json:"link"`
}

type ProgramsSection struct {
	Badge    string    `bson:"badge" json:"badge"`
	Title    string    `bson:"title" json:"title"`
	Subtitle string    `bson:"subtitle" json:"subtitle"`
	Items    []Program `bson:"items" json:"items"`
}

type Testimonial struct {
	Quote    string `bson:"quote" json:"quote"`
	Name     string `bson:"name" json:"name"`
	Role     string `bson:"role" json:"role"`
	Initials string `bson:"initials" json:"initials"`
	Image    string `bson:"image" json:"image"`
	ImageAlt string `bson:"imageAlt" json:"imageAlt"`
}

type Supporter struct {
	Name     string `bson:"name" json:"name"`
	Icon     string `bson:"icon" json:"icon"`
	Color    string `bson:"color" json:"color"`
	Image    string `bson:"image" json:"image"`
	ImageAlt string `bson:"imageAlt" json:"imageAlt"`
	URL      string `bson:"url" json:"url"`
}

type SupportersSection struct {
	Badge    string      `bson:"badge" json:"badge"`
	Title    string      `bson:"title" json:"title"`
	Subtitle string      `bson:"subtitle" json:"subtitle"`
	Items    []Supporter `bson:"items" json:"items"`
}

// ContactMethod is a phone, email, address or social link shown next to the form.
type ContactMethod struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
	Icon  string `bson:"icon" json:"icon"`
	Color string `bson:"color" json:"color"`
	URL   string `bson:"url" json:"url"`
}

type ContactSection struct {
	Badge        string          `bson:"badge" json:"badge"`
	Title        string          `bson:"title" json:"title"`
	Description  string          `bson:"description" json:"description"`
	Methods      []ContactMethod `bson:"methods" json:"methods"`
	FormSubjects []string        `bson:"formSubjects" json:"formSubjects"`
}

type CTASection struct {
	Title       string `bson:"title" json:"title"`
	Subtitle    string `bson:"subtitle" json:"subtitle"`
	BtnDonate   string `bson:"btnDonate" json:"btnDonate"`
	BtnProjects string `bson:"btnProjects" json:"btnProjects"`
}

// OpenGraph is the og:* metadata block. It is not exposed to editors.
type OpenGraph struct {
	Type     string `bson:"type" json:"type"`
	SiteName string `bson:"siteName" json:"siteName"`
	Locale   string `bson:"locale" json:"locale"`
}

type SEO struct {
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Keywords    []string  `bson:"keywords" json:"keywords"`
	OGImage     string    `bson:"ogImage" json:"ogImage"`
	OG          OpenGraph `bson:"og" json:"og"`
}
