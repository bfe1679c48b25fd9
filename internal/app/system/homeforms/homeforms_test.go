package homeforms

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"github.com/google/go-cmp/cmp"
)

func withoutAudit(doc Record) Record {
	out := doc.Clone()
	delete(out, "lastUpdated")
	delete(out, "updatedById")
	delete(out, "updatedByName")
	return out
}

func TestRoundTrip_FullDocument(t *testing.T) {
	doc := Fallback()

	forms := SeparateAllSections(doc)
	got := CombineDocument(forms)

	if diff := cmp.Diff(withoutAudit(doc), got); diff != "" {
		t.Errorf("CombineDocument(SeparateAllSections(x)) mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_PerSection(t *testing.T) {
	doc := Fallback()
	content, _ := doc.Record("content")
	forms := SeparateAllSections(doc)

	for _, name := range SectionNames() {
		t.Run(name, func(t *testing.T) {
			path, value, err := CombineSection(forms, name)
			if err != nil {
				t.Fatalf("CombineSection(%q) error = %v", name, err)
			}
			var want any
			if name == SectionSEO {
				want = doc[SectionSEO]
				if path != "seo" {
					t.Errorf("path = %q, want seo", path)
				}
			} else {
				want = content[name]
				if path != "content."+name {
					t.Errorf("path = %q, want content.%s", path, name)
				}
			}
			if diff := cmp.Diff(want, value); diff != "" {
				t.Errorf("section %s mismatch (-want +got):\n%s", name, diff)
			}
		})
	}
}

func TestSeparate_HiddenFieldsKeptOutOfEditable(t *testing.T) {
	forms := SeparateAllSections(Fallback())

	for i, item := range forms.Programs.Editable.Items {
		if _, ok := item["color"]; ok {
			t.Errorf("programs editable item %d exposes color", i)
		}
	}
	if got := forms.Programs.Readonly.Items[1]["color"]; got != "coral" {
		t.Errorf("programs readonly[1].color = %v, want coral", got)
	}
	if _, ok := forms.SEO.Editable["og"]; ok {
		t.Error("seo editable exposes og")
	}
	if _, ok := forms.SEO.Readonly["og"]; !ok {
		t.Error("seo readonly lacks og")
	}
	if len(forms.Contact.Editable.Items) != len(forms.Contact.Readonly.Items) {
		t.Errorf("contact items misaligned: %d editable, %d readonly",
			len(forms.Contact.Editable.Items), len(forms.Contact.Readonly.Items))
	}
	if _, ok := forms.Contact.Editable.Meta["formSubjects"]; !ok {
		t.Error("contact editable header lacks formSubjects")
	}
}

func TestSeparateAllSections_MissingSection(t *testing.T) {
	doc := Fallback()
	content, _ := doc.Record("content")
	delete(content, SectionTestimonials)
	doc["content"] = content

	forms := SeparateAllSections(doc)

	want := CreateDefaultHomeForms().Testimonials
	if diff := cmp.Diff(want, forms.Testimonials); diff != "" {
		t.Errorf("testimonials mismatch (-want +got):\n%s", diff)
	}
	if got := forms.Hero.Editable["title"]; got != "LOREM IPSUM" {
		t.Errorf("hero title = %v, want stored value", got)
	}
}

func TestSeparateAllSections_EmptyAndMalformed(t *testing.T) {
	defaults := CreateDefaultHomeForms()

	if diff := cmp.Diff(defaults, SeparateAllSections(nil)); diff != "" {
		t.Errorf("nil document mismatch (-want +got):\n%s", diff)
	}

	doc := Record{
		"content": Record{"hero": "not a record", "testimonials": Record{"x": 1}},
		"seo":     []any{"wrong"},
	}
	got := SeparateAllSections(doc)
	if diff := cmp.Diff(defaults, got); diff != "" {
		t.Errorf("malformed document mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultHomeForms(t *testing.T) {
	forms := CreateDefaultHomeForms()

	if got := forms.Hero.Editable["title"]; got != "ELAS PO+DEM" {
		t.Errorf("hero title = %v", got)
	}
	if stats, _ := forms.Hero.Editable.Records("stats"); len(stats) != 3 {
		t.Errorf("hero stats = %d, want 3", len(stats))
	}
	if len(forms.Programs.Editable.Items) != 1 || forms.Programs.Readonly.Items[0]["color"] != DefaultColor {
		t.Errorf("programs default = %+v", forms.Programs)
	}
	if len(forms.Supporters.Editable.Items) != 1 || forms.Supporters.Readonly.Items[0]["color"] != DefaultColor {
		t.Errorf("supporters default = %+v", forms.Supporters)
	}
	if len(forms.Contact.Editable.Items) != 0 {
		t.Errorf("contact methods = %d, want 0", len(forms.Contact.Editable.Items))
	}
	og, _ := forms.SEO.Readonly.Record("og")
	if og.String("locale") != "pt_BR" {
		t.Errorf("seo og = %v", og)
	}

	a := CreateDefaultHomeForms()
	a.Hero.Editable["title"] = "changed"
	if b := CreateDefaultHomeForms(); b.Hero.Editable["title"] != "ELAS PO+DEM" {
		t.Error("defaults share state between calls")
	}
}

func TestCombinePrograms_NewItemGetsDefaultColor(t *testing.T) {
	forms := CreateDefaultHomeForms()
	forms.Programs.Editable.Items = append(forms.Programs.Editable.Items, CreateNewProgram())

	combined := CombineProgramsData(forms.Programs)
	items, ok := combined.Records("items")
	if !ok || len(items) != 2 {
		t.Fatalf("items = %v", combined["items"])
	}
	if got := items[len(items)-1]["color"]; got != "magenta" {
		t.Errorf("last item color = %v, want magenta", got)
	}
}

func TestCombinePrograms_EditableOnlyItemGetsFallback(t *testing.T) {
	forms := CreateDefaultHomeForms()
	forms.Programs.Editable.Items = append(forms.Programs.Editable.Items, Record{"title": "Novo"})

	items, _ := CombineProgramsData(forms.Programs).Records("items")
	last := items[len(items)-1]
	if last["color"] != "magenta" {
		t.Errorf("color = %v, want magenta", last["color"])
	}
	for _, field := range []string{"title", "description", "icon", "color", "link"} {
		if _, ok := last[field]; !ok {
			t.Errorf("combined item lacks %q", field)
		}
	}
}

func TestCombine_DropsUndeclaredAndFillsMissing(t *testing.T) {
	f := FlatForm{
		Editable: Record{"title": "Juntas", "injected": "<script>"},
		Readonly: Record{},
	}
	got := CombineCTAData(f)
	want := Record{
		"title":       "Juntas",
		"subtitle":    "",
		"btnDonate":   "Doar Agora",
		"btnProjects": "Conhecer Projetos",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CombineCTAData() mismatch (-want +got):\n%s", diff)
	}
}

func TestCombineSection_Unknown(t *testing.T) {
	_, _, err := CombineSection(CreateDefaultHomeForms(), "values")
	var unknown ErrUnknownSection
	if !errors.As(err, &unknown) || unknown.Name != "values" {
		t.Errorf("error = %v, want ErrUnknownSection{values}", err)
	}
}

func TestCombineAll_Paths(t *testing.T) {
	all := CombineAll(CreateDefaultHomeForms())
	want := []string{
		"content.hero", "content.mission", "content.programs", "content.testimonials",
		"content.supporters", "content.contact", "content.cta", "seo",
	}
	if len(all) != len(want) {
		t.Errorf("len = %d, want %d", len(all), len(want))
	}
	for _, p := range want {
		if _, ok := all[p]; !ok {
			t.Errorf("missing path %q", p)
		}
	}
}

func TestItems_AddRemoveMoveKeepAlignment(t *testing.T) {
	forms := SeparateAllSections(Fallback())

	idx, err := forms.AddItem(ListPrograms)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if idx != 4 {
		t.Errorf("AddItem() index = %d, want 4", idx)
	}
	if len(forms.Programs.Editable.Items) != 5 || len(forms.Programs.Readonly.Items) != 5 {
		t.Fatalf("lengths = %d/%d", len(forms.Programs.Editable.Items), len(forms.Programs.Readonly.Items))
	}

	// Move "Consectetur Elit" (rosa) to the front.
	if err := forms.MoveItem(ListPrograms, 2, 0); err != nil {
		t.Fatalf("MoveItem() error = %v", err)
	}
	items, _ := CombineProgramsData(forms.Programs).Records("items")
	if items[0]["title"] != "Consectetur Elit" || items[0]["color"] != "rosa" {
		t.Errorf("items[0] = %v, want rosa Consectetur Elit", items[0])
	}
	if items[1]["title"] != "Lorem Ipsum" || items[1]["color"] != "magenta" {
		t.Errorf("items[1] = %v", items[1])
	}

	// Remove "Lorem Ipsum" (magenta); "Dolor Sit Amet" keeps coral.
	if err := forms.RemoveItem(ListPrograms, 1); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	items, _ = CombineProgramsData(forms.Programs).Records("items")
	if items[1]["title"] != "Dolor Sit Amet" || items[1]["color"] != "coral" {
		t.Errorf("items[1] after remove = %v", items[1])
	}

	if err := forms.RemoveItem(ListPrograms, 10); !errors.Is(err, ErrItemIndex) {
		t.Errorf("RemoveItem(10) error = %v, want ErrItemIndex", err)
	}
	if err := forms.MoveItem(ListPrograms, 0, -1); !errors.Is(err, ErrItemIndex) {
		t.Errorf("MoveItem(0,-1) error = %v, want ErrItemIndex", err)
	}
}

func TestItems_HeroStats(t *testing.T) {
	forms := CreateDefaultHomeForms()
	idx, err := forms.AddItem(ListHeroStats)
	if err != nil || idx != 3 {
		t.Fatalf("AddItem(heroStats) = %d, %v", idx, err)
	}
	stats, _ := forms.Hero.Editable.Records("stats")
	if diff := cmp.Diff(Record{"icon": "luc-star", "number": "", "label": ""}, stats[3]); diff != "" {
		t.Errorf("new stat mismatch:\n%s", diff)
	}
	if err := forms.MoveItem(ListHeroStats, 3, 0); err != nil {
		t.Fatalf("MoveItem() error = %v", err)
	}
	if err := forms.RemoveItem(ListHeroStats, 1); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	stats, _ = forms.Hero.Editable.Records("stats")
	if len(stats) != 3 || stats[0]["icon"] != "luc-star" || stats[1]["icon"] != "luc-megaphone" {
		t.Errorf("stats = %v", stats)
	}
}

func TestItems_PadsShortReadonlySide(t *testing.T) {
	forms := CreateDefaultHomeForms()
	forms.Supporters.Editable.Items = append(forms.Supporters.Editable.Items, Record{"name": "Extra"})

	if _, err := forms.AddItem(ListSupporters); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if len(forms.Supporters.Readonly.Items) != 3 {
		t.Errorf("readonly len = %d, want 3", len(forms.Supporters.Readonly.Items))
	}
	if forms.Supporters.Readonly.Items[1]["color"] != DefaultColor {
		t.Errorf("padded color = %v", forms.Supporters.Readonly.Items[1]["color"])
	}
}

func TestParseList(t *testing.T) {
	if l, err := ParseList("contactMethods"); err != nil || l.Section() != SectionContact {
		t.Errorf("ParseList(contactMethods) = %q, %v", l, err)
	}
	if _, err := ParseList("values"); err == nil {
		t.Error("ParseList(values) error = nil")
	}
}

func TestResetSection_CopiesOnlyNamedSection(t *testing.T) {
	dst := CreateDefaultHomeForms()
	dst.Hero.Editable["title"] = "edited"
	dst.Mission.Editable["title"] = "edited"
	src := SeparateAllSections(Fallback())

	if err := ResetSection(&dst, src, SectionMission); err != nil {
		t.Fatalf("ResetSection() error = %v", err)
	}
	if dst.Mission.Editable["title"] != src.Mission.Editable["title"] {
		t.Errorf("mission title = %v", dst.Mission.Editable["title"])
	}
	if dst.Hero.Editable["title"] != "edited" {
		t.Errorf("hero title = %v, want untouched", dst.Hero.Editable["title"])
	}

	src.Mission.Editable["title"] = "mutated"
	if dst.Mission.Editable["title"] == "mutated" {
		t.Error("ResetSection shares memory with src")
	}
}

func TestTheme(t *testing.T) {
	if !IsThemeColor("roxo-noite") || IsThemeColor("blue") {
		t.Error("IsThemeColor unexpected result")
	}
	if !IsIcon("luc-map-pin") || IsIcon("luc-unknown") {
		t.Error("IsIcon unexpected result")
	}
}

func TestDefaultPage_MatchesModelShape(t *testing.T) {
	doc := DefaultPage()
	content, ok := doc.Record("content")
	if !ok {
		t.Fatal("DefaultPage() has no content")
	}
	for _, name := range SectionNames() {
		if name == SectionSEO {
			continue
		}
		if _, ok := content[name]; !ok {
			t.Errorf("content lacks %q", name)
		}
	}
	if err := fieldmode.CheckRegistry(); err != nil {
		t.Errorf("CheckRegistry() error = %v", err)
	}
}

func upper(s string) string { return strings.ToUpper(s) }

func TestSetEditable_Flat(t *testing.T) {
	forms := SeparateAllSections(Fallback())

	body := `{"title":"novo título","og":{"type":"hacked"},"unknown":"x","stats":[{"icon":"luc-star","number":"1","label":"um"}]}`
	if err := forms.SetEditable(SectionHero, []byte(body), upper); err != nil {
		t.Fatalf("SetEditable(hero) error = %v", err)
	}

	if got := forms.Hero.Editable["title"]; got != "NOVO TÍTULO" {
		t.Errorf("title = %v, want cleaned value", got)
	}
	if got := forms.Hero.Editable["badge"]; got != "LOREM IPSUM DOLOR SIT" {
		t.Errorf("badge = %v, want untouched", got)
	}
	if _, ok := forms.Hero.Editable["unknown"]; ok {
		t.Error("undeclared field accepted")
	}
	stats, _ := forms.Hero.Editable.Records("stats")
	if len(stats) != 1 || stats[0]["label"] != "UM" {
		t.Errorf("stats = %v", stats)
	}

	// og is hidden: it must not reach the editable view or the stored record.
	if err := forms.SetEditable(SectionSEO, []byte(`{"title":"t","og":{"type":"x"}}`), nil); err != nil {
		t.Fatalf("SetEditable(seo) error = %v", err)
	}
	if _, ok := forms.SEO.Editable["og"]; ok {
		t.Error("hidden field og entered the editable view")
	}
	og, _ := CombineSEOData(forms.SEO).Record("og")
	if og["type"] != "website" {
		t.Errorf("og.type = %v, want website", og["type"])
	}
}

func TestSetEditable_GroupKeepsReadonly(t *testing.T) {
	forms := SeparateAllSections(Fallback())
	before := forms.Programs.Readonly.Clone()

	items := make([]map[string]any, len(forms.Programs.Editable.Items))
	for i := range items {
		items[i] = map[string]any{"title": fmt.Sprintf("programa %d", i), "color": "vinho"}
	}
	body, _ := json.Marshal(map[string]any{"items": items})
	if err := forms.SetEditable(SectionPrograms, body, nil); err != nil {
		t.Fatalf("SetEditable(programs) error = %v", err)
	}

	if diff := cmp.Diff(before, forms.Programs.Readonly); diff != "" {
		t.Errorf("readonly view changed:\n%s", diff)
	}
	if got := forms.Programs.Editable.Meta["title"]; got != "Lorem Ipsum Dolor Sit" {
		t.Errorf("meta title = %v, want untouched", got)
	}
	combined, _ := CombineProgramsData(forms.Programs).Records("items")
	if combined[2]["title"] != "programa 2" || combined[2]["color"] != "rosa" {
		t.Errorf("items[2] = %v, want new title with rosa", combined[2])
	}
	if combined[2]["icon"] != "luc-users" {
		t.Errorf("items[2].icon = %v, want untouched", combined[2]["icon"])
	}
}

func TestSetEditable_Errors(t *testing.T) {
	forms := SeparateAllSections(Fallback())

	if err := forms.SetEditable(SectionPrograms, []byte(`{"items":[{"title":"só um"}]}`), nil); !errors.Is(err, ErrItemCount) {
		t.Errorf("programs count change error = %v, want ErrItemCount", err)
	}
	if err := forms.SetEditable(SectionTestimonials, []byte(`[]`), nil); !errors.Is(err, ErrItemCount) {
		t.Errorf("testimonials count change error = %v, want ErrItemCount", err)
	}
	if err := forms.SetEditable(SectionMission, []byte(`[1,2]`), nil); err == nil {
		t.Error("wrong JSON shape accepted")
	}

	var unknown ErrUnknownSection
	if err := forms.SetEditable("footer", []byte(`{}`), nil); !errors.As(err, &unknown) {
		t.Errorf("unknown section error = %v", err)
	}
}

func TestSetEditable_Testimonials(t *testing.T) {
	forms := SeparateAllSections(Fallback())
	body := `[{"name":"Ana"},{"name":"Bia"},{"quote":"<b>Nova</b>"}]`

	if err := forms.SetEditable(SectionTestimonials, []byte(body), nil); err != nil {
		t.Fatalf("SetEditable() error = %v", err)
	}
	if forms.Testimonials.Editable[0]["name"] != "Ana" || forms.Testimonials.Editable[0]["initials"] != "LI" {
		t.Errorf("item 0 = %v", forms.Testimonials.Editable[0])
	}
	if forms.Testimonials.Editable[2]["name"] != "Amet Consectetur" {
		t.Errorf("item 2 name = %v, want untouched", forms.Testimonials.Editable[2]["name"])
	}
}
