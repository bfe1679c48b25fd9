// internal/app/system/fieldmode/shape.go
package fieldmode

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dalemusser/elaspodem/internal/domain/models"
)

// shapes pairs each registry entry with the model struct it describes and
// the array fields that are split separately (with their own entry).
var shapes = map[Section]struct {
	model  reflect.Type
	nested []string
}{
	Hero:          {model: reflect.TypeOf(models.HeroSection{})},
	Mission:       {model: reflect.TypeOf(models.MissionSection{})},
	Programs:      {model: reflect.TypeOf(models.ProgramsSection{}), nested: []string{"items"}},
	Program:       {model: reflect.TypeOf(models.Program{})},
	Testimonial:   {model: reflect.TypeOf(models.Testimonial{})},
	Supporters:    {model: reflect.TypeOf(models.SupportersSection{}), nested: []string{"items"}},
	Supporter:     {model: reflect.TypeOf(models.Supporter{})},
	Contact:       {model: reflect.TypeOf(models.ContactSection{}), nested: []string{"methods"}},
	ContactMethod: {model: reflect.TypeOf(models.ContactMethod{})},
	CTA:           {model: reflect.TypeOf(models.CTASection{})},
	SEO:           {model: reflect.TypeOf(models.SEO{})},
}

// CheckShape verifies that m describes exactly the bson fields of struct t.
// Every struct field needs a valid mode unless it is listed in nested, and
// every mode entry must name a struct field.
func CheckShape(t reflect.Type, m Map, nested ...string) error {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("fieldmode: %s is not a struct", t)
	}

	skip := make(map[string]bool, len(nested))
	for _, n := range nested {
		skip[n] = true
	}

	var problems []string
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := bsonName(f)
		if name == "" || name == "_id" {
			continue
		}
		fields[name] = true
		if skip[name] {
			continue
		}
		mode, ok := m[name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("field %q has no mode", name))
		case !mode.Valid():
			problems = append(problems, fmt.Sprintf("field %q has invalid mode %s", name, mode))
		}
	}
	for name := range m {
		if !fields[name] {
			problems = append(problems, fmt.Sprintf("mode declared for unknown field %q", name))
		}
		if skip[name] {
			problems = append(problems, fmt.Sprintf("nested field %q must not have a mode", name))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("fieldmode: %s: %s", t.Name(), strings.Join(problems, "; "))
}

// CheckRegistry runs CheckShape for every registry entry against its model.
func CheckRegistry() error {
	var errs []error
	for _, s := range Sections() {
		shape, ok := shapes[s]
		if !ok {
			errs = append(errs, fmt.Errorf("fieldmode: section %q has no model", s))
			continue
		}
		m, ok := registry[s]
		if !ok {
			errs = append(errs, fmt.Errorf("fieldmode: section %q has no field map", s))
			continue
		}
		if err := CheckShape(shape.model, m, shape.nested...); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

func bsonName(f reflect.StructField) string {
	tag := f.Tag.Get("bson")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}
