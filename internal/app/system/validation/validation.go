// internal/app/system/validation/validation.go

// Package validation checks page content against per-section length and
// count rules before it is saved. Results are lists of human-readable
// messages; nothing here performs I/O.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
)

// Result is the outcome of validating one section or a whole page.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func result(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// Merge combines several results into one.
func Merge(results ...Result) Result {
	var errs []string
	for _, r := range results {
		errs = append(errs, r.Errors...)
	}
	return result(errs)
}

// FieldRule constrains one string field. Lengths count runes of the
// trimmed value; zero means no bound.
type FieldRule struct {
	Field     string
	Required  bool
	MinLength int
	MaxLength int
}

// CountRule bounds the number of items in a list.
type CountRule struct {
	Min int
	Max int
}

// ValidateField checks one value. A required field that is empty reports
// only that it is required; an optional empty field is not checked further.
func ValidateField(value any, rule FieldRule) []string {
	s, _ := value.(string)
	text := strings.TrimSpace(s)

	if text == "" {
		if rule.Required {
			return []string{fmt.Sprintf("%q is required", rule.Field)}
		}
		return nil
	}

	var errs []string
	n := utf8.RuneCountInString(text)
	if rule.MinLength > 0 && n < rule.MinLength {
		errs = append(errs, fmt.Sprintf("%q must be at least %d characters", rule.Field, rule.MinLength))
	}
	if rule.MaxLength > 0 && n > rule.MaxLength {
		errs = append(errs, fmt.Sprintf("%q must be at most %d characters", rule.Field, rule.MaxLength))
	}
	return errs
}

// ValidateFields checks rec against rules in order. When anything fails the
// error list starts with the header line "Errors in <label>:".
func ValidateFields(rec fieldmode.Record, rules []FieldRule, label string) Result {
	var errs []string
	for _, rule := range rules {
		errs = append(errs, ValidateField(rec[rule.Field], rule)...)
	}
	if len(errs) > 0 {
		errs = append([]string{fmt.Sprintf("Errors in %s:", label)}, errs...)
	}
	return result(errs)
}

// ValidateItemCount checks the length of a list.
func ValidateItemCount(n int, rule CountRule, label string) []string {
	var errs []string
	if n < rule.Min {
		errs = append(errs, fmt.Sprintf("%s: minimum %d item(s)", label, rule.Min))
	}
	if rule.Max > 0 && n > rule.Max {
		errs = append(errs, fmt.Sprintf("%s: maximum %d items", label, rule.Max))
	}
	return errs
}

// ValidateArrayItems checks every item, labelling them "<label> #1", "<label> #2", ...
func ValidateArrayItems(items []fieldmode.Record, rules []FieldRule, label string) []string {
	var errs []string
	for i, it := range items {
		r := ValidateFields(it, rules, fmt.Sprintf("%s #%d", label, i+1))
		errs = append(errs, r.Errors...)
	}
	return errs
}

// count returns the length of the list stored at key and whether it is a list.
func count(rec fieldmode.Record, key string) (int, bool) {
	switch t := rec[key].(type) {
	case []any:
		return len(t), true
	case []string:
		return len(t), true
	case []fieldmode.Record:
		return len(t), true
	}
	return 0, false
}
