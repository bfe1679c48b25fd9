// internal/app/system/normalize/normalize.go

// Package normalize trims and folds user input before it is stored or
// compared.
package normalize

import "strings"

// Email trims whitespace and lowercases. Stored emails and lookups both go
// through it.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace, so
// "Ana   Souza" and "Ana Souza" are the same editor.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims whitespace. Case is preserved: roles are camelCase and are
// matched exactly.
func Role(s string) string {
	return strings.TrimSpace(s)
}

// Category trims and lowercases an image or audit category.
func Category(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
