// internal/app/system/pageeditor/changes.go

// Package pageeditor holds the pieces of an editing session that sit around
// the page controller: change tracking, image replacement and the uploads
// made while editing.
package pageeditor

import (
	"context"
	"sort"

	"github.com/dalemusser/elaspodem/internal/app/system/fieldmode"
	"github.com/dalemusser/elaspodem/internal/app/system/homeforms"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var equalOpts = []cmp.Option{cmpopts.EquateEmpty()}

// ChangedSections returns, in page order, the sections whose forms differ
// between current and original. Nil and empty collections compare equal.
func ChangedSections(current, original homeforms.HomeForms) []string {
	changed := []string{}
	for _, name := range homeforms.SectionNames() {
		a, _ := current.Section(name)
		b, _ := original.Section(name)
		if !cmp.Equal(a, b, equalOpts...) {
			changed = append(changed, name)
		}
	}
	return changed
}

// HasChanges reports whether any section differs.
func HasChanges(current, original homeforms.HomeForms) bool {
	return len(ChangedSections(current, original)) > 0
}

// imageKeys are the record keys that hold image URLs.
var imageKeys = map[string]bool{"image": true, "ogImage": true}

// ReferencedImages returns the distinct image URLs in a page document,
// sorted.
func ReferencedImages(doc fieldmode.Record) []string {
	seen := map[string]bool{}
	collectImages(doc, seen)
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func collectImages(v any, seen map[string]bool) {
	switch t := v.(type) {
	case fieldmode.Record:
		for k, child := range t {
			if s, ok := child.(string); ok {
				if imageKeys[k] && s != "" {
					seen[s] = true
				}
				continue
			}
			collectImages(child, seen)
		}
	case []fieldmode.Record:
		for _, r := range t {
			collectImages(r, seen)
		}
	case []any:
		for _, child := range t {
			collectImages(child, seen)
		}
	}
}

// ImageRemover deletes stored images. media.Service satisfies it.
type ImageRemover interface {
	Delete(ctx context.Context, url string)
	IsStorageURL(url string) bool
}

// CleanupOldImage deletes oldURL after an image was replaced by newURL. It
// does nothing when the URL did not change, when oldURL is empty, or when
// oldURL does not point into our storage. It reports whether a delete was
// attempted.
func CleanupOldImage(ctx context.Context, media ImageRemover, oldURL, newURL string) bool {
	if oldURL == "" || oldURL == newURL || !media.IsStorageURL(oldURL) {
		return false
	}
	media.Delete(ctx, oldURL)
	return true
}
