// internal/app/system/fieldmode/transform.go
package fieldmode

import (
	"dario.cat/mergo"
)

// Separate splits rec against m.
//
// Every field declared in m and present in rec is deep-copied into editable
// (mode Editable) or preserved (Readonly, Hidden). Declared fields missing
// from rec are skipped; fields of rec not declared in m are dropped. Both
// results are non-nil and share no memory with rec.
func Separate(rec Record, m Map) (editable, preserved Record) {
	editable, preserved = Record{}, Record{}
	for field, mode := range m {
		v, ok := rec[field]
		if !ok {
			continue
		}
		switch {
		case mode == Editable:
			editable[field] = DeepCopy(v)
		case mode.Preserved():
			preserved[field] = DeepCopy(v)
		}
	}
	return editable, preserved
}

// SeparateArray applies Separate to each item. The two results have the
// same length as items and are index aligned with it.
func SeparateArray(items []Record, m Map) (editable, preserved []Record) {
	editable = make([]Record, len(items))
	preserved = make([]Record, len(items))
	for i, it := range items {
		editable[i], preserved[i] = Separate(it, m)
	}
	return editable, preserved
}

// Combine merges preserved first and overlays editable on top, so an
// editable value wins on a key collision, whole: a nested record under a
// colliding key replaces the preserved one rather than merging into it.
// The result is a fresh copy.
func Combine(editable, preserved Record) Record {
	out := preserved.Clone()
	if out == nil {
		out = Record{}
	}
	src := editable.Clone()
	if src == nil {
		return out
	}
	for k := range src {
		delete(out, k)
	}
	if err := mergo.Merge(&out, src); err != nil {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}

// CombineArray merges editable and preserved index by index. When there is
// no preserved entry at an index (an item added in the editor) a copy of
// fallback is used in its place. The result always has len(editable) items;
// surplus preserved entries are ignored.
func CombineArray(editable, preserved []Record, fallback Record) []Record {
	out := make([]Record, len(editable))
	for i, ed := range editable {
		var pv Record
		if i < len(preserved) && preserved[i] != nil {
			pv = preserved[i]
		} else {
			pv = fallback
		}
		out[i] = Combine(ed, pv)
	}
	return out
}

// Restrict returns a copy of rec holding only the fields declared in m.
func Restrict(rec Record, m Map) Record {
	out := Record{}
	for field := range m {
		if v, ok := rec[field]; ok {
			out[field] = DeepCopy(v)
		}
	}
	return out
}
