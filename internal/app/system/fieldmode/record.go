// internal/app/system/fieldmode/record.go
package fieldmode

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is one flat section, item or whole page document as stored.
// Nested objects are Records and nested arrays are []any once a value has
// passed through DeepCopy.
type Record map[string]any

// DeepCopy returns an independent copy of v. Maps are copied key by key and
// slices element by element, recursively. BSON containers decoded from
// MongoDB (bson.M, bson.D, bson.A) and JSON objects (map[string]any) are
// normalised to Record and []any so values from either source compare equal.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Record:
		return copyMap(t)
	case map[string]any:
		return copyMap(t)
	case primitive.M:
		return copyMap(t)
	case primitive.D:
		out := make(Record, len(t))
		for _, e := range t {
			out[e.Key] = DeepCopy(e.Value)
		}
		return out
	case []any:
		return copySlice(t)
	case primitive.A:
		return copySlice(t)
	case []Record:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = copyMap(r)
		}
		return out
	case []map[string]any:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = copyMap(r)
		}
		return out
	case []string:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return v
	}
}

func copyMap[M ~map[string]any](m M) Record {
	if m == nil {
		return nil
	}
	out := make(Record, len(m))
	for k, v := range m {
		out[k] = DeepCopy(v)
	}
	return out
}

func copySlice[S ~[]any](s S) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = DeepCopy(v)
	}
	return out
}

// MapStrings returns a deep copy of v with fn applied to every string it
// holds, at any depth.
func MapStrings(v any, fn func(string) string) any {
	return mapStrings(DeepCopy(v), fn)
}

func mapStrings(v any, fn func(string) string) any {
	switch t := v.(type) {
	case string:
		return fn(t)
	case Record:
		for k, e := range t {
			t[k] = mapStrings(e, fn)
		}
	case []any:
		for i, e := range t {
			t[i] = mapStrings(e, fn)
		}
	}
	return v
}

// Clone deep-copies r.
func (r Record) Clone() Record {
	return copyMap(r)
}

// Record returns the nested record stored at key, normalised.
// ok is false when the key is absent or holds something other than an object.
func (r Record) Record(key string) (Record, bool) {
	return AsRecord(r[key])
}

// Records returns the nested array of records stored at key.
// ok is false when the key is absent or is not an array of objects.
func (r Record) Records(key string) ([]Record, bool) {
	return AsRecords(r[key])
}

// String returns the string stored at key, or "" when absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Strings returns the string array stored at key. Non-string elements are skipped.
func (r Record) Strings(key string) []string {
	var out []string
	switch t := r[key].(type) {
	case []string:
		out = append(out, t...)
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	case primitive.A:
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// AsRecord normalises v into a Record copy.
func AsRecord(v any) (Record, bool) {
	switch v.(type) {
	case Record, map[string]any, primitive.M, primitive.D:
		rec, _ := DeepCopy(v).(Record)
		return rec, rec != nil
	}
	return nil, false
}

// AsRecords normalises v into a slice of Record copies. Every element must be
// an object; a nil or empty array yields an empty, non-nil slice.
func AsRecords(v any) ([]Record, bool) {
	var items []any
	switch t := v.(type) {
	case []Record:
		out := make([]Record, len(t))
		for i, r := range t {
			out[i] = r.Clone()
		}
		return out, true
	case []any, primitive.A, []map[string]any:
		items, _ = DeepCopy(t).([]any)
	default:
		return nil, false
	}
	out := make([]Record, 0, len(items))
	for _, it := range items {
		rec, ok := it.(Record)
		if !ok {
			return nil, false
		}
		out = append(out, rec)
	}
	return out, true
}

// ItemsValue converts a slice of records into the []any form stored inside a parent Record.
func ItemsValue(items []Record) []any {
	out := make([]any, len(items))
	for i, r := range items {
		out[i] = r.Clone()
	}
	return out
}

// FromStruct converts a model struct into a Record using its bson tags.
func FromStruct(v any) (Record, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("fieldmode: marshal %T: %w", v, err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("fieldmode: unmarshal %T: %w", v, err)
	}
	return copyMap(m), nil
}

// MustFromStruct is FromStruct for values built in code.
func MustFromStruct(v any) Record {
	rec, err := FromStruct(v)
	if err != nil {
		panic(err)
	}
	return rec
}

// ToStruct decodes r into out (a pointer to a model struct) using bson tags.
func ToStruct(r Record, out any) error {
	raw, err := bson.Marshal(r)
	if err != nil {
		return fmt.Errorf("fieldmode: marshal record: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("fieldmode: unmarshal into %T: %w", out, err)
	}
	return nil
}
