// Package record resolves logical fields out of loosely-typed backend records.
//
// The backend has two historical naming conventions (snake_case and camelCase, with a
// few PascalCase stragglers) for the same attribute. Every accessor here walks a fixed
// alias list and returns the first non-null value, so callers never read raw fields.
package record

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Record is a single JSON object as received from the backend.
type Record struct {
	raw gjson.Result
}

// Parse wraps a raw JSON object.
func Parse(data []byte) Record {
	return Record{raw: gjson.ParseBytes(data)}
}

// FromResult wraps an already parsed gjson value.
func FromResult(r gjson.Result) Record {
	return Record{raw: r}
}

// Raw returns the original JSON text of the record.
func (r Record) Raw() string {
	return r.raw.Raw
}

// First returns the first alias holding a non-null value.
func (r Record) First(aliases ...string) (gjson.Result, bool) {
	for _, alias := range aliases {
		v := r.raw.Get(gjson.Escape(alias))
		if v.Exists() && v.Type != gjson.Null {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// String returns the first non-null alias as a string. Numbers are rendered in their
// JSON form so ids typed either way compare equal.
func (r Record) String(aliases ...string) (string, bool) {
	v, ok := r.First(aliases...)
	if !ok {
		return "", false
	}
	if v.Type != gjson.String {
		return v.Raw, true
	}
	return v.String(), true
}

// Int returns the first non-null alias as an integer. String values holding digits are
// accepted; anything else is a miss.
func (r Record) Int(aliases ...string) (int64, bool) {
	v, ok := r.First(aliases...)
	if !ok {
		return 0, false
	}
	switch v.Type {
	case gjson.Number:
		return v.Int(), true
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Bool returns the first non-null alias as a boolean. The strings "true"/"false" and
// the numbers 0/1 are accepted since older rows store flags that way.
func (r Record) Bool(aliases ...string) (bool, bool) {
	v, ok := r.First(aliases...)
	if !ok {
		return false, false
	}
	switch v.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	case gjson.Number:
		return v.Int() != 0, true
	case gjson.String:
		b, err := strconv.ParseBool(strings.TrimSpace(v.String()))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// Strings returns the first non-null alias as a list of strings. A comma separated
// string is split, a JSON array is flattened.
func (r Record) Strings(aliases ...string) ([]string, bool) {
	v, ok := r.First(aliases...)
	if !ok {
		return nil, false
	}
	var out []string
	if v.IsArray() {
		for _, item := range v.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	if v.Type == gjson.String {
		text := strings.TrimSpace(v.String())
		if strings.HasPrefix(text, "[") {
			return FromResult(gjson.Parse(`{"v":` + text + `}`)).Strings("v")
		}
		for _, part := range strings.Split(text, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// ErrNotList is returned when a response body is neither an array nor {"list": [...]}.
var ErrNotList = errors.New("response is neither an array nor a list envelope")

// List splits a response body into records. Both a bare array and an object with a
// "list" array are accepted.
func List(body []byte) ([]Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrNotList
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		root = root.Get("list")
		if !root.IsArray() {
			return nil, ErrNotList
		}
	}
	items := root.Array()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if item.IsObject() {
			records = append(records, FromResult(item))
		}
	}
	return records, nil
}

// Object unwraps a single-object response. Some endpoints answer with the object
// itself, others wrap it in {"data": {...}}.
func Object(body []byte) (Record, error) {
	if !gjson.ValidBytes(body) {
		return Record{}, errors.New("response is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if data := root.Get("data"); data.IsObject() && !root.Get("id").Exists() {
		return FromResult(data), nil
	}
	if !root.IsObject() {
		return Record{}, errors.New("response is not a JSON object")
	}
	return FromResult(root), nil
}
