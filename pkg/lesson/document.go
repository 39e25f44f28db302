// Package lesson repairs lesson JSON documents in place. Documents are edited as
// raw JSON so unknown fields and key order survive every transformation.
package lesson

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fulmenhq/lessonkit/pkg/format"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrMalformed is returned when input is not a JSON object.
var ErrMalformed = errors.New("malformed lesson")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is one lesson held as raw JSON. Writes are sticky on error: once a
// write fails, later writes are skipped and Err reports the first failure.
type Document struct {
	raw []byte
	err error
}

// Parse validates data as a JSON object and wraps it.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformed)
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Document{raw: raw}, nil
}

// ID returns lesson_id, or "" when it is absent or not a string.
func (d *Document) ID() string {
	r := d.Get("lesson_id")
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// Get reads a gjson path.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Bytes returns the current JSON without reformatting.
func (d *Document) Bytes() []byte { return d.raw }

// Format renders the document for writing.
func (d *Document) Format(opts format.JSONOptions) ([]byte, error) {
	return format.PrettifyJSON(d.raw, opts)
}

// Err reports the first failed write.
func (d *Document) Err() error { return d.err }

func (d *Document) setRaw(path string, raw []byte) {
	if d.err != nil {
		return
	}
	out, err := sjson.SetRawBytes(d.raw, path, raw)
	if err != nil {
		d.err = fmt.Errorf("failed to set %s: %w", path, err)
		return
	}
	d.raw = out
}

func (d *Document) set(path string, v interface{}) {
	if d.err != nil {
		return
	}
	raw, err := format.MarshalNoEscape(v)
	if err != nil {
		d.err = fmt.Errorf("failed to encode %s: %w", path, err)
		return
	}
	d.setRaw(path, raw)
}

func (d *Document) delete(path string) {
	if d.err != nil {
		return
	}
	out, err := sjson.DeleteBytes(d.raw, path)
	if err != nil {
		d.err = fmt.Errorf("failed to delete %s: %w", path, err)
		return
	}
	d.raw = out
}

// ensureObject creates an empty object at path when it is absent or null.
// It reports false when path holds some other non-object value.
func (d *Document) ensureObject(path string) bool {
	r := d.Get(path)
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		d.setRaw(path, []byte("{}"))
		return true
	case r.IsObject():
		return true
	default:
		return false
	}
}

// truthy follows the original scripts' notion of presence:
// null, false, 0, "", [] and {} are all absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		nonEmpty := false
		r.ForEach(func(_, _ gjson.Result) bool {
			nonEmpty = true
			return false
		})
		return nonEmpty
	default:
		return false
	}
}

// Truthy reports whether the value at path counts as present.
func (d *Document) Truthy(path string) bool {
	return truthy(d.Get(path))
}

func sameJSON(a, b []byte) bool {
	return bytes.Equal(pretty.Ugly(a), pretty.Ugly(b))
}
