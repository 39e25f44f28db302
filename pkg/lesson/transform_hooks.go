package lesson

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// normalizeMemoryHooks renames singular hook keys in every section. The extended
// variant also flattens common_mistakes to a list of strings.
func normalizeMemoryHooks(d *Document, variant Variant) Change {
	const field = "memory_hooks"

	sections := d.Get("sections")
	if !sections.IsArray() {
		return unchanged(field, sectionsStatus(0))
	}

	n := 0
	for i, sec := range sections.Array() {
		if !sec.IsObject() {
			continue
		}
		base := fmt.Sprintf("sections.%d.memory_hooks", i)
		hooks := DecodeMemoryHooks(sec.Get("memory_hooks"))

		touched := false
		if hooks.Shape == ShapeLegacy {
			touched = renameHooks(d, base, hooks.Obj)
		}
		if variant == VariantExtended && (hooks.Shape == ShapeLegacy || hooks.Shape == ShapeCanonical) {
			if flattenCommonMistakes(d, base+".common_mistakes", hooks.Obj.Get("common_mistakes")) {
				touched = true
			}
		}
		if touched {
			n++
		}
	}

	if n == 0 {
		return unchanged(field, sectionsStatus(0))
	}
	return changed(field, sectionsStatus(n))
}

func renameHooks(d *Document, base string, obj gjson.Result) bool {
	touched := false
	for _, hr := range hookRenames {
		v := obj.Get(hr.singular)
		if !v.Exists() || obj.Get(hr.plural).Exists() {
			continue
		}
		raw := []byte(v.Raw)
		if v.Type == gjson.String {
			raw = wrapList(raw)
		}
		// delete then set so the plural key lands at the end, as a fresh key would
		d.delete(base + "." + hr.singular)
		d.setRaw(base+"."+hr.plural, raw)
		touched = true
	}
	return touched
}

// flattenCommonMistakes turns a string into a one-element list and a list of
// {mistake: ...} objects into the list of mistake strings. Anything else is kept.
func flattenCommonMistakes(d *Document, path string, cm gjson.Result) bool {
	switch {
	case cm.Type == gjson.String:
		d.setRaw(path, wrapList([]byte(cm.Raw)))
		return true
	case cm.IsArray():
		items := cm.Array()
		if len(items) == 0 {
			return false
		}
		raws := make([][]byte, 0, len(items))
		for _, it := range items {
			m := it.Get("mistake")
			if !it.IsObject() || m.Type != gjson.String {
				return false
			}
			raws = append(raws, []byte(m.Raw))
		}
		d.setRaw(path, wrapList(raws...))
		return true
	default:
		return false
	}
}

func wrapList(raws ...[]byte) []byte {
	return append(append([]byte{'['}, bytes.Join(raws, []byte{','})...), ']')
}
