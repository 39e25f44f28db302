package lesson

import (
	"bytes"
)

const whyPath = "introduction.why_it_matters"

// normalizeWhyItMatters moves a legacy string into career_impact, or re-derives
// the canonical three-key object from an object with other keys.
func normalizeWhyItMatters(d *Document) Change {
	const field = "why_it_matters"

	w := DecodeWhyItMatters(d.Get(whyPath))
	switch w.Shape {
	case ShapeMissing:
		return unchanged(field, StatusMissing)
	case ShapeLegacy:
		d.setRaw(whyPath, whyObject([]byte(w.Text.Raw), []byte(`""`), []byte(`""`)))
		return changed(field, StatusConverted)
	case ShapeCanonical:
		if w.HasExactKeys() {
			return unchanged(field, StatusAlreadyObject)
		}
		career := w.Obj.Get("career_impact")
		if !career.Exists() {
			career = w.Obj.Get("real_world_connection")
		}
		d.setRaw(whyPath, whyObject(
			rawOrEmpty(career.Raw),
			rawOrEmpty(w.Obj.Get("business_connection").Raw),
			rawOrEmpty(w.Obj.Get("exam_relevance").Raw),
		))
		return changed(field, StatusNormalizedKeys)
	default:
		return unchanged(field, StatusUnknownType)
	}
}

// whyObject assembles the canonical object from raw JSON values so the
// original text is carried over byte for byte.
func whyObject(career, business, exam []byte) []byte {
	var b bytes.Buffer
	b.WriteString(`{"career_impact":`)
	b.Write(career)
	b.WriteString(`,"business_connection":`)
	b.Write(business)
	b.WriteString(`,"exam_relevance":`)
	b.Write(exam)
	b.WriteByte('}')
	return b.Bytes()
}

func rawOrEmpty(raw string) []byte {
	if raw == "" {
		return []byte(`""`)
	}
	return []byte(raw)
}
