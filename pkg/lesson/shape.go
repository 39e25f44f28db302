package lesson

import "github.com/tidwall/gjson"

// Shape classifies a field that has a legacy and a canonical representation.
type Shape int

const (
	ShapeMissing Shape = iota
	ShapeLegacy
	ShapeCanonical
	ShapeUnknown
)

func (s Shape) String() string {
	switch s {
	case ShapeMissing:
		return "missing"
	case ShapeLegacy:
		return "legacy"
	case ShapeCanonical:
		return "canonical"
	default:
		return "unknown"
	}
}

// WhyItMatters is introduction.why_it_matters: a string (legacy) or an object (canonical).
type WhyItMatters struct {
	Shape Shape
	Text  gjson.Result // legacy string value
	Obj   gjson.Result // canonical object value
}

var whyKeys = []string{"career_impact", "business_connection", "exam_relevance"}

// DecodeWhyItMatters classifies r. Absent and null are both missing.
func DecodeWhyItMatters(r gjson.Result) WhyItMatters {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return WhyItMatters{Shape: ShapeMissing}
	case r.Type == gjson.String:
		return WhyItMatters{Shape: ShapeLegacy, Text: r}
	case r.IsObject():
		return WhyItMatters{Shape: ShapeCanonical, Obj: r}
	default:
		return WhyItMatters{Shape: ShapeUnknown}
	}
}

// HasExactKeys reports whether the object carries exactly the three canonical keys.
func (w WhyItMatters) HasExactKeys() bool {
	n := 0
	exact := true
	w.Obj.ForEach(func(k, _ gjson.Result) bool {
		n++
		if !containsString(whyKeys, k.String()) {
			exact = false
			return false
		}
		return true
	})
	return exact && n == len(whyKeys)
}

// LinkList is skill_tree.prerequisites or skill_tree.unlocks: lesson ids (legacy)
// or link objects (canonical). Empty lists are missing.
type LinkList struct {
	Shape Shape
	IDs   []string // legacy ids in order
	Items []gjson.Result
}

// DecodeLinkList classifies r. Lists mixing strings and objects are unknown.
func DecodeLinkList(r gjson.Result) LinkList {
	if !truthy(r) {
		return LinkList{Shape: ShapeMissing}
	}
	if !r.IsArray() {
		return LinkList{Shape: ShapeUnknown}
	}

	items := r.Array()
	strs, objs := 0, 0
	ids := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Type == gjson.String:
			strs++
			ids = append(ids, it.Str)
		case it.IsObject():
			objs++
		}
	}

	switch len(items) {
	case strs:
		return LinkList{Shape: ShapeLegacy, IDs: ids, Items: items}
	case objs:
		return LinkList{Shape: ShapeCanonical, Items: items}
	default:
		return LinkList{Shape: ShapeUnknown, Items: items}
	}
}

// MemoryHooks is one section's memory_hooks object.
type MemoryHooks struct {
	Shape Shape
	Obj   gjson.Result
}

type hookRename struct {
	singular string
	plural   string
}

var hookRenames = []hookRename{
	{singular: "mnemonic", plural: "mnemonics"},
	{singular: "analogy", plural: "analogies"},
}

// DecodeMemoryHooks classifies r. An object is legacy while any singular key
// lacks its plural counterpart.
func DecodeMemoryHooks(r gjson.Result) MemoryHooks {
	if !truthy(r) {
		return MemoryHooks{Shape: ShapeMissing}
	}
	if !r.IsObject() {
		return MemoryHooks{Shape: ShapeUnknown}
	}
	for _, hr := range hookRenames {
		if r.Get(hr.singular).Exists() && !r.Get(hr.plural).Exists() {
			return MemoryHooks{Shape: ShapeLegacy, Obj: r}
		}
	}
	return MemoryHooks{Shape: ShapeCanonical, Obj: r}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
