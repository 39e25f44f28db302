package lesson

import (
	"fmt"

	"github.com/fulmenhq/lessonkit/pkg/catalog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var sectionAdditionFields = []string{"glossary_terms", "real_world_example", "exam_tips"}

// enhance overwrites authored content for lessons listed in the enhancements table.
func enhance(d *Document, tables Tables, id string) []Change {
	raw, ok := tables.Bundle(catalog.Enhancements, id)
	if !ok {
		return []Change{unchanged("enhance", StatusNoDefault)}
	}
	enh := gjson.ParseBytes(raw)

	var changes []Change
	overwrite := func(field, parent, path string, v gjson.Result) {
		if !v.Exists() {
			return
		}
		if parent != "" && !d.ensureObject(parent) {
			changes = append(changes, unchanged(field, StatusUnknownType))
			return
		}
		s := d.apply(path, pretty.Ugly([]byte(v.Raw)), Overwrite)
		changes = append(changes, Change{Field: field, Status: s, Changed: wrote(s)})
	}

	overwrite("learning_goals", "introduction", "introduction.learning_goals", enh.Get("learning_goals"))
	overwrite("why_it_matters", "introduction", whyPath, enh.Get("why_it_matters"))
	overwrite("hands_on_activity", "", "hands_on_activity", enh.Get("hands_on_activity"))
	overwrite("what_would_you_do", "", "what_would_you_do", enh.Get("what_would_you_do"))
	if additions := enh.Get("section_additions"); additions.IsObject() {
		changes = append(changes, applySectionAdditions(d, additions))
	}
	overwrite("connection_to_next", "summary", connectionPath, enh.Get("summary_addition.connection_to_next"))

	return changes
}

// applySectionAdditions writes per-section fields to every section whose section_id matches.
func applySectionAdditions(d *Document, additions gjson.Result) Change {
	const field = "section_additions"

	sections := d.Get("sections")
	if !sections.IsArray() {
		return unchanged(field, sectionsStatus(0))
	}

	n := 0
	items := sections.Array()
	additions.ForEach(func(sectionID, add gjson.Result) bool {
		for i, sec := range items {
			if !sec.IsObject() || sec.Get("section_id").String() != sectionID.String() {
				continue
			}
			touched := false
			for _, f := range sectionAdditionFields {
				v := add.Get(f)
				if !v.Exists() {
					continue
				}
				if wrote(d.apply(fmt.Sprintf("sections.%d.%s", i, f), pretty.Ugly([]byte(v.Raw)), Overwrite)) {
					touched = true
				}
			}
			if touched {
				n++
			}
		}
		return true
	})

	if n == 0 {
		return unchanged(field, sectionsStatus(0))
	}
	return changed(field, sectionsStatus(n))
}

// fillFromBundle sets field from a bundle table when the lesson lacks it.
func fillFromBundle(d *Document, tables Tables, table, field, id string) Change {
	raw, ok := tables.Bundle(table, id)
	if !ok {
		if d.Truthy(field) {
			return unchanged(field, StatusExists)
		}
		return unchanged(field, StatusNoDefault)
	}
	s := d.apply(field, pretty.Ugly(raw), FillIfMissing)
	return Change{Field: field, Status: s, Changed: wrote(s)}
}
