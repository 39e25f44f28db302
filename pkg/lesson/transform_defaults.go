package lesson

import (
	"github.com/fulmenhq/lessonkit/pkg/catalog"
	"github.com/fulmenhq/lessonkit/pkg/format"
	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/tidwall/gjson"
)

const (
	connectionPath = "summary.connection_to_next"

	defaultSubjectTitle = "Security Concepts"
	fallbackConnection  = "Continue to the next lesson to build on these concepts."
)

func addSubtitle(d *Document, tables Tables, variant Variant, id string) Change {
	const field = "subtitle"

	if d.Truthy("subtitle") {
		return unchanged(field, StatusExists)
	}

	text, ok := tables.Lookup(catalog.Subtitles, id)
	status := StatusAdded
	if !ok || text == "" {
		logDefaultMiss(catalog.Subtitles, id)
		if variant != VariantExtended {
			return unchanged(field, StatusNoDefault)
		}
		text = "Understanding " + subjectTitle(d)
		status = StatusSynthesized
	}

	if !wrote(d.apply("subtitle", mustString(text), FillIfMissing)) {
		return unchanged(field, StatusExists)
	}
	return changed(field, status)
}

func subjectTitle(d *Document) string {
	if t := d.Get("title"); t.Type == gjson.String && t.Str != "" {
		return t.Str
	}
	return defaultSubjectTitle
}

func addConnection(d *Document, tables Tables, variant Variant, id string) Change {
	const field = "connection"

	if !d.ensureObject("summary") {
		return unchanged(field, StatusUnknownType)
	}
	if d.Truthy(connectionPath) {
		return unchanged(field, StatusExists)
	}

	text, ok := tables.Lookup(variant.connectionsTable(), id)
	status := StatusAdded
	if !ok || text == "" {
		logDefaultMiss(variant.connectionsTable(), id)
		if variant != VariantExtended {
			return unchanged(field, StatusNoDefault)
		}
		text = fallbackConnection
		status = StatusSynthesized
	}

	if !wrote(d.apply(connectionPath, mustString(text), FillIfMissing)) {
		return unchanged(field, StatusExists)
	}
	return changed(field, status)
}

func mustString(s string) []byte {
	raw, err := format.MarshalNoEscape(s)
	if err != nil {
		// strings always encode
		panic(err)
	}
	return raw
}

func logDefaultMiss(table, id string) {
	logger.Debug("No table entry, using fallback", logger.String("table", table), logger.String("lesson_id", id))
}
