package lesson

import "fmt"

// Status describes what a transformer found or did.
type Status string

const (
	StatusMissing        Status = "missing"
	StatusConverted      Status = "converted"
	StatusNormalizedKeys Status = "normalized_keys"
	StatusAlreadyObject  Status = "already_object"
	StatusUnknownType    Status = "unknown_type"
	StatusEmpty          Status = "empty"
	StatusExists         Status = "exists"
	StatusAdded          Status = "added"
	StatusReplaced       Status = "replaced"
	StatusUnchanged      Status = "unchanged"
	StatusNoDefault      Status = "no_default"
	StatusSynthesized    Status = "synthesized"
)

func sectionsStatus(n int) Status {
	return Status(fmt.Sprintf("%d_sections", n))
}

// Change is one transformer outcome. Only outcomes with Changed set altered the document.
type Change struct {
	Field   string
	Status  Status
	Changed bool
}

// String renders the change tag, e.g. "why_it_matters:converted".
func (c Change) String() string {
	return c.Field + ":" + string(c.Status)
}

func unchanged(field string, s Status) Change {
	return Change{Field: field, Status: s}
}

func changed(field string, s Status) Change {
	return Change{Field: field, Status: s, Changed: true}
}
