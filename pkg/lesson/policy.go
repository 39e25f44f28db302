package lesson

// Policy decides whether an additive write may replace a current value.
type Policy int

const (
	// FillIfMissing writes only when the current value is absent or empty.
	FillIfMissing Policy = iota
	// Overwrite always writes. Used by authoring passes.
	Overwrite
)

func (p Policy) String() string {
	if p == Overwrite {
		return "overwrite"
	}
	return "fill-if-missing"
}

// apply is the single write path for additive fields.
func (d *Document) apply(path string, raw []byte, p Policy) Status {
	cur := d.Get(path)
	if p == FillIfMissing && truthy(cur) {
		return StatusExists
	}
	if cur.Exists() && sameJSON([]byte(cur.Raw), raw) {
		return StatusUnchanged
	}
	d.setRaw(path, raw)
	if truthy(cur) {
		return StatusReplaced
	}
	return StatusAdded
}

func wrote(s Status) bool {
	return s == StatusAdded || s == StatusReplaced
}
