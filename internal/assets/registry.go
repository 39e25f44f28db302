package assets

// Registry lists embedded tables available at runtime.
// Update this when adding/removing curated tables.

// Kind distinguishes single-file lookup tables from per-lesson bundle directories.
type Kind string

const (
	KindLookup Kind = "lookup" // one YAML map keyed by lesson id
	KindBundle Kind = "bundle" // one JSON file per lesson id
)

type AssetInfo struct {
	Name        string // e.g., titles, activities
	Kind        Kind
	Path        string // file (lookup) or directory (bundle), relative to the tables root
	Key         string // top-level YAML key holding the map; lookups only
	Description string
}

var Registry = []AssetInfo{
	{
		Name:        "titles",
		Kind:        KindLookup,
		Path:        "lookup/titles.yaml",
		Key:         "titles",
		Description: "Lesson titles used when converting prerequisite and unlock ids",
	},
	{
		Name:        "subtitles",
		Kind:        KindLookup,
		Path:        "lookup/subtitles.yaml",
		Key:         "subtitles",
		Description: "Default subtitles",
	},
	{
		Name:        "connections",
		Kind:        KindLookup,
		Path:        "lookup/connections.yaml",
		Key:         "connections",
		Description: "Default summary.connection_to_next text (preserve variant)",
	},
	{
		Name:        "connections-extended",
		Kind:        KindLookup,
		Path:        "lookup/connections-extended.yaml",
		Key:         "connections",
		Description: "Default summary.connection_to_next text (extended variant)",
	},
	{
		Name:        "enhancements",
		Kind:        KindBundle,
		Path:        "enhancements",
		Description: "Authored content overwritten by the enhance stage",
	},
	{
		Name:        "activities",
		Kind:        KindBundle,
		Path:        "activities",
		Description: "hands_on_activity objects filled when missing",
	},
	{
		Name:        "scenarios",
		Kind:        KindBundle,
		Path:        "scenarios",
		Description: "what_would_you_do objects filled when missing",
	},
}

// Lookup returns the registry entry with the given name.
func Lookup(name string) (AssetInfo, bool) {
	for _, info := range Registry {
		if info.Name == name {
			return info, true
		}
	}
	return AssetInfo{}, false
}
