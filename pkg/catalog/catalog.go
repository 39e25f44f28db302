// Package catalog loads the static lookup tables and per-lesson bundles that the
// normalizer reads. Tables come from the embedded assets or from a directory with
// the same layout.
package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fulmenhq/lessonkit/internal/assets"
	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Table names understood by Lookup and Bundle.
const (
	Titles              = "titles"
	Subtitles           = "subtitles"
	Connections         = "connections"
	ConnectionsExtended = "connections-extended"
	Enhancements        = "enhancements"
	Activities          = "activities"
	Scenarios           = "scenarios"
)

// Catalog is an immutable, in-memory copy of every table.
type Catalog struct {
	source  string
	lookups map[string]map[string]string
	bundles map[string]map[string][]byte
}

// Entry is one row of a table listing.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TableInfo summarizes one loaded table.
type TableInfo struct {
	Name        string      `json:"name"`
	Kind        assets.Kind `json:"kind"`
	Entries     int         `json:"entries"`
	Description string      `json:"description"`
}

// LoadEmbedded loads the tables compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	c, err := Load(assets.GetTablesFS())
	if err != nil {
		return nil, err
	}
	c.source = "embedded"
	return c, nil
}

// LoadDir loads tables from dir, which must mirror the embedded layout.
func LoadDir(dir string) (*Catalog, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("tables directory %s: %w", dir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("tables directory %s is not a directory", dir)
	}
	c, err := Load(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	c.source = dir
	return c, nil
}

// Open loads from dir when set, otherwise the embedded tables.
func Open(dir string) (*Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return LoadEmbedded()
	}
	return LoadDir(dir)
}

// Load reads every table listed in the asset registry from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		source:  "fs",
		lookups: make(map[string]map[string]string),
		bundles: make(map[string]map[string][]byte),
	}

	for _, info := range assets.Registry {
		switch info.Kind {
		case assets.KindLookup:
			m, err := loadLookup(fsys, info)
			if err != nil {
				return nil, err
			}
			c.lookups[info.Name] = m
		case assets.KindBundle:
			m, err := loadBundle(fsys, info)
			if err != nil {
				return nil, err
			}
			c.bundles[info.Name] = m
		}
		logger.Trace("Loaded table", logger.String("table", info.Name), logger.Int("entries", c.count(info.Name)))
	}

	return c, nil
}

func loadLookup(fsys fs.FS, info assets.AssetInfo) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, info.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", info.Name, err)
	}

	var doc map[string]map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse table %s (%s): %w", info.Name, info.Path, err)
	}
	m, ok := doc[info.Key]
	if !ok {
		return nil, fmt.Errorf("table %s (%s) has no top-level %q key", info.Name, info.Path, info.Key)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func loadBundle(fsys fs.FS, info assets.AssetInfo) (map[string][]byte, error) {
	entries, err := fs.ReadDir(fsys, info.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle %s: %w", info.Name, err)
	}

	m := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p := path.Join(info.Path, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
			return nil, fmt.Errorf("bundle file %s is not a JSON object", p)
		}
		m[strings.TrimSuffix(e.Name(), ".json")] = data
	}
	return m, nil
}

// Source describes where the tables were loaded from.
func (c *Catalog) Source() string { return c.source }

// Lookup returns the value for id in a lookup table.
func (c *Catalog) Lookup(table, id string) (string, bool) {
	v, ok := c.lookups[table][id]
	return v, ok
}

// Bundle returns the raw JSON object stored for id in a bundle table.
// The returned slice must not be modified.
func (c *Catalog) Bundle(table, id string) ([]byte, bool) {
	v, ok := c.bundles[table][id]
	return v, ok
}

// Title returns the lesson title for id, or id itself when unmapped.
func (c *Catalog) Title(id string) string {
	if t, ok := c.Lookup(Titles, id); ok {
		return t
	}
	return id
}

func (c *Catalog) count(name string) int {
	if m, ok := c.lookups[name]; ok {
		return len(m)
	}
	return len(c.bundles[name])
}

// Tables summarizes every loaded table in registry order.
func (c *Catalog) Tables() []TableInfo {
	out := make([]TableInfo, 0, len(assets.Registry))
	for _, info := range assets.Registry {
		out = append(out, TableInfo{
			Name:        info.Name,
			Kind:        info.Kind,
			Entries:     c.count(info.Name),
			Description: info.Description,
		})
	}
	return out
}

// Entries lists a table sorted by key. Bundle rows show the bundle's top-level keys.
func (c *Catalog) Entries(name string) ([]Entry, error) {
	var out []Entry
	if m, ok := c.lookups[name]; ok {
		for k, v := range m {
			out = append(out, Entry{Key: k, Value: v})
		}
	} else if m, ok := c.bundles[name]; ok {
		for k, raw := range m {
			var keys []string
			gjson.ParseBytes(raw).ForEach(func(key, _ gjson.Result) bool {
				keys = append(keys, key.String())
				return true
			})
			out = append(out, Entry{Key: k, Value: strings.Join(keys, ", ")})
		}
	} else {
		return nil, fmt.Errorf("unknown table %q", name)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
