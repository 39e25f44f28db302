package work

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/fulmenhq/lessonkit/pkg/logger"
)

// ErrInputDir is returned when the input directory cannot be listed.
var ErrInputDir = errors.New("input directory unavailable")

// DefaultIncludePatterns selects lesson files by base name.
var DefaultIncludePatterns = []string{"*LESSON*.json"}

// WorkItem represents a single lesson file to be processed
type WorkItem struct {
	ID       string `json:"id"` // base file name, unique within the input directory
	Path     string `json:"path"`
	LessonID string `json:"lesson_id,omitempty"` // id embedded in the file name, if any
	Domain   string `json:"domain,omitempty"`
	Size     int64  `json:"size"`
}

// Plan describes how the manifest was built
type Plan struct {
	Command       string    `json:"command"`
	Timestamp     time.Time `json:"timestamp"`
	InputDir      string    `json:"input_dir"`
	TotalFiles    int       `json:"total_files"`
	FilteredFiles int       `json:"filtered_files"`
	Domains       []string  `json:"domains,omitempty"`
}

// WorkManifest represents the complete work plan
type WorkManifest struct {
	Plan      Plan       `json:"plan"`
	WorkItems []WorkItem `json:"work_items"`
}

// PlannerConfig configures the work planner
type PlannerConfig struct {
	Command         string
	InputDir        string
	IncludePatterns []string // doublestar globs matched against base names
	Domains         []string // domain digits; empty selects all
	Verbose         bool     // log skipped files
}

// Planner handles work planning and manifest generation
type Planner struct {
	config PlannerConfig
}

// NewPlanner creates a new work planner
func NewPlanner(config PlannerConfig) *Planner {
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = DefaultIncludePatterns
	}
	return &Planner{config: config}
}

// GenerateManifest lists the input directory (not recursively) and returns the
// selected lesson files sorted by name.
func (p *Planner) GenerateManifest() (*WorkManifest, error) {
	for _, pattern := range p.config.IncludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	entries, err := os.ReadDir(p.config.InputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputDir, p.config.InputDir, err)
	}

	manifest := &WorkManifest{
		Plan: Plan{
			Command:   p.config.Command,
			Timestamp: time.Now(),
			InputDir:  p.config.InputDir,
			Domains:   p.config.Domains,
		},
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		manifest.Plan.TotalFiles++
		name := e.Name()
		if !p.shouldIncludeFile(name) {
			if p.config.Verbose {
				logger.Debug("Skipping file", logger.String("file", name))
			}
			continue
		}

		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		manifest.WorkItems = append(manifest.WorkItems, WorkItem{
			ID:       name,
			Path:     filepath.Join(p.config.InputDir, name),
			LessonID: lesson.IDFromFilename(name),
			Domain:   lesson.Domain(name),
			Size:     size,
		})
	}

	sort.Slice(manifest.WorkItems, func(i, j int) bool {
		return manifest.WorkItems[i].ID < manifest.WorkItems[j].ID
	})
	manifest.Plan.FilteredFiles = len(manifest.WorkItems)

	logger.Debug("Generated manifest",
		logger.String("input", p.config.InputDir),
		logger.Int("total", manifest.Plan.TotalFiles),
		logger.Int("selected", manifest.Plan.FilteredFiles))

	return manifest, nil
}

// shouldIncludeFile applies the include globs and the domain filter to a base name.
func (p *Planner) shouldIncludeFile(name string) bool {
	matched := false
	for _, pattern := range p.config.IncludePatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	if len(p.config.Domains) == 0 {
		return true
	}
	domain := lesson.Domain(name)
	for _, d := range p.config.Domains {
		if d == domain {
			return true
		}
	}
	return false
}
