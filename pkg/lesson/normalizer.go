package lesson

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/lessonkit/pkg/catalog"
	"github.com/fulmenhq/lessonkit/pkg/logger"
)

// Tables is the read-only lookup data the transformers need.
// *catalog.Catalog satisfies it.
type Tables interface {
	Lookup(table, id string) (string, bool)
	Bundle(table, id string) ([]byte, bool)
}

// Variant selects the default tables and fallbacks used by repair.
type Variant string

const (
	// VariantPreserve adds defaults only from the tables and never synthesizes text.
	VariantPreserve Variant = "preserve"
	// VariantExtended synthesizes subtitles and connections for unmapped ids and
	// flattens common_mistakes.
	VariantExtended Variant = "extended"
)

// ParseVariant validates a variant name. "" selects VariantPreserve.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantPreserve:
		return VariantPreserve, nil
	case VariantExtended:
		return VariantExtended, nil
	default:
		return "", fmt.Errorf("unknown variant %q (want preserve or extended)", s)
	}
}

func (v Variant) connectionsTable() string {
	if v == VariantExtended {
		return catalog.ConnectionsExtended
	}
	return catalog.Connections
}

// Stage is one pass of the pipeline.
type Stage string

const (
	StageEnhance        Stage = "enhance"
	StageRepair         Stage = "repair"
	StageFillActivities Stage = "fill-activities"
	StageFillScenarios  Stage = "fill-scenarios"
)

// stageOrder is the fixed execution order regardless of how stages are requested.
var stageOrder = []Stage{StageEnhance, StageRepair, StageFillActivities, StageFillScenarios}

// ParseStage validates a stage name. The short fill names "activities" and
// "scenarios" are accepted.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enhance":
		return StageEnhance, nil
	case "repair":
		return StageRepair, nil
	case "fill-activities", "activities":
		return StageFillActivities, nil
	case "fill-scenarios", "scenarios":
		return StageFillScenarios, nil
	default:
		return "", fmt.Errorf("unknown stage %q", s)
	}
}

// Options configures a Normalizer. No stages means repair only.
type Options struct {
	Variant Variant
	Stages  []Stage
}

// Result is the outcome of normalizing one lesson.
type Result struct {
	ID      string
	Changes []Change // outcomes that altered the document
	All     []Change // every outcome, including no-ops
}

// Changed reports whether any transformer altered the document.
func (r Result) Changed() bool { return len(r.Changes) > 0 }

// Tags renders the applied change tags.
func (r Result) Tags() []string {
	tags := make([]string, 0, len(r.Changes))
	for _, c := range r.Changes {
		tags = append(tags, c.String())
	}
	return tags
}

func (r *Result) record(cs ...Change) {
	for _, c := range cs {
		r.All = append(r.All, c)
		if c.Changed {
			r.Changes = append(r.Changes, c)
		}
	}
}

// Normalizer runs the enabled stages over lesson documents.
type Normalizer struct {
	tables  Tables
	variant Variant
	stages  map[Stage]bool
}

// NewNormalizer validates opts and returns a Normalizer.
func NewNormalizer(tables Tables, opts Options) (*Normalizer, error) {
	if tables == nil {
		return nil, fmt.Errorf("normalizer requires lookup tables")
	}
	variant, err := ParseVariant(string(opts.Variant))
	if err != nil {
		return nil, err
	}

	stages := make(map[Stage]bool)
	for _, s := range opts.Stages {
		parsed, err := ParseStage(string(s))
		if err != nil {
			return nil, err
		}
		stages[parsed] = true
	}
	if len(stages) == 0 {
		stages[StageRepair] = true
	}

	return &Normalizer{tables: tables, variant: variant, stages: stages}, nil
}

// Stages returns the enabled stages in execution order.
func (n *Normalizer) Stages() []Stage {
	var out []Stage
	for _, s := range stageOrder {
		if n.stages[s] {
			out = append(out, s)
		}
	}
	return out
}

// Variant returns the active variant.
func (n *Normalizer) Variant() Variant { return n.variant }

// Normalize mutates doc in place. name is the source file name; the fill stages
// fall back to the id embedded in it when the lesson has no lesson_id.
func (n *Normalizer) Normalize(doc *Document, name string) (Result, error) {
	id := doc.ID()
	res := Result{ID: id}

	fillID := id
	if fillID == "" {
		fillID = IDFromFilename(name)
	}

	for _, stage := range n.Stages() {
		switch stage {
		case StageEnhance:
			res.record(enhance(doc, n.tables, id)...)
		case StageRepair:
			res.record(n.repair(doc, id)...)
		case StageFillActivities:
			res.record(fillFromBundle(doc, n.tables, catalog.Activities, "hands_on_activity", fillID))
		case StageFillScenarios:
			res.record(fillFromBundle(doc, n.tables, catalog.Scenarios, "what_would_you_do", fillID))
		}
	}

	if logger.Enabled(logger.DebugLevel) {
		all := make([]string, 0, len(res.All))
		for _, c := range res.All {
			all = append(all, c.String())
		}
		logger.Debug("Transformer outcomes", logger.String("lesson_id", id), logger.String("file", name), logger.Strings("outcomes", all))
	}

	if err := doc.Err(); err != nil {
		return res, fmt.Errorf("normalize %s: %w", name, err)
	}
	return res, nil
}

// repair runs the structural transformers in their fixed order.
func (n *Normalizer) repair(doc *Document, id string) []Change {
	return []Change{
		normalizeWhyItMatters(doc),
		normalizePrerequisites(doc, n.tables),
		normalizeUnlocks(doc, n.tables),
		addSubtitle(doc, n.tables, n.variant, id),
		addConnection(doc, n.tables, n.variant, id),
		normalizeMemoryHooks(doc, n.variant),
	}
}
