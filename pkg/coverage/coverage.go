// Package coverage audits a corpus of normalized lessons and reports which
// fields are present, which legacy shapes remain and how complete each domain is.
package coverage

import (
	"sort"

	"github.com/fulmenhq/lessonkit/pkg/lesson"
)

// Entry is one lesson to audit. ID should already carry the file name fallback.
type Entry struct {
	ID  string
	Doc *lesson.Document
}

// Check identifiers, in report order.
const (
	CheckLearningGoals    = "learning_goals"
	CheckWhyItMatters     = "why_it_matters"
	CheckPrerequisites    = "prerequisites"
	CheckUnlocks          = "unlocks"
	CheckSubtitle         = "subtitle"
	CheckConnectionToNext = "connection_to_next"
	CheckHandsOnActivity  = "hands_on_activity"
	CheckWhatWouldYouDo   = "what_would_you_do"
)

// Issue bucket identifiers, in report order.
const (
	IssueMissingLearningGoals    = "missing_learning_goals"
	IssueWhyItMattersStillString = "why_it_matters_still_string"
	IssueMissingWhyItMatters     = "missing_why_it_matters"
	IssuePrereqsStillString      = "prereqs_still_string"
	IssueUnlocksStillString      = "unlocks_still_string"
	IssueMissingSubtitle         = "missing_subtitle"
	IssueMissingConnectionToNext = "missing_connection_to_next"
	IssueMissingHandsOnActivity  = "missing_hands_on_activity"
	IssueMissingWhatWouldYouDo   = "missing_what_would_you_do"
)

var checkLabels = []struct{ key, label string }{
	{CheckLearningGoals, "learning_goals"},
	{CheckWhyItMatters, "why_it_matters (object)"},
	{CheckPrerequisites, "skill_tree prereqs (object)"},
	{CheckUnlocks, "skill_tree unlocks (object)"},
	{CheckSubtitle, "subtitle"},
	{CheckConnectionToNext, "connection_to_next"},
	{CheckHandsOnActivity, "hands_on_activity"},
	{CheckWhatWouldYouDo, "what_would_you_do"},
}

var issueOrder = []string{
	IssueMissingLearningGoals,
	IssueWhyItMattersStillString,
	IssueMissingWhyItMatters,
	IssuePrereqsStillString,
	IssueUnlocksStillString,
	IssueMissingSubtitle,
	IssueMissingConnectionToNext,
	IssueMissingHandsOnActivity,
	IssueMissingWhatWouldYouDo,
}

// Check is the coverage of one field across the corpus.
type Check struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Count   int      `json:"count"`
	Total   int      `json:"total"`
	Percent float64  `json:"percent"`
	Failing []string `json:"failing"`
}

// Issue is one bucket of lessons needing attention.
type Issue struct {
	Key string   `json:"key"`
	IDs []string `json:"ids"`
}

// Domain is the completeness of one domain.
type Domain struct {
	Domain   string   `json:"domain"`
	Total    int      `json:"total"`
	Complete int      `json:"complete"`
	Percent  float64  `json:"percent"`
	Missing  []string `json:"incomplete"`
}

// Report is the result of Validate.
type Report struct {
	Total   int      `json:"total"`
	Checks  []Check  `json:"checks"`
	Issues  []Issue  `json:"issues"`
	Domains []Domain `json:"domains"`
}

// Check returns the check with the given key.
func (r *Report) Check(key string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Key == key {
			return c, true
		}
	}
	return Check{}, false
}

// Issue returns the ids in the given bucket.
func (r *Report) Issue(key string) []string {
	for _, is := range r.Issues {
		if is.Key == key {
			return is.IDs
		}
	}
	return nil
}

// HasIssues reports whether any bucket is non-empty.
func (r *Report) HasIssues() bool {
	for _, is := range r.Issues {
		if len(is.IDs) > 0 {
			return true
		}
	}
	return false
}

// Validate audits entries without modifying them. Percentages use the corpus
// size as the denominator.
func Validate(entries []Entry) *Report {
	total := len(entries)
	passing := make(map[string]int)
	failing := make(map[string][]string)
	issues := make(map[string][]string)
	domains := make(map[string]*Domain)

	mark := func(check, id string, ok bool) {
		if ok {
			passing[check]++
		} else {
			failing[check] = append(failing[check], id)
		}
	}
	markLinks := func(check, id string, shape lesson.Shape) {
		if shape != lesson.ShapeMissing {
			mark(check, id, shape == lesson.ShapeCanonical)
		}
	}

	for _, e := range entries {
		id := e.ID
		doc := e.Doc

		goals := doc.Truthy("introduction.learning_goals")
		mark(CheckLearningGoals, id, goals)
		if !goals {
			issues[IssueMissingLearningGoals] = append(issues[IssueMissingLearningGoals], id)
		}

		wim := doc.Get("introduction.why_it_matters")
		wimObject := wim.IsObject()
		mark(CheckWhyItMatters, id, wimObject)
		switch {
		case wimObject:
		case doc.Truthy("introduction.why_it_matters"):
			issues[IssueWhyItMattersStillString] = append(issues[IssueWhyItMattersStillString], id)
		default:
			issues[IssueMissingWhyItMatters] = append(issues[IssueMissingWhyItMatters], id)
		}

		// empty link lists are fine for entry-level lessons: they neither
		// count nor fail
		prereqs := lesson.DecodeLinkList(doc.Get("skill_tree.prerequisites"))
		markLinks(CheckPrerequisites, id, prereqs.Shape)
		if prereqs.Shape == lesson.ShapeLegacy {
			issues[IssuePrereqsStillString] = append(issues[IssuePrereqsStillString], id)
		}
		unlocks := lesson.DecodeLinkList(doc.Get("skill_tree.unlocks"))
		markLinks(CheckUnlocks, id, unlocks.Shape)
		if unlocks.Shape == lesson.ShapeLegacy {
			issues[IssueUnlocksStillString] = append(issues[IssueUnlocksStillString], id)
		}

		subtitle := doc.Truthy("subtitle")
		mark(CheckSubtitle, id, subtitle)
		if !subtitle {
			issues[IssueMissingSubtitle] = append(issues[IssueMissingSubtitle], id)
		}

		connection := doc.Get("summary").IsObject() && doc.Truthy("summary.connection_to_next")
		mark(CheckConnectionToNext, id, connection)
		if !connection {
			issues[IssueMissingConnectionToNext] = append(issues[IssueMissingConnectionToNext], id)
		}

		activity := doc.Truthy("hands_on_activity")
		mark(CheckHandsOnActivity, id, activity)
		if !activity {
			issues[IssueMissingHandsOnActivity] = append(issues[IssueMissingHandsOnActivity], id)
		}

		scenario := doc.Truthy("what_would_you_do")
		mark(CheckWhatWouldYouDo, id, scenario)
		if !scenario {
			issues[IssueMissingWhatWouldYouDo] = append(issues[IssueMissingWhatWouldYouDo], id)
		}

		key := domainOf(id)
		d, ok := domains[key]
		if !ok {
			d = &Domain{Domain: key}
			domains[key] = d
		}
		d.Total++
		if goals && wimObject && subtitle && connection {
			d.Complete++
		} else {
			d.Missing = append(d.Missing, id)
		}
	}

	r := &Report{Total: total}
	for _, cl := range checkLabels {
		r.Checks = append(r.Checks, Check{
			Key:     cl.key,
			Label:   cl.label,
			Count:   passing[cl.key],
			Total:   total,
			Percent: percent(passing[cl.key], total),
			Failing: nonNil(failing[cl.key]),
		})
	}
	for _, key := range issueOrder {
		r.Issues = append(r.Issues, Issue{Key: key, IDs: nonNil(issues[key])})
	}

	keys := make([]string, 0, len(domains))
	for k := range domains {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d := domains[k]
		d.Percent = percent(d.Complete, d.Total)
		d.Missing = nonNil(d.Missing)
		r.Domains = append(r.Domains, *d)
	}

	return r
}

// domainOf returns the character after the leading D of an id, or "?" when the
// id is too short to carry one.
func domainOf(id string) string {
	if d := lesson.Domain(id); d != "" {
		return d
	}
	if len(id) >= 2 {
		return id[1:2]
	}
	return "?"
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
