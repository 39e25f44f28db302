package coverage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completeLesson = `{
  "lesson_id": "D1-LESSON-001",
  "subtitle": "Start here",
  "introduction": {
    "learning_goals": ["Explain controls"],
    "why_it_matters": {"career_impact": "c", "business_connection": "b", "exam_relevance": "e"}
  },
  "skill_tree": {
    "prerequisites": [{"lesson_id": "D0", "title": "t", "why_needed": "w"}],
    "unlocks": [{"lesson_id": "D1-LESSON-002", "title": "t", "connection": "c"}]
  },
  "hands_on_activity": {"title": "Lab"},
  "what_would_you_do": {"scenario": "s"},
  "summary": {"connection_to_next": "Next"}
}`

func entry(t *testing.T, id, raw string) Entry {
	t.Helper()
	doc, err := lesson.Parse([]byte(raw))
	require.NoError(t, err)
	return Entry{ID: id, Doc: doc}
}

func corpus(t *testing.T) []Entry {
	return []Entry{
		entry(t, "D1-LESSON-001", completeLesson),
		entry(t, "D1-LESSON-002", `{
			"lesson_id": "D1-LESSON-002",
			"introduction": {"learning_goals": [], "why_it_matters": "Legacy text"},
			"skill_tree": {"prerequisites": ["D1-LESSON-001"], "unlocks": ["D1-LESSON-003"]},
			"summary": "not an object"
		}`),
		entry(t, "D2-LESSON-001", `{"lesson_id": "D2-LESSON-001", "skill_tree": {"prerequisites": []}}`),
		entry(t, "D2-LESSON-002_Threats.json", `{"subtitle": "", "introduction": {"why_it_matters": null}}`),
	}
}

func TestValidateCounts(t *testing.T) {
	r := Validate(corpus(t))
	require.Equal(t, 4, r.Total)
	require.Len(t, r.Checks, 8)

	want := map[string]int{
		CheckLearningGoals:    1,
		CheckWhyItMatters:     1,
		CheckPrerequisites:    1,
		CheckUnlocks:          1,
		CheckSubtitle:         1,
		CheckConnectionToNext: 1,
		CheckHandsOnActivity:  1,
		CheckWhatWouldYouDo:   1,
	}
	for key, n := range want {
		c, ok := r.Check(key)
		require.True(t, ok, key)
		assert.Equal(t, n, c.Count, key)
		assert.Equal(t, 4, c.Total, key)
		assert.Equal(t, 25.0, c.Percent, key)
		if key == CheckPrerequisites || key == CheckUnlocks {
			assert.Equal(t, []string{"D1-LESSON-002"}, c.Failing, key)
			continue
		}
		assert.Len(t, c.Failing, 3, key)
	}

	c, _ := r.Check(CheckWhyItMatters)
	assert.Equal(t, []string{"D1-LESSON-002", "D2-LESSON-001", "D2-LESSON-002_Threats.json"}, c.Failing)
	assert.Equal(t, "why_it_matters (object)", c.Label)
}

func TestValidateIssueBuckets(t *testing.T) {
	r := Validate(corpus(t))

	keys := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		keys = append(keys, is.Key)
	}
	assert.Equal(t, issueOrder, keys, "fixed bucket order")

	assert.Equal(t, []string{"D1-LESSON-002", "D2-LESSON-001", "D2-LESSON-002_Threats.json"}, r.Issue(IssueMissingLearningGoals))
	assert.Equal(t, []string{"D1-LESSON-002"}, r.Issue(IssueWhyItMattersStillString))
	assert.Equal(t, []string{"D2-LESSON-001", "D2-LESSON-002_Threats.json"}, r.Issue(IssueMissingWhyItMatters))
	assert.Equal(t, []string{"D1-LESSON-002"}, r.Issue(IssuePrereqsStillString), "empty prerequisites are acceptable")
	assert.Equal(t, []string{"D1-LESSON-002"}, r.Issue(IssueUnlocksStillString))
	assert.Equal(t, []string{"D1-LESSON-002", "D2-LESSON-001", "D2-LESSON-002_Threats.json"}, r.Issue(IssueMissingConnectionToNext))
	assert.True(t, r.HasIssues())
}

func TestValidateEmptyLinksAreNotFailing(t *testing.T) {
	r := Validate([]Entry{
		entry(t, "D1-LESSON-001", `{"lesson_id":"D1-LESSON-001","skill_tree":{"prerequisites":[],"unlocks":[]}}`),
		entry(t, "D1-LESSON-002", `{"lesson_id":"D1-LESSON-002"}`),
		entry(t, "D1-LESSON-003", `{"lesson_id":"D1-LESSON-003","skill_tree":{"prerequisites":[{"lesson_id":"D1-LESSON-001","title":"t","why_needed":"w"}],"unlocks":[7]}}`),
	})

	prereqs, _ := r.Check(CheckPrerequisites)
	assert.Equal(t, 1, prereqs.Count)
	assert.Empty(t, prereqs.Failing)

	unlocks, _ := r.Check(CheckUnlocks)
	assert.Equal(t, 0, unlocks.Count)
	assert.Equal(t, []string{"D1-LESSON-003"}, unlocks.Failing, "unknown shapes still fail")
	assert.Empty(t, r.Issue(IssuePrereqsStillString))
}

func TestValidateStillStringPlusObjectsCoverCorpus(t *testing.T) {
	var entries []Entry
	for i := 1; i <= 41; i++ {
		id := fmt.Sprintf("D%d-LESSON-%03d", i%5+1, i)
		wim := `"legacy"`
		if i <= 35 {
			wim = `{"career_impact":"c","business_connection":"b","exam_relevance":"e"}`
		}
		entries = append(entries, entry(t, id, `{"lesson_id":"`+id+`","introduction":{"why_it_matters":`+wim+`}}`))
	}

	r := Validate(entries)
	c, _ := r.Check(CheckWhyItMatters)
	assert.Equal(t, 35, c.Count)
	assert.Len(t, r.Issue(IssueWhyItMattersStillString), 6)
	assert.Equal(t, MarkOK, DefaultThresholds.Grade(c.Percent), "35/41 is ok")
	assert.Equal(t, MarkWarn, DefaultThresholds.Grade(20.0/41*100), "20/41 is a warning")
	assert.Equal(t, MarkFail, DefaultThresholds.Grade(19.0/41*100))
}

func TestValidateDomains(t *testing.T) {
	r := Validate(corpus(t))
	require.Len(t, r.Domains, 2)

	assert.Equal(t, "1", r.Domains[0].Domain)
	assert.Equal(t, 2, r.Domains[0].Total)
	assert.Equal(t, 1, r.Domains[0].Complete)
	assert.Equal(t, 50.0, r.Domains[0].Percent)
	assert.Equal(t, []string{"D1-LESSON-002"}, r.Domains[0].Missing)

	assert.Equal(t, "2", r.Domains[1].Domain)
	assert.Equal(t, 0, r.Domains[1].Complete)
}

func TestValidateDoesNotMutate(t *testing.T) {
	entries := corpus(t)
	before := make([]string, len(entries))
	for i, e := range entries {
		before[i] = string(e.Doc.Bytes())
	}
	Validate(entries)
	for i, e := range entries {
		assert.Equal(t, before[i], string(e.Doc.Bytes()))
	}
}

func TestValidateEmpty(t *testing.T) {
	r := Validate(nil)
	assert.Equal(t, 0, r.Total)
	assert.False(t, r.HasIssues())
	for _, c := range r.Checks {
		assert.Equal(t, 0.0, c.Percent)
		assert.NotNil(t, c.Failing)
	}
	assert.Empty(t, r.Domains)
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "3", domainOf("D3-LESSON-001"))
	assert.Equal(t, "x", domainOf("Dx-odd.json"))
	assert.Equal(t, "?", domainOf("D"))
}

func TestRenderText(t *testing.T) {
	r := Validate(corpus(t))

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, RenderOptions{Thresholds: DefaultThresholds, ShowLimit: 1}))
	out := buf.String()

	assert.Contains(t, out, "Lesson coverage report: 4 lessons")
	assert.Contains(t, out, "why_it_matters (object)")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "Missing Learning Goals: 3 lessons")
	assert.Contains(t, out, "Why It Matters Still String: 1 lessons")
	assert.Contains(t, out, "     - D1-LESSON-002\n")
	assert.Contains(t, out, "... and 2 more")
	assert.NotContains(t, out, "Missing Subtitle: 0")
	assert.Contains(t, out, "Domain 1")
	assert.Contains(t, out, "Domain 2")
	assert.Contains(t, out, "All domains")

	buf.Reset()
	require.NoError(t, RenderText(&buf, r, RenderOptions{Thresholds: DefaultThresholds, ShowLimit: 1, All: true}))
	assert.NotContains(t, buf.String(), "more")
	assert.Contains(t, buf.String(), "     - D2-LESSON-002_Threats.json\n")
}

func TestRenderTextNoIssues(t *testing.T) {
	r := Validate([]Entry{entry(t, "D1-LESSON-001", completeLesson)})
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, RenderOptions{Thresholds: DefaultThresholds, ShowLimit: 5}))
	assert.Contains(t, buf.String(), "No issues found!")
	assert.True(t, strings.Contains(buf.String(), "100%"))
}

func TestRenderJSON(t *testing.T) {
	r := Validate(corpus(t))

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, r, DefaultThresholds))

	var decoded struct {
		Total  int `json:"total"`
		Checks []struct {
			Key     string   `json:"key"`
			Count   int      `json:"count"`
			Mark    string   `json:"mark"`
			Failing []string `json:"failing"`
		} `json:"checks"`
		Issues []struct {
			Key string   `json:"key"`
			IDs []string `json:"ids"`
		} `json:"issues"`
		Domains []struct {
			Domain   string `json:"domain"`
			Complete int    `json:"complete"`
			Mark     string `json:"mark"`
		} `json:"domains"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 4, decoded.Total)
	require.Len(t, decoded.Checks, 8)
	assert.Equal(t, "learning_goals", decoded.Checks[0].Key)
	assert.Equal(t, "fail", decoded.Checks[0].Mark)
	require.Len(t, decoded.Issues, 9)
	assert.Equal(t, "missing_learning_goals", decoded.Issues[0].Key)
	require.Len(t, decoded.Domains, 2)
	assert.Equal(t, "warn", decoded.Domains[0].Mark)
	assert.Equal(t, "fail", decoded.Domains[1].Mark)
}

func TestIssueHeading(t *testing.T) {
	assert.Equal(t, "Missing Connection To Next", issueHeading(IssueMissingConnectionToNext))
	assert.Equal(t, "Prereqs Still String", issueHeading(IssuePrereqsStillString))
}
