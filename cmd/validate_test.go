package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/lessonkit/pkg/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completeLesson = `{
  "lesson_id": "D1-LESSON-001",
  "subtitle": "Controls",
  "introduction": {
    "learning_goals": ["Name the control types"],
    "why_it_matters": {"career_impact": "a", "business_connection": "b", "exam_relevance": "c"}
  },
  "skill_tree": {
    "prerequisites": [],
    "unlocks": [{"lesson_id": "D1-LESSON-002", "title": "CIA Triad Fundamentals", "connection": "next"}]
  },
  "hands_on_activity": {"title": "Sort controls"},
  "what_would_you_do": {"scenario": "A badge reader fails"},
  "summary": {"connection_to_next": "On to the CIA triad."}
}`

func validateFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeLesson(t, dir, "D1-LESSON-001.json", completeLesson)
	writeLesson(t, dir, "D3-LESSON-001.json", d3Legacy)
	return dir
}

func TestValidateCommandText(t *testing.T) {
	dir := validateFixture(t)
	before, err := os.ReadFile(filepath.Join(dir, "D3-LESSON-001.json"))
	require.NoError(t, err)

	out, err := execRoot(t, []string{"validate", dir})
	require.NoError(t, err, out)

	assert.Contains(t, out, "Lesson coverage report: 2 lessons")
	assert.Contains(t, out, "Why It Matters Still String: 1 lessons")
	assert.Contains(t, out, "Prereqs Still String: 1 lessons")
	assert.Contains(t, out, "     - D3-LESSON-001")
	assert.Contains(t, out, "Domain 1")
	assert.Contains(t, out, "Domain 3")

	after, err := os.ReadFile(filepath.Join(dir, "D3-LESSON-001.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "validate never writes lessons")
}

func TestValidateCommandJSON(t *testing.T) {
	dir := validateFixture(t)
	out, err := execRoot(t, []string{"validate", dir, "--format", "json"})
	require.NoError(t, err)

	var report struct {
		Total  int `json:"total"`
		Checks []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
			Mark  string `json:"mark"`
		} `json:"checks"`
		Issues []struct {
			Key string   `json:"key"`
			IDs []string `json:"ids"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 2, report.Total)
	require.NotEmpty(t, report.Checks)
	assert.Equal(t, "learning_goals", report.Checks[0].Key)
	assert.Equal(t, 1, report.Checks[0].Count)
	assert.Equal(t, "warn", report.Checks[0].Mark)
	assert.Equal(t, "missing_learning_goals", report.Issues[0].Key)
	assert.Equal(t, []string{"D3-LESSON-001"}, report.Issues[0].IDs)
}

func TestValidateCommandShowLimit(t *testing.T) {
	dir := t.TempDir()
	for _, id := range []string{"001", "002", "003", "004", "005", "006", "007"} {
		writeLesson(t, dir, "D2-LESSON-"+id+".json", `{"lesson_id": "D2-LESSON-`+id+`"}`)
	}

	out, err := execRoot(t, []string{"validate", dir})
	require.NoError(t, err)
	assert.Contains(t, out, "... and 2 more")

	out, err = execRoot(t, []string{"validate", dir, "--all"})
	require.NoError(t, err)
	assert.NotContains(t, out, "more")
	assert.Equal(t, 7*6, strings.Count(out, "     - D2-LESSON-"), "every failing id in the six missing buckets")
}

func TestValidateCommandOutputFile(t *testing.T) {
	dir := validateFixture(t)
	report := filepath.Join(t.TempDir(), "coverage.txt")

	out, err := execRoot(t, []string{"validate", dir, "--output", report})
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Lesson coverage report: 2 lessons")
}

func TestValidateCommandErrors(t *testing.T) {
	dir := validateFixture(t)

	_, err := execRoot(t, []string{"validate", dir, "--fail-on-issues"})
	require.Error(t, err)
	assert.Equal(t, exitcode.ValidationError, exitcode.From(err))

	_, err = execRoot(t, []string{"validate", dir, "--format", "xml"})
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitcode.From(err))

	_, err = execRoot(t, []string{"validate", dir, "--ok-percent", "40", "--warn-percent", "60"})
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitcode.From(err))

	_, err = execRoot(t, []string{"validate", filepath.Join(dir, "missing")})
	require.Error(t, err)
	assert.Equal(t, exitcode.FileSystemError, exitcode.From(err))

	writeLesson(t, dir, "D4-LESSON-001.json", `"just a string"`)
	_, err = execRoot(t, []string{"validate", dir})
	require.Error(t, err)
	assert.Equal(t, exitcode.ValidationError, exitcode.From(err))
}

func TestValidateCommandAfterNormalize(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "lessons"), filepath.Join(root, "fixed")
	writeLesson(t, in, "D3-LESSON-001.json", d3Legacy)

	_, err := execRoot(t, []string{"normalize", "--input", in, "--output", out})
	require.NoError(t, err)

	report, err := execRoot(t, []string{"validate", out})
	require.NoError(t, err)
	assert.NotContains(t, report, "Still String")
	assert.NotContains(t, report, "Missing Subtitle")
	assert.NotContains(t, report, "Missing Connection To Next")
}
