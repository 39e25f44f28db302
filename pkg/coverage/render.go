package coverage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mark grades a percentage against thresholds.
type Mark string

const (
	MarkOK   Mark = "ok"
	MarkWarn Mark = "warn"
	MarkFail Mark = "fail"
)

// Thresholds are percentage cut-offs for marks.
type Thresholds struct {
	OKPercent   float64
	WarnPercent float64
}

// DefaultThresholds grade field coverage: 35 of 41 lessons is ok, 20 of 41 is a warning.
var DefaultThresholds = Thresholds{OKPercent: 85, WarnPercent: 48}

// DomainThresholds grade domain completeness.
var DomainThresholds = Thresholds{OKPercent: 100, WarnPercent: 50}

// Grade returns the mark for pct.
func (t Thresholds) Grade(pct float64) Mark {
	switch {
	case pct >= t.OKPercent:
		return MarkOK
	case pct >= t.WarnPercent:
		return MarkWarn
	default:
		return MarkFail
	}
}

func (m Mark) symbol() string {
	switch m {
	case MarkOK:
		return "✅"
	case MarkWarn:
		return "⚠️"
	default:
		return "❌"
	}
}

// RenderOptions controls text output.
type RenderOptions struct {
	Thresholds Thresholds
	ShowLimit  int  // failing ids listed per issue; 0 lists none
	All        bool // list every failing id
}

var titleCaser = cases.Title(language.English)

// markedColumns lays out mark, label, count and percent columns.
var markedColumns = []ColumnAlignment{AlignCenter, AlignLeft, AlignRight, AlignRight}

// issueHeading turns "missing_learning_goals" into "Missing Learning Goals".
func issueHeading(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// RenderText writes the human-readable report.
func RenderText(w io.Writer, r *Report, opts RenderOptions) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Lesson coverage report: %d lessons\n\n", r.Total)

	rows := make([][]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		rows = append(rows, []string{
			opts.Thresholds.Grade(c.Percent).symbol(),
			c.Label,
			fmt.Sprintf("%d/%d", c.Count, c.Total),
			fmt.Sprintf("%.0f%%", c.Percent),
		})
	}
	b.WriteString(RenderTable([]string{"", "Field", "Count", "Coverage"}, rows,
		TableOptions{Aligns: markedColumns}))
	b.WriteString("\n\nRemaining issues\n")

	if !r.HasIssues() {
		b.WriteString("  No issues found!\n")
	}
	for _, is := range r.Issues {
		if len(is.IDs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s: %d lessons\n", issueHeading(is.Key), len(is.IDs))
		shown := is.IDs
		if !opts.All && len(shown) > opts.ShowLimit {
			shown = shown[:opts.ShowLimit]
		}
		for _, id := range shown {
			fmt.Fprintf(&b, "     - %s\n", id)
		}
		if rest := len(is.IDs) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "     ... and %d more\n", rest)
		}
	}

	b.WriteString("\nDomain breakdown\n")
	drows := make([][]string, 0, len(r.Domains))
	complete, total := 0, 0
	for _, d := range r.Domains {
		complete += d.Complete
		total += d.Total
		drows = append(drows, []string{
			DomainThresholds.Grade(d.Percent).symbol(),
			"Domain " + d.Domain,
			fmt.Sprintf("%d/%d", d.Complete, d.Total),
			fmt.Sprintf("%.0f%%", d.Percent),
		})
	}
	b.WriteString(RenderTable([]string{"", "Domain", "Complete", "Percent"}, drows, TableOptions{
		Aligns: markedColumns,
		Footer: []string{"", "All domains", fmt.Sprintf("%d/%d", complete, total), fmt.Sprintf("%.0f%%", percent(complete, total))},
	}))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonCheck struct {
	Check
	Mark Mark `json:"mark"`
}

type jsonDomain struct {
	Domain
	Mark Mark `json:"mark"`
}

type jsonReport struct {
	Total   int          `json:"total"`
	Checks  []jsonCheck  `json:"checks"`
	Issues  []Issue      `json:"issues"`
	Domains []jsonDomain `json:"domains"`
}

// RenderJSON writes the report, with marks, as indented JSON.
func RenderJSON(w io.Writer, r *Report, th Thresholds) error {
	out := jsonReport{Total: r.Total, Issues: r.Issues}
	for _, c := range r.Checks {
		out.Checks = append(out.Checks, jsonCheck{Check: c, Mark: th.Grade(c.Percent)})
	}
	for _, d := range r.Domains {
		out.Domains = append(out.Domains, jsonDomain{Domain: d, Mark: DomainThresholds.Grade(d.Percent)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode coverage report: %w", err)
	}
	return nil
}
