package work

import (
	"context"
	"fmt"

	"github.com/fulmenhq/lessonkit/pkg/coverage"
	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/fulmenhq/lessonkit/pkg/safeio"
)

// ReadLesson reads and parses the lesson behind item. Parse failures wrap
// lesson.ErrMalformed and name the file.
func ReadLesson(baseDir string, item *WorkItem) (*lesson.Document, error) {
	data, err := safeio.ReadFileContained(baseDir, item.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", item.Path, err)
	}
	doc, err := lesson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", item.Path, err)
	}
	return doc, nil
}

// LoadEntries reads every manifest item into coverage entries. A lesson without
// lesson_id is identified by the id in its file name, or the file name itself.
func LoadEntries(ctx context.Context, manifest *WorkManifest) ([]coverage.Entry, error) {
	entries := make([]coverage.Entry, 0, len(manifest.WorkItems))
	for i := range manifest.WorkItems {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := &manifest.WorkItems[i]
		doc, err := ReadLesson(manifest.Plan.InputDir, item)
		if err != nil {
			return nil, err
		}
		id := doc.ID()
		if id == "" {
			id = item.LessonID
		}
		if id == "" {
			id = item.ID
		}
		entries = append(entries, coverage.Entry{ID: id, Doc: doc})
	}
	return entries, nil
}
