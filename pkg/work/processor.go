package work

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fulmenhq/lessonkit/pkg/format"
	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/fulmenhq/lessonkit/pkg/safeio"
)

// NormalizeProcessor runs the lesson normalizer over work items and writes the
// formatted result under OutputDir. Every selected file is written, changed or not.
type NormalizeProcessor struct {
	normalizer *lesson.Normalizer
	inputDir   string
	outputDir  string
	jsonOpts   format.JSONOptions
}

// NewNormalizeProcessor creates a processor. An outputDir equal to inputDir
// rewrites files in place.
func NewNormalizeProcessor(n *lesson.Normalizer, inputDir, outputDir string, opts format.JSONOptions) *NormalizeProcessor {
	return &NormalizeProcessor{
		normalizer: n,
		inputDir:   inputDir,
		outputDir:  outputDir,
		jsonOpts:   opts,
	}
}

// InPlace reports whether output overwrites the input files.
func (p *NormalizeProcessor) InPlace() bool {
	in, errIn := safeio.ResolveDir(p.inputDir)
	out, errOut := safeio.ResolveDir(p.outputDir)
	return errIn == nil && errOut == nil && in == out
}

// ProcessWorkItem normalizes a single lesson file.
func (p *NormalizeProcessor) ProcessWorkItem(ctx context.Context, item *WorkItem, dryRun bool, noOp bool) ExecutionResult {
	startTime := time.Now()
	result := ExecutionResult{WorkItemID: item.ID}
	fail := func(err error) ExecutionResult {
		result.Err = err
		result.Error = err.Error()
		result.Duration = time.Since(startTime)
		return result
	}

	select {
	case <-ctx.Done():
		return fail(ctx.Err())
	default:
	}

	doc, err := ReadLesson(p.inputDir, item)
	if err != nil {
		return fail(err)
	}

	res, err := p.normalizer.Normalize(doc, item.ID)
	if err != nil {
		return fail(err)
	}
	result.LessonID = res.ID
	result.Changed = res.Changed()
	result.Changes = res.Tags()

	out, err := doc.Format(p.jsonOpts)
	if err != nil {
		return fail(fmt.Errorf("format %s: %w", item.Path, err))
	}

	target := filepath.Join(p.outputDir, item.ID)
	switch {
	case dryRun:
		result.Output = fmt.Sprintf("Would write %s (%d changes)", target, len(result.Changes))
	case noOp:
		result.Output = fmt.Sprintf("[NO-OP] Would write %s (%d changes)", target, len(result.Changes))
	default:
		written, err := p.write(item, out)
		if err != nil {
			return fail(err)
		}
		result.Written = written
		result.Output = fmt.Sprintf("Wrote %s", written)
	}

	if result.Changed {
		logger.Info("Normalized", logger.String("file", item.ID), logger.Strings("changes", result.Changes))
	} else {
		logger.Info("No changes needed", logger.String("file", item.ID))
	}

	result.Success = true
	result.Duration = time.Since(startTime)
	return result
}

func (p *NormalizeProcessor) write(item *WorkItem, data []byte) (string, error) {
	if p.InPlace() {
		if err := safeio.WriteFilePreservePerms(item.Path, data); err != nil {
			return "", fmt.Errorf("write %s: %w", item.Path, err)
		}
		return item.Path, nil
	}
	if err := safeio.EnsureDir(p.outputDir); err != nil {
		return "", err
	}
	written, err := safeio.WriteFileContained(p.outputDir, item.ID, data)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Join(p.outputDir, item.ID), err)
	}
	return written, nil
}
