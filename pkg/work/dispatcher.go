package work

import (
	"context"
	"fmt"
	"time"

	"github.com/fulmenhq/lessonkit/pkg/logger"
)

// ExecutionResult represents the result of processing a work item
type ExecutionResult struct {
	WorkItemID string        `json:"work_item_id"`
	LessonID   string        `json:"lesson_id,omitempty"`
	Success    bool          `json:"success"`
	Changed    bool          `json:"changed"`
	Changes    []string      `json:"changes,omitempty"`
	Written    string        `json:"written,omitempty"`
	Error      string        `json:"error,omitempty"`
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`
	Output     string        `json:"output,omitempty"`
}

// ExecutionSummary provides a summary of the execution
type ExecutionSummary struct {
	TotalItems    int               `json:"total_items"`
	Processed     int               `json:"processed"`
	Successful    int               `json:"successful"`
	Failed        int               `json:"failed"`
	FilesChanged  int               `json:"files_changed"`
	TotalChanges  int               `json:"total_changes"`
	TotalDuration time.Duration     `json:"total_duration"`
	Results       []ExecutionResult `json:"results"`
}

// WorkItemProcessor defines the interface for processing work items
type WorkItemProcessor interface {
	ProcessWorkItem(ctx context.Context, item *WorkItem, dryRun bool, noOp bool) ExecutionResult
}

// DispatcherConfig configures the dispatcher
type DispatcherConfig struct {
	DryRun           bool
	NoOp             bool
	ContinueOnError  bool
	ProgressCallback func(result ExecutionResult)
}

// Dispatcher runs a manifest one item at a time, in manifest order.
type Dispatcher struct {
	config    DispatcherConfig
	processor WorkItemProcessor
}

// NewDispatcher creates a new work dispatcher
func NewDispatcher(config DispatcherConfig, processor WorkItemProcessor) *Dispatcher {
	return &Dispatcher{
		config:    config,
		processor: processor,
	}
}

// ExecuteManifest processes every work item. It stops at the first failure unless
// ContinueOnError is set, and between items when ctx is cancelled. The summary is
// returned even when err is non-nil.
func (d *Dispatcher) ExecuteManifest(ctx context.Context, manifest *WorkManifest) (*ExecutionSummary, error) {
	logger.Debug(fmt.Sprintf("Starting execution of %d work items", len(manifest.WorkItems)))

	startTime := time.Now()
	summary := &ExecutionSummary{
		TotalItems: len(manifest.WorkItems),
		Results:    make([]ExecutionResult, 0, len(manifest.WorkItems)),
	}
	finish := func() { summary.TotalDuration = time.Since(startTime) }

	var firstErr error
	for i := range manifest.WorkItems {
		if err := ctx.Err(); err != nil {
			finish()
			return summary, fmt.Errorf("stopped after %d of %d files: %w", summary.Processed, summary.TotalItems, err)
		}

		item := &manifest.WorkItems[i]
		itemStart := time.Now()
		result := d.processor.ProcessWorkItem(ctx, item, d.config.DryRun, d.config.NoOp)
		if result.Duration == 0 {
			result.Duration = time.Since(itemStart)
		}
		if result.WorkItemID == "" {
			result.WorkItemID = item.ID
		}

		summary.Processed++
		summary.Results = append(summary.Results, result)
		if result.Success {
			summary.Successful++
			if result.Changed {
				summary.FilesChanged++
			}
			summary.TotalChanges += len(result.Changes)
		} else {
			summary.Failed++
			err := result.Err
			if err == nil {
				err = fmt.Errorf("%s", result.Error)
			}
			if firstErr == nil {
				firstErr = err
			}
			if !d.config.ContinueOnError {
				finish()
				return summary, err
			}
			logger.Warn("Continuing after failure", logger.String("file", item.ID), logger.Err(err))
		}

		if d.config.ProgressCallback != nil {
			d.config.ProgressCallback(result)
		}
	}

	finish()
	if firstErr != nil {
		return summary, fmt.Errorf("%d of %d files failed; first error: %w", summary.Failed, summary.TotalItems, firstErr)
	}
	return summary, nil
}
