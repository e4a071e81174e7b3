// -----------------------------------------------------------------------
// Step Runner - Checkpointed step execution for resumable job runs
// -----------------------------------------------------------------------

package step

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
)

// Runner executes named steps within one durable run. Each completed step
// writes a checkpoint; when a retried handler reaches the same step name
// again, the stored result is returned instead of re-executing the step.
// Steps therefore run at most once per run ID, and anything a step does
// externally (like sending mail) is at-least-once across retries only if
// the checkpoint write itself fails.
type Runner struct {
	runID  string
	store  interfaces.RunStorage
	logger arbor.ILogger
}

// NewRunner creates a runner bound to a run ID
func NewRunner(runID string, store interfaces.RunStorage, logger arbor.ILogger) *Runner {
	return &Runner{
		runID:  runID,
		store:  store,
		logger: logger,
	}
}

// RunID returns the run this runner is bound to
func (r *Runner) RunID() string {
	return r.runID
}

// Do executes fn under the named checkpoint. If the step already completed
// in this run, the stored result is decoded and returned without invoking
// fn. Failed steps are re-executed on the next attempt.
func Do[T any](ctx context.Context, r *Runner, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if record, err := r.store.GetStep(r.runID, name); err == nil && record.Status == models.StepStatusCompleted {
		var result T
		if err := json.Unmarshal([]byte(record.Result), &result); err != nil {
			return zero, fmt.Errorf("failed to decode checkpoint for step %s: %w", name, err)
		}

		r.logger.Debug().
			Str("run_id", r.runID).
			Str("step", name).
			Msg("Step already completed, using checkpoint")

		return result, nil
	}

	result, err := fn(ctx)
	if err != nil {
		record := &models.StepRecord{
			RunID:  r.runID,
			Name:   name,
			Status: models.StepStatusFailed,
			Error:  err.Error(),
		}
		if saveErr := r.store.SaveStep(record); saveErr != nil {
			r.logger.Warn().Err(saveErr).
				Str("run_id", r.runID).
				Str("step", name).
				Msg("Failed to record step failure")
		}
		return zero, err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return zero, fmt.Errorf("failed to encode result for step %s: %w", name, err)
	}

	record := &models.StepRecord{
		RunID:  r.runID,
		Name:   name,
		Status: models.StepStatusCompleted,
		Result: string(encoded),
	}
	if err := r.store.SaveStep(record); err != nil {
		return zero, fmt.Errorf("failed to checkpoint step %s: %w", name, err)
	}

	r.logger.Debug().
		Str("run_id", r.runID).
		Str("step", name).
		Msg("Step completed")

	return result, nil
}
