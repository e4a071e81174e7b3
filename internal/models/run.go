// -----------------------------------------------------------------------
// Job Run - Durable run and step records for resumable job execution
// -----------------------------------------------------------------------

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Step status values
const (
	StepStatusCompleted = "completed"
	StepStatusFailed    = "failed"
)

// JobRun represents one execution instance of a job handler.
// A retried handler re-uses the same run ID so completed steps are skipped.
type JobRun struct {
	ID         string    `json:"id" badgerhold:"key"`
	JobID      string    `json:"job_id" badgerhold:"index"` // Handler id, e.g. "daily-news-summary"
	Status     string    `json:"status"`
	Attempts   int       `json:"attempts"`
	Result     string    `json:"result,omitempty"` // JSON-encoded JobResult once terminal
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// StepRecord is the durable record of one named step within a run.
// Its presence with StepStatusCompleted means the step must not re-execute.
type StepRecord struct {
	Key         string    `json:"key" badgerhold:"key"` // runID + "/" + step name
	RunID       string    `json:"run_id" badgerhold:"index"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Result      string    `json:"result,omitempty"` // JSON-encoded step result
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// StepKey builds the storage key for a step record
func StepKey(runID, name string) string {
	return fmt.Sprintf("%s/%s", runID, name)
}

// SetResult JSON-encodes v into the run's terminal result
func (r *JobRun) SetResult(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}
	r.Result = string(data)
	return nil
}
