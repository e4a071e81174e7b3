package badger

import (
	"fmt"
	"time"

	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// RunStorage implements the RunStorage interface for Badger.
// It holds the durable run records and the per-step checkpoints that let a
// retried run skip work it has already completed.
type RunStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRunStorage creates a new RunStorage instance
func NewRunStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RunStorage {
	return &RunStorage{
		db:     db,
		logger: logger,
	}
}

// SaveRun inserts or updates a run record
func (s *RunStorage) SaveRun(run *models.JobRun) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	if err := s.db.Store().Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves a run record by ID
func (s *RunStorage) GetRun(id string) (*models.JobRun, error) {
	var run models.JobRun
	err := s.db.Store().Get(id, &run)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// GetRunsByJobID returns all runs of a job, newest first
func (s *RunStorage) GetRunsByJobID(jobID string) ([]models.JobRun, error) {
	var runs []models.JobRun
	if err := s.db.Store().Find(&runs, badgerhold.Where("JobID").Eq(jobID).Index("JobID").SortBy("StartedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// SaveStep records a completed or failed step checkpoint
func (s *RunStorage) SaveStep(step *models.StepRecord) error {
	if step.RunID == "" || step.Name == "" {
		return fmt.Errorf("step run ID and name cannot be empty")
	}

	step.Key = models.StepKey(step.RunID, step.Name)
	if step.CompletedAt.IsZero() {
		step.CompletedAt = time.Now()
	}

	if err := s.db.Store().Upsert(step.Key, step); err != nil {
		return fmt.Errorf("failed to save step: %w", err)
	}

	return nil
}

// GetStep retrieves a step checkpoint for a run
func (s *RunStorage) GetStep(runID, name string) (*models.StepRecord, error) {
	var step models.StepRecord
	err := s.db.Store().Get(models.StepKey(runID, name), &step)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return &step, nil
}

// GetStepsByRunID returns all step checkpoints of a run
func (s *RunStorage) GetStepsByRunID(runID string) ([]models.StepRecord, error) {
	var steps []models.StepRecord
	if err := s.db.Store().Find(&steps, badgerhold.Where("RunID").Eq(runID).Index("RunID")); err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	return steps, nil
}

// DeleteRun removes a run record and its step checkpoints
func (s *RunStorage) DeleteRun(id string) error {
	if err := s.db.Store().DeleteMatching(&models.StepRecord{}, badgerhold.Where("RunID").Eq(id).Index("RunID")); err != nil {
		return fmt.Errorf("failed to delete run steps: %w", err)
	}

	err := s.db.Store().Delete(id, &models.JobRun{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}
