package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
)

func waitForCondition(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met within timeout")
}

func TestStartStop(t *testing.T) {
	service := NewService(arbor.NewLogger())

	if service.IsRunning() {
		t.Error("Scheduler should not be running before start")
	}

	if err := service.Start(); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}
	if !service.IsRunning() {
		t.Error("Scheduler should be running after start")
	}

	if err := service.Start(); err == nil {
		t.Error("Expected error starting an already running scheduler")
	}

	if err := service.Stop(); err != nil {
		t.Fatalf("Failed to stop scheduler: %v", err)
	}
	if service.IsRunning() {
		t.Error("Scheduler should not be running after stop")
	}
}

func TestRegisterJobValidation(t *testing.T) {
	service := NewService(arbor.NewLogger())
	handler := func() error { return nil }

	if err := service.RegisterJob("digest", "* * * * *", "every minute", handler); err == nil {
		t.Error("Expected every-minute schedule to be rejected")
	}

	if err := service.RegisterJob("digest", "0 12 * * *", "daily digest", handler); err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}

	if err := service.RegisterJob("digest", "0 12 * * *", "duplicate", handler); err == nil {
		t.Error("Expected duplicate registration to be rejected")
	}
}

func TestTriggerJobExecutesHandler(t *testing.T) {
	service := NewService(arbor.NewLogger())

	executed := make(chan struct{}, 1)
	err := service.RegisterJob("digest", "0 12 * * *", "daily digest", func() error {
		executed <- struct{}{}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}

	if err := service.TriggerJob("digest"); err != nil {
		t.Fatalf("Failed to trigger job: %v", err)
	}

	select {
	case <-executed:
	case <-time.After(2 * time.Second):
		t.Fatal("Handler was not executed")
	}

	if err := service.TriggerJob("missing"); err == nil {
		t.Error("Expected error triggering an unknown job")
	}
}

func TestJobStatusTracksFailures(t *testing.T) {
	service := NewService(arbor.NewLogger())

	err := service.RegisterJob("digest", "0 12 * * *", "daily digest", func() error {
		return fmt.Errorf("smtp unavailable")
	})
	if err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}

	if err := service.TriggerJob("digest"); err != nil {
		t.Fatalf("Failed to trigger job: %v", err)
	}

	waitForCondition(t, 2*time.Second, func() bool {
		status, err := service.GetJobStatus("digest")
		return err == nil && status.LastError == "smtp unavailable" && status.LastRun != nil
	})
}

func TestJobStatusRecoversFromPanic(t *testing.T) {
	service := NewService(arbor.NewLogger())

	err := service.RegisterJob("digest", "0 12 * * *", "daily digest", func() error {
		panic("template explosion")
	})
	if err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}

	if err := service.TriggerJob("digest"); err != nil {
		t.Fatalf("Failed to trigger job: %v", err)
	}

	waitForCondition(t, 2*time.Second, func() bool {
		status, err := service.GetJobStatus("digest")
		return err == nil && !status.IsRunning && status.LastError == "panic: template explosion"
	})
}

func TestEnableDisableJob(t *testing.T) {
	service := NewService(arbor.NewLogger())

	err := service.RegisterJob("digest", "0 12 * * *", "daily digest", func() error { return nil })
	if err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}

	if err := service.DisableJob("digest"); err != nil {
		t.Fatalf("Failed to disable job: %v", err)
	}
	status, err := service.GetJobStatus("digest")
	if err != nil {
		t.Fatalf("Failed to get job status: %v", err)
	}
	if status.Enabled {
		t.Error("Job should be disabled")
	}
	if status.NextRun != nil {
		t.Error("Disabled job should have no next run")
	}

	if err := service.EnableJob("digest"); err != nil {
		t.Fatalf("Failed to enable job: %v", err)
	}
	status, err = service.GetJobStatus("digest")
	if err != nil {
		t.Fatalf("Failed to get job status: %v", err)
	}
	if !status.Enabled {
		t.Error("Job should be enabled")
	}

	if err := service.DisableJob("missing"); err == nil {
		t.Error("Expected error disabling an unknown job")
	}

	statuses := service.GetAllJobStatuses()
	if len(statuses) != 1 || statuses["digest"] == nil {
		t.Errorf("Expected one registered job in statuses, got %v", statuses)
	}
}
