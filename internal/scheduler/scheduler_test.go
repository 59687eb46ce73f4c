package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/wonny/ichiba/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestAddJobDuplicate(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "daily", schedule: "0 0 18 * * 1-5"}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if err := s.AddJob(job); err == nil {
		t.Error("duplicate AddJob should fail")
	}
}

func TestAddJobBadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	if err := s.AddJob(&fakeJob{name: "broken", schedule: "not a cron expr"}); err == nil {
		t.Error("invalid schedule should fail")
	}
}

func TestRunJobUnknown(t *testing.T) {
	s := New(logger.NewNop())
	if err := s.RunJob("missing"); err == nil {
		t.Error("unknown job should fail")
	}
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "daily", schedule: "@daily"}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	s.runJob(job)

	stats := s.Stats()["daily"]
	if stats.TotalRuns != 1 {
		t.Errorf("TotalRuns = %d, want 1", stats.TotalRuns)
	}
	if stats.SuccessRate != 1.0 {
		t.Errorf("SuccessRate = %v, want 1.0", stats.SuccessRate)
	}
	if stats.LastRun == nil {
		t.Error("LastRun missing")
	}
}

func TestRunJobRetries(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond
	s.maxRetries = 2

	job := &fakeJob{name: "flaky", schedule: "@daily", err: context.DeadlineExceeded}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	s.runJob(job)

	if job.runs != 3 {
		t.Errorf("runs = %d, want initial + 2 retries", job.runs)
	}
	stats := s.Stats()["flaky"]
	if stats.SuccessRate != 0.0 {
		t.Errorf("SuccessRate = %v, want 0", stats.SuccessRate)
	}
	if stats.LastError == "" {
		t.Error("LastError missing")
	}
}

func TestJobHistoryLimit(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+10; i++ {
		h.Add(JobResult{JobName: "x", Success: true})
	}
	if len(h.Results) != historyLimit {
		t.Errorf("history length = %d, want %d", len(h.Results), historyLimit)
	}
}
