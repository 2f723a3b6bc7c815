package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/storage"
)

func newTestJob() *core.IngestionJob {
	return &core.IngestionJob{
		CollectionID: core.NewID(),
		SourceType:   core.SourceTypeText,
		Format:       "txt",
	}
}

func TestJobLifecycle(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	job, err := repos.Jobs.AddJob(ctx, newTestJob())
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}
	if job.ID == uuid.Nil {
		t.Fatal("Expected non-nil job ID")
	}
	if job.Status != core.JobStatusPending {
		t.Fatalf("Expected PENDING, got %s", job.Status)
	}
	if !job.StartedAt.IsZero() || !job.CompletedAt.IsZero() {
		t.Fatal("Expected zero StartedAt/CompletedAt on a fresh job")
	}

	job.Status = core.JobStatusRunning
	job, err = repos.Jobs.UpdateJob(ctx, job)
	if err != nil {
		t.Fatalf("Failed to move job to RUNNING: %v", err)
	}
	if job.StartedAt.IsZero() {
		t.Fatal("Expected StartedAt to be stamped on RUNNING")
	}
	startedAt := job.StartedAt

	// Progress update within RUNNING keeps the stamp
	job.Progress = core.Progress{Stage: core.StageChunked, Chunks: 4}
	job, err = repos.Jobs.UpdateJob(ctx, job)
	if err != nil {
		t.Fatalf("Failed to record progress: %v", err)
	}
	if !job.StartedAt.Equal(startedAt) {
		t.Fatal("StartedAt changed on progress update")
	}

	job.Status = core.JobStatusCompleted
	job, err = repos.Jobs.UpdateJob(ctx, job)
	if err != nil {
		t.Fatalf("Failed to complete job: %v", err)
	}
	if job.CompletedAt.IsZero() {
		t.Fatal("Expected CompletedAt to be stamped on terminal transition")
	}

	stored, err := repos.Jobs.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if stored.Status != core.JobStatusCompleted {
		t.Fatalf("Expected COMPLETED, got %s", stored.Status)
	}
	if stored.Progress.Chunks != 4 {
		t.Fatalf("Expected 4 chunks in progress, got %d", stored.Progress.Chunks)
	}
}

func TestJobTerminalSticky(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	job, err := repos.Jobs.AddJob(ctx, newTestJob())
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}

	job.Status = core.JobStatusRunning
	if job, err = repos.Jobs.UpdateJob(ctx, job); err != nil {
		t.Fatalf("Failed to move job to RUNNING: %v", err)
	}
	job.Status = core.JobStatusFailed
	if job, err = repos.Jobs.UpdateJob(ctx, job); err != nil {
		t.Fatalf("Failed to fail job: %v", err)
	}

	job.Status = core.JobStatusRunning
	if _, err = repos.Jobs.UpdateJob(ctx, job); !errors.Is(err, core.ErrJobTerminal) {
		t.Fatalf("Expected ErrJobTerminal, got %v", err)
	}
}

func TestJobInvalidTransition(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	job, err := repos.Jobs.AddJob(ctx, newTestJob())
	if err != nil {
		t.Fatalf("Failed to add job: %v", err)
	}

	// PENDING cannot jump straight to COMPLETED
	job.Status = core.JobStatusCompleted
	if _, err = repos.Jobs.UpdateJob(ctx, job); !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition, got %v", err)
	}
}

func TestJobUpdateMissing(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	job := newTestJob()
	job.ID = core.NewID()
	job.Status = core.JobStatusRunning
	if _, err := repos.Jobs.UpdateJob(context.Background(), job); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestJobListNewestFirst(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		job, err := repos.Jobs.AddJob(ctx, newTestJob())
		if err != nil {
			t.Fatalf("Failed to add job: %v", err)
		}
		ids = append(ids, job.ID)
		// Distinct CreatedAt microseconds for a deterministic order
		time.Sleep(2 * time.Millisecond)
	}

	jobs, err := repos.Jobs.ListJobs(ctx, uuid.Nil, 2)
	if err != nil {
		t.Fatalf("Failed to list jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != ids[2] || jobs[1].ID != ids[1] {
		t.Fatal("Expected newest jobs first")
	}
}

func TestJobListByCollection(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	collectionA := core.NewID()
	collectionB := core.NewID()
	var wantA []uuid.UUID
	for i := 0; i < 2; i++ {
		for _, collectionID := range []uuid.UUID{collectionA, collectionB} {
			job := newTestJob()
			job.CollectionID = collectionID
			if job, err = repos.Jobs.AddJob(ctx, job); err != nil {
				t.Fatalf("Failed to add job: %v", err)
			}
			if collectionID == collectionA {
				wantA = append(wantA, job.ID)
			}
			time.Sleep(2 * time.Millisecond)
		}
	}

	jobs, err := repos.Jobs.ListJobs(ctx, collectionA, 10)
	if err != nil {
		t.Fatalf("Failed to list jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs for collection, got %d", len(jobs))
	}
	// Newest first, and only collection A's jobs
	if jobs[0].ID != wantA[1] || jobs[1].ID != wantA[0] {
		t.Fatal("Expected collection A's jobs, newest first")
	}
	for _, job := range jobs {
		if job.CollectionID != collectionA {
			t.Fatalf("Job %s belongs to a different collection", job.ID)
		}
	}

	all, err := repos.Jobs.ListJobs(ctx, uuid.Nil, 10)
	if err != nil {
		t.Fatalf("Failed to list all jobs: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 jobs across collections, got %d", len(all))
	}
}
