package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cwbudde/pixelscan/internal/imagefile"
	"github.com/cwbudde/pixelscan/internal/pixel"
	"github.com/cwbudde/pixelscan/internal/reduce"
	"github.com/cwbudde/pixelscan/internal/scan"
	"github.com/cwbudde/pixelscan/internal/store"
)

// Artifact names within a job directory.
const (
	artifactScan = "scan.sdat"
	artifactSVG  = "output.svg"
)

// runJob executes a vectorization job in the background. The scan
// itself is single-threaded and runs to completion; cancellation is
// only observed between pipeline stages.
func runJob(ctx context.Context, jm *JobManager, jobStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}
	if job.State != StatePending {
		return nil
	}

	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	}); err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "input", job.Config.InputPath)
	start := time.Now()

	var src pixel.Source
	img, err := imagefile.Load(job.Config.InputPath)
	if err != nil {
		markJobFailed(jm, jobStore, jobID, fmt.Errorf("failed to load input: %w", err))
		return err
	}
	src = img

	slog.Info("Loaded input image", "job_id", jobID, "width", img.Width(), "height", img.Height())

	if job.Config.ReduceReach > 0 {
		similarity := job.Config.ReduceSimilarity
		if similarity == 0 {
			similarity = reduce.DefaultSimilarity
		}
		reducer := reduce.New(job.Config.ReduceReach, float32(job.Config.ReduceThreshold), float32(similarity))
		src = reducer.Reduce(src)
	}

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobStore, jobID)
		return ctx.Err()
	default:
	}

	ps, err := scan.New(src)
	if err != nil {
		markJobFailed(jm, jobStore, jobID, err)
		return err
	}

	ps.ScanForShapes(float32(job.Config.Threshold))
	if job.Config.AverageColors {
		ps.AverageColors()
	}
	ps.CalculateBorders()
	ps.CompressShapes()

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobStore, jobID)
		return ctx.Err()
	default:
	}

	if err := jobStore.SaveArtifact(jobID, artifactScan, func(w io.Writer) error {
		return ps.Serialize(w)
	}); err != nil {
		markJobFailed(jm, jobStore, jobID, err)
		return err
	}
	if err := jobStore.SaveArtifact(jobID, artifactSVG, func(w io.Writer) error {
		return ps.ToSVG(w)
	}); err != nil {
		markJobFailed(jm, jobStore, jobID, err)
		return err
	}

	now := time.Now()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.ShapeCount = len(ps.Shapes())
		j.Completed = &now
	}); err != nil {
		return err
	}
	persistJob(jm, jobStore, jobID)

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", time.Since(start),
		"shapes", len(ps.Shapes()),
	)
	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobStore store.Store, jobID string, err error) {
	now := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.Completed = &now
	})
	persistJob(jm, jobStore, jobID)
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobStore store.Store, jobID string) {
	now := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.Completed = &now
	})
	persistJob(jm, jobStore, jobID)
	slog.Info("Job cancelled", "job_id", jobID)
}

// persistJob writes the current job snapshot through the store.
func persistJob(jm *JobManager, jobStore store.Store, jobID string) {
	if jobStore == nil {
		return
	}
	job, exists := jm.GetJob(jobID)
	if !exists {
		return
	}
	if err := jobStore.SaveRecord(jobID, toRecord(job)); err != nil {
		slog.Warn("Failed to persist job record", "job_id", jobID, "error", err)
	}
}
