package server

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/superpsx/vramdiff/internal/diff"
	"github.com/superpsx/vramdiff/internal/report"
	"github.com/superpsx/vramdiff/internal/store"
	"github.com/superpsx/vramdiff/internal/vram"
)

// compareConfig translates a job's wire config into the pipeline config.
func compareConfig(cfg JobConfig) (diff.Config, error) {
	format, err := vram.ParseFormat(cfg.Format)
	if err != nil {
		return diff.Config{}, err
	}

	out := diff.Config{
		PrecisionBits: cfg.PrecisionBits,
		Tolerance:     cfg.Tolerance,
		EstimateShape: cfg.Shape,
	}
	out.Decode.Format = format
	switch cfg.ChannelOrder {
	case "", "rgb":
	case "bgr":
		out.Decode.ChannelOrder = vram.OrderBGR
	default:
		return diff.Config{}, fmt.Errorf("unknown channel order %q", cfg.ChannelOrder)
	}
	if cfg.CropVisible {
		crop := image.Rect(0, 0, vram.DisplayWidth, vram.DisplayHeight)
		out.Crop = &crop
	}
	return out, nil
}

// runJob executes one comparison in the background and persists its
// artifacts through the store.
func runJob(ctx context.Context, jm *JobManager, resultStore *store.FSStore, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	// Check for cancellation before doing any work
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	jm.broadcaster.Broadcast(JobEvent{JobID: jobID, State: StateRunning, Timestamp: time.Now()})

	slog.Info("Starting comparison job", "job_id", jobID, "dump", job.Config.DumpPath, "ref", job.Config.RefPath)

	cfg, err := compareConfig(job.Config)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	res, err := diff.Compare(job.Config.DumpPath, job.Config.RefPath, cfg)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	if resultStore != nil {
		if err := persistResult(resultStore, jobID, job.Config, res); err != nil {
			markJobFailed(jm, jobID, err)
			return err
		}
	}

	now := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Overall = &res.Overall
		j.Regions = res.Regions
		j.Shape = res.Shape
		j.Resized = res.Resized
		j.EndTime = &now
	})
	jm.broadcaster.Broadcast(JobEvent{
		JobID:        jobID,
		State:        StateCompleted,
		MatchPercent: res.Overall.MatchPercent,
		DiffCount:    res.Overall.DiffCount(),
		Timestamp:    now,
	})

	slog.Info("Comparison job complete", "job_id", jobID, "match_pct", res.Overall.MatchPercent)
	return nil
}

// persistResult writes the record and every rendered artifact into the
// job's result directory.
func persistResult(resultStore *store.FSStore, jobID string, cfg JobConfig, res *diff.Result) error {
	rec := store.NewRecord(jobID, cfg, res)
	if err := resultStore.SaveResult(jobID, rec); err != nil {
		return err
	}

	if err := report.SavePNG(res.Decoded.Image(), resultStore.ArtifactPath(jobID, "decoded.png")); err != nil {
		return err
	}
	if err := report.SavePNG(report.ClassificationImage(res.Map), resultStore.ArtifactPath(jobID, "diff.png")); err != nil {
		return err
	}
	amplified, err := report.AmplifiedImage(res.Reference, res.Decoded, report.DefaultAmplification)
	if err != nil {
		return err
	}
	if err := report.SavePNG(amplified, resultStore.ArtifactPath(jobID, "amplified.png")); err != nil {
		return err
	}

	f, err := openArtifact(resultStore.ArtifactPath(jobID, "report.txt"))
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteText(f, res)
}

func openArtifact(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	return f, nil
}

func markJobFailed(jm *JobManager, jobID string, err error) {
	now := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &now
	})
	jm.broadcaster.Broadcast(JobEvent{JobID: jobID, State: StateFailed, Error: err.Error(), Timestamp: now})
	slog.Error("Comparison job failed", "job_id", jobID, "error", err)
}

func markJobCancelled(jm *JobManager, jobID string) {
	now := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &now
	})
	jm.broadcaster.Broadcast(JobEvent{JobID: jobID, State: StateCancelled, Timestamp: now})
	slog.Info("Comparison job cancelled", "job_id", jobID)
}
