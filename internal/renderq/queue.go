package renderq

import (
	"context"
	"fmt"
	"strings"

	"gradectl/internal/resolve"
)

// AddOptions configures a queued render.
type AddOptions struct {
	PresetName string
	OutputDir  string
	CustomName string
	VideoOnly  bool
}

// Add configures render settings from the preset and queues one job
// for the current timeline. The job ID the host assigned is returned.
func Add(ctx context.Context, project resolve.Project, opts AddOptions) (string, error) {
	preset, err := LookupPreset(opts.PresetName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return "", fmt.Errorf("output directory not set")
	}

	timeline, err := project.CurrentTimeline(ctx)
	if err != nil {
		return "", err
	}
	customName := opts.CustomName
	if customName == "" {
		customName, err = timeline.Name(ctx)
		if err != nil {
			return "", fmt.Errorf("timeline name: %w", err)
		}
	}

	settings := resolve.RenderSettings{
		Format:      preset.Format,
		Codec:       preset.Codec,
		TargetDir:   opts.OutputDir,
		CustomName:  customName,
		ExportVideo: true,
		ExportAudio: !opts.VideoOnly,
	}
	if err := project.SetRenderSettings(ctx, settings); err != nil {
		return "", fmt.Errorf("set render settings: %w", err)
	}

	jobID, err := project.AddRenderJob(ctx)
	if err != nil {
		return "", fmt.Errorf("add render job: %w", err)
	}
	return jobID, nil
}

// Start kicks off rendering for the given jobs, or the whole queue
// when none are named.
func Start(ctx context.Context, project resolve.Project, jobIDs ...string) error {
	jobs, err := project.RenderJobs(ctx)
	if err != nil {
		return fmt.Errorf("list render jobs: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("render queue is empty")
	}
	if err := project.StartRendering(ctx, jobIDs...); err != nil {
		return fmt.Errorf("start rendering: %w", err)
	}
	return nil
}

// ClearCompleted deletes jobs whose status is Complete or Cancelled.
// Returns the IDs removed.
func ClearCompleted(ctx context.Context, project resolve.Project) ([]string, error) {
	jobs, err := project.RenderJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list render jobs: %w", err)
	}

	var removed []string
	for _, job := range jobs {
		if job.Status != resolve.JobStatusComplete && job.Status != resolve.JobStatusCancelled {
			continue
		}
		if err := project.DeleteRenderJob(ctx, job.ID); err != nil {
			return removed, fmt.Errorf("delete job %s: %w", job.ID, err)
		}
		removed = append(removed, job.ID)
	}
	return removed, nil
}
