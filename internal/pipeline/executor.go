// Package pipeline drives one leased job through the full processing
// sequence: download, frame extraction, frame selection, face analysis, head
// fitting, style ranking, and per-style render/refine/upload, with a durable
// progress checkpoint after every stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hairworks/internal/domain"
	"hairworks/internal/infra"
	"hairworks/internal/media"
	"hairworks/internal/pipeline/faceshape"
	"hairworks/internal/pipeline/frames"
	"hairworks/internal/pipeline/rank"
)

// Stage checkpoint progress values. The per-style renders spread the
// remaining budget up to 95; only the completion write reaches 100.
const (
	progressPickup   = 5
	progressDownload = 15
	progressExtract  = 25
	progressSelect   = 35
	progressAnalyze  = 50
	progressFit      = 60
	progressRank     = 70
	progressCap      = 95
	renderBudget     = 25
)

// Executor composes the collaborators into the per-job sequence and owns
// failure handling and temp-file cleanup.
type Executor struct {
	jobs      domain.JobRepository
	fetcher   media.VideoFetcher
	extractor media.FrameExtractor
	selector  *frames.Selector
	analyzer  *faceshape.Analyzer
	fitter    media.HeadFitter
	ranker    *rank.Ranker
	renderer  media.Renderer
	refiner   media.Refiner
	uploader  media.ViewUploader
	logger    infra.Logger
}

// Deps bundles the executor's collaborators.
type Deps struct {
	Jobs      domain.JobRepository
	Fetcher   media.VideoFetcher
	Extractor media.FrameExtractor
	Selector  *frames.Selector
	Analyzer  *faceshape.Analyzer
	Fitter    media.HeadFitter
	Ranker    *rank.Ranker
	Renderer  media.Renderer
	Refiner   media.Refiner
	Uploader  media.ViewUploader
	Logger    infra.Logger
}

// NewExecutor wires a pipeline executor.
func NewExecutor(deps Deps) *Executor {
	return &Executor{
		jobs:      deps.Jobs,
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		selector:  deps.Selector,
		analyzer:  deps.Analyzer,
		fitter:    deps.Fitter,
		ranker:    deps.Ranker,
		renderer:  deps.Renderer,
		refiner:   deps.Refiner,
		uploader:  deps.Uploader,
		logger:    deps.Logger,
	}
}

// Process runs the pipeline for one leased job. A returned error means the
// job was marked failed and the caller should abandon the lease; a nil
// return means the message can be deleted, which covers successful runs as
// well as jobs that are missing or already terminal.
func (e *Executor) Process(ctx context.Context, jobID string) error {
	logger := e.logger.With().Str("job_id", jobID).Logger()

	job, err := e.jobs.GetByID(ctx, jobID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn().Msg("pipeline: job not found, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Status.Terminal() {
		// A redelivered message for a finished job; the earlier worker
		// crashed after its terminal write but before the queue delete.
		logger.Info().Str("status", string(job.Status)).Msg("pipeline: job already terminal, skipping")
		return nil
	}

	if err := e.run(ctx, job, logger); err != nil {
		logger.Error().Err(err).Msg("pipeline: job failed")
		if markErr := e.jobs.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			logger.Error().Err(markErr).Msg("pipeline: failure write failed")
		}
		return err
	}
	return nil
}

func (e *Executor) run(ctx context.Context, job *domain.Job, logger infra.Logger) error {
	if err := e.checkpoint(ctx, job.ID, progressPickup); err != nil {
		return err
	}

	logger.Info().Str("upload_key", job.UploadKey).Msg("pipeline: downloading video")
	videoPath, err := e.fetcher.Fetch(ctx, job.UploadKey)
	if err != nil {
		return err
	}
	defer os.Remove(videoPath)
	if err := e.checkpoint(ctx, job.ID, progressDownload); err != nil {
		return err
	}

	logger.Info().Msg("pipeline: extracting frames")
	allFrames, err := e.extractor.Extract(ctx, videoPath)
	if err != nil {
		return err
	}
	os.Remove(videoPath)
	frameDir := ""
	if len(allFrames) > 0 {
		frameDir = filepath.Dir(allFrames[0])
	}
	defer func() {
		if frameDir != "" {
			os.RemoveAll(frameDir)
		}
	}()
	if err := e.checkpoint(ctx, job.ID, progressExtract); err != nil {
		return err
	}

	logger.Info().Int("frames", len(allFrames)).Msg("pipeline: selecting frames")
	selected, err := e.selector.SelectFrames(ctx, allFrames)
	if err != nil {
		return err
	}
	if err := e.checkpoint(ctx, job.ID, progressSelect); err != nil {
		return err
	}

	logger.Info().Msg("pipeline: analyzing face")
	analysis, err := e.analyzer.AnalyzeFrames(ctx, selected)
	if err != nil {
		return err
	}
	if err := e.checkpoint(ctx, job.ID, progressAnalyze); err != nil {
		return err
	}

	logger.Info().Msg("pipeline: fitting head model")
	headParams, err := e.fitter.Fit(ctx, selected)
	if err != nil {
		return err
	}
	if err := e.checkpoint(ctx, job.ID, progressFit); err != nil {
		return err
	}

	// Frames are consumed; release them before the long render phase.
	if frameDir != "" {
		os.RemoveAll(frameDir)
		frameDir = ""
	}

	logger.Info().Msg("pipeline: ranking styles")
	ranked, err := e.ranker.Rank(ctx, analysis.HeadShape, job.Preferences, analysis.HairTexture)
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		return fmt.Errorf("no catalog styles match preferences")
	}
	if err := e.checkpoint(ctx, job.ID, progressRank); err != nil {
		return err
	}

	results := make([]domain.StyleResult, 0, len(ranked))
	perStyle := renderBudget / len(ranked)
	for i, style := range ranked {
		position := i + 1
		logger.Info().
			Str("slug", style.Entry.Slug).
			Int("rank", position).
			Int("of", len(ranked)).
			Msg("pipeline: rendering style")

		views, err := e.renderer.Render(ctx, media.RenderRequest{
			StyleSlug:    style.Entry.Slug,
			HeadScale:    headParams.Scale,
			HeadCentroid: headParams.Centroid,
		})
		if err != nil {
			return fmt.Errorf("render style %s: %w", style.Entry.Slug, err)
		}
		if err := e.refiner.Refine(ctx, views); err != nil {
			return fmt.Errorf("refine style %s: %w", style.Entry.Slug, err)
		}
		urls, err := e.uploader.Upload(ctx, job.ID, style.Entry.Slug, views)
		if err != nil {
			return fmt.Errorf("upload style %s: %w", style.Entry.Slug, err)
		}

		results = append(results, AssembleResult(position, style, urls))

		progress := progressRank + position*perStyle
		if progress > progressCap {
			progress = progressCap
		}
		if err := e.checkpoint(ctx, job.ID, progress); err != nil {
			return err
		}
	}

	if err := e.jobs.MarkCompleted(ctx, job.ID, analysis.HeadShape, results); err != nil {
		return fmt.Errorf("completion write: %w", err)
	}
	logger.Info().Int("styles", len(results)).Msg("pipeline: job completed")
	return nil
}

func (e *Executor) checkpoint(ctx context.Context, jobID string, progress int) error {
	if err := e.jobs.SetProgress(ctx, jobID, domain.JobStatusProcessing, progress); err != nil {
		return fmt.Errorf("checkpoint at %d: %w", progress, err)
	}
	return nil
}
