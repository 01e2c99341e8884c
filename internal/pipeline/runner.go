package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"adlens/internal/ai"
	apperrors "adlens/internal/errors"
	"adlens/internal/media"
	"adlens/internal/model"
	"adlens/internal/queue"
	"adlens/internal/storage"
)

// Progress messages stored on the record while a job runs.
const (
	MessagePreliminary     = "Generating thumbnail and transcript..."
	MessagePreliminaryDone = "Preliminary analysis complete"
	MessageFull            = "Preliminary analysis complete, running full analysis..."
	MessageComplete        = "Analysis complete"
	MessageFailed          = "Analysis failed, please retry."
	MessageRequeued        = "In queue"
)

// ErrInterrupted is returned when the job's context ends before the analysis does.
// The record is put back in the queue state and the job should be redelivered.
var ErrInterrupted = errors.New("analysis interrupted")

// Recorder persists pipeline progress on the analysis record.
type Recorder interface {
	SaveProgress(ctx context.Context, id uint, update model.ProgressUpdate) (*model.Analysis, error)
}

// Extractor is the media tooling the runner needs.
type Extractor interface {
	Duration(ctx context.Context, video string) (float64, error)
	FrameAt(ctx context.Context, video, out string, ts float64) (media.Frame, error)
	ExtractFrames(ctx context.Context, video, dir string, duration float64, n int) ([]media.Frame, error)
	ExtractAudio(ctx context.Context, video, out string) (string, error)
}

// Config tunes the runner.
type Config struct {
	WorkDir           string
	PreliminaryFrames int
	FullFrames        int
	Language          string
	Placement         model.Placement
}

// Runner executes analysis jobs end to end.
type Runner struct {
	analyzer *Analyzer
	client   ai.Client
	media    Extractor
	store    storage.ObjectStore
	recorder Recorder
	cfg      Config
	logger   zerolog.Logger
}

// NewRunner wires a Runner.
func NewRunner(analyzer *Analyzer, client ai.Client, extractor Extractor, store storage.ObjectStore, recorder Recorder, cfg Config, logger zerolog.Logger) *Runner {
	if cfg.PreliminaryFrames <= 0 {
		cfg.PreliminaryFrames = 4
	}
	if cfg.FullFrames <= 0 {
		cfg.FullFrames = 12
	}
	if cfg.Placement == "" {
		cfg.Placement = model.PlacementReels
	}
	return &Runner{
		analyzer: analyzer,
		client:   client,
		media:    extractor,
		store:    store,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run analyzes the video of job. A failure marks the record as errored before returning.
// A record deleted while the job runs ends the job quietly. When ctx ends first the record
// goes back to processing and ErrInterrupted is returned.
func (r *Runner) Run(ctx context.Context, job queue.Job) error {
	log := r.logger.With().Uint("analysis_id", job.AnalysisID).Logger()
	started := time.Now()

	err := r.run(ctx, job, log)
	if errors.Is(err, apperrors.ErrAnalysisNotFound) {
		log.Info().Msg("Analysis deleted while running, dropping job")
		return nil
	}
	if err != nil && ctx.Err() != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(started)).Msg("Analysis interrupted")
		r.record(ctx, job.AnalysisID, model.ProgressUpdate{Status: model.StatusProcessing, Message: MessageRequeued}, log)
		return fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	}
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("Analysis failed")
		r.record(ctx, job.AnalysisID, model.ProgressUpdate{Status: model.StatusError, Message: MessageFailed}, log)
		return err
	}
	log.Info().Dur("elapsed", time.Since(started)).Msg("Analysis complete")
	return nil
}

// record saves a final update even when ctx is already done.
func (r *Runner) record(ctx context.Context, id uint, update model.ProgressUpdate, log zerolog.Logger) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := r.recorder.SaveProgress(saveCtx, id, update); err != nil && !errors.Is(err, apperrors.ErrAnalysisNotFound) {
		log.Error().Err(err).Str("status", string(update.Status)).Msg("Failed to record analysis status")
	}
}

func (r *Runner) run(ctx context.Context, job queue.Job, log zerolog.Logger) error {
	id := job.AnalysisID
	opts := job.Options
	if opts.Placement == "" {
		opts.Placement = r.cfg.Placement
	}
	if opts.Language == "" {
		opts.Language = r.cfg.Language
	}
	modelID := r.analyzer.ResolveModel(job.Model)

	if _, err := r.recorder.SaveProgress(ctx, id, model.ProgressUpdate{
		Status:  model.StatusAnalyzingPreliminary,
		Message: MessagePreliminary,
	}); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp(r.cfg.WorkDir, fmt.Sprintf("analysis-%d-", id))
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	video, err := r.fetchVideo(ctx, job.VideoKey, workDir)
	if err != nil {
		return err
	}
	duration, err := r.media.Duration(ctx, video)
	if err != nil {
		return err
	}
	log.Debug().Float64("duration", duration).Str("model", modelID).Msg("Video ready")

	prefix := model.MediaPrefix(id)

	var (
		thumbnailURL string
		prelim       *model.PreliminaryResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := r.media.FrameAt(gctx, video, filepath.Join(workDir, "thumbnail.jpg"), media.ThumbnailTimestamp(duration))
		if err != nil {
			return fmt.Errorf("thumbnail: %w", err)
		}
		thumbnailURL, err = r.putImage(gctx, path.Join(prefix, "thumbnail.jpg"), f.Data)
		return err
	})
	g.Go(func() error {
		raw, err := r.media.ExtractFrames(gctx, video, filepath.Join(workDir, "preliminary"), duration, r.cfg.PreliminaryFrames)
		if err != nil {
			return err
		}
		hint := r.audioHint(gctx, video, workDir, opts.Language, log)
		prelim, err = r.analyzer.Preliminary(gctx, toFrames(raw), hint, modelID, opts.Language)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if _, err := r.recorder.SaveProgress(ctx, id, model.ProgressUpdate{
		Status:       model.StatusPreliminaryComplete,
		Message:      MessagePreliminaryDone,
		ThumbnailURL: &thumbnailURL,
		Preliminary:  prelim,
	}); err != nil {
		return err
	}
	if _, err := r.recorder.SaveProgress(ctx, id, model.ProgressUpdate{
		Status:  model.StatusAnalyzingFull,
		Message: MessageFull,
	}); err != nil {
		return err
	}

	raw, err := r.media.ExtractFrames(ctx, video, filepath.Join(workDir, "full"), duration, r.cfg.FullFrames)
	if err != nil {
		return err
	}
	frames := toFrames(raw)
	for i := range frames {
		url, err := r.putImage(ctx, path.Join(prefix, "frames", fmt.Sprintf("%02d.jpg", i)), frames[i].Image.Data)
		if err != nil {
			return err
		}
		frames[i].URL = url
	}

	full, err := r.analyzer.Full(ctx, frames, prelim, opts, modelID, func(partial model.FullResult, message string) error {
		_, err := r.recorder.SaveProgress(ctx, id, model.ProgressUpdate{Message: message, FullPartial: &partial})
		return err
	})
	if err != nil {
		return err
	}

	total, grade := Score(full)
	_, err = r.recorder.SaveProgress(ctx, id, model.ProgressUpdate{
		Status:     model.StatusFullComplete,
		Message:    MessageComplete,
		TotalScore: &total,
		Grade:      &grade,
	})
	return err
}

// audioHint transcribes the soundtrack. Without audio, or when speech-to-text is unavailable,
// the transcript is built from the frames alone.
func (r *Runner) audioHint(ctx context.Context, video, workDir, language string, log zerolog.Logger) string {
	audio, err := r.media.ExtractAudio(ctx, video, filepath.Join(workDir, "audio.wav"))
	if errors.Is(err, media.ErrNoAudio) {
		log.Info().Msg("Video has no audio track")
		return ""
	}
	if err != nil {
		log.Warn().Err(err).Msg("Audio extraction failed")
		return ""
	}
	text, err := r.client.Transcribe(ctx, audio, language)
	if err != nil {
		log.Warn().Err(err).Msg("Speech-to-text failed")
		return ""
	}
	return text
}

func (r *Runner) fetchVideo(ctx context.Context, key, dir string) (string, error) {
	rc, err := r.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetch video %s: %w", key, err)
	}
	defer rc.Close()

	dst := filepath.Join(dir, "source"+path.Ext(key))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, rc); err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}
	return dst, nil
}

func (r *Runner) putImage(ctx context.Context, key string, data []byte) (string, error) {
	url, err := r.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return url, nil
}

func toFrames(raw []media.Frame) []Frame {
	frames := make([]Frame, len(raw))
	for i, f := range raw {
		frames[i] = Frame{Timestamp: f.Timestamp, Image: ai.Image{MIME: "image/jpeg", Data: f.Data}}
	}
	return frames
}
