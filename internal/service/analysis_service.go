package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"adlens/internal/cache"
	apperrors "adlens/internal/errors"
	"adlens/internal/model"
	"adlens/internal/progress"
	"adlens/internal/queue"
	"adlens/internal/repository"
	"adlens/internal/storage"
)

const (
	analysisCacheTTL = 2 * time.Minute
	queuedMessage    = "In queue"
	submitFailed     = "Upload failed, please retry."
)

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
}

// CreateAnalysisInput holds the fields a client sets when it creates a record itself.
type CreateAnalysisInput struct {
	VideoName string
	ModelUsed string
}

// UpdateAnalysisInput is a partial update. Nil fields are left untouched.
type UpdateAnalysisInput struct {
	VideoName         *string
	ThumbnailURL      *string
	VideoURL          *string
	Status            *model.AnalysisStatus
	ProgressMessage   *string
	PreliminaryResult *model.PreliminaryResult
	FullResult        *model.FullResult
	TotalScore        *int
	Grade             *string
	IsPublic          *bool
	ModelUsed         *string
}

// Empty reports whether the input carries no field.
func (in UpdateAnalysisInput) Empty() bool {
	return in.VideoName == nil && in.ThumbnailURL == nil && in.VideoURL == nil &&
		in.Status == nil && in.ProgressMessage == nil && in.PreliminaryResult == nil &&
		in.FullResult == nil && in.TotalScore == nil && in.Grade == nil &&
		in.IsPublic == nil && in.ModelUsed == nil
}

func (in UpdateAnalysisInput) apply(a *model.Analysis) []string {
	var cols []string
	if in.VideoName != nil {
		a.VideoName = *in.VideoName
		cols = append(cols, "video_name")
	}
	if in.ThumbnailURL != nil {
		a.ThumbnailURL = *in.ThumbnailURL
		cols = append(cols, "thumbnail_url")
	}
	if in.VideoURL != nil {
		a.VideoURL = *in.VideoURL
		cols = append(cols, "video_url")
	}
	if in.Status != nil {
		a.Status = *in.Status
		cols = append(cols, "status")
	}
	if in.ProgressMessage != nil {
		a.ProgressMessage = *in.ProgressMessage
		cols = append(cols, "progress_message")
	}
	if in.PreliminaryResult != nil {
		a.PreliminaryResult = in.PreliminaryResult
		cols = append(cols, "preliminary_result")
	}
	if in.FullResult != nil {
		a.FullResult = in.FullResult
		cols = append(cols, "full_result")
	}
	if in.TotalScore != nil {
		a.TotalScore = in.TotalScore
		cols = append(cols, "total_score")
	}
	if in.Grade != nil {
		a.Grade = *in.Grade
		cols = append(cols, "grade")
	}
	if in.IsPublic != nil {
		a.IsPublic = *in.IsPublic
		cols = append(cols, "is_public")
	}
	if in.ModelUsed != nil {
		a.ModelUsed = *in.ModelUsed
		cols = append(cols, "model_used")
	}
	return cols
}

// UploadInput is a video submitted for server-side analysis.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	ModelUsed   string
	Options     model.AnalysisOptions
}

// Comparison holds two records side by side. Deltas are b minus a.
type Comparison struct {
	A               *model.Analysis `json:"a"`
	B               *model.Analysis `json:"b"`
	TotalScoreDelta *int            `json:"totalScoreDelta,omitempty"`
	SubScoreDeltas  map[string]int  `json:"subScoreDeltas"`
}

// CopyWriter rewrites ad copy around a record's core theme.
type CopyWriter interface {
	ResolveModel(label string) string
	CopySuggestions(ctx context.Context, theme, principle, kind, modelID, language string) ([]string, error)
}

// AnalysisService manages analysis records and hands uploads to the pipeline.
type AnalysisService interface {
	List(ctx context.Context, user *model.User) ([]model.Analysis, error)
	Get(ctx context.Context, user *model.User, id uint) (*model.Analysis, error)
	Create(ctx context.Context, user *model.User, in CreateAnalysisInput) (*model.Analysis, error)
	Update(ctx context.Context, user *model.User, id uint, in UpdateAnalysisInput) (*model.Analysis, error)
	// Delete succeeds when the record is already gone.
	Delete(ctx context.Context, user *model.User, id uint) error
	Compare(ctx context.Context, user *model.User, a, b uint) (*Comparison, error)
	Submit(ctx context.Context, user *model.User, in UploadInput) (*model.Analysis, error)
	CopySuggestions(ctx context.Context, user *model.User, id uint, originalText, suggestionType string) ([]string, error)
	// SaveProgress records one pipeline step and notifies subscribers.
	SaveProgress(ctx context.Context, id uint, update model.ProgressUpdate) (*model.Analysis, error)
}

type analysisService struct {
	repo   repository.AnalysisRepository
	cache  *cache.Client
	store  storage.ObjectStore
	queue  queue.Queue
	hub    *progress.Hub
	writer CopyWriter
	logger zerolog.Logger
}

// NewAnalysisService wires the analysis service. store, queue and writer may be nil when uploads are disabled.
func NewAnalysisService(
	repo repository.AnalysisRepository,
	cache *cache.Client,
	store storage.ObjectStore,
	queue queue.Queue,
	hub *progress.Hub,
	writer CopyWriter,
	logger zerolog.Logger,
) AnalysisService {
	return &analysisService{
		repo:   repo,
		cache:  cache,
		store:  store,
		queue:  queue,
		hub:    hub,
		writer: writer,
		logger: logger,
	}
}

func (s *analysisService) cacheKey(id uint) string {
	return fmt.Sprintf("analysis:%d", id)
}

func (s *analysisService) changed(ctx context.Context, a *model.Analysis) {
	_ = s.cache.Delete(ctx, s.cacheKey(a.ID))
	s.hub.Publish(a)
}

func (s *analysisService) List(ctx context.Context, user *model.User) ([]model.Analysis, error) {
	analyses, err := s.repo.List(ctx, user.ID, user.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return analyses, nil
}

func (s *analysisService) load(ctx context.Context, id uint) (*model.Analysis, error) {
	var cached model.Analysis
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) && cached.ID == id {
		return &cached, nil
	}

	a, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find analysis %d: %w", id, err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), a, analysisCacheTTL)
	return a, nil
}

func (s *analysisService) Get(ctx context.Context, user *model.User, id uint) (*model.Analysis, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(user) {
		return nil, apperrors.ErrForbiddenView
	}
	return a, nil
}

func (s *analysisService) Create(ctx context.Context, user *model.User, in CreateAnalysisInput) (*model.Analysis, error) {
	a := &model.Analysis{
		VideoName:       in.VideoName,
		ThumbnailURL:    "",
		Status:          model.StatusProcessing,
		ProgressMessage: queuedMessage,
		UploaderID:      user.ID,
		UploaderName:    user.Name,
		ModelUsed:       in.ModelUsed,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create analysis: %w", err)
	}

	s.logger.Info().Uint("analysis_id", a.ID).Str("user_id", user.ID).Msg("Analysis created")
	s.hub.Publish(a)
	return a, nil
}

func (s *analysisService) Update(ctx context.Context, user *model.User, id uint, in UpdateAnalysisInput) (*model.Analysis, error) {
	if in.Empty() {
		return nil, apperrors.ErrNoUpdateFields
	}

	// Existence, then ownership, then the payload.
	a, err := s.repo.Mutate(ctx, id, func(a *model.Analysis) ([]string, error) {
		if !a.OwnedBy(user) && !user.IsAdmin() {
			return nil, apperrors.ErrForbiddenUpdate
		}
		if in.Status != nil && !in.Status.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		return in.apply(a), nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAnalysisNotFound
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrForbiddenUpdate) || errors.Is(err, apperrors.ErrInvalidStatus) {
			return nil, err
		}
		return nil, fmt.Errorf("update analysis %d: %w", id, err)
	}

	s.changed(ctx, a)
	return a, nil
}

func (s *analysisService) Delete(ctx context.Context, user *model.User, id uint) error {
	a, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find analysis %d: %w", id, err)
	}
	if !a.OwnedBy(user) && !user.IsAdmin() {
		return apperrors.ErrForbiddenDelete
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete analysis %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.hub.PublishDeleted(id)

	if s.store != nil {
		if err := s.store.DeletePrefix(ctx, a.MediaPrefix()); err != nil {
			s.logger.Warn().Err(err).Uint("analysis_id", id).Msg("Failed to remove stored media")
		}
	}

	s.logger.Info().Uint("analysis_id", id).Str("user_id", user.ID).Msg("Analysis deleted")
	return nil
}

func (s *analysisService) Compare(ctx context.Context, user *model.User, aID, bID uint) (*Comparison, error) {
	a, err := s.Get(ctx, user, aID)
	if err != nil {
		return nil, err
	}
	b, err := s.Get(ctx, user, bID)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{A: a, B: b, SubScoreDeltas: map[string]int{}}
	if a.TotalScore != nil && b.TotalScore != nil {
		delta := *b.TotalScore - *a.TotalScore
		cmp.TotalScoreDelta = &delta
	}
	if a.FullResult != nil && b.FullResult != nil {
		for key, av := range a.FullResult.SubScores {
			if bv, ok := b.FullResult.SubScores[key]; ok {
				cmp.SubScoreDeltas[key] = bv - av
			}
		}
	}
	return cmp, nil
}

// videoExtension returns the lower-case extension to store the upload under.
func videoExtension(fileName, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := videoExtensions[ext]; ok {
		return ext, nil
	}
	if strings.HasPrefix(contentType, "video/") {
		for known, mime := range videoExtensions {
			if mime == contentType {
				return known, nil
			}
		}
		return ".mp4", nil
	}
	return "", apperrors.ErrInvalidVideo
}

func (s *analysisService) Submit(ctx context.Context, user *model.User, in UploadInput) (*model.Analysis, error) {
	if s.store == nil || s.queue == nil {
		return nil, errors.New("uploads are not configured")
	}
	if in.FileName == "" || in.Size <= 0 || in.Body == nil {
		return nil, apperrors.ErrInvalidVideo
	}
	ext, err := videoExtension(in.FileName, in.ContentType)
	if err != nil {
		return nil, err
	}
	contentType := in.ContentType
	if !strings.HasPrefix(contentType, "video/") {
		contentType = videoExtensions[ext]
	}

	a, err := s.Create(ctx, user, CreateAnalysisInput{VideoName: in.FileName, ModelUsed: in.ModelUsed})
	if err != nil {
		return nil, err
	}

	key := a.MediaPrefix() + "source" + ext
	url, err := s.store.Put(ctx, key, in.Body, in.Size, contentType)
	if err != nil {
		s.fail(ctx, a)
		return nil, fmt.Errorf("store video: %w", err)
	}
	a.VideoURL = url
	if err := s.repo.Update(ctx, a, "video_url"); err != nil {
		s.fail(ctx, a)
		return nil, fmt.Errorf("save video url: %w", err)
	}

	job := queue.Job{AnalysisID: a.ID, VideoKey: key, Model: in.ModelUsed, Options: in.Options}
	if err := s.queue.Publish(ctx, job); err != nil {
		s.fail(ctx, a)
		return nil, fmt.Errorf("enqueue analysis: %w", err)
	}

	s.logger.Info().Uint("analysis_id", a.ID).Str("key", key).Msg("Analysis queued")
	s.changed(ctx, a)
	return a, nil
}

// fail marks a record whose submission could not be completed.
func (s *analysisService) fail(ctx context.Context, a *model.Analysis) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.SaveProgress(ctx, a.ID, model.ProgressUpdate{Status: model.StatusError, Message: submitFailed}); err != nil {
		s.logger.Error().Err(err).Uint("analysis_id", a.ID).Msg("Failed to mark analysis as failed")
	}
}

func (s *analysisService) CopySuggestions(ctx context.Context, user *model.User, id uint, originalText, suggestionType string) ([]string, error) {
	a, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if a.PreliminaryResult == nil || a.PreliminaryResult.CoreTheme == "" {
		return nil, apperrors.ErrNotAnalyzed
	}
	if s.writer == nil {
		return nil, apperrors.ErrAIUnavailable
	}

	suggestions, err := s.writer.CopySuggestions(ctx, a.PreliminaryResult.CoreTheme, originalText, suggestionType, s.writer.ResolveModel(a.ModelUsed), "")
	if err != nil {
		s.logger.Error().Err(err).Uint("analysis_id", id).Msg("Copy suggestions failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAIUnavailable, err)
	}
	return suggestions, nil
}

func (s *analysisService) SaveProgress(ctx context.Context, id uint, update model.ProgressUpdate) (*model.Analysis, error) {
	a, err := s.repo.Mutate(ctx, id, func(a *model.Analysis) ([]string, error) {
		return update.Apply(a), nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save progress for analysis %d: %w", id, err)
	}

	s.changed(ctx, a)
	return a, nil
}
