package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"adlens/internal/ai"
	apperrors "adlens/internal/errors"
	"adlens/internal/media"
	"adlens/internal/model"
)

// fakeAI answers by schema name. Unstructured requests get fallback.
type fakeAI struct {
	mu            sync.Mutex
	responses     map[string]string
	failures      map[string]error
	fallback      string
	requests      []ai.Request
	transcribeErr error
}

func newFakeAI() *fakeAI {
	return &fakeAI{responses: map[string]string{}, failures: map[string]error{}}
}

func (f *fakeAI) Generate(ctx context.Context, req ai.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	name := "text"
	if req.Schema != nil {
		name = req.Schema.Name
	}
	if err := f.failures[name]; err != nil {
		return "", err
	}
	if name == "text" {
		return f.fallback, nil
	}
	if name == "word_verification" {
		for word, fixed := range verifications {
			if strings.Contains(req.Prompt, fmt.Sprintf("%q", word)) {
				if fixed == "" {
					return "", errors.New("verification unavailable")
				}
				return fmt.Sprintf(`{"correctedWord":%q}`, fixed), nil
			}
		}
	}
	resp, ok := f.responses[name]
	if !ok {
		return "", fmt.Errorf("no canned response for %s", name)
	}
	return resp, nil
}

func (f *fakeAI) Transcribe(ctx context.Context, _, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.transcribeErr != nil {
		return "", f.transcribeErr
	}
	return "spoken words", nil
}

func (f *fakeAI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Schema != nil && r.Schema.Name == name {
			n++
		}
	}
	return n
}

// verifications maps a suspected word to its correction; "" makes the check fail.
var verifications = map[string]string{
	"享妮峰": "小蜜蜂",
	"床墊店": "",
}

const (
	draftJSON = `{"transcript":"快樂%%享妮峰%%來到%%床墊店%%，只要%%7999%%","lowConfidence":[` +
		`{"suspectedWord":"享妮峰","reason":"odd phrase","alternatives":["小蜜蜂"]},` +
		`{"suspectedWord":"床墊店","reason":"brand?","alternatives":["床聚點"]}]}`
	preliminaryJSON = `{"coreTheme":"Mattress sale","sceneTags":["bedroom"],"riskWords":["保證"]}`
	scoresJSON      = `{"subScores":{"Hook Effectiveness":90,"Rhythm & Retention":90,"Readability":90,"Visual Quality":90,` +
		`"Composition & Visibility":90,"Brand Presence":90,"Audio Quality":90,"Message Density":90,"CTA Clarity":90,"Platform Fit":90.4},` +
		`"complianceBreakdown":{"overallScore":95,"overallSummary":"ok",` +
		`"legal":{"score":90,"summary":"s","issues":[{"description":"claim","timestamp":4.4,"severity":"high"}]},` +
		`"social":{"score":100,"summary":"s","issues":[]},"adPolicy":{"score":95,"summary":"s","issues":[{"description":"no time","severity":"low"}]}}}`
	diagnosticsJSON = `{"diagnostics":[` +
		`{"timestamp":9.7,"title":"late cta","penaltyReason":"r","suggestion":"s","impact":"high","fixType":"Pacing"},` +
		`{"timestamp":1.2,"title":"text cropped","penaltyReason":"r","suggestion":"s","impact":"medium","fixType":"Text/Graphics"}]}`
	strategyJSON = `{"strengths":[{"title":"Fast hook","description":"d"}],` +
		`"improvementPackage":[{"type":"CTA","title":"t","description":"d","actionableItem":"a"}]}`
)

func cannedAI() *fakeAI {
	f := newFakeAI()
	f.responses["draft_transcript"] = draftJSON
	f.responses["preliminary_analysis"] = preliminaryJSON
	f.responses["scores_and_compliance"] = scoresJSON
	f.responses["diagnostics"] = diagnosticsJSON
	f.responses["strengths_and_improvements"] = strategyJSON
	return f
}

// fakeExtractor produces frames without ffmpeg.
type fakeExtractor struct {
	duration float64
	noAudio  bool
	failAt   string
}

func (f *fakeExtractor) Duration(context.Context, string) (float64, error) {
	if f.failAt == "duration" {
		return 0, errors.New("ffprobe: exit status 1")
	}
	return f.duration, nil
}

func (f *fakeExtractor) FrameAt(_ context.Context, _ string, out string, ts float64) (media.Frame, error) {
	data := []byte(fmt.Sprintf("frame@%.2f", ts))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return media.Frame{}, err
	}
	return media.Frame{Timestamp: ts, Path: out, Data: data}, nil
}

func (f *fakeExtractor) ExtractFrames(ctx context.Context, video, dir string, duration float64, n int) ([]media.Frame, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var frames []media.Frame
	for i, ts := range media.FrameTimestamps(duration, n) {
		fr, err := f.FrameAt(ctx, video, fmt.Sprintf("%s/%d.jpg", dir, i), ts)
		if err != nil {
			return nil, err
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func (f *fakeExtractor) ExtractAudio(context.Context, string, string) (string, error) {
	if f.noAudio {
		return "", media.ErrNoAudio
	}
	return "audio.wav", nil
}

// fakeRecorder applies updates to an in-memory record.
type fakeRecorder struct {
	mu       sync.Mutex
	record   *model.Analysis
	updates  []model.ProgressUpdate
	statuses []model.AnalysisStatus
	deleted  bool
}

func (f *fakeRecorder) SaveProgress(_ context.Context, id uint, u model.ProgressUpdate) (*model.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleted {
		return nil, apperrors.ErrAnalysisNotFound
	}
	f.updates = append(f.updates, u)
	u.Apply(f.record)
	if u.Status != "" {
		f.statuses = append(f.statuses, u.Status)
	}
	cp := *f.record
	return &cp, nil
}
