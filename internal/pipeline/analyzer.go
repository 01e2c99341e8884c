package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"adlens/internal/ai"
	"adlens/internal/model"
)

const marker = "%%"

// Frame is a keyframe handed to the model, with the public URL of its stored copy.
type Frame struct {
	Timestamp float64
	Image     ai.Image
	URL       string
}

// Analyzer runs the AI stages of an analysis.
type Analyzer struct {
	client       ai.Client
	defaultModel string
	language     string
	logger       zerolog.Logger
}

// NewAnalyzer creates an Analyzer. language is a locale such as zh-TW.
func NewAnalyzer(client ai.Client, defaultModel, language string, logger zerolog.Logger) *Analyzer {
	return &Analyzer{client: client, defaultModel: defaultModel, language: language, logger: logger}
}

// ResolveModel maps the free-form modelUsed label of a record to a provider model id.
// Labels containing whitespace are display names and fall back to the default model.
func (a *Analyzer) ResolveModel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" || strings.IndexFunc(label, unicode.IsSpace) >= 0 {
		return a.defaultModel
	}
	return label
}

func (a *Analyzer) lang(override string) string {
	if override != "" {
		return languageName(override)
	}
	return languageName(a.language)
}

func images(frames []Frame) []ai.Image {
	out := make([]ai.Image, len(frames))
	for i, f := range frames {
		out[i] = f.Image
	}
	return out
}

func timestamps(frames []Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Timestamp
	}
	return out
}

// Transcript builds a verified transcript in two passes. The first pass marks doubtful
// words as %%word%%, the second re-checks each of them on its own.
func (a *Analyzer) Transcript(ctx context.Context, frames []Frame, audioHint, modelID, language string) (string, error) {
	lang := a.lang(language)
	imgs := images(frames)

	var draft draftTranscript
	err := ai.GenerateJSON(ctx, a.client, ai.Request{
		Model:  modelID,
		System: systemTranscriber,
		Prompt: transcriptPrompt(lang, audioHint),
		Images: imgs,
		Schema: transcriptSchema,
	}, &draft)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Structured transcription failed, falling back to plain text")
		text, ferr := a.client.Generate(ctx, ai.Request{
			Model:  modelID,
			Prompt: fallbackTranscriptPrompt(lang, audioHint),
			Images: imgs,
		})
		if ferr != nil {
			return "", fmt.Errorf("transcribe: %w", ferr)
		}
		return strings.TrimSpace(strings.ReplaceAll(text, marker, "")), nil
	}

	transcript := draft.Transcript
	for _, w := range draft.LowConfidence {
		if w.SuspectedWord == "" {
			continue
		}
		replacement := w.SuspectedWord
		var verdict struct {
			CorrectedWord string `json:"correctedWord"`
		}
		err := ai.GenerateJSON(ctx, a.client, ai.Request{
			Model:  modelID,
			System: systemVerifier,
			Prompt: verificationPrompt(w),
			Images: imgs,
			Schema: verificationSchema,
		}, &verdict)
		switch {
		case err != nil:
			a.logger.Warn().Err(err).Str("word", w.SuspectedWord).Msg("Word verification failed, keeping original")
		case strings.TrimSpace(verdict.CorrectedWord) != "":
			replacement = strings.TrimSpace(verdict.CorrectedWord)
		}
		transcript = strings.Replace(transcript, marker+w.SuspectedWord+marker, replacement, 1)
	}
	return strings.ReplaceAll(transcript, marker, ""), nil
}

// Preliminary produces the quick report: verified transcript, core theme, scene tags and risk words.
func (a *Analyzer) Preliminary(ctx context.Context, frames []Frame, audioHint, modelID, language string) (*model.PreliminaryResult, error) {
	transcript, err := a.Transcript(ctx, frames, audioHint, modelID, language)
	if err != nil {
		return nil, err
	}

	var res model.PreliminaryResult
	if err := ai.GenerateJSON(ctx, a.client, ai.Request{
		Model:  modelID,
		System: systemAnalyst,
		Prompt: preliminaryPrompt(a.lang(language), transcript),
		Images: images(frames),
		Schema: preliminarySchema,
	}, &res); err != nil {
		return nil, fmt.Errorf("preliminary analysis: %w", err)
	}
	res.Transcript = transcript
	if res.SceneTags == nil {
		res.SceneTags = []string{}
	}
	if res.RiskWords == nil {
		res.RiskWords = []string{}
	}
	return &res, nil
}

// PartialFunc receives each finished stage of the full report together with a progress message.
type PartialFunc func(partial model.FullResult, message string) error

// Progress messages reported as the full-report stages finish.
const (
	MessageScoresDone      = "Scores and compliance ready, generating timeline diagnostics..."
	MessageDiagnosticsDone = "Diagnostics ready, generating strategy suggestions..."
	MessageStrategyDone    = "Strategy ready, compiling the final report..."
)

// Full runs the three full-report stages concurrently. Each stage reports through onPartial
// as soon as it finishes; the merged result is returned once all are done.
func (a *Analyzer) Full(ctx context.Context, frames []Frame, prelim *model.PreliminaryResult, opts model.AnalysisOptions, modelID string, onPartial PartialFunc) (*model.FullResult, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("full analysis: no frames")
	}
	if prelim == nil {
		return nil, fmt.Errorf("full analysis: missing preliminary result")
	}

	var (
		mu     sync.Mutex
		result model.FullResult
	)
	finish := func(partial model.FullResult, message string) error {
		mu.Lock()
		result.Merge(partial)
		mu.Unlock()
		if onPartial != nil {
			return onPartial(partial, message)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		partial, err := a.scoresAndCompliance(gctx, frames, prelim, opts, modelID)
		if err != nil {
			return fmt.Errorf("scores and compliance: %w", err)
		}
		return finish(partial, MessageScoresDone)
	})
	g.Go(func() error {
		partial, err := a.diagnostics(gctx, frames, prelim, opts, modelID)
		if err != nil {
			return fmt.Errorf("diagnostics: %w", err)
		}
		return finish(partial, MessageDiagnosticsDone)
	})
	g.Go(func() error {
		partial, err := a.strategy(gctx, frames, prelim, opts, modelID)
		if err != nil {
			return fmt.Errorf("strategy: %w", err)
		}
		return finish(partial, MessageStrategyDone)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *Analyzer) scoresAndCompliance(ctx context.Context, frames []Frame, prelim *model.PreliminaryResult, opts model.AnalysisOptions, modelID string) (model.FullResult, error) {
	ts := timestamps(frames)
	var wire wireScores
	if err := ai.GenerateJSON(ctx, a.client, ai.Request{
		Model:  modelID,
		System: systemStrategist,
		Prompt: scoresPrompt(a.lang(opts.Language), prelim, opts, ts),
		Images: images(frames),
		Schema: scoresSchema,
	}, &wire); err != nil {
		return model.FullResult{}, err
	}

	scores := make(map[string]int, len(wire.SubScores))
	for k, v := range wire.SubScores {
		scores[k] = roundScore(v)
	}
	out := model.FullResult{SubScores: scores}
	if wire.ComplianceBreakdown != nil {
		c := wire.ComplianceBreakdown
		out.ComplianceBreakdown = &model.ComplianceBreakdown{
			OverallScore:   roundScore(c.OverallScore),
			OverallSummary: c.OverallSummary,
			Legal:          snapCategory(c.Legal, ts),
			Social:         snapCategory(c.Social, ts),
			AdPolicy:       snapCategory(c.AdPolicy, ts),
		}
	}
	return out, nil
}

func (a *Analyzer) diagnostics(ctx context.Context, frames []Frame, prelim *model.PreliminaryResult, opts model.AnalysisOptions, modelID string) (model.FullResult, error) {
	ts := timestamps(frames)
	var wire wireDiagnostics
	if err := ai.GenerateJSON(ctx, a.client, ai.Request{
		Model:  modelID,
		System: systemStrategist,
		Prompt: diagnosticsPrompt(a.lang(opts.Language), prelim, opts, ts),
		Images: images(frames),
		Schema: diagnosticsSchema,
	}, &wire); err != nil {
		return model.FullResult{}, err
	}
	return model.FullResult{Diagnostics: SnapDiagnostics(wire.Diagnostics, frames)}, nil
}

func (a *Analyzer) strategy(ctx context.Context, frames []Frame, prelim *model.PreliminaryResult, opts model.AnalysisOptions, modelID string) (model.FullResult, error) {
	var wire wireStrategy
	if err := ai.GenerateJSON(ctx, a.client, ai.Request{
		Model:  modelID,
		System: systemStrategist,
		Prompt: strategyPrompt(a.lang(opts.Language), prelim, opts),
		Images: images(frames),
		Schema: strategySchema,
	}, &wire); err != nil {
		return model.FullResult{}, err
	}
	out := model.FullResult{Strengths: wire.Strengths, ImprovementPackage: wire.ImprovementPackage}
	if out.Strengths == nil {
		out.Strengths = []model.StrengthItem{}
	}
	if out.ImprovementPackage == nil {
		out.ImprovementPackage = []model.ImprovementSuggestion{}
	}
	return out, nil
}

// CopySuggestions writes up to three concrete copy variants implementing principle.
func (a *Analyzer) CopySuggestions(ctx context.Context, theme, principle, kind, modelID, language string) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := ai.GenerateJSON(ctx, a.client, ai.Request{
		Model:  modelID,
		System: systemCopywriter,
		Prompt: copyPrompt(a.lang(language), theme, kind, principle),
		Schema: copySchema,
	}, &out); err != nil {
		return nil, fmt.Errorf("copy suggestions: %w", err)
	}
	suggestions := make([]string, 0, 3)
	for _, s := range out.Suggestions {
		if s = strings.TrimSpace(s); s != "" && len(suggestions) < 3 {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions, nil
}

// ClosestTimestamp returns the entry of available nearest to target. The earliest entry wins ties.
func ClosestTimestamp(target float64, available []float64) float64 {
	if len(available) == 0 {
		return 0
	}
	best := available[0]
	for _, t := range available[1:] {
		if abs(t-target) < abs(best-target) {
			best = t
		}
	}
	return best
}

// SnapDiagnostics moves every item onto its closest keyframe, attaches that frame's
// screenshot and orders the items by time.
func SnapDiagnostics(items []wireDiagnostic, frames []Frame) []model.DiagnosticItem {
	ts := timestamps(frames)
	urls := make(map[float64]string, len(frames))
	for _, f := range frames {
		urls[f.Timestamp] = f.URL
	}

	out := make([]model.DiagnosticItem, 0, len(items))
	for _, d := range items {
		snapped := ClosestTimestamp(d.Timestamp, ts)
		out = append(out, model.DiagnosticItem{
			Timestamp:     snapped,
			ScreenshotURL: urls[snapped],
			Title:         d.Title,
			PenaltyReason: d.PenaltyReason,
			Suggestion:    d.Suggestion,
			Impact:        d.Impact,
			FixType:       d.FixType,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

func snapCategory(c wireCategory, ts []float64) model.ComplianceCategoryReport {
	issues := make([]model.ComplianceIssue, 0, len(c.Issues))
	for _, is := range c.Issues {
		issue := model.ComplianceIssue{Description: is.Description, Severity: is.Severity}
		if is.Timestamp != nil {
			snapped := ClosestTimestamp(*is.Timestamp, ts)
			issue.Timestamp = &snapped
		}
		issues = append(issues, issue)
	}
	return model.ComplianceCategoryReport{Score: roundScore(c.Score), Summary: c.Summary, Issues: issues}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
