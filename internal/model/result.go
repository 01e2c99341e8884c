package model

import "fmt"

// Placement is the ad placement the creative is evaluated for.
type Placement string

const (
	PlacementReels   Placement = "Reels"
	PlacementStories Placement = "Stories"
	PlacementFeed    Placement = "Feed"
)

// AnalysisOptions tune the full report.
type AnalysisOptions struct {
	Placement Placement `json:"placement"`
	Language  string    `json:"language"`
}

// Sub-score keys returned by the scoring stage.
const (
	SubScoreHookEffectiveness  = "Hook Effectiveness"
	SubScoreRhythmAndRetention = "Rhythm & Retention"
	SubScoreReadability        = "Readability"
	SubScoreVisualQuality      = "Visual Quality"
	SubScoreComposition        = "Composition & Visibility"
	SubScoreBrandPresence      = "Brand Presence"
	SubScoreAudioQuality       = "Audio Quality"
	SubScoreMessageDensity     = "Message Density"
	SubScoreCTAClarity         = "CTA Clarity"
	SubScorePlatformFit        = "Platform Fit"
)

// SubScoreKeys lists every sub-score key in display order.
var SubScoreKeys = []string{
	SubScoreHookEffectiveness,
	SubScoreRhythmAndRetention,
	SubScoreReadability,
	SubScoreVisualQuality,
	SubScoreComposition,
	SubScoreBrandPresence,
	SubScoreAudioQuality,
	SubScoreMessageDensity,
	SubScoreCTAClarity,
	SubScorePlatformFit,
}

// PreliminaryResult is the quick first-pass report.
type PreliminaryResult struct {
	CoreTheme  string   `json:"coreTheme"`
	SceneTags  []string `json:"sceneTags"`
	RiskWords  []string `json:"riskWords"`
	Transcript string   `json:"transcript"`
}

// DiagnosticItem is a time-stamped optimization finding.
type DiagnosticItem struct {
	Timestamp     float64 `json:"timestamp"`
	ScreenshotURL string  `json:"screenshotUrl"`
	Title         string  `json:"title"`
	PenaltyReason string  `json:"penaltyReason"`
	Suggestion    string  `json:"suggestion"`
	Impact        string  `json:"impact"`
	FixType       string  `json:"fixType"`
}

// ImprovementSuggestion is a strategic recommendation.
type ImprovementSuggestion struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ActionableItem string `json:"actionableItem"`
}

// StrengthItem describes something that works in the creative.
type StrengthItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ComplianceIssue is a single compliance risk.
type ComplianceIssue struct {
	Description string   `json:"description"`
	Timestamp   *float64 `json:"timestamp,omitempty"`
	Severity    string   `json:"severity"`
}

// ComplianceCategoryReport scores one compliance category; 100 means no risk.
type ComplianceCategoryReport struct {
	Score   int               `json:"score"`
	Issues  []ComplianceIssue `json:"issues"`
	Summary string            `json:"summary"`
}

// ComplianceBreakdown is the compliance part of the full report.
type ComplianceBreakdown struct {
	OverallScore   int                      `json:"overallScore"`
	OverallSummary string                   `json:"overallSummary"`
	Legal          ComplianceCategoryReport `json:"legal"`
	Social         ComplianceCategoryReport `json:"social"`
	AdPolicy       ComplianceCategoryReport `json:"adPolicy"`
}

// FullResult is the detailed report. Sections fill in as the pipeline stages finish.
type FullResult struct {
	SubScores           map[string]int          `json:"subScores,omitempty"`
	Diagnostics         []DiagnosticItem        `json:"diagnostics,omitempty"`
	ImprovementPackage  []ImprovementSuggestion `json:"improvementPackage,omitempty"`
	Strengths           []StrengthItem          `json:"strengths,omitempty"`
	ComplianceBreakdown *ComplianceBreakdown    `json:"complianceBreakdown,omitempty"`
}

// Merge copies every section set in partial onto r.
func (r *FullResult) Merge(partial FullResult) {
	if partial.SubScores != nil {
		r.SubScores = partial.SubScores
	}
	if partial.Diagnostics != nil {
		r.Diagnostics = partial.Diagnostics
	}
	if partial.ImprovementPackage != nil {
		r.ImprovementPackage = partial.ImprovementPackage
	}
	if partial.Strengths != nil {
		r.Strengths = partial.Strengths
	}
	if partial.ComplianceBreakdown != nil {
		r.ComplianceBreakdown = partial.ComplianceBreakdown
	}
}

// MediaPrefix returns the object storage prefix for an analysis id.
func MediaPrefix(id uint) string {
	return fmt.Sprintf("analyses/%d/", id)
}
