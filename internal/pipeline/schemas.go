package pipeline

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"adlens/internal/ai"
	"adlens/internal/model"
)

var (
	str     = jsonschema.Definition{Type: jsonschema.String}
	num     = jsonschema.Definition{Type: jsonschema.Number}
	integer = jsonschema.Definition{Type: jsonschema.Integer}
	strList = jsonschema.Definition{Type: jsonschema.Array, Items: &str}
)

func object(props map[string]jsonschema.Definition, required ...string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Object, Properties: props, Required: required}
}

func enum(values ...string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Enum: values}
}

func arrayOf(item jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Array, Items: &item}
}

var severity = enum("high", "medium", "low")

var transcriptSchema = &ai.Schema{
	Name: "draft_transcript",
	Definition: object(map[string]jsonschema.Definition{
		"transcript": str,
		"lowConfidence": arrayOf(object(map[string]jsonschema.Definition{
			"suspectedWord": str,
			"reason":        str,
			"alternatives":  strList,
		}, "suspectedWord", "reason", "alternatives")),
	}, "transcript", "lowConfidence"),
}

var verificationSchema = &ai.Schema{
	Name:       "word_verification",
	Definition: object(map[string]jsonschema.Definition{"correctedWord": str}, "correctedWord"),
}

var preliminarySchema = &ai.Schema{
	Name: "preliminary_analysis",
	Definition: object(map[string]jsonschema.Definition{
		"coreTheme": str,
		"sceneTags": strList,
		"riskWords": strList,
	}, "coreTheme", "sceneTags", "riskWords"),
}

func complianceCategory() jsonschema.Definition {
	issue := object(map[string]jsonschema.Definition{
		"description": str,
		"timestamp":   {Type: jsonschema.Number, Description: "Most relevant moment in seconds, if any."},
		"severity":    severity,
	}, "description", "severity")
	return object(map[string]jsonschema.Definition{
		"score":   {Type: jsonschema.Integer, Description: "0-100, where 100 means no risk."},
		"summary": str,
		"issues":  arrayOf(issue),
	}, "score", "summary", "issues")
}

func subScoresDefinition() jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(model.SubScoreKeys))
	for _, k := range model.SubScoreKeys {
		props[k] = integer
	}
	return object(props, model.SubScoreKeys...)
}

var scoresSchema = &ai.Schema{
	Name: "scores_and_compliance",
	Definition: object(map[string]jsonschema.Definition{
		"subScores": subScoresDefinition(),
		"complianceBreakdown": object(map[string]jsonschema.Definition{
			"overallScore":   integer,
			"overallSummary": str,
			"legal":          complianceCategory(),
			"social":         complianceCategory(),
			"adPolicy":       complianceCategory(),
		}, "overallScore", "overallSummary", "legal", "social", "adPolicy"),
	}, "subScores", "complianceBreakdown"),
}

var diagnosticsSchema = &ai.Schema{
	Name: "diagnostics",
	Definition: object(map[string]jsonschema.Definition{
		"diagnostics": arrayOf(object(map[string]jsonschema.Definition{
			"timestamp":     num,
			"title":         str,
			"penaltyReason": str,
			"suggestion":    str,
			"impact":        severity,
			"fixType":       enum("Re-edit", "Text/Graphics", "Color/Lighting", "Audio", "Pacing"),
		}, "timestamp", "title", "penaltyReason", "suggestion", "impact", "fixType")),
	}, "diagnostics"),
}

var strategySchema = &ai.Schema{
	Name: "strengths_and_improvements",
	Definition: object(map[string]jsonschema.Definition{
		"strengths": arrayOf(object(map[string]jsonschema.Definition{
			"title":       str,
			"description": str,
		}, "title", "description")),
		"improvementPackage": arrayOf(object(map[string]jsonschema.Definition{
			"type":           enum("Hook", "Editing", "Subtitles", "CTA"),
			"title":          str,
			"description":    str,
			"actionableItem": str,
		}, "type", "title", "description", "actionableItem")),
	}, "strengths", "improvementPackage"),
}

var copySchema = &ai.Schema{
	Name:       "copy_suggestions",
	Definition: object(map[string]jsonschema.Definition{"suggestions": strList}, "suggestions"),
}

// Wire shapes. Numbers arrive as float64 because models do not always honor integer types.

type lowConfidenceWord struct {
	SuspectedWord string   `json:"suspectedWord"`
	Reason        string   `json:"reason"`
	Alternatives  []string `json:"alternatives"`
}

type draftTranscript struct {
	Transcript    string              `json:"transcript"`
	LowConfidence []lowConfidenceWord `json:"lowConfidence"`
}

type wireIssue struct {
	Description string   `json:"description"`
	Timestamp   *float64 `json:"timestamp"`
	Severity    string   `json:"severity"`
}

type wireCategory struct {
	Score   float64     `json:"score"`
	Summary string      `json:"summary"`
	Issues  []wireIssue `json:"issues"`
}

type wireCompliance struct {
	OverallScore   float64      `json:"overallScore"`
	OverallSummary string       `json:"overallSummary"`
	Legal          wireCategory `json:"legal"`
	Social         wireCategory `json:"social"`
	AdPolicy       wireCategory `json:"adPolicy"`
}

type wireScores struct {
	SubScores           map[string]float64 `json:"subScores"`
	ComplianceBreakdown *wireCompliance    `json:"complianceBreakdown"`
}

type wireDiagnostic struct {
	Timestamp     float64 `json:"timestamp"`
	Title         string  `json:"title"`
	PenaltyReason string  `json:"penaltyReason"`
	Suggestion    string  `json:"suggestion"`
	Impact        string  `json:"impact"`
	FixType       string  `json:"fixType"`
}

type wireDiagnostics struct {
	Diagnostics []wireDiagnostic `json:"diagnostics"`
}

type wireStrategy struct {
	Strengths          []model.StrengthItem          `json:"strengths"`
	ImprovementPackage []model.ImprovementSuggestion `json:"improvementPackage"`
}
