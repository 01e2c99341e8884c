package pipeline

import (
	"math"

	"github.com/shopspring/decimal"

	"adlens/internal/model"
)

// DefaultComplianceScore stands in when the report has no compliance breakdown.
const DefaultComplianceScore = 70

var (
	creativeShare   = decimal.RequireFromString("0.6")
	complianceShare = decimal.RequireFromString("0.4")
)

// SubScoreWeights weighs each sub-score in the creative score. The weights sum to 1.
var SubScoreWeights = func() map[string]decimal.Decimal {
	w := make(map[string]decimal.Decimal, len(model.SubScoreKeys))
	share := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(model.SubScoreKeys))))
	for _, k := range model.SubScoreKeys {
		w[k] = share
	}
	return w
}()

// Score computes the total score and grade of a full report.
// total = max(0, round(0.6*creative + 0.4*compliance)).
func Score(r *model.FullResult) (int, string) {
	creative := decimal.Zero
	compliance := decimal.NewFromInt(DefaultComplianceScore)
	if r != nil {
		for k, w := range SubScoreWeights {
			creative = creative.Add(decimal.NewFromInt(int64(r.SubScores[k])).Mul(w))
		}
		if r.ComplianceBreakdown != nil {
			compliance = decimal.NewFromInt(int64(r.ComplianceBreakdown.OverallScore))
		}
	}

	total := creative.Mul(creativeShare).Add(compliance.Mul(complianceShare)).Round(0).IntPart()
	if total < 0 {
		total = 0
	}
	return int(total), Grade(int(total))
}

// Grade maps a total score to A (>= 90), B (>= 80), C (>= 70) or D.
func Grade(total int) string {
	switch {
	case total >= 90:
		return "A"
	case total >= 80:
		return "B"
	case total >= 70:
		return "C"
	default:
		return "D"
	}
}

func roundScore(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
