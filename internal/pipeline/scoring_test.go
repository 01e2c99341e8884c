package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adlens/internal/model"
)

func uniformScores(v int) map[string]int {
	m := make(map[string]int, len(model.SubScoreKeys))
	for _, k := range model.SubScoreKeys {
		m[k] = v
	}
	return m
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		result    *model.FullResult
		wantTotal int
		wantGrade string
	}{
		{
			name:      "uniform scores with compliance",
			result:    &model.FullResult{SubScores: uniformScores(90), ComplianceBreakdown: &model.ComplianceBreakdown{OverallScore: 95}},
			wantTotal: 92, // 0.6*90 + 0.4*95
			wantGrade: "A",
		},
		{
			name:      "missing compliance defaults to 70",
			result:    &model.FullResult{SubScores: uniformScores(80)},
			wantTotal: 76, // 48 + 28
			wantGrade: "C",
		},
		{
			name:      "blended grade B",
			result:    &model.FullResult{SubScores: uniformScores(85), ComplianceBreakdown: &model.ComplianceBreakdown{OverallScore: 75}},
			wantTotal: 81, // 51 + 30
			wantGrade: "B",
		},
		{
			name: "half rounds away from zero",
			result: &model.FullResult{
				SubScores:           map[string]int{model.SubScoreHookEffectiveness: 100, model.SubScoreCTAClarity: 75},
				ComplianceBreakdown: &model.ComplianceBreakdown{OverallScore: 0},
			},
			wantTotal: 11, // creative 17.5 -> 10.5 -> 11
			wantGrade: "D",
		},
		{
			name:      "negative clamps to zero",
			result:    &model.FullResult{SubScores: uniformScores(-50), ComplianceBreakdown: &model.ComplianceBreakdown{OverallScore: 0}},
			wantTotal: 0,
			wantGrade: "D",
		},
		{
			name:      "nil result",
			result:    nil,
			wantTotal: 28,
			wantGrade: "D",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, grade := Score(tt.result)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantGrade, grade)
		})
	}
}

func TestGradeBoundaries(t *testing.T) {
	assert.Equal(t, "A", Grade(90))
	assert.Equal(t, "B", Grade(89))
	assert.Equal(t, "B", Grade(80))
	assert.Equal(t, "C", Grade(70))
	assert.Equal(t, "D", Grade(69))
}

func TestSubScoreWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range SubScoreWeights {
		f, _ := w.Float64()
		sum += f
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, SubScoreWeights, 10)
}
