package model

// ProgressUpdate is one step reported by the analysis pipeline. Nil fields are left untouched.
type ProgressUpdate struct {
	Status       AnalysisStatus
	Message      string
	ThumbnailURL *string
	Preliminary  *PreliminaryResult
	// FullPartial is merged section by section into the stored full result.
	FullPartial *FullResult
	TotalScore  *int
	Grade       *string
}

// Apply writes u onto a and returns the changed columns.
func (u ProgressUpdate) Apply(a *Analysis) []string {
	var cols []string
	if u.Status != "" {
		a.Status = u.Status
		cols = append(cols, "status")
	}
	if u.Message != "" {
		a.ProgressMessage = u.Message
		cols = append(cols, "progress_message")
	}
	if u.ThumbnailURL != nil {
		a.ThumbnailURL = *u.ThumbnailURL
		cols = append(cols, "thumbnail_url")
	}
	if u.Preliminary != nil {
		a.PreliminaryResult = u.Preliminary
		cols = append(cols, "preliminary_result")
	}
	if u.FullPartial != nil {
		if a.FullResult == nil {
			a.FullResult = &FullResult{}
		}
		a.FullResult.Merge(*u.FullPartial)
		cols = append(cols, "full_result")
	}
	if u.TotalScore != nil {
		score := *u.TotalScore
		a.TotalScore = &score
		cols = append(cols, "total_score")
	}
	if u.Grade != nil {
		a.Grade = *u.Grade
		cols = append(cols, "grade")
	}
	return cols
}
