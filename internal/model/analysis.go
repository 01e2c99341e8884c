package model

import "time"

// AnalysisStatus represents a step of the analysis lifecycle.
type AnalysisStatus string

const (
	StatusProcessing           AnalysisStatus = "processing"
	StatusAnalyzingPreliminary AnalysisStatus = "analyzing-preliminary"
	StatusPreliminaryComplete  AnalysisStatus = "preliminary-complete"
	StatusAnalyzingFull        AnalysisStatus = "analyzing-full"
	StatusFullComplete         AnalysisStatus = "full-complete"
	StatusError                AnalysisStatus = "error"
)

// Valid reports whether s is a known status.
func (s AnalysisStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusAnalyzingPreliminary, StatusPreliminaryComplete,
		StatusAnalyzingFull, StatusFullComplete, StatusError:
		return true
	}
	return false
}

// Terminal reports whether no further pipeline updates follow s.
func (s AnalysisStatus) Terminal() bool {
	return s == StatusFullComplete || s == StatusError
}

// Analysis is one uploaded video and the results of its analysis lifecycle.
type Analysis struct {
	ID                uint               `json:"id" gorm:"primaryKey"`
	VideoName         string             `json:"videoName" gorm:"size:255;not null"`
	ThumbnailURL      string             `json:"thumbnailUrl" gorm:"type:text"`
	VideoURL          string             `json:"videoUrl,omitempty" gorm:"type:text"`
	Status            AnalysisStatus     `json:"status" gorm:"size:50;not null;index"`
	ProgressMessage   string             `json:"progressMessage,omitempty" gorm:"size:255"`
	PreliminaryResult *PreliminaryResult `json:"preliminaryResult,omitempty" gorm:"type:json;serializer:json"`
	FullResult        *FullResult        `json:"fullResult,omitempty" gorm:"type:json;serializer:json"`
	TotalScore        *int               `json:"totalScore,omitempty"`
	Grade             string             `json:"grade,omitempty" gorm:"size:10"`
	Date              time.Time          `json:"date" gorm:"not null;autoCreateTime;index"`
	UploaderID        string             `json:"uploaderId" gorm:"size:255;not null;index"`
	UploaderName      string             `json:"uploaderName" gorm:"size:255;not null"`
	IsPublic          bool               `json:"isPublic" gorm:"not null;default:false"`
	ModelUsed         string             `json:"modelUsed,omitempty" gorm:"size:255"`

	Uploader User `json:"-" gorm:"foreignKey:UploaderID;constraint:OnDelete:CASCADE"`
}

// VisibleTo reports whether user may read the record.
func (a *Analysis) VisibleTo(user *User) bool {
	return a.IsPublic || a.OwnedBy(user) || user.IsAdmin()
}

// OwnedBy reports whether user uploaded the record.
func (a *Analysis) OwnedBy(user *User) bool {
	return user != nil && a.UploaderID == user.ID
}

// MediaPrefix is the object storage prefix holding every file of the record.
func (a *Analysis) MediaPrefix() string {
	return MediaPrefix(a.ID)
}
