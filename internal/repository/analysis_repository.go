package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adlens/internal/model"
)

// AnalysisRepository defines analysis record persistence.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *model.Analysis) error
	FindByID(ctx context.Context, id uint) (*model.Analysis, error)
	// List returns every record when all is set, otherwise the records of userID plus public ones.
	List(ctx context.Context, userID string, all bool) ([]model.Analysis, error)
	// Update writes the named columns of analysis.
	Update(ctx context.Context, analysis *model.Analysis, columns ...string) error
	// Mutate loads the row under a lock, applies fn and writes the columns fn returns.
	Mutate(ctx context.Context, id uint, fn func(a *model.Analysis) ([]string, error)) (*model.Analysis, error)
	Delete(ctx context.Context, id uint) error
}

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *model.Analysis) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(analysis).Error
}

func (r *analysisRepository) FindByID(ctx context.Context, id uint) (*model.Analysis, error) {
	var analysis model.Analysis
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *analysisRepository) List(ctx context.Context, userID string, all bool) ([]model.Analysis, error) {
	q := r.db.WithContext(ctx).Order("date DESC").Order("id DESC")
	if !all {
		q = q.Where("uploader_id = ? OR is_public = ?", userID, true)
	}
	analyses := make([]model.Analysis, 0)
	if err := q.Find(&analyses).Error; err != nil {
		return nil, err
	}
	return analyses, nil
}

func (r *analysisRepository) Update(ctx context.Context, analysis *model.Analysis, columns ...string) error {
	return updateColumns(r.db.WithContext(ctx), analysis, columns)
}

func (r *analysisRepository) Mutate(ctx context.Context, id uint, fn func(a *model.Analysis) ([]string, error)) (*model.Analysis, error) {
	var out model.Analysis
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&out).Error; err != nil {
			return err
		}
		columns, err := fn(&out)
		if err != nil {
			return err
		}
		return updateColumns(tx, &out, columns)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *analysisRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Analysis{}, id).Error
}

// updateColumns goes through the model so serializer tags apply to JSON columns.
func updateColumns(db *gorm.DB, analysis *model.Analysis, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return db.Model(analysis).Omit(clause.Associations).Select(columns).Updates(analysis).Error
}
