package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adlens/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func analysisRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "video_name", "status", "uploader_id", "is_public"})
}

func TestAnalysisRepository_List(t *testing.T) {
	t.Run("own and public records, newest first", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "analyses" WHERE uploader_id = $1 OR is_public = $2`) + `.*` +
			regexp.QuoteMeta(`ORDER BY date DESC,id DESC`)).
			WithArgs("user-123", true).
			WillReturnRows(analysisRows().
				AddRow(2, "mine.mp4", "full-complete", "user-123", false).
				AddRow(1, "shared.mp4", "full-complete", "admin-001", true))

		got, err := NewAnalysisRepository(db).List(context.Background(), "user-123", false)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, uint(2), got[0].ID)
		assert.True(t, got[1].IsPublic)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin sees everything", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`^` + regexp.QuoteMeta(`SELECT * FROM "analyses" ORDER BY date DESC,id DESC`) + `$`).
			WillReturnRows(analysisRows().AddRow(3, "private.mp4", "processing", "user-9", false))

		got, err := NewAnalysisRepository(db).List(context.Background(), "admin-001", true)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "analyses"`)).WillReturnRows(analysisRows())

		got, err := NewAnalysisRepository(db).List(context.Background(), "user-123", false)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAnalysisRepository_UpdateWritesOnlyNamedColumns(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`^` + regexp.QuoteMeta(`UPDATE "analyses" SET "status"=$1,"progress_message"=$2 WHERE "id" = $3`) + `$`).
		WithArgs("error", "Analysis failed, please retry.", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a := &model.Analysis{
		ID:              7,
		Status:          model.StatusError,
		ProgressMessage: "Analysis failed, please retry.",
		Grade:           "A",
		VideoName:       "must-not-be-written.mp4",
	}
	require.NoError(t, NewAnalysisRepository(db).Update(context.Background(), a, "status", "progress_message"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_Mutate(t *testing.T) {
	lockedSelect := regexp.QuoteMeta(`SELECT * FROM "analyses" WHERE id = $1`) + `.*FOR UPDATE`

	t.Run("locks, applies and writes returned columns", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockedSelect).
			WillReturnRows(analysisRows().AddRow(7, "ad.mp4", "analyzing-full", "user-123", false))
		mock.ExpectExec(`^` + regexp.QuoteMeta(`UPDATE "analyses" SET "status"=$1 WHERE "id" = $2`) + `$`).
			WithArgs("full-complete", 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := NewAnalysisRepository(db).Mutate(context.Background(), 7, func(a *model.Analysis) ([]string, error) {
			assert.Equal(t, model.StatusAnalyzingFull, a.Status)
			a.Status = model.StatusFullComplete
			a.VideoName = "ignored.mp4"
			return []string{"status"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusFullComplete, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockedSelect).
			WillReturnRows(analysisRows().AddRow(7, "ad.mp4", "processing", "someone-else", false))
		mock.ExpectRollback()

		denied := errors.New("not yours")
		_, err := NewAnalysisRepository(db).Mutate(context.Background(), 7, func(*model.Analysis) ([]string, error) {
			return nil, denied
		})
		assert.ErrorIs(t, err, denied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockedSelect).WillReturnRows(analysisRows())
		mock.ExpectRollback()

		_, err := NewAnalysisRepository(db).Mutate(context.Background(), 7, func(*model.Analysis) ([]string, error) {
			t.Fatal("callback must not run")
			return nil, nil
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to write", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lockedSelect).
			WillReturnRows(analysisRows().AddRow(7, "ad.mp4", "processing", "user-123", false))
		mock.ExpectCommit()

		_, err := NewAnalysisRepository(db).Mutate(context.Background(), 7, func(*model.Analysis) ([]string, error) {
			return nil, nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
