package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/kaixxz/MediNote/internal/database"
	"github.com/kaixxz/MediNote/internal/model"
	"github.com/kaixxz/MediNote/internal/repository"
	pkgdatabase "github.com/kaixxz/MediNote/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := pkgdatabase.NewConnection(context.Background(),
		pkgdatabase.Config{Driver: pkgdatabase.DriverSQLite, DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestDraftRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDraftRepository(newTestDB(t))
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := model.Draft{AccountID: "acct", Title: "Visit 1", Subjective: "cough", CreatedAt: base, UpdatedAt: base}
	second := model.Draft{AccountID: "acct", Title: "Visit 2", CreatedAt: base, UpdatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))
	require.NotZero(t, first.ID)

	got, err := repo.FindByID(ctx, "acct", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "cough", got.Subjective)

	drafts, err := repo.ListByAccountID(ctx, "acct")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, second.ID, drafts[0].ID)

	got.Plan = "rest"
	got.CompletedSections = "subjective,plan"
	got.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, &got))

	got, err = repo.FindByID(ctx, "acct", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "rest", got.Plan)
	assert.Equal(t, "subjective,plan", got.CompletedSections)

	drafts, err = repo.ListByAccountID(ctx, "acct")
	require.NoError(t, err)
	assert.Equal(t, first.ID, drafts[0].ID)

	require.NoError(t, repo.Delete(ctx, "acct", first.ID))
	_, err = repo.FindByID(ctx, "acct", first.ID)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "acct", first.ID), repository.ErrDraftNotFound)
}

func TestDraftRepository_ScopedToAccount(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDraftRepository(newTestDB(t))

	d := model.Draft{AccountID: "owner", Title: "Private"}
	require.NoError(t, repo.Create(ctx, &d))

	_, err := repo.FindByID(ctx, "intruder", d.ID)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)

	stolen := d
	stolen.AccountID = "intruder"
	stolen.Title = "Overwritten"
	assert.ErrorIs(t, repo.Update(ctx, &stolen), repository.ErrDraftNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "intruder", d.ID), repository.ErrDraftNotFound)

	drafts, err := repo.ListByAccountID(ctx, "intruder")
	require.NoError(t, err)
	assert.Empty(t, drafts)

	got, err := repo.FindByID(ctx, "owner", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestReportRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewReportRepository(newTestDB(t))
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	older := model.Report{AccountID: "acct", ReportType: "soap", PatientNotes: "n1", GeneratedReport: "r1", CreatedAt: base}
	newer := model.Report{AccountID: "acct", ReportType: "progress", PatientNotes: "n2", GeneratedReport: "r2", CreatedAt: base.Add(time.Hour)}
	other := model.Report{AccountID: "other", ReportType: "soap", PatientNotes: "n3", GeneratedReport: "r3", CreatedAt: base}
	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, repo.Create(ctx, &newer))
	require.NoError(t, repo.Create(ctx, &other))

	reports, err := repo.ListByAccountID(ctx, "acct")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "r2", reports[0].GeneratedReport)
	assert.Equal(t, "r1", reports[1].GeneratedReport)
}
