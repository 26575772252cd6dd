package salary

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return NewRepository(db), mock
}

func TestRepository_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	id := uuid.New().String()
	now := time.Date(2025, time.May, 17, 10, 30, 0, 0, time.UTC)

	t.Run("row still pending", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectExec(`UPDATE "salary_records" SET .+ WHERE .*payment_status IN \(.+\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.TransitionStatus(ctx, schoolID, id, []string{StatusPending, StatusProcessing}, StatusChange{
			Status: StatusPaid,
			At:     now,
			PaidAt: &now,
		})

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("someone else moved it", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		mock.ExpectExec(`UPDATE "salary_records" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.TransitionStatus(ctx, schoolID, id, []string{StatusPending}, StatusChange{Status: StatusCancelled, At: now})

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_LockStatuses(t *testing.T) {
	repo, mock := setupRepoTest(t)
	schoolID := uuid.New().String()
	a, b := uuid.New().String(), uuid.New().String()

	mock.ExpectQuery(`SELECT id::text AS id, payment_status FROM "salary_records" WHERE .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_status"}).
			AddRow(a, StatusPending).
			AddRow(b, StatusPaid))

	statuses, err := repo.LockStatuses(context.Background(), schoolID, []string{a, b})

	assert.NoError(t, err)
	assert.Equal(t, map[string]string{a: StatusPending, b: StatusPaid}, statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_BulkMarkPaid(t *testing.T) {
	repo, mock := setupRepoTest(t)
	schoolID := uuid.New().String()
	a, b := uuid.New(), uuid.New()
	now := time.Date(2025, time.May, 17, 10, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE "salary_records" SET .+ WHERE .*id IN .+payment_status = .+ RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()))

	ids, err := repo.BulkMarkPaid(context.Background(), schoolID, []string{a.String(), b.String()}, StatusChange{
		Status: StatusPaid,
		At:     now,
		PaidAt: &now,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{a.String()}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)
	id := uuid.New().String()

	mock.ExpectExec(`DELETE FROM "salary_allowances" WHERE salary_id = `).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "salary_deductions" WHERE salary_id = `).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "salary_records" WHERE`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New().String(), id)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindForPeriod_AppliesDimensions(t *testing.T) {
	repo, mock := setupRepoTest(t)
	period := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM "salary_records" JOIN employees ON employees\.id = salary_records\.employee_id .*` +
		`salary_records\.period = .*departments\.name ILIKE .*LOWER\(employees\.employment_type\) = LOWER\(`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := repo.FindForPeriod(context.Background(), uuid.New().String(), period, DimensionFilter{
		Department:     "Science",
		EmploymentType: "full_time",
	})

	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
