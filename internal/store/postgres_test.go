// internal/store/postgres_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insight-workers/internal/models"
)

var dealCols = []string{
	"id", "title", "company", "contact_id", "amount", "stage", "probability",
	"target_close_date", "next_step", "status", "score", "priority", "risk_level",
	"last_activity", "stage_entered_at", "owner_id", "close_reason", "created_at", "updated_at",
}

func TestPostgresStore_GetDeal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(dealCols).AddRow(
		"deal-1", "Contrato anual", "Acme SA", "contact-1", 85000.0, "Cierre", 90.0,
		now.AddDate(0, 0, 7), "Firmar contrato", "Open", 91, "Hot", "Bajo",
		now, now.AddDate(0, 0, -1), "owner-1", nil, now.AddDate(0, 0, -45), now,
	)
	mock.ExpectQuery("SELECT (.+) FROM deals WHERE id =").
		WithArgs("deal-1").
		WillReturnRows(rows)

	s := NewPostgresStore(db)
	deal, err := s.GetDeal(context.Background(), "deal-1")
	require.NoError(t, err)

	assert.Equal(t, "deal-1", deal.ID)
	assert.Equal(t, models.StageCierre, deal.Stage)
	assert.Equal(t, models.DealStatusOpen, deal.Status)
	assert.Equal(t, 85000.0, deal.Amount)
	assert.Equal(t, models.PriorityHot, deal.Priority)
	require.NotNil(t, deal.TargetCloseDate)
	assert.Empty(t, deal.CloseReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDeal_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM deals WHERE id =").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(dealCols))

	s := NewPostgresStore(db)
	_, err = s.GetDeal(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_GetDeals_NullableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(dealCols).AddRow(
		"deal-2", "Sin datos", nil, nil, nil, "Prospección", 10.0,
		nil, nil, "Open", nil, nil, nil, nil, nil, nil, nil, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM deals ORDER BY created_at").
		WillReturnRows(rows)

	s := NewPostgresStore(db)
	deals, err := s.GetDeals(context.Background())
	require.NoError(t, err)
	require.Len(t, deals, 1)

	deal := deals[0]
	assert.Zero(t, deal.Amount)
	assert.Empty(t, deal.NextStep)
	assert.Nil(t, deal.TargetCloseDate)
	assert.Nil(t, deal.LastActivity)
}

func TestPostgresStore_SaveDealInsights(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE deals SET score").
		WithArgs("deal-1", 91, "Hot", "Bajo").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresStore(db)
	err = s.SaveDealInsights(context.Background(), "deal-1", 91, models.PriorityHot, models.RiskBajo)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveDealInsights_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE deals SET score").
		WithArgs("missing", 10, "Cold", "Bajo").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewPostgresStore(db)
	err = s.SaveDealInsights(context.Background(), "missing", 10, models.PriorityCold, models.RiskBajo)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_CloseDeal_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)
	err = s.CloseDeal(context.Background(), "deal-1", models.DealStatusWon, "")
	assert.ErrorIs(t, err, ErrCloseReasonRequired)

	err = s.CloseDeal(context.Background(), "deal-1", models.DealStatusOpen, "motivo")
	assert.ErrorIs(t, err, ErrInvalidCloseStatus)
}

func TestPostgresStore_CloseDeal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE deals SET status").
		WithArgs("deal-1", "Won", "Contrato firmado", "Open").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresStore(db)
	err = s.CloseDeal(context.Background(), "deal-1", models.DealStatusWon, "Contrato firmado")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
