// internal/store/memory_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insight-workers/internal/models"
)

var memNow = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

func TestMemoryStore_DemoSeed(t *testing.T) {
	s := NewDemoStore(memNow)
	ctx := context.Background()

	deals, err := s.GetDeals(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, deals)

	contacts, err := s.GetContacts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, contacts)

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)

	// Closed demo deals carry a close reason.
	for _, d := range deals {
		if d.Status != models.DealStatusOpen {
			assert.NotEmpty(t, d.CloseReason, "deal %s", d.ID)
		}
	}
}

func TestMemoryStore_GetContactDeals(t *testing.T) {
	s := NewDemoStore(memNow)

	deals, err := s.GetContactDeals(context.Background(), "contact-demo-1")
	require.NoError(t, err)
	require.NotEmpty(t, deals)
	for _, d := range deals {
		assert.Equal(t, "contact-demo-1", d.ContactID)
	}
}

func TestMemoryStore_SaveDealInsights(t *testing.T) {
	s := NewDemoStore(memNow)
	ctx := context.Background()

	err := s.SaveDealInsights(ctx, "deal-demo-1", 91, models.PriorityHot, models.RiskBajo)
	require.NoError(t, err)

	deal, err := s.GetDeal(ctx, "deal-demo-1")
	require.NoError(t, err)
	assert.Equal(t, 91, deal.Score)
	assert.Equal(t, models.PriorityHot, deal.Priority)
	assert.Equal(t, models.RiskBajo, deal.RiskLevel)

	err = s.SaveDealInsights(ctx, "no-such-deal", 10, models.PriorityCold, models.RiskBajo)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CloseDeal(t *testing.T) {
	s := NewDemoStore(memNow)
	ctx := context.Background()

	err := s.CloseDeal(ctx, "deal-demo-2", models.DealStatusLost, "")
	assert.ErrorIs(t, err, ErrCloseReasonRequired)

	err = s.CloseDeal(ctx, "deal-demo-2", models.DealStatusOpen, "reabrir")
	assert.ErrorIs(t, err, ErrInvalidCloseStatus)

	err = s.CloseDeal(ctx, "deal-demo-2", models.DealStatusLost, "Perdido por precio")
	require.NoError(t, err)

	deal, err := s.GetDeal(ctx, "deal-demo-2")
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusLost, deal.Status)
	assert.Equal(t, "Perdido por precio", deal.CloseReason)

	// already closed
	err = s.CloseDeal(ctx, "deal-demo-2", models.DealStatusWon, "otra vez")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GettersReturnCopies(t *testing.T) {
	s := NewDemoStore(memNow)
	ctx := context.Background()

	deal, err := s.GetDeal(ctx, "deal-demo-1")
	require.NoError(t, err)
	deal.Title = "mutado"

	again, err := s.GetDeal(ctx, "deal-demo-1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutado", again.Title)
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetDeal(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetContact(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
