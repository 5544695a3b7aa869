// internal/workers/scoring/score-contact/handler_test.go
package scorecontact

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/models"
	"crm-insight-workers/internal/store"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, s store.Store, cache *redis.Client) *Handler {
	h := NewHandler(&Config{Timeout: 5 * time.Second, CacheTTL: time.Minute}, s, cache, logger.NewTestLogger(t))
	h.now = func() time.Time { return testNow }
	return h
}

func TestHandler_Execute_AggregatesDeals(t *testing.T) {
	h := newTestHandler(t, store.NewDemoStore(testNow), nil)

	// contact-demo-1 owns the 85k Cierre deal and a small Calificación pilot.
	output, err := h.Execute(context.Background(), &Input{ContactID: "contact-demo-1"})
	require.NoError(t, err)

	assert.Equal(t, 78, output.Score)
	assert.Equal(t, "Hot", output.Priority)
	assert.Equal(t, 2, output.DealCount)
	assert.InDelta(t, 57.5, output.Factors.Probability, 0.001)
	assert.Equal(t, 100.0, output.Factors.Stage)
}

func TestHandler_Execute_InactiveContactScoresLow(t *testing.T) {
	h := newTestHandler(t, store.NewDemoStore(testNow), nil)

	// contact-demo-2 has been silent for 12 days with one stalled deal.
	output, err := h.Execute(context.Background(), &Input{ContactID: "contact-demo-2"})
	require.NoError(t, err)

	assert.Equal(t, 41, output.Score)
	assert.Equal(t, "Cold", output.Priority)
	assert.Equal(t, 1, output.DealCount)
}

func TestHandler_Execute_ContactWithoutDeals(t *testing.T) {
	s := store.NewDemoStore(testNow)
	h := newTestHandler(t, s, nil)

	// A contact with zero deals still scores on its own activity factors.
	last := testNow.AddDate(0, 0, -2)
	s.PutContact(models.Contact{
		ID: "contact-empty", Name: "Ana Torres", Email: "ana@example.test",
		LastActivity: &last, CreatedAt: testNow.AddDate(0, 0, -30), UpdatedAt: testNow,
	})
	output, err := h.Execute(context.Background(), &Input{ContactID: "contact-empty"})
	require.NoError(t, err)
	assert.Equal(t, 0, output.DealCount)
	assert.Zero(t, output.Factors.Probability)
	assert.Zero(t, output.Factors.Amount)
}

func TestHandler_Execute_ContactNotFound(t *testing.T) {
	h := newTestHandler(t, store.NewDemoStore(testNow), nil)

	_, err := h.Execute(context.Background(), &Input{ContactID: "missing"})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestHandler_Execute_MissingContactID(t *testing.T) {
	h := newTestHandler(t, store.NewDemoStore(testNow), nil)

	_, err := h.Execute(context.Background(), &Input{})
	assert.Error(t, err)
}

func TestHandler_Execute_CachesResult(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	h := newTestHandler(t, store.NewDemoStore(testNow), cache)
	ctx := context.Background()

	first, err := h.Execute(ctx, &Input{ContactID: "contact-demo-1"})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := h.Execute(ctx, &Input{ContactID: "contact-demo-1"})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Score, second.Score)

	// ForceRefresh bypasses the cache.
	third, err := h.Execute(ctx, &Input{ContactID: "contact-demo-1", ForceRefresh: true})
	require.NoError(t, err)
	assert.False(t, third.FromCache)
}
