// internal/workers/scoring/classify-deal-risk/handler_test.go
package classifydealrisk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/store"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) *Handler {
	h := NewHandler(&Config{Timeout: 5 * time.Second}, store.NewDemoStore(testNow), logger.NewTestLogger(t))
	h.now = func() time.Time { return testNow }
	return h
}

func TestHandler_Execute_HealthyDeal(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{DealID: "deal-demo-1"})
	require.NoError(t, err)

	assert.Equal(t, "Bajo", output.RiskLevel)
	assert.Equal(t, 0, output.InactivityDays)
	assert.False(t, output.MissingNext)
	assert.False(t, output.TargetOverdue)
}

func TestHandler_Execute_NeglectedDeal(t *testing.T) {
	h := newTestHandler(t)

	// 12 days inactive, overdue target, no next step.
	output, err := h.Execute(context.Background(), &Input{DealID: "deal-demo-2"})
	require.NoError(t, err)

	assert.Equal(t, "Alto", output.RiskLevel)
	assert.Equal(t, 12, output.InactivityDays)
	assert.True(t, output.MissingNext)
	assert.True(t, output.TargetOverdue)
}

func TestHandler_Execute_DealNotFound(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{DealID: "missing"})
	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"dealId":"deal-1"}`, true},
		{"empty dealId", `{"dealId":""}`, false},
		{"missing dealId", `{}`, false},
		{"wrong type", `{"dealId":42}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidatePayload([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.GetErrorMessages())
			}
		})
	}
}
