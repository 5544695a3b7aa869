// internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStageOrdinal(t *testing.T) {
	assert.Equal(t, 1, StageProspeccion.Ordinal())
	assert.Equal(t, 2, StageCalificacion.Ordinal())
	assert.Equal(t, 3, StagePropuesta.Ordinal())
	assert.Equal(t, 4, StageNegociacion.Ordinal())
	assert.Equal(t, 5, StageCierre.Ordinal())
	assert.Equal(t, 1, Stage("Discovery").Ordinal())
}

func TestNormalizeTaskState(t *testing.T) {
	tests := []struct {
		raw      string
		expected TaskState
	}{
		{"Pending", TaskStatePending},
		{"InProgress", TaskStateInProgress},
		{"Overdue", TaskStateOverdue},
		{"Completed", TaskStateCompleted},
		// legacy kanban vocabulary
		{"To Do", TaskStatePending},
		{"Doing", TaskStateInProgress},
		{"Waiting", TaskStatePending},
		{"Done", TaskStateCompleted},
		// unknown values degrade to Pending
		{"", TaskStatePending},
		{"Archived", TaskStatePending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeTaskState(tt.raw), "raw=%q", tt.raw)
	}
}

func TestDealInactivityDays(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	last := now.AddDate(0, 0, -9)
	deal := Deal{LastActivity: &last, CreatedAt: now.AddDate(0, 0, -40)}
	assert.Equal(t, 9, deal.InactivityDays(now))

	// no activity recorded: counts from creation
	deal = Deal{CreatedAt: now.AddDate(0, 0, -40)}
	assert.Equal(t, 40, deal.InactivityDays(now))

	// future timestamps never go negative
	future := now.AddDate(0, 0, 2)
	deal = Deal{LastActivity: &future, CreatedAt: now}
	assert.Equal(t, 0, deal.InactivityDays(now))
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	assert.True(t, (&Task{State: TaskStatePending, DueAt: &past}).IsOverdue(now))
	assert.True(t, (&Task{State: TaskStateOverdue}).IsOverdue(now))
	assert.False(t, (&Task{State: TaskStatePending, DueAt: &future}).IsOverdue(now))
	assert.False(t, (&Task{State: TaskStateCompleted, DueAt: &past}).IsOverdue(now))
	assert.False(t, (&Task{State: TaskStatePending}).IsOverdue(now))
}
