// internal/store/store.go

// Package store provides the data-access layer for the insight workers.
// Two implementations exist: PostgresStore against the hosted backend and
// MemoryStore for demo mode and tests. Handlers receive a Store instance;
// there is no package-level mutable state.
package store

import (
	"context"
	"errors"

	"crm-insight-workers/internal/models"
)

var (
	ErrNotFound            = errors.New("entity not found")
	ErrCloseReasonRequired = errors.New("close reason required when closing a deal")
	ErrInvalidCloseStatus  = errors.New("deals can only be closed as Won or Lost")
)

// Store is the snapshot contract the engine workers rely on.
type Store interface {
	GetDeals(ctx context.Context) ([]models.Deal, error)
	GetDeal(ctx context.Context, id string) (*models.Deal, error)
	GetContacts(ctx context.Context) ([]models.Contact, error)
	GetContact(ctx context.Context, id string) (*models.Contact, error)
	GetContactDeals(ctx context.Context, contactID string) ([]models.Deal, error)
	GetTasks(ctx context.Context) ([]models.Task, error)

	// SaveDealInsights writes back the cached score/priority/risk fields.
	SaveDealInsights(ctx context.Context, dealID string, score int, priority models.Priority, risk models.RiskLevel) error

	// CloseDeal transitions a deal to Won or Lost. A non-empty close reason
	// is mandatory; the engine itself never closes deals.
	CloseDeal(ctx context.Context, dealID string, status models.DealStatus, closeReason string) error
}

// validateClose enforces the close invariants shared by both stores.
func validateClose(status models.DealStatus, closeReason string) error {
	if status != models.DealStatusWon && status != models.DealStatusLost {
		return ErrInvalidCloseStatus
	}
	if closeReason == "" {
		return ErrCloseReasonRequired
	}
	return nil
}
