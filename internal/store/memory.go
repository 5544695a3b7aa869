// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"crm-insight-workers/internal/models"
)

// MemoryStore is the in-memory demo implementation of Store. Safe for
// concurrent use; every getter returns copies so callers can't mutate the
// backing slices.
type MemoryStore struct {
	mu       sync.RWMutex
	deals    map[string]models.Deal
	contacts map[string]models.Contact
	tasks    map[string]models.Task
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		deals:    map[string]models.Deal{},
		contacts: map[string]models.Contact{},
		tasks:    map[string]models.Task{},
	}
}

// NewDemoStore creates an in-memory store seeded with a small, fixed demo
// pipeline anchored at the given time.
func NewDemoStore(now time.Time) *MemoryStore {
	s := NewMemoryStore()
	seedDemoData(s, now)
	return s
}

// PutDeal inserts or replaces a deal.
func (s *MemoryStore) PutDeal(deal models.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals[deal.ID] = deal
}

// PutContact inserts or replaces a contact.
func (s *MemoryStore) PutContact(contact models.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.ID] = contact
}

// PutTask inserts or replaces a task.
func (s *MemoryStore) PutTask(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

func (s *MemoryStore) GetDeals(ctx context.Context) ([]models.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deals := make([]models.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		deals = append(deals, d)
	}
	sortByCreatedAt(deals, func(d models.Deal) time.Time { return d.CreatedAt })
	return deals, nil
}

func (s *MemoryStore) GetDeal(ctx context.Context, id string) (*models.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deal, ok := s.deals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &deal, nil
}

func (s *MemoryStore) GetContacts(ctx context.Context) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contacts := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		contacts = append(contacts, c)
	}
	sortByCreatedAt(contacts, func(c models.Contact) time.Time { return c.CreatedAt })
	return contacts, nil
}

func (s *MemoryStore) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &contact, nil
}

func (s *MemoryStore) GetContactDeals(ctx context.Context, contactID string) ([]models.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deals := []models.Deal{}
	for _, d := range s.deals {
		if d.ContactID == contactID {
			deals = append(deals, d)
		}
	}
	sortByCreatedAt(deals, func(d models.Deal) time.Time { return d.CreatedAt })
	return deals, nil
}

func (s *MemoryStore) GetTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sortByCreatedAt(tasks, func(t models.Task) time.Time { return t.CreatedAt })
	return tasks, nil
}

func (s *MemoryStore) SaveDealInsights(ctx context.Context, dealID string, score int, priority models.Priority, risk models.RiskLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[dealID]
	if !ok {
		return ErrNotFound
	}
	deal.Score = score
	deal.Priority = priority
	deal.RiskLevel = risk
	deal.UpdatedAt = time.Now().UTC()
	s.deals[dealID] = deal
	return nil
}

func (s *MemoryStore) CloseDeal(ctx context.Context, dealID string, status models.DealStatus, closeReason string) error {
	if err := validateClose(status, closeReason); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[dealID]
	if !ok || deal.Status != models.DealStatusOpen {
		return ErrNotFound
	}
	deal.Status = status
	deal.CloseReason = closeReason
	deal.UpdatedAt = time.Now().UTC()
	s.deals[dealID] = deal
	return nil
}

func sortByCreatedAt[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}
