// internal/store/seed.go
package store

import (
	"time"

	"crm-insight-workers/internal/models"
)

// seedDemoData loads the fixed demo pipeline used when the workers run
// without a Postgres backend. Dates are relative to the anchor so the demo
// always shows one healthy hot deal, one neglected deal and overdue work.
func seedDemoData(s *MemoryStore, now time.Time) {
	ago := func(days int) *time.Time {
		t := now.AddDate(0, 0, -days)
		return &t
	}
	ahead := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}

	s.PutContact(models.Contact{
		ID: "contact-demo-1", Name: "Laura Méndez", Email: "laura@acme.example",
		Company: "Acme SA", Position: "Directora de Compras",
		LastActivity: ago(1), OwnerID: "owner-1",
		CreatedAt: now.AddDate(0, 0, -90), UpdatedAt: now,
	})
	s.PutContact(models.Contact{
		ID: "contact-demo-2", Name: "Jorge Ruiz", Email: "jorge@norte.example",
		Company: "Distribuidora Norte",
		LastActivity: ago(12), OwnerID: "owner-1",
		CreatedAt: now.AddDate(0, 0, -120), UpdatedAt: now,
	})

	s.PutDeal(models.Deal{
		ID: "deal-demo-1", Title: "Contrato anual Acme", Company: "Acme SA",
		ContactID: "contact-demo-1", Amount: 85000,
		Stage: models.StageCierre, Probability: 90,
		TargetCloseDate: ahead(7), NextStep: "Firmar contrato",
		Status: models.DealStatusOpen,
		LastActivity: ago(0), StageEnteredAt: ago(1), OwnerID: "owner-1",
		CreatedAt: now.AddDate(0, 0, -45), UpdatedAt: now,
	})
	s.PutDeal(models.Deal{
		ID: "deal-demo-2", Title: "Ampliación Distribuidora Norte",
		Company: "Distribuidora Norte", ContactID: "contact-demo-2", Amount: 18000,
		Stage: models.StagePropuesta, Probability: 40,
		TargetCloseDate: ago(4),
		Status: models.DealStatusOpen,
		LastActivity: ago(12), StageEnteredAt: ago(16), OwnerID: "owner-1",
		CreatedAt: now.AddDate(0, 0, -60), UpdatedAt: now,
	})
	s.PutDeal(models.Deal{
		ID: "deal-demo-3", Title: "Piloto logística", Company: "Acme SA",
		ContactID: "contact-demo-1", Amount: 6000,
		Stage: models.StageCalificacion, Probability: 25,
		NextStep: "Agendar demo",
		Status: models.DealStatusOpen,
		LastActivity: ago(5), StageEnteredAt: ago(8), OwnerID: "owner-2",
		CreatedAt: now.AddDate(0, 0, -20), UpdatedAt: now,
	})
	s.PutDeal(models.Deal{
		ID: "deal-demo-4", Title: "Renovación 2025", Company: "Beta SL",
		Amount: 30000, Stage: models.StageCierre, Probability: 100,
		Status: models.DealStatusWon, CloseReason: "Renovado sin cambios",
		LastActivity: ago(30), OwnerID: "owner-2",
		CreatedAt: now.AddDate(0, 0, -200), UpdatedAt: now,
	})

	s.PutTask(models.Task{
		ID: "task-demo-1", Title: "Llamar a Laura",
		State: models.TaskStatePending, Priority: models.PriorityHot,
		DueAt: ago(2), OwnerID: "owner-1",
		CreatedAt: now.AddDate(0, 0, -5), UpdatedAt: now,
	})
	s.PutTask(models.Task{
		ID: "task-demo-2", Title: "Preparar propuesta Norte",
		State: models.TaskStateInProgress,
		DueAt: ahead(3), OwnerID: "owner-1",
		CreatedAt: now.AddDate(0, 0, -3), UpdatedAt: now,
	})
	s.PutTask(models.Task{
		ID: "task-demo-3", Title: "Enviar acta de reunión",
		State: models.TaskStateCompleted, CompletedAt: ago(1),
		DueAt: ago(1), OwnerID: "owner-2",
		CreatedAt: now.AddDate(0, 0, -10), UpdatedAt: now,
	})
}
