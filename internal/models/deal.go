// internal/models/deal.go
package models

import (
	"time"
)

// Stage is an ordered pipeline phase. Ordinals are 1-based.
type Stage string

const (
	StageProspeccion  Stage = "Prospección"
	StageCalificacion Stage = "Calificación"
	StagePropuesta    Stage = "Propuesta"
	StageNegociacion  Stage = "Negociación"
	StageCierre       Stage = "Cierre"
)

// PipelineStages lists the stages in pipeline order.
var PipelineStages = []Stage{
	StageProspeccion,
	StageCalificacion,
	StagePropuesta,
	StageNegociacion,
	StageCierre,
}

// Ordinal returns the 1-based position of the stage in the pipeline.
// Unknown stages map to the first stage.
func (s Stage) Ordinal() int {
	for i, stage := range PipelineStages {
		if stage == s {
			return i + 1
		}
	}
	return 1
}

// Priority is the coarse bucket derived from a score.
type Priority string

const (
	PriorityCold Priority = "Cold"
	PriorityWarm Priority = "Warm"
	PriorityHot  Priority = "Hot"
)

// RiskLevel is the independent deal-health classification.
type RiskLevel string

const (
	RiskBajo  RiskLevel = "Bajo"
	RiskMedio RiskLevel = "Medio"
	RiskAlto  RiskLevel = "Alto"
)

// DealStatus tracks whether a deal is still in play.
type DealStatus string

const (
	DealStatusOpen DealStatus = "Open"
	DealStatusWon  DealStatus = "Won"
	DealStatusLost DealStatus = "Lost"
)

// Deal is a sales opportunity moving through pipeline stages toward Won/Lost.
// Score, Priority and RiskLevel are cached values written back by the scoring
// workers; the engine always recomputes from raw attributes.
type Deal struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Company         string     `json:"company,omitempty"`
	ContactID       string     `json:"contactId,omitempty"`
	Amount          float64    `json:"amount,omitempty"`
	Stage           Stage      `json:"stage"`
	Probability     float64    `json:"probability"`
	TargetCloseDate *time.Time `json:"targetCloseDate,omitempty"`
	NextStep        string     `json:"nextStep,omitempty"`
	Status          DealStatus `json:"status"`
	Score           int        `json:"score,omitempty"`
	Priority        Priority   `json:"priority,omitempty"`
	RiskLevel       RiskLevel  `json:"riskLevel,omitempty"`
	LastActivity    *time.Time `json:"lastActivity,omitempty"`
	StageEnteredAt  *time.Time `json:"stageEnteredAt,omitempty"`
	OwnerID         string     `json:"ownerId,omitempty"`
	CloseReason     string     `json:"closeReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsOpen reports whether the deal is still in the pipeline.
func (d *Deal) IsOpen() bool {
	return d.Status == DealStatusOpen
}

// InactivityDays derives whole days elapsed since the last activity.
// A deal that never had activity counts from its creation date.
func (d *Deal) InactivityDays(now time.Time) int {
	ref := d.CreatedAt
	if d.LastActivity != nil {
		ref = *d.LastActivity
	}
	if ref.IsZero() || ref.After(now) {
		return 0
	}
	return int(now.Sub(ref).Hours() / 24)
}

// DaysInStage derives whole days since the deal entered its current stage.
// Falls back to the creation date when the stage entry time is unknown.
func (d *Deal) DaysInStage(now time.Time) int {
	ref := d.CreatedAt
	if d.StageEnteredAt != nil {
		ref = *d.StageEnteredAt
	}
	if ref.IsZero() || ref.After(now) {
		return 0
	}
	return int(now.Sub(ref).Hours() / 24)
}
