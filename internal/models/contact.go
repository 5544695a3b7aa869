// internal/models/contact.go
package models

import "time"

// Contact is a person record, scored from its associated deals.
type Contact struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Company      string     `json:"company,omitempty"`
	Position     string     `json:"position,omitempty"`
	Score        int        `json:"score,omitempty"`
	Priority     Priority   `json:"priority,omitempty"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
	OwnerID      string     `json:"ownerId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// InactivityDays derives whole days elapsed since the contact's last activity.
func (c *Contact) InactivityDays(now time.Time) int {
	ref := c.CreatedAt
	if c.LastActivity != nil {
		ref = *c.LastActivity
	}
	if ref.IsZero() || ref.After(now) {
		return 0
	}
	return int(now.Sub(ref).Hours() / 24)
}
