package model

import "time"

// Maintenance ticket statuses stored in maintenance_requests.status. Tickets
// always start OPEN. The owning landlord may move a ticket to any of the four
// values; no adjacency graph is enforced.
const (
	TicketOpen       = "OPEN"
	TicketInProgress = "IN_PROGRESS"
	TicketResolved   = "RESOLVED"
	TicketClosed     = "CLOSED"
)

// ValidTicketStatus reports whether s is one of the four recognized ticket
// statuses. Anything else must be rejected as a validation error before the
// row is touched.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// MaintenanceRequest represents a row in the `maintenance_requests` table.
// Created by a tenant against their assigned property; status is mutated only
// by the landlord owning that property.
type MaintenanceRequest struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	PropertyID  uint64    `json:"property_id"`
	CreatedByID uint64    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined display fields populated by list queries.
	PropertyName  string `json:"property_name,omitempty"`
	CreatedByName string `json:"created_by_name,omitempty"`
}
