// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names; each event type gets its own durable queue.
const (
	TicketOpenedQueue = "maintenance.opened"
	RentPaidQueue     = "rent.paid"
)

// TicketOpenedEvent is published when a tenant opens a maintenance request.
// It carries enough for downstream consumers to notify the landlord without
// querying the primary database.
type TicketOpenedEvent struct {
	TicketID     uint64 `json:"ticket_id"`
	PropertyID   uint64 `json:"property_id"`
	PropertyName string `json:"property_name"`
	TenantID     uint64 `json:"tenant_id"`
	Title        string `json:"title"`
	OpenedAt     string `json:"opened_at"`
}

// RentPaidEvent is published when a landlord marks a rent payment paid.
type RentPaidEvent struct {
	PaymentID    uint64 `json:"payment_id"`
	PropertyID   uint64 `json:"property_id"`
	PropertyName string `json:"property_name"`
	LandlordID   uint64 `json:"landlord_id"`
	Amount       string `json:"amount"`
	PaidAt       string `json:"paid_at"`
}
