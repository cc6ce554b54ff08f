package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rent payment statuses stored in rent_payments.status. PAID is terminal and
// reachable only through the mark-paid operation. LATE is a read-time
// classification: this service never writes it, but rows seeded by external
// billing may carry it (or PARTIAL) and are passed through unchanged.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentLate    = "LATE"
	PaymentPartial = "PARTIAL"
)

// RentPayment represents a row in the `rent_payments` table. Amounts are
// DECIMAL columns and carried as decimal values end to end so that rent math
// never goes through floats.
type RentPayment struct {
	ID         uint64          `json:"id"`
	PropertyID uint64          `json:"property_id"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	PaidDate   *time.Time      `json:"paid_date"`
	CreatedAt  time.Time       `json:"created_at"`

	// Joined display fields populated by list queries.
	PropertyName string `json:"property_name,omitempty"`
	TenantName   string `json:"tenant_name,omitempty"`
}

// DisplayStatus classifies an overdue pending payment as LATE. The stored
// status stays PENDING until the landlord marks the payment paid.
func (p *RentPayment) DisplayStatus(now time.Time) string {
	if p.Status == PaymentPending && now.After(p.DueDate) {
		return PaymentLate
	}
	return p.Status
}
