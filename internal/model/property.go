package model

import "time"

// Property represents a rental property owned by a landlord. Each property
// belongs to exactly one owner; tenants reference it via users.property_id.
// This struct corresponds to a row in the `properties` table.
type Property struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// The fields below are populated by landlord list queries and are not
	// columns of the properties table.
	Tenants      []PropertyTenant `json:"tenants,omitempty"`
	TicketCount  uint32           `json:"maintenance_count"`
	PaymentCount uint32           `json:"payment_count"`
}

// PropertyTenant is the subset of a tenant's user row embedded in landlord
// property listings.
type PropertyTenant struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
