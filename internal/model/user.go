package model

import "time"

// Application roles stored in users.role. A landlord owns properties and has
// write authority over their payments and maintenance tickets; a tenant is
// assigned to at most one property.
const (
	RoleLandlord = "LANDLORD"
	RoleTenant   = "TENANT"
)

// User represents a row in the `users` table. PropertyID is the property a
// tenant occupies and is NULL for landlords and unassigned tenants.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (stored lower-cased).
//  Name         – display name.
//  PasswordHash – bcrypt hashed password. Never serialized.
//  Role         – LANDLORD or TENANT.
//  PropertyID   – assigned property for tenants (nullable).
//  IsActive     – whether the account is active.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	PropertyID   *uint64   `json:"property_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// PropertyName is filled by tenant-listing queries that join properties.
	PropertyName string `json:"property_name,omitempty"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
