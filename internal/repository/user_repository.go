package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/property-management/internal/model"
	"github.com/iliyamo/property-management/internal/utils"
)

// UserRepo encapsulates all database queries against the `users` table,
// including the tenant/property assignment that anchors tenant scoping.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The email is normalized to lower
// case; duplicate emails surface as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,property_id,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.PropertyID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,property_id,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.PropertyID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// AssignedPropertyID returns the property a tenant occupies, or nil when the
// tenant has no assignment. Callers must treat nil as "empty scope" and
// return empty lists, never an error.
func (r *UserRepo) AssignedPropertyID(ctx context.Context, userID uint64) (*uint64, error) {
	var pid *uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT property_id FROM users WHERE id=? LIMIT 1", userID).Scan(&pid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return pid, nil
}

// SetProperty assigns a tenant to a property, or clears the assignment when
// propertyID is nil. It returns sql.ErrNoRows when no row was affected.
func (r *UserRepo) SetProperty(ctx context.Context, userID uint64, propertyID *uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET property_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		propertyID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListTenantsByProperties returns all tenant users assigned to any of the
// given properties, with the property name joined in for display. An empty
// id set short-circuits to an empty result.
func (r *UserRepo) ListTenantsByProperties(ctx context.Context, propertyIDs []uint64) ([]*model.User, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	q := `SELECT u.id, u.name, u.email, u.role, u.property_id, u.created_at, p.name
	      FROM users u
	      JOIN properties p ON p.id = u.property_id
	      WHERE u.role = 'TENANT' AND u.property_id IN (` + placeholders(len(propertyIDs)) + `)
	      ORDER BY u.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, idArgs(propertyIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u := new(model.User)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PropertyID, &u.CreatedAt, &u.PropertyName); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// placeholders builds a "?,?,?" fragment for IN clauses with n members.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// idArgs widens a slice of ids into the []any shape QueryContext expects.
func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
