// This file defines repository methods for CRUD and lookup operations on
// properties. Ownership scoping lives here: every landlord-facing query
// filters on owner_id so a handler can never widen the visible row set by
// accident.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/property-management/internal/model"
)

// PropertyRepo encapsulates all database queries related to properties.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo constructs a PropertyRepo with the provided DB handle.
func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

// Create inserts a new property. On success the ID field is populated with
// the auto-generated value and a follow-up SELECT fills the timestamp fields
// so callers receive a fully populated record.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const qInsert = "INSERT INTO properties (owner_id, name, address) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, p.OwnerID, p.Name, p.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM properties WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a property by its ID regardless of owner. It returns
// ErrPropertyNotFound if no row is found. Handlers use this for the
// existence-then-ownership check on single-resource mutations.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	const q = "SELECT id, owner_id, name, address, created_at, updated_at FROM properties WHERE id = ?"
	var p model.Property
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// IDsByOwner returns the ids of every property the landlord owns. This is the
// single scope lookup shared by payment and maintenance listings; callers run
// it once per request and pass the result down.
func (r *PropertyRepo) IDsByOwner(ctx context.Context, ownerID uint64) ([]uint64, error) {
	const q = "SELECT id FROM properties WHERE owner_id = ?"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByOwner returns all properties for a landlord ordered newest-first,
// with assigned tenants and payment/ticket counts attached.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Property, error) {
	const q = `SELECT id, owner_id, name, address, created_at, updated_at
	           FROM properties WHERE owner_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Property
	byID := map[uint64]*model.Property{}
	for rows.Next() {
		p := new(model.Property)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uint64, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	if err := r.attachTenants(ctx, byID, ids); err != nil {
		return nil, err
	}
	if err := r.attachCounts(ctx, byID, ids, "maintenance_requests"); err != nil {
		return nil, err
	}
	if err := r.attachCounts(ctx, byID, ids, "rent_payments"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PropertyRepo) attachTenants(ctx context.Context, byID map[uint64]*model.Property, ids []uint64) error {
	q := `SELECT id, name, email, property_id FROM users
	      WHERE role = 'TENANT' AND property_id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t   model.PropertyTenant
			pid uint64
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &pid); err != nil {
			return err
		}
		if p, ok := byID[pid]; ok {
			p.Tenants = append(p.Tenants, t)
		}
	}
	return rows.Err()
}

// attachCounts fills TicketCount or PaymentCount from the named child table.
// The table name is one of two compile-time constants, never caller input.
func (r *PropertyRepo) attachCounts(ctx context.Context, byID map[uint64]*model.Property, ids []uint64, table string) error {
	q := "SELECT property_id, COUNT(*) FROM " + table +
		" WHERE property_id IN (" + placeholders(len(ids)) + ") GROUP BY property_id"
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			pid uint64
			n   uint32
		)
		if err := rows.Scan(&pid, &n); err != nil {
			return err
		}
		if p, ok := byID[pid]; ok {
			if table == "maintenance_requests" {
				p.TicketCount = n
			} else {
				p.PaymentCount = n
			}
		}
	}
	return rows.Err()
}

// Update changes name/address if the property belongs to the provided owner.
// It returns sql.ErrNoRows when no row is affected (not found / not owned).
func (r *PropertyRepo) Update(ctx context.Context, id, ownerID uint64, name, address string) error {
	const q = `UPDATE properties
	           SET name = ?, address = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, name, address, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a property and all dependent records (rent
// payments, maintenance requests, tenant assignments) provided it belongs to
// the specified owner. If the property does not exist, sql.ErrNoRows is
// returned. If it exists but is owned by a different user, ErrForbidden is
// returned. The deletion occurs within a transaction to maintain integrity.
func (r *PropertyRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	// Verify the property exists and check ownership.
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM properties WHERE id = ?`, id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOwnerID != ownerID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM maintenance_requests WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM rent_payments WHERE property_id = ?`, id); err != nil {
		return err
	}
	// Unassign tenants instead of deleting their accounts.
	if _, err = tx.ExecContext(ctx, `UPDATE users SET property_id = NULL WHERE property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
