// This file defines repository methods for maintenance requests. A ticket is
// created by a tenant against their assigned property and starts OPEN; only
// the landlord owning that property changes its status afterwards.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/property-management/internal/model"
)

// MaintenanceRepo encapsulates all database queries related to maintenance
// requests.
type MaintenanceRepo struct {
	db *sql.DB
}

// NewMaintenanceRepo constructs a MaintenanceRepo with the provided DB handle.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo {
	return &MaintenanceRepo{db: db}
}

// Create inserts a new OPEN ticket and populates ID, status and timestamps on
// the passed struct.
func (r *MaintenanceRepo) Create(ctx context.Context, m *model.MaintenanceRequest) error {
	const qInsert = `INSERT INTO maintenance_requests (title, description, status, property_id, created_by_id)
	                 VALUES (?, ?, 'OPEN', ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, m.Title, m.Description, m.PropertyID, m.CreatedByID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	m.Status = model.TicketOpen

	const qSelect = "SELECT created_at, updated_at FROM maintenance_requests WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches a ticket together with the owner of its property so that
// handlers can run the existence-then-ownership check with a single query.
// Returns ErrTicketNotFound when no row exists.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id uint64) (*model.MaintenanceRequest, uint64, error) {
	const q = `SELECT m.id, m.title, m.description, m.status, m.property_id, m.created_by_id, m.created_at, m.updated_at, p.owner_id
	           FROM maintenance_requests m
	           JOIN properties p ON p.id = m.property_id
	           WHERE m.id = ?`
	var (
		m       model.MaintenanceRequest
		ownerID uint64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.Status, &m.PropertyID, &m.CreatedByID, &m.CreatedAt, &m.UpdatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrTicketNotFound
		}
		return nil, 0, err
	}
	return &m, ownerID, nil
}

const ticketListColumns = `m.id, m.title, m.description, m.status, m.property_id, m.created_by_id, m.created_at, m.updated_at,
	       p.name, u.name`

// ListByProperties returns tickets for the given property set ordered
// newest-first, with property and creator names joined for display. A limit
// <= 0 means no limit. An empty id set yields an empty result.
func (r *MaintenanceRepo) ListByProperties(ctx context.Context, propertyIDs []uint64, limit int) ([]*model.MaintenanceRequest, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + ticketListColumns + `
	      FROM maintenance_requests m
	      JOIN properties p ON p.id = m.property_id
	      JOIN users u ON u.id = m.created_by_id
	      WHERE m.property_id IN (` + placeholders(len(propertyIDs)) + `)
	      ORDER BY m.created_at DESC`
	args := idArgs(propertyIDs)
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryTickets(ctx, q, args...)
}

// ListByCreator returns the tickets a tenant authored, newest-first.
func (r *MaintenanceRepo) ListByCreator(ctx context.Context, userID uint64, limit int) ([]*model.MaintenanceRequest, error) {
	q := `SELECT ` + ticketListColumns + `
	      FROM maintenance_requests m
	      JOIN properties p ON p.id = m.property_id
	      JOIN users u ON u.id = m.created_by_id
	      WHERE m.created_by_id = ?
	      ORDER BY m.created_at DESC`
	args := []any{userID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryTickets(ctx, q, args...)
}

func (r *MaintenanceRepo) queryTickets(ctx context.Context, q string, args ...any) ([]*model.MaintenanceRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.MaintenanceRequest
	for rows.Next() {
		m := new(model.MaintenanceRequest)
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Status, &m.PropertyID, &m.CreatedByID,
			&m.CreatedAt, &m.UpdatedAt, &m.PropertyName, &m.CreatedByName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets the ticket status. The caller is responsible for the
// ownership check and for validating the status value beforehand. Returns
// sql.ErrNoRows when the ticket vanished between check and update.
func (r *MaintenanceRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.MaintenanceRequest, error) {
	const q = `UPDATE maintenance_requests
	           SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows when the value is unchanged as
		// well, so re-read instead of treating this as not found.
		if m, _, err := r.GetByID(ctx, id); err == nil {
			return m, nil
		}
		return nil, sql.ErrNoRows
	}
	m, _, err := r.GetByID(ctx, id)
	return m, err
}

// CountOpenByProperties counts OPEN/IN_PROGRESS tickets across a landlord's
// property set for the dashboard.
func (r *MaintenanceRepo) CountOpenByProperties(ctx context.Context, propertyIDs []uint64) (int, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}
	q := `SELECT COUNT(*) FROM maintenance_requests
	      WHERE status IN ('OPEN','IN_PROGRESS') AND property_id IN (` + placeholders(len(propertyIDs)) + `)`
	var n int
	if err := r.db.QueryRowContext(ctx, q, idArgs(propertyIDs)...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountOpenByCreator counts a tenant's own OPEN/IN_PROGRESS tickets.
func (r *MaintenanceRepo) CountOpenByCreator(ctx context.Context, userID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM maintenance_requests
	           WHERE status IN ('OPEN','IN_PROGRESS') AND created_by_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
