// This file defines repository methods for rent payments. Rows are created
// PENDING by the billing endpoint and transition to PAID only through
// MarkPaid; the LATE classification is derived at read time by the handlers
// and never written here.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-management/internal/model"
)

// RentPaymentRepo encapsulates all database queries related to rent payments.
type RentPaymentRepo struct {
	db *sql.DB
}

// NewRentPaymentRepo constructs a RentPaymentRepo with the provided DB handle.
func NewRentPaymentRepo(db *sql.DB) *RentPaymentRepo {
	return &RentPaymentRepo{db: db}
}

// Create inserts a new PENDING payment and populates ID, status and
// created_at on the passed struct.
func (r *RentPaymentRepo) Create(ctx context.Context, p *model.RentPayment) error {
	const qInsert = "INSERT INTO rent_payments (property_id, amount, due_date, status) VALUES (?, ?, ?, 'PENDING')"
	res, err := r.db.ExecContext(ctx, qInsert, p.PropertyID, p.Amount, p.DueDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.Status = model.PaymentPending

	const qSelect = "SELECT created_at FROM rent_payments WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt)
}

// GetByID fetches a payment together with the owner of its property so that
// handlers can run the existence-then-ownership check with a single query.
// Returns ErrPaymentNotFound when no row exists.
func (r *RentPaymentRepo) GetByID(ctx context.Context, id uint64) (*model.RentPayment, uint64, error) {
	const q = `SELECT rp.id, rp.property_id, rp.amount, rp.due_date, rp.status, rp.paid_date, rp.created_at, p.owner_id
	           FROM rent_payments rp
	           JOIN properties p ON p.id = rp.property_id
	           WHERE rp.id = ?`
	var (
		p       model.RentPayment
		ownerID uint64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.PropertyID, &p.Amount, &p.DueDate, &p.Status, &p.PaidDate, &p.CreatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrPaymentNotFound
		}
		return nil, 0, err
	}
	return &p, ownerID, nil
}

const paymentListColumns = `rp.id, rp.property_id, rp.amount, rp.due_date, rp.status, rp.paid_date, rp.created_at,
	       p.name,
	       COALESCE((SELECT u.name FROM users u WHERE u.property_id = rp.property_id AND u.role = 'TENANT' LIMIT 1), '')`

// ListByProperties returns payments for the given property set ordered by due
// date descending, with property and tenant names joined for display. A
// limit <= 0 means no limit. An empty id set yields an empty result.
func (r *RentPaymentRepo) ListByProperties(ctx context.Context, propertyIDs []uint64, limit int) ([]*model.RentPayment, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + paymentListColumns + `
	      FROM rent_payments rp
	      JOIN properties p ON p.id = rp.property_id
	      WHERE rp.property_id IN (` + placeholders(len(propertyIDs)) + `)
	      ORDER BY rp.due_date DESC`
	args := idArgs(propertyIDs)
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryPayments(ctx, q, args...)
}

// ListByProperty returns payments for a single property (the tenant path).
func (r *RentPaymentRepo) ListByProperty(ctx context.Context, propertyID uint64, limit int) ([]*model.RentPayment, error) {
	return r.ListByProperties(ctx, []uint64{propertyID}, limit)
}

func (r *RentPaymentRepo) queryPayments(ctx context.Context, q string, args ...any) ([]*model.RentPayment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RentPayment
	for rows.Next() {
		p := new(model.RentPayment)
		if err := rows.Scan(&p.ID, &p.PropertyID, &p.Amount, &p.DueDate, &p.Status, &p.PaidDate, &p.CreatedAt,
			&p.PropertyName, &p.TenantName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestByProperty returns the payment with the most recent due date for a
// property, or nil when the property has no payments yet.
func (r *RentPaymentRepo) LatestByProperty(ctx context.Context, propertyID uint64) (*model.RentPayment, error) {
	const q = `SELECT rp.id, rp.property_id, rp.amount, rp.due_date, rp.status, rp.paid_date, rp.created_at
	           FROM rent_payments rp
	           WHERE rp.property_id = ?
	           ORDER BY rp.due_date DESC LIMIT 1`
	var p model.RentPayment
	err := r.db.QueryRowContext(ctx, q, propertyID).Scan(
		&p.ID, &p.PropertyID, &p.Amount, &p.DueDate, &p.Status, &p.PaidDate, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaid performs the single exposed transition: PENDING/LATE -> PAID with
// paid_date = now. The status guard makes the operation idempotent: a second
// call affects zero rows and the original paid_date survives. The updated row
// is returned either way.
func (r *RentPaymentRepo) MarkPaid(ctx context.Context, id uint64) (*model.RentPayment, error) {
	const qUpdate = `UPDATE rent_payments
	                 SET status = 'PAID', paid_date = NOW()
	                 WHERE id = ? AND status <> 'PAID'`
	if _, err := r.db.ExecContext(ctx, qUpdate, id); err != nil {
		return nil, err
	}
	p, _, err := r.GetByID(ctx, id)
	return p, err
}

// TotalsByProperties aggregates the landlord dashboard numbers: sum of PAID
// amounts and count of still-PENDING payments across the property set.
func (r *RentPaymentRepo) TotalsByProperties(ctx context.Context, propertyIDs []uint64) (decimal.Decimal, int, error) {
	if len(propertyIDs) == 0 {
		return decimal.Zero, 0, nil
	}
	q := `SELECT COALESCE(SUM(CASE WHEN status = 'PAID' THEN amount ELSE 0 END), 0),
	             COALESCE(SUM(status = 'PENDING'), 0)
	      FROM rent_payments
	      WHERE property_id IN (` + placeholders(len(propertyIDs)) + `)`
	var (
		collected decimal.Decimal
		pending   int
	)
	if err := r.db.QueryRowContext(ctx, q, idArgs(propertyIDs)...).Scan(&collected, &pending); err != nil {
		return decimal.Zero, 0, err
	}
	return collected, pending, nil
}
