package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-management/internal/model"
)

func paymentRow(id, propertyID uint64, amount, status string, due time.Time, paid *time.Time, owner uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "property_id", "amount", "due_date", "status", "paid_date", "created_at", "owner_id"}).
		AddRow(id, propertyID, amount, due, status, paid, due.AddDate(0, -1, 0), owner)
}

func TestPaymentGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentPaymentRepo(db)

	mock.ExpectQuery("SELECT rp.id, rp.property_id").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestMarkPaidGuardsAlreadyPaidRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentPaymentRepo(db)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	paidAt := due.Add(48 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rent_payments")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // guard matched nothing: already PAID
	mock.ExpectQuery("SELECT rp.id, rp.property_id").
		WithArgs(uint64(5)).
		WillReturnRows(paymentRow(5, 10, "1850.00", model.PaymentPaid, due, &paidAt, 3))

	p, err := repo.MarkPaid(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, p.Status)
	require.NotNil(t, p.PaidDate)
	assert.Equal(t, paidAt, *p.PaidDate)
}

func TestTotalsByPropertiesEmptyScope(t *testing.T) {
	db, _ := newMock(t)
	repo := NewRentPaymentRepo(db)

	collected, pending, err := repo.TotalsByProperties(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, collected.IsZero())
	assert.Zero(t, pending)
}

func TestTotalsByPropertiesAggregates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentPaymentRepo(db)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(uint64(10), uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"collected", "pending"}).AddRow("3700.00", 2))

	collected, pending, err := repo.TotalsByProperties(context.Background(), []uint64{10, 11})
	require.NoError(t, err)
	assert.True(t, collected.Equal(decimal.RequireFromString("3700.00")))
	assert.Equal(t, 2, pending)
}

func TestLatestByPropertyNoRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRentPaymentRepo(db)

	mock.ExpectQuery("SELECT rp.id, rp.property_id").
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.LatestByProperty(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestListByPropertiesEmptyScope(t *testing.T) {
	db, _ := newMock(t)
	repo := NewRentPaymentRepo(db)

	items, err := repo.ListByProperties(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Nil(t, items)
}
