package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-management/internal/model"
)

func ticketRow(id uint64, status string, owner uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "title", "description", "status", "property_id", "created_by_id", "created_at", "updated_at", "owner_id"}).
		AddRow(id, "Leaky faucet", "Kitchen sink drips", status, 10, 7, now, now, owner)
}

func TestTicketGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMaintenanceRepo(db)

	mock.ExpectQuery("SELECT m.id, m.title").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestUpdateStatusSameValueRereads(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMaintenanceRepo(db)

	// MySQL reports zero affected rows when the new value equals the old one,
	// so the repo must re-read rather than report not-found.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE maintenance_requests")).
		WithArgs(model.TicketOpen, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT m.id, m.title").
		WithArgs(uint64(5)).
		WillReturnRows(ticketRow(5, model.TicketOpen, 3))

	m, err := repo.UpdateStatus(context.Background(), 5, model.TicketOpen)
	require.NoError(t, err)
	assert.Equal(t, model.TicketOpen, m.Status)
}

func TestUpdateStatusChangesValue(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMaintenanceRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE maintenance_requests")).
		WithArgs(model.TicketResolved, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT m.id, m.title").
		WithArgs(uint64(5)).
		WillReturnRows(ticketRow(5, model.TicketResolved, 3))

	m, err := repo.UpdateStatus(context.Background(), 5, model.TicketResolved)
	require.NoError(t, err)
	assert.Equal(t, model.TicketResolved, m.Status)
}

func TestCountOpenByPropertiesEmptyScope(t *testing.T) {
	db, _ := newMock(t)
	repo := NewMaintenanceRepo(db)

	n, err := repo.CountOpenByProperties(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListByPropertiesEmptyScopeYieldsNothing(t *testing.T) {
	db, _ := newMock(t)
	repo := NewMaintenanceRepo(db)

	items, err := repo.ListByProperties(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Nil(t, items)
}
