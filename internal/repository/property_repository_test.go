package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/property-management/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestPropertyGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPropertyRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, name, address, created_at, updated_at FROM properties WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyIDsByOwnerScopesToOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPropertyRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM properties WHERE owner_id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))

	ids, err := repo.IDsByOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 11}, ids)
}

func TestPropertyUpdateZeroRowsMeansNotOwned(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPropertyRepo(db)

	mock.ExpectExec("UPDATE properties").
		WithArgs("New Name", "New Address", uint64(10), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 10, 3, "New Name", "New Address")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPropertyDeleteUnknownIDRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPropertyRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM properties WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.DeleteByIDAndOwner(context.Background(), 99, 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPropertyDeleteWrongOwnerForbidden(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPropertyRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM properties WHERE id = ?")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(7))
	mock.ExpectRollback()

	err := repo.DeleteByIDAndOwner(context.Background(), 10, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPropertyDeleteCascadesAndUnassignsTenants(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPropertyRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM properties WHERE id = ?")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM maintenance_requests WHERE property_id = ?")).
		WithArgs(uint64(10)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rent_payments WHERE property_id = ?")).
		WithArgs(uint64(10)).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET property_id = NULL WHERE property_id = ?")).
		WithArgs(uint64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM properties WHERE id = ?")).
		WithArgs(uint64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteByIDAndOwner(context.Background(), 10, 3)
	assert.NoError(t, err)
}

func TestPropertyCreatePopulatesIDAndTimestamps(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPropertyRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO properties (owner_id, name, address) VALUES (?, ?, ?)")).
		WithArgs(uint64(3), "Elm Street 4", "Elm Street 4, Springfield").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM properties WHERE id = ?")).
		WithArgs(uint64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := &model.Property{OwnerID: 3, Name: "Elm Street 4", Address: "Elm Street 4, Springfield"}
	err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), p.ID)
	assert.Equal(t, now, p.CreatedAt)
}
