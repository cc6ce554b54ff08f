package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@b.com' for key 'users.email'"))

	_, err := repo.Create(context.Background(), "Alice", "A@B.com", "hunter22", "LANDLORD", 4)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserCreateLowercasesEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Alice", "alice@example.com", sqlmock.AnyArg(), "LANDLORD").
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Create(context.Background(), "Alice", " Alice@Example.COM ", "hunter22", "LANDLORD", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestAssignedPropertyIDNull(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT property_id FROM users WHERE id=?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}).AddRow(nil))

	pid, err := repo.AssignedPropertyID(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, pid)
}

func TestSetPropertyUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	pid := uint64(10)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET property_id=?")).
		WithArgs(sqlmock.AnyArg(), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetProperty(context.Background(), 99, &pid)
	assert.Error(t, err)
}

func TestListTenantsByPropertiesEmptyScope(t *testing.T) {
	db, _ := newMock(t)
	repo := NewUserRepo(db)

	tenants, err := repo.ListTenantsByProperties(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, tenants)
}
