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
)

func TestValidateRefreshActiveToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at, revoked_at FROM refresh_tokens")).
		WithArgs("somehash").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), nil))

	uid, err := repo.ValidateRefresh(context.Background(), "somehash")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)
}

func TestValidateRefreshRevokedToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	revoked := time.Now().UTC().Add(-time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at, revoked_at FROM refresh_tokens")).
		WithArgs("somehash").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), revoked))

	_, err := repo.ValidateRefresh(context.Background(), "somehash")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestValidateRefreshExpiredToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at, revoked_at FROM refresh_tokens")).
		WithArgs("somehash").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(-time.Hour), nil))

	_, err := repo.ValidateRefresh(context.Background(), "somehash")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
