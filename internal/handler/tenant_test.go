package handler

import (
	"database/sql"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/property-management/internal/model"
	"github.com/iliyamo/property-management/internal/repository"
)

func newTenantHandler(db *sql.DB) *TenantHandler {
	return NewTenantHandler(repository.NewUserRepo(db), repository.NewPropertyRepo(db))
}

func userRow(id uint64, role string, propertyID any) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "property_id", "is_active", "created_at", "updated_at"}).
		AddRow(id, "Bob", "bob@example.com", "x", role, propertyID, true, now, now)
}

func TestAssignPropertyTargetNotTenant(t *testing.T) {
	db, mock := newMockDB(t)
	h := newTenantHandler(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,name,email,password_hash,role,property_id,is_active,created_at,updated_at FROM users WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnRows(userRow(3, model.RoleLandlord, nil))

	c, rec := newAuthedContext(t, http.MethodPut, "/v1/tenants/3/property", `{"property_id":10}`, 2, model.RoleLandlord)
	c.SetParamNames("id")
	c.SetParamValues("3")

	assert.NoError(t, h.AssignProperty(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a tenant")
}

func TestAssignPropertyUnknownTenant(t *testing.T) {
	db, mock := newMockDB(t)
	h := newTenantHandler(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,name,email,password_hash,role,property_id,is_active,created_at,updated_at FROM users WHERE id=?")).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	c, rec := newAuthedContext(t, http.MethodPut, "/v1/tenants/99/property", `{"property_id":10}`, 2, model.RoleLandlord)
	c.SetParamNames("id")
	c.SetParamValues("99")

	assert.NoError(t, h.AssignProperty(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignPropertyForeignProperty(t *testing.T) {
	db, mock := newMockDB(t)
	h := newTenantHandler(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,name,email,password_hash,role,property_id,is_active,created_at,updated_at FROM users WHERE id=?")).
		WithArgs(uint64(7)).
		WillReturnRows(userRow(7, model.RoleTenant, nil))
	mock.ExpectQuery("SELECT id, owner_id").
		WithArgs(uint64(10)).
		WillReturnRows(propertyRow(10, 9, "Elm Street 4", "Springfield"))

	c, rec := newAuthedContext(t, http.MethodPut, "/v1/tenants/7/property", `{"property_id":10}`, 2, model.RoleLandlord)
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, h.AssignProperty(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAssignPropertySucceeds(t *testing.T) {
	db, mock := newMockDB(t)
	h := newTenantHandler(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,name,email,password_hash,role,property_id,is_active,created_at,updated_at FROM users WHERE id=?")).
		WithArgs(uint64(7)).
		WillReturnRows(userRow(7, model.RoleTenant, nil))
	mock.ExpectQuery("SELECT id, owner_id").
		WithArgs(uint64(10)).
		WillReturnRows(propertyRow(10, 2, "Elm Street 4", "Springfield"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET property_id=?")).
		WithArgs(sqlmock.AnyArg(), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newAuthedContext(t, http.MethodPut, "/v1/tenants/7/property", `{"property_id":10}`, 2, model.RoleLandlord)
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, h.AssignProperty(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"property_id":10`)
}

// Clearing an assignment requires owning the tenant's current property.
func TestUnassignForeignTenantForbidden(t *testing.T) {
	db, mock := newMockDB(t)
	h := newTenantHandler(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,name,email,password_hash,role,property_id,is_active,created_at,updated_at FROM users WHERE id=?")).
		WithArgs(uint64(7)).
		WillReturnRows(userRow(7, model.RoleTenant, 10))
	mock.ExpectQuery("SELECT id, owner_id").
		WithArgs(uint64(10)).
		WillReturnRows(propertyRow(10, 9, "Elm Street 4", "Springfield"))

	c, rec := newAuthedContext(t, http.MethodPut, "/v1/tenants/7/property", `{"property_id":0}`, 2, model.RoleLandlord)
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, h.AssignProperty(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListTenantsEmptyScope(t *testing.T) {
	db, mock := newMockDB(t)
	h := newTenantHandler(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM properties WHERE owner_id = ?")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newAuthedContext(t, http.MethodGet, "/v1/tenants", "", 2, model.RoleLandlord)

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
