package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-management/internal/model"
	"github.com/iliyamo/property-management/internal/repository"
)

// TenantHandler implements the landlord-side tenant views: listing tenants
// across owned properties and assigning a tenant to an owned property.
type TenantHandler struct {
	Users      *repository.UserRepo
	Properties *repository.PropertyRepo
}

// NewTenantHandler constructs a TenantHandler and panics if a dependency is nil.
func NewTenantHandler(users *repository.UserRepo, properties *repository.PropertyRepo) *TenantHandler {
	if users == nil || properties == nil {
		panic("nil repository passed to NewTenantHandler")
	}
	return &TenantHandler{Users: users, Properties: properties}
}

type assignPropertyReq struct {
	PropertyID uint64 `json:"property_id"` // 0 clears the assignment
}

// List handles GET /v1/tenants (landlord only): every tenant assigned to one
// of the caller's properties.
func (h *TenantHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	ids, err := h.Properties.IDsByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	tenants, err := h.Users.ListTenantsByProperties(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if tenants == nil {
		tenants = []*model.User{}
	}
	return c.JSON(http.StatusOK, tenants)
}

// AssignProperty handles PUT /v1/tenants/:id/property (landlord only). A
// non-zero property_id assigns the tenant to that property; zero clears the
// assignment. In both directions the affected property must belong to the
// caller: assigning requires owning the target, clearing requires owning the
// tenant's current property.
func (h *TenantHandler) AssignProperty(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tenantID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || tenantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req assignPropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()

	tenant, err := h.Users.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if tenant.Role != model.RoleTenant {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is not a tenant"})
	}

	if req.PropertyID == 0 {
		// Clearing: the tenant must currently live in one of the caller's
		// properties, otherwise this landlord has no authority over them.
		if tenant.PropertyID == nil {
			return c.JSON(http.StatusOK, tenant)
		}
		current, err := h.Properties.GetByID(ctx, *tenant.PropertyID)
		if err != nil && !errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if err == nil && current.OwnerID != ownerID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if err := h.Users.SetProperty(ctx, tenantID, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		tenant.PropertyID = nil
		return c.JSON(http.StatusOK, tenant)
	}

	target, err := h.Properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if target.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Users.SetProperty(ctx, tenantID, &req.PropertyID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	tenant.PropertyID = &req.PropertyID
	tenant.PropertyName = target.Name
	return c.JSON(http.StatusOK, tenant)
}
