package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-management/internal/model"
	"github.com/iliyamo/property-management/internal/repository"
)

// PropertyHandler implements property CRUD. Listing is shared between roles
// and dispatches on the role claim; mutations are registered on the
// landlord-only route group.
type PropertyHandler struct {
	Properties *repository.PropertyRepo
	Users      *repository.UserRepo
}

// NewPropertyHandler constructs a PropertyHandler and panics if a dependency is nil.
func NewPropertyHandler(properties *repository.PropertyRepo, users *repository.UserRepo) *PropertyHandler {
	if properties == nil || users == nil {
		panic("nil repository passed to NewPropertyHandler")
	}
	return &PropertyHandler{Properties: properties, Users: users}
}

type createPropertyReq struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type updatePropertyReq struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// List handles GET /v1/properties. Landlords get their own properties with
// tenants and counts attached; tenants get a singleton list containing their
// assigned property, or an empty list when unassigned.
func (h *PropertyHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	if isLandlord(c) {
		items, err := h.Properties.ListByOwner(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if items == nil {
			items = []*model.Property{}
		}
		return c.JSON(http.StatusOK, items)
	}

	pid, err := h.Users.AssignedPropertyID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if pid == nil {
		return c.JSON(http.StatusOK, []*model.Property{})
	}
	p, err := h.Properties.GetByID(ctx, *pid)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusOK, []*model.Property{})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, []*model.Property{p})
}

// Create handles POST /v1/properties (landlord only).
func (h *PropertyHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	p := &model.Property{
		OwnerID: ownerID,
		Name:    req.Name,
		Address: req.Address,
	}
	if err := h.Properties.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create property"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT/PATCH /v1/properties/:id (landlord only). Existence is
// checked before ownership, so an unknown id is 404 while someone else's
// property is 403.
func (h *PropertyHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if p.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req updatePropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == nil && req.Address == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name or address is required"})
	}
	name, address := p.Name, p.Address
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
	}
	if req.Address != nil {
		address = strings.TrimSpace(*req.Address)
		if address == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "address is required"})
		}
	}

	if err := h.Properties.Update(ctx, id, ownerID, name, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/properties/:id (landlord only). Dependent
// payments and tickets are removed and tenants unassigned in one transaction.
func (h *PropertyHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := h.Properties.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
