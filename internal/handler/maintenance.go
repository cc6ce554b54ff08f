package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-management/internal/model"
	"github.com/iliyamo/property-management/internal/queue"
	"github.com/iliyamo/property-management/internal/repository"
	queue_publisher "github.com/iliyamo/property-management/internal/service"
)

// MaintenanceHandler implements maintenance ticket operations. Tenants open
// tickets against their assigned property; the owning landlord moves them
// through the four statuses.
type MaintenanceHandler struct {
	Tickets    *repository.MaintenanceRepo
	Properties *repository.PropertyRepo
	Users      *repository.UserRepo

	// publishTicketOpened is swapped out in tests; it defaults to the
	// RabbitMQ publisher and failures are intentionally ignored.
	publishTicketOpened func(context.Context, queue.TicketOpenedEvent) error
}

// NewMaintenanceHandler constructs a MaintenanceHandler and panics if a
// dependency is nil.
func NewMaintenanceHandler(tickets *repository.MaintenanceRepo, properties *repository.PropertyRepo, users *repository.UserRepo) *MaintenanceHandler {
	if tickets == nil || properties == nil || users == nil {
		panic("nil repository passed to NewMaintenanceHandler")
	}
	return &MaintenanceHandler{
		Tickets:             tickets,
		Properties:          properties,
		Users:               users,
		publishTicketOpened: queue_publisher.PublishTicketOpened,
	}
}

type createMaintenanceReq struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type updateMaintenanceReq struct {
	Status string `json:"status"`
}

// List handles GET /v1/maintenance. Landlords see tickets across their owned
// properties; tenants see the tickets they authored. Both newest-first.
func (h *MaintenanceHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	var items []*model.MaintenanceRequest
	if isLandlord(c) {
		ids, err := h.Properties.IDsByOwner(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		items, err = h.Tickets.ListByProperties(ctx, ids, 0)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	} else {
		items, err = h.Tickets.ListByCreator(ctx, userID, 0)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	if items == nil {
		items = []*model.MaintenanceRequest{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /v1/maintenance (tenant only). The ticket is bound to
// the tenant's assigned property; an unassigned tenant cannot file one.
func (h *MaintenanceHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	pid, err := h.Users.AssignedPropertyID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if pid == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no property assigned"})
	}

	var req createMaintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	m := &model.MaintenanceRequest{
		Title:       req.Title,
		Description: req.Description,
		PropertyID:  *pid,
		CreatedByID: userID,
	}
	if err := h.Tickets.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create request"})
	}

	// Best-effort notification; the ticket is already persisted.
	if p, err := h.Properties.GetByID(ctx, *pid); err == nil {
		_ = h.publishTicketOpened(ctx, queue.TicketOpenedEvent{
			TicketID:     m.ID,
			PropertyID:   p.ID,
			PropertyName: p.Name,
			TenantID:     userID,
			Title:        m.Title,
			OpenedAt:     time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /v1/maintenance/:id (landlord only). Only the status
// field is mutable, only to one of the four recognized values, and only by
// the landlord owning the ticket's property. Existence is checked before
// ownership (404 then 403).
func (h *MaintenanceHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	_, ticketOwner, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if ticketOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req updateMaintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidTicketStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	updated, err := h.Tickets.UpdateStatus(ctx, id, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}
