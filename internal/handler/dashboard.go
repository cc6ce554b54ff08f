package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-management/internal/model"
	"github.com/iliyamo/property-management/internal/repository"
)

const recentLimit = 5

// DashboardHandler aggregates role-specific summary data for the landing view.
type DashboardHandler struct {
	Properties *repository.PropertyRepo
	Payments   *repository.RentPaymentRepo
	Tickets    *repository.MaintenanceRepo
	Users      *repository.UserRepo
}

// NewDashboardHandler constructs a DashboardHandler and panics if a dependency is nil.
func NewDashboardHandler(properties *repository.PropertyRepo, payments *repository.RentPaymentRepo, tickets *repository.MaintenanceRepo, users *repository.UserRepo) *DashboardHandler {
	if properties == nil || payments == nil || tickets == nil || users == nil {
		panic("nil repository passed to NewDashboardHandler")
	}
	return &DashboardHandler{Properties: properties, Payments: payments, Tickets: tickets, Users: users}
}

type landlordDashboard struct {
	PropertyCount  int                         `json:"property_count"`
	RentCollected  decimal.Decimal             `json:"rent_collected"`
	PendingCount   int                         `json:"pending_payments"`
	OpenTickets    int                         `json:"open_requests"`
	RecentPayments []*model.RentPayment        `json:"recent_payments"`
	RecentTickets  []*model.MaintenanceRequest `json:"recent_requests"`
}

type tenantDashboard struct {
	PropertyName    string                      `json:"property_name"`
	PropertyAddress string                      `json:"property_address"`
	NextPayment     *model.RentPayment          `json:"next_payment"`
	OpenTickets     int                         `json:"open_requests"`
	RecentPayments  []*model.RentPayment        `json:"recent_payments"`
	RecentTickets   []*model.MaintenanceRequest `json:"recent_requests"`
}

// Summary handles GET /v1/dashboard for both roles.
func (h *DashboardHandler) Summary(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if isLandlord(c) {
		return h.landlord(c, userID)
	}
	return h.tenant(c, userID)
}

func (h *DashboardHandler) landlord(c echo.Context, ownerID uint64) error {
	ctx := c.Request().Context()

	ids, err := h.Properties.IDsByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	collected, pending, err := h.Payments.TotalsByProperties(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	openTickets, err := h.Tickets.CountOpenByProperties(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	payments, err := h.Payments.ListByProperties(ctx, ids, recentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	tickets, err := h.Tickets.ListByProperties(ctx, ids, recentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if payments == nil {
		payments = []*model.RentPayment{}
	}
	if tickets == nil {
		tickets = []*model.MaintenanceRequest{}
	}
	return c.JSON(http.StatusOK, landlordDashboard{
		PropertyCount:  len(ids),
		RentCollected:  collected,
		PendingCount:   pending,
		OpenTickets:    openTickets,
		RecentPayments: classify(payments),
		RecentTickets:  tickets,
	})
}

func (h *DashboardHandler) tenant(c echo.Context, userID uint64) error {
	ctx := c.Request().Context()

	propID, err := h.Users.AssignedPropertyID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := tenantDashboard{
		RecentPayments: []*model.RentPayment{},
		RecentTickets:  []*model.MaintenanceRequest{},
	}
	openTickets, err := h.Tickets.CountOpenByCreator(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out.OpenTickets = openTickets

	tickets, err := h.Tickets.ListByCreator(ctx, userID, recentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if tickets != nil {
		out.RecentTickets = tickets
	}
	if propID == nil {
		// Unassigned tenants still get a dashboard, just an empty one.
		return c.JSON(http.StatusOK, out)
	}

	prop, err := h.Properties.GetByID(ctx, *propID)
	if err != nil && !errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err == nil {
		out.PropertyName = prop.Name
		out.PropertyAddress = prop.Address
	}
	latest, err := h.Payments.LatestByProperty(ctx, *propID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if latest != nil {
		latest.Status = latest.DisplayStatus(time.Now().UTC())
		out.NextPayment = latest
	}
	payments, err := h.Payments.ListByProperty(ctx, *propID, recentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if payments != nil {
		out.RecentPayments = classify(payments)
	}
	return c.JSON(http.StatusOK, out)
}
