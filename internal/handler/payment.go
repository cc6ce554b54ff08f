package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/property-management/internal/model"
	"github.com/iliyamo/property-management/internal/queue"
	"github.com/iliyamo/property-management/internal/repository"
	queue_publisher "github.com/iliyamo/property-management/internal/service"
)

// PaymentHandler implements rent payment operations. Listing is shared
// between roles; scheduling and the mark-paid transition are landlord-only.
type PaymentHandler struct {
	Payments   *repository.RentPaymentRepo
	Properties *repository.PropertyRepo
	Users      *repository.UserRepo

	// publishRentPaid is swapped out in tests; failures are ignored.
	publishRentPaid func(context.Context, queue.RentPaidEvent) error
}

// NewPaymentHandler constructs a PaymentHandler and panics if a dependency is nil.
func NewPaymentHandler(payments *repository.RentPaymentRepo, properties *repository.PropertyRepo, users *repository.UserRepo) *PaymentHandler {
	if payments == nil || properties == nil || users == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{
		Payments:        payments,
		Properties:      properties,
		Users:           users,
		publishRentPaid: queue_publisher.PublishRentPaid,
	}
}

type schedulePaymentReq struct {
	PropertyID uint64 `json:"property_id" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
	DueDate    string `json:"due_date" validate:"required"`
}

// classify rewrites the stored status of each row into its display
// classification: an overdue PENDING payment reads as LATE. The stored value
// is untouched; this is purely a response-time derivation.
func classify(items []*model.RentPayment) []*model.RentPayment {
	now := time.Now().UTC()
	for _, p := range items {
		p.Status = p.DisplayStatus(now)
	}
	return items
}

// List handles GET /v1/payments. Landlords see payments across their owned
// properties; tenants see their assigned property's payments, or an empty
// list when unassigned. Ordered by due date descending.
func (h *PaymentHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	var items []*model.RentPayment
	if isLandlord(c) {
		ids, err := h.Properties.IDsByOwner(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		items, err = h.Payments.ListByProperties(ctx, ids, 0)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	} else {
		pid, err := h.Users.AssignedPropertyID(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if pid != nil {
			items, err = h.Payments.ListByProperty(ctx, *pid, 0)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
			}
		}
	}
	if items == nil {
		items = []*model.RentPayment{}
	}
	return c.JSON(http.StatusOK, classify(items))
}

// Schedule handles POST /v1/payments (landlord only). It creates a PENDING
// payment against an owned property, standing in for the external billing
// process that generates rent rows in production.
func (h *PaymentHandler) Schedule(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req schedulePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a positive number"})
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "due_date must be an RFC3339 timestamp or YYYY-MM-DD"})
	}
	ctx := c.Request().Context()

	p, err := h.Properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if p.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	payment := &model.RentPayment{
		PropertyID: req.PropertyID,
		Amount:     amount,
		DueDate:    dueDate,
	}
	if err := h.Payments.Create(ctx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create payment"})
	}
	return c.JSON(http.StatusCreated, payment)
}

// MarkPaid handles PUT /v1/payments/:id (landlord only). This is the single
// exposed transition: the stored status becomes PAID and paid_date is set
// server-side; the caller supplies nothing. Marking an already-paid payment
// again succeeds without touching paid_date.
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	payment, paymentOwner, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if paymentOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	wasPaid := payment.Status == model.PaymentPaid

	updated, err := h.Payments.MarkPaid(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if !wasPaid {
		// Best-effort notification; the transition is already persisted.
		name := ""
		if p, err := h.Properties.GetByID(ctx, updated.PropertyID); err == nil {
			name = p.Name
		}
		_ = h.publishRentPaid(ctx, queue.RentPaidEvent{
			PaymentID:    updated.ID,
			PropertyID:   updated.PropertyID,
			PropertyName: name,
			LandlordID:   ownerID,
			Amount:       updated.Amount.String(),
			PaidAt:       time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, updated)
}

func parseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
