package reservations

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourbook/internal/catalog"
	"tourbook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Checkout books a single package for the caller.
func (ctrl *Controller) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	item, err := toBookingItem(req.BookingItemRequest)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := ctrl.service.BookOne(c.Request.Context(), userIDFromContext(c), item,
		OriginWeb, Contact{Name: req.ContactName, Email: req.ContactEmail}, req.PaymentMethod)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Reservation created successfully", toCheckoutResponse(result))
}

// CheckoutBatch books several packages atomically.
func (ctrl *Controller) CheckoutBatch(c *gin.Context) {
	var req BatchCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	items := make([]BookingItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := toBookingItem(itemReq)
		if err != nil {
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		items = append(items, item)
	}

	result, err := ctrl.service.BookMany(c.Request.Context(), userIDFromContext(c), items,
		OriginWeb, Contact{Name: req.ContactName, Email: req.ContactEmail}, req.PaymentMethod)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Reservations created successfully", toCheckoutResponse(result))
}

// ListMine returns the authenticated user's reservations.
func (ctrl *Controller) ListMine(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	list, err := ctrl.service.ListByUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch reservations", err.Error())
		return
	}

	resp := make([]ReservationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toReservationResponse(&list[i], ""))
	}
	response.Success(c, http.StatusOK, "Reservations fetched successfully", resp)
}

// GetByCode returns one reservation. Owners and operators only.
func (ctrl *Controller) GetByCode(c *gin.Context) {
	code := c.Param("code")

	reservation, err := ctrl.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if !isOperator(c) {
		userID := userIDFromContext(c)
		if reservation.UserID == nil || userID == nil || *reservation.UserID != *userID {
			response.Error(c, http.StatusForbidden, "Insufficient permissions", nil)
			return
		}
	}
	response.Success(c, http.StatusOK, "Reservation fetched successfully", toReservationResponse(reservation, ""))
}

// Cancel cancels the caller's reservation, honoring the cancellation window.
func (ctrl *Controller) Cancel(c *gin.Context) {
	code := c.Param("code")

	reservation, err := ctrl.service.Cancel(c.Request.Context(), code, userIDFromContext(c), false)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Reservation cancelled successfully", toReservationResponse(reservation, ""))
}

// respondBookingError maps coordinator errors onto the HTTP surface.
func respondBookingError(c *gin.Context, err error) {
	if capErr, ok := AsCapacityError(err); ok {
		response.RespondJSON(c, "error", http.StatusConflict, "Insufficient capacity", gin.H{
			"package_code": capErr.PackageCode,
			"travel_date":  capErr.TravelDate.Format("2006-01-02"),
			"requested":    capErr.Requested,
			"remaining":    capErr.Remaining,
		}, nil)
		return
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, catalog.ErrPackageNotFound):
		response.Error(c, http.StatusNotFound, "Package not found", nil)
	case errors.Is(err, ErrReservationNotFound):
		response.Error(c, http.StatusNotFound, "Reservation not found", nil)
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "Reservation belongs to another user", nil)
	case errors.Is(err, ErrCancellationWindowClosed):
		response.Error(c, http.StatusConflict, "Cancellation window has closed", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Booking operation failed", err.Error())
	}
}

func toBookingItem(req BookingItemRequest) (BookingItem, error) {
	date, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		return BookingItem{}, errors.New("travel_date must be in YYYY-MM-DD format")
	}
	return BookingItem{
		PackageCode: req.PackageCode,
		TravelDate:  date,
		Adults:      req.Adults,
		Children:    req.Children,
	}, nil
}

func toReservationResponse(r *Reservation, packageCode string) ReservationResponse {
	return ReservationResponse{
		Code:        r.Code,
		PackageCode: packageCode,
		TravelDate:  r.TravelDate.Format("2006-01-02"),
		Adults:      r.Adults,
		Children:    r.Children,
		TotalAmount: r.TotalAmount,
		Currency:    r.Currency,
		Origin:      string(r.Origin),
		Status:      string(r.Status),
		CancelledAt: r.CancelledAt,
		CreatedAt:   r.CreatedAt,
	}
}

func toCheckoutResponse(result *BookingResult) CheckoutResponse {
	resp := CheckoutResponse{
		InvoiceCode: result.Invoice.Code,
		Subtotal:    result.Invoice.Subtotal,
		TaxAmount:   result.Invoice.TaxAmount,
		Total:       result.Invoice.Total,
		Currency:    result.Invoice.Currency,
	}
	for _, reservation := range result.Reservations {
		resp.Reservations = append(resp.Reservations,
			toReservationResponse(reservation, result.PackageCodes[reservation.PackageID]))
	}
	return resp
}

// userIDFromContext extracts the authenticated user's ID set by the JWT
// middleware. Nil for anonymous callers.
func userIDFromContext(c *gin.Context) *uuid.UUID {
	raw, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return nil
	}
	return &id
}

func isOperator(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	return exists && role == "OPERATOR"
}
