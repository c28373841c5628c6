package integration

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tourbook/internal/availability"
	"tourbook/internal/catalog"
	"tourbook/internal/holds"
	"tourbook/internal/reservations"
	"tourbook/internal/shared/utils/response"
)

// Controller is the partner-facing adapter. It owns no business logic: every
// handler translates a partner request into core service calls.
type Controller struct {
	catalog      catalog.Service
	availability availability.Service
	holds        holds.Service
	coordinator  reservations.Service
	taxRate      float64
}

func NewController(
	catalogService catalog.Service,
	availabilityService availability.Service,
	holdService holds.Service,
	coordinator reservations.Service,
	taxRate float64,
) *Controller {
	return &Controller{
		catalog:      catalogService,
		availability: availabilityService,
		holds:        holdService,
		coordinator:  coordinator,
		taxRate:      taxRate,
	}
}

// SearchServices lists packages, optionally filtered by price range.
// Query params: min_price, max_price.
func (ctrl *Controller) SearchServices(c *gin.Context) {
	minPrice, ok := parsePriceParam(c, "min_price", 0)
	if !ok {
		return
	}
	maxPrice, ok := parsePriceParam(c, "max_price", math.MaxFloat64)
	if !ok {
		return
	}

	pkgs, err := ctrl.catalog.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to search services", err.Error())
		return
	}

	results := make([]ServiceSummary, 0, len(pkgs))
	for i := range pkgs {
		if pkgs[i].PriceAdult < minPrice || pkgs[i].PriceAdult > maxPrice {
			continue
		}
		results = append(results, toServiceSummary(&pkgs[i]))
	}
	response.Success(c, http.StatusOK, "Services fetched successfully", results)
}

// GetService returns one package by code.
func (ctrl *Controller) GetService(c *gin.Context) {
	pkg, err := ctrl.catalog.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			response.Error(c, http.StatusNotFound, "Service not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch service", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Service fetched successfully", toServiceSummary(pkg))
}

// CheckAvailability answers a seat availability question for a partner.
func (ctrl *Controller) CheckAvailability(c *gin.Context) {
	date, ok := parseDateParam(c, c.Query("date"))
	if !ok {
		return
	}

	seats := 1
	if seatsStr := c.Query("seats"); seatsStr != "" {
		var err error
		seats, err = strconv.Atoi(seatsStr)
		if err != nil || seats < 1 {
			response.Error(c, http.StatusBadRequest, "seats must be a positive integer", nil)
			return
		}
	}

	snapshot, err := ctrl.availability.Check(c.Request.Context(), c.Param("code"), date, seats)
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			response.Error(c, http.StatusNotFound, "Service not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to check availability", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Availability fetched successfully", snapshot)
}

// Quote prices a multi-item request without booking anything.
func (ctrl *Controller) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	quote := QuoteResponse{}
	for _, item := range req.Items {
		pkg, err := ctrl.catalog.GetByCode(c.Request.Context(), item.PackageCode)
		if err != nil {
			if errors.Is(err, catalog.ErrPackageNotFound) {
				response.Error(c, http.StatusNotFound, "Service not found: "+item.PackageCode, nil)
				return
			}
			response.Error(c, http.StatusInternalServerError, "Failed to compute quote", err.Error())
			return
		}
		if quote.Currency == "" {
			quote.Currency = pkg.Currency
		}

		lineTotal := round2(float64(item.Adults)*pkg.PriceAdult + float64(item.Children)*pkg.PriceChild)
		quote.Lines = append(quote.Lines, QuoteLineResponse{
			PackageCode: pkg.Code,
			Adults:      item.Adults,
			Children:    item.Children,
			LineTotal:   lineTotal,
		})
		quote.Subtotal += lineTotal
	}

	quote.Subtotal = round2(quote.Subtotal)
	quote.Tax = round2(quote.Subtotal * ctrl.taxRate)
	quote.Total = round2(quote.Subtotal + quote.Tax)
	response.Success(c, http.StatusOK, "Quote computed successfully", quote)
}

// CreateHold opens a two-phase hold for a partner.
func (ctrl *Controller) CreateHold(c *gin.Context) {
	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	date, ok := parseDateParam(c, req.TravelDate)
	if !ok {
		return
	}

	hold, err := ctrl.holds.Create(c.Request.Context(), holds.CreateInput{
		PackageCode:  req.PackageCode,
		TravelDate:   date,
		Adults:       req.Adults,
		Children:     req.Children,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		TTL:          time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		respondIntegrationError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Hold created successfully", toHoldResponse(hold))
}

// GetHold returns a live hold.
func (ctrl *Controller) GetHold(c *gin.Context) {
	hold, err := ctrl.holds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondIntegrationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Hold fetched successfully", toHoldResponse(hold))
}

// ConfirmHold converts a hold into a committed reservation. The body is
// optional: partners that send no payment method get the web default.
func (ctrl *Controller) ConfirmHold(c *gin.Context) {
	var req ConfirmHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := ctrl.holds.Confirm(c.Request.Context(), c.Param("id"), req.PaymentMethod)
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	reservation := result.Reservations[0]
	response.Success(c, http.StatusCreated, "Hold confirmed successfully", ConfirmHoldResponse{
		ReservationCode: reservation.Code,
		InvoiceCode:     result.Invoice.Code,
		TotalAmount:     reservation.TotalAmount,
		Currency:        reservation.Currency,
	})
}

// CancelHold releases a hold. Unknown IDs succeed: the hold may have expired.
func (ctrl *Controller) CancelHold(c *gin.Context) {
	if err := ctrl.holds.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to cancel hold", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Hold cancelled successfully", nil)
}

// CancelReservation is the operator-class cancellation for the partner
// channel. The cancellation window bypass follows server config.
func (ctrl *Controller) CancelReservation(c *gin.Context) {
	reservation, err := ctrl.coordinator.Cancel(c.Request.Context(), c.Param("code"), nil, true)
	if err != nil {
		respondIntegrationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Reservation cancelled successfully", gin.H{
		"reservation_code": reservation.Code,
		"status":           string(reservation.Status),
		"cancelled_at":     reservation.CancelledAt,
	})
}

func respondIntegrationError(c *gin.Context, err error) {
	if capErr, ok := reservations.AsCapacityError(err); ok {
		response.RespondJSON(c, "error", http.StatusConflict, "Insufficient capacity", gin.H{
			"package_code": capErr.PackageCode,
			"travel_date":  capErr.TravelDate.Format("2006-01-02"),
			"requested":    capErr.Requested,
			"remaining":    capErr.Remaining,
		}, nil)
		return
	}

	switch {
	case errors.Is(err, reservations.ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, catalog.ErrPackageNotFound):
		response.Error(c, http.StatusNotFound, "Service not found", nil)
	case errors.Is(err, holds.ErrHoldNotFound):
		response.Error(c, http.StatusNotFound, "Hold not found", nil)
	case errors.Is(err, reservations.ErrReservationNotFound):
		response.Error(c, http.StatusNotFound, "Reservation not found", nil)
	case errors.Is(err, holds.ErrHoldExpired):
		response.Error(c, http.StatusConflict, "Hold has expired", nil)
	case errors.Is(err, reservations.ErrCancellationWindowClosed):
		response.Error(c, http.StatusConflict, "Cancellation window has closed", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Integration operation failed", err.Error())
	}
}

func toServiceSummary(pkg *catalog.Package) ServiceSummary {
	return ServiceSummary{
		Code:         pkg.Code,
		Title:        pkg.Title,
		Description:  pkg.Description,
		PriceAdult:   pkg.PriceAdult,
		PriceChild:   pkg.PriceChild,
		Currency:     pkg.Currency,
		DurationDays: pkg.DurationDays,
	}
}

func toHoldResponse(hold *holds.Hold) HoldResponse {
	return HoldResponse{
		HoldID:      hold.ID,
		PackageCode: hold.PackageCode,
		TravelDate:  hold.TravelDate.Format("2006-01-02"),
		Adults:      hold.Adults,
		Children:    hold.Children,
		ExpiresAt:   hold.ExpiresAt,
	}
}

func parsePriceParam(c *gin.Context, name string, fallback float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		response.Error(c, http.StatusBadRequest, name+" must be a non-negative number", nil)
		return 0, false
	}
	return val, true
}

func parseDateParam(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		response.Error(c, http.StatusBadRequest, "date is required in YYYY-MM-DD format", nil)
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format", nil)
		return time.Time{}, false
	}
	return date, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
