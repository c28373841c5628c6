package cart

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourbook/internal/catalog"
	"tourbook/internal/reservations"
	"tourbook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Add puts a package on the caller's cart, replacing an existing line for
// the same package and date.
func (ctrl *Controller) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "travel_date must be in YYYY-MM-DD format", nil)
		return
	}

	item, err := ctrl.service.Add(c.Request.Context(), userID, AddInput{
		PackageCode: req.PackageCode,
		TravelDate:  date,
		Adults:      req.Adults,
		Children:    req.Children,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Item added to cart", item)
}

// UpdateParty changes the adults/children on a cart line.
func (ctrl *Controller) UpdateParty(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid cart item id", nil)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	item, err := ctrl.service.UpdateParty(c.Request.Context(), userID, itemID, req.Adults, req.Children)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cart item updated", item)
}

// Remove deletes one cart line.
func (ctrl *Controller) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid cart item id", nil)
		return
	}

	if err := ctrl.service.Remove(c.Request.Context(), userID, itemID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cart item removed", nil)
}

// GetQuote prices the cart and annotates lines with live availability.
func (ctrl *Controller) GetQuote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	quote, err := ctrl.service.GetQuote(c.Request.Context(), userID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cart quote computed", quote)
}

// Checkout books every cart line atomically.
func (ctrl *Controller) Checkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CheckoutCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := ctrl.service.Checkout(c.Request.Context(), userID,
		reservations.Contact{Name: req.ContactName, Email: req.ContactEmail}, req.PaymentMethod)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Cart checked out successfully", toCheckoutResponse(result))
}

// Clear empties the cart.
func (ctrl *Controller) Clear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := ctrl.service.Clear(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to clear cart", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Cart cleared", nil)
}

func respondCartError(c *gin.Context, err error) {
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
	case errors.Is(err, ErrEmptyCart):
		response.Error(c, http.StatusBadRequest, "Cart is empty", nil)
	case errors.Is(err, ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "Cart item not found", nil)
	case errors.Is(err, catalog.ErrPackageNotFound):
		response.Error(c, http.StatusNotFound, "Package not found", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Cart operation failed", err.Error())
	}
}

func toCheckoutResponse(result *reservations.BookingResult) gin.H {
	codes := make([]string, 0, len(result.Reservations))
	for _, reservation := range result.Reservations {
		codes = append(codes, reservation.Code)
	}
	return gin.H{
		"reservation_codes": codes,
		"invoice_code":      result.Invoice.Code,
		"subtotal":          result.Invoice.Subtotal,
		"tax_amount":        result.Invoice.TaxAmount,
		"total":             result.Invoice.Total,
		"currency":          result.Invoice.Currency,
	}
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return uuid.Nil, false
	}
	str, _ := raw.(string)
	userID, err := uuid.Parse(str)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid user identity", nil)
		return uuid.Nil, false
	}
	return userID, true
}
