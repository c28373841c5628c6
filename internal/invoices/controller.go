package invoices

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetByCode returns an invoice with its ordered lines. Used by the document
// rendering frontend; the engine itself never reads invoices back.
func (ctrl *Controller) GetByCode(c *gin.Context) {
	code := c.Param("code")

	invoice, err := ctrl.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			response.Error(c, http.StatusNotFound, "Invoice not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch invoice", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Invoice fetched successfully", invoice)
}
