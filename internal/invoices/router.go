package invoices

import (
	"tourbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupInvoiceRoutes(router *gin.RouterGroup, controller *Controller) {
	invoices := router.Group("/invoices")
	invoices.Use(middleware.JWTAuth())
	{
		invoices.GET("/:code", controller.GetByCode) // GET /api/v1/invoices/:code
	}
}
