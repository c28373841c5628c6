package integration

import (
	"tourbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupIntegrationRoutes(router *gin.RouterGroup, controller *Controller) {
	integration := router.Group("/integration")
	{
		integration.GET("/services", controller.SearchServices)                     // GET /api/v1/integration/services?min_price=&max_price=
		integration.GET("/services/:code", controller.GetService)                   // GET /api/v1/integration/services/:code
		integration.GET("/services/:code/availability", controller.CheckAvailability) // GET /api/v1/integration/services/:code/availability?date=&seats=
		integration.POST("/quotes", controller.Quote)                               // POST /api/v1/integration/quotes

		integration.POST("/holds", controller.CreateHold)            // POST /api/v1/integration/holds
		integration.GET("/holds/:id", controller.GetHold)            // GET /api/v1/integration/holds/:id
		integration.POST("/holds/:id/confirm", controller.ConfirmHold) // POST /api/v1/integration/holds/:id/confirm
		integration.DELETE("/holds/:id", controller.CancelHold)      // DELETE /api/v1/integration/holds/:id
	}

	// Partner cancellation is operator-class: it may bypass the window.
	operatorIntegration := router.Group("/integration")
	operatorIntegration.Use(middleware.JWTAuth(), middleware.RequireOperator())
	{
		operatorIntegration.DELETE("/reservations/:code", controller.CancelReservation) // DELETE /api/v1/integration/reservations/:code
	}
}
