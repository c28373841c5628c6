package reservations

import (
	"tourbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(router *gin.RouterGroup, controller *Controller) {
	// Checkout accepts anonymous web bookings; authenticated callers get
	// the reservation attached to their account.
	checkout := router.Group("/checkout")
	checkout.Use(middleware.OptionalAuth())
	{
		checkout.POST("", controller.Checkout)            // POST /api/v1/checkout
		checkout.POST("/batch", controller.CheckoutBatch) // POST /api/v1/checkout/batch
	}

	reservations := router.Group("/reservations")
	reservations.Use(middleware.JWTAuth())
	{
		reservations.GET("", controller.ListMine)          // GET /api/v1/reservations
		reservations.GET("/:code", controller.GetByCode)   // GET /api/v1/reservations/:code
		reservations.DELETE("/:code", controller.Cancel)   // DELETE /api/v1/reservations/:code
	}
}
