package availability

import (
	"github.com/gin-gonic/gin"
)

func SetupAvailabilityRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public: availability snapshots are advisory and unauthenticated.
	router.GET("/packages/:code/availability", controller.Check) // GET /api/v1/packages/:code/availability?date=&seats=
}
