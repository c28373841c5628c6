package catalog

import (
	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public routes - anyone can browse the catalog
	packages := router.Group("/packages")
	{
		packages.GET("", controller.List)            // GET /api/v1/packages
		packages.GET("/:code", controller.GetByCode) // GET /api/v1/packages/:code
	}
}
