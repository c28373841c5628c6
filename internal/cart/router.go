package cart

import (
	"tourbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCartRoutes(router *gin.RouterGroup, controller *Controller) {
	cartGroup := router.Group("/cart")
	cartGroup.Use(middleware.JWTAuth())
	{
		cartGroup.GET("", controller.GetQuote)           // GET /api/v1/cart
		cartGroup.POST("/items", controller.Add)         // POST /api/v1/cart/items
		cartGroup.PUT("/items/:id", controller.UpdateParty) // PUT /api/v1/cart/items/:id
		cartGroup.DELETE("/items/:id", controller.Remove)   // DELETE /api/v1/cart/items/:id
		cartGroup.DELETE("", controller.Clear)           // DELETE /api/v1/cart
		cartGroup.POST("/checkout", controller.Checkout) // POST /api/v1/cart/checkout
	}
}
