package catalog

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

// List returns every bookable package.
func (ctrl *Controller) List(c *gin.Context) {
	pkgs, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch packages", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Packages fetched successfully", pkgs)
}

// GetByCode returns a single package by its public code.
func (ctrl *Controller) GetByCode(c *gin.Context) {
	code := c.Param("code")

	pkg, err := ctrl.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			response.Error(c, http.StatusNotFound, "Package not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch package", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Package fetched successfully", pkg)
}
