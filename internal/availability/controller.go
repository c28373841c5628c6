package availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tourbook/internal/catalog"
	"tourbook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Check answers "how many seats are left for this package on this date".
// Query params: date (required, YYYY-MM-DD), seats (optional, default 1).
func (ctrl *Controller) Check(c *gin.Context) {
	code := c.Param("code")

	dateStr := c.Query("date")
	if dateStr == "" {
		response.Error(c, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format", err.Error())
		return
	}

	seats := 1
	if seatsStr := c.Query("seats"); seatsStr != "" {
		seats, err = strconv.Atoi(seatsStr)
		if err != nil || seats < 1 {
			response.Error(c, http.StatusBadRequest, "seats must be a positive integer", nil)
			return
		}
	}

	snapshot, err := ctrl.service.Check(c.Request.Context(), code, date, seats)
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			response.Error(c, http.StatusNotFound, "Package not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to check availability", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Availability fetched successfully", snapshot)
}
