package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReservationsCreated counts committed reservations by origin.
	ReservationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourbook_reservations_created_total",
		Help: "Committed reservations by origin channel.",
	}, []string{"origin"})

	// ReservationsCancelled counts compensated reservations.
	ReservationsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourbook_reservations_cancelled_total",
		Help: "Reservations cancelled through the compensation path.",
	})

	// CapacityRejections counts checkouts rejected for lack of seats.
	CapacityRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourbook_capacity_rejections_total",
		Help: "Checkout attempts rejected because remaining capacity was insufficient.",
	})

	// HoldsCreated counts integration holds opened.
	HoldsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourbook_holds_created_total",
		Help: "Integration holds created.",
	})

	// HoldsConfirmed counts holds converted into reservations.
	HoldsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourbook_holds_confirmed_total",
		Help: "Integration holds confirmed into reservations.",
	})

	// HoldsExpired counts confirm attempts against dead holds.
	HoldsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourbook_holds_expired_total",
		Help: "Confirm attempts that found the hold expired or missing.",
	})
)

// Handler exposes the prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
