package api

import (
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/avelkov/tripdesk/internal/metrics"
	"github.com/avelkov/tripdesk/internal/repository"
	"github.com/avelkov/tripdesk/internal/service/booking"
	"github.com/avelkov/tripdesk/internal/service/catalog"
	"github.com/avelkov/tripdesk/internal/service/visas"
)

// NewRouter assembles the gin engine: catalog, checkout, transaction
// verification, gateway webhook and redirect landing pages, plus metrics
// and swagger docs.
func NewRouter(
	catalogSvc catalog.CatalogUseCase,
	tourRepo repository.TourRepository,
	bookingSvc booking.BookingUseCase,
	visaSvc visas.VisaUseCase,
	m *metrics.ServerMetrics,
	swaggerDir string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if m != nil {
		router.Use(m.Middleware())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	NewCatalogHandler(catalogSvc).Register(router.Group("/catalog"))
	NewTourHandler(tourRepo).Register(router.Group("/tours"))
	NewBookingHandler(bookingSvc).Register(router.Group("/bookings"))
	NewVisaBookingHandler(visaSvc).Register(router.Group("/visa-bookings"))
	NewPaymentHandler(bookingSvc, visaSvc).Register(router.Group("/payments"))

	if swaggerDir != "" {
		router.Static("/swagger", swaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/tripdesk.swagger.json"),
		)))
	}

	return router
}
