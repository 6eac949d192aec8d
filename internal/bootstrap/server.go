package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avelkov/tripdesk/api"
	"github.com/avelkov/tripdesk/config"
	"github.com/avelkov/tripdesk/internal/metrics"
	"github.com/avelkov/tripdesk/internal/repository"
	"github.com/avelkov/tripdesk/internal/service/booking"
	"github.com/avelkov/tripdesk/internal/service/catalog"
	"github.com/avelkov/tripdesk/internal/service/visas"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, catalogSvc catalog.CatalogUseCase, tourRepo repository.TourRepository, bookingSvc booking.BookingUseCase, visaSvc visas.VisaUseCase) error {
	m := metrics.NewServerMetrics("api")
	router := api.NewRouter(catalogSvc, tourRepo, bookingSvc, visaSvc, m, cfg.HTTP.SwaggerDir)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
