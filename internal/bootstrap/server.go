package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyfare/booking/api"
	"github.com/skyfare/booking/config"
	"github.com/skyfare/booking/internal/service/checkin"
	"github.com/skyfare/booking/internal/service/draft"
	"github.com/skyfare/booking/internal/service/flights"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	log *logrus.Logger,
	flightSvc flights.FlightUseCase,
	draftSvc draft.DraftUseCase,
	checkinSvc checkin.CheckinUseCase,
) error {
	srv := newServer(cfg, log, flightSvc, draftSvc, checkinSvc)

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

func newServer(
	cfg *config.Config,
	log *logrus.Logger,
	flightSvc flights.FlightUseCase,
	draftSvc draft.DraftUseCase,
	checkinSvc checkin.CheckinUseCase,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	api.NewFlightHandler(flightSvc).Register(router.Group("/flights"))
	api.NewDraftHandler(draftSvc).Register(router.Group("/drafts"))
	api.NewCheckinHandler(checkinSvc).Register(router.Group("/checkin"))
	api.NewBookingHandler(draftSvc).Register(router.Group("/bookings"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.WithFields(logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      c.Request.URL.RawQuery,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	}
}
