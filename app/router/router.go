package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firstclassrl/pixel-pdf-service/app/controller"
	"github.com/firstclassrl/pixel-pdf-service/middleware"
)

// Controllers groups the HTTP controllers mounted by the router.
type Controllers struct {
	PDF    *controller.PDFController
	Health *controller.HealthController
}

// New builds the chi router with the full middleware chain and all routes.
func New(controllers *Controllers, l *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(l))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.RequestLogging(l))
	r.Use(middleware.PrometheusMetrics("pdf-service"))

	r.Post("/generate-pdf", controllers.PDF.GeneratePDF)
	r.Post("/generate-pdf-and-upload", controllers.PDF.GeneratePDFAndUpload)

	r.Get("/health", controllers.Health.Health)
	r.Get("/health/ready", controllers.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
