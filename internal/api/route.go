package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	v1 "github.com/kaixxz/MediNote/internal/api/v1"
	"github.com/kaixxz/MediNote/internal/api/middleware"
	"github.com/kaixxz/MediNote/internal/config"
	"github.com/kaixxz/MediNote/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const prefixV1 = "/api/v1"

// NewApp builds the fiber application with its middleware chain and routes.
func NewApp(cfg *config.Config, handler *v1.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer,
	logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "medinote",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(middleware.Track())
	app.Use(middleware.HTTPMetrics(m, logger))

	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	app.Get(metricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	SetupRoutes(app, handler, cfg.API.DefaultAccountID)

	return app
}

func SetupRoutes(app *fiber.App, handler *v1.Handler, defaultAccountID string) {
	app.Get("/ping", handler.Pong)
	app.Get("/health", handler.Health)

	api := app.Group(prefixV1, middleware.Account(defaultAccountID))
	api.Get("/credits", handler.GetCredits)
	api.Get("/credits/transactions", handler.GetTransactions)
	api.Get("/credits/packages", handler.GetPackages)
	api.Post("/credits/purchase", handler.Purchase)
	api.Post("/generate-section", handler.GenerateSection)
	api.Post("/generate-report", handler.GenerateReport)
	api.Post("/review", handler.Review)
	api.Get("/reports", handler.GetReports)

	drafts := api.Group("/drafts")
	drafts.Post("/", handler.CreateDraft)
	drafts.Get("/", handler.GetDrafts)
	drafts.Get("/:id", handler.GetDraft)
	drafts.Put("/:id", handler.UpdateDraft)
	drafts.Delete("/:id", handler.DeleteDraft)
}
