package routes

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/internal/api/handlers"
	"Lote-Tracker/internal/api/presenters"
	"Lote-Tracker/internal/metrics"
	"Lote-Tracker/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App          *fiber.App
	BatchHandler handlers.BatchHandler
	ImageHandler handlers.ImageHandler
	StatsHandler handlers.StatsHandler
	Middleware   middleware.Middleware
	Metrics      *metrics.Metrics
	RateLimitMax int
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Options("/*", c.Middleware.PreflightHandler())
	if c.RateLimitMax > 0 {
		c.App.Use(c.Middleware.RateLimiter(c.RateLimitMax))
	}
	c.Batches()
	c.Images()
	c.GuestRoute()
	c.NotFound()
}

func (c *Config) Batches() {
	lote := c.App.Group("/api/lote")
	{
		lote.Post("", c.BatchHandler.CreateBatch)
		lote.Get("", c.BatchHandler.GetBatches)
		lote.Get("/:id", c.BatchHandler.GetBatchByID)
		lote.Put("/:id", c.BatchHandler.UpdateBatch)
		lote.Delete("/:id", c.BatchHandler.DeleteBatch)
		lote.Get("/:id/estadisticas", c.StatsHandler.GetBatchStatistics)
	}
}

func (c *Config) Images() {
	c.App.Post("/api/upload", c.ImageHandler.UploadImage)
	c.App.Post("/api/upload-multiple", c.ImageHandler.UploadImages)

	imagenes := c.App.Group("/api/imagenes")
	{
		imagenes.Get("", c.ImageHandler.GetImages)
		imagenes.Get("/:id", c.ImageHandler.GetImage)
		imagenes.Delete("/:id", c.ImageHandler.DeleteImage)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": domain.MessagePong})
	})
	if c.Metrics != nil {
		c.App.Get("/metrics", adaptor.HTTPHandler(c.Metrics.Handler()))
	}
}

// NotFound must be registered last so it only sees unmatched requests.
func (c *Config) NotFound() {
	c.App.Use(func(ctx *fiber.Ctx) error {
		return presenters.ErrorResponse(ctx, fiber.StatusNotFound, domain.MessageRouteNotFound, nil)
	})
}
