package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	if m := handler.metrics.Handler(); m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m))
	}

	app.Get("/", handler.ShowIndex)
	app.Post("/plants", handler.AddPlant)
	app.Post("/plants/:id/delete", handler.DeletePlant)
	app.Get("/export", handler.Export)
	app.Post("/import", handler.Import)
	app.Post("/clear", handler.Clear)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	plants := api.Group("/plants")
	plants.Get("", handler.ListPlants)
	plants.Post("", handler.CreatePlant)
	plants.Delete("/:id", handler.DeletePlantAPI)

	api.Get("/calendar", handler.Calendar)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// observe records every request in the metrics and the debug log.
func (h *Handler) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}
	duration := time.Since(start)
	route := c.Route().Path

	h.metrics.ObserveRequest(route, status, duration)
	h.log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("route", route).
		Int("status", status).
		Dur("duration", duration).
		Msg("request")
	return err
}
