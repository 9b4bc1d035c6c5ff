package web

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sadopc/plantcare/internal/export"
)

// NewApp builds the Fiber app with middleware and routes installed.
func NewApp(handler *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Plant Care Assistant",
		DisableStartupMessage: true,
		BodyLimit:             export.MaxImportBytes + 1<<20,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(handler.observe)
	app.Use(compress.New())
	if handler.csrf {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:csrf_token",
			CookieName:     "plantcare_csrf",
			CookieSameSite: "Lax",
			CookieHTTPOnly: true,
			ContextKey:     "csrf",
			// API writes require application/json bodies.
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api/")
			},
		}))
	}

	RegisterRoutes(app, handler)
	return app
}

// Serve listens on addr until ctx is cancelled, then shuts down within
// timeout.
func Serve(ctx context.Context, app *fiber.App, addr string, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errc
}
