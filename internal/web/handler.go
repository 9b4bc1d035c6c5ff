// Package web serves the plant registry to a browser: an HTML page with the
// add form, cards and calendar, plus a small JSON API.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sadopc/plantcare/internal/registry"
	"github.com/sadopc/plantcare/internal/schedule"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	reg       *registry.Registry
	store     *store.Store
	log       zerolog.Logger
	templates *template.Template
	metrics   Metrics

	now           func() time.Time
	maxPhotoBytes int64
	csrf          bool
}

type Options struct {
	// Now replaces time.Now, for tests.
	Now           func() time.Time
	MaxPhotoBytes int64
	Metrics       Metrics
	// CSRF guards the HTML form routes with a token cookie.
	CSRF bool
}

func NewHandler(reg *registry.Registry, s *store.Store, log zerolog.Logger, opts Options) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"photoURL": photoURL,
		"longDate": func(t time.Time) string { return t.Local().Format("Jan 2, 2006") },
		"dayLabel": func(t time.Time) string { return t.Format("Mon, Jan 2") },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	h := &Handler{
		reg:           reg,
		store:         s,
		log:           log.With().Str("component", "web").Logger(),
		templates:     tmpl,
		metrics:       opts.Metrics,
		now:           opts.Now,
		maxPhotoBytes: opts.MaxPhotoBytes,
		csrf:          opts.CSRF,
	}
	if h.metrics == nil {
		h.metrics = noopMetrics{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.maxPhotoBytes <= 0 {
		h.maxPhotoBytes = registry.DefaultMaxPhotoBytes
	}
	h.metrics.SetPlants(reg.Len())
	return h, nil
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	var output bytes.Buffer
	if err := h.templates.ExecuteTemplate(&output, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("render failed")
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

// Settings are shared with the terminal UI. Out-of-range values fall back.

func (h *Handler) calendarDays() int {
	return settingInRange(h.store.GetIntSetting(store.SettingCalendarDays, schedule.DefaultWindowDays), 1, 366, schedule.DefaultWindowDays)
}

func (h *Handler) noticeSeconds() int {
	fallback := int(view.DefaultNoticeDuration / time.Second)
	return settingInRange(h.store.GetIntSetting(store.SettingNoticeSeconds, fallback), 1, 60, fallback)
}

func (h *Handler) defaultFrequency() int {
	return settingInRange(h.store.GetIntSetting(store.SettingDefaultFrequency, 7), 1, 365, 7)
}

func settingInRange(v, lo, hi, fallback int) int {
	if v < lo || v > hi {
		return fallback
	}
	return v
}

// photoURL only lets image data URLs through to an img src; anything else
// renders the placeholder.
func photoURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get("Accept")), "application/json")
}

func redirectOrJSON(c *fiber.Ctx, n view.Notice, body any) error {
	if acceptsJSON(c) {
		return c.JSON(body)
	}
	setFlash(c, n)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// fail maps a registry error to a status and a user-facing message. Form
// posts get the message as a flash on the redirect; JSON callers get the
// status.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status, msg := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	if acceptsJSON(c) || strings.HasPrefix(c.Path(), "/api/") {
		var v *registry.ValidationError
		if errors.As(err, &v) && len(v.Fields) > 0 {
			return c.Status(status).JSON(fiber.Map{"error": msg, "fields": v.Fields})
		}
		return apiError(c, status, msg)
	}
	setFlash(c, view.Failure(msg))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func errorStatus(err error) (int, string) {
	var (
		v  *registry.ValidationError
		im *registry.ImportFormatError
		sw *store.StorageWriteError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &v):
		return fiber.StatusBadRequest, v.Message
	case errors.As(err, &im):
		return fiber.StatusBadRequest, "Invalid file format"
	case errors.As(err, &sw):
		return fiber.StatusInternalServerError, "Could not save your plants: " + sw.Err.Error()
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, "Something went wrong"
	}
}
