package web

import (
	"encoding/base64"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sadopc/plantcare/internal/registry"
	"github.com/sadopc/plantcare/internal/schedule"
	"github.com/sadopc/plantcare/internal/store"
	"github.com/sadopc/plantcare/internal/view"
)

type plantResponse struct {
	store.Plant
	NextWatering string `json:"nextWatering"`
	DueToday     bool   `json:"dueToday"`
}

type createPlantRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Frequency int    `json:"frequency"`
	// Photo is the raw image, base64 encoded.
	Photo string `json:"photo"`
}

type calendarEvent struct {
	PlantID   string `json:"plantId"`
	PlantName string `json:"plantName"`
	PlantType string `json:"plantType"`
}

type calendarDay struct {
	Date    string          `json:"date"`
	Weekday string          `json:"weekday"`
	IsToday bool            `json:"isToday"`
	Events  []calendarEvent `json:"events"`
}

type calendarResponse struct {
	Days        []calendarDay `json:"days"`
	TotalEvents int           `json:"totalEvents"`
}

func (h *Handler) ListPlants(c *fiber.Ctx) error {
	today := h.now()
	plants := h.reg.Plants()
	out := make([]plantResponse, 0, len(plants))
	for _, p := range plants {
		out = append(out, plantResponse{
			Plant:        p,
			NextWatering: schedule.NextDue(p, today).Format(view.DateLayout),
			DueToday:     schedule.IsDue(p, today),
		})
	}
	return c.JSON(out)
}

func (h *Handler) CreatePlant(c *fiber.Ctx) error {
	if !c.Is("json") {
		return apiError(c, fiber.StatusUnsupportedMediaType, "expected application/json")
	}
	var req createPlantRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	var photo []byte
	if req.Photo != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Photo)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "photo must be base64 encoded")
		}
		photo = decoded
	}

	p, err := h.reg.Add(c.UserContext(), registry.Input{
		Name:      req.Name,
		Type:      req.Type,
		Frequency: req.Frequency,
		Photo:     photo,
	})
	h.metrics.IncOperation("add", err == nil)
	h.metrics.SetPlants(h.reg.Len())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) DeletePlantAPI(c *fiber.Ctx) error {
	p, removed, err := h.reg.Delete(c.Params("id"))
	h.metrics.IncOperation("delete", err == nil)
	h.metrics.SetPlants(h.reg.Len())
	if err != nil {
		return h.fail(c, err)
	}
	if !removed {
		return apiError(c, fiber.StatusNotFound, "plant not found")
	}
	return c.JSON(fiber.Map{"removed": true, "plant": p})
}

// Calendar returns the watering window; days defaults to the configured
// calendar length.
func (h *Handler) Calendar(c *fiber.Ctx) error {
	days := h.calendarDays()
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 366 {
			return apiError(c, fiber.StatusBadRequest, "days must be between 1 and 366")
		}
		days = n
	}

	cal := view.BuildCalendar(h.reg.Plants(), h.now(), days)
	out := calendarResponse{Days: make([]calendarDay, 0, len(cal.Cells)), TotalEvents: cal.TotalEvents}
	for _, cell := range cal.Cells {
		d := calendarDay{
			Date:    cell.DateString,
			Weekday: cell.Weekday,
			IsToday: cell.IsToday,
			Events:  make([]calendarEvent, 0, len(cell.Events)),
		}
		for _, e := range cell.Events {
			d.Events = append(d.Events, calendarEvent{PlantID: e.PlantID, PlantName: e.PlantName, PlantType: e.PlantType})
		}
		out.Days = append(out.Days, d)
	}
	return c.JSON(out)
}
