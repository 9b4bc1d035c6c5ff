package web

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sadopc/plantcare/internal/export"
	"github.com/sadopc/plantcare/internal/registry"
	"github.com/sadopc/plantcare/internal/view"
)

func (h *Handler) ShowIndex(c *fiber.Ctx) error {
	today := h.now()
	plants := h.reg.Plants()
	token, _ := c.Locals("csrf").(string)

	return h.render(c, "index", fiber.Map{
		"Title":            "Plant Care Assistant",
		"Today":            today,
		"Cards":            view.BuildCards(plants, today),
		"Calendar":         view.BuildCalendar(plants, today, h.calendarDays()),
		"Flash":            popFlash(c),
		"NoticeSeconds":    h.noticeSeconds(),
		"DefaultFrequency": h.defaultFrequency(),
		"CSRFToken":        token,
		"Placeholder":      view.PlaceholderPhoto,
	})
}

// AddPlant handles the multipart add form (plantName, plantType,
// wateringFrequency, optional plantPhoto).
func (h *Handler) AddPlant(c *fiber.Ctx) error {
	photo, err := h.formFile(c, "plantPhoto", h.maxPhotoBytes)
	if err != nil {
		return h.fail(c, err)
	}

	in := registry.InputFromForm(
		c.FormValue("plantName"),
		c.FormValue("plantType"),
		c.FormValue("wateringFrequency"),
		photo,
	)
	p, err := h.reg.Add(c.UserContext(), in)
	h.metrics.IncOperation("add", err == nil)
	h.metrics.SetPlants(h.reg.Len())
	if err != nil {
		return h.fail(c, err)
	}
	return redirectOrJSON(c, view.Added(p.Name), p)
}

func (h *Handler) DeletePlant(c *fiber.Ctx) error {
	p, removed, err := h.reg.Delete(c.Params("id"))
	h.metrics.IncOperation("delete", err == nil)
	h.metrics.SetPlants(h.reg.Len())
	if err != nil {
		return h.fail(c, err)
	}
	if !removed {
		if acceptsJSON(c) {
			return apiError(c, fiber.StatusNotFound, "plant not found")
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return redirectOrJSON(c, view.Removed(p.Name), fiber.Map{"removed": true, "plant": p})
}

func (h *Handler) Export(c *fiber.Ctx) error {
	data, err := export.Marshal(h.reg.Plants())
	if err != nil {
		return h.fail(c, err)
	}
	c.Attachment(export.DefaultFilename)
	return c.Send(data)
}

// Import replaces the collection with an uploaded export file (field
// importFile).
func (h *Handler) Import(c *fiber.Ctx) error {
	data, err := h.formFile(c, "importFile", export.MaxImportBytes)
	if err != nil {
		return h.fail(c, err)
	}
	if data == nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "Choose a file to import."))
	}
	if int64(len(data)) > export.MaxImportBytes {
		return h.fail(c, fiber.NewError(fiber.StatusRequestEntityTooLarge, "The import file is too large."))
	}

	err = h.reg.Import(data)
	h.metrics.IncOperation("import", err == nil)
	if err != nil {
		return h.fail(c, err)
	}
	n := h.reg.Len()
	h.metrics.SetPlants(n)
	return redirectOrJSON(c, view.Imported(n), fiber.Map{"imported": n})
}

// Clear deletes every plant. The form must carry confirm=yes.
func (h *Handler) Clear(c *fiber.Ctx) error {
	if c.FormValue("confirm") != "yes" {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "Clearing needs confirmation."))
	}
	err := h.reg.Clear()
	h.metrics.IncOperation("clear", err == nil)
	if err != nil {
		return h.fail(c, err)
	}
	h.metrics.SetPlants(0)
	return redirectOrJSON(c, view.Cleared(), fiber.Map{"cleared": true})
}

// formFile returns up to limit+1 bytes of the named upload so callers can
// tell an oversized file apart. A missing or empty file part returns nil.
func (h *Handler) formFile(c *fiber.Ctx, field string, limit int64) ([]byte, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		// urlencoded posts carry no files
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Could not read the uploaded form.")
	}
	files := form.File[field]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Could not read the uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Could not read the uploaded file.")
	}
	h.log.Debug().Str("field", field).Int("bytes", len(data)).Msg("upload received")
	return data, nil
}
