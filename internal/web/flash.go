package web

import (
	"encoding/base64"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/sadopc/plantcare/internal/view"
)

const flashCookieName = "plantcare_flash"

type flashPayload struct {
	Kind    view.NoticeKind `json:"kind"`
	Message string          `json:"message"`
}

func setFlash(c *fiber.Ctx, n view.Notice) {
	msg := strings.TrimSpace(n.Message)
	if msg == "" {
		clearFlash(c)
		return
	}

	serialized, err := json.Marshal(flashPayload{Kind: n.Kind, Message: msg})
	if err != nil {
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(serialized),
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

// popFlash reads and clears the pending notice. A tampered cookie yields
// the zero notice.
func popFlash(c *fiber.Ctx) view.Notice {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return view.Notice{}
	}
	clearFlash(c)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return view.Notice{}
	}
	var payload flashPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return view.Notice{}
	}
	switch payload.Kind {
	case view.NoticeSuccess, view.NoticeInfo, view.NoticeError:
	default:
		payload.Kind = view.NoticeInfo
	}
	return view.Notice{Kind: payload.Kind, Message: strings.TrimSpace(payload.Message)}
}

func clearFlash(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
