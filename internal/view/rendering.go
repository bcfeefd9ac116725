package view

import (
	"encoding/json"
	"fmt"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderHxRequest = "HX-Request"
	HeaderHxTrigger = "HX-Trigger"
)

func RenderComponent(c *fiber.Ctx, status int, component templ.Component) error {
	c.Status(status).Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Context(), c)
}

// IsHtmx reports whether the request was made by htmx rather than a plain form post.
func IsHtmx(c *fiber.Ctx) bool {
	return c.Get(HeaderHxRequest) == "true"
}

// RenderSwap renders fragment for htmx requests and the full page otherwise, so forms keep
// working with javascript disabled.
func RenderSwap(c *fiber.Ctx, status int, fragment, page templ.Component) error {
	if IsHtmx(c) {
		return RenderComponent(c, status, fragment)
	}
	return RenderComponent(c, status, page)
}

// Trigger asks htmx to dispatch event on the body once the response is swapped in.
func Trigger(c *fiber.Ctx, event string, detail any) error {
	payload, err := json.Marshal(map[string]any{event: detail})
	if err != nil {
		return fmt.Errorf("encode %s trigger: %w", event, err)
	}
	c.Set(HeaderHxTrigger, string(payload))
	return nil
}
