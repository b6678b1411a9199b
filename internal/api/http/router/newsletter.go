package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/samarthyatrust/samarthya_backend/internal/api/http/handler"
)

func (r *Router) registerNewsletterRoutes(api fiber.Router, h *handler.NewsletterHandler) {
	api.Post("/newsletter/subscribe", h.Subscribe)

	// GET serves the emailed one-click link; POST serves clients
	api.Get("/newsletter/unsubscribe/:token", h.Unsubscribe)
	api.Post("/newsletter/unsubscribe/:token", h.Unsubscribe)
}
