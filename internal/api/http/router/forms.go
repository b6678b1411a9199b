package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/samarthyatrust/samarthya_backend/internal/api/http/handler"
	"github.com/samarthyatrust/samarthya_backend/internal/form"
)

// registerFormRoutes mounts the public submission endpoint of every
// form type except the newsletter, which has its own handler.
func (r *Router) registerFormRoutes(api fiber.Router, h *handler.SubmissionHandler) {
	for _, desc := range form.Registry() {
		if desc.Type == form.TypeNewsletter {
			continue
		}
		api.Post(desc.SubmitPath(), h.Submit(desc))
	}
}

// registerAdminRoutes mounts listing, detail and status transition
// routes for every form type behind admin auth.
func (r *Router) registerAdminRoutes(api fiber.Router, h *handler.SubmissionHandler, authRequired fiber.Handler) {
	admin := api.Group("/admin", authRequired)

	for _, desc := range form.Registry() {
		admin.Get("/"+desc.Slug, h.List(desc))
		admin.Get("/"+desc.Slug+"/:id", h.Get(desc))
		admin.Patch("/"+desc.Slug+"/:id/status", h.UpdateStatus(desc))
	}
}
