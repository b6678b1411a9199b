package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/samarthyatrust/samarthya_backend/internal/api/http/middleware"
	"github.com/samarthyatrust/samarthya_backend/internal/service/newsletter"
	"github.com/samarthyatrust/samarthya_backend/pkg/reqctx"
)

type NewsletterHandler struct {
	svc newsletter.Service
}

func NewNewsletterHandler(svc newsletter.Service) *NewsletterHandler {
	return &NewsletterHandler{svc: svc}
}

func (h *NewsletterHandler) Subscribe(c fiber.Ctx) error {
	var body map[string]any
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx := c.Context()
	if meta, ok := middleware.RequestMetaFromFiber(c); ok {
		ctx = reqctx.WithRequestMeta(ctx, meta)
	}

	res, err := h.svc.Subscribe(ctx, body)
	if err != nil {
		return serviceError(c, err)
	}

	if res.Reactivated {
		return okMessage(c, "Your subscription has been reactivated", res)
	}
	return created(c, "You are subscribed to the newsletter", res)
}

// Unsubscribe serves the one-click link from the welcome email.
func (h *NewsletterHandler) Unsubscribe(c fiber.Ctx) error {
	if err := h.svc.Unsubscribe(c.Context(), c.Params("token")); err != nil {
		return serviceError(c, err)
	}
	return okMessage(c, "You have been unsubscribed", nil)
}
