package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/samarthyatrust/samarthya_backend/internal/api/http/middleware"
	"github.com/samarthyatrust/samarthya_backend/internal/form"
	"github.com/samarthyatrust/samarthya_backend/internal/service/submission"
	"github.com/samarthyatrust/samarthya_backend/pkg/reqctx"
)

// SubmissionHandler serves every form type; the descriptor passed at
// route registration decides which one.
type SubmissionHandler struct {
	svc submission.Service
}

func NewSubmissionHandler(svc submission.Service) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Submit is the public submission endpoint for one form type.
func (h *SubmissionHandler) Submit(desc form.Descriptor) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body map[string]any
		if err := c.Bind().JSON(&body); err != nil {
			return badRequest(c, "invalid request body")
		}

		ctx := c.Context()
		if meta, ok := middleware.RequestMetaFromFiber(c); ok {
			ctx = reqctx.WithRequestMeta(ctx, meta)
		}

		res, err := h.svc.Submit(ctx, desc, body)
		if err != nil {
			return serviceError(c, err)
		}
		return created(c, fmt.Sprintf("Your %s has been received", desc.Label), res)
	}
}

// List is the admin listing endpoint: filter, search, paginate, stats.
func (h *SubmissionHandler) List(desc form.Descriptor) fiber.Handler {
	return func(c fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		q := submission.ListQuery{
			Status:  c.Query("status"),
			Search:  c.Query("search"),
			Page:    page,
			PerPage: limit,
		}
		for _, name := range desc.Filters {
			if v := c.Query(name); v != "" {
				if q.Filters == nil {
					q.Filters = make(map[string]string)
				}
				q.Filters[name] = v
			}
		}

		res, err := h.svc.List(c.Context(), desc, q)
		if err != nil {
			return serviceError(c, err)
		}
		return listPage(c, res.Items, res.Stats, fiber.Map{
			"current": res.Page,
			"pages":   res.TotalPages,
			"total":   res.Total,
		})
	}
}

// Get is the admin detail endpoint.
func (h *SubmissionHandler) Get(desc form.Descriptor) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return badRequest(c, "invalid submission id")
		}

		rec, err := h.svc.Get(c.Context(), desc, id)
		if err != nil {
			return serviceError(c, err)
		}
		return ok(c, rec)
	}
}

type updateStatusRequest struct {
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
	Notes    string `json:"notes"`
	Reason   string `json:"reason"`
}

// UpdateStatus is the admin transition endpoint.
func (h *SubmissionHandler) UpdateStatus(desc form.Descriptor) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return badRequest(c, "invalid submission id")
		}

		var req updateStatusRequest
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.Status == "" {
			return badRequest(c, "status is required")
		}

		rec, err := h.svc.UpdateStatus(c.Context(), desc, id, submission.StatusInput{
			Status:   req.Status,
			Assignee: req.Assignee,
			Notes:    req.Notes,
			Reason:   req.Reason,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return okMessage(c, "status updated", rec)
	}
}
