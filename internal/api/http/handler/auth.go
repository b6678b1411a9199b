package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/samarthyatrust/samarthya_backend/internal/api/http/middleware"
	"github.com/samarthyatrust/samarthya_backend/internal/service/auth"
	"github.com/samarthyatrust/samarthya_backend/pkg/token"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email and password are required")
	}

	res, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, res)
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	claims, okClaims := c.Locals(middleware.LocalClaims).(*token.Claims)
	if !okClaims {
		return unauthorized(c)
	}

	if err := h.svc.Logout(c.Context(), claims.SessionID); err != nil {
		return serviceError(c, err)
	}
	return okMessage(c, "logged out", nil)
}
