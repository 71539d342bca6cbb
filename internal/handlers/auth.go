package handlers

import (
	"github.com/gofiber/fiber/v2"

	"paygrow/internal/services/auth"
	"paygrow/internal/utils"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	user, token, err := h.svc.Register(c.Context(), req.Phone, req.Password, req.ReferralCode)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, fiber.Map{"user": user, "token": token})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	user, token, err := h.svc.Login(c.Context(), req.Phone, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"user": user, "token": token})
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	token, err := h.svc.AdminLogin(req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"token": token})
}
