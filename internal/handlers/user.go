package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"paygrow/internal/middleware"
	"paygrow/internal/services/user"
	"paygrow/internal/utils"
)

type UserHandler struct {
	svc *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	acct, err := h.svc.Profile(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, acct)
}

func (h *UserHandler) Checkin(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	m, err := h.svc.DailyCheckin(c.Context(), claims.UserID, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"bonus": m.Amount, "movement": m})
}

func (h *UserHandler) Movements(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	ms, err := h.svc.Movements(claims.UserID, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"transactions": ms})
}

func (h *UserHandler) Withdrawals(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	ws, err := h.svc.Withdrawals(claims.UserID, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"withdrawals": ws})
}
