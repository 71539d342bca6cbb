package handlers

import (
	"github.com/gofiber/fiber/v2"

	"paygrow/internal/middleware"
	"paygrow/internal/repositories"
	"paygrow/internal/services/investment"
	"paygrow/internal/services/payment"
	"paygrow/internal/services/rotation"
	"paygrow/internal/utils"
)

type AdminHandler struct {
	repo        repositories.LedgerRepository
	payments    *payment.Service
	channels    *rotation.Service
	investments *investment.Service
}

func NewAdminHandler(repo repositories.LedgerRepository, payments *payment.Service, channels *rotation.Service, investments *investment.Service) *AdminHandler {
	return &AdminHandler{
		repo:        repo,
		payments:    payments,
		channels:    channels,
		investments: investments,
	}
}

// Stats aggregates the dashboard numbers.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	platform, err := h.repo.PlatformTotals()
	if err != nil {
		return respondError(c, err)
	}
	invest, err := h.investments.Stats()
	if err != nil {
		return respondError(c, err)
	}
	channels, err := h.channels.PoolStats()
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"platform":    platform,
		"investments": invest,
		"channels":    channels,
	})
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.repo.ListAccounts()
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"users": users})
}

func (h *AdminHandler) Transactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 200)
	ms, err := h.repo.ListMovements(limit)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"transactions": ms})
}

// ---- Recharge review ----

func (h *AdminHandler) PendingRecharges(c *fiber.Ctx) error {
	ms, err := h.payments.PendingRecharges()
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"recharges": ms})
}

func (h *AdminHandler) ApproveRecharge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid recharge id")
	}

	claims := middleware.Claims(c)
	m, err := h.payments.ApproveRecharge(c.Context(), claims.UserID, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, m)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) RejectRecharge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid recharge id")
	}
	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	if err := h.payments.RejectRecharge(c.Context(), claims.UserID, uint(id), req.Reason); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "recharge rejected"})
}

// ---- Withdrawal review ----

func (h *AdminHandler) PendingWithdrawals(c *fiber.Ctx) error {
	ws, err := h.payments.PendingWithdrawals()
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"withdrawals": ws})
}

func (h *AdminHandler) ApproveWithdrawal(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid withdrawal id")
	}

	claims := middleware.Claims(c)
	if err := h.payments.ApproveWithdrawal(c.Context(), claims.UserID, uint(id)); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "withdrawal approved"})
}

func (h *AdminHandler) DenyWithdrawal(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid withdrawal id")
	}
	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	if err := h.payments.DenyWithdrawal(c.Context(), claims.UserID, uint(id), req.Reason); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "withdrawal denied"})
}

// ---- Channel pool ----

func (h *AdminHandler) Channels(c *fiber.Ctx) error {
	chs, err := h.channels.List()
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"channels": chs})
}

type channelRequest struct {
	UPIID    string `json:"upi_id"`
	Capacity int    `json:"max_payments"`
}

func (h *AdminHandler) AddChannel(c *fiber.Ctx) error {
	var req channelRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if req.UPIID == "" {
		return utils.BadRequest(c, "upi_id is required")
	}

	ch, err := h.channels.Add(req.UPIID, req.Capacity)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, ch)
}

func (h *AdminHandler) UpdateChannel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid channel id")
	}
	var req channelRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	ch, err := h.channels.Update(uint(id), req.UPIID, req.Capacity)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, ch)
}

func (h *AdminHandler) RemoveChannel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid channel id")
	}
	if err := h.channels.Remove(uint(id)); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "channel removed"})
}
