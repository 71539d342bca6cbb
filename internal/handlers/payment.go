package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"paygrow/internal/middleware"
	"paygrow/internal/services/payment"
	"paygrow/internal/utils"
)

type PaymentHandler struct {
	svc *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type rechargeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *PaymentHandler) InitiateRecharge(c *fiber.Ctx) error {
	var req rechargeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	intent, err := h.svc.InitiateRecharge(c.Context(), claims.UserID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, intent)
}

type referenceRequest struct {
	MovementID uint   `json:"order_id"`
	Reference  string `json:"utr_number"`
}

func (h *PaymentHandler) SubmitReference(c *fiber.Ctx) error {
	var req referenceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	if err := h.svc.SubmitReference(c.Context(), claims.UserID, req.MovementID, req.Reference); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "reference submitted, pending verification"})
}

type withdrawalRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	PayoutID string          `json:"upi_id"`
}

func (h *PaymentHandler) RequestWithdrawal(c *fiber.Ctx) error {
	var req withdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if req.PayoutID == "" {
		return utils.BadRequest(c, "upi_id is required")
	}

	claims := middleware.Claims(c)
	w, err := h.svc.InitiateWithdrawal(c.Context(), claims.UserID, req.Amount, req.PayoutID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, w)
}
