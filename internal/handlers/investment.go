package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"paygrow/internal/middleware"
	"paygrow/internal/services/investment"
	"paygrow/internal/utils"
)

type InvestmentHandler struct {
	svc *investment.Service
}

func NewInvestmentHandler(svc *investment.Service) *InvestmentHandler {
	return &InvestmentHandler{svc: svc}
}

type investRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *InvestmentHandler) Create(c *fiber.Ctx) error {
	var req investRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claims := middleware.Claims(c)
	p, err := h.svc.Create(c.Context(), claims.UserID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, p)
}

func (h *InvestmentHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	sum, err := h.svc.ListByAccount(claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, sum)
}

func (h *InvestmentHandler) Plan(c *fiber.Ctx) error {
	plan := h.svc.CurrentPlan()
	return utils.Success(c, fiber.Map{
		"name":         plan.Name,
		"daily_profit": plan.DailyProfit,
		"days":         plan.Days,
	})
}

// RunSweep triggers the accrual sweep over HTTP, as a fallback to the
// in-process scheduler.
func (h *InvestmentHandler) RunSweep(c *fiber.Ctx) error {
	res, err := h.svc.RunSweep(c.Context(), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, res)
}
