// Package routes wires the HTTP handlers onto the fiber app.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"paygrow/internal/handlers"
	"paygrow/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Payment    *handlers.PaymentHandler
	Investment *handlers.InvestmentHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
	AuthMW     *middleware.AuthMiddleware
}

// Setup mounts all routes.
func Setup(app *fiber.App, h Handlers) {
	api := app.Group("/api")

	api.Get("/health", h.Health.Check)

	// Public
	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/admin/login", h.Auth.AdminLogin)

	// Authenticated
	authed := api.Group("", h.AuthMW.Handler)

	userGroup := authed.Group("/user")
	userGroup.Get("/profile", h.User.Profile)
	userGroup.Post("/checkin", h.User.Checkin)
	userGroup.Get("/transactions", h.User.Movements)
	userGroup.Get("/withdrawals", h.User.Withdrawals)

	payGroup := authed.Group("/payment")
	payGroup.Post("/recharge", h.Payment.InitiateRecharge)
	payGroup.Post("/submit-utr", h.Payment.SubmitReference)
	payGroup.Post("/withdraw", h.Payment.RequestWithdrawal)

	authed.Post("/invest", h.Investment.Create)
	authed.Get("/invest", h.Investment.List)
	authed.Get("/invest/plan", h.Investment.Plan)

	// Admin
	admin := authed.Group("/admin", h.AuthMW.AdminOnly)
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/users", h.Admin.Users)
	admin.Get("/transactions", h.Admin.Transactions)

	admin.Get("/recharges/pending", h.Admin.PendingRecharges)
	admin.Post("/recharges/:id/approve", h.Admin.ApproveRecharge)
	admin.Post("/recharges/:id/reject", h.Admin.RejectRecharge)

	admin.Get("/withdrawals/pending", h.Admin.PendingWithdrawals)
	admin.Post("/withdrawals/:id/approve", h.Admin.ApproveWithdrawal)
	admin.Post("/withdrawals/:id/deny", h.Admin.DenyWithdrawal)

	admin.Get("/channels", h.Admin.Channels)
	admin.Post("/channels", h.Admin.AddChannel)
	admin.Put("/channels/:id", h.Admin.UpdateChannel)
	admin.Delete("/channels/:id", h.Admin.RemoveChannel)

	// Manual accrual trigger, normally handled by the in-process scheduler.
	admin.Post("/cron/daily-growth", h.Investment.RunSweep)
}
