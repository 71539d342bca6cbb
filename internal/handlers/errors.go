// Package handlers exposes the HTTP surface. Handlers parse and validate
// the request, call one service method and translate its error into a
// status code; no business rules live here.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"paygrow/internal/repositories"
	"paygrow/internal/services/auth"
	"paygrow/internal/services/ledger"
	"paygrow/internal/services/payment"
	"paygrow/internal/services/rotation"
	"paygrow/internal/services/user"
	"paygrow/internal/utils"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, payment.ErrBelowMinimum),
		errors.Is(err, payment.ErrMissingReference),
		errors.Is(err, auth.ErrInvalidPhone),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidReferral):
		return utils.BadRequest(c, err.Error())

	case errors.Is(err, auth.ErrInvalidCredentials):
		return utils.Unauthorized(c, err.Error())

	case errors.Is(err, repositories.ErrAccountNotFound),
		errors.Is(err, repositories.ErrMovementNotFound),
		errors.Is(err, repositories.ErrWithdrawalNotFound),
		errors.Is(err, repositories.ErrInvestmentNotFound),
		errors.Is(err, repositories.ErrChannelNotFound):
		return utils.NotFound(c, err.Error())

	case errors.Is(err, payment.ErrAlreadyProcessed),
		errors.Is(err, ledger.ErrAlreadyApplied),
		errors.Is(err, user.ErrAlreadyCheckedIn),
		errors.Is(err, auth.ErrPhoneTaken):
		return utils.Conflict(c, err.Error())

	case errors.Is(err, rotation.ErrNoChannelsAvailable):
		return utils.Respond(c, fiber.StatusServiceUnavailable, fiber.Map{"error": err.Error()})
	}

	log.WithError(err).Error("request failed")
	return utils.InternalError(c, "internal server error")
}
