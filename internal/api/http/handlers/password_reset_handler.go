package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/octopus-tms/auth-service/internal/api/dto"
	"github.com/octopus-tms/auth-service/internal/service"
)

// PasswordResetHandler exposes the reset uid lifecycle.
type PasswordResetHandler struct {
	resets *service.PasswordResetService
}

// NewPasswordResetHandler constructs handler.
func NewPasswordResetHandler(resetService *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resetService}
}

// Start handles POST /passwordReset/start. The response is identical whether
// or not the email maps to an account.
func (h *PasswordResetHandler) Start(c *fiber.Ctx) error {
	var req dto.PasswordResetStartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	h.resets.Start(c.UserContext(), req.Email)
	return c.JSON(fiber.Map{"status": "ok"})
}

// IsValidUID handles GET /passwordReset/isValidUid?uid=...
func (h *PasswordResetHandler) IsValidUID(c *fiber.Ctx) error {
	uid := c.Query("uid")
	return c.JSON(fiber.Map{"valid": h.resets.IsValid(c.UserContext(), uid)})
}

// Complete handles POST /passwordReset/complete.
func (h *PasswordResetHandler) Complete(c *fiber.Ctx) error {
	var req dto.PasswordResetCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.UID == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "uid and newPassword required")
	}

	if err := h.resets.Complete(c.UserContext(), req.UID, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
