package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/octopus-tms/auth-service/internal/api/dto"
	"github.com/octopus-tms/auth-service/internal/domain"
	"github.com/octopus-tms/auth-service/internal/service"
)

// UsersHandler exposes account provisioning for operators.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "username, email, password, role required")
	}

	user, err := h.users.CreateUser(c.UserContext(), service.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		CompanyID: user.CompanyID,
	})
}
