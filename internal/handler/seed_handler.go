package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"adlens/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	userService service.UserService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(userService service.UserService) *SeedHandler {
	return &SeedHandler{userService: userService}
}

// SeedUsersRequest lists the users to create. An empty list seeds the default users.
type SeedUsersRequest struct {
	Users []service.SeedUser `json:"users" validate:"dive"`
}

// SeedUsersResponse represents the seed response.
type SeedUsersResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedUsers godoc
// @Summary Seed users
// @Description Creates users whose ids do not exist yet. Existing users are never changed.
// @Tags seed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SeedUsersRequest false "Users to create"
// @Success 200 {object} SeedUsersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /seed/users [post]
func (h *SeedHandler) SeedUsers(c echo.Context) error {
	var req SeedUsersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("Each user needs an id, a name, a password and a role of user or admin", "VALIDATION_ERROR")
	}

	users := req.Users
	if len(users) == 0 {
		users = service.DefaultUsers
	}

	count, err := h.userService.SeedUsers(c.Request().Context(), users)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, SeedUsersResponse{
		Message: "users seeded successfully",
		Count:   count,
	})
}
