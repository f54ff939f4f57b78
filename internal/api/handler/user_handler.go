package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readquest/library-system/internal/core/ports"
)

// UserHandler serves user profiles.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type profileResponse struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	Role       string         `json:"role"`
	XP         int            `json:"xp"`
	Level      int            `json:"level"`
	ReadBooks  []bookResponse `json:"read_books"`
	AddedBooks []bookResponse `json:"added_books"`
}

// Profile handles GET /v1/users/:user_id. Non-admin callers may only view
// their own profile.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User id"
// @Success      200      {object}  profileResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/users/{user_id} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	callerID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Profile(c.Request().Context(), ports.ProfileInput{
		UserID:     c.Param("user_id"),
		CallerID:   callerID,
		CallerRole: role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(p *ports.Profile) profileResponse {
	return profileResponse{
		ID:         p.User.ID,
		Username:   p.User.Username,
		Role:       p.User.Role,
		XP:         p.User.XP,
		Level:      p.User.Level,
		ReadBooks:  toBookListResponse(p.ReadBooks),
		AddedBooks: toBookListResponse(p.AddedBooks),
	}
}
