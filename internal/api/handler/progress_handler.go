package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readquest/library-system/internal/core/ports"
)

// ProgressHandler handles reading-progress requests.
type ProgressHandler struct {
	service ports.ProgressService
}

func NewProgressHandler(service ports.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// Save handles POST /v1/books/:book_id/progress.
//
// @Summary      Save reading progress
// @Tags         progress
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string               true  "Book id"
// @Param        body     body      saveProgressRequest  true  "Current page"
// @Success      200      {object}  messageResponse
// @Failure      400      {object}  errorResponse
// @Router       /v1/books/{book_id}/progress [post]
func (h *ProgressHandler) Save(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req saveProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Save(c.Request().Context(), userID, c.Param("book_id"), req.CurrentPage); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "progress saved"})
}

// Get handles GET /v1/books/:book_id/progress. With no stored record it
// reports page 1, not completed, without creating one.
//
// @Summary      Get reading progress
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book id"
// @Success      200      {object}  progressResponse
// @Router       /v1/books/{book_id}/progress [get]
func (h *ProgressHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	status, err := h.service.Get(c.Request().Context(), userID, c.Param("book_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, progressResponse{
		CurrentPage: status.CurrentPage,
		Completed:   status.Completed,
	})
}

// Finish handles POST /v1/books/:book_id/finish: completion event, +50 XP.
// Not idempotent: a repeat attempt is rejected.
//
// @Summary      Finish a book
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book id"
// @Success      200      {object}  finishResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/books/{book_id}/finish [post]
func (h *ProgressHandler) Finish(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.Finish(c.Request().Context(), userID, c.Param("book_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, finishResponse{
		Message: "congratulations, book finished (+50 XP)",
		XP:      user.XP,
		Level:   user.Level,
	})
}
