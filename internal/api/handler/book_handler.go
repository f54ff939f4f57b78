package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/readquest/library-system/internal/core/ports"
)

// BookHandler handles HTTP requests for catalog operations.
type BookHandler struct {
	service ports.LibraryService
}

func NewBookHandler(service ports.LibraryService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /v1/books, the public approved catalog.
//
// @Summary      List approved books
// @Tags         books
// @Produce      json
// @Success      200  {array}  bookResponse
// @Router       /v1/books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.ListApproved(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookListResponse(books))
}

// ListAll handles GET /v1/books/all, every book including pending ones.
//
// @Summary      List all books (admin)
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/books/all [get]
func (h *BookHandler) ListAll(c echo.Context) error {
	books, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookListResponse(books))
}

// Contribute handles POST /v1/books: multipart book upload, +20 XP.
//
// @Summary      Contribute a book
// @Tags         books
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title             formData  string  true  "Title"
// @Param        author            formData  string  true  "Author"
// @Param        difficulty_level  formData  int     true  "Difficulty rating (minimum level to read)"
// @Param        total_pages       formData  int     true  "Page count"
// @Param        pdf_file          formData  file    true  "PDF file"
// @Success      201  {object}  contributeBookResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/books [post]
func (h *BookHandler) Contribute(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	form := contributeBookForm{
		Title:  c.FormValue("title"),
		Author: c.FormValue("author"),
	}
	form.DifficultyLevel, _ = strconv.Atoi(c.FormValue("difficulty_level"))
	form.TotalPages, _ = strconv.Atoi(c.FormValue("total_pages"))

	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("pdf_file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pdf file is required")
	}
	if !isPDF(fileHeader.Filename, fileHeader.Header.Get(echo.HeaderContentType)) {
		return echo.NewHTTPError(http.StatusBadRequest, "only pdf files are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read pdf file")
	}
	defer file.Close()

	book, err := h.service.Contribute(c.Request().Context(), ports.ContributeInput{
		Title:           form.Title,
		Author:          form.Author,
		DifficultyLevel: form.DifficultyLevel,
		TotalPages:      form.TotalPages,
		ContributorID:   userID,
		Filename:        fileHeader.Filename,
		File:            file,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, contributeBookResponse{
		Message: "book uploaded successfully (+20 XP)",
		Book:    toBookResponse(book),
	})
}

// Approve handles POST /v1/books/:book_id/approve (admin).
//
// @Summary      Approve a book (admin)
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book id"
// @Success      200      {object}  messageResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/books/{book_id}/approve [post]
func (h *BookHandler) Approve(c echo.Context) error {
	if err := h.service.Approve(c.Request().Context(), c.Param("book_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "book approved"})
}

// Delete handles DELETE /v1/books/:book_id (admin).
//
// @Summary      Delete a book (admin)
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book id"
// @Success      200      {object}  messageResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/books/{book_id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("book_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "book deleted successfully"})
}

// AccessPDF handles GET /v1/books/:book_id/pdf, the level-gated access check.
//
// @Summary      Get the pdf reference for a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book id"
// @Success      200      {object}  accessResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/books/{book_id}/pdf [get]
func (h *BookHandler) AccessPDF(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Access(c.Request().Context(), userID, c.Param("book_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accessResponse{
		PDFPath:    result.PDFPath,
		TotalPages: result.TotalPages,
	})
}

func isPDF(filename, contentType string) bool {
	if strings.EqualFold(contentType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
