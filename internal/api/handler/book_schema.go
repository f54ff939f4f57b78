package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// contributeBookForm mirrors the multipart form fields of the upload
// endpoint; the PDF itself arrives as the "pdf_file" part.
type contributeBookForm struct {
	Title           string `form:"title"            validate:"required"`
	Author          string `form:"author"           validate:"required"`
	DifficultyLevel int    `form:"difficulty_level" validate:"required,min=1"`
	TotalPages      int    `form:"total_pages"      validate:"required,min=1"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes.

type bookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	DifficultyLevel int       `json:"difficulty_level"`
	AddedBy         string    `json:"added_by"`
	Approved        bool      `json:"approved"`
	PDFPath         string    `json:"pdf_path"`
	TotalPages      int       `json:"total_pages"`
	CreatedAt       time.Time `json:"created_at"`
}

type contributeBookResponse struct {
	Message string       `json:"message"`
	Book    bookResponse `json:"book"`
}

type accessResponse struct {
	PDFPath    string `json:"pdf_path"`
	TotalPages int    `json:"total_pages"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type saveProgressRequest struct {
	CurrentPage int `json:"current_page" validate:"required,min=1"`
}

type progressResponse struct {
	CurrentPage int  `json:"current_page"`
	Completed   bool `json:"completed"`
}

type finishResponse struct {
	Message string `json:"message"`
	XP      int    `json:"xp"`
	Level   int    `json:"level"`
}
