package handler

import (
	"github.com/readquest/library-system/internal/core/domain"
)

// Domain to HTTP response mapping.

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		DifficultyLevel: b.DifficultyLevel,
		AddedBy:         b.AddedBy,
		Approved:        b.Approved,
		PDFPath:         b.PDFPath,
		TotalPages:      b.TotalPages,
		CreatedAt:       b.CreatedAt.UTC(),
	}
}

func toBookListResponse(books []*domain.Book) []bookResponse {
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = toBookResponse(b)
	}
	return out
}
