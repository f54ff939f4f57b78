package service

import (
	"context"
	"fmt"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
)

type userService struct {
	users    ports.UserRepository
	books    ports.BookRepository
	progress ports.ProgressRepository
}

// NewUserService returns the UserService implementation.
func NewUserService(users ports.UserRepository, books ports.BookRepository, progress ports.ProgressRepository) ports.UserService {
	return &userService{users: users, books: books, progress: progress}
}

// Profile aggregates the account, the finished books, and the contributed
// books. Non-admin callers may only view their own profile.
func (s *userService) Profile(ctx context.Context, input ports.ProfileInput) (*ports.Profile, error) {
	if input.CallerRole != domain.RoleAdmin && input.CallerID != input.UserID {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	finishedIDs, err := s.progress.ListCompletedBookIDs(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("profile: finished books: %w", err)
	}

	readBooks := []*domain.Book{}
	if len(finishedIDs) > 0 {
		readBooks, err = s.books.FindByIDs(ctx, finishedIDs)
		if err != nil {
			return nil, fmt.Errorf("profile: finished books: %w", err)
		}
	}

	addedBooks, err := s.books.ListByContributor(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("profile: contributed books: %w", err)
	}

	return &ports.Profile{
		User:       user,
		ReadBooks:  readBooks,
		AddedBooks: addedBooks,
	}, nil
}
