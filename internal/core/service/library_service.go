package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
	"github.com/readquest/library-system/internal/metrics"
)

// UploadSink abstracts durable file storage for contributed PDFs.
type UploadSink interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
	URL(ref string) string
}

// CatalogCache abstracts the read-through cache for the public approved list.
type CatalogCache interface {
	GetApproved(ctx context.Context) ([]*domain.Book, bool, error)
	SetApproved(ctx context.Context, books []*domain.Book) error
	Invalidate(ctx context.Context) error
}

type libraryService struct {
	books       ports.BookRepository
	users       ports.UserRepository
	progress    ports.ProgressRepository
	progression ports.ProgressionService
	sink        UploadSink
	cache       CatalogCache // optional
	log         zerolog.Logger
}

// NewLibraryService returns the LibraryService implementation. cache may be
// nil to bypass catalog caching.
func NewLibraryService(
	books ports.BookRepository,
	users ports.UserRepository,
	progress ports.ProgressRepository,
	progression ports.ProgressionService,
	sink UploadSink,
	cache CatalogCache,
	log zerolog.Logger,
) ports.LibraryService {
	return &libraryService{
		books:       books,
		users:       users,
		progress:    progress,
		progression: progression,
		sink:        sink,
		cache:       cache,
		log:         log,
	}
}

// Contribute stores the PDF, creates the book pending approval, and credits
// the contributor. The xp credit is fused best-effort with the insert: when it
// fails the book stays, unapproved, and the failure is logged, with no
// compensating rollback.
func (s *libraryService) Contribute(ctx context.Context, input ports.ContributeInput) (*domain.Book, error) {
	ref, err := s.sink.Store(ctx, input.Filename, input.File)
	if err != nil {
		return nil, fmt.Errorf("contribute: store file: %w", err)
	}

	book := &domain.Book{
		Title:           input.Title,
		Author:          input.Author,
		DifficultyLevel: input.DifficultyLevel,
		TotalPages:      input.TotalPages,
		AddedBy:         input.ContributorID,
		Approved:        false,
		PDFPath:         ref,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.books.Create(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("contribute: %w", err)
	}

	if _, err := s.progression.AwardXP(ctx, ports.XPAward{
		UserID: input.ContributorID,
		BookID: created.ID,
		Delta:  domain.XPRewardContribution,
		Reason: domain.XPReasonContribution,
	}); err != nil {
		// Accepted inconsistency window: the book exists unapproved, the
		// reward is lost. Documented, not compensated.
		s.log.Warn().Err(err).
			Str("user_id", input.ContributorID).
			Str("book_id", created.ID).
			Msg("xp credit failed after book insert")
	}

	metrics.BooksUploadedTotal.Inc()
	s.log.Info().
		Str("book_id", created.ID).
		Str("added_by", input.ContributorID).
		Int("difficulty", created.DifficultyLevel).
		Msg("book contributed")

	return created, nil
}

func (s *libraryService) ListApproved(ctx context.Context) ([]*domain.Book, error) {
	if s.cache != nil {
		books, ok, err := s.cache.GetApproved(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("catalog cache read failed")
		} else if ok {
			return books, nil
		}
	}

	books, err := s.books.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetApproved(ctx, books); err != nil {
			s.log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return books, nil
}

func (s *libraryService) ListAll(ctx context.Context) ([]*domain.Book, error) {
	return s.books.ListAll(ctx)
}

func (s *libraryService) Approve(ctx context.Context, bookID string) error {
	if err := s.books.Approve(ctx, bookID); err != nil {
		return fmt.Errorf("approve: %w", err)
	}
	s.invalidateCatalog(ctx)
	metrics.BooksApprovedTotal.Inc()
	s.log.Info().Str("book_id", bookID).Msg("book approved")
	return nil
}

func (s *libraryService) Delete(ctx context.Context, bookID string) error {
	if err := s.progress.DeleteByBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: progress rows: %w", err)
	}
	if err := s.books.Delete(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	s.invalidateCatalog(ctx)
	s.log.Info().Str("book_id", bookID).Msg("book deleted")
	return nil
}

// Access applies the gating rule: the book must be approved (absent and
// unapproved collapse into the same not-found result) and the user's level
// must be at least the book's difficulty.
func (s *libraryService) Access(ctx context.Context, userID, bookID string) (*ports.AccessResult, error) {
	book, err := s.books.FindApproved(ctx, bookID)
	if err != nil {
		metrics.AccessChecksTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("access: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		metrics.AccessChecksTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("access: %w", err)
	}

	if !domain.CanAccess(user.Level, book.DifficultyLevel) {
		metrics.AccessChecksTotal.WithLabelValues("forbidden").Inc()
		return nil, fmt.Errorf("access: %w", domain.ErrLevelTooLow)
	}

	pages := book.TotalPages
	if pages < 1 {
		pages = 1
	}

	metrics.AccessChecksTotal.WithLabelValues("granted").Inc()
	return &ports.AccessResult{
		PDFPath:    s.sink.URL(book.PDFPath),
		TotalPages: pages,
	}, nil
}

func (s *libraryService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
