package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
)

type stubLibraryService struct {
	contributeFn   func(ctx context.Context, input ports.ContributeInput) (*domain.Book, error)
	listApprovedFn func(ctx context.Context) ([]*domain.Book, error)
	listAllFn      func(ctx context.Context) ([]*domain.Book, error)
	approveFn      func(ctx context.Context, bookID string) error
	deleteFn       func(ctx context.Context, bookID string) error
	accessFn       func(ctx context.Context, userID, bookID string) (*ports.AccessResult, error)
}

func (s *stubLibraryService) Contribute(ctx context.Context, input ports.ContributeInput) (*domain.Book, error) {
	return s.contributeFn(ctx, input)
}

func (s *stubLibraryService) ListApproved(ctx context.Context) ([]*domain.Book, error) {
	return s.listApprovedFn(ctx)
}

func (s *stubLibraryService) ListAll(ctx context.Context) ([]*domain.Book, error) {
	return s.listAllFn(ctx)
}

func (s *stubLibraryService) Approve(ctx context.Context, bookID string) error {
	return s.approveFn(ctx, bookID)
}

func (s *stubLibraryService) Delete(ctx context.Context, bookID string) error {
	return s.deleteFn(ctx, bookID)
}

func (s *stubLibraryService) Access(ctx context.Context, userID, bookID string) (*ports.AccessResult, error) {
	return s.accessFn(ctx, userID, bookID)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c
}

func multipartUpload(t *testing.T, fields map[string]string, fileField, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := io.WriteString(part, "%PDF-1.4 fake content"); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestBookHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubLibraryService{
		listApprovedFn: func(ctx context.Context) ([]*domain.Book, error) {
			return []*domain.Book{{ID: "b1", Title: "Moby Dick", Approved: true}}, nil
		},
	}
	handler := NewBookHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["title"] != "Moby Dick" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestBookHandler_Contribute_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubLibraryService{
		contributeFn: func(ctx context.Context, input ports.ContributeInput) (*domain.Book, error) {
			if input.ContributorID != "u1" {
				t.Fatalf("unexpected contributor %q", input.ContributorID)
			}
			if input.Title != "Moby Dick" || input.DifficultyLevel != 3 || input.TotalPages != 600 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Book{ID: "b1", Title: input.Title, AddedBy: input.ContributorID}, nil
		},
	}
	handler := NewBookHandler(stub)

	body, contentType := multipartUpload(t, map[string]string{
		"title":            "Moby Dick",
		"author":           "Melville",
		"difficulty_level": "3",
		"total_pages":      "600",
	}, "pdf_file", "moby.pdf", "application/pdf")

	req := httptest.NewRequest(http.MethodPost, "/v1/books", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	if err := handler.Contribute(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestBookHandler_Contribute_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubLibraryService{})

	body, contentType := multipartUpload(t, map[string]string{"title": "x"}, "", "", "")
	req := httptest.NewRequest(http.MethodPost, "/v1/books", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Contribute(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestBookHandler_Contribute_RejectsNonPDF(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubLibraryService{
		contributeFn: func(ctx context.Context, input ports.ContributeInput) (*domain.Book, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	body, contentType := multipartUpload(t, map[string]string{
		"title":            "Moby Dick",
		"author":           "Melville",
		"difficulty_level": "3",
		"total_pages":      "600",
	}, "pdf_file", "moby.txt", "text/plain")

	req := httptest.NewRequest(http.MethodPost, "/v1/books", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	err := handler.Contribute(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestBookHandler_Contribute_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubLibraryService{
		contributeFn: func(ctx context.Context, input ports.ContributeInput) (*domain.Book, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	body, contentType := multipartUpload(t, map[string]string{
		"title": "Moby Dick",
		// author, difficulty_level and total_pages missing
	}, "pdf_file", "moby.pdf", "application/pdf")

	req := httptest.NewRequest(http.MethodPost, "/v1/books", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	err := handler.Contribute(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestBookHandler_Approve(t *testing.T) {
	e := newTestEcho()
	var approved string
	handler := NewBookHandler(&stubLibraryService{
		approveFn: func(ctx context.Context, bookID string) error {
			approved = bookID
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/books/b1/approve", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin_1", domain.RoleAdmin)
	c.SetParamNames("book_id")
	c.SetParamValues("b1")

	if err := handler.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if approved != "b1" {
		t.Fatalf("expected approve call for b1, got %q", approved)
	}
}

func TestBookHandler_AccessPDF_Granted(t *testing.T) {
	e := newTestEcho()
	handler := NewBookHandler(&stubLibraryService{
		accessFn: func(ctx context.Context, userID, bookID string) (*ports.AccessResult, error) {
			if userID != "u1" || bookID != "b1" {
				t.Fatalf("unexpected args: %s %s", userID, bookID)
			}
			return &ports.AccessResult{PDFPath: "/uploads/b1.pdf", TotalPages: 99}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/books/b1/pdf", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("book_id")
	c.SetParamValues("b1")

	if err := handler.AccessPDF(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["pdf_path"] != "/uploads/b1.pdf" || resp["total_pages"] != float64(99) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestBookHandler_AccessPDF_PropagatesDomainErrors(t *testing.T) {
	for _, want := range []error{domain.ErrBookNotFound, domain.ErrLevelTooLow} {
		e := newTestEcho()
		handler := NewBookHandler(&stubLibraryService{
			accessFn: func(ctx context.Context, userID, bookID string) (*ports.AccessResult, error) {
				return nil, want
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/books/b1/pdf", nil)
		rec := httptest.NewRecorder()
		c := authedContext(e, req, rec, "u1", domain.RoleUser)
		c.SetParamNames("book_id")
		c.SetParamValues("b1")

		if err := handler.AccessPDF(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}
