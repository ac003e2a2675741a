package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// stubFileService lets each test pin down exactly the call it expects
type stubFileService struct {
	listFn   func(ctx context.Context, ownerID string, q *repositories.FileListQuery) (*services.FileListResult, error)
	getFn    func(ctx context.Context, ownerID, id string) (*models.FileItem, error)
	createFn func(ctx context.Context, ownerID string, req *services.CreateFileRequest) (*models.FileItem, error)
	updateFn func(ctx context.Context, ownerID, id string, req *services.UpdateFileRequest) (*models.FileItem, error)
	deleteFn func(ctx context.Context, ownerID, id string) (*models.FileItem, error)
	batchFn  func(ctx context.Context, ownerID string, req *services.BatchRequest) (*services.BatchResult, error)
}

func (s *stubFileService) List(ctx context.Context, ownerID string, q *repositories.FileListQuery) (*services.FileListResult, error) {
	return s.listFn(ctx, ownerID, q)
}

func (s *stubFileService) Get(ctx context.Context, ownerID, id string) (*models.FileItem, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubFileService) Create(ctx context.Context, ownerID string, req *services.CreateFileRequest) (*models.FileItem, error) {
	return s.createFn(ctx, ownerID, req)
}

func (s *stubFileService) Update(ctx context.Context, ownerID, id string, req *services.UpdateFileRequest) (*models.FileItem, error) {
	return s.updateFn(ctx, ownerID, id, req)
}

func (s *stubFileService) Delete(ctx context.Context, ownerID, id string) (*models.FileItem, error) {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *stubFileService) Batch(ctx context.Context, ownerID string, req *services.BatchRequest) (*services.BatchResult, error) {
	return s.batchFn(ctx, ownerID, req)
}

func newFileMux(svc services.FileService) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewFileHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/files", h.List)
	mux.HandleFunc("POST /api/files", h.Create)
	mux.HandleFunc("POST /api/files/batch", h.Batch)
	mux.HandleFunc("GET /api/files/{id}", h.Get)
	mux.HandleFunc("PUT /api/files/{id}", h.Update)
	mux.HandleFunc("DELETE /api/files/{id}", h.Delete)
	return mux
}

func doRequest(mux *http.ServeMux, method, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	req = httputil.WithUserID(req, "owner-1")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func sampleFile(id string) *models.FileItem {
	now := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	return &models.FileItem{
		ID:        id,
		OwnerID:   "owner-1",
		Name:      "main.go",
		Kind:      models.FileKindFile,
		Path:      "/src/main.go",
		Body:      "package main",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestFileHandlerListParentFilter(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		wantParentSet bool
		wantParentID  *string
	}{
		{"absent", "/api/files", false, nil},
		{"literal null", "/api/files?parentId=null", true, nil},
		{"empty value", "/api/files?parentId=", true, nil},
		{"folder id", "/api/files?parentId=folder-1", true, strPtr("folder-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *repositories.FileListQuery
			svc := &stubFileService{
				listFn: func(ctx context.Context, ownerID string, q *repositories.FileListQuery) (*services.FileListResult, error) {
					got = q
					return &services.FileListResult{Files: []models.FileItem{}}, nil
				},
			}

			rec := doRequest(newFileMux(svc), http.MethodGet, tt.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			if got.ParentSet != tt.wantParentSet {
				t.Errorf("ParentSet = %v, want %v", got.ParentSet, tt.wantParentSet)
			}
			switch {
			case tt.wantParentID == nil && got.ParentID != nil:
				t.Errorf("ParentID = %q, want nil", *got.ParentID)
			case tt.wantParentID != nil && (got.ParentID == nil || *got.ParentID != *tt.wantParentID):
				t.Errorf("ParentID = %v, want %q", got.ParentID, *tt.wantParentID)
			}
		})
	}
}

func TestFileHandlerListSortMapping(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"createdAt", "created_at"},
		{"created_at", "created_at"},
		{"updatedAt", "updated_at"},
		{"name", "name"},
		{"bogus", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run("sort="+tt.sort, func(t *testing.T) {
			var got *repositories.FileListQuery
			svc := &stubFileService{
				listFn: func(ctx context.Context, ownerID string, q *repositories.FileListQuery) (*services.FileListResult, error) {
					got = q
					return &services.FileListResult{Files: []models.FileItem{}}, nil
				},
			}

			doRequest(newFileMux(svc), http.MethodGet, "/api/files?sort="+tt.sort, "")
			if got.SortBy != tt.want {
				t.Errorf("SortBy = %q, want %q", got.SortBy, tt.want)
			}
		})
	}
}

func TestFileHandlerGet(t *testing.T) {
	svc := &stubFileService{
		getFn: func(ctx context.Context, ownerID, id string) (*models.FileItem, error) {
			if ownerID != "owner-1" || id != "file-1" {
				t.Errorf("unexpected call Get(%q, %q)", ownerID, id)
			}
			return sampleFile("file-1"), nil
		},
	}

	rec := doRequest(newFileMux(svc), http.MethodGet, "/api/files/file-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var resp struct {
		File map[string]any `json:"file"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.File["id"] != "file-1" {
		t.Errorf("expected file.id 'file-1', got %v", resp.File["id"])
	}
	if _, ok := resp.File["codeBody"]; !ok {
		t.Error("expected camelCase 'codeBody' key in response")
	}
}

func TestFileHandlerGetNotFound(t *testing.T) {
	svc := &stubFileService{
		getFn: func(ctx context.Context, ownerID, id string) (*models.FileItem, error) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		},
	}

	rec := doRequest(newFileMux(svc), http.MethodGet, "/api/files/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", ct)
	}

	var problem struct {
		Status int    `json:"status"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("invalid problem response: %v", err)
	}
	if problem.Status != 404 || problem.Title != "Not Found" {
		t.Errorf("unexpected problem body: %+v", problem)
	}
}

func TestFileHandlerCreate(t *testing.T) {
	svc := &stubFileService{
		createFn: func(ctx context.Context, ownerID string, req *services.CreateFileRequest) (*models.FileItem, error) {
			if req.Name != "main.go" || req.Body != "package main" {
				t.Errorf("request not decoded: %+v", req)
			}
			return sampleFile("new-id"), nil
		},
	}

	rec := doRequest(newFileMux(svc), http.MethodPost, "/api/files",
		`{"name":"main.go","codeBody":"package main"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestFileHandlerCreateBadJSON(t *testing.T) {
	svc := &stubFileService{
		createFn: func(ctx context.Context, ownerID string, req *services.CreateFileRequest) (*models.FileItem, error) {
			t.Error("service must not be called for a malformed body")
			return nil, nil
		},
	}

	rec := doRequest(newFileMux(svc), http.MethodPost, "/api/files", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFileHandlerCreateValidationError(t *testing.T) {
	svc := &stubFileService{
		createFn: func(ctx context.Context, ownerID string, req *services.CreateFileRequest) (*models.FileItem, error) {
			return nil, fmt.Errorf("%w: name cannot be blank", domain.ErrValidation)
		},
	}

	rec := doRequest(newFileMux(svc), http.MethodPost, "/api/files", `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFileHandlerUpdateParentTriState(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{"absent", `{"name":"x"}`, false, nil},
		{"null", `{"parentId":null}`, true, nil},
		{"value", `{"parentId":"folder-1"}`, true, strPtr("folder-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *services.UpdateFileRequest
			svc := &stubFileService{
				updateFn: func(ctx context.Context, ownerID, id string, req *services.UpdateFileRequest) (*models.FileItem, error) {
					got = req
					return sampleFile(id), nil
				},
			}

			rec := doRequest(newFileMux(svc), http.MethodPut, "/api/files/file-1", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			if got.ParentID.Present != tt.wantPresent {
				t.Errorf("ParentID.Present = %v, want %v", got.ParentID.Present, tt.wantPresent)
			}
			switch {
			case tt.wantValue == nil && got.ParentID.Value != nil:
				t.Errorf("ParentID.Value = %q, want nil", *got.ParentID.Value)
			case tt.wantValue != nil && (got.ParentID.Value == nil || *got.ParentID.Value != *tt.wantValue):
				t.Errorf("ParentID.Value = %v, want %q", got.ParentID.Value, *tt.wantValue)
			}
		})
	}
}

func TestFileHandlerDelete(t *testing.T) {
	svc := &stubFileService{
		deleteFn: func(ctx context.Context, ownerID, id string) (*models.FileItem, error) {
			return sampleFile(id), nil
		},
	}

	rec := doRequest(newFileMux(svc), http.MethodDelete, "/api/files/file-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Deleted bool           `json:"deleted"`
		File    map[string]any `json:"file"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !resp.Deleted {
		t.Error("expected deleted=true")
	}
	if resp.File["id"] != "file-1" {
		t.Errorf("expected echoed file record, got %v", resp.File["id"])
	}
}

func TestFileHandlerBatch(t *testing.T) {
	target := "dest"
	svc := &stubFileService{
		batchFn: func(ctx context.Context, ownerID string, req *services.BatchRequest) (*services.BatchResult, error) {
			if req.Operation != "move" || len(req.FileIDs) != 2 {
				t.Errorf("request not decoded: %+v", req)
			}
			return &services.BatchResult{Operation: "move", Affected: 2, TargetID: &target}, nil
		},
	}

	rec := doRequest(newFileMux(svc), http.MethodPost, "/api/files/batch",
		`{"operation":"move","fileIds":["f1","f2"],"targetId":"dest"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"affected":2`) || !strings.Contains(body, `"targetId":"dest"`) {
		t.Errorf("unexpected batch response: %s", body)
	}
}

func strPtr(s string) *string { return &s }
