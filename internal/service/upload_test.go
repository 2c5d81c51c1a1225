package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/climapp/backend/internal/model"
)

type stubUploader struct {
	mu      sync.Mutex
	failOn  map[string]bool
	folders []string
}

func (s *stubUploader) UploadImage(_ context.Context, image io.Reader, folder, publicID string) (*model.UploadedImage, error) {
	content, _ := io.ReadAll(image)

	s.mu.Lock()
	s.folders = append(s.folders, folder)
	fail := s.failOn[string(content)]
	s.mu.Unlock()

	if fail {
		return nil, errors.New("upstream rejected")
	}
	return &model.UploadedImage{
		URL:      "https://cdn.example/" + publicID,
		PublicID: publicID,
		Format:   "jpg",
	}, nil
}

func (s *stubUploader) DestroyImage(_ context.Context, publicID string) (bool, error) {
	return publicID == "existe", nil
}

func (s *stubUploader) CloudName() string { return "demo" }

func multipartFiles(t *testing.T, contents ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for i, content := range contents {
		part, err := writer.CreateFormFile("fotos", "foto"+strings.Repeat("x", i)+".jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["fotos"]
}

func TestUploadBatchReportsPerItemFailure(t *testing.T) {
	uploader := &stubUploader{failOn: map[string]bool{"segunda": true}}
	svc := NewUploadService(uploader)

	files := multipartFiles(t, "primeira", "segunda", "terceira")
	data, err := svc.UploadBatch(context.Background(), "user-1", "Atend-01", files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.Failed != 1 {
		t.Fatalf("expected 1 failure, got %d", data.Failed)
	}
	if data.Count != 2 {
		t.Fatalf("expected 2 successes, got %d", data.Count)
	}
	if len(data.Images) != 3 {
		t.Fatalf("expected 3 items, got %d", len(data.Images))
	}
	// A ordem dos itens segue a ordem de envio, mesmo com uploads
	// concorrentes.
	for i, item := range data.Images {
		if item.Index != i {
			t.Fatalf("item %d has index %d", i, item.Index)
		}
	}
	if data.Images[1].Success || data.Images[1].Error == "" {
		t.Fatalf("expected second item to fail with error, got %+v", data.Images[1])
	}
	if !data.Images[0].Success || !data.Images[2].Success {
		t.Fatal("expected first and third items to succeed")
	}
}

func TestUploadBatchFolderLayout(t *testing.T) {
	uploader := &stubUploader{}
	svc := NewUploadService(uploader)

	files := multipartFiles(t, "unica")
	if _, err := svc.UploadBatch(context.Background(), "user-9", "Atend-03", files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uploader.folders[0] != "climapp/atendimentos/user-9/Atend-03" {
		t.Fatalf("unexpected folder: %q", uploader.folders[0])
	}
}

func TestUploadBatchValidation(t *testing.T) {
	svc := NewUploadService(&stubUploader{})

	_, err := svc.UploadBatch(context.Background(), "", "Atend-01", multipartFiles(t, "a"))
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Code != "MISSING_USER_ID" {
		t.Fatalf("expected MISSING_USER_ID, got %v", err)
	}

	_, err = svc.UploadBatch(context.Background(), "user-1", "Atend-01", nil)
	if !errors.As(err, &validation) || validation.Code != "MISSING_FILE" {
		t.Fatalf("expected MISSING_FILE, got %v", err)
	}

	contents := make([]string, 11)
	for i := range contents {
		contents[i] = "c"
	}
	_, err = svc.UploadBatch(context.Background(), "user-1", "Atend-01", multipartFiles(t, contents...))
	if !errors.As(err, &validation) || validation.Code != "TOO_MANY_FILES" {
		t.Fatalf("expected TOO_MANY_FILES, got %v", err)
	}
}

func TestDeleteFotoNotFound(t *testing.T) {
	svc := NewUploadService(&stubUploader{})

	if err := svc.Delete(context.Background(), "existe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "nao-existe"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadStatusNotConfigured(t *testing.T) {
	svc := NewUploadService(nil)

	status := svc.Status("http://localhost:10000")
	if status.MediaConfigured {
		t.Fatal("expected media_configured false")
	}
	if status.Status != "not_configured" {
		t.Fatalf("expected not_configured, got %q", status.Status)
	}
}
