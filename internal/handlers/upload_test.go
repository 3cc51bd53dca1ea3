package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoecc/passbox-api/internal/middleware"
	"github.com/zoecc/passbox-api/internal/services"
	"github.com/zoecc/passbox-api/internal/storage"
	"github.com/zoecc/passbox-api/pkg/dto"
	"github.com/zoecc/passbox-api/tests/testutil"
)

type fakeBlobStore struct {
	objects map[string]string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string]string)}
}

func (s *fakeBlobStore) Put(ctx context.Context, filename, contentType string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[filename] = string(data)
	return nil
}

func (s *fakeBlobStore) Get(ctx context.Context, filename string) (io.ReadCloser, storage.BlobInfo, error) {
	data, ok := s.objects[filename]
	if !ok {
		return nil, storage.BlobInfo{}, storage.ErrBlobNotFound
	}
	return io.NopCloser(strings.NewReader(data)), storage.BlobInfo{
		ContentType: "image/png",
		Size:        int64(len(data)),
	}, nil
}

func (s *fakeBlobStore) DeleteIfExists(ctx context.Context, filename string) bool {
	if _, ok := s.objects[filename]; !ok {
		return false
	}
	delete(s.objects, filename)
	return true
}

func newUploadApp(blobs storage.BlobStore, jwtSvc *services.JWTService) http.Handler {
	handler := NewUploadHandler(blobs)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Get("/uploads/:filename", handler.Serve)

	protected := app.Group("")
	protected.Use(middleware.Auth(jwtSvc))
	protected.Post("/upload", handler.Upload)
	protected.Delete("/upload/:filename", handler.Delete)

	return app
}

func multipartUpload(t *testing.T, fieldFilename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", fieldFilename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadHandler_UploadAndServe(t *testing.T) {
	blobs := newFakeBlobStore()
	jwtSvc := newTestJWTService()
	app := newUploadApp(blobs, jwtSvc)

	body, contentType := multipartUpload(t, "logo.png", "fake-png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, 1))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.UploadResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"))
	// The random name must not reuse the client's filename.
	assert.NotEqual(t, "logo.png", resp.Filename)
	assert.Equal(t, storage.UploadURLPrefix+resp.Filename, resp.URL)

	// Serving back is public.
	serveReq := httptest.NewRequest(http.MethodGet, "/uploads/"+resp.Filename, nil)
	serveRec := httptest.NewRecorder()
	app.ServeHTTP(serveRec, serveReq)

	assert.Equal(t, http.StatusOK, serveRec.Code)
	assert.Equal(t, "fake-png-bytes", serveRec.Body.String())
}

func TestUploadHandler_RejectsUnsupportedType(t *testing.T) {
	blobs := newFakeBlobStore()
	jwtSvc := newTestJWTService()
	app := newUploadApp(blobs, jwtSvc)

	body, contentType := multipartUpload(t, "script.sh", "#!/bin/sh")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, 1))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, blobs.objects)
}

func TestUploadHandler_Serve_NotFound(t *testing.T) {
	app := newUploadApp(newFakeBlobStore(), newTestJWTService())

	req := httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadHandler_Delete(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.objects["logo.png"] = "bytes"
	jwtSvc := newTestJWTService()
	app := newUploadApp(blobs, jwtSvc)

	req := httptest.NewRequest(http.MethodDelete, "/upload/logo.png", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, 1))
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, blobs.objects)

	// Deleting again reports not found.
	req = httptest.NewRequest(http.MethodDelete, "/upload/logo.png", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtSvc, 1))
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
