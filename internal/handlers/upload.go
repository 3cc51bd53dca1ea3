package handlers

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/zoecc/passbox-api/internal/storage"
	"github.com/zoecc/passbox-api/pkg/dto"
)

const maxUploadSize = 5 << 20

var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type UploadHandler struct {
	blobs storage.BlobStore
}

func NewUploadHandler(blobs storage.BlobStore) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// Upload accepts one image in the "file" multipart field and stores it
// under a random name so uploads can never collide or be guessed.
func (h *UploadHandler) Upload(c *drift.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.BadRequest("file is required")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.BadRequest("file exceeds the 5MB limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		c.BadRequest("unsupported file type")
		return
	}

	filename := uuid.New().String() + ext
	if err := h.blobs.Put(context.Background(), filename, contentType, file, header.Size); err != nil {
		c.InternalServerError("failed to store file")
		return
	}

	_ = c.JSON(201, dto.UploadResponse{
		Success:  true,
		Filename: filename,
		URL:      storage.UploadURLPrefix + filename,
	})
}

func (h *UploadHandler) Serve(c *drift.Context) {
	filename := c.Param("filename")
	if !validFilename(filename) {
		c.BadRequest("invalid filename")
		return
	}

	obj, info, err := h.blobs.Get(context.Background(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			c.NotFound("file not found")
			return
		}
		c.InternalServerError("failed to fetch file")
		return
	}
	defer obj.Close()

	c.Response.Header().Set("Content-Type", info.ContentType)
	c.Response.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	c.Response.WriteHeader(200)
	_, _ = io.Copy(c.Response, obj)
}

func (h *UploadHandler) Delete(c *drift.Context) {
	filename := c.Param("filename")
	if !validFilename(filename) {
		c.BadRequest("invalid filename")
		return
	}

	if !h.blobs.DeleteIfExists(context.Background(), filename) {
		c.NotFound("file not found")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Success: true, Message: "file deleted"})
}

func validFilename(filename string) bool {
	return filename != "" &&
		!strings.ContainsAny(filename, "/\\") &&
		!strings.Contains(filename, "..")
}
