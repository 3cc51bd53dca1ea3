package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/zoecc/passbox-api/internal/middleware"
	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/services"
	"github.com/zoecc/passbox-api/pkg/dto"
)

type PasswordHandler struct {
	passwordService PasswordServiceInterface
}

func NewPasswordHandler(passwordService PasswordServiceInterface) *PasswordHandler {
	return &PasswordHandler{passwordService: passwordService}
}

func passwordEntryResponse(e *models.PasswordEntry, masked bool) dto.PasswordEntryResponse {
	resp := dto.PasswordEntryResponse{
		ID:            e.ID,
		SiteName:      e.SiteName,
		SiteURL:       e.SiteURL,
		Username:      e.Username,
		Password:      e.Password,
		Notes:         e.Notes,
		Strength:      e.Strength,
		Category:      e.Category,
		ImageFilename: e.ImageFilename,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if masked && resp.Password != "" {
		resp.Password = passwordMask
	}
	return resp
}

func (h *PasswordHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	page, perPage := parsePagination(c)

	entries, total, err := h.passwordService.List(context.Background(), userID, services.PasswordListOptions{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		c.InternalServerError("failed to list entries")
		return
	}

	data := make([]dto.PasswordEntryResponse, 0, len(entries))
	for i := range entries {
		data = append(data, passwordEntryResponse(&entries[i], true))
	}

	_ = c.JSON(200, dto.ListResponse{
		Success:     true,
		Data:        data,
		Total:       total,
		Pages:       pageCount(total, perPage),
		CurrentPage: page,
	})
}

// Get returns a single entry with the real password. This is the detail
// view; listings only ever carry the mask.
func (h *PasswordHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	entry, err := h.passwordService.GetByID(context.Background(), userID, id)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			c.NotFound("entry not found")
			return
		}
		c.InternalServerError("failed to fetch entry")
		return
	}

	_ = c.JSON(200, passwordEntryResponse(entry, false))
}

func (h *PasswordHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.PasswordEntryRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.SiteName == "" || req.Username == "" || req.Password == "" {
		c.BadRequest("site_name, username and password are required")
		return
	}

	entry, err := h.passwordService.Create(context.Background(), userID, &models.PasswordEntry{
		SiteName:      req.SiteName,
		SiteURL:       req.SiteURL,
		Username:      req.Username,
		Password:      req.Password,
		Notes:         req.Notes,
		Strength:      req.Strength,
		Category:      req.Category,
		ImageFilename: req.ImageFilename,
	})
	if err != nil {
		c.InternalServerError("failed to create entry")
		return
	}

	_ = c.JSON(201, passwordEntryResponse(entry, true))
}

func (h *PasswordHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PasswordEntryUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	entry, err := h.passwordService.Update(context.Background(), userID, id, services.PasswordUpdate{
		SiteName:      req.SiteName,
		SiteURL:       req.SiteURL,
		Username:      req.Username,
		Password:      req.Password,
		Notes:         req.Notes,
		Strength:      req.Strength,
		Category:      req.Category,
		ImageFilename: req.ImageFilename,
	})
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			c.NotFound("entry not found")
			return
		}
		c.InternalServerError("failed to update entry")
		return
	}

	_ = c.JSON(200, passwordEntryResponse(entry, true))
}

func (h *PasswordHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.passwordService.Delete(context.Background(), userID, id); err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			c.NotFound("entry not found")
			return
		}
		c.InternalServerError("failed to delete entry")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Success: true, Message: "entry deleted"})
}

func (h *PasswordHandler) BatchDelete(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.BatchDeleteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		c.BadRequest("ids are required")
		return
	}

	deleted, err := h.passwordService.BatchDelete(context.Background(), userID, req.IDs)
	if err != nil {
		c.InternalServerError("failed to delete entries")
		return
	}

	_ = c.JSON(200, dto.BatchDeleteResponse{Success: true, Deleted: deleted})
}

func (h *PasswordHandler) Export(c *drift.Context) {
	userID := middleware.GetUserID(c)

	entries, err := h.passwordService.Export(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to export entries")
		return
	}

	data := make([]dto.PasswordEntryResponse, 0, len(entries))
	for i := range entries {
		data = append(data, passwordEntryResponse(&entries[i], false))
	}

	_ = c.JSON(200, dto.PasswordExportResponse{
		Success:    true,
		Entries:    data,
		Count:      len(data),
		ExportedAt: time.Now().UTC(),
	})
}

func (h *PasswordHandler) Import(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.PasswordImportRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if len(req.Entries) == 0 {
		c.BadRequest("entries are required")
		return
	}

	entries := make([]models.PasswordEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, models.PasswordEntry{
			SiteName:      e.SiteName,
			SiteURL:       e.SiteURL,
			Username:      e.Username,
			Password:      e.Password,
			Notes:         e.Notes,
			Strength:      e.Strength,
			Category:      e.Category,
			ImageFilename: e.ImageFilename,
		})
	}

	result, err := h.passwordService.Import(context.Background(), userID, entries)
	if err != nil {
		c.InternalServerError("failed to import entries")
		return
	}

	_ = c.JSON(200, dto.ImportResponse{
		Success:  true,
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Errors:   result.Errors,
	})
}

func (h *PasswordHandler) Categories(c *drift.Context) {
	userID := middleware.GetUserID(c)

	categories, err := h.passwordService.Categories(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list categories")
		return
	}

	_ = c.JSON(200, dto.CategoriesResponse{Success: true, Categories: categories})
}
