package handlers

import (
	"context"
	"errors"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/zoecc/passbox-api/internal/middleware"
	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/services"
	"github.com/zoecc/passbox-api/pkg/dto"
)

// ItemHandler serves one item kind. The clipboard and favorites routes
// each get their own instance over the same service.
type ItemHandler struct {
	itemService ItemServiceInterface
	kind        models.ItemKind
}

func NewItemHandler(itemService ItemServiceInterface, kind models.ItemKind) *ItemHandler {
	return &ItemHandler{itemService: itemService, kind: kind}
}

func itemResponse(item *models.Item, content string) dto.ItemResponse {
	return dto.ItemResponse{
		ID:         item.ID,
		Title:      item.Title,
		Content:    content,
		Category:   item.Category,
		Tags:       item.Tags,
		IsPassword: item.IsPassword,
		ItemType:   item.ItemType,
		URL:        item.URL,
		ImageURL:   item.ImageURL,
		UseCount:   item.UseCount,
		LastUsed:   item.LastUsed,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func (h *ItemHandler) maskedResponses(items []models.Item, decrypt bool) []dto.ItemResponse {
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		content := contentMask
		if decrypt {
			content = h.itemService.Reveal(&items[i])
		}
		data = append(data, itemResponse(&items[i], content))
	}
	return data
}

func (h *ItemHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	page, perPage := parsePagination(c)

	opts := services.ItemListOptions{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
		ItemType: c.QueryParam("item_type"),
		Page:     page,
		PerPage:  perPage,
	}
	switch c.QueryParam("is_password") {
	case "true":
		v := true
		opts.IsPassword = &v
	case "false":
		v := false
		opts.IsPassword = &v
	}

	items, total, err := h.itemService.List(context.Background(), userID, h.kind, opts)
	if err != nil {
		c.InternalServerError("failed to list items")
		return
	}

	decrypt := c.QueryParam("decrypt") == "true"

	_ = c.JSON(200, dto.ListResponse{
		Success:     true,
		Data:        h.maskedResponses(items, decrypt),
		Total:       total,
		Pages:       pageCount(total, perPage),
		CurrentPage: page,
	})
}

func (h *ItemHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(context.Background(), userID, h.kind, id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.NotFound("item not found")
			return
		}
		c.InternalServerError("failed to fetch item")
		return
	}

	_ = c.JSON(200, itemResponse(item, h.itemService.Reveal(item)))
}

func (h *ItemHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.ItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Content == "" {
		c.BadRequest("content is required")
		return
	}
	if req.Title == "" {
		req.Title = "Untitled"
	}

	item, err := h.itemService.Create(context.Background(), userID, h.kind, &models.Item{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		IsPassword: req.IsPassword,
		ItemType:   req.ItemType,
		URL:        req.URL,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		c.InternalServerError("failed to create item")
		return
	}

	_ = c.JSON(201, itemResponse(item, req.Content))
}

func (h *ItemHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ItemUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Content != nil && *req.Content == "" {
		c.BadRequest("content cannot be empty")
		return
	}

	item, err := h.itemService.Update(context.Background(), userID, h.kind, id, services.ItemUpdate{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		IsPassword: req.IsPassword,
		ItemType:   req.ItemType,
		URL:        req.URL,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.NotFound("item not found")
			return
		}
		c.InternalServerError("failed to update item")
		return
	}

	_ = c.JSON(200, itemResponse(item, h.itemService.Reveal(item)))
}

func (h *ItemHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(context.Background(), userID, h.kind, id); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.NotFound("item not found")
			return
		}
		c.InternalServerError("failed to delete item")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Success: true, Message: "item deleted"})
}

func (h *ItemHandler) Copy(c *drift.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.itemService.Copy(context.Background(), userID, h.kind, id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.NotFound("item not found")
			return
		}
		c.InternalServerError("failed to copy item")
		return
	}

	_ = c.JSON(200, dto.CopyResponse{Success: true, Content: h.itemService.Reveal(item)})
}

func (h *ItemHandler) BatchCreate(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.ItemBatchRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if len(req.Items) == 0 {
		c.BadRequest("items are required")
		return
	}

	created, err := h.itemService.BatchCreate(context.Background(), userID, h.kind, itemsFromRequests(req.Items))
	if err != nil {
		c.InternalServerError("failed to create items")
		return
	}

	_ = c.JSON(201, dto.ItemBatchResponse{
		Success: true,
		Created: h.maskedResponses(created, false),
		Count:   len(created),
	})
}

func (h *ItemHandler) Import(c *drift.Context) {
	userID := middleware.GetUserID(c)

	var req dto.ItemImportRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if len(req.Items) == 0 {
		c.BadRequest("items are required")
		return
	}

	result, err := h.itemService.Import(context.Background(), userID, h.kind, itemsFromRequests(req.Items))
	if err != nil {
		c.InternalServerError("failed to import items")
		return
	}

	_ = c.JSON(200, dto.ImportResponse{
		Success:  true,
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Errors:   result.Errors,
	})
}

func (h *ItemHandler) Export(c *drift.Context) {
	userID := middleware.GetUserID(c)

	items, err := h.itemService.Export(context.Background(), userID, h.kind)
	if err != nil {
		c.InternalServerError("failed to export items")
		return
	}

	// Export already decrypted; do not re-reveal.
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, itemResponse(&items[i], items[i].Content))
	}

	_ = c.JSON(200, dto.ItemExportResponse{Success: true, Items: data, Count: len(data)})
}

func (h *ItemHandler) Categories(c *drift.Context) {
	userID := middleware.GetUserID(c)

	categories, err := h.itemService.Categories(context.Background(), userID, h.kind)
	if err != nil {
		c.InternalServerError("failed to list categories")
		return
	}

	_ = c.JSON(200, dto.CategoriesResponse{Success: true, Categories: categories})
}

func (h *ItemHandler) Tags(c *drift.Context) {
	userID := middleware.GetUserID(c)

	tags, err := h.itemService.Tags(context.Background(), userID, h.kind)
	if err != nil {
		c.InternalServerError("failed to list tags")
		return
	}

	_ = c.JSON(200, dto.TagsResponse{Success: true, Tags: tags})
}

func (h *ItemHandler) Stats(c *drift.Context) {
	userID := middleware.GetUserID(c)

	stats, err := h.itemService.Stats(context.Background(), userID, h.kind)
	if err != nil {
		c.InternalServerError("failed to compute stats")
		return
	}

	_ = c.JSON(200, dto.StatsResponse{
		Success:     true,
		TotalItems:  stats.TotalItems,
		ByType:      stats.ByType,
		TopItems:    h.maskedResponses(stats.TopItems, false),
		RecentItems: h.maskedResponses(stats.RecentItems, false),
	})
}

func itemsFromRequests(reqs []dto.ItemRequest) []models.Item {
	items := make([]models.Item, 0, len(reqs))
	for _, r := range reqs {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		items = append(items, models.Item{
			Title:      title,
			Content:    r.Content,
			Category:   r.Category,
			Tags:       r.Tags,
			IsPassword: r.IsPassword,
			ItemType:   r.ItemType,
			URL:        r.URL,
			ImageURL:   r.ImageURL,
		})
	}
	return items
}
