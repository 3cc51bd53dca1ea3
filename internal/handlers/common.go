package handlers

import (
	"strconv"

	"github.com/m1z23r/drift/pkg/drift"
)

// Placeholders returned instead of secret values on listing surfaces.
const (
	passwordMask = "••••••••"
	contentMask  = "***"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func parseID(c *drift.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.BadRequest("invalid id")
		return 0, false
	}
	return id, true
}

func parsePagination(c *drift.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	perPage, _ = strconv.Atoi(c.QueryParam("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func pageCount(total, perPage int) int {
	if total == 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
