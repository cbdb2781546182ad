package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/interfaces/http/dto"
)

// bindListFilter binds common list query parameters into a domain filter.
// Additional filters like status are read from the query directly.
func bindListFilter(c *gin.Context) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search

	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	return filter, nil
}
