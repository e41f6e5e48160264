package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/internal/services"
	"github.com/nathantkn/restockd/pkg/response"
)

// SearchHandler serves item autocomplete and posting search from the
// in-memory index.
type SearchHandler struct {
	indexService *services.SearchIndexService
}

func NewSearchHandler(indexService *services.SearchIndexService) *SearchHandler {
	return &SearchHandler{indexService: indexService}
}

// Autocomplete suggests item names by prefix
// GET /api/items/autocomplete?q=&limit=
func (h *SearchHandler) Autocomplete(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	names := h.indexService.Autocomplete(c.Query("q"), limit)
	response.Success(c, names)
}

// Postings searches live postings by item name
// GET /api/search/postings?q=
func (h *SearchHandler) Postings(c *gin.Context) {
	q := c.Query("q")
	if len(q) < 2 {
		response.BadRequest(c, "search query must be at least 2 characters")
		return
	}

	response.Success(c, h.indexService.Search(q))
}
