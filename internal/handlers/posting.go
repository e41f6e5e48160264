package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/internal/middleware"
	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/internal/services"
	"github.com/nathantkn/restockd/pkg/response"
)

type PostingHandler struct {
	postingService *services.PostingService
}

func NewPostingHandler(postingService *services.PostingService) *PostingHandler {
	return &PostingHandler{postingService: postingService}
}

// Create registers a new donation posting for the calling food bank
// POST /api/donation_postings
func (h *PostingHandler) Create(c *gin.Context) {
	var req services.CreatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posting, err := h.postingService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, posting)
}

// List returns postings with pending donor counts
// GET /api/donation_postings?food_bank_id=
func (h *PostingHandler) List(c *gin.Context) {
	var foodBankID uint
	if raw := c.Query("food_bank_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid food_bank_id")
			return
		}
		foodBankID = uint(id)
	}

	postings, err := h.postingService.List(foodBankID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, postings)
}

// Get returns a single posting
// GET /api/donation_postings/:id
func (h *PostingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid posting id")
		return
	}

	posting, err := h.postingService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posting)
}

// Delete removes a posting owned by the calling food bank
// DELETE /api/donation_postings/:id
func (h *PostingHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid posting id")
		return
	}

	// Admins may delete any posting; food banks only their own.
	ownerID := middleware.GetUserID(c)
	if middleware.GetRole(c) == models.RoleAdmin {
		ownerID = 0
	}

	if err := h.postingService.Delete(uint(id), ownerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "posting deleted"})
}
