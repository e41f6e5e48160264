package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/internal/services"
	"github.com/nathantkn/restockd/pkg/response"
)

// AggregatorHandler serves the composed read-side views: leaderboard,
// donation history, donor counts and the food bank directory.
type AggregatorHandler struct {
	aggregatorService *services.AggregatorService
}

func NewAggregatorHandler(aggregatorService *services.AggregatorService) *AggregatorHandler {
	return &AggregatorHandler{aggregatorService: aggregatorService}
}

// Leaderboard ranks donors by completed donations
// GET /api/leaderboard?timeframe=week|month|alltime
func (h *AggregatorHandler) Leaderboard(c *gin.Context) {
	rows, err := h.aggregatorService.Leaderboard(c.Query("timeframe"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// DonorHistory returns a donor's annotated meetup history
// GET /api/donors/:id/history
func (h *AggregatorHandler) DonorHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid donor id")
		return
	}

	history, err := h.aggregatorService.DonorHistory(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}

// DonorProfile returns a donor's public profile with lifetime totals
// GET /api/donors/:id
func (h *AggregatorHandler) DonorProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid donor id")
		return
	}

	profile, err := h.aggregatorService.DonorProfile(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// PostingDonorCount returns how many donors hold pending meetups on a posting
// GET /api/donation_postings/:id/donor_count
func (h *AggregatorHandler) PostingDonorCount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid posting id")
		return
	}

	count, err := h.aggregatorService.PostingDonorCount(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, count)
}

// FoodBanks lists the public food bank directory
// GET /api/food_banks
func (h *AggregatorHandler) FoodBanks(c *gin.Context) {
	entries, err := h.aggregatorService.FoodBankDirectory()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}
