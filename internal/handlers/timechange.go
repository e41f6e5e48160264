package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/internal/middleware"
	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/internal/services"
	"github.com/nathantkn/restockd/pkg/response"
)

type TimeChangeHandler struct {
	timeChangeService *services.TimeChangeService
}

func NewTimeChangeHandler(timeChangeService *services.TimeChangeService) *TimeChangeHandler {
	return &TimeChangeHandler{timeChangeService: timeChangeService}
}

// Create opens a reschedule proposal for one of the caller's meetups
// POST /api/meetup_time_change_requests
func (h *TimeChangeHandler) Create(c *gin.Context) {
	var req services.CreateTimeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Admins may propose on any meetup; food banks only on their own.
	foodBankID := middleware.GetUserID(c)
	if middleware.GetRole(c) == models.RoleAdmin {
		foodBankID = 0
	}

	tcr, err := h.timeChangeService.Create(foodBankID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tcr)
}

// List returns time change requests matching the query filters
// GET /api/meetup_time_change_requests?meetup_id=&donor_id=&food_bank_id=&status=
func (h *TimeChangeHandler) List(c *gin.Context) {
	var req services.TimeChangeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	requests, err := h.timeChangeService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, requests)
}

// Respond approves or rejects a pending proposal
// PUT /api/meetup_time_change_requests/:id
func (h *TimeChangeHandler) Respond(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	var req services.RespondTimeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	donorID := middleware.GetUserID(c)
	if middleware.GetRole(c) == models.RoleAdmin {
		donorID = 0
	}

	tcr, err := h.timeChangeService.Respond(uint(id), donorID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tcr)
}
