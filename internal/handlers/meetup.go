package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/internal/middleware"
	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/internal/services"
	"github.com/nathantkn/restockd/pkg/response"
)

type MeetupHandler struct {
	meetupService *services.MeetupService
}

func NewMeetupHandler(meetupService *services.MeetupService) *MeetupHandler {
	return &MeetupHandler{meetupService: meetupService}
}

// Schedule books a meetup for the calling donor
// POST /api/meetups
func (h *MeetupHandler) Schedule(c *gin.Context) {
	var req services.ScheduleMeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	meetup, err := h.meetupService.Schedule(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, meetup)
}

// List returns meetups matching the query filters
// GET /api/meetups?posting_id=&donor_id=&food_bank_id=&completed=&status=
func (h *MeetupHandler) List(c *gin.Context) {
	var req services.MeetupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	meetups, err := h.meetupService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, meetups)
}

// Get returns a single meetup
// GET /api/meetups/:id
func (h *MeetupHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid meetup id")
		return
	}

	meetup, err := h.meetupService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, meetup)
}

type completeRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// Complete resolves a pending meetup as completed or not_completed
// PUT /api/meetups/:id/complete
func (h *MeetupHandler) Complete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid meetup id")
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	outcome := models.CompletionNotCompleted
	if *req.Completed {
		outcome = models.CompletionCompleted
	}

	meetup, err := h.meetupService.SetCompletion(uint(id), outcome)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, meetup)
}
