package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readmore/referral/internal/model"
	"readmore/referral/internal/service"
	"readmore/referral/pkg/response"
)

type TicketHandler struct {
	ticketService service.TicketService
}

func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

type IssueTicketRequest struct {
	CampaignID string `json:"campaign_id" binding:"required"`
	Source     string `json:"source" binding:"required"`
}

type IssueTicketResponse struct {
	ShareCode string `json:"share_code"`
}

// Issue starts (or resumes) the caller's friend-help share for a campaign.
func (h *TicketHandler) Issue(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req IssueTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_error", "invalid request body: "+err.Error())
		return
	}
	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		response.BadRequest(c, "validation_error", "invalid campaign id")
		return
	}

	shareCode, err := h.ticketService.Issue(c.Request.Context(), campaignID, userID, model.ShareSource(req.Source))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSource):
			response.BadRequest(c, "invalid_source", err.Error())
		case errors.Is(err, service.ErrCampaignNotFound):
			response.NotFound(c, "campaign_not_found", err.Error())
		default:
			response.InternalError(c, "failed to issue ticket")
		}
		return
	}

	response.Success(c, IssueTicketResponse{ShareCode: shareCode})
}

// Accept records the caller as one accepted friend on a shared ticket.
func (h *TicketHandler) Accept(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	shareCode := c.Query("share_code")
	if shareCode == "" {
		response.BadRequest(c, "validation_error", "share_code is required")
		return
	}

	if err := h.ticketService.Accept(c.Request.Context(), shareCode, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.NotFound(c, "ticket_not_found", err.Error())
		case errors.Is(err, service.ErrAlreadyCompleted):
			response.BadRequest(c, "already_completed", err.Error())
		case errors.Is(err, service.ErrDuplicateAccept):
			response.BadRequest(c, "duplicate_accept", err.Error())
		case errors.Is(err, service.ErrExpired):
			response.BadRequest(c, "expired", err.Error())
		case errors.Is(err, service.ErrAlreadyFull):
			response.BadRequest(c, "already_full", err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user_not_found", err.Error())
		case errors.Is(err, service.ErrCampaignNotFound):
			response.NotFound(c, "campaign_not_found", err.Error())
		case errors.Is(err, service.ErrConflict):
			response.Conflict(c, "conflict", err.Error())
		default:
			response.InternalError(c, "failed to accept ticket")
		}
		return
	}

	response.SuccessMessage(c, "ticket accepted")
}
