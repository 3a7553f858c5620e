package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readmore/referral/internal/service"
	"readmore/referral/pkg/response"
)

type CampaignHandler struct {
	campaignService service.CampaignService
}

func NewCampaignHandler(campaignService service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

type CreateCampaignRequest struct {
	BookID    string `json:"book_id" binding:"required"`
	NeedNum   int    `json:"need_num" binding:"required"`
	LimitDays *int   `json:"limit_days,omitempty"`
}

// Create registers a book as a friend-help campaign.
func (h *CampaignHandler) Create(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_error", "invalid request body: "+err.Error())
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		response.BadRequest(c, "validation_error", "invalid book id")
		return
	}
	if req.NeedNum < 1 {
		response.BadRequest(c, "validation_error", "need_num must be positive")
		return
	}
	if req.LimitDays != nil && *req.LimitDays < 1 {
		response.BadRequest(c, "validation_error", "limit_days must be positive")
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), bookID, req.NeedNum, req.LimitDays)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			response.NotFound(c, "book_not_found", err.Error())
		case errors.Is(err, service.ErrCampaignExists):
			response.Conflict(c, "campaign_exists", err.Error())
		default:
			response.InternalError(c, "failed to create campaign")
		}
		return
	}

	response.Success(c, campaign)
}

type campaignPage struct {
	Total int64                  `json:"total"`
	List  []service.CampaignView `json:"list"`
}

// AdminList returns one admin page of campaigns with book summaries.
func (h *CampaignHandler) AdminList(c *gin.Context) {
	page, limit := parsePagination(c)

	total, views, err := h.campaignService.List(c.Request.Context(), page, limit, nil)
	if err != nil {
		response.InternalError(c, "failed to list campaigns")
		return
	}

	response.Success(c, campaignPage{Total: total, List: views})
}

type UpdateCampaignRequest struct {
	NeedNum   *int `json:"need_num,omitempty"`
	LimitDays *int `json:"limit_days,omitempty"`
}

// Update changes a campaign's threshold and/or time limit.
func (h *CampaignHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "validation_error", "invalid campaign id")
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_error", "invalid request body: "+err.Error())
		return
	}
	if req.NeedNum != nil && *req.NeedNum < 1 {
		response.BadRequest(c, "validation_error", "need_num must be positive")
		return
	}
	if req.LimitDays != nil && *req.LimitDays < 1 {
		response.BadRequest(c, "validation_error", "limit_days must be positive")
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), id, req.NeedNum, req.LimitDays)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpdate):
			response.BadRequest(c, "validation_error", err.Error())
		case errors.Is(err, service.ErrCampaignNotFound):
			response.NotFound(c, "campaign_not_found", err.Error())
		default:
			response.InternalError(c, "failed to update campaign")
		}
		return
	}

	response.Success(c, campaign)
}

// Delete removes a campaign and renumbers the remaining ranks.
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "validation_error", "invalid campaign id")
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.NotFound(c, "campaign_not_found", err.Error())
		case errors.Is(err, service.ErrPartialShift):
			// The campaign is gone but the rank index may be inconsistent;
			// the shift is idempotent and safe to retry.
			response.Fail(c, 500, "partial_shift", err.Error())
		default:
			response.InternalError(c, "failed to delete campaign")
		}
		return
	}

	response.SuccessMessage(c, "campaign deleted")
}

// PromoteToTop moves a campaign to rank 1.
func (h *CampaignHandler) PromoteToTop(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "validation_error", "invalid campaign id")
		return
	}

	if err := h.campaignService.PromoteToTop(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.NotFound(c, "campaign_not_found", err.Error())
		case errors.Is(err, service.ErrPartialShift):
			response.Fail(c, 500, "partial_shift", err.Error())
		default:
			response.InternalError(c, "failed to promote campaign")
		}
		return
	}

	response.SuccessMessage(c, "campaign promoted to top")
}

// PublicList returns one page of campaigns for the reading app. When the
// caller is signed in, each item carries their completion status.
func (h *CampaignHandler) PublicList(c *gin.Context) {
	page, limit := parsePagination(c)
	userID := optionalUserID(c)

	total, views, err := h.campaignService.List(c.Request.Context(), page, limit, userID)
	if err != nil {
		response.InternalError(c, "failed to list campaigns")
		return
	}

	response.Success(c, campaignPage{Total: total, List: views})
}
