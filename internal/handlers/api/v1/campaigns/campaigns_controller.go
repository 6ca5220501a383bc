// ===============================
// FILE: internal/handlers/api/v1/campaigns/campaigns_controller.go
// ===============================

package campaigns

import (
	"context"
	"net/http"
	"time"

	"cleanearth/internal/handlers/api/v1/common"
	"cleanearth/internal/middleware"
	"cleanearth/internal/models"
	"cleanearth/internal/response"
	"cleanearth/internal/services"

	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// uploadTimeout leaves room for image upload retries
const uploadTimeout = 2 * time.Minute

// CampaignController serves campaign management and participation
type CampaignController struct {
	campaigns       services.CampaignService
	participation   services.ParticipationService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCampaignController creates a new campaign controller
func NewCampaignController(
	campaigns services.CampaignService,
	participation services.ParticipationService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *CampaignController {
	return &CampaignController{
		campaigns:       campaigns,
		participation:   participation,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// CreatedResponse is the body of a successful campaign creation
type CreatedResponse struct {
	Message  string           `json:"message"`
	ID       int64            `json:"id"`
	Campaign *models.Campaign `json:"campaign"`
}

// CampaignResponse pairs a message with the affected campaign
type CampaignResponse struct {
	Message  string           `json:"message"`
	Campaign *models.Campaign `json:"campaign"`
}

// ===============================
// CAMPAIGN MANAGEMENT
// ===============================

// Register creates a campaign from the camelCase camp form
// @Summary Register a camp for a request
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CampRegisterRequest true "Camp details"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /camp_register [post]
func (c *CampaignController) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.CampRegisterRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	campaign, err := c.campaigns.Register(ctx, middleware.GetUser(r.Context()), &req)
	c.writeCreated(w, r, campaign, err)
}

// Create creates a campaign from the snake_case management form
// @Summary Create a campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCampaignRequest true "Campaign details"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /managecamp [post]
func (c *CampaignController) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.CreateCampaignRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	campaign, err := c.campaigns.Create(ctx, middleware.GetUser(r.Context()), &req)
	c.writeCreated(w, r, campaign, err)
}

// Get returns the campaign named by ?id=, or every campaign
// @Summary Get one or all campaigns
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id query int false "Campaign ID"
// @Success 200 {array} models.Campaign
// @Failure 404 {object} response.ErrorBody
// @Router /managecamp [get]
func (c *CampaignController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, present, err := common.QueryID(r, "campaign")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if present {
		campaign, err := c.campaigns.Get(ctx, id)
		if err != nil {
			c.responseBuilder.WriteError(w, r, err)
			return
		}
		c.responseBuilder.WriteSuccess(w, r, campaign)
		return
	}

	list, err := c.campaigns.List(ctx)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Campaign{}
	}
	c.responseBuilder.WriteSuccess(w, r, list)
}

// Update applies a partial update to the campaign named by ?id=
// @Summary Update a campaign
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id query int true "Campaign ID"
// @Param body body services.UpdateCampaignRequest true "Fields to change"
// @Success 200 {object} CampaignResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /managecamp [put]
func (c *CampaignController) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.RequireQueryID(r, "campaign")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.UpdateCampaignRequest
	if err := common.DecodeJSON(r, &req, true); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	campaign, err := c.campaigns.Update(ctx, middleware.GetUser(r.Context()), id, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, CampaignResponse{Message: "Campaign updated successfully", Campaign: campaign})
}

// Delete removes the campaign named by ?id= along with its join records
// @Summary Delete a campaign
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id query int true "Campaign ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /managecamp [delete]
func (c *CampaignController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.RequireQueryID(r, "campaign")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.campaigns.Delete(ctx, middleware.GetUser(r.Context()), id); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	middleware.GetRequestLogger(r.Context()).Info("Campaign deleted", zap.Int64("campaign_id", id))
	c.responseBuilder.WriteMessage(w, r, "Campaign deleted successfully")
}

// Complete marks a campaign completed. It accepts JSON or a multipart
// form carrying an optional image file.
// @Summary Complete a campaign
// @Tags campaigns
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Param image formData file false "Completion photo"
// @Success 200 {object} CampaignResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /complete-campaign/{id} [post]
// @Router /complete-camp/{id} [post]
func (c *CampaignController) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), uploadTimeout)
	defer cancel()

	id, err := common.PathID(r, "id", "campaign")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	req, cleanup, err := parseCompletion(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	defer cleanup()

	campaign, err := c.campaigns.Complete(ctx, middleware.GetUser(r.Context()), id, req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	middleware.GetRequestLogger(r.Context()).Info("Campaign completed",
		zap.Int64("campaign_id", id),
		zap.Bool("with_image", req.Image != nil),
	)
	c.responseBuilder.WriteSuccess(w, r, CampaignResponse{
		Message:  "Campaign marked as completed successfully",
		Campaign: campaign,
	})
}

// ===============================
// PARTICIPATION
// ===============================

// Join adds a volunteer to a campaign
// @Summary Join a campaign as a volunteer
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} services.JoinResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /join-campaign/{id} [post]
func (c *CampaignController) Join(w http.ResponseWriter, r *http.Request) {
	c.join(w, r, c.participation.Join)
}

// Participate adds any authenticated user to a campaign
// @Summary Participate in a camp
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} services.JoinResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /camp_participate/{id} [post]
func (c *CampaignController) Participate(w http.ResponseWriter, r *http.Request) {
	c.join(w, r, c.participation.Participate)
}

type joinFunc func(ctx context.Context, actor *models.User, campaignID int64) (*services.JoinResponse, error)

func (c *CampaignController) join(w http.ResponseWriter, r *http.Request, fn joinFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.PathID(r, "id", "campaign")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	resp, err := fn(ctx, middleware.GetUser(r.Context()), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, resp)
}

// Leave removes the caller from a campaign
// @Summary Leave a campaign
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.ErrorBody
// @Router /leave-campaign/{id} [post]
func (c *CampaignController) Leave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.PathID(r, "id", "campaign")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.participation.Leave(ctx, middleware.GetUser(r.Context()), id); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteMessage(w, r, "Successfully left the campaign")
}

// Volunteers lists the join records of the campaign named by ?id=
// @Summary List a campaign's volunteers
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param id query int true "Campaign ID"
// @Success 200 {array} models.CampaignVolunteer
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /managecamp/volunteers [get]
func (c *CampaignController) Volunteers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.RequireQueryID(r, "campaign")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	list, err := c.participation.Volunteers(ctx, middleware.GetUser(r.Context()), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.CampaignVolunteer{}
	}
	c.responseBuilder.WriteSuccess(w, r, list)
}

// UserCamps lists planned campaigns in the caller's pincode
// @Summary Camps near me
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CampaignListing
// @Failure 400 {object} response.ErrorBody
// @Router /user_camps [get]
func (c *CampaignController) UserCamps(w http.ResponseWriter, r *http.Request) {
	c.listings(w, r, c.participation.CampsNearUser)
}

// VolunteerCamps is UserCamps restricted to volunteers and admins
// @Summary Camps near a volunteer
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CampaignListing
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /volunteer_camps [get]
func (c *CampaignController) VolunteerCamps(w http.ResponseWriter, r *http.Request) {
	c.listings(w, r, c.participation.CampsNearVolunteer)
}

func (c *CampaignController) listings(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actor *models.User) ([]*models.CampaignListing, error),
) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := fn(ctx, middleware.GetUser(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.CampaignListing{}
	}
	c.responseBuilder.WriteSuccess(w, r, list)
}

func (c *CampaignController) writeCreated(w http.ResponseWriter, r *http.Request, campaign *models.Campaign, err error) {
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	middleware.GetRequestLogger(r.Context()).Info("Campaign created",
		zap.Int64("campaign_id", campaign.ID),
		zap.Int64("request_id", campaign.RequestID),
	)
	c.responseBuilder.WriteCreated(w, r, CreatedResponse{
		Message:  "Campaign created successfully",
		ID:       campaign.ID,
		Campaign: campaign,
	})
}
