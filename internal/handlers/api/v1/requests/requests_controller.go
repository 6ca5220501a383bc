// ===============================
// FILE: internal/handlers/api/v1/requests/requests_controller.go
// ===============================

package requests

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

// RequestController serves the cleanup request endpoints
type RequestController struct {
	requests        services.RequestService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewRequestController creates a new request controller
func NewRequestController(requests services.RequestService, logger *zap.Logger, responseBuilder *response.Builder) *RequestController {
	return &RequestController{
		requests:        requests,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// CreatedResponse is the body of a successful request registration
type CreatedResponse struct {
	Message string          `json:"message"`
	ID      int64           `json:"id"`
	Request *models.Request `json:"request"`
}

// UpdatedResponse is the body of a successful status update
type UpdatedResponse struct {
	Message string          `json:"message"`
	Request *models.Request `json:"request"`
}

// Create registers a cleanup request. Anonymous callers are matched to
// an account through the body email.
// @Summary Report a location needing cleanup
// @Tags requests
// @Accept json
// @Produce json
// @Param body body services.CreateRequestRequest true "Request details"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /request_register [post]
func (c *RequestController) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req services.CreateRequestRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	created, err := c.requests.Create(ctx, middleware.GetUser(r.Context()), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	middleware.GetRequestLogger(r.Context()).Info("Request registered",
		zap.Int64("request_id", created.ID),
		zap.String("pincode", created.Pincode),
	)
	c.responseBuilder.WriteCreated(w, r, CreatedResponse{
		Message: "Request created successfully",
		ID:      created.ID,
		Request: created,
	})
}

// ListMine returns the caller's requests
// @Summary List my requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Request
// @Router /user_requests [get]
func (c *RequestController) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := c.requests.ListMine(ctx, middleware.GetUser(r.Context()))
	c.writeList(w, r, list, err)
}

// ListForVolunteer returns requests in the caller's pincode
// @Summary List requests near a volunteer
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Request
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /volunteer_requests [get]
func (c *RequestController) ListForVolunteer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := c.requests.ListForVolunteer(ctx, middleware.GetUser(r.Context()))
	c.writeList(w, r, list, err)
}

// Get returns one request
// @Summary Get a request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.Request
// @Failure 404 {object} response.ErrorBody
// @Router /request/{id} [get]
func (c *RequestController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.PathID(r, "id", "request")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	found, err := c.requests.Get(ctx, id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, found)
}

// ListAll returns every request to an administrator
// @Summary List all requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Request
// @Failure 403 {object} response.ErrorBody
// @Router /managerequest [get]
func (c *RequestController) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := c.requests.ListAll(ctx, middleware.GetUser(r.Context()))
	c.writeList(w, r, list, err)
}

// UpdateStatus changes the status of the request named by ?id=
// @Summary Update a request's status
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id query int true "Request ID"
// @Param body body services.UpdateRequestStatusRequest true "New status"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /managerequest [put]
func (c *RequestController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := common.RequireQueryID(r, "request")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.UpdateRequestStatusRequest
	if err := common.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	updated, err := c.requests.UpdateStatus(ctx, middleware.GetUser(r.Context()), id, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, UpdatedResponse{
		Message: "Request updated successfully",
		Request: updated,
	})
}

func (c *RequestController) writeList(w http.ResponseWriter, r *http.Request, list []*models.Request, err error) {
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Request{}
	}
	c.responseBuilder.WriteSuccess(w, r, list)
}
