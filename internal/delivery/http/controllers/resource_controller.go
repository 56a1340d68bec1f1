package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

// CreateResourceRequest is the request body for POST /events/{eventID}/resources.
// Image is an optional data URI or URL.
type CreateResourceRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
}

// Validate implements Validator.
func (c CreateResourceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.Quantity < 1 {
		errs = append(errs, "quantity must be at least 1")
	}
	return errs
}

// UpdateResourceRequest is the request body for PATCH /events/{eventID}/resources/{resourceID}
type UpdateResourceRequest struct {
	Name     *string `json:"name"`
	Quantity *int    `json:"quantity"`
	Image    *string `json:"image"`
}

// Validate implements Validator.
func (u UpdateResourceRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if u.Quantity != nil && *u.Quantity < 1 {
		errs = append(errs, "quantity must be at least 1")
	}
	return errs
}

// AdjustResourceRequest is the request body for POST .../{resourceID}/adjust
type AdjustResourceRequest struct {
	Delta int `json:"delta"`
}

// ResourceListResponse is the data of GET /events/{eventID}/resources.
type ResourceListResponse struct {
	Resources []*domain.Resource      `json:"resources"`
	Summary   *domain.ResourceSummary `json:"summary"`
}

type ResourceController struct {
	Logger  *slog.Logger
	Service domain.ResourceService
}

func NewResourceController(logger *slog.Logger, svc domain.ResourceService) *ResourceController {
	return &ResourceController{Logger: logger, Service: svc}
}

// CreateResource godoc
// @Summary Track a new resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body CreateResourceRequest true "Resource"
// @Success 201 {object} helpers.APIResponse "data contains the resource"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/resources [post]
func (c *ResourceController) CreateResource(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req CreateResourceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.CreateResource(r.Context(), eventID, domain.ResourceDraft{
		Name:     req.Name,
		Quantity: req.Quantity,
		Image:    req.Image,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, res)
}

// ListResources godoc
// @Summary List resources with totals
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains resources and summary"
// @Router /events/{eventID}/resources [get]
func (c *ResourceController) ListResources(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	list, err := c.Service.ListResources(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	summary, err := c.Service.Summary(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ResourceListResponse{Resources: list, Summary: summary})
}

// UpdateResource godoc
// @Summary Edit a resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param resourceID path string true "Resource ID"
// @Param body body UpdateResourceRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the resource"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/resources/{resourceID} [patch]
func (c *ResourceController) UpdateResource(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "resourceID")
	if !ok {
		return
	}
	var req UpdateResourceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.UpdateResource(r.Context(), ids[0], ids[1], domain.ResourcePatch{
		Name:     req.Name,
		Quantity: req.Quantity,
		Image:    req.Image,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, res)
}

// AdjustQuantity godoc
// @Summary Increment or decrement a quantity
// @Description Adds delta to the quantity. The result never drops below zero.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param resourceID path string true "Resource ID"
// @Param body body AdjustResourceRequest true "Delta"
// @Success 200 {object} helpers.APIResponse "data contains the resource"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/resources/{resourceID}/adjust [post]
func (c *ResourceController) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "resourceID")
	if !ok {
		return
	}
	var req AdjustResourceRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.AdjustQuantity(r.Context(), ids[0], ids[1], req.Delta)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, res)
}

// DeleteResource godoc
// @Summary Delete a resource
// @Tags resources
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param resourceID path string true "Resource ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/resources/{resourceID} [delete]
func (c *ResourceController) DeleteResource(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "resourceID")
	if !ok {
		return
	}
	if err := c.Service.DeleteResource(r.Context(), ids[0], ids[1]); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
