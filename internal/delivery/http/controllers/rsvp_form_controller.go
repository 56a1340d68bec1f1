package controllers

import (
	"log/slog"
	"net/http"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

// RSVPFieldRequest describes a form field in request bodies.
type RSVPFieldRequest struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        domain.FieldType `json:"type"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options"`
	Placeholder string           `json:"placeholder"`
}

func (f RSVPFieldRequest) toDomain() domain.RSVPField {
	return domain.RSVPField{
		ID:          f.ID,
		Name:        f.Name,
		Type:        f.Type,
		Required:    f.Required,
		Options:     f.Options,
		Placeholder: f.Placeholder,
	}
}

// UpdateRSVPFormRequest is the request body for PUT /events/{eventID}/rsvp/form.
// Fields, when present, replaces the whole field list.
type UpdateRSVPFormRequest struct {
	Fields          *[]RSVPFieldRequest `json:"fields"`
	ThankYouMessage *string             `json:"thankYouMessage"`
	IsActive        *bool               `json:"isActive"`
}

// UpdateRSVPFieldRequest is the request body for PATCH .../rsvp/form/fields/{fieldID}
type UpdateRSVPFieldRequest struct {
	Name        *string           `json:"name"`
	Type        *domain.FieldType `json:"type"`
	Required    *bool             `json:"required"`
	Options     *[]string         `json:"options"`
	Placeholder *string           `json:"placeholder"`
}

// RSVPFormResponse is the data of the form builder endpoints.
type RSVPFormResponse struct {
	Form      *domain.RSVPForm `json:"form"`
	ShareLink string           `json:"shareLink"`
}

type RSVPFormController struct {
	Logger  *slog.Logger
	Service domain.RSVPFormService
}

func NewRSVPFormController(logger *slog.Logger, svc domain.RSVPFormService) *RSVPFormController {
	return &RSVPFormController{Logger: logger, Service: svc}
}

func (c *RSVPFormController) writeForm(w http.ResponseWriter, status int, eventID string, form *domain.RSVPForm) {
	h.WriteJSONSuccess(w, status, RSVPFormResponse{Form: form, ShareLink: c.Service.ShareLink(eventID)})
}

// GetForm godoc
// @Summary Get the RSVP form of an event
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains form and shareLink"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/form [get]
func (c *RSVPFormController) GetForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	form, err := c.Service.GetForm(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeForm(w, http.StatusOK, eventID, form)
}

// CreateForm godoc
// @Summary Create the default RSVP form
// @Description Creates the form with name and email fields. An existing form is returned unchanged with 200.
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains form and shareLink"
// @Success 200 {object} helpers.APIResponse "form already existed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/form [post]
func (c *RSVPFormController) CreateForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	form, created, err := c.Service.CreateForm(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.writeForm(w, status, eventID, form)
}

// UpdateForm godoc
// @Summary Update the RSVP form
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateRSVPFormRequest true "Form settings"
// @Success 200 {object} helpers.APIResponse "data contains form and shareLink"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/form [put]
func (c *RSVPFormController) UpdateForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateRSVPFormRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := domain.RSVPFormPatch{ThankYouMessage: req.ThankYouMessage, IsActive: req.IsActive}
	if req.Fields != nil {
		fields := make([]domain.RSVPField, len(*req.Fields))
		for i, f := range *req.Fields {
			fields[i] = f.toDomain()
		}
		patch.Fields = &fields
	}
	form, err := c.Service.UpdateForm(r.Context(), eventID, patch)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeForm(w, http.StatusOK, eventID, form)
}

// AddField godoc
// @Summary Append a field
// @Description An empty body appends the default text field "new_field".
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body RSVPFieldRequest false "Field"
// @Success 201 {object} helpers.APIResponse "data contains form and shareLink"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/form/fields [post]
func (c *RSVPFormController) AddField(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var field *domain.RSVPField
	if r.ContentLength != 0 {
		var req RSVPFieldRequest
		if !h.DecodeAndValidate(w, r, &req) {
			return
		}
		f := req.toDomain()
		field = &f
	}
	form, err := c.Service.AddField(r.Context(), eventID, field)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeForm(w, http.StatusCreated, eventID, form)
}

// UpdateField godoc
// @Summary Edit a field
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param fieldID path string true "Field ID"
// @Param body body UpdateRSVPFieldRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains form and shareLink"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/form/fields/{fieldID} [patch]
func (c *RSVPFormController) UpdateField(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "fieldID")
	if !ok {
		return
	}
	var req UpdateRSVPFieldRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	form, err := c.Service.UpdateField(r.Context(), ids[0], ids[1], domain.RSVPFieldPatch{
		Name:        req.Name,
		Type:        req.Type,
		Required:    req.Required,
		Options:     req.Options,
		Placeholder: req.Placeholder,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeForm(w, http.StatusOK, ids[0], form)
}

// RemoveField godoc
// @Summary Remove a field
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param fieldID path string true "Field ID"
// @Success 200 {object} helpers.APIResponse "data contains form and shareLink"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/form/fields/{fieldID} [delete]
func (c *RSVPFormController) RemoveField(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "fieldID")
	if !ok {
		return
	}
	form, err := c.Service.RemoveField(r.Context(), ids[0], ids[1])
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.writeForm(w, http.StatusOK, ids[0], form)
}
