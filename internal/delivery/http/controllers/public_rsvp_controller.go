package controllers

import (
	"log/slog"
	"net/http"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

// PublicRSVPForm is what a guest sees before answering.
type PublicRSVPForm struct {
	Event  *domain.Event      `json:"event"`
	Fields []domain.RSVPField `json:"fields"`
}

// SubmitRSVPRequest is the request body for POST /rsvp/{eventID}.
// Responses is keyed by field name.
type SubmitRSVPRequest struct {
	Responses map[string]any `json:"responses"`
}

// Validate implements Validator.
func (s SubmitRSVPRequest) Validate() []string {
	if len(s.Responses) == 0 {
		return []string{"responses are required"}
	}
	return nil
}

// SubmitRSVPResponse is returned to the guest after a successful submission.
type SubmitRSVPResponse struct {
	QRCode          string `json:"qrCode"`
	ThankYouMessage string `json:"thankYouMessage"`
}

// PublicRSVPController serves the guest-facing form. It needs no authentication.
type PublicRSVPController struct {
	Logger    *slog.Logger
	Forms     domain.RSVPFormService
	Responses domain.RSVPResponseService
}

func NewPublicRSVPController(logger *slog.Logger, forms domain.RSVPFormService, responses domain.RSVPResponseService) *PublicRSVPController {
	return &PublicRSVPController{Logger: logger, Forms: forms, Responses: responses}
}

// GetForm godoc
// @Summary Public RSVP form
// @Tags public
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains event and fields"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (form inactive)"
// @Router /rsvp/{eventID} [get]
func (c *PublicRSVPController) GetForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	event, form, err := c.Forms.PublicForm(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, PublicRSVPForm{Event: event, Fields: form.Fields})
}

// Submit godoc
// @Summary Submit an RSVP
// @Tags public
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body SubmitRSVPRequest true "Answers keyed by field name"
// @Success 201 {object} helpers.APIResponse "data contains qrCode and thankYouMessage"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (form inactive)"
// @Router /rsvp/{eventID} [post]
func (c *PublicRSVPController) Submit(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req SubmitRSVPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	resp, form, err := c.Responses.Submit(r.Context(), eventID, req.Responses)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "rsvp submitted", "event_id", eventID, "response_id", resp.ID)
	h.WriteJSONSuccess(w, http.StatusCreated, SubmitRSVPResponse{QRCode: resp.QRCode, ThankYouMessage: form.ThankYouMessage})
}
