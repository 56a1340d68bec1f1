package controllers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

// ListRSVPResponsesResponse is the data of GET /events/{eventID}/rsvp/responses.
type ListRSVPResponsesResponse struct {
	Items      []*domain.RSVPResponse `json:"items"`
	Pagination h.PaginationMeta       `json:"pagination"`
}

type RSVPResponseController struct {
	Logger  *slog.Logger
	Service domain.RSVPResponseService
}

func NewRSVPResponseController(logger *slog.Logger, svc domain.RSVPResponseService) *RSVPResponseController {
	return &RSVPResponseController{Logger: logger, Service: svc}
}

// ListResponses godoc
// @Summary List RSVP responses
// @Description Filters by search text (answers and QR code, case-insensitive) and attendance status.
// @Description Events without stored responses get the demo guests when seeding is enabled.
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param search query string false "Search text"
// @Param status query string false "all, attending, maybe or not-attending"
// @Param page query int false "Page number (default 1)"
// @Param page_size query string false "Page size (default 20, max 100) or all"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/{eventID}/rsvp/responses [get]
func (c *RSVPResponseController) ListResponses(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	params := h.ParsePagination(r)
	filter := domain.ResponseFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
	list, total, err := c.Service.ListResponses(r.Context(), eventID, filter, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.RSVPResponse{}
	}
	meta := h.NewPaginationMeta(params.Page, params.PageSize, total)
	if params.PageSize == 0 {
		meta = h.NewPaginationMeta(1, max(total, 1), total)
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListRSVPResponsesResponse{Items: list, Pagination: meta})
}

// GetResponse godoc
// @Summary Get one RSVP response
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param responseID path string true "Response ID"
// @Success 200 {object} helpers.APIResponse "data contains the response"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/responses/{responseID} [get]
func (c *RSVPResponseController) GetResponse(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "responseID")
	if !ok {
		return
	}
	resp, err := c.Service.GetResponse(r.Context(), ids[0], ids[1])
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, resp)
}

// Stats godoc
// @Summary Attendance statistics
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the stats"
// @Router /events/{eventID}/rsvp/responses/stats [get]
func (c *RSVPResponseController) Stats(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	stats, err := c.Service.Stats(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// ExportCSV godoc
// @Summary Download responses as CSV
// @Tags rsvp
// @Produce text/csv
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {string} string "Name,Email,Phone,Attendance,Submitted At"
// @Router /events/{eventID}/rsvp/responses/export.csv [get]
func (c *RSVPResponseController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := c.Service.ExportCSV(r.Context(), eventID, &buf); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="rsvp-responses-%s.csv"`, eventID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// QRCode godoc
// @Summary Guest QR code image
// @Tags rsvp
// @Produce image/svg+xml
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param responseID path string true "Response ID"
// @Success 200 {string} string "SVG document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/responses/{responseID}/qr.svg [get]
func (c *RSVPResponseController) QRCode(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "responseID")
	if !ok {
		return
	}
	svg, err := c.Service.QRCodeSVG(r.Context(), ids[0], ids[1])
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

// GuestMail godoc
// @Summary Compose the QR code mail for a guest
// @Description Returns the subject, body and a mailto link for the operator's mail client. Nothing is sent.
// @Tags rsvp
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param responseID path string true "Response ID"
// @Success 200 {object} helpers.APIResponse "data contains to, subject, body and link"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/rsvp/responses/{responseID}/mailto [get]
func (c *RSVPResponseController) GuestMail(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "responseID")
	if !ok {
		return
	}
	mail, err := c.Service.GuestMail(r.Context(), ids[0], ids[1])
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mail)
}
