package controllers

import (
	"log/slog"
	"net/http"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

// NoteContentRequest is the request body for PUT /events/{eventID}/notes and its draft.
type NoteContentRequest struct {
	Content string `json:"content"`
}

// NotesResponse is the data of GET /events/{eventID}/notes.
type NotesResponse struct {
	Current *domain.Note   `json:"current"`
	History []*domain.Note `json:"history"`
	// Draft is the unsaved editor content, when an autosave is pending.
	Draft *string `json:"draft,omitempty"`
}

// SaveNoteResponse reports the outcome of a save. Saved is false when nothing changed.
type SaveNoteResponse struct {
	Note  *domain.Note `json:"note"`
	Saved bool         `json:"saved"`
}

type NoteController struct {
	Logger *slog.Logger
	Notes  domain.NoteService
	Drafts domain.NoteDraftService
}

func NewNoteController(logger *slog.Logger, notes domain.NoteService, drafts domain.NoteDraftService) *NoteController {
	return &NoteController{Logger: logger, Notes: notes, Drafts: drafts}
}

// GetNotes godoc
// @Summary Current note, history and pending draft
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains current, history and draft"
// @Router /events/{eventID}/notes [get]
func (c *NoteController) GetNotes(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	current, history, err := c.Notes.GetNotes(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	resp := NotesResponse{Current: current, History: history}
	if draft, pending := c.Drafts.Pending(eventID); pending {
		resp.Draft = &draft
	}
	h.WriteJSONSuccess(w, http.StatusOK, resp)
}

// SaveNote godoc
// @Summary Save the note now
// @Description Blank content or content equal to the current note is ignored (saved=false).
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body NoteContentRequest true "Note content"
// @Success 200 {object} helpers.APIResponse "data contains note and saved"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/notes [put]
func (c *NoteController) SaveNote(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req NoteContentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	// An explicit save supersedes whatever the editor had pending.
	c.Drafts.Discard(eventID)
	note, saved, err := c.Notes.SaveNote(r.Context(), eventID, req.Content)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SaveNoteResponse{Note: note, Saved: saved})
}

// TouchDraft godoc
// @Summary Record editor content for autosave
// @Description Restarts the idle timer; the draft is saved once the editor stays idle.
// @Tags notes
// @Accept json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body NoteContentRequest true "Draft content"
// @Success 202 {object} helpers.APIResponse
// @Router /events/{eventID}/notes/draft [put]
func (c *NoteController) TouchDraft(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	var req NoteContentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	c.Drafts.Touch(eventID, req.Content)
	h.WriteJSONSuccess(w, http.StatusAccepted, map[string]bool{"pending": true})
}

// DiscardDraft godoc
// @Summary Drop the pending draft without saving
// @Tags notes
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data.discarded reports whether a draft was pending"
// @Router /events/{eventID}/notes/draft [delete]
func (c *NoteController) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"discarded": c.Drafts.Discard(eventID)})
}

// FlushDraft godoc
// @Summary Save the pending draft immediately
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains note and saved"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/notes/draft/flush [post]
func (c *NoteController) FlushDraft(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	note, saved, err := c.Drafts.Flush(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SaveNoteResponse{Note: note, Saved: saved})
}
