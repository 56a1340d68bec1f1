package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

const (
	// DefaultMaxUploadBytes bounds a multipart upload.
	DefaultMaxUploadBytes = 32 << 20
	wsWriteWait           = 10 * time.Second
)

// FileListResponse is the data of GET /events/{eventID}/files.
type FileListResponse struct {
	Files   []*domain.FileRecord `json:"files"`
	Summary *domain.FileSummary  `json:"summary"`
}

type FileController struct {
	Logger   *slog.Logger
	Service  domain.FileService
	MaxBytes int64
	upgrader websocket.Upgrader
}

// NewFileController creates the file endpoints. Websocket handshakes are accepted
// from allowedOrigins and from clients that send no Origin header.
func NewFileController(logger *slog.Logger, svc domain.FileService, allowedOrigins []string) *FileController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSuffix(strings.TrimSpace(o), "/")] = struct{}{}
	}
	return &FileController{
		Logger:   logger,
		Service:  svc,
		MaxBytes: DefaultMaxUploadBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// UploadFile godoc
// @Summary Upload a file
// @Description Starts an upload job for the multipart field "file". The file record appears once the job completes.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "File content"
// @Success 202 {object} helpers.APIResponse "data contains the upload job"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/files [post]
func (c *FileController) UploadFile(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "file is required: "+err.Error())
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}

	job, err := c.Service.StartUpload(r.Context(), eventID, domain.FileUpload{
		Name:    header.Filename,
		Type:    contentType,
		Content: content,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Location", "/uploads/"+job.ID)
	h.WriteJSONSuccess(w, http.StatusAccepted, job)
}

// ListFiles godoc
// @Summary List uploaded files with totals
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains files and summary"
// @Router /events/{eventID}/files [get]
func (c *FileController) ListFiles(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathParam(w, r, "eventID")
	if !ok {
		return
	}
	files, err := c.Service.ListFiles(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	summary, err := c.Service.Summary(r.Context(), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, FileListResponse{Files: files, Summary: summary})
}

// DeleteFile godoc
// @Summary Remove a file record
// @Tags files
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param fileID path string true "File ID"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/files/{fileID} [delete]
func (c *FileController) DeleteFile(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathParams(w, r, "eventID", "fileID")
	if !ok {
		return
	}
	if err := c.Service.DeleteFile(r.Context(), ids[0], ids[1]); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUpload godoc
// @Summary Upload job status
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Upload job ID"
// @Success 200 {object} helpers.APIResponse "data contains the upload job"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /uploads/{jobID} [get]
func (c *FileController) GetUpload(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathParam(w, r, "jobID")
	if !ok {
		return
	}
	job, err := c.Service.GetUpload(jobID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, job)
}

// CancelUpload godoc
// @Summary Cancel a running upload
// @Description A canceled job never creates a file record. Finished jobs are returned unchanged.
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param jobID path string true "Upload job ID"
// @Success 200 {object} helpers.APIResponse "data contains the upload job"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /uploads/{jobID} [delete]
func (c *FileController) CancelUpload(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathParam(w, r, "jobID")
	if !ok {
		return
	}
	job, err := c.Service.CancelUpload(jobID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, job)
}

// WatchUpload godoc
// @Summary Stream upload progress
// @Description Upgrades to a websocket and sends an UploadJob JSON message on every change until the job finishes.
// @Description Browsers may pass the bearer token as the access_token query parameter.
// @Tags files
// @Security BearerAuth
// @Param jobID path string true "Upload job ID"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /uploads/{jobID}/ws [get]
func (c *FileController) WatchUpload(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathParam(w, r, "jobID")
	if !ok {
		return
	}
	// A hijacked request's context is not canceled when the peer goes away,
	// so the watch lives on its own context tied to the read loop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := c.Service.WatchUpload(ctx, jobID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		c.Logger.WarnContext(r.Context(), "websocket upgrade failed", "job_id", jobID, "err", err)
		return
	}
	defer conn.Close()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for snap := range updates {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(snap); err != nil {
			c.Logger.DebugContext(r.Context(), "websocket write failed", "job_id", jobID, "err", err)
			return
		}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "upload finished"))
}
