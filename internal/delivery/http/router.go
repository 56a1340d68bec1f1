package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmaster/internal/adapters/blob"
	"eventmaster/internal/delivery/http/controllers"
	"eventmaster/internal/delivery/http/middleware"
	"eventmaster/internal/domain"
)

// Controllers groups every handler set served by the router.
type Controllers struct {
	Auth          *controllers.AuthController
	Preferences   *controllers.PreferencesController
	Events        *controllers.EventController
	Tasks         *controllers.TaskController
	Notes         *controllers.NoteController
	Resources     *controllers.ResourceController
	Files         *controllers.FileController
	RSVPForms     *controllers.RSVPFormController
	RSVPResponses *controllers.RSVPResponseController
	PublicRSVP    *controllers.PublicRSVPController
	Health        *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// blobRoot, when set, is served read-only under blob.URLPrefix.
func NewRouter(c Controllers, verifier domain.TokenVerifier, blobRoot string, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Public
	mux.HandleFunc("GET /healthz", c.Health.Healthz)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /rsvp/{eventID}", c.PublicRSVP.GetForm)
	mux.HandleFunc("POST /rsvp/{eventID}", c.PublicRSVP.Submit)

	// Session & preferences
	mux.HandleFunc("POST /auth/logout", auth(c.Auth.Logout))
	mux.HandleFunc("GET /auth/session", auth(c.Auth.Session))
	mux.HandleFunc("GET /preferences/theme", auth(c.Preferences.GetTheme))
	mux.HandleFunc("PUT /preferences/theme", auth(c.Preferences.SetTheme))
	mux.HandleFunc("POST /preferences/theme/toggle", auth(c.Preferences.ToggleTheme))

	// Events
	mux.HandleFunc("GET /events", auth(c.Events.ListEvents))
	mux.HandleFunc("POST /events", auth(c.Events.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Events.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Events.DeleteEvent))

	// Tasks
	mux.HandleFunc("GET /events/{eventID}/tasks", auth(c.Tasks.ListTasks))
	mux.HandleFunc("POST /events/{eventID}/tasks", auth(c.Tasks.CreateTask))
	mux.HandleFunc("PATCH /events/{eventID}/tasks/{taskID}", auth(c.Tasks.UpdateTask))
	mux.HandleFunc("DELETE /events/{eventID}/tasks/{taskID}", auth(c.Tasks.DeleteTask))
	mux.HandleFunc("POST /events/{eventID}/tasks/{taskID}/toggle", auth(c.Tasks.ToggleTask))

	// Notes
	mux.HandleFunc("GET /events/{eventID}/notes", auth(c.Notes.GetNotes))
	mux.HandleFunc("PUT /events/{eventID}/notes", auth(c.Notes.SaveNote))
	mux.HandleFunc("PUT /events/{eventID}/notes/draft", auth(c.Notes.TouchDraft))
	mux.HandleFunc("DELETE /events/{eventID}/notes/draft", auth(c.Notes.DiscardDraft))
	mux.HandleFunc("POST /events/{eventID}/notes/draft/flush", auth(c.Notes.FlushDraft))

	// Resources
	mux.HandleFunc("GET /events/{eventID}/resources", auth(c.Resources.ListResources))
	mux.HandleFunc("POST /events/{eventID}/resources", auth(c.Resources.CreateResource))
	mux.HandleFunc("PATCH /events/{eventID}/resources/{resourceID}", auth(c.Resources.UpdateResource))
	mux.HandleFunc("DELETE /events/{eventID}/resources/{resourceID}", auth(c.Resources.DeleteResource))
	mux.HandleFunc("POST /events/{eventID}/resources/{resourceID}/adjust", auth(c.Resources.AdjustQuantity))

	// Files
	mux.HandleFunc("GET /events/{eventID}/files", auth(c.Files.ListFiles))
	mux.HandleFunc("POST /events/{eventID}/files", auth(c.Files.UploadFile))
	mux.HandleFunc("DELETE /events/{eventID}/files/{fileID}", auth(c.Files.DeleteFile))
	mux.HandleFunc("GET /uploads/{jobID}", auth(c.Files.GetUpload))
	mux.HandleFunc("DELETE /uploads/{jobID}", auth(c.Files.CancelUpload))
	mux.HandleFunc("GET /uploads/{jobID}/ws", auth(c.Files.WatchUpload))

	// RSVP
	mux.HandleFunc("GET /events/{eventID}/rsvp/form", auth(c.RSVPForms.GetForm))
	mux.HandleFunc("POST /events/{eventID}/rsvp/form", auth(c.RSVPForms.CreateForm))
	mux.HandleFunc("PUT /events/{eventID}/rsvp/form", auth(c.RSVPForms.UpdateForm))
	mux.HandleFunc("POST /events/{eventID}/rsvp/form/fields", auth(c.RSVPForms.AddField))
	mux.HandleFunc("PATCH /events/{eventID}/rsvp/form/fields/{fieldID}", auth(c.RSVPForms.UpdateField))
	mux.HandleFunc("DELETE /events/{eventID}/rsvp/form/fields/{fieldID}", auth(c.RSVPForms.RemoveField))
	mux.HandleFunc("GET /events/{eventID}/rsvp/responses", auth(c.RSVPResponses.ListResponses))
	mux.HandleFunc("GET /events/{eventID}/rsvp/responses/stats", auth(c.RSVPResponses.Stats))
	mux.HandleFunc("GET /events/{eventID}/rsvp/responses/export.csv", auth(c.RSVPResponses.ExportCSV))
	mux.HandleFunc("GET /events/{eventID}/rsvp/responses/{responseID}", auth(c.RSVPResponses.GetResponse))
	mux.HandleFunc("GET /events/{eventID}/rsvp/responses/{responseID}/qr.svg", auth(c.RSVPResponses.QRCode))
	mux.HandleFunc("GET /events/{eventID}/rsvp/responses/{responseID}/mailto", auth(c.RSVPResponses.GuestMail))

	// Uploaded content
	if blobRoot != "" {
		mux.Handle("GET "+blob.URLPrefix, http.StripPrefix(blob.URLPrefix, http.FileServer(http.Dir(blobRoot))))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
