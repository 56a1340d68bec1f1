// Package app wires configuration, storage, services and HTTP delivery together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eventmaster/config"
	"eventmaster/internal/adapters/auth"
	"eventmaster/internal/adapters/blob"
	"eventmaster/internal/adapters/email"
	httpdelivery "eventmaster/internal/delivery/http"
	"eventmaster/internal/delivery/http/controllers"
	"eventmaster/internal/delivery/http/middleware"
	"eventmaster/internal/domain"
	"eventmaster/internal/repository/appstate"
	"eventmaster/internal/services"
)

// App is the assembled application.
type App struct {
	Handler http.Handler

	logger    *slog.Logger
	autosaver *services.NoteAutosaver
	files     *services.FileService
	scheduler *services.Scheduler
}

// New builds every service on top of kv and returns the HTTP handler serving them.
// Background work (autosave timers, uploads, pruning) starts here and ends with Close.
func New(cfg *config.Config, kv domain.KVStore, logger *slog.Logger) (*App, error) {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	state := appstate.NewRepository(kv, logger)
	identity, err := services.NewIdentityService(state, auth.NewBcryptHasher(0), auth.NewJWT(cfg.JWTSecret),
		services.Credentials{Email: cfg.AdminEmail, Password: cfg.AdminPassword, DisplayName: cfg.AdminName},
		cfg.JWTExpiry, logger)
	if err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}
	prefs := services.NewPreferencesService(state)

	blobs, err := blob.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("blob store: %w", err)
	}

	events := services.NewEventService(kv, logger, timeout)
	tasks := services.NewTaskService(kv, events, logger, timeout)
	notes := services.NewNoteService(kv, events, cfg.NoteHistoryLimit, logger, timeout)
	autosaver := services.NewNoteAutosaver(notes, cfg.NoteIdleWindow, logger, timeout)
	resources := services.NewResourceService(kv, events, logger, timeout)
	files := services.NewFileService(kv, events, blobs, services.UploadSettings{Step: cfg.UploadStep, Tick: cfg.UploadTick}, logger, timeout)
	forms := services.NewRSVPFormService(kv, events, cfg.PublicBaseURL, logger, timeout)
	responses := services.NewRSVPResponseService(kv, events, forms, email.NewTemplateComposer(),
		services.RSVPResponseSettings{SubmitDelay: cfg.RSVPSubmitDelay, SeedDemo: cfg.SeedDemoRSVPs}, logger, timeout)
	events.RegisterDependents(tasks, notes, autosaver, resources, files, forms, responses)

	scheduler := services.NewScheduler(time.Local, logger)
	if cfg.UploadPruneEvery > 0 {
		if _, err := scheduler.ScheduleUploadPruning(files, cfg.UploadRetention, cfg.UploadPruneEvery); err != nil {
			autosaver.Close()
			files.Close()
			return nil, fmt.Errorf("schedule upload pruning: %w", err)
		}
	}
	scheduler.Start()

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:          controllers.NewAuthController(logger, identity),
		Preferences:   controllers.NewPreferencesController(logger, prefs),
		Events:        controllers.NewEventController(logger, events),
		Tasks:         controllers.NewTaskController(logger, tasks),
		Notes:         controllers.NewNoteController(logger, notes, autosaver),
		Resources:     controllers.NewResourceController(logger, resources),
		Files:         controllers.NewFileController(logger, files, cfg.AllowedOrigins),
		RSVPForms:     controllers.NewRSVPFormController(logger, forms),
		RSVPResponses: controllers.NewRSVPResponseController(logger, responses),
		PublicRSVP:    controllers.NewPublicRSVPController(logger, forms, responses),
		Health:        controllers.NewHealthController(logger, kv),
	}, identity, blobs.Root(), logger)

	return &App{
		Handler:   middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux)),
		logger:    logger,
		autosaver: autosaver,
		files:     files,
		scheduler: scheduler,
	}, nil
}

// draftFlushTimeout bounds the draft flush on Close.
const draftFlushTimeout = 5 * time.Second

// Close saves pending note drafts and stops background work. Drafts get their
// own deadline, so a ctx already spent on draining HTTP still saves them.
func (a *App) Close(ctx context.Context) {
	a.scheduler.Stop()
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), draftFlushTimeout)
	defer cancel()
	a.autosaver.FlushAll(flushCtx)
	a.autosaver.Close()
	a.files.Close()
	a.logger.Info("background work stopped")
}
