package controllers

import (
	"log/slog"
	"net/http"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

// SetThemeRequest is the request body for PUT /preferences/theme
type SetThemeRequest struct {
	Theme domain.Theme `json:"theme"`
}

// Validate implements Validator.
func (s SetThemeRequest) Validate() []string {
	if s.Theme != domain.ThemeLight && s.Theme != domain.ThemeDark {
		return []string{`theme must be "light" or "dark"`}
	}
	return nil
}

type PreferencesController struct {
	Logger  *slog.Logger
	Service domain.PreferencesService
}

func NewPreferencesController(logger *slog.Logger, svc domain.PreferencesService) *PreferencesController {
	return &PreferencesController{Logger: logger, Service: svc}
}

// GetTheme godoc
// @Summary Get display preferences
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the preferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /preferences/theme [get]
func (c *PreferencesController) GetTheme(w http.ResponseWriter, r *http.Request) {
	prefs, err := c.Service.Get(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, prefs)
}

// SetTheme godoc
// @Summary Set the theme
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetThemeRequest true "light or dark"
// @Success 200 {object} helpers.APIResponse "data contains the preferences"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /preferences/theme [put]
func (c *PreferencesController) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req SetThemeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	prefs, err := c.Service.SetTheme(r.Context(), req.Theme)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, prefs)
}

// ToggleTheme godoc
// @Summary Switch between light and dark
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the preferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /preferences/theme/toggle [post]
func (c *PreferencesController) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	prefs, err := c.Service.ToggleTheme(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, prefs)
}
