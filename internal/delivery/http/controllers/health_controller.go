package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

const healthProbeKey = domain.AppStatePrefix + "healthz"

// HealthController reports whether the store answers.
type HealthController struct {
	Logger *slog.Logger
	Store  domain.KVStore
}

func NewHealthController(logger *slog.Logger, store domain.KVStore) *HealthController {
	return &HealthController{Logger: logger, Store: store}
}

// Healthz godoc
// @Summary Liveness and store check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status is ok"
// @Failure 503 {object} helpers.APIResponse "error.code: internal_error"
// @Router /healthz [get]
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, _, err := c.Store.Get(ctx, healthProbeKey); err != nil {
		c.Logger.WarnContext(ctx, "store unhealthy", "err", err)
		h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeInternalError, "store unavailable")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
