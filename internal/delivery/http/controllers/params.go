package controllers

import (
	"net/http"
	"strings"

	"eventmaster/internal/delivery/http/helpers"
)

// pathParam reads a required path value. On a blank value it writes 400 and returns false.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	return v, true
}

// pathParams reads several required path values in order.
func pathParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	out := make([]string, len(names))
	for i, name := range names {
		v, ok := pathParam(w, r, name)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
