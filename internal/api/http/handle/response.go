package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	apperr "crispy/internal/xpkg/errors"
	"crispy/internal/xpkg/logger"
)

// jsonResponse writes data as JSON with the specified HTTP status code.
func jsonResponse(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": err.Error(),
		"code":  code,
	})
}

// statusFor maps the shared error taxonomy onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyClockedIn),
		errors.Is(err, apperr.ErrNotClockedIn),
		errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

var errInternal = errors.New("internal server error")

// writeError answers with the mapped code. Unexpected failures are logged
// and hidden behind a generic message.
func writeError(w http.ResponseWriter, mylog logger.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		mylog.Error("Request failed", err)
		jsonError(w, code, errInternal)
		return
	}
	jsonError(w, code, err)
}

// redirect sends a manager form back to the dashboard with a flash message.
func redirect(w http.ResponseWriter, r *http.Request, key, msg string) {
	target := ManagerHome
	if msg != "" {
		target += "?" + url.Values{key: {msg}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
