package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crispy/internal/xpkg/auth"
	"crispy/internal/xpkg/logger"
	"crispy/internal/xpkg/metrics"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderStaffID   = "X-Staff-ID"
	HeaderStaffName = "X-Staff-Name"
	HeaderStaffRole = "X-Staff-Role"
)

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

// observe logs every request and records its latency by route pattern.
func observe(next http.Handler, m *metrics.Metrics, mylog logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPDuration.WithLabelValues(route, strconv.Itoa(rec.code)).Observe(elapsed.Seconds())

		mylog.Action("http_request").Info("Request served",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.code,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// staffOnly trusts the identity headers set by the upstream authentication
// layer and rejects callers without a staff role.
func staffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(strings.TrimSpace(r.Header.Get(HeaderStaffID)), 10, 64)
		identity := auth.Identity{
			ID:   id,
			Name: strings.TrimSpace(r.Header.Get(HeaderStaffName)),
			Role: auth.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderStaffRole)))),
		}
		if err := auth.RequireStaff(identity); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error(), "code": http.StatusForbidden})
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}
