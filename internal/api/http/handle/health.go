package handle

import (
	"context"
	"net/http"
	"time"

	"crispy/internal/xpkg/logger"
)

// Health reports whether the database answers a ping.
func Health(db Pinger, mylog logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.IsAlive(ctx); err != nil {
			mylog.Action("health_check").Warn("Database unreachable", "error", err.Error())
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
