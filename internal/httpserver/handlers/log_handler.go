package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"assettrack/internal/auth"
	"assettrack/internal/repo"
)

// MyLogs returns recent audit entries. Regular users see their own;
// admins can pass ?all=1 to see everyone's.
func MyLogs(audit *repo.AuditStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		all := r.URL.Query().Get("all") == "1" && scope.Admin()
		logs, err := audit.Recent(r.Context(), scope.ProfileID, all, 200)
		if err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, logs)
	}
}
