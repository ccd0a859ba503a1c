package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"assettrack/internal/auth"
	"assettrack/internal/models"
	"assettrack/internal/repo"
)

// Admin-only profile management: listing accounts and adjusting role or
// company after approval. The token-based approval flow always grants
// manager; role changes beyond that happen here.

func ListProfiles(profiles *repo.ProfileStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.ScopeFrom(r.Context()).Admin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		ps, err := profiles.List(r.Context())
		if err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, ps)
	}
}

func UpdateProfile(profiles *repo.ProfileStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.ScopeFrom(r.Context()).Admin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		id := chi.URLParam(r, "id")
		var req struct {
			Role      *string `json:"role"`
			CompanyID *string `json:"company_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Role != nil {
			if err := profiles.SetRole(r.Context(), id, models.Role(*req.Role)); err != nil {
				switch {
				case errors.Is(err, repo.ErrBadRecord):
					http.Error(w, "unknown role", http.StatusBadRequest)
				case errors.Is(err, repo.ErrNotFound):
					http.Error(w, "not found", http.StatusNotFound)
				default:
					http.Error(w, "store unavailable", http.StatusInternalServerError)
				}
				return
			}
		}
		if req.CompanyID != nil {
			if err := profiles.AssignCompany(r.Context(), id, *req.CompanyID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					http.Error(w, "not found", http.StatusNotFound)
					return
				}
				http.Error(w, "store unavailable", http.StatusInternalServerError)
				return
			}
		}
		respondJSON(w, map[string]any{"updated": true})
	}
}
