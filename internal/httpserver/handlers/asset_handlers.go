package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"assettrack/internal/auth"
	"assettrack/internal/models"
	"assettrack/internal/repo"
)

type assetReq struct {
	Name      string     `json:"name"`
	Serial    string     `json:"serial"`
	Cost      *float64   `json:"cost"`
	AddedOn   *time.Time `json:"added_on"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes"`
	CompanyID *string    `json:"company_id"`
}

func CreateAsset(assets *repo.AssetStore, audit *repo.AuditStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		var req assetReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Serial = strings.TrimSpace(req.Serial)
		if req.Name == "" || req.Serial == "" {
			http.Error(w, "name and serial required", http.StatusBadRequest)
			return
		}
		status := req.Status
		if status == "" {
			status = "Active"
		}
		a := models.Asset{
			Name:      req.Name,
			Serial:    req.Serial,
			Cost:      req.Cost,
			AddedOn:   req.AddedOn,
			Status:    status,
			Notes:     req.Notes,
			CompanyID: req.CompanyID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := assets.Create(r.Context(), scope, &a); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		if err := audit.Record(r.Context(), &scope.ProfileID, "asset.create", map[string]any{"asset_id": a.ID}); err != nil {
			lg.Warnw("audit write failed", "error", err)
		}
		respondJSON(w, a)
	}
}

func ListAssets(assets *repo.AssetStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		as, err := assets.List(r.Context(), scope, r.URL.Query().Get("company_id"))
		if err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, as)
	}
}

// GetAsset returns the asset together with its current depreciated
// value when the owning company carries a rate.
func GetAsset(assets *repo.AssetStore, companies *repo.CompanyStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		a, err := assets.Get(r.Context(), scope, chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		out := map[string]any{"asset": a}
		if a.CompanyID != nil {
			if c, err := companies.Get(r.Context(), scope, *a.CompanyID); err == nil {
				out["depreciation_rate"] = c.DepreciationRate
				if v, ok := a.CurrentValue(c.DepreciationRate, time.Now()); ok {
					out["current_value"] = v
				}
			}
		}
		respondJSON(w, out)
	}
}

func UpdateAsset(assets *repo.AssetStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		var patch repo.AssetPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a, err := assets.Update(r.Context(), scope, chi.URLParam(r, "id"), patch)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, a)
	}
}

func DeleteAsset(assets *repo.AssetStore, audit *repo.AuditStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		id := chi.URLParam(r, "id")
		if err := assets.Delete(r.Context(), scope, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		if err := audit.Record(r.Context(), &scope.ProfileID, "asset.delete", map[string]any{"asset_id": id}); err != nil {
			lg.Warnw("audit write failed", "error", err)
		}
		respondJSON(w, map[string]any{"deleted": true})
	}
}
