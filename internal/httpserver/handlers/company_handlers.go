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

type companyReq struct {
	Name             string   `json:"name"`
	DepreciationRate *float64 `json:"depreciation_rate"`
	Street           string   `json:"street"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	Zip              string   `json:"zip"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email"`
	Note             string   `json:"note"`
}

func (req companyReq) toModel() models.Company {
	return models.Company{
		Name:             strings.TrimSpace(req.Name),
		DepreciationRate: req.DepreciationRate,
		Street:           req.Street,
		City:             req.City,
		State:            req.State,
		Zip:              req.Zip,
		Phone:            req.Phone,
		Email:            req.Email,
		Note:             req.Note,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// SetupCompany is the one-time onboarding step: an approved manager
// without a company creates one and gets bound to it. Runs behind
// GateSetup, which already rejects admins and already-bound profiles.
func SetupCompany(companies *repo.CompanyStore, profiles *repo.ProfileStore, audit *repo.AuditStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		var req companyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c := req.toModel()
		if c.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if err := companies.Create(r.Context(), &c); err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		if err := profiles.AssignCompany(r.Context(), scope.ProfileID, c.ID); err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		if err := audit.Record(r.Context(), &scope.ProfileID, "company.setup", map[string]any{"company_id": c.ID}); err != nil {
			lg.Warnw("audit write failed", "error", err)
		}
		respondJSON(w, c)
	}
}

// CreateCompany is the admin path for adding companies outside the
// onboarding flow.
func CreateCompany(companies *repo.CompanyStore, audit *repo.AuditStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		if !scope.Admin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req companyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c := req.toModel()
		if c.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if err := companies.Create(r.Context(), &c); err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		if err := audit.Record(r.Context(), &scope.ProfileID, "company.create", map[string]any{"company_id": c.ID}); err != nil {
			lg.Warnw("audit write failed", "error", err)
		}
		respondJSON(w, c)
	}
}

func ListCompanies(companies *repo.CompanyStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		cs, err := companies.List(r.Context(), scope)
		if err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, cs)
	}
}

func GetCompany(companies *repo.CompanyStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		c, err := companies.Get(r.Context(), scope, chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, c)
	}
}

func UpdateCompany(companies *repo.CompanyStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		var patch repo.CompanyPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := companies.Update(r.Context(), scope, chi.URLParam(r, "id"), patch)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, c)
	}
}
