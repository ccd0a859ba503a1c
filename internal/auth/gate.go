package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"assettrack/internal/models"
	"assettrack/internal/repo"
)

// ProfileSource is the profile lookup the gate needs.
type ProfileSource interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
}

// Gate is the per-request authorization check run before any protected
// handler. It evaluates, in order:
//  1. no authenticated identity -> 401, redirect /signin
//  2. identity without a profile row -> treated as unapproved
//  3. unapproved profile -> 403, redirect /awaiting-approval
//  4. approved manager without a company -> 409, redirect /company/setup
//  5. otherwise the request proceeds with a repo.Scope in context
//
// Unapproved requests never reach a company or asset store.
func Gate(profiles ProfileSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := FromContext(r.Context())
			if claims.Subject == "" {
				redirectJSON(w, http.StatusUnauthorized, "/signin", "not signed in")
				return
			}
			p, err := profiles.Get(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrBadRecord) {
					redirectJSON(w, http.StatusForbidden, "/awaiting-approval", "account awaiting approval")
					return
				}
				http.Error(w, "profile lookup failed", http.StatusInternalServerError)
				return
			}
			if !p.Approved {
				redirectJSON(w, http.StatusForbidden, "/awaiting-approval", "account awaiting approval")
				return
			}
			if p.Role == models.RoleManager && p.CompanyID == nil {
				redirectJSON(w, http.StatusConflict, "/company/setup", "company setup required")
				return
			}
			scope := repo.Scope{ProfileID: p.ID, Role: p.Role, CompanyID: p.CompanyID}
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// GateSetup protects the company-setup endpoint itself: the caller must
// be approved and not yet bound to a company. Admins and already-bound
// profiles are sent back to the company view.
func GateSetup(profiles ProfileSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := FromContext(r.Context())
			if claims.Subject == "" {
				redirectJSON(w, http.StatusUnauthorized, "/signin", "not signed in")
				return
			}
			p, err := profiles.Get(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrBadRecord) {
					redirectJSON(w, http.StatusForbidden, "/awaiting-approval", "account awaiting approval")
					return
				}
				http.Error(w, "profile lookup failed", http.StatusInternalServerError)
				return
			}
			if !p.Approved {
				redirectJSON(w, http.StatusForbidden, "/awaiting-approval", "account awaiting approval")
				return
			}
			if p.Role == models.RoleAdmin || p.CompanyID != nil {
				redirectJSON(w, http.StatusConflict, "/company", "company already configured")
				return
			}
			scope := repo.Scope{ProfileID: p.ID, Role: p.Role}
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

func redirectJSON(w http.ResponseWriter, status int, redirect, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "redirect": redirect})
}
