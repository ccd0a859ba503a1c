package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"assettrack/internal/approval"
	"assettrack/internal/auth"
	"assettrack/internal/config"
	"assettrack/internal/models"
	"assettrack/internal/repo"
)

type notifyReq struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// NotifyNewUser issues a fresh approval token for the given user and
// emails the admin an approval link. Re-invoking for the same user
// replaces the outstanding token instead of stacking a second one.
func NotifyNewUser(svc *approval.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req notifyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.UserID == "" || req.Email == "" {
			respondError(w, http.StatusBadRequest, "Missing user_id/email")
			return
		}
		res, err := svc.RequestApproval(r.Context(), req.UserID, req.Email)
		if err != nil {
			if errors.Is(err, repo.ErrConflict) {
				respondError(w, http.StatusBadRequest, "Email already in use by another account")
				return
			}
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if res.AlreadyApproved {
			respondJSON(w, map[string]any{"ok": true, "note": "User already approved; no email sent"})
			return
		}
		respondJSON(w, map[string]any{"ok": true})
	}
}

// ApproveUser consumes an approval token (or a direct user id, the
// admin override) and flips the profile to approved. The link is opened
// in a browser, so responses are plain text. An unknown and an already
// consumed token get the same answer.
func ApproveUser(svc *approval.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		token := r.URL.Query().Get("token")
		userID := r.URL.Query().Get("user_id")

		var (
			p   *models.Profile
			err error
		)
		switch {
		case token != "":
			p, err = svc.ApproveToken(r.Context(), token)
		case userID != "":
			p, err = svc.ApproveUser(r.Context(), userID)
		default:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Missing token")
			return
		}
		if err != nil {
			if errors.Is(err, repo.ErrInvalidToken) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintln(w, "Invalid or used token")
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintln(w, "Server error, please retry")
			return
		}
		fmt.Fprintf(w, "Approved %s as %s. You can close this tab.\n", p.Email, p.Role)
	}
}

// BootstrapAdmin is the one-time setup endpoint that creates an
// approved admin account. Guarded by ADMIN_SETUP_TOKEN.
func BootstrapAdmin(db *gorm.DB, profiles *repo.ProfileStore, cfg *config.Config, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if cfg.AdminSetupToken == "" || q.Get("token") != cfg.AdminSetupToken {
			respondError(w, http.StatusUnauthorized, "Invalid or missing token")
			return
		}
		email := strings.TrimSpace(strings.ToLower(q.Get("email")))
		password := q.Get("password")
		if email == "" || password == "" {
			respondError(w, http.StatusBadRequest, "Missing email or password")
			return
		}

		// Reuse the existing identity when the email is already known.
		id := uuid.NewString()
		existed := false
		if p, err := profiles.GetByEmail(r.Context(), email); err == nil {
			id = p.ID
			existed = true
		} else if !errors.Is(err, repo.ErrNotFound) {
			respondError(w, http.StatusInternalServerError, "store unavailable")
			return
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "hash error")
			return
		}
		cred := models.Credential{ProfileID: id, PasswordHash: hash, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
		}).Create(&cred).Error
		if err != nil {
			respondError(w, http.StatusInternalServerError, "store unavailable")
			return
		}
		if err := profiles.UpsertApprovedAdmin(r.Context(), id, email); err != nil {
			respondError(w, http.StatusInternalServerError, "store unavailable")
			return
		}
		lg.Infow("admin bootstrapped", "user_id", id, "email", email, "existed", existed)
		if existed {
			respondJSON(w, map[string]any{"ok": true, "user_id": id, "note": "User existed; profile upserted as admin"})
			return
		}
		respondJSON(w, map[string]any{"ok": true, "user_id": id})
	}
}
