package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"assettrack/internal/approval"
	"assettrack/internal/auth"
	"assettrack/internal/models"
	"assettrack/internal/repo"
)

// profileDirectory is the slice of the profile store the account
// handlers need.
type profileDirectory interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a credential and kicks off the approval workflow. The
// new account stays in the pending state until an admin follows the
// emailed approval link. A mail delivery failure does not fail the
// signup itself; the token is already persisted and a fresh one is
// issued on the next attempt.
func Signup(db *gorm.DB, profiles profileDirectory, svc *approval.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password required", http.StatusBadRequest)
			return
		}
		if _, err := profiles.GetByEmail(r.Context(), req.Email); err == nil {
			http.Error(w, "email already registered", http.StatusBadRequest)
			return
		} else if !errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		id := uuid.NewString()
		cred := models.Credential{ProfileID: id, PasswordHash: hash, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		if err := db.Create(&cred).Error; err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}

		res, err := svc.RequestApproval(r.Context(), id, req.Email)
		if err != nil {
			if errors.Is(err, approval.ErrNotify) {
				lg.Warnw("signup succeeded but approval mail failed", "user_id", id, "error", err)
				respondJSON(w, map[string]any{"id": id, "email": req.Email, "status": "awaiting approval", "note": "approval email could not be sent"})
				return
			}
			// the profile write failed, so drop the credential again;
			// a retry starts from a clean slate
			if delErr := db.Delete(&models.Credential{}, "profile_id = ?", id).Error; delErr != nil {
				lg.Errorw("credential rollback failed", "user_id", id, "error", delErr)
			}
			if errors.Is(err, repo.ErrConflict) {
				http.Error(w, "email already registered", http.StatusBadRequest)
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		lg.Infow("signup", "user_id", id, "email", req.Email, "email_sent", res.EmailSent)
		respondJSON(w, map[string]any{"id": id, "email": req.Email, "status": "awaiting approval"})
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(db *gorm.DB, profiles profileDirectory, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := profiles.GetByEmail(r.Context(), req.Email)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		var cred models.Credential
		if err := db.First(&cred, "profile_id = ?", p.ID).Error; err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := auth.CheckPassword(cred.PasswordHash, req.Password); err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		token, jti, expiresAt, err := auth.Sign(p.ID)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		sess := models.Session{JTI: jti, ProfileID: p.ID, ExpiresAt: expiresAt, CreatedAt: time.Now()}
		if err := db.Create(&sess).Error; err != nil {
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"token": token})
	}
}

func Logout(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		now := time.Now()
		_ = db.Model(&models.Session{}).Where("jti = ?", claims.JWTID).Update("revoked_at", &now).Error
		respondJSON(w, map[string]any{"ok": true})
	}
}

// Me returns the caller's identity and profile. Runs behind JWTAuth only,
// so pending users can see their own approval state.
func Me(profiles profileDirectory, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.Subject(r.Context())
		p, err := profiles.Get(r.Context(), sub)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				respondJSON(w, map[string]any{"id": sub, "approved": false, "role": models.RolePending})
				return
			}
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		respondJSON(w, p)
	}
}
