package auth

import (
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"assettrack/internal/models"
)

// JWTAuth verifies the bearer token and the server-side session row
// behind its jti. Requests without a live session get 401 with a
// sign-in redirect hint.
func JWTAuth(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				redirectJSON(w, http.StatusUnauthorized, "/signin", "missing bearer token")
				return
			}
			raw := strings.TrimPrefix(h, "Bearer ")
			claims, err := Verify(raw)
			if err != nil {
				redirectJSON(w, http.StatusUnauthorized, "/signin", "invalid token")
				return
			}
			var sess models.Session
			if claims.JWTID == "" || db.First(&sess, "jti = ?", claims.JWTID).Error != nil {
				redirectJSON(w, http.StatusUnauthorized, "/signin", "session not found")
				return
			}
			if sess.RevokedAt != nil || time.Now().After(sess.ExpiresAt) {
				redirectJSON(w, http.StatusUnauthorized, "/signin", "session expired/revoked")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
