package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/models"
	"assettrack/internal/repo"
)

type fakeProfileSource struct {
	profile *models.Profile
	err     error
	calls   int
}

func (f *fakeProfileSource) Get(context.Context, string) (*models.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func gateRequest(t *testing.T, src *fakeProfileSource, claims Claims) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	h := Gate(src)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	if claims.Subject != "" {
		req = req.WithContext(WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, reached
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["redirect"]
}

func TestGate(t *testing.T) {
	companyID := "c1"

	t.Run("Should redirect unauthenticated requests to sign-in without touching the store", func(t *testing.T) {
		src := &fakeProfileSource{}
		rec, reached := gateRequest(t, src, Claims{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/signin", redirectOf(t, rec))
		assert.False(t, reached)
		assert.Zero(t, src.calls)
	})

	t.Run("Should fail closed when the identity has no profile row", func(t *testing.T) {
		src := &fakeProfileSource{err: repo.ErrNotFound}
		rec, reached := gateRequest(t, src, Claims{Subject: "u1"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "/awaiting-approval", redirectOf(t, rec))
		assert.False(t, reached)
	})

	t.Run("Should hold unapproved profiles at awaiting-approval", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RolePending}}
		rec, reached := gateRequest(t, src, Claims{Subject: "u1"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "/awaiting-approval", redirectOf(t, rec))
		assert.False(t, reached)
	})

	t.Run("Should send an approved manager without a company to setup", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RoleManager, Approved: true}}
		rec, reached := gateRequest(t, src, Claims{Subject: "u1"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "/company/setup", redirectOf(t, rec))
		assert.False(t, reached)
	})

	t.Run("Should pass an approved manager with a company and inject the scope", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RoleManager, Approved: true, CompanyID: &companyID}}
		var got repo.Scope
		h := Gate(src)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = ScopeFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
		req = req.WithContext(WithClaims(req.Context(), Claims{Subject: "u1"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", got.ProfileID)
		assert.Equal(t, models.RoleManager, got.Role)
		require.NotNil(t, got.CompanyID)
		assert.Equal(t, companyID, *got.CompanyID)
		assert.False(t, got.Admin())
	})

	t.Run("Should pass an approved admin without a company", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RoleAdmin, Approved: true}}
		rec, reached := gateRequest(t, src, Claims{Subject: "u1"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})

	t.Run("Should return 500 on a store failure, not an approval state", func(t *testing.T) {
		src := &fakeProfileSource{err: errors.New("connection refused")}
		rec, reached := gateRequest(t, src, Claims{Subject: "u1"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, reached)
	})

	t.Run("Should reject a profile with an unknown role", func(t *testing.T) {
		src := &fakeProfileSource{err: repo.ErrBadRecord}
		rec, reached := gateRequest(t, src, Claims{Subject: "u1"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, reached)
	})
}

func TestGateSetup(t *testing.T) {
	companyID := "c1"

	setupRequest := func(t *testing.T, src *fakeProfileSource) (*httptest.ResponseRecorder, bool) {
		t.Helper()
		reached := false
		h := GateSetup(src)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodPost, "/api/company/setup", nil)
		req = req.WithContext(WithClaims(req.Context(), Claims{Subject: "u1"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec, reached
	}

	t.Run("Should let an approved manager without a company through", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RoleManager, Approved: true}}
		rec, reached := setupRequest(t, src)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})

	t.Run("Should send admins back to the company view", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RoleAdmin, Approved: true}}
		rec, reached := setupRequest(t, src)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "/company", redirectOf(t, rec))
		assert.False(t, reached)
	})

	t.Run("Should send already-bound profiles back to the company view", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RoleManager, Approved: true, CompanyID: &companyID}}
		rec, reached := setupRequest(t, src)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, reached)
	})

	t.Run("Should hold unapproved profiles", func(t *testing.T) {
		src := &fakeProfileSource{profile: &models.Profile{ID: "u1", Role: models.RolePending}}
		rec, reached := setupRequest(t, src)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, reached)
	})
}
