package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"assettrack/internal/approval"
	"assettrack/internal/auth"
	"assettrack/internal/config"
	"assettrack/internal/httpserver/handlers"
	"assettrack/internal/mailer"
	"assettrack/internal/repo"
)

func NewRouter(db *gorm.DB, cfg *config.Config, mail mailer.Mailer, lg *zap.SugaredLogger) http.Handler {
	profiles := repo.NewProfileStore(db)
	companies := repo.NewCompanyStore(db)
	assets := repo.NewAssetStore(db)
	audit := repo.NewAuditStore(db)
	svc := approval.NewService(profiles, mail, cfg.SiteURL, cfg.AdminEmail, lg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	// Public: signup, login and the approval workflow endpoints.
	r.Post("/api/auth/signup", handlers.Signup(db, profiles, svc, lg))
	r.Post("/api/auth/login", handlers.Login(db, profiles, lg))
	r.HandleFunc("/api/notify-new-user", handlers.NotifyNewUser(svc, lg))
	r.Get("/api/approve-user", handlers.ApproveUser(svc, lg))
	r.Get("/api/bootstrap-admin", handlers.BootstrapAdmin(db, profiles, cfg, lg))

	// Authenticated but not gated: pending users may check their state
	// and log out.
	r.Group(func(authed chi.Router) {
		authed.Use(auth.JWTAuth(db))
		authed.Get("/api/me", handlers.Me(profiles, lg))
		authed.Post("/api/auth/logout", handlers.Logout(db))

		// Company setup has its own gate: approved, not admin, no
		// company bound yet.
		authed.Group(func(setup chi.Router) {
			setup.Use(auth.GateSetup(profiles))
			setup.Post("/api/company/setup", handlers.SetupCompany(companies, profiles, audit, lg))
		})

		// Everything else sits behind the full session gate.
		authed.Group(func(protected chi.Router) {
			protected.Use(auth.Gate(profiles))
			protected.Get("/api/companies", handlers.ListCompanies(companies, lg))
			protected.Post("/api/companies", handlers.CreateCompany(companies, audit, lg))
			protected.Get("/api/companies/{id}", handlers.GetCompany(companies, lg))
			protected.Patch("/api/companies/{id}", handlers.UpdateCompany(companies, lg))

			protected.Get("/api/assets", handlers.ListAssets(assets, lg))
			protected.Post("/api/assets", handlers.CreateAsset(assets, audit, lg))
			protected.Get("/api/assets/{id}", handlers.GetAsset(assets, companies, lg))
			protected.Patch("/api/assets/{id}", handlers.UpdateAsset(assets, lg))
			protected.Delete("/api/assets/{id}", handlers.DeleteAsset(assets, audit, lg))

			protected.Get("/api/admin/profiles", handlers.ListProfiles(profiles, lg))
			protected.Patch("/api/admin/profiles/{id}", handlers.UpdateProfile(profiles, lg))

			protected.Get("/api/logs", handlers.MyLogs(audit, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
