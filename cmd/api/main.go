package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"assettrack/internal/config"
	"assettrack/internal/httpserver"
	"assettrack/internal/logger"
	"assettrack/internal/mailer"
	"assettrack/internal/models"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()

	cfg, err := config.Load()
	if err != nil {
		lg.Fatalw("config load failed", "error", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(
		&models.Profile{}, &models.Credential{}, &models.Company{},
		&models.Asset{}, &models.Session{}, &models.AuditLog{},
	); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}

	var mail mailer.Mailer = mailer.Disabled{}
	if cfg.ResendAPIKey != "" {
		mail = mailer.NewResend(cfg.ResendAPIKey, cfg.FromEmail)
	} else {
		lg.Warnw("RESEND_API_KEY is empty, approval emails disabled")
	}

	router := httpserver.NewRouter(db, cfg, mail, lg)
	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatal(err)
	}
}
