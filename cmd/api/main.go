package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"texcat/internal/auth"
	"texcat/internal/config"
	"texcat/internal/httpserver"
	"texcat/internal/logger"
	"texcat/internal/mailer"
	"texcat/internal/models"
	"texcat/internal/services"
	"texcat/internal/storage"
	"texcat/internal/stores"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.DocumentMaster{}, &models.User{},
		&models.Collection{}, &models.Hanger{}, &models.Sample{},
	); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seedRoles(db, lg)
	seedDefaultAdmin(db, lg)

	files := storage.NewLocalStore(cfg.UploadDir)
	userStore := &stores.GormUserStore{DB: db}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ResetTokenTTL, userStore)
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	router := httpserver.NewRouter(httpserver.Deps{
		Tokens:      tokens,
		Users:       services.NewUserService(db, lg, files, tokens, mail, userStore, cfg.PublicBaseURL),
		Collections: services.NewCollectionService(db, lg, files),
		Hangers:     services.NewHangerService(db, lg, files),
		Samples:     services.NewSampleService(db, lg, files),
		Log:         lg,
	})

	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

func seedRoles(db *gorm.DB, lg *zap.SugaredLogger) {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator role with full access"},
		{Name: models.RoleStaff, Description: "Staff user role with limited access"},
	}
	for _, role := range roles {
		db.Exec("INSERT INTO roles(name, description) VALUES (?, ?) ON CONFLICT DO NOTHING",
			role.Name, role.Description)
	}
	lg.Infow("seeded roles")
}

func seedDefaultAdmin(db *gorm.DB, lg *zap.SugaredLogger) {
	email := "admin@texcat.local"
	var count int64
	db.Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count)
	if count > 0 {
		return
	}
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		lg.Errorw("seed admin failed", "error", err)
		return
	}
	u := models.User{
		FirstName:    "Admin",
		Email:        email,
		PasswordHash: hash,
		MobileNo:     "1234567890",
		Gender:       "M",
	}
	if err := db.Create(&u).Error; err != nil {
		lg.Errorw("seed admin failed", "error", err)
		return
	}
	var adminRole models.Role
	if err := db.First(&adminRole, "name = ?", models.RoleAdmin).Error; err == nil {
		_ = db.Model(&u).Association("Roles").Append(&adminRole)
	}
	lg.Infow("seeded default admin", "email", email)
}
