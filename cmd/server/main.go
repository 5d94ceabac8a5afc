// @title           CaseDesk API
// @version         1.0
// @description     Multi-tenant legal case management: cases, clients, notes, documents, dashboard stats, and notifications, scoped per lawyer.
// @BasePath        /api
// @schemes         http
package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lexfirm/casedesk-backend/internal/auth"
	"github.com/lexfirm/casedesk-backend/internal/cases"
	"github.com/lexfirm/casedesk-backend/internal/clients"
	"github.com/lexfirm/casedesk-backend/internal/dashboard"
	"github.com/lexfirm/casedesk-backend/internal/notifications"
	"github.com/lexfirm/casedesk-backend/internal/users"
	"github.com/lexfirm/casedesk-backend/pkg/config"
	"github.com/lexfirm/casedesk-backend/pkg/database"
	"github.com/lexfirm/casedesk-backend/pkg/models"
)

func main() {
	log := zerolog.New(os.Stdout).With().
		Str("service", "casedesk").
		Timestamp().
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db := database.Init(cfg.DatabaseURL)
	if err := db.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Case{},
		&models.CaseDocument{}, &models.CaseNote{}, &models.TimelineEvent{},
		&models.Notification{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: auth.ErrorHandler,
	})

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := app.Group("/api")
	requireAuth := auth.RequireAuth(cfg.JWTSecret)

	// Auth
	authH := auth.NewHandler(db, cfg.JWTSecret, cfg.SecureCookie)
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/me", requireAuth, authH.Me)

	// Users
	userH := users.NewHandler(db)
	api.Put("/users/profile", requireAuth, userH.UpdateProfile)
	api.Put("/users/change-password", requireAuth, userH.ChangePassword)

	// Cases
	emitter := notifications.NewEmitter(db, log)
	caseH := cases.NewHandler(db, emitter)
	api.Get("/cases", requireAuth, caseH.List)
	api.Post("/cases", requireAuth, caseH.Create)
	api.Get("/cases/:id", requireAuth, caseH.Get)
	api.Put("/cases/:id", requireAuth, caseH.Update)
	api.Delete("/cases/:id", requireAuth, caseH.Delete)
	api.Post("/cases/:id/notes", requireAuth, caseH.AddNote)
	api.Post("/cases/:id/documents", requireAuth, caseH.AddDocument)

	// Clients
	clientH := clients.NewHandler(db)
	api.Get("/clients", requireAuth, clientH.List)
	api.Post("/clients", requireAuth, clientH.Create)
	api.Get("/clients/:id", requireAuth, clientH.Get)
	api.Put("/clients/:id", requireAuth, clientH.Update)
	api.Delete("/clients/:id", requireAuth, clientH.Delete)

	// Dashboard
	dashH := dashboard.NewHandler(db)
	api.Get("/dashboard/stats", requireAuth, dashH.Stats)

	// Notifications
	notifH := notifications.NewHandler(db)
	api.Get("/notifications", requireAuth, notifH.List)
	api.Patch("/notifications/mark-all-read", requireAuth, notifH.MarkAllRead)
	api.Patch("/notifications/:id/read", requireAuth, notifH.MarkRead)

	log.Info().Str("port", cfg.Port).Msg("server running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
