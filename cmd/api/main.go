package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"trueflow/internal/config"
	"trueflow/internal/database"
	"trueflow/internal/ghl"
	"trueflow/internal/mailer"
	"trueflow/internal/middleware"
	"trueflow/internal/modules/admin"
	"trueflow/internal/modules/feed"
	"trueflow/internal/modules/intake"
	jwtsvc "trueflow/internal/pkg/jwt"
	"trueflow/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	submissionRepo := repository.NewSubmissionRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	ghlClient := ghl.NewClient(cfg.GHL, log.Printf)
	fieldCache := ghl.NewFieldCache(cfg.FieldCacheTTL)
	registry := ghl.NewRegistry(ghlClient, fieldCache, ghl.ContactFieldCatalog(), log.Printf)
	deliverer := ghl.NewDeliverer(ghlClient, registry, cfg.GHL, ghl.StringifyAll, log.Printf)

	notifier := mailer.NewNotifier(cfg.Resend, log.Printf)

	hub := feed.NewHub()
	defer hub.Close()

	intakeService := intake.NewService(deliverer, notifier, submissionRepo, hub, log.Printf)
	intakeHandler := intake.NewHandler(intakeService)

	adminHandler := admin.NewHandler(submissionRepo, j, cfg.AdminEmail, cfg.AdminPasswordHash)
	feedHandler := feed.NewWSHandler(hub, j)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		intakeHandler.RegisterRoutes(v1)
		adminHandler.RegisterAuthRoutes(v1)

		// protected dashboard
		protected := v1.Group("/admin")
		protected.GET("/feed", feedHandler.HandleWebSocket)
		protected.Use(middleware.RequireAdmin(j))
		{
			adminHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
