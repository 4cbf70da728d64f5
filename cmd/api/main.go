package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/config"
	"github.com/snapgather/snapgather-backend/internal/handler"
	"github.com/snapgather/snapgather-backend/internal/middleware"
	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/internal/repository"
	"github.com/snapgather/snapgather-backend/internal/service"
	"github.com/snapgather/snapgather-backend/pkg/audit"
	"github.com/snapgather/snapgather-backend/pkg/database"
	"github.com/snapgather/snapgather-backend/pkg/email"
	"github.com/snapgather/snapgather-backend/pkg/identity"
	"github.com/snapgather/snapgather-backend/pkg/logger"
	"github.com/snapgather/snapgather-backend/pkg/qrcode"
	"github.com/snapgather/snapgather-backend/pkg/storage"
	"github.com/snapgather/snapgather-backend/pkg/utils"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	db := database.NewDatabase()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Photos{},
	); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	jobRepo, err := repository.NewJobRepository(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		zlog.Fatal("redis init failed", zap.Error(err))
	}

	// Storage
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		zlog.Fatal("object storage init failed", zap.Error(err))
	}
	images := storage.NewCloudflareImages(
		cfg.CloudflareImages.AccountID,
		cfg.CloudflareImages.Token,
		cfg.CloudflareImages.Hash,
	)

	// Ambient services
	mailer := email.NewEmailService(zlog)
	auditor := audit.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, zlog)
	defer auditor.Close()
	qr := qrcode.NewQRService(cfg.PublicBaseURL)
	validator := utils.NewValidator()

	// Identity and authorization
	verifier := identity.NewVerifier(identity.StaticKeyProvider{Secret: []byte(cfg.JWTSecret)}, cfg.JWTIssuer, zlog)
	resolver := service.NewActorResolver(userRepo, cfg.AdminEmails, mailer, zlog)
	guard := service.NewGuard(eventRepo)

	// Domain services
	eventService := service.NewEventService(eventRepo, photoRepo, guard, r2Storage, images, auditor, zlog)
	photoService := service.NewPhotoService(photoRepo, eventRepo, userRepo, guard, r2Storage, images, mailer, auditor, zlog)
	shareGate := service.NewShareAccessGate(eventRepo, photoRepo)
	exportService := service.NewExportService(jobRepo, eventRepo, photoRepo, userRepo, guard, r2Storage, mailer, zlog)
	adminService := service.NewAdminService(userRepo, eventRepo, photoRepo, eventService, auditor, zlog)

	// Handlers
	authHandler := handler.NewAuthHandler(verifier, resolver, validator)
	eventHandler := handler.NewEventHandler(eventService, exportService, qr, validator)
	photoHandler := handler.NewPhotoHandler(photoService, images, validator)
	publicHandler := handler.NewPublicHandler(shareGate, photoService, images, validator, cfg.TurnstileSecret)
	adminHandler := handler.NewAdminHandler(adminService, exportService, images)

	app := fiber.New(fiber.Config{
		BodyLimit: 15 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(fiberlog.New())
	allowOrigins := cfg.PublicBaseURL
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Event-Password",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE",
	}))

	api := app.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signin", authHandler.Signin)
	auth.Post("/signout", authHandler.Signout)

	// The admin console signs in through the same exchange; admin rights
	// come from the allow-list, not the route.
	api.Post("/admin/auth/signin", authHandler.Signin)

	user := api.Group("/user", middleware.RequireAuth(verifier, resolver))
	user.Get("/profile", authHandler.Me)
	user.Put("/profile", authHandler.UpdateProfile)

	// Host surface
	events := api.Group("/events", middleware.RequireAuth(verifier, resolver))
	events.Post("/", eventHandler.CreateEvent)
	events.Get("/", eventHandler.GetMyEvents)
	events.Post("/actions/bulk", eventHandler.BulkAction)
	events.Get("/:id", eventHandler.GetEvent)
	events.Put("/:id", eventHandler.UpdateEvent)
	events.Delete("/:id", eventHandler.DeleteEvent)
	events.Post("/:id/publish", eventHandler.Publish)
	events.Post("/:id/suspend", eventHandler.Suspend)
	events.Post("/:id/reactivate", eventHandler.Reactivate)
	events.Post("/:id/cover", eventHandler.UploadCover)
	events.Get("/:id/qr", eventHandler.GetQRCode)
	events.Get("/:id/photos", photoHandler.ListEventPhotos)
	events.Post("/:id/export", eventHandler.SubmitExport)

	exports := api.Group("/exports", middleware.RequireAuth(verifier, resolver))
	exports.Get("/:jobId", eventHandler.GetExportJob)

	photos := api.Group("/photos", middleware.RequireAuth(verifier, resolver))
	photos.Post("/bulk-delete", photoHandler.BulkDelete)
	photos.Post("/:id/approve", photoHandler.Approve)
	photos.Post("/:id/reject", photoHandler.Reject)
	photos.Patch("/:id", photoHandler.UpdateCaption)
	photos.Delete("/:id", photoHandler.DeletePhoto)

	// Guest surface, keyed by share token
	public := api.Group("/public/events/:token")
	public.Get("/", publicHandler.GetEventInfo)
	public.Post("/verify-password", publicHandler.VerifyPassword)
	public.Get("/photos", publicHandler.ListPhotos)
	public.Post("/photos", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}), publicHandler.UploadPhoto)

	// Admin surface
	admin := api.Group("/admin", middleware.RequireAuth(verifier, resolver), middleware.RequireAdmin())
	admin.Get("/overview", adminHandler.Overview)
	admin.Get("/events", adminHandler.ListEvents)
	admin.Get("/events/:id", adminHandler.GetEvent)
	admin.Patch("/events/:id/status", adminHandler.SetEventStatus)
	admin.Delete("/events/:id", adminHandler.ForceDeleteEvent)
	admin.Get("/hosts", adminHandler.ListHosts)
	admin.Get("/hosts/:id", adminHandler.GetHost)
	admin.Patch("/hosts/:id/status", adminHandler.SetHostStatus)
	admin.Get("/uploads/recent", adminHandler.RecentUploads)
	admin.Post("/system/export", adminHandler.SubmitSystemExport)

	zlog.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
