package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/zoecc/passbox-api/internal/config"
	"github.com/zoecc/passbox-api/internal/crypto"
	"github.com/zoecc/passbox-api/internal/database"
	"github.com/zoecc/passbox-api/internal/handlers"
	authmw "github.com/zoecc/passbox-api/internal/middleware"
	"github.com/zoecc/passbox-api/internal/models"
	"github.com/zoecc/passbox-api/internal/services"
	"github.com/zoecc/passbox-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	blobs, err := storage.NewMinioStorage(ctx, cfg.Minio)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize cipher: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(db)
	passwordService := services.NewPasswordService(db, blobs)
	itemService := services.NewItemService(db, cipher, blobs)

	authHandler := handlers.NewAuthHandler(authService, jwtService)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	clipboardHandler := handlers.NewItemHandler(itemService, models.KindClipboard)
	favoriteHandler := handlers.NewItemHandler(itemService, models.KindFavorite)
	uploadHandler := handlers.NewUploadHandler(blobs)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api")

	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	api.Get("/uploads/:filename", uploadHandler.Serve)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/passwords", passwordHandler.List)
	protected.Post("/passwords", passwordHandler.Create)
	protected.Get("/passwords/export", passwordHandler.Export)
	protected.Post("/passwords/import", passwordHandler.Import)
	protected.Post("/passwords/batch-delete", passwordHandler.BatchDelete)
	protected.Get("/passwords/:id", passwordHandler.Get)
	protected.Put("/passwords/:id", passwordHandler.Update)
	protected.Delete("/passwords/:id", passwordHandler.Delete)
	protected.Get("/categories", passwordHandler.Categories)

	// The clipboard and favorites surfaces are identical; only the
	// handler's kind differs.
	for prefix, h := range map[string]*handlers.ItemHandler{
		"/clipboard": clipboardHandler,
		"/favorites": favoriteHandler,
	} {
		protected.Get(prefix, h.List)
		protected.Post(prefix, h.Create)
		protected.Post(prefix+"/batch", h.BatchCreate)
		protected.Get(prefix+"/stats", h.Stats)
		protected.Get(prefix+"/categories", h.Categories)
		protected.Get(prefix+"/tags", h.Tags)
		protected.Get(prefix+"/export", h.Export)
		protected.Post(prefix+"/import", h.Import)
		protected.Get(prefix+"/:id", h.Get)
		protected.Put(prefix+"/:id", h.Update)
		protected.Delete(prefix+"/:id", h.Delete)
		protected.Post(prefix+"/:id/copy", h.Copy)
	}

	protected.Post("/upload", uploadHandler.Upload)
	protected.Delete("/upload/:filename", uploadHandler.Delete)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
