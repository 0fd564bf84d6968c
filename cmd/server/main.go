package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/famcart/backend/internal/config"
	"github.com/famcart/backend/internal/database"
	"github.com/famcart/backend/internal/handlers"
	"github.com/famcart/backend/internal/middleware"
	"github.com/famcart/backend/internal/services"
	"github.com/famcart/backend/pkg/logger"
	"github.com/famcart/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	listService := services.NewListService(db)
	itemService := services.NewItemService(db)

	authHandler := handlers.NewAuthHandler(db)
	ssoHandler := handlers.NewSSOHandler(db, cfg)
	listsHandler := handlers.NewListsHandler(listService)
	itemsHandler := handlers.NewItemsHandler(itemService)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.FrontendURL))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)
	authRoutes.Put("/me", authMiddleware.RequireAuth, authHandler.UpdateMe)
	authRoutes.Get("/sso/google", ssoHandler.GetLoginRedirect)
	authRoutes.Get("/sso/google/callback", ssoHandler.HandleCallback)

	listRoutes := api.Group("/lists", authMiddleware.RequireAuth)
	listRoutes.Get("/", listsHandler.List)
	listRoutes.Post("/", listsHandler.Create)
	listRoutes.Get("/:id", listsHandler.Get)
	listRoutes.Put("/:id", listsHandler.Update)
	listRoutes.Delete("/:id", listsHandler.Delete)

	listRoutes.Get("/:id/items", itemsHandler.List)
	listRoutes.Post("/:id/items", itemsHandler.Create)
	listRoutes.Put("/:id/items/:itemId", itemsHandler.Update)
	listRoutes.Delete("/:id/items/:itemId", itemsHandler.Delete)
	listRoutes.Post("/:id/items/:itemId/claim", itemsHandler.Claim)
	listRoutes.Post("/:id/items/:itemId/purchase", itemsHandler.Purchase)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
