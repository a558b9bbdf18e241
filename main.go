package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/packrat-app/packrat/config"
	"github.com/packrat-app/packrat/database"
	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/handlers"
	"github.com/packrat-app/packrat/logger"
	"github.com/packrat-app/packrat/middleware"
	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/services"
	"github.com/packrat-app/packrat/trading"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.SetDefault(slog.New(logger.NewHandler("packrat", cfg.Log.Level)))
	slog.Info("Starting Packrat API",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.CreateSchema(ctx); err != nil {
		slog.Error("Failed to prepare schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("Database connected", slog.String("type", "db"))

	repos := models.NewRepositories(
		repositories.NewUserRepository(db.BunDB()),
		repositories.NewCardRepository(db.BunDB()),
		repositories.NewPackRepository(db.BunDB()),
		repositories.NewFollowRepository(db.BunDB()),
		repositories.NewActivityRepository(db.BunDB()),
		repositories.NewTradeRepository(db.BunDB()),
	)

	mediaService, err := services.NewMediaService(cfg.Spaces)
	if err != nil {
		slog.Error("Failed to init media service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	giphyService := services.NewGiphyService(cfg.Giphy.APIKey, cfg.Giphy.BaseURL)
	packService := services.NewPackService(repos.Pack, repos.User, giphyService, mediaService)
	sessionService := services.NewSessionService(cfg.Web.SessionKey, false)
	tradeService := trading.NewService(repos.Trade)

	app := fiber.New(fiber.Config{
		AppName:      "Packrat API",
		ServerHeader: "Packrat",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Web.ClientOrigin,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.RateLimit(middleware.NewRateLimiter(120, time.Minute)))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:   cfg,
		DB:       db,
		Repos:    repos,
		Sessions: sessionService,
		Packs:    packService,
		Trades:   tradeService,
		Version:  version,
		Commit:   commit,
	}

	setupRoutes(app, webApp)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-c
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	db.Close()
	slog.Info("Shutdown complete")
}

func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(webApp.Sessions)

	auth := api.Group("/auth")
	auth.Post("/signup", handlers.Signup(webApp))
	auth.Post("/login", handlers.Login(webApp))
	auth.Post("/logout", handlers.Logout(webApp))
	auth.Get("/profile", authRequired, handlers.Profile(webApp))

	users := api.Group("/users", middleware.OptionalAuth(webApp.Sessions))
	users.Get("/", handlers.ListUsers(webApp))
	users.Get("/search", handlers.SearchUsers(webApp))
	users.Get("/:id", handlers.GetUser(webApp))
	users.Get("/:id/activity", handlers.UserActivity(webApp))

	cards := api.Group("/cards")
	cards.Get("/", authRequired, handlers.ListOwnCards(webApp))
	cards.Get("/user/:userId", handlers.ListUserCards(webApp))
	cards.Post("/open-pack/:packId", authRequired, handlers.OpenPack(webApp))

	api.Get("/packs", handlers.ListPacks(webApp))

	coins := api.Group("/coins")
	coins.Get("/", authRequired, handlers.GetCoins(webApp))
	coins.Post("/", authRequired, middleware.AdminRequired(), handlers.GrantCoins(webApp))
	coins.Post("/daily", authRequired, handlers.CollectDaily(webApp))

	trade := api.Group("/trade", authRequired)
	trade.Get("/", handlers.ListPendingTrades(webApp))
	trade.Get("/history", handlers.ListTradeHistory(webApp))
	trade.Post("/", handlers.CreateTrade(webApp))
	trade.Put("/accept/:tradeId", handlers.AcceptTrade(webApp))
	trade.Put("/reject/:tradeId", handlers.RejectTrade(webApp))
	trade.Get("/:tradeId", handlers.GetPendingTrade(webApp))

	follow := api.Group("/follow", authRequired)
	follow.Get("/followers", handlers.ListFollowers(webApp))
	follow.Get("/following", handlers.ListFollowing(webApp))
	follow.Post("/:userId", handlers.FollowUser(webApp))
	follow.Delete("/:userId", handlers.UnfollowUser(webApp))

	api.Get("/feed", authRequired, handlers.Feed(webApp))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested endpoint does not exist",
		})
	})
}
