package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/chessington/internal/config"
	"github.com/benbeisheim/chessington/internal/controller"
	"github.com/benbeisheim/chessington/internal/service"
	"github.com/benbeisheim/chessington/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	var gameStore service.Store
	if cfg.DBPath != "" {
		sqliteStore, err := store.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer sqliteStore.Close()
		gameStore = sqliteStore
		log.Infof("persisting games to %s", cfg.DBPath)
	}
	gameManager := service.NewGameManager(gameStore)
	gameService := service.NewGameService(gameManager)
	go gameManager.Run(ctx, cfg.MatchInterval)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	controller.Routes(app, gameService)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
