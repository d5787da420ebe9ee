package controller

import (
	"github.com/benbeisheim/chessington/internal/middleware"
	"github.com/benbeisheim/chessington/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Routes mounts the REST API under /api and the game socket under /ws.
func Routes(app *fiber.App, gameService *service.GameService) {
	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	app.Get("/ws/game/:gameId",
		middleware.EnsurePlayerID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}),
	)

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/status", gameController.MatchStatus)
	gameRoutes.Post("/matchmaking/leave", gameController.LeaveMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves/:square", gameController.AvailableMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
}
