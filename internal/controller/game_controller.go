package controller

import (
	"errors"

	"github.com/benbeisheim/chessington/internal/model"
	"github.com/benbeisheim/chessington/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// MovesResponse lists the destinations of the piece on From.
type MovesResponse struct {
	From  model.Square   `json:"from"`
	Moves []model.Square `json:"moves"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(c.UserContext(), gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) AvailableMoves(c *fiber.Ctx) error {
	from, err := model.ParseSquare(c.Params("square"))
	if err != nil {
		return errorResponse(c, err)
	}
	moves, err := gc.gameService.AvailableMoves(c.UserContext(), c.Params("gameId"), from)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(MovesResponse{From: from, Moves: moves})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.SimpleMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.HandleMove(c.UserContext(), gameID, playerID, move); err != nil {
		return errorResponse(c, err)
	}
	state, err := gc.gameService.GetGameState(c.UserContext(), gameID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchStatus(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	event, ok := gc.gameService.MatchStatus(playerID)
	if !ok {
		return c.JSON(fiber.Map{
			"status": "waiting",
		})
	}
	return c.JSON(fiber.Map{
		"status": "matched",
		"match":  event,
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if !gc.gameService.LeaveMatchmaking(playerID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "player not in queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidSquare),
		errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, model.ErrSquareEmpty):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
