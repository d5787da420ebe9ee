package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/chessington/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(ctx context.Context) (string, error) {
	gameID := uuid.New().String()

	if _, err := gs.gameManager.CreateGame(ctx, gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(ctx context.Context, gameID, playerID string) (model.Player, error) {
	return gs.gameManager.AddPlayerToGame(ctx, gameID, playerID)
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(ctx, gameID)
}

func (gs *GameService) AvailableMoves(ctx context.Context, gameID string, from model.Square) ([]model.Square, error) {
	return gs.gameManager.AvailableMoves(ctx, gameID, from)
}

func (gs *GameService) HandleMove(ctx context.Context, gameID, playerID string, move model.SimpleMove) error {
	return gs.gameManager.MakeMove(ctx, gameID, playerID, move)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (MatchFoundEvent, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) RegisterConnection(ctx context.Context, gameID, playerID string, conn model.StateWriter) error {
	return gs.gameManager.RegisterConnection(ctx, gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}
