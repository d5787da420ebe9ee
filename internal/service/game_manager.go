package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessington/internal/model"
	"github.com/benbeisheim/chessington/internal/store"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Store persists games between restarts. *store.SQLiteStore implements it.
type Store interface {
	Save(ctx context.Context, snap model.Snapshot) error
	Load(ctx context.Context, id string) (model.Snapshot, error)
}

type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  model.Player `json:"color"`
}

type GameManager struct {
	games   map[string]*model.Game
	queue   *model.Queue
	matches map[string]MatchFoundEvent // playerID -> match waiting to be picked up
	store   Store
	mu      sync.RWMutex
}

// NewGameManager keeps games in memory and, when s is not nil, writes a
// snapshot after every change.
func NewGameManager(s Store) *GameManager {
	return &GameManager{
		games:   make(map[string]*model.Game),
		queue:   model.NewQueue(),
		matches: make(map[string]MatchFoundEvent),
		store:   s,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.pairWaiting(ctx) {
			}
		}
	}
}

// pairWaiting starts a game for the two longest-waiting players. It reports
// whether a pair was made.
func (gm *GameManager) pairWaiting(ctx context.Context) bool {
	first, second, ok := gm.queue.NextPair()
	if !ok {
		return false
	}

	game := model.NewGame(uuid.NewString())
	firstColor, _ := game.AddPlayer(first.ID)
	secondColor, _ := game.AddPlayer(second.ID)

	gm.mu.Lock()
	gm.games[game.ID] = game
	gm.matches[first.ID] = MatchFoundEvent{GameID: game.ID, Color: firstColor}
	gm.matches[second.ID] = MatchFoundEvent{GameID: game.ID, Color: secondColor}
	gm.mu.Unlock()

	log.Infof("matched %s and %s in game %s", first.ID, second.ID, game.ID)
	gm.persist(ctx, game)
	return true
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(playerID); err != nil {
		return err
	}
	log.Infof("player %s joined matchmaking, %d waiting", playerID, gm.queue.Size())
	return nil
}

// MatchStatus hands out a pending match once; the second call returns false.
func (gm *GameManager) MatchStatus(playerID string) (MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	event, ok := gm.matches[playerID]
	if ok {
		delete(gm.matches, playerID)
	}
	return event, ok
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) CreateGame(ctx context.Context, gameID string) (*model.Game, error) {
	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	game := model.NewGame(gameID)
	gm.games[gameID] = game
	gm.mu.Unlock()

	gm.persist(ctx, game)
	return game, nil
}

// GetGame returns a live game, reloading it from the store when it is not in
// memory.
func (gm *GameManager) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	snap, err := gm.store.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	restored, err := model.RestoreGame(snap)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if game, exists := gm.games[restored.ID]; exists {
		return game, nil
	}
	gm.games[restored.ID] = restored
	log.Infof("restored game %s from store", restored.ID)
	return restored, nil
}

func (gm *GameManager) AddPlayerToGame(ctx context.Context, gameID, playerID string) (model.Player, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	color, err := game.AddPlayer(playerID)
	if err != nil {
		return "", err
	}
	gm.persist(ctx, game)
	return color, nil
}

func (gm *GameManager) GetGameState(ctx context.Context, gameID string) (model.GameState, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gm *GameManager) AvailableMoves(ctx context.Context, gameID string, from model.Square) ([]model.Square, error) {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.AvailableMoves(from)
}

func (gm *GameManager) MakeMove(ctx context.Context, gameID, playerID string, move model.SimpleMove) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	gm.persist(ctx, game)
	return nil
}

func (gm *GameManager) RegisterConnection(ctx context.Context, gameID, playerID string, conn model.StateWriter) error {
	game, err := gm.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	game.UnregisterConnection(playerID)
}

// persist failures are logged; the in-memory game stays authoritative.
func (gm *GameManager) persist(ctx context.Context, game *model.Game) {
	if gm.store == nil {
		return
	}
	if err := gm.store.Save(ctx, game.Snapshot()); err != nil {
		log.Errorf("persist game %s: %v", game.ID, err)
	}
}
