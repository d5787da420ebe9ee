package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessington/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrGameFull            = errors.New("game is full")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrIllegalMove         = errors.New("illegal move")
	ErrNotAuthorized       = errors.New("not authorized to join this game")
	ErrDuplicateConnection = errors.New("connection already exists")
)

// StateWriter receives game state pushes. *websocket.Conn satisfies it.
type StateWriter interface {
	WriteJSON(v interface{}) error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]StateWriter // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]StateWriter),
	}
}

// Game wraps a Board with turn order and seating. The Board itself is not
// safe for concurrent use, so every access goes through mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	toMove      Player
	white       Seat
	black       Seat
	lastMove    *LastMove
	updatedAt   time.Time
	connections *GameConnections
}

type Players struct {
	White Seat `json:"white"`
	Black Seat `json:"black"`
}

type GameState struct {
	ID        string     `json:"id"`
	Placement string     `json:"placement"`
	Board     [][]*Piece `json:"board"`
	ToMove    Player     `json:"toMove"`
	Players   Players    `json:"players"`
	LastMove  *LastMove  `json:"lastMove"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Snapshot is the persisted form of a game.
type Snapshot struct {
	GameID    string
	Placement string
	ToMove    Player
	White     string
	Black     string
	LastMove  *LastMove
	UpdatedAt time.Time
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		board:       NewStandardBoard(),
		toMove:      White,
		white:       Seat{Color: White},
		black:       Seat{Color: Black},
		updatedAt:   time.Now(),
		connections: NewGameConnections(),
	}
}

func RestoreGame(snap Snapshot) (*Game, error) {
	board, err := BoardFromPlacement(snap.Placement)
	if err != nil {
		return nil, err
	}
	if !snap.ToMove.Valid() {
		return nil, fmt.Errorf("invalid side to move %q", snap.ToMove)
	}
	g := NewGame(snap.GameID)
	g.board = board
	g.toMove = snap.ToMove
	g.white.ID = snap.White
	g.black.ID = snap.Black
	g.lastMove = snap.LastMove
	g.updatedAt = snap.UpdatedAt
	return g, nil
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Snapshot{
		GameID:    g.ID,
		Placement: g.board.Placement(),
		ToMove:    g.toMove,
		White:     g.white.ID,
		Black:     g.black.ID,
		LastMove:  g.lastMove,
		UpdatedAt: g.updatedAt,
	}
}

// AddPlayer seats the player, white first. A player already seated gets
// their existing color back.
func (g *Game) AddPlayer(playerID string) (Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seat, ok := g.seatOf(playerID); ok {
		return seat.Color, nil
	}
	for _, seat := range []*Seat{&g.white, &g.black} {
		if !seat.Taken() {
			seat.ID = playerID
			seat.JoinedAt = time.Now()
			log.Infof("game %s: %s seated as %s", g.ID, playerID, seat.Color)
			return seat.Color, nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) seatOf(playerID string) (Seat, bool) {
	if playerID == "" {
		return Seat{}, false
	}
	if g.white.ID == playerID {
		return g.white, true
	}
	if g.black.ID == playerID {
		return g.black, true
	}
	return Seat{}, false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.seatOf(playerID)
	return ok
}

func (g *Game) canSpectate() bool {
	return !g.white.Taken() || !g.black.Taken()
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

func (g *Game) state() GameState {
	return GameState{
		ID:        g.ID,
		Placement: g.board.Placement(),
		Board:     g.board.Rows(),
		ToMove:    g.toMove,
		Players:   Players{White: g.white, Black: g.black},
		LastMove:  g.lastMove,
		UpdatedAt: g.updatedAt,
	}
}

// AvailableMoves lists the destinations of the piece standing on from.
func (g *Game) AvailableMoves(from Square) ([]Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	piece, err := g.board.GetPiece(from)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, fmt.Errorf("%w: %s", ErrSquareEmpty, from)
	}
	return piece.AvailableMoves(g.board)
}

// MakeMove validates move against the mover's available moves and applies it.
func (g *Game) MakeMove(playerID string, move SimpleMove) error {
	g.mu.Lock()

	if err := g.applyMove(playerID, move); err != nil {
		g.mu.Unlock()
		return err
	}
	state := g.state()
	g.mu.Unlock()

	g.broadcast(state)
	return nil
}

func (g *Game) applyMove(playerID string, move SimpleMove) error {
	piece, err := g.board.GetPiece(move.From)
	if err != nil {
		return err
	}
	if piece == nil {
		return fmt.Errorf("%w: %s", ErrSquareEmpty, move.From)
	}
	if err := checkSquare(move.To); err != nil {
		return err
	}
	if piece.Player != g.toMove {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.toMove)
	}
	if seat, ok := g.seatOf(playerID); !ok || seat.Color != g.toMove {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.toMove)
	}

	moves, err := piece.AvailableMoves(g.board)
	if err != nil {
		return err
	}
	if !slices.Contains(moves, move.To) {
		return fmt.Errorf("%w: %s %s to %s", ErrIllegalMove, piece, move.From, move.To)
	}

	var captured *Piece
	if occ, _ := g.board.GetPiece(move.To); occ != nil {
		cp := *occ
		captured = &cp
	}
	if err := piece.MoveTo(g.board, move.To); err != nil {
		return err
	}

	g.lastMove = newLastMove(move, *piece, captured)
	g.toMove = g.toMove.Opponent()
	g.updatedAt = time.Now()
	log.Debugf("game %s: %s played %s", g.ID, playerID, g.lastMove.Notation)
	return nil
}

func (g *Game) RegisterConnection(playerID string, conn StateWriter) error {
	g.mu.Lock()
	_, seated := g.seatOf(playerID)
	authorized := seated || g.canSpectate()
	state := g.state()
	g.mu.Unlock()

	if !authorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrDuplicateConnection
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection for %s", g.ID, playerID)

	if err := writeState(conn, state); err != nil {
		g.UnregisterConnection(playerID)
		return err
	}
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		delete(g.connections.connections, playerID)
		log.Infof("game %s: unregistered connection for %s", g.ID, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// broadcast writes state to every connection without holding the lock and
// drops connections whose write fails.
func (g *Game) broadcast(state GameState) {
	g.connections.mu.RLock()
	active := make(map[string]StateWriter, len(g.connections.connections))
	maps.Copy(active, g.connections.connections)
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := writeState(conn, state); err != nil {
			log.Errorf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID)
		}
	}
}

func writeState(conn StateWriter, state GameState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	return conn.WriteJSON(ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: json.RawMessage(payload),
	})
}
