package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessington/internal/model"
	"github.com/benbeisheim/chessington/internal/service"
	"github.com/benbeisheim/chessington/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// jsonWriter is the part of *websocket.Conn the controller writes through.
type jsonWriter interface {
	WriteJSON(v interface{}) error
}

// lockedConn serializes writes; broadcasts from other players' moves share
// the connection with replies written here.
type lockedConn struct {
	mu   sync.Mutex
	conn jsonWriter
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

type availableMovesRequest struct {
	From model.Square `json:"from"`
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := utils.CopyString(c.Params("gameId"))
	playerID, _ := c.Locals("playerID").(string)
	conn := &lockedConn{conn: c}
	ctx := context.Background()

	if err := wsc.gameService.RegisterConnection(ctx, gameID, playerID, conn); err != nil {
		log.Warnf("game %s: rejected connection for %s: %v", gameID, playerID, err)
		c.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
		)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from %s ended: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			sendError(conn, fmt.Errorf("parse message: %w", err))
			continue
		}
		if err := wsc.handleMessage(ctx, conn, gameID, playerID, msg); err != nil {
			log.Debugf("game %s: message from %s failed: %v", gameID, playerID, err)
			sendError(conn, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(ctx context.Context, conn jsonWriter, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("parse move: %w", err)
		}
		return wsc.gameService.HandleMove(ctx, gameID, playerID, move)

	case ws.MessageTypeAvailableMoves:
		var req availableMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("parse available moves request: %w", err)
		}
		moves, err := wsc.gameService.AvailableMoves(ctx, gameID, req.From)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(MovesResponse{From: req.From, Moves: moves})
		if err != nil {
			return err
		}
		return conn.WriteJSON(ws.Message{Type: ws.MessageTypeAvailableMoves, Payload: payload})

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func sendError(conn jsonWriter, err error) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: err.Error()})
	if werr := conn.WriteJSON(ws.Message{Type: ws.MessageTypeError, Payload: payload}); werr != nil {
		log.Debugf("send error message: %v", werr)
	}
}
