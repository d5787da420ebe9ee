package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove           MessageType = "move"
	MessageTypeAvailableMoves MessageType = "availableMoves"
	MessageTypeGameState      MessageType = "gameState"
	MessageTypeError          MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload is sent with MessageTypeError.
type ErrorPayload struct {
	Error string `json:"error"`
}
