package model

import "time"

type Player string

const (
	White Player = "white"
	Black Player = "black"
)

func (p Player) Opponent() Player {
	if p == White {
		return Black
	}
	return White
}

// Direction is the row delta of a forward pawn step.
func (p Player) Direction() int {
	if p == Black {
		return -1
	}
	return 1
}

// HomeRow is the row a pawn starts on and may double-step from.
func (p Player) HomeRow() int {
	if p == Black {
		return 6
	}
	return 1
}

func (p Player) Valid() bool {
	return p == White || p == Black
}

// Seat is a participant sitting at a game.
type Seat struct {
	ID       string    `json:"id"`
	Color    Player    `json:"color"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (s Seat) Taken() bool {
	return s.ID != ""
}
