package model

import "fmt"

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// LastMove describes the most recent relocation for clients.
type LastMove struct {
	SimpleMove
	Piece    Piece  `json:"piece"`
	Captured *Piece `json:"captured"`
	Notation string `json:"notation"`
}

func newLastMove(move SimpleMove, piece Piece, captured *Piece) *LastMove {
	capture := ""
	if captured != nil {
		capture = "x"
	}
	prefix := piece.Type.notation()
	if piece.Type == Pawn {
		prefix = ""
		if captured != nil {
			prefix = move.From.String()[:1]
		}
	}
	return &LastMove{
		SimpleMove: move,
		Piece:      piece,
		Captured:   captured,
		Notation:   fmt.Sprintf("%s%s%s", prefix, capture, move.To),
	}
}
