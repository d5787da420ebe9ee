package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (t PieceType) notation() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

func (t PieceType) Valid() bool {
	return t.notation() != ""
}

// Piece is identified by its pointer. Its square lives in the Board.
type Piece struct {
	Type   PieceType `json:"type"`
	Player Player    `json:"player"`
}

func NewPiece(t PieceType, player Player) *Piece {
	return &Piece{Type: t, Player: player}
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s", p.Player, p.Type)
}

// AvailableMoves returns the squares this piece may move to on the given
// board. It never mutates the board.
func (p *Piece) AvailableMoves(b *Board) ([]Square, error) {
	from, err := b.FindPiece(p)
	if err != nil {
		return nil, err
	}
	switch p.Type {
	case Pawn:
		return pawnMoves(b, p, from), nil
	case Knight:
		return stepMoves(b, p, from, knightDirs), nil
	case Bishop:
		return rayMoves(b, p, from, bishopDirs), nil
	case Rook:
		return rayMoves(b, p, from, rookDirs), nil
	case Queen:
		return rayMoves(b, p, from, queenDirs), nil
	case King:
		return stepMoves(b, p, from, kingDirs), nil
	default:
		return nil, fmt.Errorf("unknown piece type %q", p.Type)
	}
}

// MoveTo relocates the piece without checking the destination against
// AvailableMoves.
func (p *Piece) MoveTo(b *Board, to Square) error {
	from, err := b.FindPiece(p)
	if err != nil {
		return err
	}
	return b.MovePiece(from, to)
}
