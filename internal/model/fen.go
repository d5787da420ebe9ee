package model

import (
	"fmt"

	"github.com/notnil/chess"
)

// StartingPlacement is the FEN board field of the initial position.
const StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

var (
	toFENType = map[PieceType]chess.PieceType{
		King: chess.King, Queen: chess.Queen, Rook: chess.Rook,
		Bishop: chess.Bishop, Knight: chess.Knight, Pawn: chess.Pawn,
	}
	fromFENType = map[chess.PieceType]PieceType{
		chess.King: King, chess.Queen: Queen, chess.Rook: Rook,
		chess.Bishop: Bishop, chess.Knight: Knight, chess.Pawn: Pawn,
	}
	fenPieces = map[chess.Color]map[chess.PieceType]chess.Piece{
		chess.White: {
			chess.King: chess.WhiteKing, chess.Queen: chess.WhiteQueen, chess.Rook: chess.WhiteRook,
			chess.Bishop: chess.WhiteBishop, chess.Knight: chess.WhiteKnight, chess.Pawn: chess.WhitePawn,
		},
		chess.Black: {
			chess.King: chess.BlackKing, chess.Queen: chess.BlackQueen, chess.Rook: chess.BlackRook,
			chess.Bishop: chess.BlackBishop, chess.Knight: chess.BlackKnight, chess.Pawn: chess.BlackPawn,
		},
	}
)

func fenColor(p Player) chess.Color {
	if p == Black {
		return chess.Black
	}
	return chess.White
}

// Placement encodes the board as a FEN board field.
func (b *Board) Placement() string {
	m := make(map[chess.Square]chess.Piece, len(b.squares))
	for p, sq := range b.squares {
		m[chess.Square(sq.Row*BoardSize+sq.Col)] = fenPieces[fenColor(p.Player)][toFENType[p.Type]]
	}
	return chess.NewBoard(m).String()
}

func (b *Board) String() string {
	return b.Placement()
}

// BoardFromPlacement builds a board from a FEN board field such as
// StartingPlacement. Every piece is a fresh instance.
func BoardFromPlacement(placement string) (*Board, error) {
	var fb chess.Board
	if err := fb.UnmarshalText([]byte(placement)); err != nil {
		return nil, fmt.Errorf("invalid placement %q: %w", placement, err)
	}
	b := NewBoard()
	for sq, fp := range fb.SquareMap() {
		if fp == chess.NoPiece {
			continue
		}
		player := White
		if fp.Color() == chess.Black {
			player = Black
		}
		b.place(At(int(sq.Rank()), int(sq.File())), NewPiece(fromFENType[fp.Type()], player))
	}
	return b, nil
}
