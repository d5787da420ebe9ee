package model

import (
	"errors"
	"fmt"
)

var (
	ErrPieceNotFound = errors.New("piece not found on board")
	ErrSquareEmpty   = errors.New("no piece at square")
	ErrPieceOnBoard  = errors.New("piece already on board")
	ErrNilPiece      = errors.New("nil piece")
)

// Board owns piece placement. cells and squares are two views of the same
// state and every mutation updates both.
type Board struct {
	cells   [BoardSize][BoardSize]*Piece
	squares map[*Piece]Square
}

func NewBoard() *Board {
	return &Board{squares: make(map[*Piece]Square)}
}

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewStandardBoard returns the chess starting position.
func NewStandardBoard() *Board {
	b := NewBoard()
	for col := 0; col < BoardSize; col++ {
		b.place(At(0, col), NewPiece(backRank[col], White))
		b.place(At(1, col), NewPiece(Pawn, White))
		b.place(At(6, col), NewPiece(Pawn, Black))
		b.place(At(7, col), NewPiece(backRank[col], Black))
	}
	return b
}

// GetPiece returns the occupant of sq, or nil when the square is empty.
func (b *Board) GetPiece(sq Square) (*Piece, error) {
	if err := checkSquare(sq); err != nil {
		return nil, err
	}
	return b.cells[sq.Row][sq.Col], nil
}

func (b *Board) FindPiece(p *Piece) (Square, error) {
	sq, ok := b.squares[p]
	if !ok {
		return Square{}, fmt.Errorf("%w: %v", ErrPieceNotFound, p)
	}
	return sq, nil
}

// MovePiece relocates the occupant of from onto to. Whatever stood on to is
// removed from the board. No legality check is made.
func (b *Board) MovePiece(from, to Square) error {
	if err := checkSquare(from); err != nil {
		return err
	}
	if err := checkSquare(to); err != nil {
		return err
	}
	moving := b.cells[from.Row][from.Col]
	if moving == nil {
		return fmt.Errorf("%w: %s", ErrSquareEmpty, from)
	}
	if from == to {
		return nil
	}
	if captured := b.cells[to.Row][to.Col]; captured != nil {
		delete(b.squares, captured)
	}
	b.cells[from.Row][from.Col] = nil
	b.cells[to.Row][to.Col] = moving
	b.squares[moving] = to
	return nil
}

// PlacePiece puts p on sq during setup, replacing any previous occupant.
func (b *Board) PlacePiece(sq Square, p *Piece) error {
	if err := checkSquare(sq); err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: place on %s", ErrNilPiece, sq)
	}
	if at, ok := b.squares[p]; ok {
		return fmt.Errorf("%w: %v at %s", ErrPieceOnBoard, p, at)
	}
	b.place(sq, p)
	return nil
}

func (b *Board) place(sq Square, p *Piece) {
	if prev := b.cells[sq.Row][sq.Col]; prev != nil {
		delete(b.squares, prev)
	}
	b.cells[sq.Row][sq.Col] = p
	b.squares[p] = sq
}

// Pieces lists the player's pieces scanning a1, b1, ... h8.
func (b *Board) Pieces(player Player) []*Piece {
	pieces := []*Piece{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if p := b.cells[row][col]; p != nil && p.Player == player {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (b *Board) Len() int {
	return len(b.squares)
}

// Rows returns a copy of the grid indexed [row][col], for serialization.
func (b *Board) Rows() [][]*Piece {
	rows := make([][]*Piece, BoardSize)
	for row := range rows {
		rows[row] = make([]*Piece, BoardSize)
		for col := range rows[row] {
			if p := b.cells[row][col]; p != nil {
				cp := *p
				rows[row][col] = &cp
			}
		}
	}
	return rows
}
