package model

import (
	"errors"
	"fmt"
)

const BoardSize = 8

var (
	ErrOutOfRange    = errors.New("square out of range")
	ErrInvalidSquare = errors.New("invalid square notation")
)

// Square is a board coordinate. Row 0 is white's back rank, col 0 is the a-file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func At(row, col int) Square {
	return Square{Row: row, Col: col}
}

// IsOnBoard reports whether both coordinates lie in [0,7].
func IsOnBoard(sq Square) bool {
	return sq.Row >= 0 && sq.Row < BoardSize && sq.Col >= 0 && sq.Col < BoardSize
}

func (s Square) IsOnBoard() bool {
	return IsOnBoard(s)
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

func (s Square) String() string {
	if !s.IsOnBoard() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, s.Row+1)
}

// ParseSquare reads algebraic notation such as "e2".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	sq := Square{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}
	if !sq.IsOnBoard() {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

func checkSquare(sq Square) error {
	if !sq.IsOnBoard() {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, sq.Row, sq.Col)
	}
	return nil
}
