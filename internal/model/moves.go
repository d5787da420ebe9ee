package model

type direction struct {
	dRow, dCol int
}

var (
	rookDirs   = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, bishopDirs...), rookDirs...)
	knightDirs = []direction{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}, {2, 1}, {-2, 1}, {2, -1}, {-2, -1}}
	kingDirs   = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

// occupant reads a square already known to be on the board.
func (b *Board) occupant(sq Square) *Piece {
	return b.cells[sq.Row][sq.Col]
}

func pawnMoves(b *Board, p *Piece, from Square) []Square {
	moves := []Square{}
	dir := p.Player.Direction()

	single := from.offset(dir, 0)
	if !single.IsOnBoard() || b.occupant(single) != nil {
		return moves
	}
	moves = append(moves, single)

	// A blocked single step never reaches here, so the pawn cannot jump.
	if from.Row == p.Player.HomeRow() {
		double := from.offset(2*dir, 0)
		if double.IsOnBoard() && b.occupant(double) == nil {
			moves = append(moves, double)
		}
	}
	return moves
}

// stepMoves covers the fixed-offset pieces.
func stepMoves(b *Board, p *Piece, from Square, dirs []direction) []Square {
	moves := []Square{}
	for _, d := range dirs {
		to := from.offset(d.dRow, d.dCol)
		if !to.IsOnBoard() {
			continue
		}
		if occ := b.occupant(to); occ == nil || occ.Player != p.Player {
			moves = append(moves, to)
		}
	}
	return moves
}

// rayMoves walks each direction until the edge or the first occupant, which
// is included only when it belongs to the opponent.
func rayMoves(b *Board, p *Piece, from Square, dirs []direction) []Square {
	moves := []Square{}
	for _, d := range dirs {
		to := from.offset(d.dRow, d.dCol)
		for to.IsOnBoard() {
			occ := b.occupant(to)
			if occ == nil {
				moves = append(moves, to)
			} else {
				if occ.Player != p.Player {
					moves = append(moves, to)
				}
				break
			}
			to = to.offset(d.dRow, d.dCol)
		}
	}
	return moves
}
