package board

import "fmt"

// Victims records what a move's laser shots (and any self-squash) removed
// from the board. Count is -1 (IllegalZapped) to flag an illegal move.
type Victims struct {
	Count        int8
	RemovedColor [2]bool
}

// IllegalZapped is the victims.count sentinel returned for an illegal move.
const IllegalZapped int8 = -1

// Illegal returns the victims record used for a move the generator never
// produced (an out-of-band / illegally specified move).
func Illegal() Victims { return Victims{Count: IllegalZapped} }

// IsIllegal reports whether v flags an illegal move.
func (v Victims) IsIllegal() bool { return v.Count == IllegalZapped }

// IsBlunder reports whether v removed only pieces of the mover's own
// color (spec §4.4): "only same-color pieces were removed".
func (v Victims) IsBlunder(mover Color) bool {
	return v.RemovedColor[mover] && !v.RemovedColor[mover.Other()]
}

// AnyVictim reports whether the laser (or a self-squash) removed anything.
func (v Victims) AnyVictim() bool { return v.Count > 0 }

// Position is one board state. Positions are never mutated after creation
// (except during construction by ApplyMove/ParseFEN); the search tree is a
// linked chain of successors, each pointing back to its parent via
// History.
type Position struct {
	Board    [arrSize]Piece
	Occ      [2]Bitboard
	Monarchs [2][2]Square // up to two Monarch squares per color; 0 (NoSquare) = absent

	Key uint64

	Ply              int // plies since game start; even => White to move
	LastMove         Move
	Victims          Victims
	PliesSinceVictim int

	History    *Position // predecessor; nil at the root
	WasPlayed  bool      // true once committed to the real game line
}

// NewEmptyPosition returns a position with every cell sentinel-Invalid
// except the playable 8x8 area, which is Empty.
func NewEmptyPosition() *Position {
	p := &Position{}
	for sq := 0; sq < arrSize; sq++ {
		if Square(sq).OnBoard() {
			p.Board[sq] = NoPiece
		} else {
			p.Board[sq] = InvalidPiece
		}
	}
	p.Key = p.ComputeKey()
	return p
}

// SideToMove derives whose turn it is from the ply counter.
func (p *Position) SideToMove() Color {
	if p.Ply&1 == 0 {
		return White
	}
	return Black
}

// PieceAt returns the piece occupying sq (InvalidPiece off-board).
func (p *Position) PieceAt(sq Square) Piece { return p.Board[sq] }

// Copy returns a deep copy of p with no history link (callers set History
// themselves, matching ApplyMove's "copy then mutate" lifecycle).
func (p *Position) Copy() *Position {
	np := *p
	np.History = nil
	return &np
}

// setPiece places pc at sq, updating occupancy and the monarch locator.
// It does not touch the Zobrist key; callers XOR the key themselves so
// incremental updates (ApplyMove) and full recomputes (ComputeKey) share
// this single piece of bookkeeping.
func (p *Position) setPiece(sq Square, pc Piece) {
	p.Board[sq] = pc
	if !sq.OnBoard() {
		return
	}
	dense := DenseOf(sq)
	p.Occ[White].Clear(dense)
	p.Occ[Black].Clear(dense)
	if pc.Type() == Pawn || pc.Type() == Monarch {
		p.Occ[pc.Color()].Set(dense)
	}
	if pc.Type() == Monarch {
		c := pc.Color()
		if p.Monarchs[c][0] == NoSquare || p.Monarchs[c][0] == sq {
			p.Monarchs[c][0] = sq
		} else {
			p.Monarchs[c][1] = sq
		}
	}
}

// clearMonarchSlot removes sq from color c's monarch locator, if present.
func (p *Position) clearMonarchSlot(c Color, sq Square) {
	if p.Monarchs[c][0] == sq {
		p.Monarchs[c][0] = NoSquare
	} else if p.Monarchs[c][1] == sq {
		p.Monarchs[c][1] = NoSquare
	}
}

// LiveMonarch returns a live Monarch square of color c (index 0 if live,
// else index 1), and reports whether any monarch of that color is alive.
func (p *Position) LiveMonarch(c Color) (Square, bool) {
	if p.Monarchs[c][0] != NoSquare && p.Board[p.Monarchs[c][0]].Type() == Monarch {
		return p.Monarchs[c][0], true
	}
	if p.Monarchs[c][1] != NoSquare && p.Board[p.Monarchs[c][1]].Type() == Monarch {
		return p.Monarchs[c][1], true
	}
	return NoSquare, false
}

// MonarchCount returns the number of live Monarchs of color c (0, 1, or 2).
func (p *Position) MonarchCount(c Color) int {
	n := 0
	for i := 0; i < 2; i++ {
		sq := p.Monarchs[c][i]
		if sq != NoSquare && p.Board[sq].Type() == Monarch {
			n++
		}
	}
	return n
}

// ComputeKey recomputes the Zobrist key from scratch by scanning every
// mailbox cell (spec §4.2: "The key is recomputed from scratch only
// after FEN parsing", and used by the invariant tests as the ground
// truth to check incremental updates against).
func (p *Position) ComputeKey() uint64 {
	var key uint64
	for sq := 0; sq < arrSize; sq++ {
		key ^= ZobristPiece(Square(sq), p.Board[sq])
	}
	if p.SideToMove() == Black {
		key ^= ZobristSideToMove()
	}
	return key
}

// GameOver reports whether the game has ended: a side wins by beginning
// its own turn with strictly more live Monarchs than its opponent, or
// unconditionally the instant the opponent is reduced to zero (spec §1).
func (p *Position) GameOver() (over bool, winner Color) {
	wc, bc := p.MonarchCount(White), p.MonarchCount(Black)
	whiteWins := (p.SideToMove() == White && wc > bc) || bc == 0
	blackWins := (p.SideToMove() == Black && bc > wc) || wc == 0
	switch {
	case whiteWins:
		return true, White
	case blackWins:
		return true, Black
	default:
		return false, p.SideToMove()
	}
}

// Validate checks the structural invariants of spec §3 (monarch counts,
// sentinel ring, occupancy-vs-board agreement) and panics on violation,
// matching the reference engine's fatal-assertion error taxonomy (§7):
// these are programming errors, not user-facing ones.
func (p *Position) Validate() {
	for c := White; c <= Black; c++ {
		if p.MonarchCount(c) > 2 {
			panic(fmt.Sprintf("invariant violation: color %v has more than 2 monarchs", c))
		}
	}
	for sq := 0; sq < arrSize; sq++ {
		s := Square(sq)
		if !s.OnBoard() {
			if !p.Board[sq].IsInvalid() {
				panic(fmt.Sprintf("invariant violation: sentinel cell %d is not INVALID", sq))
			}
			continue
		}
		pc := p.Board[sq]
		dense := DenseOf(s)
		for c := White; c <= Black; c++ {
			want := pc.Color() == c && (pc.Type() == Pawn || pc.Type() == Monarch)
			if p.Occ[c].IsSet(dense) != want {
				panic(fmt.Sprintf("invariant violation: occupancy[%v] mismatch at %v", c, s))
			}
		}
	}
}

// String renders the FEN-like board text of spec §6 (without the side-
// to-move and last-move tail; see fen.go for the full encoding).
func (p *Position) String() string {
	return toBoardText(p)
}
