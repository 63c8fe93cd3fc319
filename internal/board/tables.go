package board

// qiTable is the per-square "influence weight" used by the evaluator
// (RELQI, ABSQI) and by the move generator's push rule. Values are
// carried over from the reference Leiserchess engine's qi_table,
// indexed by mailbox Square. Some border-ring entries are nonzero, but
// callers only ever look up on-board squares.
var qiTable = [arrSize]int{
	0, 0, 0, 8, 16, 16, 8, 0, 0, 0,
	0, 0, 24, 40, 48, 48, 40, 24, 0, 0,
	0, 24, 48, 64, 72, 72, 64, 48, 24, 0,
	8, 40, 64, 80, 88, 88, 80, 64, 40, 8,
	16, 48, 72, 88, 96, 96, 88, 72, 48, 16,
	16, 48, 72, 88, 96, 96, 88, 72, 48, 16,
	8, 40, 64, 80, 88, 88, 80, 64, 40, 8,
	0, 24, 48, 64, 72, 72, 64, 48, 24, 0,
	0, 0, 24, 40, 48, 48, 40, 24, 0, 0,
	0, 0, 0, 8, 16, 16, 8, 0, 0, 0,
}

// QiAt returns the influence weight of a square.
func QiAt(sq Square) int { return qiTable[sq] }

// Centrality is a manhattan-like "distance from the nearest edge" measure,
// peaking at the board center. centrality(f,r) = min(f,7-f) + min(r,7-r).
func Centrality(sq Square) int {
	f, r := sq.File(), sq.Rank()
	return minInt(f, 7-f) + minInt(r, 7-r)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

var neighborMask [arrSize]Bitboard

func init() {
	for sq := 0; sq < arrSize; sq++ {
		s := Square(sq)
		if !s.OnBoard() {
			continue
		}
		var m Bitboard
		for d := Direction(0); d < NumDir; d++ {
			n := s.Step(d)
			if n.OnBoard() {
				m.Set(DenseOf(n))
			}
		}
		neighborMask[sq] = m
	}
}

// NeighborsMask returns the dense-index bitboard of the up-to-8 squares
// adjacent to sq (used by the evaluator to detect touching pawns).
func NeighborsMask(sq Square) Bitboard { return neighborMask[sq] }

// reflectNone is the sentinel meaning "struck the back of the pawn".
const reflectNone Direction = -1

// reflect[beam][pawnOrientation] gives the new beam direction after
// striking a pawn's diagonal face, or reflectNone if the beam struck the
// unreflective back of the pawn (the pawn is then the victim).
var reflectTable = [NumDir][4]Direction{
	DirN: {OriNW: reflectNone, OriNE: reflectNone, OriSE: DirE, OriSW: DirW},
	DirE: {OriNW: DirN, OriNE: reflectNone, OriSE: reflectNone, OriSW: DirS},
	DirS: {OriNW: DirW, OriNE: DirE, OriSE: reflectNone, OriSW: reflectNone},
	DirW: {OriNW: reflectNone, OriNE: DirN, OriSE: DirS, OriSW: reflectNone},
}

// Reflect looks up the new beam direction given the direction the beam was
// travelling and the orientation of the pawn it struck. ok is false when
// the beam struck the pawn's back (the pawn absorbs it).
func Reflect(beam Direction, pawnOri Orientation) (Direction, bool) {
	d := reflectTable[beam][pawnOri]
	if d == reflectNone {
		return 0, false
	}
	return d, true
}
