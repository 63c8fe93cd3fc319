package engine

import (
	"testing"

	"github.com/hailam/leiserchess/internal/board"
)

func mustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// TestPawnTouchesNeighborIgnoresOrientation covers the real p_touch rule:
// any neighbor square holding any pawn counts, regardless of either
// pawn's facing. OriNW/OriNW is a pairing the reference engine's dead
// do_pawns_touch test routine would have called "not touching" along
// the NW edge; the real evaluator still penalizes it.
func TestPawnTouchesNeighborIgnoresOrientation(t *testing.T) {
	pos := mustParseFEN(t, board.EndgameFEN)

	sq := board.NewSquare(3, 3)
	n := sq.Step(board.DirNW)
	if !n.OnBoard() {
		t.Fatalf("test setup: %v has no NW neighbor on board", sq)
	}

	pos.Board[sq] = board.NewPiece(board.Pawn, board.White, board.OriNW)
	pos.Board[n] = board.NewPiece(board.Pawn, board.White, board.OriNW)
	pos.Occ[board.White].Set(board.DenseOf(sq))
	pos.Occ[board.White].Set(board.DenseOf(n))

	if !pawnTouchesNeighbor(pos, sq) {
		t.Errorf("pawnTouchesNeighbor(%v) = false, want true (any-neighbor rule, no orientation check)", sq)
	}
}

// TestPawnTouchesNeighborNoPawnNearby covers the negative case: an
// isolated pawn with only empty neighbor squares never touches.
func TestPawnTouchesNeighborNoPawnNearby(t *testing.T) {
	pos := mustParseFEN(t, board.EndgameFEN)
	sq := board.NewSquare(3, 3)
	pos.Board[sq] = board.NewPiece(board.Pawn, board.White, board.OriNW)
	pos.Occ[board.White].Set(board.DenseOf(sq))

	if pawnTouchesNeighbor(pos, sq) {
		t.Errorf("pawnTouchesNeighbor(%v) = true, want false (no neighboring pawn)", sq)
	}
}

// TestEvalPtouchMagnitude guards against the non-floating PTOUCH term
// being accidentally divided by PawnEVValue again at combine time: two
// touching White pawns must cost noticeably more than two isolated ones,
// on the order of PtouchWeight/EVScoreRatio centipawns, not a rounding
// artifact near zero.
func TestEvalPtouchMagnitude(t *testing.T) {
	opts := NewOptions()

	touching := mustParseFEN(t, "7nn/8/8/8/3NWNE3/8/8/SS7 W")
	isolated := mustParseFEN(t, "7nn/8/8/8/3NW1NE2/8/8/SS7 W")

	delta := Eval(opts, isolated) - Eval(opts, touching)
	want := opts.PtouchWeight / EVScoreRatio
	if delta < want/2 {
		t.Errorf("Eval delta from touching pawns = %d, want at least ~%d (PtouchWeight/EVScoreRatio order of magnitude)", delta, want)
	}
}

// TestEvalPproxRelqiAbsqiNotShrunk guards against PPROX/RELQI/ABSQI
// losing their PawnEVValue pre-scale: a White pawn on e3 (four files from
// its own Monarch on a0) versus one on g0 (six files away) must change
// the evaluation, not by a fraction that truncates to zero.
func TestEvalPproxRelqiAbsqiNotShrunk(t *testing.T) {
	opts := NewOptions()

	near := mustParseFEN(t, "7nn/8/8/8/4NW3/8/8/SS7 W")
	far := mustParseFEN(t, "7nn/8/8/8/8/8/8/SS5NW1 W")

	scoreNear := Eval(opts, near)
	scoreFar := Eval(opts, far)
	if scoreNear == scoreFar {
		t.Errorf("Eval(near monarch) == Eval(far from monarch) == %d, want the proximity/qi heuristics to measurably differ", scoreNear)
	}
}
