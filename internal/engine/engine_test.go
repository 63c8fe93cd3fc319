package engine

import (
	"testing"
	"time"

	"github.com/hailam/leiserchess/internal/board"
)

func legalMoveSet(t *testing.T, pos *board.Position) map[board.Move]bool {
	t.Helper()
	list := board.Generate(pos)
	set := make(map[board.Move]bool, list.Len())
	for i := 0; i < list.Len(); i++ {
		set[list.Get(i)] = true
	}
	return set
}

// TestSearchReturnsLegalMove covers spec scenario: a shallow search from
// the starting position always returns one of the position's own
// pseudo-legal moves.
func TestSearchReturnsLegalMove(t *testing.T) {
	pos, err := board.ParseFEN(board.StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	eng := NewEngine(NewOptions())
	result := eng.Search(pos, 2, time.Second)

	if result.Move.IsNull() {
		t.Fatalf("Search returned the null move")
	}
	if legal := legalMoveSet(t, pos); !legal[result.Move] {
		t.Errorf("Search returned %v, which is not in the legal move list", result.Move)
	}
	if result.Depth < 1 {
		t.Errorf("Depth = %d, want >= 1", result.Depth)
	}
}

// TestSearchZeroBudgetStillReturnsDepthOne covers spec §4.8's boundary
// case: even a zero time budget must complete the first iterative-
// deepening depth and return a usable move, since the abort check only
// fires every abortCheckPeriod nodes and depth 1 from the starting
// position never reaches that many.
func TestSearchZeroBudgetStillReturnsDepthOne(t *testing.T) {
	pos, err := board.ParseFEN(board.StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	eng := NewEngine(NewOptions())
	result := eng.Search(pos, 1, 0)

	if result.Move.IsNull() {
		t.Fatalf("Search with a zero budget returned no move")
	}
	if legal := legalMoveSet(t, pos); !legal[result.Move] {
		t.Errorf("Search returned %v, which is not in the legal move list", result.Move)
	}
}

// TestIsDrawDetectsStallRule covers the 2*NMovesDraw plies-since-victim
// stall rule (spec §4.7.4) via the engine's exported wrapper.
func TestIsDrawDetectsStallRule(t *testing.T) {
	pos, err := board.ParseFEN(board.StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	opts := NewOptions()
	opts.NMovesDraw = 5
	eng := NewEngine(opts)

	pos.PliesSinceVictim = 2 * opts.NMovesDraw
	if !eng.IsDraw(pos) {
		t.Errorf("expected a stall-rule draw at PliesSinceVictim=%d", pos.PliesSinceVictim)
	}

	pos.PliesSinceVictim = 2*opts.NMovesDraw - 1
	if eng.IsDraw(pos) {
		t.Errorf("did not expect a draw at PliesSinceVictim=%d", pos.PliesSinceVictim)
	}
}

// TestGameOverDetectsMonarchWipeout covers spec §1: reducing a side to
// zero live Monarchs ends the game unconditionally.
func TestGameOverDetectsMonarchWipeout(t *testing.T) {
	pos, err := board.ParseFEN("7nn/8/8/8/8/8/8/7NN W")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	np := pos.Copy()
	np.Board[board.NewSquare(6, 7)] = board.NoPiece
	np.Board[board.NewSquare(7, 7)] = board.NoPiece
	np.Monarchs[board.Black][0] = board.NoSquare
	np.Monarchs[board.Black][1] = board.NoSquare

	over, winner := np.GameOver()
	if !over || winner != board.White {
		t.Errorf("GameOver() = (%v, %v), want (true, White)", over, winner)
	}
}
