package engine

import (
	"testing"

	"github.com/hailam/leiserchess/internal/board"
)

// TestTTRoundTrip covers spec scenario: a stored record is retrievable by
// its key, with its move, bound, and depth preserved.
func TestTTRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	mv := board.Move{Type: board.Monarch, From: board.NewSquare(0, 0), To: board.NewSquare(1, 0)}
	tt.Put(0xdeadbeef, 4, 123, BoundExact, mv)

	rec, ok := tt.Get(0xdeadbeef)
	if !ok {
		t.Fatalf("Get: record not found")
	}
	if rec.move() != mv {
		t.Errorf("move = %+v, want %+v", rec.move(), mv)
	}
	if rec.score() != 123 {
		t.Errorf("score = %d, want 123", rec.score())
	}
	if rec.bound() != BoundExact {
		t.Errorf("bound = %v, want BoundExact", rec.bound())
	}
	if rec.quality() != 4 {
		t.Errorf("quality = %d, want 4", rec.quality())
	}
}

// TestTTMissReportsNotFound covers the common "no entry yet" case.
func TestTTMissReportsNotFound(t *testing.T) {
	tt := NewTranspositionTable(1)
	if _, ok := tt.Get(0x12345); ok {
		t.Errorf("Get on an empty table reported a hit")
	}
}

// TestTTNullMovePreservesExistingMove covers Put's documented rule: a
// bound-only write (null move) never clobbers a previously stored best
// move for the same key.
func TestTTNullMovePreservesExistingMove(t *testing.T) {
	tt := NewTranspositionTable(1)
	mv := board.Move{Type: board.Pawn, From: board.NewSquare(2, 2), To: board.NewSquare(3, 3)}
	tt.Put(7, 2, 50, BoundExact, mv)
	tt.Put(7, 3, 60, BoundUpper, board.NullMove)

	rec, ok := tt.Get(7)
	if !ok {
		t.Fatalf("Get: record not found")
	}
	if rec.move() != mv {
		t.Errorf("move = %+v, want preserved %+v", rec.move(), mv)
	}
	if rec.bound() != BoundUpper || rec.score() != 60 {
		t.Errorf("bound/score not updated: bound=%v score=%d", rec.bound(), rec.score())
	}
}

// TestRoundUpPow2 covers the sizing helper the reference engine uses to
// round a requested hash size UP to a power of two.
func TestRoundUpPow2(t *testing.T) {
	cases := map[uint64]uint64{
		0:  1,
		1:  1,
		2:  2,
		3:  4,
		5:  8,
		16: 16,
		17: 32,
	}
	for n, want := range cases {
		if got := roundUpPow2(n); got != want {
			t.Errorf("roundUpPow2(%d) = %d, want %d", n, got, want)
		}
	}
}
