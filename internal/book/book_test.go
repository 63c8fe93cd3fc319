package book

import (
	"testing"

	"github.com/hailam/leiserchess/internal/board"
)

// TestProbeOpeningMove covers the book's first-move reply: an empty
// history at the starting position always hits the depth-1 table.
func TestProbeOpeningMove(t *testing.T) {
	pos, err := board.ParseFEN(board.StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	b := New()
	mv, ok := b.Probe(nil, pos)
	if !ok {
		t.Fatalf("Probe: expected a hit for the empty history")
	}
	if mv.String() != "a1U" {
		t.Errorf("Probe() = %v, want a1U", mv)
	}
}

// TestProbeMissesPastMaxDepth covers the book's documented bound: once
// the history reaches MaxDepth plies, Probe never answers.
func TestProbeMissesPastMaxDepth(t *testing.T) {
	pos, err := board.ParseFEN(board.StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	b := New()
	history := make([]board.Move, MaxDepth)
	if _, ok := b.Probe(history, pos); ok {
		t.Errorf("Probe: expected a miss at MaxDepth history length")
	}
}

// TestProbeMissesUnknownLine covers a history that doesn't match any
// compiled-in opening line.
func TestProbeMissesUnknownLine(t *testing.T) {
	pos, err := board.ParseFEN(board.StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	b := New()
	mv := board.Move{Type: board.Monarch, From: board.NewSquare(0, 0), To: board.NewSquare(0, 0)}
	if _, ok := b.Probe([]board.Move{mv}, pos); ok {
		t.Errorf("Probe: expected a miss for an unrecognized line")
	}
}
