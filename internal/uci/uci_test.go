package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/leiserchess/internal/engine"
)

func newTestUCI(t *testing.T) (*UCI, *bytes.Buffer) {
	t.Helper()
	u := New(engine.NewEngine(engine.NewOptions()))
	var buf bytes.Buffer
	u.out = &buf
	return u, &buf
}

// TestHandleMoveAppliesAndReportsVictims covers spec §6/§7's mandatory
// "move victims N" line after a legal move.
func TestHandleMoveAppliesAndReportsVictims(t *testing.T) {
	u, buf := newTestUCI(t)
	u.handleMove([]string{"a1U"})

	out := buf.String()
	if !strings.Contains(out, "move victims 0") {
		t.Errorf("output missing 'move victims 0': %q", out)
	}
	if len(u.game) != 2 {
		t.Errorf("game line length = %d, want 2 after one applied move", len(u.game))
	}
}

// TestHandleMoveRejectsIllegal covers the "-1" victims sentinel for an
// illegal move, and that the game line is left untouched.
func TestHandleMoveRejectsIllegal(t *testing.T) {
	u, buf := newTestUCI(t)
	u.handleMove([]string{"a1a1"}) // not one of a1's generated moves (no U/R/L, no legal displacement here)

	if !strings.Contains(buf.String(), "move victims -1") {
		t.Errorf("output missing 'move victims -1': %q", buf.String())
	}
	if len(u.game) != 1 {
		t.Errorf("game line length = %d, want 1 (move rejected)", len(u.game))
	}
}

// TestHandleUndoPopsGameLine covers the undo/move round trip.
func TestHandleUndoPopsGameLine(t *testing.T) {
	u, _ := newTestUCI(t)
	u.handleMove([]string{"a1U"})
	if len(u.game) != 2 {
		t.Fatalf("setup: expected game line length 2, got %d", len(u.game))
	}
	u.handleUndo()
	if len(u.game) != 1 {
		t.Errorf("game line length = %d, want 1 after undo", len(u.game))
	}
	if len(u.history) != 0 {
		t.Errorf("history length = %d, want 0 after undo", len(u.history))
	}
}

// TestHandlePositionStartposMoves covers "position startpos moves ...".
func TestHandlePositionStartposMoves(t *testing.T) {
	u, _ := newTestUCI(t)
	u.handlePosition([]string{"startpos", "moves", "a1U"})
	if len(u.game) != 2 {
		t.Errorf("game line length = %d, want 2 after one move in the position command", len(u.game))
	}
}

// TestHandleSetOptionClampsAndReports covers spec §7: out-of-range values
// are clamped, not rejected.
func TestHandleSetOptionClampsAndReports(t *testing.T) {
	u, buf := newTestUCI(t)
	u.handleSetOption([]string{"name", "fut_depth", "value", "99"})

	got, ok := u.eng.Options().Get("fut_depth")
	if !ok {
		t.Fatalf("fut_depth option not found")
	}
	if got != 5 { // fut_depth's max per options.go
		t.Errorf("fut_depth = %d, want clamped to 5", got)
	}
	if !strings.Contains(buf.String(), "info setting fut_depth to 5") {
		t.Errorf("output missing confirmation line: %q", buf.String())
	}
}

// TestHandleSetOptionUnknownNameReported covers the "not recognized"
// path for an unknown option name.
func TestHandleSetOptionUnknownNameReported(t *testing.T) {
	u, buf := newTestUCI(t)
	u.handleSetOption([]string{"name", "not_a_real_option", "value", "1"})
	if !strings.Contains(buf.String(), "unknown option") {
		t.Errorf("output missing unknown-option diagnostic: %q", buf.String())
	}
}

// TestPrintStatusOK covers the "status ok" case for a fresh position.
func TestPrintStatusOK(t *testing.T) {
	u, buf := newTestUCI(t)
	u.printStatus()
	if strings.TrimSpace(buf.String()) != "status ok" {
		t.Errorf("status = %q, want \"status ok\"", buf.String())
	}
}
