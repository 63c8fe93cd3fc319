package board

import "testing"

func TestZobristRoundTrip(t *testing.T) {
	pos, err := ParseFEN(StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got, want := pos.Key, pos.ComputeKey(); got != want {
		t.Fatalf("fresh position key %x != recomputed %x", got, want)
	}

	moves := Generate(pos)
	for i := 0; i < moves.Len(); i++ {
		np, _ := ApplyMove(pos, moves.Get(i))
		if got, want := np.Key, np.ComputeKey(); got != want {
			t.Errorf("move %v: incremental key %x != recomputed %x", moves.Get(i), got, want)
		}
	}
}

func TestOccupancyMatchesPopCount(t *testing.T) {
	pos, err := ParseFEN(StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for c := White; c <= Black; c++ {
		want := 0
		for sq := 0; sq < arrSize; sq++ {
			s := Square(sq)
			if !s.OnBoard() {
				continue
			}
			pc := pos.Board[sq]
			if pc.Color() == c && (pc.Type() == Pawn || pc.Type() == Monarch) {
				want++
			}
		}
		if got := pos.Occ[c].PopCount(); got != want {
			t.Errorf("color %v: occupancy popcount %d != board scan %d", c, got, want)
		}
	}
}

func TestSentinelRingInvariant(t *testing.T) {
	pos := NewEmptyPosition()
	for sq := 0; sq < arrSize; sq++ {
		s := Square(sq)
		if s.OnBoard() {
			continue
		}
		if !pos.Board[sq].IsInvalid() {
			t.Errorf("sentinel square %d is not INVALID", sq)
		}
	}
	pos.Validate()
}

func TestApplyMoveReversibility(t *testing.T) {
	pos, err := ParseFEN(StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := Generate(pos)
	for i := 0; i < moves.Len(); i++ {
		mv := moves.Get(i)
		np, _ := ApplyMove(pos, mv)
		if np.History != pos {
			t.Fatalf("move %v: History does not point back to the parent", mv)
		}
		if np.LastMove != mv {
			t.Errorf("move %v: LastMove = %v, want %v", mv, np.LastMove, mv)
		}
		np.Validate()
	}
}

func TestNullShotLegalityAndUniqueness(t *testing.T) {
	pos, err := ParseFEN("7nn/8/8/8/8/8/8/7NN W")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := Generate(pos)
	nullShots := 0
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).IsNullShot() {
			nullShots++
		}
	}
	if FireLasers(pos, White) == 0 {
		t.Fatalf("expected white's north-facing monarch to hit the black monarch on h7")
	}
	if nullShots != 1 {
		t.Errorf("expected exactly 1 null-shot move, got %d", nullShots)
	}
}

// TestLaserMate covers spec scenario S4: a lone white Monarch facing its
// counterpart at the far end of the same file wins on the spot with a
// null-shot.
func TestLaserMate(t *testing.T) {
	pos, err := ParseFEN("7nn/8/8/8/8/8/8/7NN W")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	mv, err := ParseMove("h0h0", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	np, victims := MakeMove(pos, mv)
	if victims.IsIllegal() {
		t.Fatalf("h0h0 rejected as illegal")
	}
	if victims.Count != 1 {
		t.Errorf("victims.Count = %d, want 1", victims.Count)
	}
	if !victims.RemovedColor[Black] {
		t.Errorf("expected RemovedColor[Black] = true")
	}
	if over, winner := np.GameOver(); !over || winner != White {
		t.Errorf("GameOver() = (%v, %v), want (true, White)", over, winner)
	}
}

func TestSideToMoveToggles(t *testing.T) {
	pos, err := ParseFEN(StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.SideToMove() != White {
		t.Fatalf("startpos side to move = %v, want White", pos.SideToMove())
	}
	moves := Generate(pos)
	mv := moves.Get(0)
	np, _ := ApplyMove(pos, mv)
	if np.SideToMove() != Black {
		t.Errorf("after one move, side to move = %v, want Black", np.SideToMove())
	}
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range []string{StartposFEN, EndgameFEN} {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		again, err := ParseFEN(toBoardText(pos) + " " + sideLetter(pos))
		if err != nil {
			t.Fatalf("re-parsing rendered FEN: %v", err)
		}
		if again.Key != pos.Key {
			t.Errorf("fen %q: key mismatch after round trip", fen)
		}
		if toBoardText(again) != toBoardText(pos) {
			t.Errorf("fen %q: board text mismatch after round trip", fen)
		}
	}
}

func sideLetter(p *Position) string {
	if p.SideToMove() == Black {
		return "B"
	}
	return "W"
}

func TestMoveTextRoundTrip(t *testing.T) {
	pos, err := ParseFEN(StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := Generate(pos)
	for i := 0; i < moves.Len(); i++ {
		mv := moves.Get(i)
		text := mv.String()
		from, to, rot, err := ParseMoveText(text)
		if err != nil {
			t.Fatalf("move %v -> %q: parse error: %v", mv, text, err)
		}
		if from != mv.From || to != mv.To || rot != mv.Rot {
			t.Errorf("move %v round-tripped through %q as (%v,%v,%v)", mv, text, from, to, rot)
		}
	}
}
