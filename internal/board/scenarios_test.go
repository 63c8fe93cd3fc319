package board

import "testing"

// TestEndgameGeneration covers spec scenario S3: loading the endgame FEN
// yields at least one displacement and one rotation per own Monarch.
func TestEndgameGeneration(t *testing.T) {
	pos, err := ParseFEN(EndgameFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	moves := Generate(pos)
	var displacements, rotations int
	for i := 0; i < moves.Len(); i++ {
		mv := moves.Get(i)
		if mv.Type != Monarch {
			continue
		}
		switch {
		case mv.IsRotation():
			rotations++
		case mv.IsDisplacement():
			displacements++
		}
	}
	if displacements == 0 {
		t.Errorf("expected at least one Monarch displacement, got 0")
	}
	if rotations == 0 {
		t.Errorf("expected at least one Monarch rotation, got 0")
	}
}

// TestBlunderFilter covers spec scenario S5: a move whose laser strikes
// only the mover's own piece is flagged as a blunder.
func TestBlunderFilter(t *testing.T) {
	// White monarch at a0 facing east fires straight into its own pawn at
	// b0, striking its unreflective back; no black piece is anywhere on
	// the ray.
	pos, err := ParseFEN("7nn/8/8/8/8/8/8/EESE6 W")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	mv, err := ParseMove("a0a0", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	np, victims := MakeMove(pos, mv)
	if victims.IsIllegal() {
		t.Fatalf("a0a0 rejected as illegal")
	}
	if !victims.IsBlunder(White) {
		t.Errorf("expected a White blunder: victims=%+v", victims)
	}
	if !victims.RemovedColor[White] || victims.RemovedColor[Black] {
		t.Errorf("expected RemovedColor = [true,false], got %+v", victims.RemovedColor)
	}
	_ = np
}

// TestRepetitionViaRotation covers spec scenario S6: four rotation-only
// moves returning both sides' Monarchs to their starting orientation
// three times are detectable via repeated Zobrist keys.
func TestRepetitionViaRotation(t *testing.T) {
	// The Monarchs share no rank or file, so no orientation reached along
	// the way lets either laser hit anything.
	pos, err := ParseFEN("7nn/8/8/8/8/8/8/NN7 W")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	seen := map[uint64]int{pos.Key: 1}
	cur := pos
	// Four RIGHT turns return a Monarch to its starting orientation; one
	// full cycle alternates both sides 4 times each (8 plies) and restores
	// the exact starting position. Three cycles exercise three recurrences.
	cycle := []string{"a0R", "h7R", "a0R", "h7R", "a0R", "h7R", "a0R", "h7R"}
	var sequence []string
	for i := 0; i < 3; i++ {
		sequence = append(sequence, cycle...)
	}
	for _, s := range sequence {
		mv, err := ParseMove(s, cur)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		np, v := MakeMove(cur, mv)
		if v.IsIllegal() {
			t.Fatalf("move %q rejected as illegal", s)
		}
		cur = np
		seen[cur.Key]++
	}
	if seen[pos.Key] < 3 {
		t.Errorf("expected the starting key to recur at least 3 times, saw it %d times", seen[pos.Key])
	}
}
