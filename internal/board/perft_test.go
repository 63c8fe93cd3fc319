package board

import "testing"

func TestPerftStartingPosition(t *testing.T) {
	pos, err := ParseFEN(StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{0, 1},
		{1, 66},
		{2, 4226},
		// Deeper levels are exercised in TestPerftStartingPositionDeep; kept
		// separate so `go test -short` stays fast.
	}
	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if got := Perft(pos, tc.depth); got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

func TestPerftStartingPositionDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	pos, err := ParseFEN(StartposFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	tests := []struct {
		depth    int
		expected int64
	}{
		{3, 267674},
		{4, 17024694},
		{5, 1071907988},
	}
	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if got := Perft(pos, tc.depth); got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}
