// Package book implements the engine's compile-time opening book: a flat
// table of (move-history-string, best-move) pairs, one table per ply depth
// up to MaxDepth. Unlike a Polyglot file keyed by Zobrist hash, this book
// is keyed by the literal concatenation of the game's move texts so far —
// "b1R", not "b1b1R" — since the reference book was authored against a
// fixed opening line, not a general position index.
package book

import (
	"strings"

	"github.com/hailam/leiserchess/internal/board"
)

// MaxDepth is the number of plies the book covers; Probe never answers
// for a history of MaxDepth plies or deeper.
const MaxDepth = 4

// Book holds the flat lookup tables, one per ply depth.
type Book struct {
	tables [MaxDepth]map[string]string
}

// New returns a Book populated with the compiled-in opening lines.
func New() *Book {
	return &Book{tables: [MaxDepth]map[string]string{
		depth1,
		depth2,
		depth3,
		depth4,
	}}
}

// historyKey concatenates each move's move-text bare, with no separator.
func historyKey(moves []board.Move) string {
	var b strings.Builder
	for _, mv := range moves {
		b.WriteString(mv.String())
	}
	return b.String()
}

// Probe looks up the best reply to a game history of moves (len(moves)
// must be 0..MaxDepth-1 for a hit to be possible) from pos, the position
// reached after playing them. It returns false if the history is too deep
// for the book or the exact line isn't in it.
func (b *Book) Probe(moves []board.Move, pos *board.Position) (board.Move, bool) {
	if len(moves) >= MaxDepth {
		return board.NullMove, false
	}
	text, ok := b.tables[len(moves)][historyKey(moves)]
	if !ok {
		return board.NullMove, false
	}
	mv, err := board.ParseMove(text, pos)
	if err != nil {
		return board.NullMove, false
	}
	return mv, true
}

var depth1 = map[string]string{
	"": "a1U",
}

var depth2 = map[string]string{
	"b1a2": "a6U", "b1b2": "a7b6", "b1c2": "a7b6", "b1c1": "a7b6",
	"b1a1": "a7b6", "b1R": "a6L", "b1U": "a7a6", "b1L": "a7a6",
	"d1c1": "a7a6", "d1R": "a7a6", "d1U": "a7a6", "d1L": "a7a6",
	"d1c2": "a7a6", "d1d2": "a7a6", "d1e2": "a7a6", "d1e1": "a7a6",
	"a1b2": "a6U", "a1R": "a7L", "a1U": "a7b6", "a1L": "a7a6",
	"g1h2": "h6U", "g1g2": "h7g6", "g1f2": "h7g6", "g1f1": "h7g6",
	"g1h1": "h7g6", "g1L": "h6R", "g1U": "h7h6", "g1R": "h7h6",
	"e1f1": "h7h6", "e1L": "h7h6", "e1U": "h7h6", "e1R": "h6g5",
	"e1f2": "h7h6", "e1e2": "h7h6", "e1d2": "h7h6", "e1d1": "h7h6",
	"h1g2": "h6U", "h1L": "h7R", "h1U": "h7g6", "h1R": "h7h6",
	"h0g1": "a7a6", "a0b1": "h7g6",
	"h0h1": "a6b5", "a0a1": "h6g5", "h0L": "a7a6", "a0R": "h7h6",
}

var depth3 = map[string]string{
	"b1a2a6U": "a0b1", "b1b2a7b6": "a0a1", "b1c2a7b6": "a1U", "b1c1a7b6": "h0g1",
	"d1c2a7a6": "b1R", "d1d2a7a6": "b1c2", "d1e2a7a6": "h0g1", "d1e1a7a6": "h0g1",
	"b1a1a7b6": "h0h1", "b1Ra6L": "d1c2", "b1Ua7a6": "a0b0", "b1La7a6": "a1b0",
	"d1c1a7a6": "a1a2", "d1Ra7a6": "h0g1", "d1Ua7a6": "h0g1", "d1La7b6": "h0g1",
	"g1h2h6U": "h0g1", "g1g2h7g6": "h0h1", "g1f2h7g6": "h1U", "g1f1h7g6": "a0b1",
	"e1f2h7h6": "g1L", "e1e2h7h6": "g1f2", "e1d2h7h6": "a0b1", "e1d1h7h6": "a0b1",
	"g1h1h7g6": "a0a1", "g1Lh6R": "e1f2", "g1Uh7h6": "h0g0", "g1Rh7h6": "h1g0",
	"e1f1h7h6": "h1h2", "e1Lh7h6": "a0b1", "e1Uh7h6": "a0b1", "e1Rh7g6": "a0b1",
	"a1b2a6U": "a0b1", "a1Ra7L": "a0a1", "a1Ua7b7": "a0U", "a1La7a6": "a1a2",
	"h1g2h6U": "h0g1", "h1Lh7R": "h0h1", "h1Uh7g7": "h0U", "h1Rh7h6": "h1h2",
	"a0b1h7g6": "h0R", "h0g1a7a6": "a0L", "a1b2h7g6": "a0U", "h1g2a7b6": "h0U",
	"h0h1a6b5": "h1R", "a0a1h6g5": "a1L", "h0La7b6": "h1g2", "a0Rh7h6": "a1b2",
	"a1Ua7b6": "a0U",
}

var depth4 = map[string]string{
	"a0b1h7g6a0R": "a7R",
}
