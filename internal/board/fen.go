package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartposFEN is the standard Leiserchess starting position.
const StartposFEN = "nn6nn/sesw1sesw1sesw/8/8/8/8/NENW1NENW1NENW/SS6SS W"

// EndgameFEN is a small two-Monarch endgame position used for smoke
// testing the evaluator and generator against a sparse board.
const EndgameFEN = "ss7/8/8/8/8/8/8/7NN W"

// toBoardText renders the FEN-like board text of spec §6: ranks from top
// (7) to bottom (0), '/'-separated, two-character piece tokens, runs of
// empty squares collapsed to a decimal count.
func toBoardText(p *Position) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empties := 0
		for file := 0; file < 8; file++ {
			pc := p.Board[NewSquare(file, rank)]
			if pc.IsEmpty() {
				empties++
				continue
			}
			if empties > 0 {
				sb.WriteString(strconv.Itoa(empties))
				empties = 0
			}
			sb.WriteString(pc.String())
		}
		if empties > 0 {
			sb.WriteString(strconv.Itoa(empties))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ToFEN renders the full FEN-like record: board text, a space, the side
// to move ('W'/'B'), and (if lastMove is non-null) a space followed by
// the last move's text, used to restore LastMove for repetition
// detection across a save/load round trip.
func ToFEN(p *Position) string {
	side := "W"
	if p.SideToMove() == Black {
		side = "B"
	}
	s := toBoardText(p) + " " + side
	if !p.LastMove.IsNull() {
		s += " " + p.LastMove.String()
	}
	return s
}

// ParseFEN parses the FEN-like record of spec §6 into a fresh Position.
// The Zobrist key is always recomputed from scratch, matching the
// reference engine's "key is recomputed from scratch only after FEN
// parsing" rule.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("fen: expected at least board and side-to-move fields, got %q", fen)
	}

	p := NewEmptyPosition()
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: expected 8 ranks, got %d in %q", len(ranks), fields[0])
	}

	for i, rankText := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankText); {
			c := rankText[j]
			if c >= '1' && c <= '9' {
				// A run may be a single digit, or the two-character "10"
				// (on this 8-file board a "10" run always overflows the
				// rank and is rejected below).
				n := int(c - '0')
				if c == '1' && j+1 < len(rankText) && rankText[j+1] == '0' {
					n = 10
					j++
				}
				file += n
				j++
				continue
			}
			if j+1 >= len(rankText) {
				return nil, fmt.Errorf("fen: truncated piece token in rank %q", rankText)
			}
			tok := rankText[j : j+2]
			pc, ok := PieceFromToken(tok)
			if !ok {
				return nil, fmt.Errorf("fen: unrecognized piece token %q", tok)
			}
			if file > 7 {
				return nil, fmt.Errorf("fen: rank %q overflows 8 files", rankText)
			}
			p.setPiece(NewSquare(file, rank), pc)
			file++
			j += 2
		}
		if file != 8 {
			return nil, fmt.Errorf("fen: rank %q does not cover 8 files (got %d)", rankText, file)
		}
	}

	switch fields[1] {
	case "W":
		p.Ply = 0
	case "B":
		p.Ply = 1
	default:
		return nil, fmt.Errorf("fen: side to move must be W or B, got %q", fields[1])
	}

	if len(fields) >= 3 {
		mv, err := ParseMove(fields[2], p)
		if err != nil {
			return nil, fmt.Errorf("fen: bad last-move tail: %w", err)
		}
		p.LastMove = mv
	}

	p.Key = p.ComputeKey()
	return p, nil
}
