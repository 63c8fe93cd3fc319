package board

import "fmt"

// Rotation is a turn's in-place rotation component.
type Rotation uint8

const (
	RotNone Rotation = iota
	RotRight
	RotUTurn
	RotLeft
	NumRot
)

func (r Rotation) String() string {
	switch r {
	case RotRight:
		return "R"
	case RotUTurn:
		return "U"
	case RotLeft:
		return "L"
	default:
		return ""
	}
}

// Move is a single turn: a displacement, an in-place rotation, or a
// stationary null-shot. Type is purely informational (the piece kind
// that moved); it is not required to validate or apply the move.
type Move struct {
	Type PType
	Rot  Rotation
	From Square
	To   Square
}

// NullMove is the all-zero sentinel used where "no move" is needed.
var NullMove = Move{}

// IsNull reports whether mv is the all-zero sentinel.
func (mv Move) IsNull() bool { return mv == NullMove }

// IsRotation reports whether mv is a stationary in-place rotation.
func (mv Move) IsRotation() bool { return mv.From == mv.To && mv.Rot != RotNone }

// IsDisplacement reports whether mv moves a piece to a different square.
func (mv Move) IsDisplacement() bool { return mv.From != mv.To }

// IsNullShot reports whether mv is a stationary, non-rotating "fire only"
// move (from == to, no rotation, and not the zero sentinel).
func (mv Move) IsNullShot() bool { return mv.From == mv.To && mv.Rot == RotNone && !mv.IsNull() }

// String renders the move-text encoding of §6: source square, then
// either the destination square (displacement) or a rotation letter; a
// stationary null-shot repeats the source square.
func (mv Move) String() string {
	if mv.From != mv.To {
		return mv.From.String() + mv.To.String()
	}
	switch mv.Rot {
	case RotNone:
		return mv.From.String() + mv.To.String()
	default:
		return mv.From.String() + mv.Rot.String()
	}
}

// ParseMoveText parses the move-text encoding of §6 into its square and
// rotation components, without resolving a piece type.
func ParseMoveText(s string) (from, to Square, rot Rotation, err error) {
	if len(s) < 3 {
		return NoSquare, NoSquare, RotNone, fmt.Errorf("move text too short: %q", s)
	}
	from, err = ParseSquare(s[:2])
	if err != nil {
		return NoSquare, NoSquare, RotNone, err
	}
	rest := s[2:]
	switch rest {
	case "R":
		return from, from, RotRight, nil
	case "U":
		return from, from, RotUTurn, nil
	case "L":
		return from, from, RotLeft, nil
	default:
		to, err = ParseSquare(rest)
		if err != nil {
			return NoSquare, NoSquare, RotNone, fmt.Errorf("invalid move text %q: %w", s, err)
		}
		return from, to, RotNone, nil
	}
}

// ParseMove parses move text and resolves its informational Type field
// from the piece occupying the source square in pos.
func ParseMove(s string, pos *Position) (Move, error) {
	from, to, rot, err := ParseMoveText(s)
	if err != nil {
		return NullMove, err
	}
	t := pos.PieceAt(from).Type()
	return Move{Type: t, Rot: rot, From: from, To: to}, nil
}

// MaxMovesPerPosition bounds the move list: at most 8 pieces * (8
// directions + 3 rotations) + 1 null-shot = 89 moves are generated, so
// 256 comfortably exceeds any reachable move count.
const MaxMovesPerPosition = 256

// MoveList is a fixed-capacity move buffer, avoiding per-node allocation
// in the hot search path.
type MoveList struct {
	moves [MaxMovesPerPosition]Move
	n     int
}

// Add appends a move to the list.
func (l *MoveList) Add(mv Move) {
	l.moves[l.n] = mv
	l.n++
}

// Len returns the number of moves in the list.
func (l *MoveList) Len() int { return l.n }

// Get returns the move at index i.
func (l *MoveList) Get(i int) Move { return l.moves[i] }

// Set overwrites the move at index i.
func (l *MoveList) Set(i int, mv Move) { l.moves[i] = mv }

// Swap exchanges the moves at i and j.
func (l *MoveList) Swap(i, j int) { l.moves[i], l.moves[j] = l.moves[j], l.moves[i] }

// Clear empties the list without releasing its backing array.
func (l *MoveList) Clear() { l.n = 0 }

// Slice returns the populated portion of the list as a slice. The slice
// aliases the list's backing array and is only valid until the next Add.
func (l *MoveList) Slice() []Move { return l.moves[:l.n] }

// SortKey is the 32-bit ordering key paired with a move during search
// move-ordering (§3 "Sortable move", §4.7.3).
type SortKey uint32

// MaxSortKey is reserved for the TT-hint move. No sentinel entry is
// needed for sorting: the engine's insertion sort bounds its inner loop
// with an index check instead of an "index -1" out-of-bounds read.
const MaxSortKey SortKey = ^SortKey(0)

// SortableMove pairs a move with its ordering key.
type SortableMove struct {
	Key SortKey
	Mv  Move
}
