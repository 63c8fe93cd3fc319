package engine

import "github.com/hailam/leiserchess/internal/board"

// historyDecay and historyBonus match the reference engine's
// update_best_move_history: every tried move's score decays by 10% each
// update, and the move actually chosen as best gets a flat bonus.
const (
	historyDecay = 0.90
	historyBonus = 11200
)

// numPTypes and numOri size the history table's piece-type and
// orientation axes (spec §4.7.3: "(side, piece_type, to_sq, final
// orientation)").
const (
	numPTypes = 4
	numOri    = 4
	numSquares = 100 // 10x10 mailbox including the sentinel ring
)

// killerTable holds two killer moves per ply (spec §4.7.3).
type killerTable struct {
	moves [maxPly][2]board.Move
}

func (k *killerTable) get(ply int) (board.Move, board.Move) {
	return k.moves[ply][0], k.moves[ply][1]
}

// update shifts mv into slot 0 if it isn't already there, pushing the
// previous slot-0 killer to slot 1.
func (k *killerTable) update(ply int, mv board.Move) {
	if k.moves[ply][0] == mv {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = mv
}

// historyTable is the best-move history heuristic, indexed by side,
// piece type, destination square, and the orientation the piece ends up
// facing after the move (spec §4.7.3).
type historyTable struct {
	scores [2][numPTypes][numSquares][numOri]int
}

func historyFinalOri(pos *board.Position, mv board.Move) board.Orientation {
	before := pos.PieceAt(mv.From).Orientation()
	delta := rotDeltaFor(mv.Rot)
	return board.Orientation((int(before) + delta) % 4)
}

// rotDeltaFor mirrors the generator's rotation-to-orientation-delta map
// without importing an unexported board symbol.
func rotDeltaFor(r board.Rotation) int {
	switch r {
	case board.RotRight:
		return 1
	case board.RotUTurn:
		return 2
	case board.RotLeft:
		return 3
	default:
		return 0
	}
}

func (h *historyTable) score(side board.Color, pos *board.Position, mv board.Move) int {
	ori := historyFinalOri(pos, mv)
	return h.scores[side][mv.Type][mv.To][ori]
}

// update decays every move that was actually tried at this node, and
// adds historyBonus to whichever one was the node's final best move.
func (h *historyTable) update(side board.Color, pos *board.Position, tried []board.Move, bestIdx int) {
	for i, mv := range tried {
		ori := historyFinalOri(pos, mv)
		s := h.scores[side][mv.Type][mv.To][ori]
		if i == bestIdx {
			s += historyBonus
		}
		h.scores[side][mv.Type][mv.To][ori] = int(float64(s) * historyDecay)
	}
}

// orderMoves assigns a sort key to every move in list: the TT hint move
// sorts first, then the two killers, then the per-move history score
// (spec §4.7.3). partial collapses any history score below the floor to
// zero, matching scout_search's cheaper "partial" move list.
func orderMoves(list board.MoveList, side board.Color, pos *board.Position, hist *historyTable, ttMove, killerA, killerB board.Move, partial bool) []board.SortableMove {
	n := list.Len()
	out := make([]board.SortableMove, n)
	for i := 0; i < n; i++ {
		mv := list.Get(i)
		var key board.SortKey
		switch {
		case !ttMove.IsNull() && mv == ttMove:
			key = board.MaxSortKey
		case !killerA.IsNull() && mv == killerA:
			key = board.MaxSortKey - 1
		case !killerB.IsNull() && mv == killerB:
			key = board.MaxSortKey - 2
		default:
			s := hist.score(side, pos, mv)
			if partial && s < 5 {
				s = 0
			}
			if s < 0 {
				s = 0
			}
			key = board.SortKey(s)
		}
		out[i] = board.SortableMove{Key: key, Mv: mv}
	}
	return out
}

// bestMoveIndex returns the index of the highest-keyed move in moves.
func bestMoveIndex(moves []board.SortableMove) int {
	best := 0
	for i := 1; i < len(moves); i++ {
		if moves[i].Key > moves[best].Key {
			best = i
		}
	}
	return best
}

// insertionSort sorts moves descending by key. The reference engine
// relies on an out-of-bounds sentinel at index -1 to terminate its inner
// loop; here the loop's own bound check (hole > 0) serves the same
// purpose without reading past the slice (spec §9).
func insertionSort(moves []board.SortableMove) {
	for j := 1; j < len(moves); j++ {
		insert := moves[j]
		hole := j
		for hole > 0 && insert.Key > moves[hole-1].Key {
			moves[hole] = moves[hole-1]
			hole--
		}
		moves[hole] = insert
	}
}
