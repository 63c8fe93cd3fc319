package engine

import (
	"sync/atomic"

	"github.com/hailam/leiserchess/internal/board"
)

// abdadaSets/abdadaWays size the shared "moves being searched" table
// (spec §5: MBS_SET = 32768 sets x MBS_WAY = 4 slots).
const (
	abdadaSets = 32768
	abdadaWays = 4
)

// movesBeingSearched is the ABDADA deferral table: workers volatile-store
// a 32-bit move hash while they search it, so siblings searching the same
// position can defer duplicate work to a second pass instead of racing
// it. Races are benign — a stale read only costs extra work, never
// correctness (spec §5).
type movesBeingSearched struct {
	slots [abdadaSets][abdadaWays]atomic.Uint32
}

func newMovesBeingSearched() *movesBeingSearched {
	return &movesBeingSearched{}
}

func moveHash32(mv board.Move) uint32 {
	return uint32(mv.Type) | uint32(mv.Rot)<<2 | uint32(mv.From)<<4 | uint32(mv.To)<<12
}

func abdadaIndex(posKey uint64, mv board.Move) uint64 {
	return (posKey ^ uint64(moveHash32(mv))) & (abdadaSets - 1)
}

// IsSearching reports whether another worker currently holds mv at posKey.
func (m *movesBeingSearched) IsSearching(posKey uint64, mv board.Move) bool {
	idx := abdadaIndex(posKey, mv)
	hash := moveHash32(mv)
	for i := 0; i < abdadaWays; i++ {
		if m.slots[idx][i].Load() == hash {
			return true
		}
	}
	return false
}

// Set marks mv at posKey as being searched, claiming the first free slot
// (or overwriting slot 0 if the set is full).
func (m *movesBeingSearched) Set(posKey uint64, mv board.Move) {
	idx := abdadaIndex(posKey, mv)
	hash := moveHash32(mv)
	for i := 0; i < abdadaWays; i++ {
		if m.slots[idx][i].CompareAndSwap(0, hash) {
			return
		}
	}
	m.slots[idx][0].Store(hash)
}

// Finish clears mv at posKey once a worker is done searching it.
func (m *movesBeingSearched) Finish(posKey uint64, mv board.Move) {
	idx := abdadaIndex(posKey, mv)
	hash := moveHash32(mv)
	for i := 0; i < abdadaWays; i++ {
		m.slots[idx][i].CompareAndSwap(hash, 0)
	}
}
