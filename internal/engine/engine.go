package engine

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hailam/leiserchess/internal/board"
)

// NumWorkers is the number of parallel search workers.
var NumWorkers = runtime.GOMAXPROCS(0)

// SearchInfo is reported once per completed iterative-deepening depth.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchResult is the outcome of one top-level Search call: the best move
// found, its score, and the depth actually completed (which may be less
// than MaxDepth if the soft deadline cut iterative deepening short). If even
// the first depth was interrupted by the hard deadline, the result is the
// zero value: Depth 0 and a null Move.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
	Nodes uint64
}

// Engine is the top-level search coordinator. Every depth of iterative
// deepening is a fork-join round: all workers are launched against that
// depth, the coordinator blocks until every one of them returns, and only
// then does it decide whether to start the next depth (spec §5 — a
// barrier at each depth, not continuous depth-staggered Lazy-SMP).
type Engine struct {
	tt     *TranspositionTable
	abdada *movesBeingSearched
	opts   *Options

	workers []*Worker

	bestMu sync.Mutex
	best   [maxPly]board.Move
	score  int

	abort atomic.Bool

	OnInfo func(SearchInfo)
}

// NewEngine allocates a coordinator with a TT sized to opts.Hash megabytes
// and NumWorkers workers sharing it and the ABDADA deferral table.
func NewEngine(opts *Options) *Engine {
	e := &Engine{
		tt:     NewTranspositionTable(opts.Hash),
		abdada: newMovesBeingSearched(),
		opts:   opts,
	}
	e.workers = make([]*Worker, NumWorkers)
	for i := range e.workers {
		seed := int64(i*2654435761 + 1)
		e.workers[i] = NewWorker(i, e.tt, e.abdada, opts, &e.abort, seed)
	}
	e.score = -InfScore
	return e
}

// MaxDepth bounds the iterative-deepening ladder when the caller doesn't
// otherwise limit it.
const MaxDepth = 99

// Search runs iterative deepening from depth 1 up to maxDepth (or
// MaxDepth, whichever is smaller), stopping early once budget's soft
// deadline has passed, or immediately if the hard deadline fires mid-depth
// (in which case the previous completed depth's result is returned; spec
// §4.8).
func (e *Engine) Search(pos *board.Position, maxDepth int, budget time.Duration) SearchResult {
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	e.abort.Store(false)
	e.tt.Clear()
	for _, w := range e.workers {
		w.Reset()
	}

	tm := NewTimeManager(budget)
	for _, w := range e.workers {
		w.SetDeadline(tm.HardDeadline())
	}

	var result SearchResult
	start := time.Now()

	for depth := 1; depth <= maxDepth; depth++ {
		e.tt.NewSearch()

		var pv [maxPly]board.Move
		var score int
		var nodes uint64
		completed := e.runDepthBarrier(pos, depth, &pv, &score, &nodes)

		if !completed {
			break
		}

		result = SearchResult{
			Move:  pv[0],
			Score: score,
			PV:    trimPV(pv),
			Depth: depth,
			Nodes: nodes,
		}

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: nodes,
				Time:  time.Since(start),
				PV:    result.PV,
			})
		}

		if absScore(score) >= WinScore-int(maxPly) {
			break
		}
		if tm.PastSoft() {
			break
		}
	}

	return result
}

// runDepthBarrier launches every worker against one depth and blocks until
// all of them return (spec §5's fork-join round). Each worker searches the
// full root window independently; ABDADA deferral and the shared TT are
// what keep them from duplicating all of each other's work. The highest
// score wins the shared best-move slot ("strictly greater score wins");
// ties keep whichever worker wrote first.
func (e *Engine) runDepthBarrier(pos *board.Position, depth int, pv *[maxPly]board.Move, score *int, nodes *uint64) bool {
	var wg sync.WaitGroup
	anyAborted := atomic.Bool{}

	for _, w := range e.workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			var localPV [maxPly]board.Move
			s := w.SearchRoot(pos, -InfScore, InfScore, depth, 0, &localPV)
			if e.abort.Load() {
				anyAborted.Store(true)
				return
			}
			e.bestMu.Lock()
			if s > e.score {
				e.score = s
				e.best = localPV
			}
			e.bestMu.Unlock()
		}(w)
	}
	wg.Wait()

	if anyAborted.Load() {
		return false
	}

	var total uint64
	for _, w := range e.workers {
		total += w.Nodes()
	}
	*nodes = total
	*score = e.score
	*pv = e.best
	e.score = -InfScore
	return true
}

func trimPV(pv [maxPly]board.Move) []board.Move {
	out := make([]board.Move, 0, len(pv))
	for _, mv := range pv {
		if mv.IsNull() {
			break
		}
		out = append(out, mv)
	}
	return out
}

func absScore(s int) int {
	if s < 0 {
		return -s
	}
	return s
}

// TT exposes the shared transposition table, e.g. for a "hashfull"-style
// status report.
func (e *Engine) TT() *TranspositionTable { return e.tt }

// Options exposes the engine's option registry.
func (e *Engine) Options() *Options { return e.opts }

// Stop requests every in-flight worker to abort as soon as it next polls.
func (e *Engine) Stop() { e.abort.Store(true) }

// IsDraw reports whether p is a draw under the engine's current draw
// detection settings (spec §4.7.4), for status reporting outside search.
func (e *Engine) IsDraw(p *board.Position) bool {
	return isDraw(e.workers[0], p)
}
