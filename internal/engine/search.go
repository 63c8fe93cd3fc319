package engine

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/hailam/leiserchess/internal/board"
)

// InfScore and WinScore bound the score_t range (spec §4.7): InfScore is
// never a real position's value, WinScore (minus the ply it took to reach
// it) is a forced win.
const (
	InfScore = 32700
	WinScore = 32000
)

// drawNumReps is how many times a position must recur (counting the game's
// played history) before it counts as a repetition draw.
const drawNumReps = 3

// abortCheckPeriod gates should-abort wall-clock checks to roughly every
// 4096 visited nodes (spec §5).
const abortCheckPeriod = 0xfff

// fmarg is the extended-futility-pruning margin table, indexed by
// remaining depth (spec §4.7.2).
var fmarg = [10]int{
	0,
	PawnValue / 2,
	PawnValue,
	PawnValue * 5 / 2,
	PawnValue * 9 / 2,
	PawnValue * 7,
	PawnValue * 10,
	PawnValue * 15,
	PawnValue * 20,
	PawnValue * 30,
}

type nodeType uint8

const (
	nodeRoot nodeType = iota
	nodePV
	nodeScout
)

// searchNode is one alpha-beta frame. It links to its parent so a cutoff
// or abort can be observed by concurrently-searched siblings
// (parallelParentAborted), and carries its own principal-variation tail.
type searchNode struct {
	parent *searchNode
	typ    nodeType

	pos *board.Position

	depth int
	ply   int

	alpha, beta, origAlpha int
	quiescence              bool
	legalMoveCount          int
	bestScore               int
	bestMoveIndex           int
	subpv                   [maxPly]board.Move

	pov             int // 1 for White's turn at this node, -1 for Black's
	fakeColorToMove board.Color

	abort bool
}

// leafKind classifies evaluateAsLeaf's verdict.
type leafKind uint8

const (
	leafIgnore leafKind = iota
	leafEvaluated
)

type leafResult struct {
	kind            leafKind
	score           int
	enterQuiescence bool
	ttMove          board.Move
}

// moveResultKind classifies evaluateMove's verdict for one candidate move.
type moveResultKind uint8

const (
	moveIllegal moveResultKind = iota
	moveIgnore
	moveGameOver
	moveEvaluated
)

type moveResult struct {
	kind  moveResultKind
	score int
	next  *searchNode
}

// Worker holds everything one search goroutine owns exclusively: its
// killer and history tables, node counter, and PRNG (spec §5 "per-worker:
// killers, history, node counters, move buffers"). tt and abdada are
// shared across every worker of a search; abort is the single shared
// cancellation flag every worker polls and can set.
type Worker struct {
	ID int

	tt     *TranspositionTable
	abdada *movesBeingSearched
	opts   *Options

	killers killerTable
	history historyTable

	nodes uint64
	tics  uint32

	deadline time.Time
	abort    *atomic.Bool

	rng       *rand.Rand
	rootMoves []board.Move
}

// NewWorker builds a worker sharing tt/abdada/abort/opts with its siblings
// but owning its own move-ordering tables and PRNG stream.
func NewWorker(id int, tt *TranspositionTable, abdada *movesBeingSearched, opts *Options, abort *atomic.Bool, seed int64) *Worker {
	return &Worker{
		ID:     id,
		tt:     tt,
		abdada: abdada,
		opts:   opts,
		abort:  abort,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Reset clears the per-worker move-ordering tables, matching the
// coordinator's "fresh killers/history per top-level search" policy.
func (w *Worker) Reset() {
	w.killers = killerTable{}
	w.history = historyTable{}
	w.nodes = 0
	w.tics = 0
}

// Nodes returns the number of positions this worker has visited so far.
func (w *Worker) Nodes() uint64 { return w.nodes }

// SetDeadline sets the hard wall-clock abort time (spec §4.8: "3x the
// time budget").
func (w *Worker) SetDeadline(d time.Time) { w.deadline = d }

func (w *Worker) shouldAbortCheck() bool {
	w.tics++
	if w.tics&abortCheckPeriod == 0 {
		if time.Now().After(w.deadline) {
			w.abort.Store(true)
		}
	}
	return w.abort.Load()
}

// parallelParentAborted reports whether any ancestor of node has already
// triggered a cutoff or cancellation — a concurrently-searched sibling's
// signal to stop doing now-useless work (spec §5).
func parallelParentAborted(node *searchNode) bool {
	for p := node.parent; p != nil; p = p.parent {
		if p.abort {
			return true
		}
	}
	return false
}

// gameOverScore converts a terminal child position into a score relative
// to pov (1 for White's point of view, -1 for Black's), biased by ply so
// that quicker wins (and slower losses) are preferred.
func gameOverScore(child *board.Position, pov, ply int) int {
	_, winner := child.GameOver()
	var score int
	if winner == board.White {
		score = WinScore * pov
	} else {
		score = -WinScore * pov
	}
	if score < 0 {
		score += ply
	} else {
		score -= ply
	}
	return score
}

// isDraw reports whether p is a draw: too many plies since the last
// victim, or a recurring position (spec §4.7.4).
func isDraw(w *Worker, p *board.Position) bool {
	if w.opts.DetectDraws == 0 {
		return false
	}
	if p.PliesSinceVictim >= 2*w.opts.NMovesDraw {
		return true
	}

	cur := p.Key
	repsHistory := 1
	repsSearch := 0
	if !p.WasPlayed {
		repsSearch++
	}

	q := p
	n := p.PliesSinceVictim - 2
	for n >= 0 {
		n -= 2
		if q.History == nil || q.History.History == nil {
			break
		}
		q = q.History.History
		if q.Key == cur {
			repsHistory++
			if !q.WasPlayed {
				repsSearch++
			}
		}
	}

	return repsHistory >= drawNumReps || repsSearch >= 2
}

// getDrawScore walks p's history to find the repeated position and scores
// it by ply parity (spec §4.7.4); non-repetition draws (the 2*NMovesDraw
// stall rule) fall through to 0.
func getDrawScore(w *Worker, p *board.Position, ply int) int {
	cur := p.Key
	x := p.History
	for x != nil {
		if x.Victims.AnyVictim() {
			break
		}
		x = x.History
		if x == nil || x.Victims.AnyVictim() {
			break
		}
		if x.Key == cur {
			if ply&1 != 0 {
				return -w.opts.Draw
			}
			return w.opts.Draw
		}
		x = x.History
	}
	return 0
}

// evaluateAsLeaf decides whether node can be scored without expanding its
// move list: a usable TT hit (scout only), quiescence stand-pat, null-move
// margin, or extended futility pruning (spec §4.7.2).
func evaluateAsLeaf(w *Worker, node *searchNode, typ nodeType) leafResult {
	res := leafResult{kind: leafIgnore, score: -InfScore}

	rec, found := w.tt.Get(node.pos.Key)
	if found {
		if typ == nodeScout && w.opts.UseTT != 0 && IsUsable(rec, node.depth, int16(node.beta)) {
			res.kind = leafEvaluated
			res.score = int(AdjustScoreFromTT(rec.score(), node.ply))
			return res
		}
		res.ttMove = rec.move()
	}

	sps := Eval(w.opts, node.pos) + w.opts.HMB
	quiescence := node.depth <= 0
	res.enterQuiescence = quiescence
	if quiescence {
		res.score = sps
		if sps >= node.beta {
			res.kind = leafEvaluated
			return res
		}
	}

	if typ == nodeScout && w.opts.UseNMM != 0 && node.depth <= 2 {
		if node.depth == 1 && sps >= node.beta+3*PawnValue {
			res.kind = leafEvaluated
			res.score = node.beta
			return res
		}
		if node.depth == 2 && sps >= node.beta+5*PawnValue {
			res.kind = leafEvaluated
			res.score = node.beta
			return res
		}
	}

	if typ == nodeScout && node.depth <= w.opts.FutDepth && node.depth > 0 {
		if sps+fmarg[node.depth] < node.beta {
			res.enterQuiescence = true
			res.score = sps
		}
	}
	return res
}

// evaluateMove applies mv, classifies the resulting position (game over,
// quiescence-irrelevant, draw, blunder), and — if none of those terminate
// the branch — recurses into scoutSearch/searchPV at the appropriate
// depth, applying capture extension and late-move reduction along the way
// (spec §4.7.1).
func evaluateMove(w *Worker, node *searchNode, mv, killerA, killerB board.Move, typ nodeType) moveResult {
	child := &searchNode{parent: node}
	pos, victims := board.ApplyMove(node.pos, mv)
	child.pos = pos

	if over, _ := pos.GameOver(); over {
		return moveResult{kind: moveGameOver, score: gameOverScore(pos, node.pov, node.ply), next: child}
	}

	if !victims.AnyVictim() && node.quiescence {
		return moveResult{kind: moveIgnore}
	}

	if isDraw(w, pos) {
		return moveResult{kind: moveGameOver, score: getDrawScore(w, pos, node.ply), next: child}
	}

	blunder := victims.IsBlunder(node.fakeColorToMove)
	if node.quiescence && blunder {
		return moveResult{kind: moveIgnore}
	}

	ext := 0
	if victims.AnyVictim() && !blunder {
		ext = 1
	}

	nextReduction := 0
	if typ == nodeScout && node.legalMoveCount+1 >= w.opts.LMRR1 && node.depth > 2 &&
		!victims.AnyVictim() && mv != killerA && mv != killerB {
		if node.legalMoveCount+1 >= w.opts.LMRR2 {
			nextReduction = 2
		} else {
			nextReduction = 1
		}
	}

	searchDepth := ext + node.depth - 1

	if nextReduction > 0 {
		searchDepth -= nextReduction
		reduced := -w.scoutSearch(child, searchDepth)
		if reduced < node.beta {
			return moveResult{kind: moveEvaluated, score: reduced, next: child}
		}
		searchDepth += nextReduction
	}

	if w.abort.Load() {
		return moveResult{kind: moveIgnore, score: 0}
	}

	var score int
	switch {
	case typ == nodeScout:
		score = -w.scoutSearch(child, searchDepth)
	case node.legalMoveCount == 0 || node.quiescence:
		score = -w.searchPV(child, searchDepth)
	default:
		score = -w.scoutSearch(child, searchDepth)
		if score > node.alpha {
			score = -w.searchPV(child, node.depth+ext-1)
		}
	}
	return moveResult{kind: moveEvaluated, score: score, next: child}
}

// processScore folds one move's result into node: updates the best score,
// PV tail, and (on a beta cutoff) the killer table. It reports whether a
// cutoff occurred.
func (w *Worker) processScore(node *searchNode, mv board.Move, mvIndex int, result moveResult, typ nodeType) bool {
	if result.score <= node.bestScore {
		return false
	}
	node.bestScore = result.score
	node.bestMoveIndex = mvIndex
	node.subpv[0] = mv
	if result.next != nil {
		copy(node.subpv[1:], result.next.subpv[:])
	}

	if typ != nodeScout && result.score > node.alpha {
		node.alpha = result.score
	}

	if result.score >= node.beta {
		w.killers.update(node.ply, mv)
		return true
	}
	return false
}

func (w *Worker) updateTT(node *searchNode) {
	adjusted := AdjustScoreForTT(int16(node.bestScore), node.ply)
	switch node.typ {
	case nodeScout:
		if node.bestScore < node.beta {
			w.tt.Put(node.pos.Key, node.depth, adjusted, BoundUpper, board.NullMove)
		} else {
			w.tt.Put(node.pos.Key, node.depth, adjusted, BoundLower, node.subpv[0])
		}
	case nodePV:
		switch {
		case node.bestScore <= node.origAlpha:
			w.tt.Put(node.pos.Key, node.depth, adjusted, BoundUpper, board.NullMove)
		case node.bestScore >= node.beta:
			w.tt.Put(node.pos.Key, node.depth, adjusted, BoundLower, node.subpv[0])
		default:
			w.tt.Put(node.pos.Key, node.depth, adjusted, BoundExact, node.subpv[0])
		}
	}
}

func (w *Worker) initializePVNode(node *searchNode, depth int) {
	node.typ = nodePV
	node.alpha = -node.parent.beta
	node.origAlpha = node.alpha
	node.beta = -node.parent.alpha
	node.subpv[0] = board.NullMove
	node.depth = depth
	node.legalMoveCount = 0
	node.ply = node.parent.ply + 1
	node.fakeColorToMove = node.pos.SideToMove()
	node.pov = povOf(node.fakeColorToMove)
	node.quiescence = depth <= 0
	node.bestMoveIndex = 0
	node.bestScore = -InfScore
	node.abort = false
}

func (w *Worker) initializeScoutNode(node *searchNode, depth int) {
	node.typ = nodeScout
	node.beta = -node.parent.alpha
	node.alpha = node.beta - 1
	node.depth = depth
	node.ply = node.parent.ply + 1
	node.subpv[0] = board.NullMove
	node.legalMoveCount = 0
	node.fakeColorToMove = node.pos.SideToMove()
	node.pov = povOf(node.fakeColorToMove)
	node.bestMoveIndex = 0
	node.abort = false
}

func povOf(c board.Color) int {
	if c == board.White {
		return 1
	}
	return -1
}

// searchPV performs a full-window alpha-beta search over the whole move
// list (spec §4.7): the first legal move (and every move in quiescence) is
// searched with searchPV, the rest with a null-window scoutSearch that is
// re-searched with searchPV when it beats alpha.
func (w *Worker) searchPV(node *searchNode, depth int) int {
	w.initializePVNode(node, depth)

	pre := evaluateAsLeaf(w, node, nodePV)
	ttMove := pre.ttMove
	if pre.kind == leafEvaluated {
		return pre.score
	}
	if pre.score > node.bestScore {
		node.bestScore = pre.score
		if node.bestScore > node.alpha {
			node.alpha = node.bestScore
		}
	}

	killerA, killerB := w.killers.get(node.ply)

	list := board.Generate(node.pos)
	side := node.fakeColorToMove
	sortable := orderMoves(list, side, node.pos, &w.history, ttMove, killerA, killerB, false)
	insertionSort(sortable)

	triedCount := 0
	for i, sm := range sortable {
		mv := sm.Mv
		triedCount = i + 1
		w.nodes++

		result := evaluateMove(w, node, mv, killerA, killerB, nodePV)
		if result.kind == moveIllegal || result.kind == moveIgnore {
			continue
		}
		if result.kind == moveEvaluated {
			node.legalMoveCount++
		}

		if w.abort.Load() {
			return 0
		}

		if w.processScore(node, mv, i, result, nodePV) {
			break
		}
	}

	if !node.quiescence {
		moves := make([]board.Move, triedCount)
		for i := 0; i < triedCount; i++ {
			moves[i] = sortable[i].Mv
		}
		w.history.update(side, node.pos, moves, node.bestMoveIndex)
	}

	w.updateTT(node)
	return node.bestScore
}

// processMove runs evaluateMove + ABDADA bookkeeping + processScore for
// one candidate in scoutSearch, used by both the ABDADA "best move first"
// slot and the two deferred passes.
func (w *Worker) processMove(node *searchNode, mv, killerA, killerB board.Move, index int) bool {
	result := evaluateMove(w, node, mv, killerA, killerB, nodeScout)
	w.abdada.Finish(node.pos.Key, mv)

	if result.kind == moveIllegal || result.kind == moveIgnore || w.abort.Load() || parallelParentAborted(node) {
		return false
	}
	if result.kind == moveEvaluated {
		node.legalMoveCount++
	}
	if w.processScore(node, mv, index, result, nodeScout) {
		node.abort = true
		return true
	}
	return false
}

// scoutSearch performs a null-window search (beta = alpha+1), deferring
// moves another worker is concurrently searching to a second pass
// (ABDADA; spec §5).
func (w *Worker) scoutSearch(node *searchNode, depth int) int {
	w.initializeScoutNode(node, depth)

	if w.shouldAbortCheck() || parallelParentAborted(node) {
		return 0
	}

	pre := evaluateAsLeaf(w, node, nodeScout)
	if pre.kind == leafEvaluated {
		return pre.score
	}

	ttMove := pre.ttMove
	node.bestScore = pre.score
	node.quiescence = pre.enterQuiescence

	killerA, killerB := w.killers.get(node.ply)

	list := board.Generate(node.pos)
	side := node.fakeColorToMove
	sortable := orderMoves(list, side, node.pos, &w.history, ttMove, killerA, killerB, true)

	var tried []board.Move
	numEvaluated := 0

	if len(sortable) > 0 {
		bestIdx := bestMoveIndex(sortable)
		best := sortable[bestIdx].Mv
		tried = append(tried, best)
		cutoff := w.processMove(node, best, killerA, killerB, numEvaluated)
		numEvaluated++

		if !cutoff {
			insertionSort(sortable)
			rest := make([]board.SortableMove, 0, len(sortable)-1)
			for _, sm := range sortable {
				if sm.Mv == best {
					continue
				}
				rest = append(rest, sm)
			}

			var deferred []board.SortableMove
			isFirst := true
			scan := rest
			for pass := 0; pass < 2; pass++ {
				for _, sm := range scan {
					mv := sm.Mv
					if pass == 0 && w.abdada.IsSearching(node.pos.Key, mv) && !isFirst {
						deferred = append(deferred, sm)
						isFirst = false
						continue
					}
					tried = append(tried, mv)
					w.abdada.Set(node.pos.Key, mv)
					isFirst = false

					cutoff := w.processMove(node, mv, killerA, killerB, numEvaluated)
					numEvaluated++
					if cutoff {
						break
					}
				}
				scan = deferred
				deferred = nil
			}
		}
	}
	w.nodes++

	if parallelParentAborted(node) {
		return 0
	}

	if !node.quiescence {
		w.history.update(side, node.pos, tried, node.bestMoveIndex)
	}
	w.updateTT(node)
	return node.bestScore
}

// SearchRoot is the top-level search entry for one iterative-deepening
// depth: it shuffles the root move list the first time it is called
// (depth == 1), then searches every root move with searchPV (the first
// move, and always at depth 1) or scoutSearch-then-re-search otherwise,
// writing the winning line into pv (spec §4.7, §4.8).
func (w *Worker) SearchRoot(pos *board.Position, alpha, beta, depth, ply int, pv *[maxPly]board.Move) int {
	if depth == 1 || w.rootMoves == nil {
		list := board.Generate(pos)
		moves := make([]board.Move, list.Len())
		for i := 0; i < list.Len(); i++ {
			moves[i] = list.Get(i)
		}
		w.rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
		w.rootMoves = moves
	}

	root := &searchNode{
		typ:             nodeRoot,
		pos:             pos,
		alpha:           alpha,
		beta:            beta,
		depth:           depth,
		ply:             ply,
		bestScore:       -InfScore,
		fakeColorToMove: pos.SideToMove(),
	}
	root.pov = povOf(root.fakeColorToMove)

	next := &searchNode{parent: root}

	for i, mv := range w.rootMoves {
		w.nodes++

		childPos, _ := board.ApplyMove(pos, mv)
		next.pos = childPos

		var score int
		scored := false
		if over, _ := childPos.GameOver(); over {
			score = gameOverScore(childPos, root.pov, root.ply)
			next.subpv[0] = board.NullMove
			scored = true
		} else if isDraw(w, childPos) {
			score = getDrawScore(w, childPos, root.ply)
			next.subpv[0] = board.NullMove
			scored = true
		}

		if !scored {
			if i == 0 || root.depth == 1 {
				score = -w.searchPV(next, root.depth-1)
				if w.abort.Load() {
					return 0
				}
			} else {
				score = -w.scoutSearch(next, root.depth-1)
				if w.abort.Load() {
					return 0
				}
				if score > root.alpha {
					score = -w.searchPV(next, root.depth-1)
					if w.abort.Load() {
						return 0
					}
				}
			}
		}

		if score > root.bestScore {
			root.bestScore = score
			pv[0] = mv
			copy(pv[1:], next.subpv[:])

			for j := i; j > 0; j-- {
				w.rootMoves[j] = w.rootMoves[j-1]
			}
			w.rootMoves[0] = mv
		}

		if score > root.alpha {
			root.alpha = score
		}
		if score >= root.beta {
			break
		}
	}

	return root.bestScore
}
