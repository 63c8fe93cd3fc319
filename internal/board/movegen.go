package board

// rotDelta maps a Rotation to the orientation delta it applies, mod 4.
var rotDelta = [NumRot]int{RotNone: 0, RotRight: 1, RotUTurn: 2, RotLeft: 3}

// Generate produces every pseudo-legal move for the side to move (spec
// §4.4): 8 displacement/blocked-push candidates and 3 rotations per own
// piece, plus at most one null-shot.
func Generate(pos *Position) MoveList {
	var list MoveList
	side := pos.SideToMove()
	occ := pos.Occ[side]

	for occ != 0 {
		dense := occ.PopLSB()
		from := SquareOfDense(dense)
		piece := pos.Board[from]
		typ := piece.Type()

		for d := Direction(0); d < NumDir; d++ {
			dest := from.Step(d)
			destPiece := pos.Board[dest]
			destType := destPiece.Type()
			if destType == Invalid || destType == Monarch {
				continue
			}
			if destType != Empty && destType == typ && QiAt(dest) > QiAt(from) {
				continue
			}
			list.Add(Move{Type: typ, Rot: RotNone, From: from, To: dest})
		}

		list.Add(Move{Type: typ, Rot: RotRight, From: from, To: from})
		list.Add(Move{Type: typ, Rot: RotUTurn, From: from, To: from})
		list.Add(Move{Type: typ, Rot: RotLeft, From: from, To: from})
	}

	if FireLasers(pos, side) > 0 {
		sq0 := pos.Monarchs[side][0]
		sq1 := pos.Monarchs[side][1]
		shooter := sq1
		if pos.Board[sq0].Type() == Monarch {
			shooter = sq0
		}
		list.Add(Move{Type: Monarch, Rot: RotNone, From: shooter, To: shooter})
	}

	return list
}

// findGenerated reports whether mv (compared on From/To/Rot only; Type is
// informational) appears in pos's pseudo-legal move list.
func findGenerated(pos *Position, mv Move) bool {
	lst := Generate(pos)
	for i := 0; i < lst.Len(); i++ {
		g := lst.Get(i)
		if g.From == mv.From && g.To == mv.To && g.Rot == mv.Rot {
			return true
		}
	}
	return false
}

// placePiece writes pc at sq, clearing the outgoing occupant's monarch
// locator slot first (setPiece only ever adds a locator entry, never
// removes one, so every removal/relocation must go through here). It
// returns the piece that previously occupied sq.
func (p *Position) placePiece(sq Square, pc Piece) Piece {
	old := p.Board[sq]
	if old.Type() == Monarch {
		p.clearMonarchSlot(old.Color(), sq)
	}
	p.setPiece(sq, pc)
	return old
}

// ApplyMove executes mv against old, producing the successor position and
// its victims record (spec §4.4). mv is trusted to be pseudo-legal; use
// MakeMove from an external move string to get legality checking and the
// ILLEGAL_ZAPPED victims record.
func ApplyMove(old *Position, mv Move) (*Position, Victims) {
	np := old.Copy()
	np.History = old
	np.Ply = old.Ply + 1
	np.LastMove = mv
	np.WasPlayed = false

	mover := old.SideToMove()
	key := old.Key
	xor := func(sq Square, before, after Piece) {
		key ^= ZobristPiece(sq, before)
		key ^= ZobristPiece(sq, after)
	}

	var pushedPawn Piece
	var pushSquashed bool

	switch {
	case mv.IsRotation():
		before := np.Board[mv.From]
		after := before.WithOrientation(Orientation((int(before.Orientation()) + rotDelta[mv.Rot]) % 4))
		np.setPiece(mv.From, after)
		xor(mv.From, before, after)

	case mv.IsDisplacement():
		moving := np.placePiece(mv.From, NoPiece)
		xor(mv.From, moving, NoPiece)

		destPiece := np.placePiece(mv.To, moving)
		xor(mv.To, destPiece, moving)

		if !destPiece.IsEmpty() {
			next := Square(int(mv.To) + (int(mv.To) - int(mv.From)))
			if next.OnBoard() && old.Board[next].IsEmpty() {
				np.placePiece(next, destPiece)
				xor(next, NoPiece, destPiece)
			} else {
				pushSquashed = true
				pushedPawn = destPiece
			}
		}

	default:
		// null-shot: board unchanged before the laser phase.
	}

	key ^= ZobristSideToMove()

	victims := Victims{}
	sq0, sq1 := pos2Monarchs(np, mover)
	victimSq1, hit1 := NoSquare, false
	victimSq2, hit2 := NoSquare, false
	if sq0 != NoSquare && np.Board[sq0].Type() == Monarch {
		victimSq1, hit1 = FireLaser(np, sq0)
	}
	if sq1 != NoSquare && np.Board[sq1].Type() == Monarch {
		victimSq2, hit2 = FireLaser(np, sq1)
	}

	if hit1 {
		piece := np.placePiece(victimSq1, NoPiece)
		key ^= ZobristPiece(victimSq1, piece)
		key ^= ZobristPiece(victimSq1, NoPiece)
		victims.Count++
		victims.RemovedColor[piece.Color()] = true
	}
	if hit2 && !(hit1 && victimSq2 == victimSq1) {
		piece := np.placePiece(victimSq2, NoPiece)
		key ^= ZobristPiece(victimSq2, piece)
		key ^= ZobristPiece(victimSq2, NoPiece)
		victims.Count++
		victims.RemovedColor[piece.Color()] = true
	}

	if pushSquashed && mv.To != mv.From && pushedPawn.Type() == Pawn {
		victims.Count++
		victims.RemovedColor[pushedPawn.Color()] = true
	}

	np.Key = key
	if victims.Count == 0 {
		np.PliesSinceVictim = old.PliesSinceVictim + 1
	} else {
		np.PliesSinceVictim = 0
	}
	np.Victims = victims
	return np, victims
}

// pos2Monarchs returns color c's two monarch-locator squares (which may be
// NoSquare or stale; callers re-check np.Board[sq].Type() before firing).
func pos2Monarchs(p *Position, c Color) (Square, Square) {
	return p.Monarchs[c][0], p.Monarchs[c][1]
}

// ActuallyApply is ApplyMove followed by marking the result as played,
// the coordinator's commit path for the real game line (spec §4.4).
func ActuallyApply(old *Position, mv Move) (*Position, Victims) {
	np, v := ApplyMove(old, mv)
	np.WasPlayed = true
	return np, v
}

// Perft counts the leaf positions reachable in exactly depth plies by
// walking the pseudo-legal move tree; Leiserchess has no notion of
// "check" to filter illegal moves, so pseudo-legal and legal coincide
// here (spec §6's `perft` command). A move that ends the game counts as
// one leaf and is not expanded further.
func Perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := Generate(p)
	if depth == 1 {
		return int64(moves.Len())
	}
	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		np, _ := ApplyMove(p, moves.Get(i))
		if over, _ := np.GameOver(); over {
			nodes++
			continue
		}
		nodes += Perft(np, depth-1)
	}
	return nodes
}

// MakeMove checks mv against the pseudo-legal move list before applying
// it, matching the "matching parse produced no legal move" error path
// (spec §7): an unmatched move yields (old, Illegal()) rather than
// mutating the board.
func MakeMove(old *Position, mv Move) (*Position, Victims) {
	if !findGenerated(old, mv) {
		return old, Illegal()
	}
	return ApplyMove(old, mv)
}
