package board

// FireLaser simulates a single Monarch's laser and returns the victim
// square, or (NoSquare, false) if the beam escapes the board (spec §4.3).
func FireLaser(p *Position, monarchSq Square) (Square, bool) {
	pc := p.Board[monarchSq]
	if pc.Type() != Monarch {
		return NoSquare, false
	}

	beam := beamDir[pc.Orientation()]
	occupied := p.Occ[White] | p.Occ[Black]

	for {
		var ray Bitboard
		var positive bool
		switch beam {
		case DirN:
			ray = RayFile(monarchSq.File())
			positive = true
		case DirS:
			ray = RayFile(monarchSq.File())
			positive = false
		case DirE:
			ray = RayRank(monarchSq.Rank())
			positive = true
		case DirW:
			ray = RayRank(monarchSq.Rank())
			positive = false
		}

		origin := DenseOf(monarchSq)
		var beyond Bitboard
		if positive {
			beyond = ^Bitboard(0) << uint(origin+1)
		} else {
			if origin == 0 {
				beyond = 0
			} else {
				beyond = (Bitboard(1) << uint(origin)) - 1
			}
		}
		ray &= beyond

		hit := ray & occupied
		if hit == 0 {
			return NoSquare, false
		}

		var dense int
		if positive {
			dense = hit.LSB()
		} else {
			dense = hit.MSB()
		}
		sq := SquareOfDense(dense)
		piece := p.Board[sq]

		if piece.Type() == Pawn {
			next, ok := Reflect(beam, piece.Orientation())
			if !ok {
				return sq, true
			}
			beam = next
			monarchSq = sq
			continue
		}
		// Monarch, or anything else that isn't a reflecting Pawn: victim.
		return sq, true
	}
}

// FireLasers fires both of color c's live Monarchs and returns the
// number of victim-producing shots (spec §4.3): used by the generator to
// decide whether to emit a null-shot move.
func FireLasers(p *Position, c Color) int {
	victims := 0
	for i := 0; i < 2; i++ {
		sq := p.Monarchs[c][i]
		if sq == NoSquare || p.Board[sq].Type() != Monarch {
			continue
		}
		if _, ok := FireLaser(p, sq); ok {
			victims++
		}
	}
	return victims
}
