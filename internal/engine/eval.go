package engine

import "github.com/hailam/leiserchess/internal/board"

// pmatWeight is PMAT's weight: fixed at one pawn, not a configurable
// knob (the reference engine never lists "pmat" among its options).
const pmatWeight = PawnEVValue

// inverseTable[n] approximates 1/(n+1) for n in 0..15, matching the
// reference evaluator's harmonic-distance lookup.
var inverseTable [16]float64

func init() {
	for i := range inverseTable {
		inverseTable[i] = 1.0 / float64(i+1)
	}
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Eval returns the static evaluation of p from the point of view of the
// side to move (negamax convention: evaluateMove/searchPV negate the
// child's score), scaled to low-res score_t units by EVScoreRatio.
func Eval(o *Options, p *board.Position) int {
	var score [2]struct {
		pmat, ptouch, pmid, mmid int
		pprox, mface, mcede, relqi, absqi, lcoverage float64
	}

	var monarchs [2][2]board.Square
	for c := board.White; c <= board.Black; c++ {
		monarchs[c][0] = p.Monarchs[c][0]
		monarchs[c][1] = p.Monarchs[c][1]
	}

	for c := board.White; c <= board.Black; c++ {
		occ := p.Occ[c]
		for occ != 0 {
			dense := occ.PopLSB()
			sq := board.SquareOfDense(dense)
			piece := p.PieceAt(sq)
			f, r := sq.File(), sq.Rank()
			centrality := board.Centrality(sq)

			switch piece.Type() {
			case board.Pawn:
				score[c].pmat++

				if pawnTouchesNeighbor(p, sq) {
					score[c].ptouch--
				}

				var pweight float64
				for mc := board.White; mc <= board.Black; mc++ {
					for i := 0; i < 2; i++ {
						msq := monarchs[mc][i]
						if msq == board.NoSquare || p.PieceAt(msq).Type() != board.Monarch {
							continue
						}
						pweight += harmonicDist(f, r, msq)
					}
				}
				score[c].pprox += pweight * PawnEVValue

				score[c].pmid += centrality

			case board.Monarch:
				score[c].mface += mfaceBonus(p, piece, f, r, monarchs[c.Other()])
				score[c].mcede += mcedePenalty(f, r, monarchs[c.Other()], p)
				score[c].mmid += centrality
			}
		}
	}

	relqi := relQi(p, monarchs) * PawnEVValue
	score[board.White].relqi = relqi
	score[board.Black].relqi = -relqi
	score[board.White].absqi = absQi(p, board.White) * PawnEVValue
	score[board.Black].absqi = absQi(p, board.Black) * PawnEVValue

	var total [2]int64
	for c := board.White; c <= board.Black; c++ {
		s := &score[c]
		total[c] += int64(s.pmat) * pmatWeight
		total[c] += int64(s.ptouch) * int64(o.PtouchWeight)
		total[c] += int64(s.pprox * float64(o.PproxWeight) / PawnEVValue)
		total[c] += int64(s.mface * float64(o.MfaceWeight) / PawnEVValue)
		total[c] += int64(-s.mcede * float64(o.McedeWeight) / PawnEVValue)
		total[c] += int64(s.lcoverage * float64(o.LcoverageWeight) / PawnEVValue)
		total[c] += int64(s.pmid) * int64(o.PmidWeight)
		total[c] += int64(s.mmid) * int64(o.MmidWeight)
		total[c] += int64(s.relqi * float64(o.RelqiWeight) / PawnEVValue)
		total[c] += int64(s.absqi * float64(o.AbsqiWeight) / PawnEVValue)
	}

	tot := total[board.White] - total[board.Black]
	if p.SideToMove() == board.Black {
		tot = -tot
	}
	return int(tot / EVScoreRatio)
}

// pawnTouchesNeighbor reports whether any of sq's up-to-8 neighbor squares
// holds a Pawn of either color. No orientation check: the reference
// evaluator's p_touch is a plain "pawns & neighbors[sq]" bitboard test,
// not the directional do_pawns_touch routine (that one is exercised only
// by the reference engine's own test harness, never by eval()).
func pawnTouchesNeighbor(p *board.Position, sq board.Square) bool {
	mask := board.NeighborsMask(sq) & (p.Occ[board.White] | p.Occ[board.Black])
	for mask != 0 {
		dense := mask.PopLSB()
		if p.PieceAt(board.SquareOfDense(dense)).Type() == board.Pawn {
			return true
		}
	}
	return false
}

// harmonicDist is the reference engine's "harmonic-ish" distance metric:
// 1/(|df|+1) + 1/(|dr|+1).
func harmonicDist(f, r int, to board.Square) float64 {
	df := absInt(f - to.File())
	dr := absInt(r - to.Rank())
	return inverseTable[minInt16(df, 15)] + inverseTable[minInt16(dr, 15)]
}

func minInt16(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// mfaceBonus computes the MFACE heuristic for a Monarch: a bonus (or
// penalty) per opposing live Monarch proportional to how directly self
// faces it, inversely weighted by Manhattan distance (|df|+|dr|).
func mfaceBonus(p *board.Position, piece board.Piece, f, r int, opp [2]board.Square) float64 {
	var total float64
	for i := 0; i < 2; i++ {
		sq := opp[i]
		if sq == board.NoSquare || p.PieceAt(sq).Type() != board.Monarch {
			continue
		}
		deltaFile := sq.File() - f
		deltaRank := sq.Rank() - r
		total += mfacePair(piece, deltaFile, deltaRank)
	}
	return total
}

func mfacePair(piece board.Piece, deltaFile, deltaRank int) float64 {
	var bonus int
	switch piece.Orientation() {
	case board.OriN:
		bonus = deltaRank
	case board.OriE:
		bonus = deltaFile
	case board.OriS:
		bonus = -deltaRank
	case board.OriW:
		bonus = -deltaFile
	}
	denom := absInt(deltaFile) + absInt(deltaRank)
	if denom == 0 {
		return 0
	}
	return float64(bonus) * PawnEVValue / float64(denom)
}

// mcedePenalty computes the MCEDE heuristic: a penalty proportional to the
// board area of the quadrant, relative to (f,r), that an opposing live
// Monarch occupies or can expand into.
func mcedePenalty(f, r int, opp [2]board.Square, p *board.Position) float64 {
	var total float64
	for i := 0; i < 2; i++ {
		sq := opp[i]
		if sq == board.NoSquare || p.PieceAt(sq).Type() != board.Monarch {
			continue
		}
		deltaFile := sq.File() - f
		deltaRank := sq.Rank() - r
		total += mcedePair(f, r, deltaFile, deltaRank)
	}
	return total
}

func mcedePair(f, r, deltaFile, deltaRank int) float64 {
	const boardWidth = 8
	var area int
	switch {
	case deltaFile >= 0 && deltaRank >= 0: // NE quadrant
		area = (boardWidth - f) * (boardWidth - r)
	case deltaFile >= 0 && deltaRank <= 0: // SE quadrant
		area = (boardWidth - f) * (r + 1)
	case deltaFile <= 0 && deltaRank <= 0: // SW quadrant
		area = (f + 1) * (r + 1)
	default: // NW quadrant
		area = (f + 1) * (boardWidth - r)
	}
	return float64(PawnEVValue*area) / float64(boardWidth*boardWidth)
}

// relQi compares every non-monarch piece pair across colors by qi value,
// normalised by (white_count+1)(black_count+1).
func relQi(p *board.Position, monarchs [2][2]board.Square) float64 {
	var whiteSq, blackSq []board.Square
	collect := func(c board.Color, out *[]board.Square) {
		occ := p.Occ[c]
		for occ != 0 {
			dense := occ.PopLSB()
			sq := board.SquareOfDense(dense)
			if sq == monarchs[c][0] || sq == monarchs[c][1] {
				continue
			}
			*out = append(*out, sq)
		}
	}
	collect(board.White, &whiteSq)
	collect(board.Black, &blackSq)

	qi := 0
	for _, w := range whiteSq {
		for _, b := range blackSq {
			switch {
			case board.QiAt(w) > board.QiAt(b):
				qi++
			case board.QiAt(w) < board.QiAt(b):
				qi--
			}
		}
	}
	return float64(qi) / float64((len(whiteSq)+1)*(len(blackSq)+1))
}

// absQi sums qi_at(square) over every Pawn of color c.
func absQi(p *board.Position, c board.Color) float64 {
	qi := 0
	occ := p.Occ[c]
	for occ != 0 {
		dense := occ.PopLSB()
		sq := board.SquareOfDense(dense)
		if p.PieceAt(sq).Type() == board.Pawn {
			qi += board.QiAt(sq)
		}
	}
	return float64(qi)
}
