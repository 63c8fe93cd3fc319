package board

import "math/bits"

// Bitboard is a 64-bit set over dense square indices (rank*8+file).
type Bitboard uint64

// SquareBB returns the singleton bitboard for a dense index.
func SquareBB(dense int) Bitboard { return Bitboard(1) << uint(dense) }

// Set sets the bit for dense index i.
func (b *Bitboard) Set(i int) { *b |= SquareBB(i) }

// Clear clears the bit for dense index i.
func (b *Bitboard) Clear(i int) { *b &^= SquareBB(i) }

// IsSet reports whether bit i is set.
func (b Bitboard) IsSet(i int) bool { return b&SquareBB(i) != 0 }

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int { return bits.OnesCount64(uint64(b)) }

// LSB returns the dense index of the lowest set bit. Undefined if b == 0.
func (b Bitboard) LSB() int { return bits.TrailingZeros64(uint64(b)) }

// MSB returns the dense index of the highest set bit. Undefined if b == 0.
func (b Bitboard) MSB() int { return 63 - bits.LeadingZeros64(uint64(b)) }

// PopLSB clears and returns the lowest set bit's dense index.
func (b *Bitboard) PopLSB() int {
	i := b.LSB()
	*b &= *b - 1
	return i
}

// rayRank[r] is the set of all dense indices on rank r (row mask).
var rayRank [8]Bitboard

// rayFile[f] is the set of all dense indices on file f (column mask).
var rayFile [8]Bitboard

func init() {
	for r := 0; r < 8; r++ {
		rayRank[r] = Bitboard(0xFF) << uint(r*8)
	}
	for f := 0; f < 8; f++ {
		var m Bitboard
		for r := 0; r < 8; r++ {
			m.Set(r*8 + f)
		}
		rayFile[f] = m
	}
}

// RayRank returns the full-rank mask for rank r (0..7).
func RayRank(r int) Bitboard { return rayRank[r] }

// RayFile returns the full-file mask for file f (0..7).
func RayFile(f int) Bitboard { return rayFile[f] }
