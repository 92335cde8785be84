// Package rankvec implements RankVec, a bit vector augmented with a
// two-level block summary (top blocks of size B_T, middle blocks of size
// B_M) that answers rank in O(1) and select in O(log n), while still
// supporting append and truncation.
package rankvec

import (
	"fmt"
	"sort"

	"succinctbv/bitvec"
	"succinctbv/internal/bitops"
)

// Config holds the two block-summary sizes. Both must be powers of two,
// with BlockSizeMid < BlockSizeTop < 2^16.
type Config struct {
	BlockSizeTop uint64
	BlockSizeMid uint64
}

// DefaultConfig returns the library's usual block sizes (4096 top,
// 256 middle).
func DefaultConfig() Config {
	return Config{BlockSizeTop: 4096, BlockSizeMid: 256}
}

func isPow2(v uint64) bool { return v != 0 && v&(v-1) == 0 }

func (c Config) validate() {
	if !isPow2(c.BlockSizeTop) || !isPow2(c.BlockSizeMid) {
		panic("rankvec.Config: block sizes must be powers of two")
	}
	if c.BlockSizeMid >= c.BlockSizeTop {
		panic("rankvec.Config: BlockSizeMid must be < BlockSizeTop")
	}
	if c.BlockSizeTop >= 1<<16 {
		panic("rankvec.Config: BlockSizeTop must be < 2^16")
	}
	// The word-level rank/select math below (Rank1, selectBit) counts bits
	// starting from (block*BlockSize)/64, which only lands on the block's
	// actual first word when the block size is itself word-aligned.
	if c.BlockSizeTop%64 != 0 || c.BlockSizeMid%64 != 0 {
		panic("rankvec.Config: block sizes must be multiples of 64")
	}
}

// RankVec is a bit vector supporting fast rank and select queries.
type RankVec struct {
	bv       *bitvec.BitVec
	topCount []uint64
	midCount []uint16
	cfg      Config
}

// NewRankVec creates an empty RankVec with room for at least
// capacityHint bits, using the given block-size configuration.
func NewRankVec(capacityHint uint64, cfg Config) *RankVec {
	cfg.validate()
	r := &RankVec{bv: bitvec.NewBitVec(0), cfg: cfg}
	r.Reserve(capacityHint)
	return r
}

// summaryLens computes the top- and middle-block summary array lengths for
// a given bit capacity. lenM carries one slot of slack beyond the naive
// ceil(capacity/BM)-lenT count: that count assumes every top block fully
// reaches its own final (unstored) middle block, which undercounts by one
// whenever capacity's last top block is partial -- appendBit's boundary
// bookkeeping still touches that top block's own first middle-block slot
// even though it never reaches the point where a slot would be skipped.
func (r *RankVec) summaryLens(capacity uint64) (lenT, lenM uint64) {
	lenT = (capacity + r.cfg.BlockSizeTop - 1) / r.cfg.BlockSizeTop
	lenM = (capacity+r.cfg.BlockSizeMid-1)/r.cfg.BlockSizeMid - lenT + 1
	return
}

// Reserve grows capacity to at least newCapacity bits, leaving size
// unchanged. It never shrinks capacity.
func (r *RankVec) Reserve(newCapacity uint64) {
	if newCapacity <= r.bv.Capacity() {
		return
	}
	r.ChangeCapacity(newCapacity)
}

// ChangeCapacity adjusts capacity to max(size, c), reallocating the bit
// storage and both summary arrays. Passing 0 shrinks to exactly fit the
// current size.
func (r *RankVec) ChangeCapacity(c uint64) {
	r.bv.ChangeCapacity(c)
	newCapacity := r.bv.Capacity()
	lenT, lenM := r.summaryLens(newCapacity)
	newTop := make([]uint64, lenT)
	copy(newTop, r.topCount)
	r.topCount = newTop
	newMid := make([]uint16, lenM)
	copy(newMid, r.midCount)
	r.midCount = newMid
}

// Size returns the number of bits currently in use.
func (r *RankVec) Size() uint64 { return r.bv.Size() }

// Capacity returns the current bit capacity.
func (r *RankVec) Capacity() uint64 { return r.bv.Capacity() }

// Empty reports whether the vector holds no bits.
func (r *RankVec) Empty() bool { return r.bv.Empty() }

// Clear resets the logical size to zero without releasing capacity.
func (r *RankVec) Clear() { r.bv.Clear() }

// ReadBit returns the bit at position p.
func (r *RankVec) ReadBit(p uint64) bool { return r.bv.ReadBit(p) }

// AppendBit extends the vector by one position, writing val and updating
// both summary levels. The vector must already have spare capacity
// (Reserve beforehand); this mirrors the underlying container's
// append-into-reserved-capacity contract rather than silently growing.
func (r *RankVec) AppendBit(val bool) {
	pos := r.bv.Size()
	if pos >= r.bv.Capacity() {
		panic("rankvec.AppendBit: size would exceed capacity; Reserve first")
	}
	r.bv.Resize(pos + 1)
	r.bv.WriteBit(pos, val)

	var v uint64
	if val {
		v = 1
	}
	if pos == 0 {
		r.topCount[0] = v
		r.midCount[0] = uint16(v)
		return
	}

	BT, BM := r.cfg.BlockSizeTop, r.cfg.BlockSizeMid
	idxT := pos / BT
	remT := pos % BT
	idxM := pos/BM - idxT
	if pos%BM == 0 {
		if remT == 0 {
			r.topCount[idxT] = r.topCount[idxT-1]
			r.midCount[idxM] = 0
		} else if remT < BT-BM {
			r.midCount[idxM] = r.midCount[idxM-1]
		}
	}
	r.topCount[idxT] += v
	if remT < BT-BM {
		r.midCount[idxM] += uint16(v)
	}
}

// Rank1 returns the number of 1-bits at positions [0, p].
func (r *RankVec) Rank1(p uint64) uint64 {
	if p >= r.bv.Size() {
		panic(fmt.Sprintf("rankvec.Rank1: position %d out of bounds (size %d)", p, r.bv.Size()))
	}
	BT, BM := r.cfg.BlockSizeTop, r.cfg.BlockSizeMid
	t := p / BT
	remT := p % BT
	m := p / BM
	var rank uint64
	if t > 0 {
		rank = r.topCount[t-1]
	}
	if remT >= BM {
		idxM := m - t
		rank += uint64(r.midCount[idxM-1])
	}
	return rank + bitops.CountOnes(r.bv.Words(), (m*BM)/64, p%BM)
}

// Rank0 returns the number of 0-bits at positions [0, p].
func (r *RankVec) Rank0(p uint64) uint64 {
	return p + 1 - r.Rank1(p)
}

// selectBit is the shared implementation of Select1/Select0: it binary
// searches the top-block cumulative counts, then linearly scans the
// middle-block counts within the chosen top block, then finishes with a
// word-level select. When one is false the cumulative counts are
// complemented on the fly so the same walk answers zero-bit select.
func (r *RankVec) selectBit(rank uint64, one bool) uint64 {
	BT, BM := r.cfg.BlockSizeTop, r.cfg.BlockSizeMid
	topAt := func(idx uint64) uint64 {
		if one {
			return r.topCount[idx]
		}
		return (idx+1)*BT - r.topCount[idx]
	}
	lenT := (r.bv.Size()-1)/BT + 1 // top blocks actually in use, not the full reserved capacity
	idxT := uint64(sort.Search(int(lenT), func(i int) bool { return topAt(uint64(i)) >= rank }))

	if idxT > 0 {
		rank -= topAt(idxT - 1)
	}
	posT := idxT * BT
	idxM := posT/BM - idxT

	midAt := func(j uint64) uint64 { // cumulative within-top-block count through local mid-block j
		ones := uint64(r.midCount[idxM+j])
		if one {
			return ones
		}
		return (j+1)*BM - ones
	}

	i := uint64(0)
	maxLocal := BT / BM
	for i < maxLocal-1 && midAt(i) < rank {
		i++
	}
	if i > 0 {
		rank -= midAt(i - 1)
	}
	posM := posT + i*BM
	baseWordIdx := posM / 64
	if one {
		return posM + bitops.SelectOne(r.bv.Words(), baseWordIdx, rank)
	}
	return posM + bitops.SelectZero(r.bv.Words(), baseWordIdx, rank)
}

// Select1 returns the position of the rank-th (1-indexed) 1-bit.
func (r *RankVec) Select1(rank uint64) uint64 {
	if rank == 0 || rank > r.GetNumOnes() {
		panic(fmt.Sprintf("rankvec.Select1: rank %d out of range", rank))
	}
	return r.selectBit(rank, true)
}

// Select0 returns the position of the rank-th (1-indexed) 0-bit.
func (r *RankVec) Select0(rank uint64) uint64 {
	if rank == 0 || rank > r.GetNumZeros() {
		panic(fmt.Sprintf("rankvec.Select0: rank %d out of range", rank))
	}
	return r.selectBit(rank, false)
}

// Predecessor1 returns the largest set-bit position <= v, or the
// not-found sentinel if none exists.
func (r *RankVec) Predecessor1(v uint64) uint64 {
	size := r.bv.Size()
	if size == 0 {
		return bitops.NotFound
	}
	if v >= size {
		v = size - 1
	}
	maxWords := uint64(1) + v/64
	if maxWords > 2 {
		maxWords = 2
	}
	if ans := bitops.PredecessorOne(r.bv.Words(), v, maxWords); ans != bitops.NotFound {
		return ans
	}
	if rk := r.Rank1(v); rk > 0 {
		return r.Select1(rk)
	}
	return bitops.NotFound
}

// Successor1 returns the smallest set-bit position >= v, or the
// not-found sentinel if none exists.
func (r *RankVec) Successor1(v uint64) uint64 {
	size := r.bv.Size()
	if v >= size {
		return bitops.NotFound
	}
	maxWords := uint64(1) + (size-v-1)/64
	if maxWords > 2 {
		maxWords = 2
	}
	if ans := bitops.SuccessorOne(r.bv.Words(), v, maxWords); ans < size {
		return ans
	}
	rk := r.Rank1(v)
	if rk < r.GetNumOnes() {
		return r.Select1(rk + 1)
	}
	return bitops.NotFound
}

// Predecessor0 is the zero-bit counterpart of Predecessor1.
func (r *RankVec) Predecessor0(v uint64) uint64 {
	size := r.bv.Size()
	if size == 0 {
		return bitops.NotFound
	}
	if v >= size {
		v = size - 1
	}
	maxWords := uint64(1) + v/64
	if maxWords > 2 {
		maxWords = 2
	}
	if ans := bitops.PredecessorZero(r.bv.Words(), v, maxWords); ans != bitops.NotFound {
		return ans
	}
	if rk := r.Rank0(v); rk > 0 {
		return r.Select0(rk)
	}
	return bitops.NotFound
}

// Successor0 is the zero-bit counterpart of Successor1.
func (r *RankVec) Successor0(v uint64) uint64 {
	size := r.bv.Size()
	if v >= size {
		return bitops.NotFound
	}
	maxWords := uint64(1) + (size-v-1)/64
	if maxWords > 2 {
		maxWords = 2
	}
	if ans := bitops.SuccessorZero(r.bv.Words(), v, maxWords); ans < size {
		return ans
	}
	rk := r.Rank0(v)
	if rk < r.GetNumZeros() {
		return r.Select0(rk + 1)
	}
	return bitops.NotFound
}

// Shorten truncates the vector to n bits, recomputing the top- and
// middle-block summaries at the new boundary. For p < n, Rank1(p) is
// unchanged by truncation.
func (r *RankVec) Shorten(n uint64) {
	if n > r.bv.Size() {
		panic(fmt.Sprintf("rankvec.Shorten: %d exceeds current size %d", n, r.bv.Size()))
	}
	if !r.bv.ResizeWithoutReserve(n) {
		panic("rankvec.Shorten: unexpected capacity shortfall")
	}
	if n == 0 {
		return
	}
	BT, BM := r.cfg.BlockSizeTop, r.cfg.BlockSizeMid
	pos := n - 1
	t := pos / BT
	remT := pos % BT

	withinTopBlockOnes := bitops.CountOnes(r.bv.Words(), (t*BT)/64, remT)
	var topPrefix uint64
	if t > 0 {
		topPrefix = r.topCount[t-1]
	}
	r.topCount[t] = topPrefix + withinTopBlockOnes
	if remT < BT-BM { // the last middle block of a top block is not stored
		idxM := pos/BM - t
		r.midCount[idxM] = uint16(withinTopBlockOnes)
	}
}

// GetNumOnes returns the total number of 1-bits.
func (r *RankVec) GetNumOnes() uint64 {
	if r.bv.Size() == 0 {
		return 0
	}
	return r.topCount[(r.bv.Size()-1)/r.cfg.BlockSizeTop]
}

// GetNumZeros returns the total number of 0-bits.
func (r *RankVec) GetNumZeros() uint64 {
	return r.bv.Size() - r.GetNumOnes()
}

// Words exposes the backing word array for read-only use by higher
// layers (e.g. eliasfano's gap-encoded hi sequence).
func (r *RankVec) Words() []uint64 { return r.bv.Words() }

// MemBytes estimates the memory footprint in bytes, including both
// summary arrays.
func (r *RankVec) MemBytes() uint64 {
	return r.bv.MemBytes() + uint64(len(r.topCount))*8 + uint64(len(r.midCount))*2
}
