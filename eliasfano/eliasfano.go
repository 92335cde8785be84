// Package eliasfano implements EliasFanoSeq, a compressed representation
// of a strictly increasing sequence of uints using the Elias-Fano
// scheme: each value's high bits are unary/gap-encoded into a RankVec,
// and its low bits are packed into a PackedIntVec. The low-bit width is
// tunable and can be rebalanced in place via Convert.
package eliasfano

import (
	"fmt"
	"sort"

	"succinctbv/internal/bitops"
	"succinctbv/packedintvec"
	"succinctbv/rankvec"
)

// Config controls the low-bit width and the capacity margin used when the
// high-bit RankVec needs to grow.
type Config struct {
	LowBits      uint8
	MarginFactor float64
}

// DefaultConfig returns loW=8 and a 1.5x growth margin.
func DefaultConfig() Config {
	return Config{LowBits: 8, MarginFactor: 1.5}
}

// OptimalLowBits returns the low-bit width that minimizes total space for
// a sequence of size elements with maximum value max.
func OptimalLowBits(max uint64, size uint64) uint8 {
	if size == 0 {
		panic("eliasfano.OptimalLowBits: size must be > 0")
	}
	return bitops.BitSize(uint64(float64(max) / (float64(size) * 1.44)))
}

// EliasFanoSeq is an append-only, monotone-sequence container supporting
// rank/select/predecessor/successor over its stored values.
type EliasFanoSeq struct {
	rsv   *rankvec.RankVec
	lo    *packedintvec.PackedIntVec
	rvCfg rankvec.Config
}

// NewEliasFanoSeq creates an empty sequence with the given initial
// low-bit width and room for at least capacityHint elements.
func NewEliasFanoSeq(cfg Config, rvCfg rankvec.Config, capacityHint uint64) *EliasFanoSeq {
	if cfg.LowBits == 0 || cfg.LowBits > 64 {
		panic("eliasfano.NewEliasFanoSeq: LowBits must be in [1,64]")
	}
	return &EliasFanoSeq{
		rsv:   rankvec.NewRankVec(capacityHint, rvCfg),
		lo:    packedintvec.NewPackedIntVec(cfg.LowBits, capacityHint),
		rvCfg: rvCfg,
	}
}

// GetLoW returns the current low-bit width.
func (e *EliasFanoSeq) GetLoW() uint8 { return e.lo.Width() }

// Size returns the number of elements stored.
func (e *EliasFanoSeq) Size() uint64 { return e.lo.Size() }

// Capacity returns the element capacity of the low-bit array.
func (e *EliasFanoSeq) Capacity() uint64 { return e.lo.Capacity() }

// Empty reports whether the sequence holds no elements.
func (e *EliasFanoSeq) Empty() bool { return e.lo.Empty() }

// GetNumOnes returns the number of elements (the "1" count in the
// conceptual indicator-bit view of the sequence).
func (e *EliasFanoSeq) GetNumOnes() uint64 { return e.lo.Size() }

// GetNumZeros returns Max()+1-GetNumOnes(), the number of non-member
// positions below the maximum stored value (equal to Rank0(Max())).
func (e *EliasFanoSeq) GetNumZeros() uint64 {
	num1 := e.GetNumOnes()
	if num1 == 0 {
		return 0
	}
	return e.Max() + 1 - num1
}

// Max returns the largest value appended so far.
func (e *EliasFanoSeq) Max() uint64 {
	if e.lo.Size() == 0 {
		panic("eliasfano.Max: sequence is empty")
	}
	return (e.rsv.GetNumZeros() << e.lo.Width()) + e.lo.Read(e.lo.Size()-1)
}

// MemBytes estimates the memory footprint in bytes.
func (e *EliasFanoSeq) MemBytes() uint64 {
	loWords := (e.lo.Capacity()*uint64(e.lo.Width()) + 63) / 64
	return e.rsv.MemBytes() + loWords*8
}

// Clear resets the logical size to zero without releasing capacity.
func (e *EliasFanoSeq) Clear() {
	e.lo.Clear()
	e.rsv.Clear()
}

// ChangeCapacity changes the low-part capacity to max(size, given). It
// does not touch the high-part RankVec's capacity, matching the
// asymmetric original: hi-part capacity is only ever adjusted by Append
// (on overflow) and Convert/ShrinkToFit.
func (e *EliasFanoSeq) ChangeCapacity(given uint64) {
	e.lo.ChangeCapacity(given)
}

// ShrinkToFit reallocates both the low- and high-part storage to exactly
// fit the current size.
func (e *EliasFanoSeq) ShrinkToFit() {
	e.lo.ChangeCapacity(0)
	e.rsv.ChangeCapacity(0)
}

// Append adds val to the end of the sequence. val must be strictly
// greater than the current maximum (the sequence is monotone). marginFactor
// scales the capacity reserved for the high-part RankVec whenever it must
// grow to accommodate val's high bits.
func (e *EliasFanoSeq) Append(val uint64, marginFactor float64) {
	if e.lo.Size() > 0 && !(e.Max() < val) {
		panic(fmt.Sprintf("eliasfano.Append: val %d is not strictly greater than current max %d", val, e.Max()))
	}
	pos := e.lo.Size()
	loW := e.lo.Width()
	e.lo.Resize(pos + 1)
	e.lo.Write(pos, val&bitops.LowMask(loW))

	diff0 := (val >> loW) - e.rsv.GetNumZeros()
	rvSizeNew := e.rsv.Size() + diff0 + 1
	if rvSizeNew > e.rsv.Capacity() {
		e.rsv.ChangeCapacity(uint64(float64(rvSizeNew) * marginFactor))
	}
	for i := uint64(0); i < diff0; i++ {
		e.rsv.AppendBit(false)
	}
	e.rsv.AppendBit(true)
}

func partitionIdx(lo, hi uint64, pred func(uint64) bool) uint64 {
	n := int(hi - lo)
	return lo + uint64(sort.Search(n, func(k int) bool { return pred(lo + uint64(k)) }))
}

// Rank1 returns the number of stored values <= pos.
func (e *EliasFanoSeq) Rank1(pos uint64) uint64 {
	size := e.lo.Size()
	if size == 0 {
		return 0
	}
	loW := e.lo.Width()
	hiBits := pos >> loW
	hiMax := e.rsv.GetNumZeros()
	if hiBits > hiMax {
		return size
	}
	var rvPos uint64
	if hiBits > 0 {
		rvPos = e.rsv.Select0(hiBits) + 1
	}
	rankLb := e.rsv.Rank1(rvPos)
	if !e.rsv.ReadBit(rvPos) {
		return rankLb
	}
	var rankUb uint64
	if hiBits < hiMax {
		rankUb = rankLb + e.rsv.Successor0(rvPos) - rvPos
	} else {
		rankUb = size + 1
	}
	key := pos & bitops.LowMask(loW)
	if key < e.lo.Read(rankUb-2) {
		return partitionIdx(rankLb-1, rankUb-1, func(i uint64) bool { return key < e.lo.Read(i) })
	}
	return rankUb - 1
}

// Rank0 returns the number of non-member positions <= pos.
func (e *EliasFanoSeq) Rank0(pos uint64) uint64 {
	return pos + 1 - e.Rank1(pos)
}

// Select1 returns the rank-th (1-indexed) stored value.
func (e *EliasFanoSeq) Select1(rank uint64) uint64 {
	if rank == 0 || rank > e.GetNumOnes() {
		panic(fmt.Sprintf("eliasfano.Select1: rank %d out of range", rank))
	}
	return (e.rsv.Rank0(e.rsv.Select1(rank)) << e.lo.Width()) + e.lo.Read(rank-1)
}

// Select0 returns the rank-th (1-indexed) position not present in the
// sequence, counting positions below the maximum stored value.
func (e *EliasFanoSeq) Select0(rank uint64) uint64 {
	if rank == 0 || rank > e.GetNumZeros() {
		panic(fmt.Sprintf("eliasfano.Select0: rank %d out of range", rank))
	}
	if rank < (e.rsv.Successor1(0)<<e.lo.Width())+e.lo.Read(0) {
		return rank - 1
	}
	idx := partitionIdx(0, e.lo.Size(), func(i uint64) bool { return rank <= e.Select1(i+1)-i })
	return rank + idx - 1
}

// Predecessor1 returns the largest stored value <= val, or Max() if val
// is at or beyond the maximum, or the not-found sentinel if no stored
// value is <= val (including when the sequence is empty).
func (e *EliasFanoSeq) Predecessor1(val uint64) uint64 {
	if e.lo.Size() == 0 {
		return bitops.NotFound
	}
	if val >= e.Max() {
		return e.Max()
	}
	if r := e.Rank1(val); r > 0 {
		return e.Select1(r)
	}
	return bitops.NotFound
}

// Successor1 returns the smallest stored value >= val, or the not-found
// sentinel if none exists.
func (e *EliasFanoSeq) Successor1(val uint64) uint64 {
	if e.lo.Size() == 0 || val > e.Max() {
		return bitops.NotFound
	}
	r := e.Rank1(val)
	if r == 0 {
		return e.Select1(1)
	}
	s := e.Select1(r)
	if s < val {
		return e.Select1(r + 1)
	}
	return s
}

// Convert rebalances the low/high bit-width split to loW, preserving the
// stored value sequence. minCapacity (raised to at least the current
// size, so 0 means "just fit size") is the element capacity requested for
// the low-part array; marginFactor scales the rebuilt high-part RankVec's
// capacity relative to its new bit size. doShrink controls whether the
// low-part array is reallocated to exactly fit when loW is unchanged or
// narrowed; widening always rebuilds the low part at minCapacity.
func (e *EliasFanoSeq) Convert(loW uint8, minCapacity uint64, marginFactor float64, doShrink bool) {
	if loW == 0 || loW > 64 {
		panic("eliasfano.Convert: loW must be in [1,64]")
	}
	loWOld := e.lo.Width()
	if loW == loWOld {
		if doShrink {
			e.lo.Convert(loW, minCapacity, true)
			sizeWithMargin := uint64(float64(e.rsv.Size()) * marginFactor)
			if sizeWithMargin < e.rsv.Capacity() {
				e.rsv.ChangeCapacity(sizeWithMargin)
			}
		}
		return
	}

	size := e.lo.Size()
	if minCapacity < size {
		minCapacity = size
	}

	if loW > loWOld {
		e.ShrinkToFit()
		diffW := loW - loWOld

		newLo := packedintvec.NewPackedIntVec(loW, minCapacity)
		newLo.Resize(size)
		rvPos := uint64(0)
		for i := uint64(0); i < size; i++ {
			rvPos = e.rsv.Successor1(rvPos)
			val := ((rvPos - i) << loWOld) + e.lo.Read(i)
			newLo.Write(i, val&bitops.LowMask(loW))
			rvPos++
		}
		e.lo = newLo

		rsvNewSize := size + (e.rsv.GetNumZeros() >> diffW)
		rsvNew := rankvec.NewRankVec(uint64(float64(rsvNewSize)*marginFactor), e.rvCfg)
		rvPos = 0
		cur := uint64(0)
		for i := uint64(0); i < size; i++ {
			rvPos = e.rsv.Successor1(rvPos)
			next := (rvPos - i) >> diffW
			for cur < next {
				rsvNew.AppendBit(false)
				cur++
			}
			rsvNew.AppendBit(true)
			rvPos++
		}
		e.rsv = rsvNew
	} else {
		diffW := loWOld - loW

		rsvNewSize := size + (e.rsv.GetNumZeros() << diffW) + (e.lo.Read(size-1) >> loW)
		rsvNew := rankvec.NewRankVec(uint64(float64(rsvNewSize)*marginFactor), e.rvCfg)
		rvPos := uint64(0)
		cur := uint64(0)
		for i := uint64(0); i < size; i++ {
			rvPos = e.rsv.Successor1(rvPos)
			next := (rvPos-i)<<diffW + (e.lo.Read(i) >> loW)
			for cur < next {
				rsvNew.AppendBit(false)
				cur++
			}
			rsvNew.AppendBit(true)
			rvPos++
		}
		e.rsv = rsvNew

		e.lo.Convert(loW, minCapacity, doShrink)
	}
}
