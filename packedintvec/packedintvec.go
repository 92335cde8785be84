// Package packedintvec implements PackedIntVec, a random-access array of
// w-bit unsigned integers whose width w can be widened or narrowed in
// place, and PackedIntBlockVec, a block-partitioned variant tuned for
// append-heavy workloads.
package packedintvec

import (
	"fmt"

	"succinctbv/internal/bitops"
)

// MaxElements is the largest element count this library supports, chosen
// so that count*64 never overflows a uint64.
const MaxElements = (uint64(1) << 58) - 1

// PackedIntVec is a dense array of fixed-width (but dynamically
// changeable) unsigned integers, each occupying exactly w bits of a
// backing word array.
type PackedIntVec struct {
	words    []uint64
	w        uint8
	size     uint64
	capacity uint64 // in elements
}

func wordsForElems(capacity uint64, w uint8) uint64 {
	return (capacity*uint64(w) + 63) / 64
}

// NewPackedIntVec creates an empty vector of width w with room for at
// least capacityHint elements. w must be in [1,64].
func NewPackedIntVec(w uint8, capacityHint uint64) *PackedIntVec {
	if w == 0 || w > 64 {
		panic("packedintvec.NewPackedIntVec: w must be in [1,64]")
	}
	if capacityHint > MaxElements {
		panic("packedintvec.NewPackedIntVec: capacity exceeds MaxElements")
	}
	return &PackedIntVec{
		words:    make([]uint64, wordsForElems(capacityHint, w)),
		w:        w,
		capacity: capacityHint,
	}
}

// Width returns the current per-element bit width.
func (v *PackedIntVec) Width() uint8 { return v.w }

// Size returns the number of elements currently in use.
func (v *PackedIntVec) Size() uint64 { return v.size }

// Capacity returns the current element capacity.
func (v *PackedIntVec) Capacity() uint64 { return v.capacity }

// Empty reports whether the vector holds no elements.
func (v *PackedIntVec) Empty() bool { return v.size == 0 }

// Read returns the value stored at index i.
func (v *PackedIntVec) Read(i uint64) uint64 {
	if i >= v.size {
		panic(fmt.Sprintf("packedintvec.Read: index %d out of bounds (size %d)", i, v.size))
	}
	return bitops.ReadBits(v.words, i*uint64(v.w), v.w)
}

// Write stores val at index i. val must fit in the current width.
func (v *PackedIntVec) Write(i uint64, val uint64) {
	if i >= v.size {
		panic(fmt.Sprintf("packedintvec.Write: index %d out of bounds (size %d)", i, v.size))
	}
	if v.w < 64 && val > bitops.LowMask(v.w) {
		panic(fmt.Sprintf("packedintvec.Write: value %d does not fit in %d bits", val, v.w))
	}
	bitops.WriteBits(v.words, i*uint64(v.w), v.w, val)
}

// Append grows the vector by one element holding val.
func (v *PackedIntVec) Append(val uint64) {
	v.Resize(v.size + 1)
	v.Write(v.size-1, val)
}

// Resize grows or shrinks the logical size to n, expanding capacity first
// if necessary.
func (v *PackedIntVec) Resize(n uint64) {
	if n > v.capacity {
		v.ChangeCapacity(n)
	}
	v.size = n
}

// ResizeWithoutReserve sets the logical size to n without reallocating.
// Returns false (leaving the vector unchanged) if n exceeds capacity.
func (v *PackedIntVec) ResizeWithoutReserve(n uint64) bool {
	if n > v.capacity {
		return false
	}
	v.size = n
	return true
}

// ChangeCapacity adjusts capacity to max(size, c). Passing 0 shrinks
// capacity to exactly fit the current size.
func (v *PackedIntVec) ChangeCapacity(c uint64) {
	newCap := c
	if v.size > newCap {
		newCap = v.size
	}
	if newCap > MaxElements {
		panic("packedintvec.ChangeCapacity: capacity exceeds MaxElements")
	}
	n := wordsForElems(newCap, v.w)
	newWords := make([]uint64, n)
	copy(newWords, v.words)
	v.words = newWords
	v.capacity = newCap
}

// Clear resets the logical size to zero without releasing capacity.
func (v *PackedIntVec) Clear() {
	v.size = 0
}

// Convert changes the element width to w, preserving the logical value
// sequence (lossily, if narrowing). If doShrink is true the backing array
// is reallocated to exactly max(size, minCapacity) w-bit elements;
// otherwise it is reallocated only when the new width needs more words
// than currently allocated.
func (v *PackedIntVec) Convert(w uint8, minCapacity uint64, doShrink bool) {
	if w == 0 || w > 64 {
		panic("packedintvec.Convert: w must be in [1,64]")
	}
	if minCapacity > MaxElements {
		panic("packedintvec.Convert: minCapacity exceeds MaxElements")
	}

	oldW := v.w

	// Narrowing: compact forward (low to high) while the old layout is
	// still intact, so every read happens before the region it reads from
	// is ever overwritten.
	if w < oldW {
		mask := bitops.LowMask(w)
		for i := uint64(0); i < v.size; i++ {
			val := bitops.ReadBits(v.words, i*uint64(oldW), oldW) & mask
			bitops.WriteBits(v.words, i*uint64(w), w, val)
		}
	}

	if minCapacity < v.size {
		minCapacity = v.size
	}
	oldLen := wordsForElems(v.capacity, oldW)
	minLen := wordsForElems(minCapacity, w)
	if doShrink || minLen > oldLen {
		newWords := make([]uint64, minLen)
		copy(newWords, v.words)
		v.words = newWords
		v.capacity = (minLen * 64) / uint64(w)
	} else {
		v.capacity = (oldLen * 64) / uint64(w)
	}

	// Widening: expand backward (high to low) now that there is room, so
	// each wider write lands only on positions already read at the old
	// (narrower) width.
	if w > oldW {
		for i := v.size; i > 0; i-- {
			idx := i - 1
			val := bitops.ReadBits(v.words, idx*uint64(oldW), oldW)
			bitops.WriteBits(v.words, idx*uint64(w), w, val)
		}
	}

	v.w = w
}
