// Package stepcode implements StepCode, a small-capacity container of
// uintegers where each value is padded to the smallest multiple of 4 bits
// that fits it. A value's width is recorded as a 4-bit wCode (width/4 - 1)
// in a fixed-size side array, so K values never need more than K/2 bytes
// of width bookkeeping regardless of how wide the individual values are.
//
// StepCode is built for small, bounded-capacity sets (K is fixed at
// construction and typically <= 128), not for large append-heavy
// sequences -- see packedintvec and eliasfano for those.
package stepcode

import (
	"fmt"

	"succinctbv/internal/bitops"
)

const (
	// Step is the bit-width granularity every stored value is padded to.
	Step = 4
	// WCBits is the width of a single wCode slot.
	WCBits = 4
	// WCNum is the number of wCode slots packed into one 64-bit word.
	WCNum = 16
)

// CalcWCode returns the wCode for the smallest stepped width that fits v.
func CalcWCode(v uint64) uint8 {
	return (bitops.BitSize(v) - 1) / Step
}

// CalcSteppedW returns the smallest multiple of 4 bits (in [4,64]) that
// fits v.
func CalcSteppedW(v uint64) uint8 {
	return (bitops.BitSize(v) + 3) / Step * Step
}

// CalcWCodeFromSteppedW converts a stepped width (a multiple of 4 in
// [4,64]) to its wCode.
func CalcWCodeFromSteppedW(steppedW uint8) uint8 {
	if steppedW == 0 || steppedW > 64 || steppedW%Step != 0 {
		panic("stepcode.CalcWCodeFromSteppedW: steppedW must be a multiple of 4 in [4,64]")
	}
	return steppedW/Step - 1
}

// sumWCodes returns the sum of the sixteen 4-bit wCodes packed into w, via
// the SWAR nibble-sum trick: pairwise-fold 4-bit lanes up to a single byte.
func sumWCodes(w uint64) uint8 {
	w = ((w & 0xf0f0f0f0f0f0f0f0) >> 4) + (w & 0x0f0f0f0f0f0f0f0f)
	w += w >> 8
	w += w >> 16
	w += w >> 32
	return uint8(w & 0xff)
}

// StepCode stores up to a fixed capacity k of uintegers, each at its own
// stepped width.
type StepCode struct {
	k       uint32
	wCodes  []uint64 // k/WCNum words, 4 bits per slot
	vals    []uint64
	bitCap  uint64
	bitSize uint64
	size    uint64
	auxM    []uint8 // optional per-word wCode-sum cache; nil until BuildAuxM
}

// New creates an empty StepCode with capacity for exactly k values (k
// must be a positive multiple of 16) and room for at least
// initBitCapacity bits of value storage.
func New(k uint32, initBitCapacity uint64) *StepCode {
	if k == 0 || k%WCNum != 0 {
		panic("stepcode.New: k must be a positive multiple of 16")
	}
	sc := &StepCode{
		k:      k,
		wCodes: make([]uint64, k/WCNum),
	}
	sc.ChangeBitCapacity(initBitCapacity)
	return sc
}

// Capacity returns the fixed maximum number of values (k).
func (sc *StepCode) Capacity() uint32 { return sc.k }

// Size returns the number of values currently stored.
func (sc *StepCode) Size() uint64 { return sc.size }

// Empty reports whether the container holds no values.
func (sc *StepCode) Empty() bool { return sc.size == 0 }

// BitCapacity returns the current bit capacity of the value storage.
func (sc *StepCode) BitCapacity() uint64 { return sc.bitCap }

// BitSize returns the number of bits currently used for value storage.
func (sc *StepCode) BitSize() uint64 { return sc.bitSize }

// MemBytes estimates the memory footprint in bytes.
func (sc *StepCode) MemBytes() uint64 {
	return uint64(len(sc.wCodes))*8 + sc.bitCap/8
}

// Clear resets the logical size to zero, keeping bit capacity.
func (sc *StepCode) Clear() {
	sc.size = 0
	sc.bitSize = 0
	sc.auxM = nil
}

// ChangeBitCapacity adjusts value-storage bit capacity to
// max(bitSize, givenCapacity). Passing 0 shrinks to exactly fit the
// current bit size.
func (sc *StepCode) ChangeBitCapacity(givenCapacity uint64) {
	want := givenCapacity
	if sc.bitSize > want {
		want = sc.bitSize
	}
	if want == sc.bitCap {
		return
	}
	n := (want + 63) / 64
	newVals := make([]uint64, n)
	copy(newVals, sc.vals)
	sc.vals = newVals
	sc.bitCap = n * 64
}

// ReadW returns the bit-width of the idx-th (0-based) stored value.
func (sc *StepCode) ReadW(idx uint64) uint8 {
	wCode := uint8(bitops.ReadBits(sc.wCodes, idx*WCBits, WCBits))
	return Step * (wCode + 1)
}

// WriteWCode writes the wCode for the idx-th value.
func (sc *StepCode) WriteWCode(wCode uint8, idx uint64) {
	if wCode > 15 {
		panic("stepcode.WriteWCode: wCode must be <= 15")
	}
	bitops.WriteBits(sc.wCodes, idx*WCBits, WCBits, uint64(wCode))
}

// SumW returns the sum of bit-widths of values indexed [beg, end).
func (sc *StepCode) SumW(beg, end uint64) uint64 {
	if beg > end {
		panic("stepcode.SumW: beg must be <= end")
	}
	var sum uint64
	for i := beg; i < end; i++ {
		sum += uint64(sc.ReadW(i))
	}
	return sum
}

// BuildAuxM (re)builds the wCodesAuxM cache: one byte per wCodes word,
// holding the sum of that word's sixteen wCodes. BitOf uses it
// automatically once built, reducing offset computation to a loop over
// cached per-word sums. Append, Clear and ChangeWCodesAndValPos drop the
// cache; BitOf then sums wCodes words directly until BuildAuxM is called
// again.
func (sc *StepCode) BuildAuxM() {
	aux := make([]uint8, len(sc.wCodes))
	for i, w := range sc.wCodes {
		aux[i] = sumWCodes(w)
	}
	sc.auxM = aux
}

// BitOf returns the bit offset of the idx-th (0-based) stored value.
func (sc *StepCode) BitOf(idx uint64) uint64 {
	sum := idx
	word := idx / WCNum
	if sc.auxM != nil {
		for i := uint64(0); i < word; i++ {
			sum += uint64(sc.auxM[i])
		}
	} else {
		for i := uint64(0); i < word; i++ {
			sum += uint64(sumWCodes(sc.wCodes[i]))
		}
	}
	if rem := idx % WCNum; rem != 0 {
		masked := sc.wCodes[word] & bitops.LowMask(uint8(rem*WCBits))
		sum += uint64(sumWCodes(masked))
	}
	return sum * Step
}

// Read returns the idx-th (0-based) stored value.
func (sc *StepCode) Read(idx uint64) uint64 {
	if idx >= sc.size {
		panic(fmt.Sprintf("stepcode.Read: index %d out of bounds (size %d)", idx, sc.size))
	}
	pos := sc.BitOf(idx)
	w := sc.ReadW(idx)
	return bitops.ReadBits(sc.vals, pos, w)
}

// RewriteVal overwrites the idx-th value in place without changing its
// stored bit-width. val must fit in ReadW(idx) bits.
func (sc *StepCode) RewriteVal(val, idx uint64) {
	if idx >= sc.size {
		panic(fmt.Sprintf("stepcode.RewriteVal: index %d out of bounds (size %d)", idx, sc.size))
	}
	w := sc.ReadW(idx)
	if w < 64 && val > bitops.LowMask(w) {
		panic("stepcode.RewriteVal: val does not fit in the existing width")
	}
	bitops.WriteBits(sc.vals, sc.BitOf(idx), w, val)
}

// Append adds val at width w (a multiple of 4 in [4,64] that val must fit
// in), growing size by one. The caller must have already grown bit
// capacity to fit (ChangeBitCapacity).
func (sc *StepCode) Append(val uint64, w uint8) {
	if uint64(sc.size) >= uint64(sc.k) {
		panic("stepcode.Append: at capacity")
	}
	if w == 0 || w > 64 || w%Step != 0 {
		panic("stepcode.Append: w must be a multiple of 4 in [4,64]")
	}
	if bitops.BitSize(val) > w {
		panic("stepcode.Append: val does not fit in w bits")
	}
	if sc.bitSize+uint64(w) > sc.bitCap {
		panic("stepcode.Append: bit-size would exceed bit-capacity; ChangeBitCapacity first")
	}
	bitops.WriteBits(sc.vals, sc.bitSize, w, val)
	sc.WriteWCode(CalcWCodeFromSteppedW(w), sc.size)
	sc.bitSize += uint64(w)
	sc.size++
	sc.auxM = nil
}

// AppendAuto is Append with the stepped width chosen automatically as the
// smallest multiple of 4 bits that fits val.
func (sc *StepCode) AppendAuto(val uint64) {
	sc.Append(val, CalcSteppedW(val))
}

// ChangeWCodesAndValPos splices wCodes and shifts value bits atomically:
// it replaces the tgtLen wCodes starting at tgtIdxBeg with the srcLen
// wCodes from src[srcIdxBeg:], shifting any surviving tail of wCodes
// left/right to match, then moves the value bits starting at
// bitPos+delBitLen to bitPos+insBitLen (the tail after the spliced
// region) and adjusts bit-size accordingly. The caller is responsible for
// ensuring both resulting sizes stay within capacity.
func (sc *StepCode) ChangeWCodesAndValPos(src []uint64, srcIdxBeg, srcLen, tgtIdxBeg, tgtLen, bitPos, insBitLen, delBitLen uint64) {
	if tgtIdxBeg+tgtLen > sc.size {
		panic("stepcode.ChangeWCodesAndValPos: target range exceeds size")
	}
	if sc.size-tgtLen+srcLen > uint64(sc.k) {
		panic("stepcode.ChangeWCodesAndValPos: resulting size would exceed capacity")
	}

	tailNum := sc.size - (tgtIdxBeg + tgtLen)
	if srcLen != tgtLen && tailNum > 0 {
		bitops.MoveBits(sc.wCodes, (tgtIdxBeg+srcLen)*WCBits, sc.wCodes, (tgtIdxBeg+tgtLen)*WCBits, tailNum*WCBits)
	}
	if srcLen > 0 {
		bitops.MoveBits(sc.wCodes, tgtIdxBeg*WCBits, src, srcIdxBeg*WCBits, srcLen*WCBits)
	}
	sc.size += srcLen - tgtLen

	srcPos := bitPos + delBitLen
	tgtPos := bitPos + insBitLen
	bitops.MoveBits(sc.vals, tgtPos, sc.vals, srcPos, sc.bitSize-srcPos)
	sc.bitSize += insBitLen - delBitLen
	sc.auxM = nil
}

// MvVals copies bitLen value bits from an external array at srcBitPos
// into this container's value storage at tgtBitPos, with memmove
// semantics if src happens to alias this container's own vals.
func (sc *StepCode) MvVals(src []uint64, srcBitPos, tgtBitPos, bitLen uint64) {
	bitops.MoveBits(sc.vals, tgtBitPos, src, srcBitPos, bitLen)
}
