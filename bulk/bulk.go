// Package bulk provides bulk-construction harnesses for building a
// RankVec or EliasFanoSeq from a large bit/value sequence in one call,
// with progress reporting for long-running builds and an integrity
// fingerprint of the finished structure.
package bulk

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"succinctbv/eliasfano"
	"succinctbv/internal/util"
	"succinctbv/rankvec"
)

// RankVecResult bundles a built RankVec with a content fingerprint, so callers
// transferring the structure between processes (or just logging a build
// report) have a cheap way to assert it matches what was built.
type RankVecResult struct {
	Vec         *rankvec.RankVec
	Fingerprint uint64
}

// EliasFanoResult is the EliasFanoSeq counterpart of RankVecResult.
type EliasFanoResult struct {
	Seq         *eliasfano.EliasFanoSeq
	Fingerprint uint64
}

// BuildRankVec appends every bit in bits to a fresh RankVec, reporting
// progress via a util.ProgressLogger when verbose is true, and returns
// the finished vector together with an xxhash fingerprint over its
// packed words.
func BuildRankVec(bits []bool, cfg rankvec.Config, verbose bool) RankVecResult {
	n := uint64(len(bits))
	rv := rankvec.NewRankVec(n, cfg)
	pl := util.NewProgressLogger(n, "building rankvec: ", "", verbose)
	for _, b := range bits {
		rv.AppendBit(b)
		pl.Log()
	}
	pl.Finalize()
	return RankVecResult{Vec: rv, Fingerprint: fingerprintWords(rv.Words(), rv.Size())}
}

// BuildEliasFano appends every value in vals (which must be strictly
// increasing) to a fresh EliasFanoSeq at the low-bit width that is
// optimal for the final maximum and element count, reporting progress
// via util.ProgressLogger, and returns the finished sequence together
// with an xxhash fingerprint.
func BuildEliasFano(vals []uint64, rvCfg rankvec.Config, marginFactor float64, verbose bool) (EliasFanoResult, error) {
	n := uint64(len(vals))
	if n == 0 {
		return EliasFanoResult{}, fmt.Errorf("bulk.BuildEliasFano: vals must be non-empty")
	}
	max := vals[n-1]
	loW := eliasfano.OptimalLowBits(max, n)
	seq := eliasfano.NewEliasFanoSeq(eliasfano.Config{LowBits: loW, MarginFactor: marginFactor}, rvCfg, n)

	pl := util.NewProgressLogger(n, "building eliasfano: ", "", verbose)
	for i, v := range vals {
		if i > 0 && v <= vals[i-1] {
			return EliasFanoResult{}, fmt.Errorf("bulk.BuildEliasFano: vals must be strictly increasing (vals[%d]=%d <= vals[%d]=%d)", i, v, i-1, vals[i-1])
		}
		seq.Append(v, marginFactor)
		pl.Log()
	}
	pl.Finalize()

	return EliasFanoResult{Seq: seq, Fingerprint: fingerprintEliasFano(seq)}, nil
}

// fingerprintWords hashes the in-use prefix of a packed word array (the
// first ceil(sizeBits/64) words) with xxhash, the teacher's sole
// third-party dependency, giving callers a cheap equality check without
// comparing full structures.
func fingerprintWords(words []uint64, sizeBits uint64) uint64 {
	n := (sizeBits + 63) / 64
	buf := make([]byte, n*8)
	for i := uint64(0); i < n; i++ {
		w := words[i]
		for j := 0; j < 8; j++ {
			buf[i*8+uint64(j)] = byte(w >> (8 * j))
		}
	}
	return xxhash.Sum64(buf)
}

// fingerprintEliasFano hashes an EliasFanoSeq's logical value sequence
// (not its internal representation, so fingerprints stay stable across
// Convert calls that rebalance the low/high split without changing any
// stored value).
func fingerprintEliasFano(seq *eliasfano.EliasFanoSeq) uint64 {
	n := seq.Size()
	buf := make([]byte, n*8)
	for i := uint64(0); i < n; i++ {
		v := seq.Select1(i + 1)
		for j := 0; j < 8; j++ {
			buf[i*8+uint64(j)] = byte(v >> (8 * j))
		}
	}
	return xxhash.Sum64(buf)
}
