package stepcode

import (
	"math/rand"
	"testing"
	"time"
)

func TestStepCodeAppendAutoAndRead(t *testing.T) {
	sc := New(32, 0)
	vals := []uint64{0, 1, 15, 16, 255, 256, 1 << 20, 1<<40 + 7, ^uint64(0)}
	var bits uint64
	for _, v := range vals {
		bits += uint64(CalcSteppedW(v))
	}
	sc.ChangeBitCapacity(bits)
	for _, v := range vals {
		sc.AppendAuto(v)
	}
	if sc.Size() != uint64(len(vals)) {
		t.Fatalf("Size() = %d, want %d", sc.Size(), len(vals))
	}
	for i, want := range vals {
		if got := sc.Read(uint64(i)); got != want {
			t.Fatalf("Read(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestStepCodeExplicitWidth(t *testing.T) {
	sc := New(16, 0)
	sc.ChangeBitCapacity(8 * 12)
	sc.Append(5, 8)
	sc.Append(200, 12)
	if w := sc.ReadW(0); w != 8 {
		t.Fatalf("ReadW(0) = %d, want 8", w)
	}
	if w := sc.ReadW(1); w != 12 {
		t.Fatalf("ReadW(1) = %d, want 12", w)
	}
	if got := sc.Read(0); got != 5 {
		t.Fatalf("Read(0) = %d, want 5", got)
	}
	if got := sc.Read(1); got != 200 {
		t.Fatalf("Read(1) = %d, want 200", got)
	}
}

func TestStepCodeBitOfMatchesSumW(t *testing.T) {
	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	t.Logf("using seed %d", seed)

	sc := New(64, 0)
	n := 40
	vals := make([]uint64, n)
	var bitTotal uint64
	for i := 0; i < n; i++ {
		vals[i] = rng.Uint64() >> uint(rng.Intn(60))
		bitTotal += uint64(CalcSteppedW(vals[i]))
	}
	sc.ChangeBitCapacity(bitTotal)
	for _, v := range vals {
		sc.AppendAuto(v)
	}
	for i := 0; i < n; i++ {
		if got, want := sc.BitOf(uint64(i)), sc.SumW(0, uint64(i)); got != want {
			t.Fatalf("BitOf(%d) = %d, want SumW(0,%d) = %d", i, got, i, want)
		}
		if got, want := sc.Read(uint64(i)), vals[i]; got != want {
			t.Fatalf("Read(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestStepCodeBuildAuxMMatchesPlain(t *testing.T) {
	sc := New(64, 0)
	n := 50
	var bitTotal uint64
	vals := make([]uint64, n)
	for i := 0; i < n; i++ {
		vals[i] = uint64(i * i)
		bitTotal += uint64(CalcSteppedW(vals[i]))
	}
	sc.ChangeBitCapacity(bitTotal)
	for _, v := range vals {
		sc.AppendAuto(v)
	}
	plain := make([]uint64, n)
	for i := range plain {
		plain[i] = sc.BitOf(uint64(i))
	}
	sc.BuildAuxM()
	for i := 0; i < n; i++ {
		if got := sc.BitOf(uint64(i)); got != plain[i] {
			t.Fatalf("BitOf(%d) with auxM = %d, want %d", i, got, plain[i])
		}
	}
}

func TestStepCodeRewriteVal(t *testing.T) {
	sc := New(16, 0)
	sc.ChangeBitCapacity(64)
	sc.Append(10, 8)
	sc.Append(20, 8)
	sc.RewriteVal(255, 0)
	if got := sc.Read(0); got != 255 {
		t.Fatalf("Read(0) after RewriteVal = %d, want 255", got)
	}
	if got := sc.Read(1); got != 20 {
		t.Fatalf("Read(1) = %d, want unaffected 20", got)
	}
}

func TestStepCodeChangeWCodesAndValPosInsert(t *testing.T) {
	sc := New(32, 0)
	sc.ChangeBitCapacity(200)
	for _, v := range []uint64{1, 2, 3, 4} {
		sc.Append(v, 8)
	}
	// Splice one new 8-bit slot in at index 2, deleting nothing, then
	// populate it via RewriteVal.
	srcWCodes := make([]uint64, 1)
	srcWCodes[0] = 1 // wCode for an 8-bit value, at slot 0 of src
	insPos := sc.BitOf(2)
	sc.ChangeWCodesAndValPos(srcWCodes, 0, 1, 2, 0, insPos, 8, 0)
	sc.RewriteVal(99, 2)

	want := []uint64{1, 2, 99, 3, 4}
	if sc.Size() != uint64(len(want)) {
		t.Fatalf("Size() = %d, want %d", sc.Size(), len(want))
	}
	for i, w := range want {
		if got := sc.Read(uint64(i)); got != w {
			t.Fatalf("Read(%d) = %d, want %d", i, got, w)
		}
	}
}
