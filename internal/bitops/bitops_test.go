package bitops

import (
	"fmt"
	"math/rand"
	"testing"
	"time"
)

func TestLowMask(t *testing.T) {
	tests := []struct {
		w    uint8
		want uint64
	}{
		{0, 0},
		{1, 1},
		{7, 0x7f},
		{63, LowMask(63)},
		{64, ^uint64(0)},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("w=%d", tc.w), func(t *testing.T) {
			if got := LowMask(tc.w); got != tc.want {
				t.Errorf("LowMask(%d) = %#x, want %#x", tc.w, got, tc.want)
			}
		})
	}
}

func TestBitSize(t *testing.T) {
	tests := []struct {
		v    uint64
		want uint8
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{127, 7},
		{128, 8},
		{^uint64(0), 64},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("v=%d", tc.v), func(t *testing.T) {
			if got := BitSize(tc.v); got != tc.want {
				t.Errorf("BitSize(%d) = %d, want %d", tc.v, got, tc.want)
			}
		})
	}
}

func TestReadWriteBitsRoundTrip(t *testing.T) {
	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	t.Logf("using seed %d", seed)

	for _, w := range []uint8{0, 1, 7, 8, 31, 32, 63, 64} {
		t.Run(fmt.Sprintf("w=%d", w), func(t *testing.T) {
			n := 500
			arr := make([]uint64, (uint64(n)*64+63)/64+2)
			vals := make([]uint64, n)
			mask := LowMask(w)
			for i := 0; i < n; i++ {
				v := rng.Uint64() & mask
				vals[i] = v
				WriteBits(arr, uint64(i)*64, w, v)
			}
			for i := 0; i < n; i++ {
				if got := ReadBits(arr, uint64(i)*64, w); got != vals[i] {
					t.Fatalf("ReadBits(i=%d) = %d, want %d", i, got, vals[i])
				}
			}
		})
	}
}

func TestReadWriteBitsUnaligned(t *testing.T) {
	arr := make([]uint64, 4)
	// straddles a word boundary: start at bit 60, width 9.
	WriteBits(arr, 60, 9, 0x1ab)
	if got := ReadBits(arr, 60, 9); got != 0x1ab {
		t.Fatalf("ReadBits = %#x, want %#x", got, 0x1ab)
	}
}

func TestCountOnesAndSelectOne(t *testing.T) {
	arr := []uint64{0b1011, 0, 0b101, ^uint64(0)}
	// bits set at logical positions: 0,1,3 (word0), 128+0,128+2 (word2), 192..255 (word3)
	if got, want := CountOnes(arr, 0, 3), uint64(3); got != want {
		t.Fatalf("CountOnes(word0, i=3) = %d, want %d", got, want)
	}
	if got, want := CountOnes(arr, 0, 63), uint64(3); got != want {
		t.Fatalf("CountOnes(word0 full) = %d, want %d", got, want)
	}
	if got, want := SelectOne(arr, 0, 1), uint64(0); got != want {
		t.Fatalf("SelectOne(rank=1) = %d, want %d", got, want)
	}
	if got, want := SelectOne(arr, 0, 3), uint64(3); got != want {
		t.Fatalf("SelectOne(rank=3) = %d, want %d", got, want)
	}
	if got, want := SelectOne(arr, 0, 4), uint64(128); got != want {
		t.Fatalf("SelectOne(rank=4) = %d, want %d", got, want)
	}
}

func TestPredecessorSuccessorOne(t *testing.T) {
	arr := []uint64{0b0010, 0, 0b0001}
	if got, want := PredecessorOne(arr, 10, 3), uint64(1); got != want {
		t.Fatalf("PredecessorOne(10) = %d, want %d", got, want)
	}
	if got := PredecessorOne(arr, 0, 1); got != NotFound {
		t.Fatalf("PredecessorOne(0) = %d, want NotFound", got)
	}
	if got, want := SuccessorOne(arr, 2, 3), uint64(128); got != want {
		t.Fatalf("SuccessorOne(2) = %d, want %d", got, want)
	}
	if got := SuccessorOne(arr, 129, 1); got != NotFound {
		t.Fatalf("SuccessorOne(129) = %d, want NotFound", got)
	}
}

func TestMoveBitsOverlapForward(t *testing.T) {
	const n = 10
	arr := make([]uint64, n)
	for i := 0; i < n; i++ {
		arr[i] = uint64(i)
	}
	// shift everything right by one word: dst=64 > src=0 -> backward copy.
	MoveBits(arr, 64, arr, 0, 64*(n-1))
	if arr[0] != 0 {
		t.Fatalf("arr[0] = %d, want unchanged 0", arr[0])
	}
	for i := 0; i < n-1; i++ {
		if arr[i+1] != uint64(i) {
			t.Fatalf("arr[%d] = %d, want %d", i+1, arr[i+1], i)
		}
	}
}

func TestMoveBitsOverlapBackward(t *testing.T) {
	const n = 10
	arr := make([]uint64, n)
	for i := 0; i < n; i++ {
		arr[i] = uint64(i)
	}
	// shift everything left by one word: dst=0 < src=64 -> forward copy.
	MoveBits(arr, 0, arr, 64, 64*(n-1))
	for i := 0; i < n-1; i++ {
		if arr[i] != uint64(i+1) {
			t.Fatalf("arr[%d] = %d, want %d", i, arr[i], i+1)
		}
	}
}

func TestCopyBitsNonOverlap(t *testing.T) {
	src := []uint64{0xdeadbeef, 0x1, 0, 0}
	dst := make([]uint64, 4)
	CopyBits(dst, 70, src, 3, 40)
	want := ReadBits(src, 3, 40)
	if got := ReadBits(dst, 70, 40); got != want {
		t.Fatalf("CopyBits mismatch: got %#x, want %#x", got, want)
	}
}

func assertPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("function %s did not panic as expected", name)
		}
	}()
	f()
}
