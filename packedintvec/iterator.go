package packedintvec

// Iterator is an index-plus-borrow handle into a PackedIntVec, scoped to
// the vector it was created from. Unlike a raw pointer it survives the
// Go garbage collector moving nothing (Go slices don't move), but it is
// still invalidated without notification by any operation on the owning
// vector that can reallocate the backing array: Resize past capacity,
// Convert, or ChangeCapacity. Using an iterator after such an operation
// is a precondition violation.
type Iterator struct {
	v   *PackedIntVec
	pos uint64 // element index
}

// Begin returns an iterator positioned at index 0.
func (v *PackedIntVec) Begin() Iterator { return Iterator{v: v, pos: 0} }

// End returns an iterator positioned one past the last element.
func (v *PackedIntVec) End() Iterator { return Iterator{v: v, pos: v.size} }

// At returns an iterator positioned at index i.
func (v *PackedIntVec) At(i uint64) Iterator { return Iterator{v: v, pos: i} }

// Read returns the value at the iterator's current position.
func (it Iterator) Read() uint64 { return it.v.Read(it.pos) }

// Write stores val at the iterator's current position.
func (it Iterator) Write(val uint64) { it.v.Write(it.pos, val) }

// Pos returns the iterator's current element index.
func (it Iterator) Pos() uint64 { return it.pos }

// Next returns an iterator advanced by one element.
func (it Iterator) Next() Iterator { return Iterator{v: it.v, pos: it.pos + 1} }

// Prev returns an iterator moved back by one element.
func (it Iterator) Prev() Iterator { return Iterator{v: it.v, pos: it.pos - 1} }

// Advance returns an iterator moved by n elements (n may be negative),
// an O(1) jump matching the original's random-access-style iterator
// arithmetic.
func (it Iterator) Advance(n int64) Iterator {
	return Iterator{v: it.v, pos: uint64(int64(it.pos) + n)}
}

// Equal reports whether two iterators refer to the same vector and
// position.
func (it Iterator) Equal(other Iterator) bool {
	return it.v == other.v && it.pos == other.pos
}
