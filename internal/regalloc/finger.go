package regalloc

// AllocationFinger caches four forward-only cursors into a LiveRange's own
// lists. They are computed by reset when construction finishes and again
// whenever the range is split; the allocation loop does not call advanceTo.
// Re-deriving "the next register use" or
// "the next hinted use" by re-walking the use-position list from the head
// every time AllocateFreeRegister/AllocateAnyRegister asks for it would
// make the allocation loop quadratic in the number of uses per range;
// caching these four cursors keeps each query O(1) amortized.
type AllocationFinger struct {
	pendingInterval        *UseInterval
	firstRegisterUse       *UsePosition
	firstRegisterBeneficial *UsePosition
	firstHintedUse         *UsePosition
}

// reset recomputes the finger from scratch, used whenever a range is
// created or split (its lists are freshly truncated and the old finger
// values may point at detached tails).
func (f *AllocationFinger) reset(r *LiveRange) {
	f.pendingInterval = r.intervals
	f.firstRegisterUse = firstRegisterUseAfter(r.uses, r.Start())
	f.firstRegisterBeneficial = f.firstRegisterUse
	f.firstHintedUse = firstHintedUseAfter(r.uses, r.Start())
}

// advanceTo moves the pending-interval cursor forward so it always points
// at the first interval whose End() is strictly after pos — the interval
// "covering or next after" the allocator's current cursor.
func (f *AllocationFinger) advanceTo(pos LifetimePosition) {
	for f.pendingInterval != nil && f.pendingInterval.End() <= pos {
		f.pendingInterval = f.pendingInterval.next
	}
}
