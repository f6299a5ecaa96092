package regalloc

// sentinelVReg marks a LiveRange that backs a temporary or a blocking
// range rather than a real virtual register. Such ranges are never looked
// up by vreg id and never appear in the final location-assignment output.
const sentinelVReg = VReg(^uint32(0))

// LiveRange is the allocator's central entity: one contiguous (possibly
// later split) span of a single virtual register's lifetime, together with
// every use position and safepoint that falls inside it.
type LiveRange struct {
	vreg VReg
	rt   RegType

	intervals *UseInterval
	// intervalsTail points at the last interval so End() is O(1);
	// AddUseInterval only sets it when the list is first created, and
	// splitAt updates it when it truncates the list.
	intervalsTail *UseInterval

	uses      *UsePosition
	usesTail  *UsePosition

	safepoints     *SafepointPosition
	safepointsTail *SafepointPosition

	assigned Location
	// spillSlot is set independently of assigned: a range can be
	// eagerly spilled (assigned stays a register, spillSlot also set)
	// or purely spilled (assigned == spillSlot).
	hasSpillSlot bool
	spillSlot    Location

	next *LiveRange // next sibling, or nil for the last split piece

	isLoopPhi bool
	// isInitialDefinition marks a range produced by ProcessInitialDefinitions
	// (parameters, constants, OSR entries) so frame elision knows which
	// ranges' assigned locations are candidates for FP->SP rebasing.
	isInitialDefinition bool
	frameRelativeRebased bool
	// unconstrainedInLoop is a bitset of up to 64 loop ids: a loop whose
	// bit is set here has no use of this range that requires a register,
	// enabling the cheap-eviction path in AllocateAnyRegister.
	unconstrainedInLoop uint64
	requiresStack       bool

	finger AllocationFinger
}

func newLiveRange(vreg VReg, rt RegType) *LiveRange {
	r := &LiveRange{vreg: vreg, rt: rt, assigned: UnallocatedLocation(PolicyAny)}
	return r
}

func newBlockingRange(rt RegType) *LiveRange {
	return newLiveRange(sentinelVReg, rt)
}

func (r *LiveRange) VReg() VReg         { return r.vreg }
func (r *LiveRange) RegType() RegType   { return r.rt }
func (r *LiveRange) IsBlocking() bool   { return r.vreg == sentinelVReg }
func (r *LiveRange) Next() *LiveRange   { return r.next }
func (r *LiveRange) Uses() *UsePosition { return r.uses }
func (r *LiveRange) Intervals() *UseInterval { return r.intervals }
func (r *LiveRange) Safepoints() *SafepointPosition { return r.safepoints }
func (r *LiveRange) Assigned() Location { return r.assigned }
func (r *LiveRange) IsLoopPhi() bool    { return r.isLoopPhi }
func (r *LiveRange) RequiresStack() bool { return r.requiresStack }

func (r *LiveRange) UnconstrainedInLoop(loopID int) bool {
	if loopID < 0 || loopID >= 64 {
		return false
	}
	return r.unconstrainedInLoop&(1<<uint(loopID)) != 0
}

func (r *LiveRange) markUnconstrainedInLoop(loopID int) {
	if loopID >= 0 && loopID < 64 {
		r.unconstrainedInLoop |= 1 << uint(loopID)
	}
}

// Start returns the range's first interval start. A range with no
// intervals yet has no meaningful start; callers always add at least one
// interval (or call DefineAt) before asking.
func (r *LiveRange) Start() LifetimePosition {
	if r.intervals == nil {
		bug("LiveRange.Start called on a range with no intervals")
	}
	return r.intervals.Start()
}

// End returns the position just past the last interval's end — the end of
// the *last* (highest-address) interval, which due to ascending order is
// the tail's End().
func (r *LiveRange) End() LifetimePosition {
	if r.intervalsTail == nil {
		bug("LiveRange.End called on a range with no intervals")
	}
	return r.intervalsTail.End()
}

// Covers reports whether pos falls inside some interval of this range.
func (r *LiveRange) Covers(pos LifetimePosition) bool {
	for iv := r.intervals; iv != nil; iv = iv.next {
		if iv.Contains(pos) {
			return true
		}
		if iv.Start() > pos {
			return false
		}
	}
	return false
}

// AddUseInterval implements monotonic-prepend construction: construction
// always proceeds in reverse program order, so
// every new interval either extends or touches the current first interval,
// or lies strictly before it; it is never necessary to search the list.
func (r *LiveRange) AddUseInterval(s, e LifetimePosition) {
	if r.intervals == nil {
		iv := &UseInterval{start: s, end: e}
		r.intervals = iv
		r.intervalsTail = iv
		return
	}
	first := r.intervals
	switch {
	case s > first.start:
		// Only legal for the whole-block live-out seed touching a range
		// that already has a tighter definition; keep the tighter one.
		return
	case s == first.start:
		if e > first.end {
			first.end = e
		}
	case e == first.start:
		first.start = s
	default: // e < first.start
		r.intervals = &UseInterval{start: s, end: e, next: first}
	}
}

// DefineAt narrows the first interval to begin exactly at pos, reflecting
// that a definition ends the "live from block entry" assumption construction
// seeds every range with. If the range has no uses at all yet (a dead
// definition), a degenerate one-position interval is created.
func (r *LiveRange) DefineAt(pos LifetimePosition) {
	if r.intervals == nil {
		iv := &UseInterval{start: pos, end: pos + 1}
		r.intervals = iv
		r.intervalsTail = iv
		return
	}
	r.intervals.start = pos
}

// AddUse prepends a use position; construction walks instructions in
// reverse order so prepending keeps the final list ascending without a
// separate sort pass.
func (r *LiveRange) AddUse(pos LifetimePosition, slot, hint *Location) {
	u := &UsePosition{pos: pos, slot: slot, hint: hint, next: r.uses}
	r.uses = u
	if r.usesTail == nil {
		r.usesTail = u
	}
}

func (r *LiveRange) AddSafepoint(sp *SafepointPosition) {
	sp.next = r.safepoints
	r.safepoints = sp
	if r.safepointsTail == nil {
		r.safepointsTail = sp
	}
}

// resetFinger recomputes the allocation finger; called once construction
// of this range (and all its later splits) is complete and it is about to
// enter the worklist.
func (r *LiveRange) resetFinger() { r.finger.reset(r) }

// FirstRegisterUse returns the earliest use position in this range whose
// policy requires a register, or nil.
func (r *LiveRange) FirstRegisterUse() *UsePosition { return r.finger.firstRegisterUse }

// FirstHint returns the hint of the first use in this range (as cached by
// the finger) whose hint is usable, or nil. Only explicit use hints are
// consulted; no hint is inferred from the previous sibling's location.
func (r *LiveRange) FirstHint() *Location {
	if r.finger.firstHintedUse != nil {
		return r.finger.firstHintedUse.hint
	}
	return nil
}

func (r *LiveRange) validateSorted() {
	if !RegAllocValidationEnabled {
		return
	}
	var prevIv *UseInterval
	for iv := r.intervals; iv != nil; iv = iv.next {
		assertf(iv.start < iv.end, "use interval [%d,%d) is empty or inverted", iv.start, iv.end)
		if prevIv != nil {
			assertf(prevIv.end < iv.start, "use intervals [%d,%d) and [%d,%d) touch or overlap and should have been merged", prevIv.start, prevIv.end, iv.start, iv.end)
		}
		prevIv = iv
	}
	var prevUse *UsePosition
	for u := r.uses; u != nil; u = u.next {
		if prevUse != nil {
			assertf(prevUse.pos <= u.pos, "use positions out of order: %d after %d", u.pos, prevUse.pos)
		}
		prevUse = u
	}
}
