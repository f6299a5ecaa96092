package regalloc

// spillSlotTable is the three-parallel-array spill-slot allocator.
// Slot indices for double and quad values are
// drawn from their own index space, disjoint from the GP (tagged and
// untagged) space; a quad slot additionally occupies two consecutive
// double-slot indices and is named by the lower of the two.
type spillSlotTable struct {
	expiry     []LifetimePosition
	isQuad     []bool
	isUntagged []bool
	isDouble   []bool

	doubleExpiry     []LifetimePosition
	doubleIsQuadLow  []bool

	count int
}

const noExpiry = LifetimePosition(-1)

// allocateGP finds or creates a GP spill slot (tagged or untagged per
// untagged) whose previous occupant's live range has already ended by
// start.
func (t *spillSlotTable) allocateGP(untagged bool, start, end LifetimePosition) int32 {
	for i := range t.expiry {
		if t.isDouble[i] {
			continue
		}
		if t.isUntagged[i] == untagged && t.expiry[i] <= start {
			t.expiry[i] = end
			return int32(i)
		}
	}
	idx := len(t.expiry)
	t.expiry = append(t.expiry, end)
	t.isQuad = append(t.isQuad, false)
	t.isUntagged = append(t.isUntagged, untagged)
	t.isDouble = append(t.isDouble, false)
	t.count++
	return int32(idx)
}

// allocateDouble finds or creates a slot in the double-index space for a
// single or double-width FP value.
func (t *spillSlotTable) allocateDouble(start, end LifetimePosition) int32 {
	for i := range t.doubleExpiry {
		if !t.doubleIsQuadLow[i] && t.doubleExpiry[i] <= start {
			t.doubleExpiry[i] = end
			return int32(i)
		}
	}
	idx := len(t.doubleExpiry)
	t.doubleExpiry = append(t.doubleExpiry, end)
	t.doubleIsQuadLow = append(t.doubleIsQuadLow, false)
	return int32(idx)
}

// allocateQuad finds or creates two consecutive free double-slot indices
// and returns the lower one, matching the original's
// kDoubleSpillFactor arithmetic.
func (t *spillSlotTable) allocateQuad(start, end LifetimePosition) int32 {
	for i := 0; i+1 < len(t.doubleExpiry); i++ {
		if t.doubleExpiry[i] <= start && t.doubleExpiry[i+1] <= start {
			t.doubleExpiry[i] = end
			t.doubleExpiry[i+1] = end
			t.doubleIsQuadLow[i] = true
			return int32(i)
		}
	}
	lo := int32(len(t.doubleExpiry))
	t.doubleExpiry = append(t.doubleExpiry, end, end)
	t.doubleIsQuadLow = append(t.doubleIsQuadLow, true, false)
	return lo
}

func (t *spillSlotTable) validateDisjoint() {
	if !RegAllocValidationEnabled {
		return
	}
	for i, quadLow := range t.doubleIsQuadLow {
		if quadLow {
			assertf(i+1 < len(t.doubleIsQuadLow), "quad slot %d has no paired double slot", i)
		}
	}
}

// allocateSpillSlot is AllocateSpillSlotFor: given a
// range's representation, find or create the appropriately-flavored slot
// and return the Location it maps to.
func (a *Allocator) allocateSpillSlot(r *LiveRange, startSearchAt LifetimePosition) Location {
	rep := a.fn.RepresentationOf(r.vreg)
	end := r.lastSiblingEnd()
	switch {
	case rep.FpuWidth == 2:
		slot := a.spillSlots.allocateQuad(startSearchAt, end)
		return StackSlotLocation(slot, true, false)
	case rep.FpuWidth == 1:
		slot := a.spillSlots.allocateDouble(startSearchAt, end)
		return StackSlotLocation(slot, false, false)
	default:
		slot := a.spillSlots.allocateGP(!rep.Tagged, startSearchAt, end)
		return StackSlotLocation(slot, false, !rep.Tagged)
	}
}

// lastSiblingEnd walks to the end of this range's sibling chain, so a
// spill slot allocated for an early sibling isn't reused by something else
// while a later split of the same logical value is still alive in it.
func (r *LiveRange) lastSiblingEnd() LifetimePosition {
	last := r
	for last.next != nil {
		last = last.next
	}
	return last.End()
}

// ensureSpillSlot allocates a's slot on the *parent* (first sibling) range
// if one doesn't exist yet, and returns it; every sibling of one vreg
// shares exactly one spill slot.
func (a *Allocator) ensureSpillSlot(r *LiveRange) Location {
	parent := a.parentOf(r)
	if !parent.hasSpillSlot {
		parent.spillSlot = a.allocateSpillSlot(parent, a.catchAwareSearchStart(parent))
		parent.hasSpillSlot = true
	}
	return parent.spillSlot
}

func (a *Allocator) catchAwareSearchStart(r *LiveRange) LifetimePosition {
	// Every range searches the whole table from index 0.
	// catchReservedSlotCount is recorded when catch entries are processed
	// but is not consulted here; slots given to values live into a catch
	// block are protected only by their ordinary expiry position.
	return MinimumPosition
}

func (a *Allocator) parentOf(r *LiveRange) *LiveRange {
	p := a.liveRanges[int(r.vreg.ID())]
	if p == nil {
		return r
	}
	return p
}

// spill ensures a spill slot on the
// parent, assign it as this range's location, and rewrite every use's slot
// to point at it. Safepoints crossed by a tagged range get their bitmap
// marked.
func (a *Allocator) spill(r *LiveRange) {
	loc := a.ensureSpillSlot(r)
	r.assigned = loc
	for u := r.uses; u != nil; u = u.next {
		*u.slot = loc
	}
	if a.fn.RepresentationOf(r.vreg).Tagged {
		for sp := r.safepoints; sp != nil; sp = sp.next {
			sp.bitmap.MarkObject(loc.SpillSlot())
		}
	}
	a.hasSpills = true
}
