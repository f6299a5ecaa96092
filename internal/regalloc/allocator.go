package regalloc

// Allocator runs the nine-phase linear-scan pipeline over one Function.
// An Allocator value is reusable across compilations via Reset, in the
// same spirit as wazero's own regalloc.Allocator: the backing pools keep
// their pages between runs so repeated compilations of many small
// functions (the common case in a JIT) don't re-allocate from scratch
// every time.
type Allocator struct {
	regInfo *RegisterInfo
	fn      Function
	liveness *LivenessInfo
	resolver ParallelMoveResolver

	rangePool Pool[LiveRange]
	// liveRanges maps a vreg to the *first* (earliest) sibling of its
	// range chain; later siblings are reached via LiveRange.next.
	liveRanges []*LiveRange

	blockingRanges []*LiveRange

	// extraRanges holds sentinel ranges for temporaries and writable-input
	// copies created during live-range construction; they have no vreg
	// to be looked up by, so they are tracked separately from liveRanges
	// and fed into the worklist alongside the real per-vreg ranges.
	extraRanges []*LiveRange

	// perRegister[rt] is the flat list of ranges still held by registers
	// of class rt when runAllocationLoop finishes that class, grouped by
	// register. During the loop the per-register lists are local to
	// runAllocationLoop and serve as both the "active" and "inactive"
	// lists (this package does not separate the two explicitly;
	// advanceActiveIntervals in allocate.go drops a range once its End()
	// is at or before the cursor).
	perRegister [NumRegType][]*LiveRange

	spillSlots spillSlotTable

	catchReservedSlotCount int
	hasSuspendState        bool
	suspendStateSlot       int32

	// backedgeInterference accumulates, per in-progress back-edge block,
	// the set of vregs live across it.
	backedgeInterference map[VReg]bool

	callFree  bool
	hasSpills bool
	frameInfo FrameInfo

	nextSafepointScratch []*SafepointPosition
}

// NewAllocator constructs an Allocator bound to one target's register
// file. The same Allocator can run DoAllocation for many functions in
// sequence by calling Reset between them.
func NewAllocator(regInfo *RegisterInfo) *Allocator {
	a := &Allocator{regInfo: regInfo}
	a.rangePool = NewPool[LiveRange]()
	return a
}

// Reset returns the allocator to its construction-time state, releasing
// (but not necessarily deallocating) everything allocated by the previous
// DoAllocation call.
func (a *Allocator) Reset() {
	a.rangePool.Reset()
	a.liveRanges = nil
	a.blockingRanges = nil
	a.extraRanges = nil
	a.perRegister[RegTypeInt] = nil
	a.perRegister[RegTypeFloat] = nil
	a.spillSlots = spillSlotTable{}
	a.catchReservedSlotCount = 0
	a.hasSuspendState = false
	a.backedgeInterference = nil
	a.callFree = false
	a.hasSpills = false
}

func (a *Allocator) newLiveRange(vreg VReg, rt RegType) *LiveRange {
	r, _ := a.rangePool.Allocate()
	*r = *newLiveRange(vreg, rt)
	return r
}

// rangeFor returns the first sibling of v's range, creating an empty one
// on first reference.
func (a *Allocator) rangeFor(v VReg) *LiveRange {
	id := int(v.ID())
	if a.liveRanges[id] == nil {
		a.liveRanges[id] = a.newLiveRange(v, a.fn.RepresentationOf(v).RegType)
	}
	return a.liveRanges[id]
}

// DoAllocation runs the full nine-phase pipeline against fn, using liveness
// as the externally-computed liveness result and resolver as the external
// parallel-move resolver invoked once at the very end.
func (a *Allocator) DoAllocation(fn Function, liveness *LivenessInfo, resolver ParallelMoveResolver) {
	a.Reset()
	a.fn = fn
	a.liveness = liveness
	a.resolver = resolver

	a.liveRanges = make([]*LiveRange, fn.NumVRegs())

	// Phase 1 (representation collection) is folded into rangeFor's
	// lazy creation: a.fn.RepresentationOf is consulted the first time a
	// vreg is referenced, which is equivalent to a separate up-front
	// walk but avoids visiting definitions that turn out to be dead.

	// Phase 3: instruction numbering.
	numberInstructions(a.fn)

	// Phase 4: live-range construction.
	buildLiveRanges(a)

	// Phase 5 + 6: priority-queue seeding and allocation, GP then FP.
	gpWork, fpWork := seedWorklists(a)
	runAllocationLoop(a, RegTypeInt, gpWork)
	runAllocationLoop(a, RegTypeFloat, fpWork)

	// Phase 7: frame elision.
	elideFrameIfLegal(a)

	// Phase 8: outgoing-argument placement.
	placeOutgoingArguments(a)

	// Phase 9: control-flow resolution, finishing with the external
	// parallel-move resolver.
	resolveControlFlow(a)

	if RegAllocValidationEnabled {
		a.validate()
	}
}

// FrameInfo returns the frame-elision result of the most recent
// DoAllocation call.
func (a *Allocator) FrameInfo() FrameInfo { return a.frameInfo }

func (a *Allocator) validate() {
	for _, r := range a.liveRanges {
		for s := r; s != nil; s = s.next {
			s.validateSorted()
		}
	}
	a.spillSlots.validateDisjoint()
}
