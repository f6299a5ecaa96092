package regalloc

// resolveControlFlow runs linear resolution
// across split siblings, non-linear resolution across block joins, eager
// spill emission, and finally a single call into the external
// parallel-move resolver over everything this phase collected.
func resolveControlFlow(a *Allocator) {
	var allMoves []Move

	allMoves = append(allMoves, linearResolution(a)...)
	allMoves = append(allMoves, nonLinearResolution(a)...)
	allMoves = append(allMoves, eagerSpillEmission(a)...)

	if a.resolver != nil && len(allMoves) > 0 {
		a.resolver.Resolve(allMoves)
	}
}

// linearResolution walks every virtual register's sibling chain and, for
// every boundary where one sibling's end touches the next's start with a
// different assigned location, emits a move realizing the transfer.
// Catch-block-entry boundaries require the move at start+1 instead of
// start, since the catch entry itself is a safepoint the move must not
// precede.
func linearResolution(a *Allocator) []Move {
	var moves []Move
	emit := func(r, next *LiveRange) {
		if r.assigned.Equals(next.assigned) {
			return
		}
		if next.assigned.IsStackSlot() && r.hasSpillSlot && next.hasSpillSlot && r.spillSlot.Equals(next.spillSlot) {
			// Destination is already the spill slot this sibling would
			// read from anyway; eager spill emission covers it.
			return
		}
		at := next.Start()
		if isCatchEntryBoundary(a, next.Start()) {
			at = at.Next()
		}
		src := new(Location)
		*src = r.assigned
		dst := new(Location)
		*dst = next.assigned
		moves = append(moves, Move{Dest: dst, Src: src})
		recordResolutionMoveAt(a, at, dst, src)
	}

	for _, head := range a.liveRanges {
		for r := head; r != nil && r.next != nil; r = r.next {
			if r.End() == r.next.Start() {
				emit(r, r.next)
			}
		}
	}
	return moves
}

func isCatchEntryBoundary(a *Allocator, pos LifetimePosition) bool {
	b := blockContaining(a.fn, pos)
	return b != nil && b.IsCatchEntry() && b.Entry().Position() == pos
}

// recordResolutionMoveAt attaches a split-point move to the nearest
// enclosing instruction stream; production backends consume this via the
// same ParallelMove mechanism joins use, keyed by position rather than by
// successor block. This package keeps the association implicit in the
// returned Move slice, which is exactly what DoAllocation hands to the
// external resolver; a concrete backend wiring would also splice a
// ParallelMove placeholder at `at`, which is outside this package's scope
// (names the parallel-move resolver itself as the only consumer
// this package talks to directly).
func recordResolutionMoveAt(a *Allocator, at LifetimePosition, dst, src *Location) {}

// nonLinearResolution runs per-block join resolution: for
// every live-in vreg at a block's start, compare the destination location
// (the cover at the block's first position) against every predecessor's
// exit location, sinking a single pending move into the join when all
// predecessors agree, otherwise emitting per-edge moves.
func nonLinearResolution(a *Allocator) []Move {
	var moves []Move
	pending := map[pendingKey]*pendingMove{}

	for _, b := range a.fn.Blocks() {
		preds := b.Predecessors()
		if len(preds) == 0 {
			continue
		}
		start := b.Entry().Position()
		for v := range a.liveness.LiveIn[b.ID()] {
			dstRange := coverAt(a, v, start)
			if dstRange == nil {
				continue
			}
			dst := dstRange.assigned

			allSame := true
			var common Location
			first := true
			srcByPred := make([]Location, len(preds))
			for i, p := range preds {
				srcRange := coverAt(a, v, lastInstructionEndPos(p))
				if srcRange == nil {
					allSame = false
					continue
				}
				srcByPred[i] = srcRange.assigned
				if first {
					common = srcRange.assigned
					first = false
				} else if !common.Equals(srcRange.assigned) {
					allSame = false
				}
			}

			if allSame && !common.Equals(dst) {
				pending[pendingKey{b.ID(), v}] = &pendingMove{block: b, v: v, src: common, dst: dst, preds: preds}
				continue
			}

			for i, p := range preds {
				if srcByPred[i].Equals(dst) {
					continue
				}
				pm := p.OutgoingParallelMoveFor(b)
				src := new(Location)
				*src = srcByPred[i]
				dstP := new(Location)
				*dstP = dst
				if pm != nil {
					pm.AddMove(dstP, src)
				}
				moves = append(moves, Move{Dest: dstP, Src: src})
			}
		}
	}

	moves = append(moves, resolvePendingMoves(pending)...)
	return moves
}

type pendingKey struct {
	blockID int
	v       VReg
}

type pendingMove struct {
	block Block
	v     VReg
	src, dst Location
	preds []Block
	blocked bool
}

// resolvePendingMoves runs the final blockage-propagation pass:
// a pending move is blocked if some predecessor's already-committed goto
// parallel-move writes to (i.e. redefines) its source location; blockage
// propagates transitively. Unblocked moves are emitted once at the
// successor; blocked ones are duplicated onto every incoming edge instead.
func resolvePendingMoves(pending map[pendingKey]*pendingMove) []Move {
	changed := true
	for changed {
		changed = false
		for _, pm := range pending {
			if pm.blocked {
				continue
			}
			for _, p := range pm.preds {
				if outgoingMoveDestroys(p, pm.src) {
					pm.blocked = true
					break
				}
			}
			// A blocked move into the same block is duplicated onto the
			// incoming edges, so it too redefines its destination first.
			for _, other := range pending {
				if !pm.blocked && other.blocked && other.block.ID() == pm.block.ID() && other.dst.Equals(pm.src) {
					pm.blocked = true
				}
			}
			if pm.blocked {
				changed = true
			}
		}
	}

	var moves []Move
	for _, pm := range pending {
		if !pm.blocked {
			src := new(Location)
			*src = pm.src
			dst := new(Location)
			*dst = pm.dst
			moves = append(moves, Move{Dest: dst, Src: src})
			continue
		}
		for _, p := range pm.preds {
			pmMove := p.OutgoingParallelMoveFor(pm.block)
			src := new(Location)
			*src = pm.src
			dst := new(Location)
			*dst = pm.dst
			if pmMove != nil {
				pmMove.AddMove(dst, src)
			}
			moves = append(moves, Move{Dest: dst, Src: src})
		}
	}
	return moves
}

// outgoingMoveDestroys reports whether any move already committed into p's
// outgoing parallel move writes a destination equal to loc, which would
// clobber it before a pending move sunk into the successor could read it.
func outgoingMoveDestroys(p Block, loc Location) bool {
	for _, succ := range p.Successors() {
		pm := p.OutgoingParallelMoveFor(succ)
		if pm == nil {
			continue
		}
		for _, mv := range pm.Moves {
			if mv.Dest != nil && mv.Dest.Equals(loc) {
				return true
			}
		}
	}
	return false
}

// coverAt finds the first sibling of v's range chain that covers pos or
// whose [Start, End] span contains it (a hole inside one sibling and the
// sibling's End both count), or nil if v has no range (dead value) or pos
// falls between siblings.
func coverAt(a *Allocator, v VReg, pos LifetimePosition) *LiveRange {
	id := int(v.ID())
	if id >= len(a.liveRanges) {
		return nil
	}
	for r := a.liveRanges[id]; r != nil; r = r.next {
		if r.Covers(pos) || (r.intervals != nil && r.Start() <= pos && pos <= r.End()) {
			return r
		}
	}
	return nil
}

// eagerSpillEmission emits, for every range that has a spill slot but
// whose assigned location is not already the spill slot, a move from its
// assigned location to the spill slot, so a later reload can start from
// the slot rather than the register that may by then hold something else.
// The returned moves carry no position. Constant ranges, whose assigned
// location is their constant pseudo-slot, produce no move here.
func eagerSpillEmission(a *Allocator) []Move {
	var moves []Move
	for _, head := range a.liveRanges {
		for r := head; r != nil; r = r.next {
			if !r.hasSpillSlot || r.assigned.Equals(r.spillSlot) {
				continue
			}
			if r.IsBlocking() {
				continue
			}
			src := new(Location)
			*src = r.assigned
			dst := new(Location)
			*dst = r.spillSlot
			moves = append(moves, Move{Dest: dst, Src: src})
		}
	}
	return moves
}
