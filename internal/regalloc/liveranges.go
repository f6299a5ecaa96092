package regalloc

// buildLiveRanges traverses blocks in reverse linear
// order and, within each block, instructions in reverse; seed every
// live-out vreg with a whole-block interval, thread phi moves through the
// parallel-move placeholders phase 3 reserved, and finally process phi and
// initial definitions.
func buildLiveRanges(a *Allocator) {
	blocks := a.fn.Blocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		processBlockReverse(a, blocks[i])
	}
	processInitialDefinitions(a)
	for i := range a.liveRanges {
		if r := a.liveRanges[i]; r != nil {
			r.resetFinger()
		}
	}
	for _, r := range a.extraRanges {
		r.resetFinger()
	}
}

// lastInstructionEndPos returns the end position of a block's last real
// instruction, i.e. where the terminator Goto's effects land and where
// outgoing phi-input uses are recorded; falls back to the block entry's
// end for an empty block.
func lastInstructionEndPos(b Block) LifetimePosition {
	instrs := b.Instructions()
	if len(instrs) == 0 {
		return b.Entry().Position().End()
	}
	return instrs[len(instrs)-1].Position().End()
}

func blockEndPos(b Block) LifetimePosition {
	return lastInstructionEndPos(b).NextInstruction()
}

func processBlockReverse(a *Allocator, b Block) {
	start := b.Entry().Position()
	end := blockEndPos(b)

	seedLiveOut(a, b, start, end)

	if b.IsCatchEntry() {
		processCatchEntry(a, b)
	}

	instrs := b.Instructions()
	for i := len(instrs) - 1; i >= 0; i-- {
		processInstruction(a, b, instrs[i])
	}

	processBlockEntryDefinitions(a, b, start)

	if isBackedgeBlock(b) {
		accumulateBackedgeInterference(a, b)
	}
}

// seedLiveOut prepends a [start, end) interval to every vreg in b's
// live-out set, implementing the "live through the block" default that
// DefineAt / per-instruction processing subsequently narrows.
func seedLiveOut(a *Allocator, b Block, start, end LifetimePosition) {
	for v := range a.liveness.LiveOut[b.ID()] {
		a.rangeFor(v).AddUseInterval(start, end)
	}
}

func processCatchEntry(a *Allocator, b Block) {
	// Catch entries are safepoints between the catch move block and the
	// handler; values live into the block must be spill-slot reachable,
	// so every live-in vreg's range gets its spill slot reserved now
	// rather than relying on it being assigned lazily later.
	for v := range a.liveness.LiveIn[b.ID()] {
		a.ensureSpillSlot(a.rangeFor(v))
	}
	a.catchReservedSlotCount = a.spillSlots.count
}

func isBackedgeBlock(b Block) bool {
	for _, succ := range b.Successors() {
		if succ.IsLoopHeader() {
			return true
		}
	}
	return false
}

func accumulateBackedgeInterference(a *Allocator, b Block) {
	if a.backedgeInterference == nil {
		a.backedgeInterference = make(map[VReg]bool)
	}
	for v := range a.liveness.LiveOut[b.ID()] {
		a.backedgeInterference[v] = true
	}
}

// processInstruction is the per-instruction routine of , steps
// 1-7. Step 1 (output-constraint normalization — SameAsFirstOrSecondInput
// swapping, MayBeSameAsFirstInput lowering) is the producer's
// responsibility when it builds the LocationSummary; by the time this
// package sees a policy it is already normalized to one of the variants
// handled below.
func processInstruction(a *Allocator, b Block, instr Instr) {
	pos := instr.Position()
	ls := instr.LocationSummary()

	// Step 2: environment uses.
	for _, env := range instr.Environments() {
		processEnvironment(a, env, pos)
	}

	// Step 3: input uses.
	for i, slot := range ls.Inputs {
		v := ls.InputVRegs[i]
		processInputUse(a, v, slot, pos, instr)
	}

	// Step 4: move-argument register moves (fixed-register calling
	// convention) — identical treatment to fixed inputs.
	for _, ma := range instr.MoveArguments() {
		if ma.Slot.IsUnallocated() && (ma.Slot.Policy() == PolicyFixedRegister || ma.Slot.Policy() == PolicyFixedFPURegister) {
			processFixedInput(a, ma.Source, ma.Slot, pos, instr)
		}
	}

	// Step 5: temps.
	for _, slot := range ls.Temps {
		processTemp(a, slot, pos)
	}

	// Step 6: call clobber.
	if instr.AlwaysCalls() && !instr.CalleeSafeCall() {
		blockAllRegistersOverCall(a, pos)
		sp := &SafepointPosition{pos: pos, bitmap: &StackBitmap{}}
		if instr.HasCallOnSlowPath() {
			recordLiveRegistersAt(a, sp)
		}
		recordSafepointOnLiveRanges(a, sp)
	}

	// Step 7: output.
	if ls.Output != nil {
		processOutput(a, ls.OutputVReg, ls.Output, pos)
	}
}

func processEnvironment(a *Allocator, env *Environment, pos LifetimePosition) {
	visited := map[*Environment]bool{}
	var walk func(e *Environment)
	walk = func(e *Environment) {
		if e == nil || visited[e] {
			return
		}
		visited[e] = true
		for i := range e.Slots {
			s := &e.Slots[i]
			switch s.Kind {
			case EnvSlotConstant:
				*s.Loc = ConstantLocation(0)
			case EnvSlotMoveArgument:
				// No location yet; phase 8 assigns it.
			case EnvSlotMaterializedObject:
				walk(s.Materialized)
			case EnvSlotSuspendState:
				if !a.hasSuspendState {
					a.suspendStateSlot = a.spillSlots.allocateGP(false, MinimumPosition, pos)
					a.hasSuspendState = true
				}
				*s.Loc = StackSlotLocation(a.suspendStateSlot, false, false)
			case EnvSlotValue:
				r := a.rangeFor(s.Value)
				r.AddUseInterval(MinimumPosition, pos.Next())
				r.AddUse(pos, s.Loc, nil)
			}
		}
		walk(e.Outer)
	}
	walk(env)
}

func processInputUse(a *Allocator, v VReg, slot *Location, pos LifetimePosition, instr Instr) {
	if !slot.IsUnallocated() {
		return
	}
	switch slot.Policy() {
	case PolicyFixedRegister, PolicyFixedFPURegister:
		processFixedInput(a, v, slot, pos, instr)
	case PolicyWritableRegister:
		processWritableInput(a, v, slot, pos)
	case PolicyRequiresStack:
		r := a.rangeFor(v)
		r.requiresStack = true
		r.AddUseInterval(MinimumPosition, pos.Next())
		r.AddUse(pos.Next(), slot, nil)
	default:
		r := a.rangeFor(v)
		r.AddUseInterval(MinimumPosition, pos.Next())
		r.AddUse(pos.Next(), slot, nil)
	}
}

func processFixedInput(a *Allocator, v VReg, slot *Location, pos LifetimePosition, instr Instr) {
	r := a.rangeFor(v)
	fixedReg := slot.Reg()
	moveDest := new(Location)
	*moveDest = UnallocatedLocation(PolicyAny)
	r.AddUseInterval(MinimumPosition, pos)
	r.AddUse(pos.Prev(), moveDest, nil)

	a.blockingRangeFor(r.rt, fixedReg, pos.Prev(), pos.Next())
	*slot = FixedRegisterLocation(fixedReg, r.rt)
}

// processWritableInput materializes a one-position temporary. Its use
// carries a hint that is a copy of the input range's location at
// construction time, which is still unallocated, so HasHint rejects it.
func processWritableInput(a *Allocator, v VReg, slot *Location, pos LifetimePosition) {
	r := a.rangeFor(v)
	r.AddUseInterval(MinimumPosition, pos.Next())

	temp := a.newLiveRange(sentinelVReg, r.rt)
	temp.AddUseInterval(pos, pos.Next())
	hint := new(Location)
	*hint = r.assigned
	temp.AddUse(pos, slot, hint)
	a.extraRanges = append(a.extraRanges, temp)

	*slot = UnallocatedLocation(PolicyAnyRegister)
}

func processTemp(a *Allocator, slot *Location, pos LifetimePosition) {
	if !slot.IsUnallocated() {
		return
	}
	if slot.Policy() == PolicyFixedRegister || slot.Policy() == PolicyFixedFPURegister {
		a.blockingRangeFor(RegTypeInt, slot.Reg(), pos, pos.Next())
		return
	}
	temp := a.newLiveRange(sentinelVReg, RegTypeInt)
	temp.AddUseInterval(pos, pos.Next())
	temp.AddUse(pos, slot, nil)
	a.extraRanges = append(a.extraRanges, temp)
}

func blockAllRegistersOverCall(a *Allocator, pos LifetimePosition) {
	for rt := RegType(0); rt < NumRegType; rt++ {
		n := a.regInfo.NumRegisters(rt)
		allocatable := a.regInfo.Allocatable(rt)
		for i := 0; i < n; i++ {
			r := RealReg(i)
			if !allocatable.has(r) {
				continue
			}
			a.blockingRangeFor(rt, r, pos, pos.Next())
		}
	}
}

func recordLiveRegistersAt(a *Allocator, sp *SafepointPosition) {
	for _, r := range a.liveRanges {
		for s := r; s != nil; s = s.next {
			if s.assigned.IsRegister() && s.Covers(sp.pos) {
				sp.RecordLiveRegister(s.vreg, s.rt)
			}
		}
	}
}

func recordSafepointOnLiveRanges(a *Allocator, sp *SafepointPosition) {
	for _, r := range a.liveRanges {
		if r != nil && r.Covers(sp.pos) && a.fn.RepresentationOf(r.vreg).Tagged {
			r.AddSafepoint(sp)
		}
	}
}

func processOutput(a *Allocator, v VReg, slot *Location, pos LifetimePosition) {
	r := a.rangeFor(v)
	switch {
	case slot.Policy() == PolicyFixedRegister || slot.Policy() == PolicyFixedFPURegister:
		fixedReg := slot.Reg()
		a.blockingRangeFor(r.rt, fixedReg, pos, pos.Next())
		r.DefineAt(pos.Next())
		if next := firstUseAfter(r.uses, pos.Next()); next != nil && next.pos == pos.Next() {
			*next.slot = FixedRegisterLocation(fixedReg, r.rt)
		} else if r.uses != nil {
			moveSrc := new(Location)
			*moveSrc = FixedRegisterLocation(fixedReg, r.rt)
			r.AddUse(pos.Next(), moveSrc, nil)
		}
		*slot = FixedRegisterLocation(fixedReg, r.rt)
	default:
		r.DefineAt(pos)
		r.AddUse(pos, slot, nil)
	}
}

// blockingRangeFor returns (creating if needed) the sentinel range
// reserving real register reg of class rt, extended to cover [s,e).
func (a *Allocator) blockingRangeFor(rt RegType, reg RealReg, s, e LifetimePosition) *LiveRange {
	for _, br := range a.blockingRanges {
		if br.rt == rt && br.assigned.IsRegister() && br.assigned.Reg() == reg {
			br.AddUseInterval(s, e)
			return br
		}
	}
	br := newBlockingRange(rt)
	br.assigned = FixedRegisterLocation(reg, rt)
	br.AddUseInterval(s, e)
	a.blockingRanges = append(a.blockingRanges, br)
	return br
}

func processBlockEntryDefinitions(a *Allocator, b Block, entryPos LifetimePosition) {
	for _, instr := range b.Instructions() {
		phi, ok := instr.AsPhi()
		if !ok {
			continue
		}
		processPhi(a, b, phi, entryPos)
	}
}

// processPhi defines a join phi's range at the join's start. One use per
// predecessor reads the matching
// outgoing parallel-move's destination slot, and every predecessor's
// outgoing move is populated with (dest=phi, src=input). The input's use
// carries a hint that is a copy of the phi range's location at
// construction time, which is still unallocated, so HasHint rejects it.
func processPhi(a *Allocator, join Block, phi Phi, joinStart LifetimePosition) {
	out := a.rangeFor(phi.Output())
	out.DefineAt(joinStart)
	if join.IsLoopHeader() {
		out.isLoopPhi = true
	}

	preds := join.Predecessors()
	inputs := phi.Inputs()
	for i, pred := range preds {
		if i >= len(inputs) {
			break
		}
		destSlot := phi.ParallelMoveSlot(i)
		out.AddUse(joinStart, destSlot, nil)

		pm := pred.OutgoingParallelMoveFor(join)
		if pm == nil {
			bug("predecessor %d of join %d has no outgoing parallel-move slot", pred.ID(), join.ID())
		}
		srcSlot := new(Location)
		*srcSlot = UnallocatedLocation(PolicyAny)
		inRange := a.rangeFor(inputs[i])
		hint := new(Location)
		*hint = out.assigned
		inRange.AddUse(lastInstructionEndPos(pred), srcSlot, hint)
		pm.AddMove(destSlot, srcSlot)
	}
}
