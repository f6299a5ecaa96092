package regalloc

// processInitialDefinitions handles initial definitions: parameters,
// constants, and OSR entries each receive a range
// over their owning block's entry interval. A parameter that arrives in a
// machine register is both assigned that location and split immediately
// after the entry so the rest of the function sees an ordinary
// allocatable range; a parameter that arrives on the stack keeps that
// stack slot as both its assigned location and its spill slot (it is
// already where a reload would put it, so there is nothing to move).
func processInitialDefinitions(a *Allocator) {
	for _, def := range a.fn.InitialDefinitions() {
		r := a.rangeFor(def.VReg)
		entryPos := def.Block.Entry().Position()
		r.AddUseInterval(entryPos, entryPos.Next())
		r.isInitialDefinition = true

		switch {
		case def.IsConstant:
			r.hasSpillSlot = true
			r.spillSlot = ConstantLocation(0)
			r.assigned = r.spillSlot
		case def.ArrivesInRegister:
			r.assigned = FixedRegisterLocation(def.MachineLocation, r.rt)
			convertAllUses(r)
			if r.uses != nil {
				splitAt(a, r, entryPos.Next())
			}
		default:
			loc := StackSlotLocation(def.StackSlot, false, !a.fn.RepresentationOf(def.VReg).Tagged)
			r.assigned = loc
			r.hasSpillSlot = true
			r.spillSlot = loc
			convertAllUses(r)
		}

		if a.fn.RepresentationOf(def.VReg).Tagged {
			for sp := r.safepoints; sp != nil; sp = sp.next {
				if r.hasSpillSlot {
					sp.bitmap.MarkObject(r.spillSlot.SpillSlot())
				}
			}
		}
	}
}
