package regalloc

// placeOutgoingArguments gives every detached MoveArgument
// pseudo-instruction produced by call lowering a concrete stack slot in
// the outgoing-argument area, addressed by its
// StackIndex. Unlike ordinary spill slots these are never recycled within
// one call's argument list — each call gets its own contiguous window —
// but across different calls the same indices are reused, since only one
// call's arguments are ever live at a time.
func placeOutgoingArguments(a *Allocator) {
	for _, b := range a.fn.Blocks() {
		for _, instr := range b.Instructions() {
			for _, ma := range instr.MoveArguments() {
				if ma.Slot.IsUnallocated() {
					*ma.Slot = StackSlotLocation(int32(ma.StackIndex), false, false)
				}
			}
		}
	}
}
