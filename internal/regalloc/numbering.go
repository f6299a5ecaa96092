package regalloc

// numberInstructions assigns positions: every real instruction and
// every block entry receives two consecutive lifetime positions (start,
// end) in the function's fixed linear block order, and an empty
// parallel-move placeholder is reserved before every predecessor's
// handoff into a join so phase 4 has somewhere to write phi moves.
//
// Parallel-move instructions themselves are deliberately never assigned a
// position: they are addressed by the block/edge they belong to, not by a
// position in the line, and nothing in this package ever asks a
// ParallelMove for its Position.
func numberInstructions(fn Function) {
	pos := MinimumPosition
	for _, b := range fn.Blocks() {
		b.Entry().SetPosition(pos)
		pos = pos.NextInstruction()

		instrs := b.Instructions()
		for _, instr := range instrs {
			instr.SetPosition(pos)
			pos = pos.NextInstruction()
		}

		// Reserve (size) the outgoing parallel-move for every successor
		// that is a join entry; the moves list itself is left empty
		// until phase 4 populates it.
		for _, succ := range b.Successors() {
			if !isJoin(succ) {
				continue
			}
			pm := b.OutgoingParallelMoveFor(succ)
			if pm == nil {
				bug("block %d has no outgoing parallel-move slot reserved for join successor %d", b.ID(), succ.ID())
			}
			if n := joinPhiSlotCount(succ); n > 0 && len(pm.Moves) == 0 {
				pm.Moves = make([]Move, 0, n)
			}
		}
	}
}

// isJoin reports whether a block begins with at least one phi, i.e. it is
// a true control-flow join that needs incoming parallel-moves threaded
// from every predecessor.
func isJoin(b Block) bool {
	for _, instr := range b.Instructions() {
		if _, ok := instr.AsPhi(); ok {
			return true
		}
	}
	return false
}

// joinPhiSlotCount counts the number of phi "slots" a join needs moves
// for, counting a pair representation as 2 slots when phiIsPair reports
// it; the result is only used as the initial capacity of the move list.
func joinPhiSlotCount(b Block) int {
	n := 0
	for _, instr := range b.Instructions() {
		phi, ok := instr.AsPhi()
		if !ok {
			continue
		}
		n++
		if phiIsPair(phi) {
			n++
		}
	}
	return n
}

func phiIsPair(p Phi) bool {
	// Numbering has no access to representations here, so every phi is
	// counted as a single slot, pair representations included.
	return false
}
