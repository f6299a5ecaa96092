package regalloc

// LifetimePosition is a point in the linearized instruction stream. Each
// instruction at index i occupies two positions: 2*i (its start, where
// incoming values are still live) and 2*i+1 (its end, where outgoing
// values become live). Splitting a live range at an odd position therefore
// always lands strictly after the instruction's effects, and splitting at
// an even position always lands strictly before them.
//
// Positions are used, rather than raw instruction indices, because moves
// inserted for control-flow resolution and spilling need a place to live
// that is distinguishable from both the instruction before and the
// instruction after them without renumbering anything else.
type LifetimePosition int32

const MinimumPosition LifetimePosition = 0

// InstructionIndex recovers the instruction this position refers to,
// rounding start and end positions of the same instruction to the same
// index.
func (p LifetimePosition) InstructionIndex() int { return int(p) / 2 }

func (p LifetimePosition) IsInstructionStart() bool { return p%2 == 0 }
func (p LifetimePosition) IsInstructionEnd() bool   { return p%2 == 1 }

// Start returns the start position of the instruction p belongs to.
func (p LifetimePosition) Start() LifetimePosition {
	return LifetimePosition(p.InstructionIndex() * 2)
}

// End returns the end position of the instruction p belongs to.
func (p LifetimePosition) End() LifetimePosition {
	return p.Start() + 1
}

// NextInstruction returns the start position of the next instruction.
func (p LifetimePosition) NextInstruction() LifetimePosition {
	return p.Start() + 2
}

// PrevInstruction returns the start position of the previous instruction.
func (p LifetimePosition) PrevInstruction() LifetimePosition {
	return p.Start() - 2
}

func LifetimePositionForInstruction(index int) LifetimePosition {
	return LifetimePosition(index * 2)
}

func (p LifetimePosition) Prev() LifetimePosition { return p - 1 }
func (p LifetimePosition) Next() LifetimePosition { return p + 1 }
