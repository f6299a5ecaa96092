package regalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newAnyRegisterSlot() *Location {
	l := new(Location)
	*l = UnallocatedLocation(PolicyAnyRegister)
	return l
}

func emptyLiveness(blockIDs ...int) *LivenessInfo {
	li := &LivenessInfo{LiveIn: map[int]map[VReg]bool{}, LiveOut: map[int]map[VReg]bool{}, Kill: map[int]map[VReg]bool{}}
	for _, id := range blockIDs {
		li.LiveIn[id] = map[VReg]bool{}
		li.LiveOut[id] = map[VReg]bool{}
		li.Kill[id] = map[VReg]bool{}
	}
	return li
}

// A value defined once and used twice, with four free general-purpose
// registers available, should be assigned a single register covering its
// whole lifetime with no splits or spills.
func TestAllocator_StraightLineSpillFree(t *testing.T) {
	v1 := VRegOf(0, RegTypeInt)

	defSlot := newAnyRegisterSlot()
	use1Slot := newAnyRegisterSlot()
	use2Slot := newAnyRegisterSlot()

	defInstr := &mockInstr{ls: LocationSummary{Output: defSlot, OutputVReg: v1}}
	use1Instr := &mockInstr{ls: LocationSummary{Inputs: []*Location{use1Slot}, InputVRegs: []VReg{v1}}}
	use2Instr := &mockInstr{ls: LocationSummary{Inputs: []*Location{use2Slot}, InputVRegs: []VReg{v1}}}

	fn, _ := newLinearMockFunction([]Instr{defInstr, use1Instr, use2Instr})
	fn.numVregs = 1
	fn.reps[v1.ID()] = Representation{RegType: RegTypeInt}

	liveness := emptyLiveness(0)

	a := NewAllocator(defaultRegisterInfo())
	resolver := &noopResolver{}
	a.DoAllocation(fn, liveness, resolver)

	require.True(t, defSlot.IsRegister(), "def slot should have been assigned a register")
	require.True(t, use1Slot.IsRegister(), "first use slot should have been assigned a register")
	require.True(t, use2Slot.IsRegister(), "second use slot should have been assigned a register")
	require.Equal(t, defSlot.Reg(), use1Slot.Reg(), "def and first use should share the same register, no splits expected")
	require.Equal(t, defSlot.Reg(), use2Slot.Reg(), "def and second use should share the same register, no splits expected")

	r := a.liveRanges[int(v1.ID())]
	require.NotNil(t, r)
	require.Nil(t, r.next, "no split expected with four free registers and no call in between")
	require.False(t, a.hasSpills)
}

// A fixed-register output immediately consumed by a fixed-register-same
// use at pos+1 is wired directly, without an
// intermediary register or move.
func TestAllocator_FixedOutputThenFixedInputSameRegister_SkipsIntermediary(t *testing.T) {
	v1 := VRegOf(0, RegTypeInt)

	outSlot := new(Location)
	*outSlot = UnallocatedLocation(PolicyFixedRegister)
	outSlot.reg = 0

	inSlot := new(Location)
	*inSlot = UnallocatedLocation(PolicyFixedRegister)
	inSlot.reg = 0

	defInstr := &mockInstr{ls: LocationSummary{Output: outSlot, OutputVReg: v1}, alwaysCalls: true, calleeSafe: true}
	useInstr := &mockInstr{ls: LocationSummary{Inputs: []*Location{inSlot}, InputVRegs: []VReg{v1}}}

	fn, _ := newLinearMockFunction([]Instr{defInstr, useInstr})
	fn.numVregs = 1
	fn.reps[v1.ID()] = Representation{RegType: RegTypeInt}

	liveness := emptyLiveness(0)

	a := NewAllocator(defaultRegisterInfo())
	a.DoAllocation(fn, liveness, &noopResolver{})

	require.True(t, outSlot.IsRegister())
	require.True(t, inSlot.IsRegister())
	require.Equal(t, RealReg(0), outSlot.Reg())
	require.Equal(t, RealReg(0), inSlot.Reg())
}

func TestAllocator_DeadDefinitionDegeneratesToOnePosition(t *testing.T) {
	v1 := VRegOf(0, RegTypeInt)
	defSlot := newAnyRegisterSlot()
	defInstr := &mockInstr{ls: LocationSummary{Output: defSlot, OutputVReg: v1}}

	fn, _ := newLinearMockFunction([]Instr{defInstr})
	fn.numVregs = 1
	fn.reps[v1.ID()] = Representation{RegType: RegTypeInt}

	a := NewAllocator(defaultRegisterInfo())
	a.DoAllocation(fn, emptyLiveness(0), &noopResolver{})

	r := a.liveRanges[int(v1.ID())]
	require.NotNil(t, r)
	require.Equal(t, r.Start(), r.End()-1, "dead definition should degenerate to a one-position interval")
}
