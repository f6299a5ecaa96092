package regalloc

// LocationKind distinguishes the storage a Location refers to.
type LocationKind byte

const (
	LocationUnallocated LocationKind = iota
	LocationRegister
	LocationFpuRegister
	LocationStackSlot
	LocationDoubleStackSlot
	LocationQuadStackSlot
	LocationConstant
	LocationInvalid
)

// Location is where a value physically lives at one point in the
// instruction stream. A single LiveRange carries one Location for its
// whole extent (that's what makes it a *range*); a value that needs to
// move between locations over its lifetime is represented as several
// sibling LiveRanges, one per Location, linked by LiveRange.next.
//
// Location is deliberately a small value type copied freely, but
// UsePosition and Instr operands hold a *Location (see useposition.go):
// the allocator mutates the location a use refers to in place once it
// decides where the range lives, so every use that shares an unallocated
// slot observes the assignment without a second pass.
type Location struct {
	kind LocationKind
	// reg holds the RealReg for LocationRegister/LocationFpuRegister.
	reg RealReg
	// slot holds the spill slot index for the stack-slot kinds, or the
	// constant pool index for LocationConstant. The requested policy of a
	// LocationUnallocated is kept in policy.
	slot  int32
	policy UnallocatedPolicy
}

func UnallocatedLocation(policy UnallocatedPolicy) Location {
	return Location{kind: LocationUnallocated, policy: policy}
}

func FixedRegisterLocation(r RealReg, rt RegType) Location {
	k := LocationRegister
	if rt == RegTypeFloat {
		k = LocationFpuRegister
	}
	return Location{kind: k, reg: r}
}

func StackSlotLocation(slot int32, quad, untagged bool) Location {
	k := LocationStackSlot
	switch {
	case quad:
		k = LocationQuadStackSlot
	case !untagged:
		k = LocationDoubleStackSlot
	}
	return Location{kind: k, slot: slot}
}

func ConstantLocation(poolIndex int32) Location {
	return Location{kind: LocationConstant, slot: poolIndex}
}

var InvalidLocation = Location{kind: LocationInvalid}

func (l Location) Kind() LocationKind { return l.kind }
func (l Location) IsUnallocated() bool { return l.kind == LocationUnallocated }
func (l Location) IsRegister() bool {
	return l.kind == LocationRegister || l.kind == LocationFpuRegister
}
func (l Location) IsStackSlot() bool {
	switch l.kind {
	case LocationStackSlot, LocationDoubleStackSlot, LocationQuadStackSlot:
		return true
	default:
		return false
	}
}
func (l Location) IsConstant() bool { return l.kind == LocationConstant }
func (l Location) IsInvalid() bool  { return l.kind == LocationInvalid }

func (l Location) Reg() RealReg           { return l.reg }
func (l Location) SpillSlot() int32       { return l.slot }
func (l Location) ConstantIndex() int32   { return l.slot }
func (l Location) Policy() UnallocatedPolicy { return l.policy }

func (l Location) Equals(other Location) bool {
	return l.kind == other.kind && l.reg == other.reg && l.slot == other.slot
}
