package regalloc

// VRegID identifies a virtual register within a single compilation.
// IDs are dense and start at zero; they index directly into per-function
// tables (live range pointers, location slots) rather than requiring a map.
type VRegID uint32

// RegType partitions virtual and real registers into allocation classes.
// The allocator always finishes one class before starting the next
// (general-purpose first, then floating point), mirroring the two
// independent passes a target ISA with separate register files requires.
type RegType byte

const (
	RegTypeInt RegType = iota
	RegTypeFloat
	NumRegType
)

func (t RegType) String() string {
	switch t {
	case RegTypeInt:
		return "int"
	case RegTypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// RealReg names a physical register, target-independent, by its index in
// its class's register file; index 0 is an ordinary register. The
// allocator does not use RealRegInvalid, which has the same value as
// register 0.
type RealReg byte

const RealRegInvalid RealReg = 0

// VReg is a virtual register: the pair (VRegID, RegType) packed into a
// single comparable value so it can be used as a map key and stored
// compactly in instruction operand lists. Bit layout, high to low:
//
//	[ 8 bits RegType ] [ 24 bits VRegID ]
//
// 24 bits of ID room comfortably exceeds any single function's virtual
// register count; compilations that would overflow it are a bug upstream
// of this package, not something this allocator needs to defend against.
type VReg uint32

const vregIDMask = 1<<24 - 1

// VRegOf builds a VReg from an ID and register class.
func VRegOf(id VRegID, rt RegType) VReg {
	if id > vregIDMask {
		bug("virtual register id %d exceeds the 24-bit id space", id)
	}
	return VReg(uint32(rt)<<24 | uint32(id))
}

func (v VReg) ID() VRegID   { return VRegID(v & vregIDMask) }
func (v VReg) RegType() RegType { return RegType(v >> 24) }

// VRegInvalid is never produced by VRegOf (RegType never exceeds 8 bits in
// practice and id 0 is valid, but this sentinel uses a RegType no real
// allocation ever requests).
const VRegInvalid VReg = VReg(0xff << 24)

func (v VReg) Valid() bool { return v != VRegInvalid }

// RegSet is a bitset over the real registers of one RegType, capped at 64
// physical registers per class, which every ISA this allocator has ever
// targeted satisfies comfortably.
type RegSet uint64

func NewRegSet(regs ...RealReg) RegSet {
	var s RegSet
	for _, r := range regs {
		s = s.add(r)
	}
	return s
}

func (s RegSet) has(r RealReg) bool { return s&(1<<uint(r)) != 0 }
func (s RegSet) add(r RealReg) RegSet { return s | 1<<uint(r) }
func (s RegSet) remove(r RealReg) RegSet { return s &^ (1 << uint(r)) }

// Range calls f for every register present in the set, in register-index
// order (bias rotation, when needed, is applied by the caller).
func (s RegSet) Range(f func(RealReg)) {
	for i := 0; i < 64; i++ {
		if s.has(RealReg(i)) {
			f(RealReg(i))
		}
	}
}
