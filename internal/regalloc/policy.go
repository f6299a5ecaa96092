package regalloc

// UnallocatedPolicy describes what an unallocated use position is willing
// to accept once the allocator reaches it. Policies form the contract
// between the IR producer (which states constraints like "this operand
// must be in a register" or "this result must land in rax") and the
// allocator (which decides which concrete location satisfies them).
type UnallocatedPolicy byte

const (
	// PolicyAny accepts any location, register or stack slot. Used for
	// plain SSA value uses with no machine constraint.
	PolicyAny UnallocatedPolicy = iota

	// PolicyAnyRegister requires a register of the value's class but does
	// not care which one.
	PolicyAnyRegister

	// PolicyFixedRegister requires one specific real register, e.g. a
	// call argument register or a two-address instruction's implicit
	// output register.
	PolicyFixedRegister

	// PolicyFixedFPURegister is PolicyFixedRegister for the floating
	// point register file, kept distinct so callers never need to check
	// RegType before dispatching on policy.
	PolicyFixedFPURegister

	// PolicySameAsFirstInput ties this use to whatever register the
	// instruction's first input ends up in; used for two-address machine
	// instructions where the destination overwrites a source.
	PolicySameAsFirstInput

	// PolicyPrefersRegister is a soft version of PolicyAnyRegister: the
	// allocator should try to place the value in a register but may fall
	// back to a stack slot instead of evicting something more valuable.
	PolicyPrefersRegister

	// PolicyWritableRegister requires a register that the instruction is
	// free to overwrite even though the value must also survive as an
	// input; the allocator materializes a one-position temporary copy
	// rather than handing out the input's own register.
	PolicyWritableRegister

	// PolicyRequiresStack forces the value to have a spill slot reserved
	// even if it never leaves a register; used for values an instruction
	// reads directly off the stack.
	PolicyRequiresStack
)

func (p UnallocatedPolicy) String() string {
	switch p {
	case PolicyAny:
		return "any"
	case PolicyAnyRegister:
		return "any-register"
	case PolicyFixedRegister:
		return "fixed-register"
	case PolicyFixedFPURegister:
		return "fixed-fpu-register"
	case PolicySameAsFirstInput:
		return "same-as-first-input"
	case PolicyPrefersRegister:
		return "prefers-register"
	case PolicyWritableRegister:
		return "writable-register"
	case PolicyRequiresStack:
		return "requires-stack"
	default:
		return "unknown-policy"
	}
}

// RequiresRegister reports whether satisfying this policy requires placing
// the value in some register of its class, as opposed to merely preferring
// one or tolerating a spill slot.
func (p UnallocatedPolicy) RequiresRegister() bool {
	switch p {
	case PolicyAnyRegister, PolicyFixedRegister, PolicyFixedFPURegister, PolicySameAsFirstInput, PolicyWritableRegister:
		return true
	default:
		return false
	}
}
