package regalloc

import (
	"fmt"
	"sync"

	"github.com/xyproto/env/v2"
)

// TraceEnabled, together with the LSRA_TRACE override, gates the trace
// helper below. Like wazero's RegAllocLoggingEnabled, this stays false in
// all normal builds. No code in the package calls trace.
const TraceEnabled = false

// RegAllocValidationEnabled gates the self-checks: the worklist sort check,
// the SplitAt bounds check, and, at the end of DoAllocation, live range
// interval and use ordering and quad spill slot pairing. Kept on by default, same rationale as
// wazero's SSAValidationEnabled/RegAllocValidationEnabled: until this
// package has had a long fuzzing run behind it, the cost of a silent
// miscompile is much higher than the cost of the checks.
const RegAllocValidationEnabled = true

var traceRuntimeOnce sync.Once
var traceRuntimeValue bool

// traceRuntimeOverride reads LSRA_TRACE so a host embedding this allocator
// can turn tracing on for one process without rebuilding it with
// TraceEnabled flipped. It is the only runtime-configurable knob this
// package exposes.
func traceRuntimeOverride() bool {
	traceRuntimeOnce.Do(func() {
		traceRuntimeValue = env.Bool("LSRA_TRACE")
	})
	return traceRuntimeValue
}

func traceEnabled() bool {
	return TraceEnabled || traceRuntimeOverride()
}

func trace(format string, args ...any) {
	if traceEnabled() {
		fmt.Printf("[regalloc] "+format+"\n", args...)
	}
}
