package regalloc

import "sort"

// seedWorklists partitions every constructed live
// range into one of two worklists by register class, each sorted by
// ascending start position. Ties are broken by insertion order (stable
// sort), so allocation order is deterministic.
func seedWorklists(a *Allocator) (gp, fp []*LiveRange) {
	collect := func(r *LiveRange) {
		for s := r; s != nil; s = s.next {
			if s.intervals == nil {
				continue // range that never received an interval; not allocated.
			}
			if s.rt == RegTypeInt {
				gp = append(gp, s)
			} else {
				fp = append(fp, s)
			}
		}
	}
	for _, r := range a.liveRanges {
		if r != nil {
			collect(r)
		}
	}
	for _, r := range a.extraRanges {
		collect(r)
	}

	sort.SliceStable(gp, func(i, j int) bool { return gp[i].Start() < gp[j].Start() })
	sort.SliceStable(fp, func(i, j int) bool { return fp[i].Start() < fp[j].Start() })

	if RegAllocValidationEnabled {
		assertf(sort.SliceIsSorted(gp, func(i, j int) bool { return gp[i].Start() < gp[j].Start() }), "gp worklist not sorted")
		assertf(sort.SliceIsSorted(fp, func(i, j int) bool { return fp[i].Start() < fp[j].Start() }), "fp worklist not sorted")
	}
	return gp, fp
}
