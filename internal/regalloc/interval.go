package regalloc

// UseInterval is a half-open [Start, End) span of lifetime positions
// during which a LiveRange is live. A range's intervals are kept in a
// singly linked list in ascending order with no two intervals touching or
// overlapping — touching intervals are merged as soon as they're created,
// per the monotonic-prepend construction described in liveranges.go.
type UseInterval struct {
	start, end LifetimePosition
	next       *UseInterval
}

func (u *UseInterval) Start() LifetimePosition { return u.start }
func (u *UseInterval) End() LifetimePosition   { return u.end }
func (u *UseInterval) Next() *UseInterval      { return u.next }

// Contains reports whether pos falls within [Start, End).
func (u *UseInterval) Contains(pos LifetimePosition) bool {
	return u.start <= pos && pos < u.end
}

// IntersectsWith returns the earliest point at or after both u and o where
// their ranges overlap, or false if they never do. Both lists being sorted
// lets callers walk two interval chains in lock-step (see allocate.go's
// free_until / blocked_at computations) rather than doing a full O(n*m)
// scan.
func (u *UseInterval) IntersectsWith(o *UseInterval) (LifetimePosition, bool) {
	if u.start < o.start {
		if u.end <= o.start {
			return 0, false
		}
		return o.start, true
	}
	if o.end <= u.start {
		return 0, false
	}
	return u.start, true
}

// firstIntersectionWithChain walks both chains (assumed sorted ascending,
// non-overlapping within each chain) and returns the earliest point where
// some interval of u's chain overlaps some interval of o's chain.
func firstIntersectionWithChain(u, o *UseInterval) (LifetimePosition, bool) {
	for u != nil && o != nil {
		if pos, ok := u.IntersectsWith(o); ok {
			return pos, true
		}
		if u.end <= o.end {
			u = u.next
		} else {
			o = o.next
		}
	}
	return 0, false
}
