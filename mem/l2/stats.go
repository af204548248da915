package l2

// Stats counts the work done by the L2 cache.
type Stats struct {
	Accesses        uint64
	Hits            uint64
	Misses          uint64
	CoalescedMisses uint64
	DroppedFills    uint64
	Resets          uint64
	Occupied        uint64
}

// HitRatio returns hits over accesses, or 0 before the first access.
func (s Stats) HitRatio() float64 {
	if s.Accesses == 0 {
		return 0
	}

	return float64(s.Hits) / float64(s.Accesses)
}

// L3Requests returns the number of requests sent to the L3 store.
func (s Stats) L3Requests() uint64 {
	return s.Misses - s.CoalescedMisses
}
