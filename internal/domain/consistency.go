package domain

// ConsistencyReport counts stored entries that break the posting invariants.
// A healthy ledger has every counter at zero.
type ConsistencyReport struct {
	TotalEntries      int64
	SelfEntries       int64
	NonPositiveAmount int64
	InvalidLegs       int64
	MissingSuggestion int64
}

// Consistent reports whether no violations were found.
func (r *ConsistencyReport) Consistent() bool {
	return r.SelfEntries == 0 &&
		r.NonPositiveAmount == 0 &&
		r.InvalidLegs == 0 &&
		r.MissingSuggestion == 0
}

// Violations returns the total number of violating entries.
func (r *ConsistencyReport) Violations() int64 {
	return r.SelfEntries + r.NonPositiveAmount + r.InvalidLegs + r.MissingSuggestion
}
