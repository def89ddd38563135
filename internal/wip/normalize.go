package wip

import "github.com/shopspring/decimal"

// ExcludedCostSet is the snapshot of employee codes whose cost figures are
// zeroed before aggregation (the excluded-cost partner category).
type ExcludedCostSet map[string]struct{}

// NewExcludedCostSet builds a set from the reference-data code list.
func NewExcludedCostSet(codes []string) ExcludedCostSet {
	set := make(ExcludedCostSet, len(codes))
	for _, code := range codes {
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

// Contains reports whether the employee code is in the excluded set.
func (s ExcludedCostSet) Contains(code *string) bool {
	if code == nil || len(s) == 0 {
		return false
	}
	_, ok := s[*code]
	return ok
}

// NormalizeCosts returns a copy of the transactions with the cost field
// forced to zero wherever the owning employee is in the excluded set. The
// input slice is never mutated.
func NormalizeCosts(txns []WipTransaction, excluded ExcludedCostSet) []WipTransaction {
	if len(txns) == 0 {
		return nil
	}
	out := make([]WipTransaction, len(txns))
	copy(out, txns)
	if len(excluded) == 0 {
		return out
	}
	for i := range out {
		if excluded.Contains(out[i].EmployeeCode) {
			out[i].Cost = decimal.Zero
		}
	}
	return out
}
