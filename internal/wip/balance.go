package wip

import "time"

// ComputeClientBalance reduces a client's WIP and debtor transaction sets
// into the summary snapshot. The sign rule matches the aggregator but is
// applied to the raw amount rather than per bucket. LastUpdated is the later
// of the two sources' maximum UpdatedAt; nil when both sets are empty.
func ComputeClientBalance(wipTxns []WipTransaction, debtorTxns []DebtorTransaction) ClientBalance {
	var snapshot ClientBalance
	var latest time.Time

	for _, txn := range wipTxns {
		snapshot.WIPBalance = snapshot.WIPBalance.Add(signedAmount(txn))
		if txn.UpdatedAt.After(latest) {
			latest = txn.UpdatedAt
		}
	}
	for _, txn := range debtorTxns {
		snapshot.DebtorBalance = snapshot.DebtorBalance.Add(txn.Total)
		if txn.UpdatedAt.After(latest) {
			latest = txn.UpdatedAt
		}
	}
	if !latest.IsZero() {
		snapshot.LastUpdated = &latest
	}
	return snapshot
}
