package wip

import (
	"sync"

	"github.com/shopspring/decimal"
)

// shardThreshold is the scan size above which the reduction is split across
// goroutines. The reduction is commutative and associative, so sharding never
// changes the result.
const shardThreshold = 10_000

// signedAmount applies the flag sign rule: reversals subtract, everything
// else (including provisions) adds.
func signedAmount(txn WipTransaction) decimal.Decimal {
	if txn.Flag == FlagReversal {
		return txn.Amount.Neg()
	}
	return txn.Amount
}

// Aggregate reduces a normalised transaction sequence into life-to-date
// totals and copies balance figures from the pre-aggregated feed when
// present. Empty input yields zero totals; the aggregator never fails.
func Aggregate(txns []WipTransaction, balance *TaskBalance) WipTotals {
	var totals WipTotals
	if len(txns) >= shardThreshold {
		totals = aggregateSharded(txns)
	} else {
		totals = reduce(txns)
	}
	if balance != nil {
		totals.BalWIP = balance.BalWIP
		totals.BalTime = balance.BalTime
		totals.BalDisb = balance.BalDisb
		totals.Provision = balance.Provision
	}
	return totals
}

func reduce(txns []WipTransaction) WipTotals {
	var totals WipTotals
	for _, txn := range txns {
		totals.LTDHours = totals.LTDHours.Add(txn.Hours)
		totals.LTDCost = totals.LTDCost.Add(txn.Cost)
		amount := signedAmount(txn)
		switch txn.Subtype {
		case SubtypeTime:
			totals.LTDTime = totals.LTDTime.Add(amount)
		case SubtypeDisbursement:
			totals.LTDDisb = totals.LTDDisb.Add(amount)
		case SubtypeAdjustment:
			totals.LTDAdj = totals.LTDAdj.Add(amount)
		case SubtypeFee:
			totals.LTDFee = totals.LTDFee.Add(amount)
		}
	}
	return totals
}

func merge(a, b WipTotals) WipTotals {
	return WipTotals{
		LTDTime:  a.LTDTime.Add(b.LTDTime),
		LTDDisb:  a.LTDDisb.Add(b.LTDDisb),
		LTDAdj:   a.LTDAdj.Add(b.LTDAdj),
		LTDFee:   a.LTDFee.Add(b.LTDFee),
		LTDHours: a.LTDHours.Add(b.LTDHours),
		LTDCost:  a.LTDCost.Add(b.LTDCost),
	}
}

// aggregateSharded splits the scan into four chunks and merges the partial
// totals. Order independence of the reduction makes this safe.
func aggregateSharded(txns []WipTransaction) WipTotals {
	const shards = 4
	chunk := (len(txns) + shards - 1) / shards

	partials := make([]WipTotals, shards)
	var wg sync.WaitGroup
	for i := 0; i < shards; i++ {
		start := i * chunk
		if start >= len(txns) {
			break
		}
		end := start + chunk
		if end > len(txns) {
			end = len(txns)
		}
		wg.Add(1)
		go func(idx int, part []WipTransaction) {
			defer wg.Done()
			partials[idx] = reduce(part)
		}(i, txns[start:end])
	}
	wg.Wait()

	var totals WipTotals
	for _, p := range partials {
		totals = merge(totals, p)
	}
	return totals
}
