package wip

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ratio divides num by den, returning zero when the denominator is zero. A
// zero-hours task must yield zero rates, never an Inf/NaN or an error.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// ComputeProfitability derives the billing metrics from aggregated totals.
// Pure function, no I/O.
//
//	grossProduction = ltdTime + ltdDisb
//	netRevenue      = grossProduction + ltdAdj
//	grossProfit     = netRevenue - ltdCost
//
// with guarded percentage and per-hour rate derivations.
func ComputeProfitability(totals WipTotals) Profitability {
	grossProduction := totals.LTDTime.Add(totals.LTDDisb)
	netRevenue := grossProduction.Add(totals.LTDAdj)
	grossProfit := netRevenue.Sub(totals.LTDCost)

	return Profitability{
		GrossProduction:  grossProduction,
		LTDAdjustment:    totals.LTDAdj,
		NetRevenue:       netRevenue,
		AdjustmentPct:    ratio(totals.LTDAdj, grossProduction).Mul(hundred),
		LTDCost:          totals.LTDCost,
		GrossProfit:      grossProfit,
		GrossProfitPct:   ratio(grossProfit, netRevenue).Mul(hundred),
		AvgChargeoutRate: ratio(grossProduction, totals.LTDHours),
		AvgRecoveryRate:  ratio(netRevenue, totals.LTDHours),
		BalWIP:           totals.BalWIP,
		BalTime:          totals.BalTime,
		BalDisb:          totals.BalDisb,
		Provision:        totals.Provision,
	}
}
