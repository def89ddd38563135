package wip

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskProfitabilityResponse is the JSON payload for the task view. Monetary
// figures serialise as decimal strings.
type TaskProfitabilityResponse struct {
	TaskRef          string          `json:"taskRef"`
	LtdTime          decimal.Decimal `json:"ltdTime"`
	LtdDisb          decimal.Decimal `json:"ltdDisb"`
	LtdAdj           decimal.Decimal `json:"ltdAdj"`
	LtdFee           decimal.Decimal `json:"ltdFee"`
	LtdHours         decimal.Decimal `json:"ltdHours"`
	LtdCost          decimal.Decimal `json:"ltdCost"`
	BalWIP           decimal.Decimal `json:"balWip"`
	BalTime          decimal.Decimal `json:"balTime"`
	BalDisb          decimal.Decimal `json:"balDisb"`
	WipProvision     decimal.Decimal `json:"wipProvision"`
	GrossProduction  decimal.Decimal `json:"grossProduction"`
	LtdAdjustment    decimal.Decimal `json:"ltdAdjustment"`
	NetRevenue       decimal.Decimal `json:"netRevenue"`
	AdjustmentPct    decimal.Decimal `json:"adjustmentPercentage"`
	GrossProfit      decimal.Decimal `json:"grossProfit"`
	GrossProfitPct   decimal.Decimal `json:"grossProfitPercentage"`
	AvgChargeoutRate decimal.Decimal `json:"averageChargeoutRate"`
	AvgRecoveryRate  decimal.Decimal `json:"averageRecoveryRate"`
	TransactionCount int             `json:"transactionCount"`
	TransactionLimit int             `json:"transactionLimit"`
	LimitReached     bool            `json:"limitReached"`
}

// ClientBalancesResponse is the JSON payload for the client summary view.
type ClientBalancesResponse struct {
	ClientRef        string          `json:"clientRef"`
	WipBalance       decimal.Decimal `json:"wipBalance"`
	DebtorBalance    decimal.Decimal `json:"debtorBalance"`
	LastUpdated      *time.Time      `json:"lastUpdated"`
	TransactionCount int             `json:"transactionCount"`
	TransactionLimit int             `json:"transactionLimit"`
	LimitReached     bool            `json:"limitReached"`
}

func newTaskProfitabilityResponse(res TaskProfitabilityResult) TaskProfitabilityResponse {
	return TaskProfitabilityResponse{
		TaskRef:          res.TaskRef,
		LtdTime:          res.Totals.LTDTime,
		LtdDisb:          res.Totals.LTDDisb,
		LtdAdj:           res.Totals.LTDAdj,
		LtdFee:           res.Totals.LTDFee,
		LtdHours:         res.Totals.LTDHours,
		LtdCost:          res.Totals.LTDCost,
		BalWIP:           res.Totals.BalWIP,
		BalTime:          res.Totals.BalTime,
		BalDisb:          res.Totals.BalDisb,
		WipProvision:     res.Totals.Provision,
		GrossProduction:  res.Profitability.GrossProduction,
		LtdAdjustment:    res.Profitability.LTDAdjustment,
		NetRevenue:       res.Profitability.NetRevenue,
		AdjustmentPct:    res.Profitability.AdjustmentPct,
		GrossProfit:      res.Profitability.GrossProfit,
		GrossProfitPct:   res.Profitability.GrossProfitPct,
		AvgChargeoutRate: res.Profitability.AvgChargeoutRate,
		AvgRecoveryRate:  res.Profitability.AvgRecoveryRate,
		TransactionCount: res.TransactionCount,
		TransactionLimit: res.TransactionLimit,
		LimitReached:     res.LimitReached,
	}
}

func newClientBalancesResponse(res ClientBalancesResult) ClientBalancesResponse {
	return ClientBalancesResponse{
		ClientRef:        res.ClientRef,
		WipBalance:       res.Balance.WIPBalance,
		DebtorBalance:    res.Balance.DebtorBalance,
		LastUpdated:      res.Balance.LastUpdated,
		TransactionCount: res.TransactionCount,
		TransactionLimit: res.TransactionLimit,
		LimitReached:     res.LimitReached,
	}
}
