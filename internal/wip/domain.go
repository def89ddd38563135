// Package wip implements the WIP/debtor balance and profitability engine:
// bounded transaction scans, cost normalisation, life-to-date aggregation and
// the derived billing metrics served to the API layer.
package wip

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFlag classifies how a ledger entry contributes to totals.
type TransactionFlag string

const (
	// FlagNormal entries contribute with a positive sign.
	FlagNormal TransactionFlag = "NORMAL"
	// FlagReversal entries are subtracted from their bucket.
	FlagReversal TransactionFlag = "REVERSAL"
	// FlagProvision entries are contra entries that are still added, never
	// subtracted.
	FlagProvision TransactionFlag = "PROVISION"
)

// Raw ledger flag characters as stored by the practice-management system.
const (
	rawFlagReversal  = "F"
	rawFlagProvision = "P"
)

// ParseFlag maps the raw ledger character onto the closed flag set. Anything
// other than the reversal and provision markers is treated as a normal entry.
func ParseFlag(raw string) TransactionFlag {
	switch raw {
	case rawFlagReversal:
		return FlagReversal
	case rawFlagProvision:
		return FlagProvision
	default:
		return FlagNormal
	}
}

// Subtype identifies the life-to-date bucket a transaction amount belongs to.
type Subtype string

const (
	SubtypeTime         Subtype = "TIME"
	SubtypeDisbursement Subtype = "DISB"
	SubtypeAdjustment   Subtype = "ADJ"
	SubtypeFee          Subtype = "FEE"
	// SubtypeUnknown entries still contribute hours and cost but land in no
	// amount bucket.
	SubtypeUnknown Subtype = ""
)

// ParseSubtype normalises the free-form ledger classification into one of
// the four buckets. The source system is not consistent about spelling.
func ParseSubtype(raw string) Subtype {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TIME", "TIM":
		return SubtypeTime
	case "DISB", "DISBURSEMENT", "DIS":
		return SubtypeDisbursement
	case "ADJ", "ADJUSTMENT":
		return SubtypeAdjustment
	case "FEE", "FEES":
		return SubtypeFee
	default:
		return SubtypeUnknown
	}
}

// WipTransaction is one immutable row of the WIP ledger. Corrections arrive
// as new rows, never as in-place updates.
type WipTransaction struct {
	TaskRef      string
	ClientRef    string
	TxnDate      time.Time
	Subtype      Subtype
	Flag         TransactionFlag
	EmployeeCode *string
	Amount       decimal.Decimal
	Cost         decimal.Decimal
	Hours        decimal.Decimal
	ServiceLine  string
	UpdatedAt    time.Time
}

// DebtorTransaction is one invoiced amount against a client.
type DebtorTransaction struct {
	ClientRef string
	Total     decimal.Decimal
	UpdatedAt time.Time
}

// TaskBalance is the pre-aggregated balance feed maintained outside this
// engine. Task-level views read balances from here rather than re-deriving
// them from the raw scan; client-level views scan raw rows instead.
type TaskBalance struct {
	BalWIP    decimal.Decimal
	BalTime   decimal.Decimal
	BalDisb   decimal.Decimal
	Provision decimal.Decimal
}

// WipTotals is the fixed set of life-to-date and balance figures produced by
// the aggregator. Computed per request, never persisted.
type WipTotals struct {
	LTDTime   decimal.Decimal
	LTDDisb   decimal.Decimal
	LTDAdj    decimal.Decimal
	LTDFee    decimal.Decimal
	LTDHours  decimal.Decimal
	LTDCost   decimal.Decimal
	BalWIP    decimal.Decimal
	BalTime   decimal.Decimal
	BalDisb   decimal.Decimal
	Provision decimal.Decimal
}

// Profitability carries the derived billing metrics for a task plus the
// pass-through balance figures.
type Profitability struct {
	GrossProduction  decimal.Decimal
	LTDAdjustment    decimal.Decimal
	NetRevenue       decimal.Decimal
	AdjustmentPct    decimal.Decimal
	LTDCost          decimal.Decimal
	GrossProfit      decimal.Decimal
	GrossProfitPct   decimal.Decimal
	AvgChargeoutRate decimal.Decimal
	AvgRecoveryRate  decimal.Decimal
	BalWIP           decimal.Decimal
	BalTime          decimal.Decimal
	BalDisb          decimal.Decimal
	Provision        decimal.Decimal
}

// ClientBalance is the client summary snapshot: one signed WIP balance, one
// debtor balance and the most recent ledger activity across both sources.
type ClientBalance struct {
	WIPBalance    decimal.Decimal
	DebtorBalance decimal.Decimal
	LastUpdated   *time.Time
}
