package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Derived columns appended to the payment schedule by the reconciliation
// engine, in output order.
const (
	ColAuth           = "AUTH"
	ColMerchantNumber = "MERCHANT NUMBER"
	ColTrxAmount      = "TRX.AMT"
	ColCardNumber     = "CARD NUMBER"
	ColCommission     = "COM. AMOUNT"
	ColNetAmount      = "NET. AMT"
)

// DerivedColumns lists the appended columns in their output order.
var DerivedColumns = []string{
	ColAuth, ColMerchantNumber, ColTrxAmount, ColCardNumber, ColCommission, ColNetAmount,
}

// Row is one spreadsheet row: column name to cell value. Cells are the
// strings the workbook decoder produced; empty string means a blank cell.
type Row map[string]string

// Clone returns a copy of the row so augmentation never mutates the input.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Sheet is an ordered, row-oriented table. Columns fixes the column order;
// the first decoded row's header cells define it.
type Sheet struct {
	Columns []string
	Rows    []Row
}

// Column returns the first column whose name contains sub, ignoring case.
// The payment schedule always carries a voucher-number column and a total
// column but the exact headings vary between exports.
func (s *Sheet) Column(sub string) string {
	sub = strings.ToLower(sub)
	for _, c := range s.Columns {
		if strings.Contains(strings.ToLower(c), sub) {
			return c
		}
	}
	return ""
}

// Summary aggregates one reconciliation run.
type Summary struct {
	ExistingTotal   decimal.Decimal `json:"existingTotal"`
	TotalTrx        decimal.Decimal `json:"totalTrx"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	MatchedCount    int             `json:"matchedCount"`
}
