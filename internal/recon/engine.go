// Package recon joins extracted transactions against the payment schedule
// and assembles the annotated output table.
package recon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sithumonline/payment-reconciler/internal/models"
)

// appendixLabel heads the trailing section that lists transactions with no
// corresponding schedule row.
const appendixLabel = "UNMATCHED TRANSACTIONS"

// spacerRows separates the totals row from the unmatched appendix.
const spacerRows = 5

// Result is the output of one reconciliation: the widened table ready for
// workbook encoding, the run summary, and any diagnostics raised while
// indexing.
type Result struct {
	Sheet   *models.Sheet
	Summary models.Summary
	Issues  []models.ParseIssue
}

// Reconcile joins schedule rows against transactions by voucher number and
// authorization id. It is a pure function of its inputs: rows are cloned
// before augmentation and no state survives the call.
//
// The output table is: augmented schedule rows (sorted), one totals row,
// five spacer rows, the appendix header, then the sorted unmatched
// transactions.
func Reconcile(sheet *models.Sheet, txns []models.Transaction) *Result {
	res := &Result{Summary: models.Summary{
		ExistingTotal:   decimal.Zero,
		TotalTrx:        decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalNet:        decimal.Zero,
	}}

	deduped := dedupe(txns)
	index, collisions := buildIndex(deduped)
	for _, id := range collisions {
		res.Issues = append(res.Issues, models.ParseIssue{
			File:   "reconciliation",
			Reason: fmt.Sprintf("authorization id %s appears on multiple distinct transactions; matched against the first occurrence", id),
		})
	}

	voucherCol := sheet.Column("voucher")
	totalCol := sheet.Column("total")

	matched := make(map[string]bool)
	augmented := make([]models.Row, 0, len(sheet.Rows))

	for _, row := range sheet.Rows {
		out := row.Clone()

		if txn, ok := lookup(index, strings.TrimSpace(row[voucherCol])); ok {
			matched[txn.AuthorizationID] = true
			fillDerived(out, txn)
			res.Summary.MatchedCount++
			res.Summary.TotalTrx = res.Summary.TotalTrx.Add(txn.TransactionAmount)
			res.Summary.TotalCommission = res.Summary.TotalCommission.Add(txn.Commission)
			res.Summary.TotalNet = res.Summary.TotalNet.Add(txn.NetAmount)
		}

		// The existing schedule total accumulates whether or not the row
		// matched; blank or non-numeric cells contribute zero.
		if amt, err := parseCellAmount(row[totalCol]); err == nil {
			res.Summary.ExistingTotal = res.Summary.ExistingTotal.Add(amt)
		}

		augmented = append(augmented, out)
	}

	var unmatched []models.Row
	for _, txn := range deduped {
		if matched[txn.AuthorizationID] {
			continue
		}
		row := models.Row{}
		fillDerived(row, txn)
		unmatched = append(unmatched, row)
	}

	sortRows(augmented)
	sortRows(unmatched)

	columns := make([]string, 0, len(sheet.Columns)+len(models.DerivedColumns))
	columns = append(columns, sheet.Columns...)
	columns = append(columns, models.DerivedColumns...)

	rows := make([]models.Row, 0, len(augmented)+1+spacerRows+1+len(unmatched))
	rows = append(rows, augmented...)
	rows = append(rows, totalsRow(voucherCol, totalCol, res.Summary))
	for i := 0; i < spacerRows; i++ {
		rows = append(rows, models.Row{})
	}
	header := models.Row{}
	headerCol := voucherCol
	if headerCol == "" && len(columns) > 0 {
		headerCol = columns[0]
	}
	header[headerCol] = appendixLabel
	rows = append(rows, header)
	rows = append(rows, unmatched...)

	res.Sheet = &models.Sheet{Columns: columns, Rows: rows}
	return res
}

// dedupe drops exact duplicate transactions, keeping the first occurrence.
// Logs and statements for the same settlement period overlap, so the same
// record frequently arrives from two files.
func dedupe(txns []models.Transaction) []models.Transaction {
	seen := make(map[string]bool, len(txns))
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		k := t.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

// buildIndex maps authorization id to its transaction. When distinct
// deduplicated records share an id the first one is kept and the id is
// reported, rather than silently overwriting.
func buildIndex(txns []models.Transaction) (map[string]models.Transaction, []string) {
	index := make(map[string]models.Transaction, len(txns))
	var collisions []string
	for _, t := range txns {
		if _, ok := index[t.AuthorizationID]; ok {
			collisions = append(collisions, t.AuthorizationID)
			continue
		}
		index[t.AuthorizationID] = t
	}
	return index, collisions
}

// lookup finds a transaction by voucher number. An exact hit always wins;
// vouchers with leading zeros are retried with the zeros stripped because
// the settlement logs print authorization ids unpadded.
func lookup(index map[string]models.Transaction, key string) (models.Transaction, bool) {
	if key == "" {
		return models.Transaction{}, false
	}
	if txn, ok := index[key]; ok {
		return txn, true
	}
	if strings.HasPrefix(key, "0") {
		if txn, ok := index[strings.TrimLeft(key, "0")]; ok {
			return txn, true
		}
	}
	return models.Transaction{}, false
}

func fillDerived(row models.Row, txn models.Transaction) {
	row[models.ColAuth] = txn.AuthorizationID
	row[models.ColMerchantNumber] = txn.MerchantNumber
	row[models.ColTrxAmount] = txn.TransactionAmount.StringFixed(2)
	row[models.ColCardNumber] = txn.CardNumber
	row[models.ColCommission] = txn.Commission.StringFixed(2)
	row[models.ColNetAmount] = txn.NetAmount.StringFixed(2)
}

func totalsRow(voucherCol, totalCol string, s models.Summary) models.Row {
	row := models.Row{
		models.ColTrxAmount:  s.TotalTrx.StringFixed(2),
		models.ColCommission: s.TotalCommission.StringFixed(2),
		models.ColNetAmount:  s.TotalNet.StringFixed(2),
	}
	if voucherCol != "" {
		row[voucherCol] = "TOTAL"
	}
	if totalCol != "" {
		row[totalCol] = s.ExistingTotal.StringFixed(2)
	}
	return row
}

// sortRows orders by merchant number, then authorization id, both with the
// numeric-aware compare. Rows that never matched carry empty derived cells
// and therefore sort last.
func sortRows(rows []models.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareAlphanum(rows[i][models.ColMerchantNumber], rows[j][models.ColMerchantNumber]); c != 0 {
			return c < 0
		}
		return compareAlphanum(rows[i][models.ColAuth], rows[j][models.ColAuth]) < 0
	})
}

// parseCellAmount reads a numeric spreadsheet cell, tolerating thousands
// separators.
func parseCellAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, fmt.Errorf("blank cell")
	}
	return decimal.NewFromString(s)
}
