package recon

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sithumonline/payment-reconciler/internal/models"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func txn(auth, merchant, card, trx, comm, net string) models.Transaction {
	return models.Transaction{
		AuthorizationID:   auth,
		MerchantNumber:    merchant,
		CardNumber:        card,
		TransactionAmount: amt(trx),
		Commission:        amt(comm),
		NetAmount:         amt(net),
	}
}

func scheduleSheet(vouchers ...string) *models.Sheet {
	s := &models.Sheet{Columns: []string{"VOUCHER NUMBER", "PAYEE", "TOTAL"}}
	for _, v := range vouchers {
		s.Rows = append(s.Rows, models.Row{"VOUCHER NUMBER": v, "PAYEE": "ACME", "TOTAL": "100.00"})
	}
	return s
}

func TestReconcile_RowCountFormula(t *testing.T) {
	sheet := scheduleSheet("074680", "555555")
	txns := []models.Transaction{
		txn("074680", "70810034", "532016XXXXXX3032", "49900.00", "898.20", "49001.80"),
		txn("090112", "70810042", "532016XXXXXX9044", "5500.00", "99.00", "5401.00"),
	}

	res := Reconcile(sheet, txns)

	// rows + totals + 5 spacers + appendix header + unmatched
	want := len(sheet.Rows) + 1 + 5 + 1 + 1
	if got := len(res.Sheet.Rows); got != want {
		t.Errorf("output rows: got %d, want %d", got, want)
	}
}

func TestReconcile_DeduplicationIdempotent(t *testing.T) {
	sheet := scheduleSheet("074680")
	txns := []models.Transaction{
		txn("074680", "70810034", "532016XXXXXX3032", "49900.00", "898.20", "49001.80"),
		txn("090112", "70810042", "532016XXXXXX9044", "5500.00", "99.00", "5401.00"),
	}

	once := Reconcile(sheet, txns)
	twice := Reconcile(sheet, append(append([]models.Transaction{}, txns...), txns...))

	if len(once.Sheet.Rows) != len(twice.Sheet.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(once.Sheet.Rows), len(twice.Sheet.Rows))
	}
	for i := range once.Sheet.Rows {
		a, b := once.Sheet.Rows[i], twice.Sheet.Rows[i]
		if len(a) != len(b) {
			t.Fatalf("row %d differs: %v vs %v", i, a, b)
		}
		for k, v := range a {
			if b[k] != v {
				t.Errorf("row %d col %q differs: %q vs %q", i, k, v, b[k])
			}
		}
	}
	if !once.Summary.TotalTrx.Equal(twice.Summary.TotalTrx) {
		t.Errorf("TotalTrx differs: %s vs %s", once.Summary.TotalTrx, twice.Summary.TotalTrx)
	}
}

func TestReconcile_LeadingZeroFallback(t *testing.T) {
	sheet := scheduleSheet("074680")
	txns := []models.Transaction{
		txn("74680", "70810034", "532016XXXXXX3032", "49900.00", "898.20", "49001.80"),
	}

	res := Reconcile(sheet, txns)

	if res.Summary.MatchedCount != 1 {
		t.Fatalf("MatchedCount: got %d, want 1", res.Summary.MatchedCount)
	}
	if got := res.Sheet.Rows[0][models.ColAuth]; got != "74680" {
		t.Errorf("AUTH: got %q, want %q", got, "74680")
	}
}

func TestReconcile_ExactMatchBeatsFallback(t *testing.T) {
	sheet := scheduleSheet("074680")
	txns := []models.Transaction{
		txn("74680", "70810042", "450876XXXXXX1881", "1000.00", "18.00", "982.00"),
		txn("074680", "70810034", "532016XXXXXX3032", "49900.00", "898.20", "49001.80"),
	}

	res := Reconcile(sheet, txns)

	if res.Summary.MatchedCount != 1 {
		t.Fatalf("MatchedCount: got %d, want 1", res.Summary.MatchedCount)
	}
	if got := res.Sheet.Rows[0][models.ColMerchantNumber]; got != "70810034" {
		t.Errorf("matched merchant: got %q, want %q (exact voucher match must win)", got, "70810034")
	}
	// The stripped-zero record stays unmatched and lands in the appendix.
	last := res.Sheet.Rows[len(res.Sheet.Rows)-1]
	if last[models.ColAuth] != "74680" {
		t.Errorf("appendix AUTH: got %q, want %q", last[models.ColAuth], "74680")
	}
}

func TestReconcile_SummaryTotals(t *testing.T) {
	sheet := &models.Sheet{
		Columns: []string{"VOUCHER NUMBER", "TOTAL"},
		Rows: []models.Row{
			{"VOUCHER NUMBER": "074680", "TOTAL": "49,900.00"},
			{"VOUCHER NUMBER": "081233", "TOTAL": "12,000.00"},
			{"VOUCHER NUMBER": "999999", "TOTAL": "not a number"},
			{"VOUCHER NUMBER": "888888", "TOTAL": ""},
		},
	}
	txns := []models.Transaction{
		txn("074680", "70810034", "532016XXXXXX3032", "49900.00", "898.20", "49001.80"),
		txn("081233", "70810034", "450876XXXXXX1881", "12000.00", "216.00", "11784.00"),
		txn("090112", "70810042", "532016XXXXXX9044", "5500.00", "99.00", "5401.00"), // unmatched
	}

	res := Reconcile(sheet, txns)
	s := res.Summary

	if s.MatchedCount != 2 {
		t.Errorf("MatchedCount: got %d, want 2", s.MatchedCount)
	}
	if got := s.TotalTrx.StringFixed(2); got != "61900.00" {
		t.Errorf("TotalTrx: got %s, want 61900.00 (matched transactions only)", got)
	}
	if got := s.TotalCommission.StringFixed(2); got != "1114.20" {
		t.Errorf("TotalCommission: got %s, want 1114.20", got)
	}
	if got := s.TotalNet.StringFixed(2); got != "60785.80" {
		t.Errorf("TotalNet: got %s, want 60785.80", got)
	}
	// Existing total accumulates for every row; non-numeric cells are zero.
	if got := s.ExistingTotal.StringFixed(2); got != "61900.00" {
		t.Errorf("ExistingTotal: got %s, want 61900.00", got)
	}

	// MatchedCount equals the rows with a populated AUTH column.
	populated := 0
	for _, row := range res.Sheet.Rows[:len(sheet.Rows)] {
		if row[models.ColAuth] != "" {
			populated++
		}
	}
	if populated != s.MatchedCount {
		t.Errorf("rows with AUTH: got %d, want %d", populated, s.MatchedCount)
	}
}

func TestReconcile_Assembly(t *testing.T) {
	sheet := scheduleSheet("074680")
	txns := []models.Transaction{
		txn("074680", "70810034", "532016XXXXXX3032", "49900.00", "898.20", "49001.80"),
		txn("090112", "70810042", "532016XXXXXX9044", "5500.00", "99.00", "5401.00"),
	}

	res := Reconcile(sheet, txns)
	rows := res.Sheet.Rows

	// [0] schedule row, [1] totals, [2..6] spacers, [7] appendix header, [8] unmatched
	if got := rows[1]["VOUCHER NUMBER"]; got != "TOTAL" {
		t.Errorf("totals row label: got %q, want TOTAL", got)
	}
	if got := rows[1][models.ColTrxAmount]; got != "49900.00" {
		t.Errorf("totals row TRX.AMT: got %q, want 49900.00", got)
	}
	for i := 2; i <= 6; i++ {
		if len(rows[i]) != 0 {
			t.Errorf("row %d should be a blank spacer, got %v", i, rows[i])
		}
	}
	if got := rows[7]["VOUCHER NUMBER"]; got != "UNMATCHED TRANSACTIONS" {
		t.Errorf("appendix header: got %q", got)
	}
	unmatched := rows[8]
	if unmatched[models.ColAuth] != "090112" {
		t.Errorf("unmatched AUTH: got %q, want 090112", unmatched[models.ColAuth])
	}
	if unmatched["VOUCHER NUMBER"] != "" {
		t.Errorf("unmatched row should leave schedule columns blank, got %q", unmatched["VOUCHER NUMBER"])
	}

	// Derived columns are appended after the original columns, in order.
	wantCols := []string{"VOUCHER NUMBER", "PAYEE", "TOTAL",
		models.ColAuth, models.ColMerchantNumber, models.ColTrxAmount,
		models.ColCardNumber, models.ColCommission, models.ColNetAmount}
	if len(res.Sheet.Columns) != len(wantCols) {
		t.Fatalf("columns: got %v, want %v", res.Sheet.Columns, wantCols)
	}
	for i, c := range wantCols {
		if res.Sheet.Columns[i] != c {
			t.Errorf("column %d: got %q, want %q", i, res.Sheet.Columns[i], c)
		}
	}
}

func TestReconcile_UnmatchedSortedByMerchant(t *testing.T) {
	sheet := scheduleSheet() // no schedule rows
	txns := []models.Transaction{
		txn("300", "10", "C3", "1.00", "0.00", "1.00"),
		txn("100", "2", "C1", "1.00", "0.00", "1.00"),
		txn("200", "", "C2", "1.00", "0.00", "1.00"),
		txn("150", "10", "C4", "1.00", "0.00", "1.00"),
	}

	res := Reconcile(sheet, txns)
	rows := res.Sheet.Rows

	// totals + 5 spacers + header precede the appendix
	appendix := rows[1+5+1:]
	if len(appendix) != 4 {
		t.Fatalf("appendix rows: got %d, want 4", len(appendix))
	}

	wantMerchants := []string{"2", "10", "10", ""}
	wantAuths := []string{"100", "150", "300", "200"}
	for i := range appendix {
		if appendix[i][models.ColMerchantNumber] != wantMerchants[i] {
			t.Errorf("appendix[%d] merchant: got %q, want %q", i, appendix[i][models.ColMerchantNumber], wantMerchants[i])
		}
		if appendix[i][models.ColAuth] != wantAuths[i] {
			t.Errorf("appendix[%d] auth: got %q, want %q", i, appendix[i][models.ColAuth], wantAuths[i])
		}
	}
}

func TestReconcile_AuthCollisionReported(t *testing.T) {
	sheet := scheduleSheet("074680")
	txns := []models.Transaction{
		txn("074680", "70810034", "532016XXXXXX3032", "49900.00", "898.20", "49001.80"),
		txn("074680", "70810042", "450876XXXXXX1881", "1000.00", "18.00", "982.00"),
	}

	res := Reconcile(sheet, txns)

	if len(res.Issues) != 1 {
		t.Fatalf("issues: got %d, want 1 collision diagnostic", len(res.Issues))
	}
	// First occurrence wins the index.
	if got := res.Sheet.Rows[0][models.ColMerchantNumber]; got != "70810034" {
		t.Errorf("matched merchant: got %q, want first occurrence 70810034", got)
	}
}
