package parser

import (
	"testing"
)

func TestParseStatement(t *testing.T) {
	text := `NATIONS TRUST BANK
Merchant Settlement Statement
Account Number: 70810034

Txn Date     Settle Date  Card Number        Auth    Amount     Commission
2 Feb 2026   3 Feb 2026   532016******3032   074680  49,900.00  898.20
3 Feb 2026   4 Feb 2026   450876-XXXX-1881   081233  12,000.00  216.00`

	txns := ParseStatement(text, "99999999")

	if len(txns) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txns))
	}

	first := txns[0]
	if first.MerchantNumber != "70810034" {
		t.Errorf("MerchantNumber: got %q, want %q (Account Number label should win over fallback)", first.MerchantNumber, "70810034")
	}
	if first.CardNumber != "532016******3032" {
		t.Errorf("CardNumber: got %q, want %q", first.CardNumber, "532016******3032")
	}
	if first.AuthorizationID != "074680" {
		t.Errorf("AuthorizationID: got %q, want %q", first.AuthorizationID, "074680")
	}
	if got := first.TransactionAmount.StringFixed(2); got != "49900.00" {
		t.Errorf("TransactionAmount: got %s, want 49900.00", got)
	}
	if got := first.Commission.StringFixed(2); got != "898.20" {
		t.Errorf("Commission: got %s, want 898.20", got)
	}
	if got := first.NetAmount.StringFixed(2); got != "49001.80" {
		t.Errorf("NetAmount: got %s, want 49001.80 (amount minus commission)", got)
	}
}

func TestParseStatement_FallbackMerchant(t *testing.T) {
	text := `2 Feb 2026  3 Feb 2026  532016******3032  074680  1,000.00  18.00`

	txns := ParseStatement(text, "70810034")
	if len(txns) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(txns))
	}
	if txns[0].MerchantNumber != "70810034" {
		t.Errorf("MerchantNumber: got %q, want fallback %q", txns[0].MerchantNumber, "70810034")
	}
}

func TestParseStatement_RowsSpanParagraphs(t *testing.T) {
	// PDF extraction may fold several rows onto one line; matching is
	// global, not line-anchored.
	text := `2 Feb 2026 3 Feb 2026 532016******3032 074680 1,000.00 18.00 3 Feb 2026 4 Feb 2026 450876****1881 081233 2,000.00 36.00`

	txns := ParseStatement(text, "70810034")
	if len(txns) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txns))
	}
	if txns[1].AuthorizationID != "081233" {
		t.Errorf("txn[1].AuthorizationID: got %q, want %q", txns[1].AuthorizationID, "081233")
	}
}

func TestParseStatement_NoRows(t *testing.T) {
	txns := ParseStatement("no settlement rows in this text", "70810034")
	if len(txns) != 0 {
		t.Errorf("transactions: got %d, want 0", len(txns))
	}
}
