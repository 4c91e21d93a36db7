package parser

import (
	"regexp"

	"github.com/sithumonline/payment-reconciler/internal/models"
)

// A settlement row in the decrypted statement text:
//
//	2 Feb 2026  3 Feb 2026  532016******3032  074680  49,900.00  898.20
//
// (transaction date, settlement date, masked card, authorization id,
// transaction amount, commission). The pattern is matched globally across
// the whole text because PDF extraction may fold several rows into one
// paragraph.
var statementRowPattern = regexp.MustCompile(
	`(\d{1,2}\s+` + monthAlt + `\s+\d{4})\s+` + // transaction date
		`(\d{1,2}\s+` + monthAlt + `\s+\d{4})\s+` + // settlement date
		`([\dXx*\-]+)\s+` + // masked card number
		`(\d{4,})\s+` + // authorization id
		`([\d,]+\.\d{2})\s+` + // transaction amount
		`([\d,]+\.\d{2})`) // commission

// ParseStatement extracts transactions from decrypted statement text. The
// merchant number comes from an "Account Number:" label in the text, falling
// back to the identifier the metadata extractor derived. Rows whose amounts
// fail to parse are skipped.
func ParseStatement(text, fallbackMerchantID string) []models.Transaction {
	text = NormalizeText(text)

	merchant := fallbackMerchantID
	if m := accountNumberPattern.FindStringSubmatch(text); m != nil {
		merchant = m[1]
	}

	var txns []models.Transaction
	for _, m := range statementRowPattern.FindAllStringSubmatch(text, -1) {
		trxAmount, err := parseAmount(m[5])
		if err != nil {
			continue
		}
		commission, err := parseAmount(m[6])
		if err != nil {
			continue
		}
		txns = append(txns, models.Transaction{
			MerchantNumber:    merchant,
			CardNumber:        m[3],
			TransactionAmount: trxAmount,
			Commission:        commission,
			NetAmount:         trxAmount.Sub(commission),
			AuthorizationID:   m[4],
		})
	}
	return txns
}
