package parser

import (
	"regexp"
	"strings"

	"github.com/sithumonline/payment-reconciler/internal/models"
)

// The fixed-width settlement log repeats a merchant banner before each block
// of transaction lines:
//
//	MERCHANT NUMBER : 70810034
//	------------------------------------------------------------------
//	532016XXXXXX3032  EDC  144  49,900.00  49,900.00  898.20  49,001.80  02/02/2026  074680  37012252
//
// Columns are separated by runs of two or more spaces. The merchant number
// stays in effect for every line until the next banner.
var (
	merchantBannerPattern = regexp.MustCompile(`MERCHANT NUMBER\s*:\s*(\d+)`)
	fieldSplitPattern     = regexp.MustCompile(`\s{2,}`)
)

// Positional field mapping of a data line after the ≥2-space split.
const (
	fwFieldCard       = 0
	fwFieldTrxAmount  = 3
	fwFieldCommission = 5
	fwFieldNetAmount  = 6
	fwFieldAuthID     = 8
	fwMinFields       = 9
)

// fixedWidthState is the fold state threaded through the line scan: the
// merchant number currently in effect.
type fixedWidthState struct {
	merchantNumber string
}

// ParseFixedWidthLog extracts transactions from a fixed-width settlement log
// export. It returns the parsed transactions and the last merchant number in
// effect. Malformed data lines are ignored; table rules and column headings
// never gate extraction, only the data-line shape does.
func ParseFixedWidthLog(text string) ([]models.Transaction, string) {
	var txns []models.Transaction
	state := fixedWidthState{}

	for _, line := range strings.Split(NormalizeText(text), "\n") {
		var txn *models.Transaction
		state, txn = fixedWidthStep(state, line)
		if txn != nil {
			txns = append(txns, *txn)
		}
	}

	return txns, state.merchantNumber
}

// fixedWidthStep folds one line into the scan: it yields the next state and,
// for data lines, the extracted transaction.
func fixedWidthStep(state fixedWidthState, line string) (fixedWidthState, *models.Transaction) {
	if m := merchantBannerPattern.FindStringSubmatch(line); m != nil {
		state.merchantNumber = m[1]
		return state, nil
	}

	trimmed := strings.TrimSpace(line)
	if !maskedCardPattern.MatchString(trimmed) {
		return state, nil
	}

	fields := fieldSplitPattern.Split(trimmed, -1)
	if len(fields) < fwMinFields {
		// Truncated or wrapped row; skip it rather than misalign columns.
		return state, nil
	}

	trxAmount, err := parseAmount(fields[fwFieldTrxAmount])
	if err != nil {
		return state, nil
	}
	commission, err := parseAmount(fields[fwFieldCommission])
	if err != nil {
		return state, nil
	}
	netAmount, err := parseAmount(fields[fwFieldNetAmount])
	if err != nil {
		return state, nil
	}

	return state, &models.Transaction{
		MerchantNumber:    state.merchantNumber,
		CardNumber:        fields[fwFieldCard],
		TransactionAmount: trxAmount,
		Commission:        commission,
		NetAmount:         netAmount,
		AuthorizationID:   fields[fwFieldAuthID],
	}
}
