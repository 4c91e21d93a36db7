package parser

import (
	"strings"

	"github.com/sithumonline/payment-reconciler/internal/models"
)

// Content markers checked before any filename heuristic. Classification is
// content-first so a renamed export still lands on the right parser.
var (
	statementMarkers = []string{
		"Nations Trust Bank",
		"NATIONS TRUST BANK",
		"Merchant Settlement Statement",
		"This e-Statement is password protected",
	}
	fixedWidthMarkers = []string{
		"Sampath Bank",
		"SAMPATH BANK",
		"MERCHANT NUMBER :",
	}
)

// Classify decides which parser chain handles a log file. Content markers
// win; the filename token is only a fallback. Files that match neither are
// skipped by the caller.
func Classify(text, filename string) models.FileKind {
	if containsAnyFold(text, statementMarkers) {
		return models.KindStatement
	}
	if containsAnyFold(text, fixedWidthMarkers) {
		return models.KindFixedWidthLog
	}

	name := strings.ToLower(filename)
	if strings.Contains(name, "ntb") {
		return models.KindStatement
	}
	if strings.Contains(name, "sampath") {
		return models.KindFixedWidthLog
	}

	return models.KindUnknown
}
