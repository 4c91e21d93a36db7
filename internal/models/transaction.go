package models

import "github.com/shopspring/decimal"

// Transaction is a normalized record extracted from one line or row of a
// settlement log or card statement. Exactly one parser creates each value;
// it is never mutated afterwards.
type Transaction struct {
	MerchantNumber    string          `json:"merchantNumber"`
	CardNumber        string          `json:"cardNumber"` // partially masked, as printed in the source
	TransactionAmount decimal.Decimal `json:"transactionAmount"`
	Commission        decimal.Decimal `json:"commission"`
	NetAmount         decimal.Decimal `json:"netAmount"`
	AuthorizationID   string          `json:"authorizationId"` // join key against the spreadsheet voucher number
}

// Key identifies a transaction for deduplication: two records are duplicates
// only when every field agrees.
func (t Transaction) Key() string {
	return t.AuthorizationID + "|" + t.MerchantNumber + "|" + t.CardNumber + "|" +
		t.TransactionAmount.String() + "|" + t.Commission.String() + "|" + t.NetAmount.String()
}

// FileKind classifies an uploaded log file.
type FileKind string

const (
	KindStatement     FileKind = "statement"  // statement message carrying a password-protected PDF
	KindFixedWidthLog FileKind = "fixedwidth" // fixed-width EDC settlement log export
	KindUnknown       FileKind = "unknown"
)

// InputFile is one uploaded file: a name and its raw bytes. The pipeline
// consumes these in upload order.
type InputFile struct {
	Name    string
	Content []byte
}

// Text returns the file content as a string.
func (f InputFile) Text() string {
	return string(f.Content)
}

// ParseIssue explains why a file or attachment was skipped. Issues are
// accumulated across the run and surfaced verbatim to the caller.
type ParseIssue struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func (i ParseIssue) String() string {
	return i.File + ": " + i.Reason
}

// StatementMeta is what the metadata extractor pulls out of a statement
// message before the PDF itself is located and decrypted.
type StatementMeta struct {
	AttachmentName string // empty when no attachment-name header was found
	MerchantID     string // empty when no merchant identifier was found
}

// Password derives the statement decryption password from the merchant
// identifier.
func (m StatementMeta) Password() string {
	return "ntb" + m.MerchantID
}
