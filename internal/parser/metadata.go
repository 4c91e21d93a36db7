package parser

import (
	"regexp"

	"github.com/sithumonline/payment-reconciler/internal/models"
)

var (
	// MIME-style attachment header inside the statement message, e.g.
	//   Content-Disposition: attachment; filename="70810034_20260201Statement.pdf"
	attachmentNamePattern = regexp.MustCompile(`(?i)filename="?([^"\r\n;]+?\.pdf)"?`)

	// Statement attachments are named <account>_<date>Statement.pdf; the
	// first digit run is the merchant identifier.
	statementNamePattern = regexp.MustCompile(`(\d{8,})_\d{8,}Statement\.pdf`)

	accountNumberPattern = regexp.MustCompile(`(?i)Account\s*Number\s*:?\s*(\d{8,})`)
)

// ExtractStatementMeta pulls the attachment filename and the merchant
// identifier out of a statement message. The merchant identifier is searched
// across the attachment name, the message's own filename, and the body text,
// first by the statement-attachment naming convention and then by an
// "Account Number:" label; the first hit wins. Either field may come back
// empty.
func ExtractStatementMeta(text, filename string) models.StatementMeta {
	meta := models.StatementMeta{}

	if m := attachmentNamePattern.FindStringSubmatch(text); m != nil {
		meta.AttachmentName = m[1]
	}

	haystack := meta.AttachmentName + "\n" + filename + "\n" + text
	if m := statementNamePattern.FindStringSubmatch(haystack); m != nil {
		meta.MerchantID = m[1]
	} else if m := accountNumberPattern.FindStringSubmatch(haystack); m != nil {
		meta.MerchantID = m[1]
	}

	return meta
}
