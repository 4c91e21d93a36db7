package pipeline

import (
	"strings"

	"github.com/sithumonline/payment-reconciler/internal/extractor"
	"github.com/sithumonline/payment-reconciler/internal/models"
)

// resolveAttachment locates the statement PDF for a parsed message. In
// order: an already-uploaded PDF with the exact attachment name, an
// uploaded PDF named for the merchant, then an attachment embedded in the
// container itself. Whatever it resolves is marked consumed so the
// standalone-PDF pass does not process it again.
func (r *run) resolveAttachment(container models.InputFile, meta models.StatementMeta) *models.InputFile {
	if meta.AttachmentName != "" {
		want := strings.ToLower(meta.AttachmentName)
		for _, f := range r.files {
			if strings.ToLower(f.Name) == want && isPDFFile(f) {
				r.consume(f.Name)
				return &f
			}
		}
	}

	if meta.MerchantID != "" {
		id := strings.ToLower(meta.MerchantID)
		for _, f := range r.files {
			name := strings.ToLower(f.Name)
			if strings.Contains(name, id) && strings.HasSuffix(name, "statement.pdf") && isPDFFile(f) {
				r.consume(f.Name)
				return &f
			}
		}
	}

	attachments, err := extractor.ExtractAttachments(container.Content)
	if err != nil || len(attachments) == 0 {
		return nil
	}
	if att := pickAttachment(attachments, meta.AttachmentName); att != nil {
		return &models.InputFile{Name: att.Name, Content: att.Data}
	}
	return nil
}

// pickAttachment prefers the attachment the message header named, then the
// first PDF-named attachment in the container.
func pickAttachment(attachments []extractor.Attachment, wantName string) *extractor.Attachment {
	if wantName != "" {
		want := strings.ToLower(wantName)
		for i := range attachments {
			if strings.ToLower(attachments[i].Name) == want {
				return &attachments[i]
			}
		}
	}
	for i := range attachments {
		if strings.HasSuffix(strings.ToLower(attachments[i].Name), ".pdf") {
			return &attachments[i]
		}
	}
	return nil
}

func isPDFFile(f models.InputFile) bool {
	return strings.HasSuffix(strings.ToLower(f.Name), ".pdf") || extractor.IsPDF(f.Content)
}
