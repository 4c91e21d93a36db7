package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Failure taxonomy for statement decryption. The pipeline converts these two
// into per-file skip issues; anything else aborts the run so parser
// regressions stay visible.
var (
	ErrPasswordFailed  = errors.New("document password rejected")
	ErrInvalidDocument = errors.New("document is not a readable PDF")
)

// ExtractEncryptedText decrypts a password-protected PDF and returns its
// plain text, pages joined by newlines.
func ExtractEncryptedText(data []byte, password string) (text string, err error) {
	// The pdf library panics on some malformed cross-reference tables;
	// treat a crash as a structurally invalid document.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrInvalidDocument, r)
		}
	}()

	attempts := 0
	reader, openErr := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), func() string {
		// Offer the derived password once; returning "" stops the retry
		// loop and surfaces ErrInvalidPassword.
		if attempts > 0 {
			return ""
		}
		attempts++
		return password
	})
	if openErr != nil {
		if errors.Is(openErr, pdf.ErrInvalidPassword) {
			return "", ErrPasswordFailed
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, openErr)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("%w: no pages", ErrInvalidDocument)
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if t := pageTextByRow(page); t != "" {
			pages = append(pages, t)
			continue
		}
		if t := pageTextPlain(page); t != "" {
			pages = append(pages, t)
		}
	}

	return strings.Join(pages, "\n"), nil
}

// pageTextByRow reconstructs lines from row-grouped text. Best layout
// preservation for tabular statements.
func pageTextByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// pageTextPlain is the fallback extraction path for pages whose content
// stream defeats row grouping.
func pageTextPlain(page pdf.Page) string {
	fontNames := page.Fonts()
	fonts := make(map[string]*pdf.Font, len(fontNames))
	for _, name := range fontNames {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// IsPDF reports whether the bytes carry the PDF magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
