// Package pipeline drives one reconciliation run: it classifies each
// uploaded log file, fans out to the right parser chain, and hands the
// pooled transactions to the reconciliation engine.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sithumonline/payment-reconciler/internal/extractor"
	"github.com/sithumonline/payment-reconciler/internal/models"
	"github.com/sithumonline/payment-reconciler/internal/parser"
	"github.com/sithumonline/payment-reconciler/internal/recon"
)

// ErrNoTransactions terminates a run in which no log file yielded a single
// transaction; no output table is produced.
var ErrNoTransactions = errors.New("no transactions could be extracted from the uploaded log files")

// Result is the output of a completed run.
type Result struct {
	RunID            string              `json:"runId"`
	Sheet            *models.Sheet       `json:"-"`
	Summary          models.Summary      `json:"summary"`
	Issues           []models.ParseIssue `json:"issues"`
	TransactionCount int                 `json:"transactionCount"`
}

// run owns the mutable state of a single invocation: the transaction pool,
// the skip issues, and the set of attachment names already consumed. Each
// call to Process builds a fresh run, so re-running the same inputs is
// idempotent.
type run struct {
	files    []models.InputFile
	txns     []models.Transaction
	issues   []models.ParseIssue
	consumed map[string]bool
}

// Process reconciles a decoded payment schedule against the uploaded log
// files. Files are handled one at a time in upload order. Per-file failures
// become issues and the run continues; an unclassified parser failure aborts
// the whole run.
func Process(sheet *models.Sheet, files []models.InputFile) (*Result, error) {
	r := &run{files: files, consumed: make(map[string]bool)}

	for _, f := range files {
		// Standalone PDFs are deferred: a statement message later in the
		// upload order may claim them as its attachment.
		if isPDFFile(f) {
			continue
		}
		if err := r.processLog(f); err != nil {
			return nil, fmt.Errorf("processing %s: %w", f.Name, err)
		}
	}

	for _, f := range files {
		if !isPDFFile(f) || r.consumed[strings.ToLower(f.Name)] {
			continue
		}
		if err := r.processStandalonePDF(f); err != nil {
			return nil, fmt.Errorf("processing %s: %w", f.Name, err)
		}
	}

	if len(r.txns) == 0 {
		return nil, ErrNoTransactions
	}

	engine := recon.Reconcile(sheet, r.txns)

	return &Result{
		RunID:            uuid.NewString(),
		Sheet:            engine.Sheet,
		Summary:          engine.Summary,
		Issues:           append(r.issues, engine.Issues...),
		TransactionCount: len(r.txns),
	}, nil
}

func (r *run) consume(name string) {
	r.consumed[strings.ToLower(name)] = true
}

func (r *run) skip(file, reason string) {
	r.issues = append(r.issues, models.ParseIssue{File: file, Reason: reason})
}

// processLog classifies a non-PDF upload and dispatches it.
func (r *run) processLog(f models.InputFile) error {
	text := parser.NormalizeText(f.Text())

	switch parser.Classify(text, f.Name) {
	case models.KindFixedWidthLog:
		txns, _ := parser.ParseFixedWidthLog(text)
		if len(txns) == 0 {
			r.skip(f.Name, "no transaction lines found in settlement log")
			return nil
		}
		r.txns = append(r.txns, txns...)
		return nil

	case models.KindStatement:
		return r.processStatement(f, text)

	default:
		r.skip(f.Name, "unrecognized log format")
		return nil
	}
}

// processStatement runs the full statement chain: metadata, attachment
// resolution, decryption, table parse.
func (r *run) processStatement(f models.InputFile, text string) error {
	meta := parser.ExtractStatementMeta(text, f.Name)
	if meta.MerchantID == "" {
		r.skip(f.Name, "could not determine the merchant identifier from the statement message")
		return nil
	}

	pdfFile := r.resolveAttachment(f, meta)
	if pdfFile == nil {
		r.skip(f.Name, "statement attachment could not be located in the uploaded files or the message itself")
		return nil
	}

	return r.parseStatementPDF(f.Name, *pdfFile, meta)
}

// processStandalonePDF handles PDFs no statement message claimed: the
// merchant identifier is derived from the filename alone.
func (r *run) processStandalonePDF(f models.InputFile) error {
	meta := parser.ExtractStatementMeta("", f.Name)
	if meta.MerchantID == "" {
		r.skip(f.Name, "cannot derive the merchant identifier from the PDF filename")
		return nil
	}
	return r.parseStatementPDF(f.Name, f, meta)
}

// parseStatementPDF decrypts and parses one statement PDF. The two known
// decryption failures become skip issues; anything else propagates and
// aborts the run so parser regressions stay visible.
func (r *run) parseStatementPDF(source string, pdfFile models.InputFile, meta models.StatementMeta) error {
	text, err := extractor.ExtractEncryptedText(pdfFile.Content, meta.Password())
	switch {
	case errors.Is(err, extractor.ErrPasswordFailed):
		r.skip(source, fmt.Sprintf("statement %s rejected the derived password %q", pdfFile.Name, meta.Password()))
		return nil
	case errors.Is(err, extractor.ErrInvalidDocument):
		r.skip(source, fmt.Sprintf("statement %s is not a readable PDF: %v", pdfFile.Name, err))
		return nil
	case err != nil:
		return err
	}

	txns := parser.ParseStatement(text, meta.MerchantID)
	if len(txns) == 0 {
		r.skip(source, fmt.Sprintf("no settlement rows found in statement %s", pdfFile.Name))
		return nil
	}
	r.txns = append(r.txns, txns...)
	return nil
}
