// Package api exposes the reconciliation pipeline over HTTP for the upload
// UI: one multipart endpoint in, one JSON payload out.
package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/sithumonline/payment-reconciler/internal/config"
	"github.com/sithumonline/payment-reconciler/internal/models"
	"github.com/sithumonline/payment-reconciler/internal/pipeline"
	"github.com/sithumonline/payment-reconciler/internal/spreadsheet"
)

const version = "2.0.0"

// ReconcileResponse is the JSON response from POST /api/reconcile.
type ReconcileResponse struct {
	Success          bool                `json:"success"`
	Error            string              `json:"error,omitempty"`
	RunID            string              `json:"runId,omitempty"`
	Summary          *models.Summary     `json:"summary,omitempty"`
	Issues           []models.ParseIssue `json:"issues"`
	TransactionCount int                 `json:"transactionCount"`
	// Workbook is the annotated .xlsx, base64-encoded for the browser to
	// turn into a download.
	Workbook string `json:"workbook,omitempty"`
	Version  string `json:"version,omitempty"`
}

// New builds the fiber app with all routes registered.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Server.MaxUploadMB << 20,
	})

	app.Get("/api/health", HandleHealth)
	app.Post("/api/reconcile", HandleReconcile)

	if cfg.Server.StaticDir != "" {
		app.Static("/", cfg.Server.StaticDir)
	}

	return app
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

// HandleReconcile accepts one payment-schedule workbook under the form
// field "schedule" and any number of log files under "logs", runs the
// pipeline, and returns the summary plus the annotated workbook.
func HandleReconcile(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
	}

	schedules := form.File["schedule"]
	if len(schedules) == 0 {
		return writeError(c, fiber.StatusBadRequest, "no payment schedule uploaded; use form field 'schedule'")
	}

	scheduleBytes, err := readUpload(schedules[0])
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("failed to read schedule: %v", err))
	}
	sheet, err := spreadsheet.Decode(bytes.NewReader(scheduleBytes))
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("failed to decode schedule: %v", err))
	}

	logFiles := form.File["logs"]
	if len(logFiles) == 0 {
		return writeError(c, fiber.StatusBadRequest, "no log files uploaded; use form field 'logs'")
	}

	files := make([]models.InputFile, 0, len(logFiles))
	for _, fh := range logFiles {
		content, err := readUpload(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", fh.Filename, err))
		}
		files = append(files, models.InputFile{Name: fh.Filename, Content: content})
	}

	result, err := pipeline.Process(sheet, files)
	if errors.Is(err, pipeline.ErrNoTransactions) {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	workbook, err := spreadsheet.Encode(result.Sheet)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("failed to encode workbook: %v", err))
	}

	issues := result.Issues
	if issues == nil {
		issues = []models.ParseIssue{}
	}

	return c.JSON(ReconcileResponse{
		Success:          true,
		RunID:            result.RunID,
		Summary:          &result.Summary,
		Issues:           issues,
		TransactionCount: result.TransactionCount,
		Workbook:         base64.StdEncoding.EncodeToString(workbook),
		Version:          version,
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ReconcileResponse{
		Success: false,
		Error:   msg,
		Issues:  []models.ParseIssue{},
	})
}
