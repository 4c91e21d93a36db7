package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sithumonline/payment-reconciler/internal/models"
	"github.com/sithumonline/payment-reconciler/internal/pipeline"
	"github.com/sithumonline/payment-reconciler/internal/spreadsheet"
)

var outputPath string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <schedule.xlsx> <log-file> [log-file ...]",
	Short: "Reconcile a schedule workbook against log files",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output workbook path (defaults to <schedule>-reconciled.xlsx)")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	schedulePath := args[0]

	scheduleBytes, err := os.ReadFile(schedulePath)
	if err != nil {
		return fmt.Errorf("failed to read schedule: %w", err)
	}
	sheet, err := spreadsheet.Decode(bytes.NewReader(scheduleBytes))
	if err != nil {
		return fmt.Errorf("failed to decode schedule: %w", err)
	}

	var files []models.InputFile
	for _, path := range args[1:] {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, models.InputFile{Name: filepath.Base(path), Content: content})
	}

	fmt.Printf("Processing %d log file(s) against %s\n", len(files), filepath.Base(schedulePath))

	result, err := pipeline.Process(sheet, files)
	if err != nil {
		return err
	}

	for _, issue := range result.Issues {
		fmt.Printf("  skipped: %s\n", issue)
	}

	workbook, err := spreadsheet.Encode(result.Sheet)
	if err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(schedulePath, filepath.Ext(schedulePath)) + "-reconciled.xlsx"
	}
	if err := os.WriteFile(outPath, workbook, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	s := result.Summary
	fmt.Printf("  Matched rows:      %d\n", s.MatchedCount)
	fmt.Printf("  Extracted records: %d\n", result.TransactionCount)
	fmt.Printf("  Existing total:    %s\n", s.ExistingTotal.StringFixed(2))
	fmt.Printf("  Transaction total: %s\n", s.TotalTrx.StringFixed(2))
	fmt.Printf("  Commission total:  %s\n", s.TotalCommission.StringFixed(2))
	fmt.Printf("  Net total:         %s\n", s.TotalNet.StringFixed(2))
	fmt.Printf("  Output: %s\n", outPath)
	return nil
}
