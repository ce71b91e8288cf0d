package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwrona-dev/wyciag/internal/models"
	"github.com/mwrona-dev/wyciag/internal/scan"
	"github.com/mwrona-dev/wyciag/internal/writer"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [dir]",
		Short: "Parse all statement PDFs in a directory and export CSV",
		Long: `Parse every PDF bank statement in the given directory (default:
assets/filesToProcess) and write all extracted transactions to a single
timestamped CSV file.

Examples:
  # Parse the default input directory
  wyciag parse

  # Parse a specific directory, writing the CSV next to it
  wyciag parse ~/statements --output-dir ~/statements/out

  # Process files in parallel
  wyciag parse ~/statements --workers 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringP("output-dir", "o", "assets", "directory for the exported CSV")
	cmd.Flags().IntP("workers", "w", 1, "number of files processed concurrently")
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	dir := "assets/filesToProcess"
	if len(args) > 0 {
		dir = args[0]
	}

	scanner := scan.New(slog.Default())
	scanner.Workers = viper.GetInt("workers")

	var bar *progressbar.ProgressBar
	scanner.Progress = func(file string) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	// Spinner mode: the scanner owns file enumeration, so the total is
	// unknown here.
	bar = progressbar.Default(-1, "parsing statements")

	res, err := scanner.ScanDir(dir)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	if len(res.Records) == 0 {
		fmt.Println("No transactions found. Check the PDF files and input directory.")
		return nil
	}

	exporter := &writer.CSVExporter{OutputDir: viper.GetString("output_dir")}
	outPath, err := exporter.Export(res.Records)
	if err != nil {
		return err
	}

	summary := scan.Summarize(res)
	printSummary(summary, res.Errors, outPath)
	return nil
}

func printSummary(s models.Summary, errs []models.FileError, outPath string) {
	line := "=================================================="
	fmt.Println()
	fmt.Println(line)
	fmt.Println("TRANSACTION PARSING SUMMARY")
	fmt.Println(line)
	fmt.Printf("Total transactions: %d\n", s.TotalTransactions)
	fmt.Printf("Total amount: %s PLN\n", formatPLN(s.TotalAmount))
	if s.DateStart != "" {
		fmt.Printf("Date range: %s to %s\n", s.DateStart, s.DateEnd)
	}
	fmt.Printf("Files processed: %d\n", s.FilesProcessed)
	fmt.Printf("Unmatched lines: %d\n", s.UnmatchedLines)

	fmt.Println("\nTransaction types:")
	for _, cat := range []models.Category{
		models.CategoryCardPurchase,
		models.CategoryWebPayment,
		models.CategoryBlikRefund,
		models.CategoryOutgoingTransfer,
		models.CategoryIncomingTransfer,
		models.CategoryCurrencyExchange,
		models.CategoryOpeningBalance,
	} {
		if n := s.CountByType[cat]; n > 0 {
			fmt.Printf("  %s: %d\n", cat, n)
		}
	}

	if len(errs) > 0 {
		fmt.Println("\nSkipped files:")
		for _, e := range errs {
			fmt.Printf("  %s: %s\n", e.File, e.Err)
		}
	}

	fmt.Println(line)
	fmt.Printf("Results saved to: %s\n", outPath)
}

func formatPLN(d decimal.Decimal) string {
	return d.StringFixed(2)
}
