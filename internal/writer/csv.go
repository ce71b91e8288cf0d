// Package writer serializes collected transaction records to the delimited
// export format: semicolon-separated fields, comma decimal separator.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/mwrona-dev/wyciag/internal/models"
)

// exportRow mirrors the fixed output column order. All values are
// preformatted strings so the locale comma in amounts passes through gocsv
// untouched; absent fields render as empty strings.
type exportRow struct {
	Date            string `csv:"date"`
	TransactionID   string `csv:"transaction_id"`
	Type            string `csv:"type"`
	Description     string `csv:"description"`
	Amount          string `csv:"amount"`
	Balance         string `csv:"balance"`
	SourceFile      string `csv:"source_file"`
	Page            string `csv:"page"`
	CardNumber      string `csv:"card_number"`
	Location        string `csv:"location"`
	Phone           string `csv:"phone"`
	Time            string `csv:"time"`
	OriginalAmount  string `csv:"original_amount"`
	CurrencyPair    string `csv:"currency_pair"`
	ExchangeRate    string `csv:"exchange_rate"`
	PLNAmount       string `csv:"pln_amount"`
	ForeignAmount   string `csv:"foreign_amount"`
	ForeignCurrency string `csv:"foreign_currency"`
	AccountNumber   string `csv:"account_number"`
	Recipient       string `csv:"recipient"`
	Reference       string `csv:"reference"`
	RawLine         string `csv:"raw_line"`
	PatternUsed     string `csv:"pattern_used"`
}

// CSVExporter writes transaction records as semicolon-delimited files.
type CSVExporter struct {
	OutputDir string
}

// Export writes all records to a timestamp-named file in OutputDir and
// returns the file path. The epoch-seconds name keeps successive runs from
// overwriting each other.
func (e *CSVExporter) Export(records []models.TransactionRecord) (string, error) {
	dir := e.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create output directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("transactions_%d.csv", time.Now().Unix()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := e.Write(f, records); err != nil {
		return "", err
	}
	return path, nil
}

// Write serializes records to out, header row included.
func (e *CSVExporter) Write(out io.Writer, records []models.TransactionRecord) error {
	rows := make([]exportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toRow(rec))
	}

	w := csv.NewWriter(out)
	w.Comma = ';'
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return fmt.Errorf("CSV marshal failed: %w", err)
	}
	return nil
}

// Read parses a previously exported file back into rows. Used for round-trip
// verification; the string values come back exactly as written.
func (e *CSVExporter) Read(in io.Reader) ([]models.TransactionRecord, error) {
	r := csv.NewReader(in)
	r.Comma = ';'

	var rows []exportRow
	if err := gocsv.UnmarshalCSV(r, &rows); err != nil {
		return nil, fmt.Errorf("CSV unmarshal failed: %w", err)
	}

	records := make([]models.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRow(rec models.TransactionRecord) exportRow {
	return exportRow{
		Date:            rec.Date,
		TransactionID:   rec.TransactionID,
		Type:            string(rec.Type),
		Description:     rec.Description,
		Amount:          formatDecimal(rec.Amount),
		Balance:         formatDecimal(rec.Balance),
		SourceFile:      rec.SourceFile,
		Page:            strconv.Itoa(rec.Page),
		CardNumber:      rec.CardNumber,
		Location:        rec.Location,
		Phone:           rec.Phone,
		Time:            rec.Time,
		OriginalAmount:  formatOptional(rec.OriginalAmount),
		CurrencyPair:    rec.CurrencyPair,
		ExchangeRate:    formatRate(rec.ExchangeRate),
		PLNAmount:       formatOptional(rec.PLNAmount),
		ForeignAmount:   formatOptional(rec.ForeignAmount),
		ForeignCurrency: rec.ForeignCurrency,
		AccountNumber:   rec.AccountNumber,
		Recipient:       rec.Recipient,
		Reference:       rec.Reference,
		RawLine:         rec.RawLine,
		PatternUsed:     rec.PatternUsed,
	}
}

func fromRow(row exportRow) (models.TransactionRecord, error) {
	amount, err := parseExportDecimal(row.Amount)
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("bad amount %q: %w", row.Amount, err)
	}
	balance, err := parseExportDecimal(row.Balance)
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("bad balance %q: %w", row.Balance, err)
	}
	page, err := strconv.Atoi(row.Page)
	if err != nil {
		return models.TransactionRecord{}, fmt.Errorf("bad page %q: %w", row.Page, err)
	}

	rec := models.TransactionRecord{
		Date:            row.Date,
		TransactionID:   row.TransactionID,
		Type:            models.Category(row.Type),
		Description:     row.Description,
		Amount:          amount,
		Balance:         balance,
		SourceFile:      row.SourceFile,
		Page:            page,
		CardNumber:      row.CardNumber,
		Location:        row.Location,
		Phone:           row.Phone,
		Time:            row.Time,
		CurrencyPair:    row.CurrencyPair,
		ForeignCurrency: row.ForeignCurrency,
		AccountNumber:   row.AccountNumber,
		Recipient:       row.Recipient,
		Reference:       row.Reference,
		RawLine:         row.RawLine,
		PatternUsed:     row.PatternUsed,
	}

	rec.OriginalAmount, err = parseOptional(row.OriginalAmount)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	rec.ExchangeRate, err = parseOptional(row.ExchangeRate)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	rec.PLNAmount, err = parseOptional(row.PLNAmount)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	rec.ForeignAmount, err = parseOptional(row.ForeignAmount)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	return rec, nil
}

// formatDecimal renders a required amount with two fraction digits and the
// locale comma, e.g. -36,12.
func formatDecimal(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func formatOptional(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return formatDecimal(*d)
}

// formatRate keeps the rate's full precision (rates carry four or more
// fraction digits).
func formatRate(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return strings.Replace(d.String(), ".", ",", 1)
}

func parseExportDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

func parseOptional(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseExportDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("bad decimal %q: %w", s, err)
	}
	return &d, nil
}
