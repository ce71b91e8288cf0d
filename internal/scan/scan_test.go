package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwrona-dev/wyciag/internal/models"
)

const samplePage = `Saldo z przeniesienia 1 968,11
27.11.2024 4832MX90890051722 ZAKUP PRZY UŻYCIU KARTY -36,12 1 931,99
nagłówek strony`

// writeStatements creates dummy PDF files; content is irrelevant because
// tests inject their own Extract.
func writeStatements(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}
	return dir
}

func TestScanner_ScanDir(t *testing.T) {
	dir := writeStatements(t, "b.pdf", "a.pdf", "notes.txt")

	s := New(nil)
	s.Extract = func(path string) ([]string, error) {
		return []string{samplePage}, nil
	}

	res, err := s.ScanDir(dir)
	require.NoError(t, err)

	// notes.txt is ignored; both PDFs parse.
	assert.Equal(t, 2, res.FilesProcessed)
	require.Len(t, res.Records, 4)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.UnmatchedLines)

	// Sorted filename order, not directory order.
	assert.Equal(t, "a.pdf", res.Records[0].SourceFile)
	assert.Equal(t, "b.pdf", res.Records[2].SourceFile)
}

func TestScanner_UnreadableFileIsSkipped(t *testing.T) {
	dir := writeStatements(t, "good.pdf", "broken.pdf")

	s := New(nil)
	s.Extract = func(path string) ([]string, error) {
		if filepath.Base(path) == "broken.pdf" {
			return nil, fmt.Errorf("PDF library crashed: bad xref")
		}
		return []string{samplePage}, nil
	}

	res, err := s.ScanDir(dir)
	require.NoError(t, err, "one broken file must not abort the run")

	assert.Equal(t, 1, res.FilesProcessed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "broken.pdf", res.Errors[0].File)
	assert.Contains(t, res.Errors[0].Err, "bad xref")

	for _, rec := range res.Records {
		assert.Equal(t, "good.pdf", rec.SourceFile)
	}
}

func TestScanner_MissingDirIsFatal(t *testing.T) {
	s := New(nil)

	_, err := s.ScanDir("/nonexistent/statements")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input directory")
}

func TestScanner_EmptyDir(t *testing.T) {
	s := New(nil)

	res, err := s.ScanDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.FilesProcessed)
}

// With a worker pool, merged record order still follows file enumeration
// order even when later files finish first.
func TestScanner_ParallelPreservesOrder(t *testing.T) {
	dir := writeStatements(t, "a.pdf", "b.pdf", "c.pdf")

	delays := map[string]time.Duration{
		"a.pdf": 30 * time.Millisecond,
		"b.pdf": 10 * time.Millisecond,
		"c.pdf": 0,
	}

	s := New(nil)
	s.Workers = 3
	s.Extract = func(path string) ([]string, error) {
		name := filepath.Base(path)
		time.Sleep(delays[name])
		return []string{"27.11.2024 4832MX90890051722 ZAKUP PRZY UŻYCIU KARTY -36,12 1 931,99"}, nil
	}

	res, err := s.ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	assert.Equal(t, "a.pdf", res.Records[0].SourceFile)
	assert.Equal(t, "b.pdf", res.Records[1].SourceFile)
	assert.Equal(t, "c.pdf", res.Records[2].SourceFile)
}

func TestSummarize(t *testing.T) {
	amount := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	res := &Result{
		Records: []models.TransactionRecord{
			{Type: models.CategoryOpeningBalance, Amount: decimal.Zero},
			{Type: models.CategoryCardPurchase, Date: "27.11.2024", Amount: amount("-36.12")},
			{Type: models.CategoryCardPurchase, Date: "28.11.2024", Amount: amount("-12.00")},
			{Type: models.CategoryIncomingTransfer, Date: "01.12.2024", Amount: amount("2500.00")},
		},
		UnmatchedLines: 7,
		FilesProcessed: 2,
	}

	sum := Summarize(res)

	assert.Equal(t, 4, sum.TotalTransactions)
	assert.True(t, sum.TotalAmount.Equal(amount("2451.88")), "got %s", sum.TotalAmount)
	assert.Equal(t, 2, sum.CountByType[models.CategoryCardPurchase])
	assert.Equal(t, 1, sum.CountByType[models.CategoryIncomingTransfer])
	assert.Equal(t, 7, sum.UnmatchedLines)
	assert.Equal(t, 2, sum.FilesProcessed)
	assert.Equal(t, "27.11.2024", sum.DateStart)
	assert.Equal(t, "01.12.2024", sum.DateEnd)
}

// Summarize must not mutate the record collection.
func TestSummarize_ReadOnly(t *testing.T) {
	res := &Result{
		Records: []models.TransactionRecord{
			{Type: models.CategoryCardPurchase, Date: "27.11.2024", Amount: decimal.RequireFromString("-1.00")},
		},
	}
	before := res.Records[0]

	_ = Summarize(res)

	assert.Equal(t, before, res.Records[0])
}
