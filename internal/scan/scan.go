// Package scan drives transaction extraction across a directory of statement
// PDFs and aggregates the results.
package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwrona-dev/wyciag/internal/extractor"
	"github.com/mwrona-dev/wyciag/internal/models"
	"github.com/mwrona-dev/wyciag/internal/parser"
)

// Result is everything one run over a directory produced. Records are ordered
// by (file, page, line); Errors notes the documents that had to be skipped.
type Result struct {
	Records        []models.TransactionRecord
	Errors         []models.FileError
	UnmatchedLines int
	FilesProcessed int
}

// Scanner walks a directory of statement PDFs. The zero value is not usable;
// construct with New.
type Scanner struct {
	// Extract produces per-page text for one document. Defaults to
	// extractor.ExtractText; tests substitute their own.
	Extract func(path string) ([]string, error)

	// Workers bounds per-file parallelism. Values below 2 mean strictly
	// sequential processing. Output order is by file position either way.
	Workers int

	// Progress, when set, is called once per file as it finishes.
	Progress func(file string)

	walker *parser.Walker
	log    *slog.Logger
}

// New returns a Scanner with the default extractor and pattern registry.
func New(log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		Extract: extractor.ExtractText,
		Workers: 1,
		walker:  parser.NewWalker(log),
		log:     log,
	}
}

// ScanDir processes every PDF in dir, in sorted filename order. A missing or
// unreadable directory is fatal; a single unreadable document is noted and
// skipped while the run continues.
func (s *Scanner) ScanDir(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read input directory %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		s.log.Warn("no PDF files found", "dir", dir)
		return &Result{}, nil
	}
	s.log.Info("processing statement files", "dir", dir, "count", len(files))

	type fileResult struct {
		records   []models.TransactionRecord
		unmatched int
		err       error
	}

	// Each slot is written by exactly one worker, so the merged order is the
	// file enumeration order regardless of completion order.
	results := make([]fileResult, len(files))

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, name := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()

			records, unmatched, err := s.processFile(filepath.Join(dir, name), name)
			results[i] = fileResult{records: records, unmatched: unmatched, err: err}
			if s.Progress != nil {
				s.Progress(name)
			}
		}(i, name)
	}
	wg.Wait()

	res := &Result{}
	for i, fr := range results {
		if fr.err != nil {
			s.log.Error("skipping file", "file", files[i], "error", fr.err)
			res.Errors = append(res.Errors, models.FileError{File: files[i], Err: fr.err.Error()})
			continue
		}
		res.Records = append(res.Records, fr.records...)
		res.UnmatchedLines += fr.unmatched
		res.FilesProcessed++
	}

	return res, nil
}

func (s *Scanner) processFile(path, name string) ([]models.TransactionRecord, int, error) {
	pages, err := s.Extract(path)
	if err != nil {
		return nil, 0, err
	}
	s.log.Info("extracted statement text", "file", name, "pages", len(pages))

	records, unmatched := s.walker.Walk(name, pages)
	s.log.Info("parsed statement", "file", name, "transactions", len(records), "unmatched_lines", unmatched)
	return records, unmatched, nil
}

// Summarize computes read-only aggregate statistics over a result. It never
// mutates the record collection.
func Summarize(res *Result) models.Summary {
	sum := models.Summary{
		TotalTransactions: len(res.Records),
		TotalAmount:       decimal.Zero,
		CountByType:       make(map[models.Category]int),
		UnmatchedLines:    res.UnmatchedLines,
		FilesProcessed:    res.FilesProcessed,
	}

	var start, end time.Time
	for _, rec := range res.Records {
		sum.TotalAmount = sum.TotalAmount.Add(rec.Amount)
		sum.CountByType[rec.Type]++

		if rec.Date == "" {
			continue
		}
		d, err := time.Parse("02.01.2006", rec.Date)
		if err != nil {
			continue
		}
		if start.IsZero() || d.Before(start) {
			start = d
			sum.DateStart = rec.Date
		}
		if end.IsZero() || d.After(end) {
			end = d
			sum.DateEnd = rec.Date
		}
	}

	return sum
}
