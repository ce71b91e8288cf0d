package parser

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mwrona-dev/wyciag/internal/models"
)

// Walker drives classification across the pages of one document. It holds no
// per-document state, so a single Walker can be reused across files.
type Walker struct {
	registry *Registry
	log      *slog.Logger
}

// NewWalker returns a Walker using the default pattern registry.
func NewWalker(log *slog.Logger) *Walker {
	if log == nil {
		log = slog.Default()
	}
	return &Walker{registry: NewRegistry(), log: log}
}

// Walk classifies every line of every page and returns the emitted records in
// page-then-line order, plus the number of non-empty lines that matched no
// pattern. Lines that classified but failed validation (impossible date,
// unparsable amount) are logged, counted as unmatched, and skipped; one bad
// line never aborts the rest of the document.
func (w *Walker) Walk(sourceFile string, pages []string) ([]models.TransactionRecord, int) {
	var records []models.TransactionRecord
	unmatched := 0

	for pageIdx, page := range pages {
		pageNum := pageIdx + 1
		lines := strings.Split(page, "\n")
		consumed := make(map[int]bool)

		for i, rawLine := range lines {
			if consumed[i] {
				continue
			}
			line := strings.TrimSpace(rawLine)
			if line == "" {
				continue
			}

			m, ok := w.registry.Classify(line)
			if !ok {
				unmatched++
				continue
			}

			rec, err := w.assemble(m, sourceFile, pageNum, line)
			if err != nil {
				w.log.Warn("skipping transaction line",
					"file", sourceFile,
					"page", pageNum,
					"line", line,
					"error", err)
				unmatched++
				continue
			}

			for offset := range applyDetails(&rec, lines[i+1:]) {
				consumed[i+1+offset] = true
			}

			records = append(records, rec)
		}
	}

	return records, unmatched
}

// assemble normalizes a raw pattern match into a TransactionRecord.
func (w *Walker) assemble(m Match, sourceFile string, page int, raw string) (models.TransactionRecord, error) {
	rec := models.TransactionRecord{
		Date:          m.Date,
		TransactionID: m.TransactionID,
		Type:          m.Category,
		Description:   m.Description,
		SourceFile:    sourceFile,
		Page:          page,
		RawLine:       raw,
		PatternUsed:   m.PatternUsed,
	}

	balance, err := parseAmount(m.Balance)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	rec.Balance = balance

	if m.Category == models.CategoryOpeningBalance {
		// Carry-forward, not a flow.
		rec.Amount = decimal.Zero
		return rec, nil
	}

	if err := validateDate(m.Date); err != nil {
		return models.TransactionRecord{}, err
	}

	amount, err := parseAmount(m.Amount)
	if err != nil {
		return models.TransactionRecord{}, err
	}

	signed, conflict := applySign(m.Category, m.Description, amount)
	if conflict {
		// The category's sign convention wins over whatever the text showed.
		w.log.Warn("amount sign conflicts with category convention",
			"file", sourceFile,
			"page", page,
			"category", string(m.Category),
			"line", raw)
	}
	rec.Amount = signed

	return rec, nil
}
