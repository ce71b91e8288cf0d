package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mwrona-dev/wyciag/internal/models"
)

// detailWindow is how many lines after a matched transaction are scanned for
// that category's secondary patterns. Statements print details (card, phone,
// counterparty account) on the lines directly below the transaction row.
const detailWindow = 4

// Secondary patterns. Each belongs to exactly one category and is never
// attempted against another category's lines.
var (
	// DD.MM.YYYY Karta:425125******6482 Lokalizacja: MEET& EAT 03 WARSZAWA PL Nr ref: ...
	cardDetailRe = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}\s+Karta:(\d{6}\*{6}\d{4})\s+Lokalizacja:\s*(.+?)\s+Nr ref:`)

	// DD.MM.YYYY Tel:48601123456 Godz.14:32:05 Lokalizacja: www.sklep.pl Nr ref: ...
	webDetailRe = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}\s+Tel:(\d+)\s+Godz\.(\d{2}:\d{2}(?::\d{2})?)\s+Lokalizacja:\s*(.+?)\s+Nr ref:`)

	// Kwota oryg.: 120,00 PLN
	originalAmountRe = regexp.MustCompile(`^Kwota oryg\.:\s+(-?\d{1,3}(?:\s?\d{3})*,\d{2})\s+PLN`)

	// DD.MM.YYYY ID USD/PLN 3.9512 100,00 PLN 25,31 USD
	exchangeDetailRe = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}\s+[A-Z0-9]+\s+([A-Z]{3}/[A-Z]{3})\s+(\d+\.\d+)\s+(-?\d{1,3}(?:\s?\d{3})*,\d{2})\s+PLN\s+(-?\d{1,3}(?:\s?\d{3})*,\d{2})\s+([A-Z]{3})`)

	// 12345678901234567890123456 JAN KOWALSKI Ref. wł. zlec.: 20241127001
	transferDetailRe = regexp.MustCompile(`^(\d{10,})\s+(.+?)\s+Ref\. wł\. zlec\.:\s*(\d*)`)
)

// applyDetails scans the lines following a classified transaction for the
// secondary patterns of rec's category and fills the matching optional
// fields. Every sub-pattern is independently optional: a miss leaves the
// field empty and never invalidates the record. The returned set holds the
// offsets (into following) of lines that were recognized as detail lines.
func applyDetails(rec *models.TransactionRecord, following []string) map[int]bool {
	consumed := make(map[int]bool)

	for i, raw := range following {
		if i >= detailWindow {
			break
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch rec.Type {
		case models.CategoryCardPurchase:
			if m := cardDetailRe.FindStringSubmatch(line); m != nil {
				rec.CardNumber = m[1]
				rec.Location = strings.TrimSpace(m[2])
				consumed[i] = true
			} else if matchOriginalAmount(rec, line) {
				consumed[i] = true
			}

		case models.CategoryWebPayment:
			if m := webDetailRe.FindStringSubmatch(line); m != nil {
				rec.Phone = m[1]
				rec.Time = m[2]
				rec.Location = strings.TrimSpace(m[3])
				consumed[i] = true
			} else if matchOriginalAmount(rec, line) {
				consumed[i] = true
			}

		case models.CategoryOutgoingTransfer, models.CategoryIncomingTransfer:
			if m := transferDetailRe.FindStringSubmatch(line); m != nil {
				rec.AccountNumber = m[1]
				rec.Recipient = strings.TrimSpace(m[2])
				rec.Reference = m[3]
				consumed[i] = true
			}

		case models.CategoryCurrencyExchange:
			if m := exchangeDetailRe.FindStringSubmatch(line); m != nil {
				rec.CurrencyPair = m[1]
				if rate, err := decimal.NewFromString(m[2]); err == nil {
					rec.ExchangeRate = &rate
				}
				if pln, err := parseAmount(m[3]); err == nil {
					rec.PLNAmount = &pln
				}
				if foreign, err := parseAmount(m[4]); err == nil {
					rec.ForeignAmount = &foreign
				}
				rec.ForeignCurrency = m[5]
				consumed[i] = true
			}
		}
	}

	return consumed
}

func matchOriginalAmount(rec *models.TransactionRecord, line string) bool {
	m := originalAmountRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	orig, err := parseAmount(m[1])
	if err != nil {
		return false
	}
	rec.OriginalAmount = &orig
	return true
}
