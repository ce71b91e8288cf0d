package parser

import (
	"regexp"
	"strings"

	"github.com/mwrona-dev/wyciag/internal/models"
)

// Building blocks of the primary patterns. Amounts use the Polish locale:
// optional sign, space-grouped thousands, comma decimal separator.
const (
	reDate    = `(\d{2}\.\d{2}\.\d{4})`
	reTxnID   = `([A-Z0-9]+)`
	reAmount  = `(-?\d{1,3}(?:\s?\d{3})*,\d{2})`
	reBalance = `(-?\d{1,3}(?:\s?\d{3})*,\d{2})`
)

// corePattern builds a primary transaction pattern whose description must
// start with the given marker: DATE ID DESCRIPTION AMOUNT BALANCE.
func corePattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(
		`^` + reDate + `\s+` + reTxnID + `\s+(` + marker + `.*?)\s+` + reAmount + `\s+` + reBalance + `$`,
	)
}

// Match holds the raw core-field captures of a classified line. Values are
// untouched source text; normalization happens during record assembly.
type Match struct {
	Category      models.Category
	PatternUsed   string
	Date          string
	TransactionID string
	Description   string
	Amount        string
	Balance       string
}

// entry binds one category to its primary pattern. Entries without a fixed
// category (the generic fallback) resolve it from the matched description.
type entry struct {
	name     string
	category models.Category
	re       *regexp.Regexp
	opening  bool
}

// Registry classifies statement lines. Entries are attempted strictly in
// order and the first match wins, so specific marker patterns must sit above
// the generic transaction pattern; list position is the only tiebreaker.
type Registry struct {
	entries []entry
}

// NewRegistry returns the registry with the default pattern set.
func NewRegistry() *Registry {
	return &Registry{entries: []entry{
		{
			name:    "balance_transfer",
			opening: true,
			re:      regexp.MustCompile(`^Saldo z przeniesienia\s+` + reBalance + `$`),
		},
		{
			name:     "card_purchase",
			category: models.CategoryCardPurchase,
			re:       corePattern(`ZAKUP PRZY UŻYCIU KARTY`),
		},
		{
			name:     "web_payment",
			category: models.CategoryWebPayment,
			re:       corePattern(`PŁATNOŚĆ WEB(?:\s+-\s+KOD MOBILNY)?`),
		},
		{
			name:     "blik_refund",
			category: models.CategoryBlikRefund,
			re:       corePattern(`ZWROT BLIK`),
		},
		{
			name:     "outgoing_transfer",
			category: models.CategoryOutgoingTransfer,
			re:       corePattern(`PRZELEW WYCHODZĄCY`),
		},
		{
			name:     "incoming_transfer",
			category: models.CategoryIncomingTransfer,
			re:       corePattern(`PRZELEW PRZYCHODZĄCY`),
		},
		{
			name:     "currency_exchange",
			category: models.CategoryCurrencyExchange,
			re:       corePattern(`WYMIANA W KANTORZE(?:\s+-\s+(?:UZNANIE|OBCIĄŻENIE))?`),
		},
		// Generic fallback: any DATE ID DESCRIPTION AMOUNT BALANCE line.
		// Only emits when the description still carries a known marker,
		// e.g. with extra prefix text the specific patterns reject.
		{
			name: "main_transaction",
			re:   corePattern(``),
		},
	}}
}

// Classify maps a line to a category and its raw core fields. It reports
// false for lines no pattern recognizes; such lines are expected (headers,
// footers, detail continuations) and are not an error.
func (r *Registry) Classify(line string) (Match, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Match{}, false
	}

	for _, e := range r.entries {
		m := e.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		if e.opening {
			// Opening balance is a carry-forward, not a flow: no date or id
			// of its own, amount conceptually zero, balance as shown.
			return Match{
				Category:      models.CategoryOpeningBalance,
				PatternUsed:   e.name,
				TransactionID: models.BalanceTransferID,
				Description:   "Saldo z przeniesienia",
				Balance:       m[1],
			}, true
		}

		cat := e.category
		if cat == "" {
			cat = categorize(m[3])
			if cat == "" {
				// Amount present but no recognizable marker. Keep trying the
				// remaining entries (there are none today, but the contract
				// is first *successful* classification wins).
				continue
			}
		}

		return Match{
			Category:      cat,
			PatternUsed:   e.name,
			Date:          m[1],
			TransactionID: m[2],
			Description:   strings.TrimSpace(m[3]),
			Amount:        m[4],
			Balance:       m[5],
		}, true
	}

	return Match{}, false
}

// categorize resolves a category from marker substrings in the description.
func categorize(description string) models.Category {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "zakup przy użyciu karty"):
		return models.CategoryCardPurchase
	case strings.Contains(d, "płatność web"):
		return models.CategoryWebPayment
	case strings.Contains(d, "zwrot blik"):
		return models.CategoryBlikRefund
	case strings.Contains(d, "przelew wychodzący"):
		return models.CategoryOutgoingTransfer
	case strings.Contains(d, "przelew przychodzący"):
		return models.CategoryIncomingTransfer
	case strings.Contains(d, "wymiana w kantorze"):
		return models.CategoryCurrencyExchange
	default:
		return ""
	}
}
