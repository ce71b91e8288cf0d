package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwrona-dev/wyciag/internal/models"
)

func TestRegistry_Classify(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name        string
		line        string
		category    models.Category
		patternUsed string
		amount      string
		balance     string
	}{
		{
			name:        "card purchase",
			line:        "27.11.2024 4832MX90890051722 ZAKUP PRZY UŻYCIU KARTY -36,12 1 968,11",
			category:    models.CategoryCardPurchase,
			patternUsed: "card_purchase",
			amount:      "-36,12",
			balance:     "1 968,11",
		},
		{
			name:        "web payment",
			line:        "28.11.2024 4833MX00000000001 PŁATNOŚĆ WEB - KOD MOBILNY -120,00 1 848,11",
			category:    models.CategoryWebPayment,
			patternUsed: "web_payment",
			amount:      "-120,00",
			balance:     "1 848,11",
		},
		{
			name:        "blik refund",
			line:        "29.11.2024 4834MX00000000002 ZWROT BLIK 36,12 1 884,23",
			category:    models.CategoryBlikRefund,
			patternUsed: "blik_refund",
			amount:      "36,12",
			balance:     "1 884,23",
		},
		{
			name:        "outgoing transfer",
			line:        "30.11.2024 4835MX00000000003 PRZELEW WYCHODZĄCY -500,00 1 384,23",
			category:    models.CategoryOutgoingTransfer,
			patternUsed: "outgoing_transfer",
			amount:      "-500,00",
			balance:     "1 384,23",
		},
		{
			name:        "incoming transfer with grouped thousands",
			line:        "01.12.2024 4836MX00000000004 PRZELEW PRZYCHODZĄCY 2 500,00 3 884,23",
			category:    models.CategoryIncomingTransfer,
			patternUsed: "incoming_transfer",
			amount:      "2 500,00",
			balance:     "3 884,23",
		},
		{
			name:        "currency exchange credit",
			line:        "02.12.2024 4837MX00000000005 WYMIANA W KANTORZE - UZNANIE 100,00 3 984,23",
			category:    models.CategoryCurrencyExchange,
			patternUsed: "currency_exchange",
			amount:      "100,00",
			balance:     "3 984,23",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.Classify(tt.line)
			require.True(t, ok, "line should classify")
			assert.Equal(t, tt.category, m.Category)
			assert.Equal(t, tt.patternUsed, m.PatternUsed)
			assert.Equal(t, tt.amount, m.Amount)
			assert.Equal(t, tt.balance, m.Balance)
			assert.NotEmpty(t, m.TransactionID)
			assert.NotEmpty(t, m.Date)
		})
	}
}

func TestRegistry_OpeningBalance(t *testing.T) {
	r := NewRegistry()

	m, ok := r.Classify("Saldo z przeniesienia 1 968,11")
	require.True(t, ok)

	assert.Equal(t, models.CategoryOpeningBalance, m.Category)
	assert.Equal(t, "balance_transfer", m.PatternUsed)
	assert.Equal(t, models.BalanceTransferID, m.TransactionID)
	assert.Equal(t, "1 968,11", m.Balance)
	assert.Empty(t, m.Date)
	assert.Empty(t, m.Amount)
}

func TestRegistry_NoMatch(t *testing.T) {
	r := NewRegistry()

	lines := []string{
		"",
		"Strona 1 z 3",
		"Wyciąg nr 11/2024",
		// Category marker but no amounts at all.
		"PRZELEW WYCHODZĄCY",
		// Amounts but no recognizable category marker.
		"27.11.2024 AB12 OPŁATA ZA PROWADZENIE RACHUNKU -8,00 1 960,11",
	}

	for _, line := range lines {
		_, ok := r.Classify(line)
		assert.False(t, ok, "line %q should not classify", line)
	}
}

// A line that satisfies both a specific marker pattern and the generic
// transaction pattern must classify under the specific one.
func TestRegistry_PriorityOrder(t *testing.T) {
	r := NewRegistry()

	m, ok := r.Classify("29.11.2024 AB12 ZWROT BLIK 36,12 1 968,11")
	require.True(t, ok)
	assert.Equal(t, models.CategoryBlikRefund, m.Category)
	assert.Equal(t, "blik_refund", m.PatternUsed)
}

// Marker preceded by extra description text falls through the specific
// patterns and is caught by the generic one, categorized by substring.
func TestRegistry_GenericFallback(t *testing.T) {
	r := NewRegistry()

	m, ok := r.Classify("30.11.2024 AB13 KOREKTA PRZELEW WYCHODZĄCY -10,00 1 000,00")
	require.True(t, ok)
	assert.Equal(t, models.CategoryOutgoingTransfer, m.Category)
	assert.Equal(t, "main_transaction", m.PatternUsed)
	assert.Equal(t, "KOREKTA PRZELEW WYCHODZĄCY", m.Description)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		description string
		want        models.Category
	}{
		{"ZAKUP PRZY UŻYCIU KARTY", models.CategoryCardPurchase},
		{"PŁATNOŚĆ WEB - KOD MOBILNY", models.CategoryWebPayment},
		{"ZWROT BLIK", models.CategoryBlikRefund},
		{"PRZELEW WYCHODZĄCY", models.CategoryOutgoingTransfer},
		{"PRZELEW PRZYCHODZĄCY", models.CategoryIncomingTransfer},
		{"WYMIANA W KANTORZE - OBCIĄŻENIE", models.CategoryCurrencyExchange},
		{"OPŁATA MIESIĘCZNA", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, categorize(tt.description), "description %q", tt.description)
	}
}
