package models

import "github.com/shopspring/decimal"

// Category is the transaction type assigned by the pattern registry.
type Category string

const (
	CategoryCardPurchase     Category = "Card Purchase"
	CategoryWebPayment       Category = "Web Payment"
	CategoryBlikRefund       Category = "BLIK Refund"
	CategoryOutgoingTransfer Category = "Outgoing Transfer"
	CategoryIncomingTransfer Category = "Incoming Transfer"
	CategoryCurrencyExchange Category = "Currency Exchange"
	CategoryOpeningBalance   Category = "Opening Balance"
)

// BalanceTransferID is the placeholder transaction id for opening-balance
// rows, which carry no id of their own in the source text.
const BalanceTransferID = "BALANCE_TRANSFER"

// TransactionRecord is one normalized statement transaction. It is assembled
// once, when a line matches a category pattern, and never mutated afterwards.
// Fields that do not apply to a record's category stay empty.
//
// Amounts are stored with a canonical decimal point; the locale comma only
// reappears in the exported file.
type TransactionRecord struct {
	Date          string          `json:"date"`
	TransactionID string          `json:"transactionId"`
	Type          Category        `json:"type"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`

	// Provenance.
	SourceFile string `json:"sourceFile"`
	Page       int    `json:"page"`

	// Card purchase / web payment details.
	CardNumber string `json:"cardNumber,omitempty"`
	Location   string `json:"location,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Time       string `json:"time,omitempty"`

	// Currency exchange details.
	OriginalAmount  *decimal.Decimal `json:"originalAmount,omitempty"`
	CurrencyPair    string           `json:"currencyPair,omitempty"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate,omitempty"`
	PLNAmount       *decimal.Decimal `json:"plnAmount,omitempty"`
	ForeignAmount   *decimal.Decimal `json:"foreignAmount,omitempty"`
	ForeignCurrency string           `json:"foreignCurrency,omitempty"`

	// Transfer details.
	AccountNumber string `json:"accountNumber,omitempty"`
	Recipient     string `json:"recipient,omitempty"`
	Reference     string `json:"reference,omitempty"`

	// Audit trail.
	RawLine     string `json:"rawLine"`
	PatternUsed string `json:"patternUsed"`
}

// FileError notes a document that could not be processed. The run continues
// past it; the note is surfaced alongside the collected records.
type FileError struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// Summary is a read-only view over a collected record set.
type Summary struct {
	TotalTransactions int              `json:"totalTransactions"`
	TotalAmount       decimal.Decimal  `json:"totalAmount"`
	CountByType       map[Category]int `json:"countByType"`
	UnmatchedLines    int              `json:"unmatchedLines"`
	FilesProcessed    int              `json:"filesProcessed"`
	DateStart         string           `json:"dateStart,omitempty"`
	DateEnd           string           `json:"dateEnd,omitempty"`
}
