package domain

import "time"

// Transaction is a single account movement fetched from the finance service.
// Immutable once constructed.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Type        string    `json:"type"` // "income" or "expense"
}

// ReportRequest carries everything a report is generated from. StartDate must
// not be after EndDate (validated at the HTTP boundary); the transaction
// order is preserved exactly as supplied.
type ReportRequest struct {
	AccountID    string        `json:"accountId"`
	StartDate    time.Time     `json:"startDate"`
	EndDate      time.Time     `json:"endDate"`
	Transactions []Transaction `json:"transactions"`

	// Category narrows a category report to one category label.
	Category string `json:"category,omitempty"`
	// Insight is the free-text question an insight report answers.
	Insight string `json:"insightMessage,omitempty"`
}
