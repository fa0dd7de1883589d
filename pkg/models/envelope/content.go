package envelope

// BaseContent holds the analysis fields every report content carries.
type BaseContent struct {
	TextAnalysis string `json:"text_analysis"`
	Suggestion   string `json:"suggestion"`
}

// CategoryBalance is a category total as the backend reports it.
type CategoryBalance struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// MainTransaction is a highlighted transaction as the backend reports it.
// The date comes back as text and is parsed by the mapper.
type MainTransaction struct {
	Description     string  `json:"description"`
	TransactionDate string  `json:"transaction_date"`
	Value           float64 `json:"value"`
	CategoryName    string  `json:"category_name"`
}

type OverviewContent struct {
	BaseContent
	Balance      float64           `json:"balance"`
	TotalIncome  float64           `json:"total_income"`
	TotalExpense float64           `json:"total_expense"`
	Categories   []CategoryBalance `json:"categories"`
}

type ExpenseContent struct {
	BaseContent
	TotalExpense float64           `json:"total_expense"`
	Categories   []CategoryBalance `json:"categories"`
	MainExpenses []MainTransaction `json:"main_expenses"`
}

type IncomeContent struct {
	BaseContent
	TotalIncome float64           `json:"total_income"`
	Categories  []CategoryBalance `json:"categories"`
	MainIncomes []MainTransaction `json:"main_incomes"`
}

// CategoryTransaction is a transaction inside a category report; its shape
// differs from MainTransaction on the wire.
type CategoryTransaction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

type CategoryContent struct {
	BaseContent
	Category         string                `json:"category"`
	Total            float64               `json:"total"`
	Average          float64               `json:"average"`
	Trend            string                `json:"trend,omitempty"`
	PeakDays         []string              `json:"peak_days,omitempty"`
	MainTransactions []CategoryTransaction `json:"main_transactions"`
}

type InsightContent struct {
	BaseContent
	InsightResponse string `json:"insight_response"`
}

// Categorization assigns one user category to one description.
type Categorization struct {
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

type CategorizationContent struct {
	Categorizations []Categorization `json:"categorizations"`
}
