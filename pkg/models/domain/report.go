package domain

import "time"

// ReportBase holds the fields shared by every persisted report entity. Hash
// is the request fingerprint and doubles as the primary key.
type ReportBase struct {
	Hash         string    `bson:"_id" json:"hash"`
	AccountID    string    `bson:"account_id" json:"accountId"`
	StartDate    time.Time `bson:"start_date" json:"startDate"`
	EndDate      time.Time `bson:"end_date" json:"endDate"`
	TextAnalysis string    `bson:"text_analysis" json:"textAnalysis"`
	Suggestion   string    `bson:"suggestion" json:"suggestion"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Stamp attaches request identity and refreshes the timestamps. Mappers never
// see these fields; the pipeline stamps them after mapping so that "what the
// AI said" stays separate from "which request this answers".
func (b *ReportBase) Stamp(hash, accountID string, start, end, now time.Time) {
	b.Hash = hash
	b.AccountID = accountID
	b.StartDate = start
	b.EndDate = end
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Report is implemented by every persisted report entity.
type Report interface {
	Stamp(hash, accountID string, start, end, now time.Time)
}

// ReportCategory is a category total inside a report.
type ReportCategory struct {
	Name    string  `bson:"name" json:"name"`
	Balance float64 `bson:"balance" json:"balance"`
}

// ReportTransaction is a highlighted transaction inside a report.
type ReportTransaction struct {
	Description  string    `bson:"description" json:"description"`
	CategoryName string    `bson:"category_name" json:"categoryName"`
	Date         time.Time `bson:"transaction_date" json:"date"`
	Value        float64   `bson:"value" json:"value"`
}

type OverviewReport struct {
	ReportBase   `bson:",inline"`
	Balance      float64          `bson:"balance" json:"balance"`
	TotalIncome  float64          `bson:"total_income" json:"totalIncome"`
	TotalExpense float64          `bson:"total_expense" json:"totalExpense"`
	Categories   []ReportCategory `bson:"categories" json:"categories"`
}

type ExpenseReport struct {
	ReportBase   `bson:",inline"`
	TotalExpense float64             `bson:"total_expense" json:"totalExpense"`
	Categories   []ReportCategory    `bson:"categories" json:"categories"`
	MainExpenses []ReportTransaction `bson:"main_expenses" json:"mainExpenses"`
}

type IncomeReport struct {
	ReportBase  `bson:",inline"`
	TotalIncome float64             `bson:"total_income" json:"totalIncome"`
	Categories  []ReportCategory    `bson:"categories" json:"categories"`
	MainIncomes []ReportTransaction `bson:"main_incomes" json:"mainIncomes"`
}

type CategoryReport struct {
	ReportBase       `bson:",inline"`
	Category         string              `bson:"category" json:"category"`
	Total            float64             `bson:"total" json:"total"`
	Average          float64             `bson:"average" json:"average"`
	Trend            string              `bson:"trend,omitempty" json:"trend,omitempty"`
	PeakDays         []string            `bson:"peak_days,omitempty" json:"peakDays,omitempty"`
	MainTransactions []ReportTransaction `bson:"main_transactions" json:"mainTransactions"`
}

type InsightReport struct {
	ReportBase      `bson:",inline"`
	InsightResponse string `bson:"insight_response" json:"insightResponse"`
}
