package report

import (
	"fmt"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/report/schemas"
	storereport "github.com/POUPE-AI/poupeai-report-service/pkg/store/report"
)

type (
	OverviewPipeline = Pipeline[envelope.OverviewContent, domain.OverviewReport, *domain.OverviewReport]
	ExpensePipeline  = Pipeline[envelope.ExpenseContent, domain.ExpenseReport, *domain.ExpenseReport]
	IncomePipeline   = Pipeline[envelope.IncomeContent, domain.IncomeReport, *domain.IncomeReport]
	CategoryPipeline = Pipeline[envelope.CategoryContent, domain.CategoryReport, *domain.CategoryReport]
	InsightPipeline  = Pipeline[envelope.InsightContent, domain.InsightReport, *domain.InsightReport]
)

func NewOverviewPipeline(store storereport.Store[domain.OverviewReport]) *OverviewPipeline {
	return NewPipeline(KindOverview, store, schemas.Overview, overviewPrompt, mapOverview)
}

func NewExpensePipeline(store storereport.Store[domain.ExpenseReport]) *ExpensePipeline {
	return NewPipeline(KindExpense, store, schemas.Expense, expensePrompt, mapExpense)
}

func NewIncomePipeline(store storereport.Store[domain.IncomeReport]) *IncomePipeline {
	return NewPipeline(KindIncome, store, schemas.Income, incomePrompt, mapIncome)
}

func NewCategoryPipeline(store storereport.Store[domain.CategoryReport]) *CategoryPipeline {
	return NewPipeline(KindCategory, store, schemas.Category, categoryPrompt, mapCategory)
}

func NewInsightPipeline(store storereport.Store[domain.InsightReport]) *InsightPipeline {
	return NewPipeline(KindInsight, store, schemas.Insight, insightPrompt, mapInsight)
}

func overviewPrompt(dataJSON string) string {
	return fmt.Sprintf(`Generate an overview financial report.
Use the data below (JSON) to build the report:

%s

Produce the text analysis, the suggestion, the balance, the income and expense
totals and up to 5 categories, following the output schema.`, dataJSON)
}

func expensePrompt(dataJSON string) string {
	return fmt.Sprintf(`Generate a financial report for the expenses.
Use the data below (JSON) to build the report:

%s

Produce the text analysis, the suggestion, the expense total, up to 5
categories and up to 5 main transactions, following the output schema.`, dataJSON)
}

func incomePrompt(dataJSON string) string {
	return fmt.Sprintf(`Generate a financial report for the incomes.
Use the data below (JSON) to build the report:

%s

Produce the text analysis, the suggestion, the income total, up to 5
categories and up to 5 main transactions, following the output schema.`, dataJSON)
}

func categoryPrompt(dataJSON string) string {
	return fmt.Sprintf(`Generate a financial report for the category named in
the data. Use the data below (JSON) to build the report:

%s

Produce the text analysis, the suggestion, the category total, the average,
the trend, the peak days and the main transactions, following the output
schema.`, dataJSON)
}

func insightPrompt(dataJSON string) string {
	return fmt.Sprintf(`Generate a personalized financial insight report based
on the transactions and the insight message in the data below (JSON):

%s

Your answer must contain:
- A general text analysis of the transactions, highlighting relevant aspects
  of the financial behavior.
- A practical, objective suggestion to improve financial health (optional).
- A detailed, personalized answer to the insight message, taking the
  transaction context into account.`, dataJSON)
}

func mapOverview(c *envelope.OverviewContent) *domain.OverviewReport {
	r := &domain.OverviewReport{
		Balance:      c.Balance,
		TotalIncome:  c.TotalIncome,
		TotalExpense: c.TotalExpense,
		Categories:   mapCategories(c.Categories),
	}
	r.TextAnalysis = c.TextAnalysis
	r.Suggestion = c.Suggestion
	return r
}

func mapExpense(c *envelope.ExpenseContent) *domain.ExpenseReport {
	r := &domain.ExpenseReport{
		TotalExpense: c.TotalExpense,
		Categories:   mapCategories(c.Categories),
		MainExpenses: mapTransactions(c.MainExpenses),
	}
	r.TextAnalysis = c.TextAnalysis
	r.Suggestion = c.Suggestion
	return r
}

func mapIncome(c *envelope.IncomeContent) *domain.IncomeReport {
	r := &domain.IncomeReport{
		TotalIncome: c.TotalIncome,
		Categories:  mapCategories(c.Categories),
		MainIncomes: mapTransactions(c.MainIncomes),
	}
	r.TextAnalysis = c.TextAnalysis
	r.Suggestion = c.Suggestion
	return r
}

func mapCategory(c *envelope.CategoryContent) *domain.CategoryReport {
	transactions := make([]domain.ReportTransaction, 0, len(c.MainTransactions))
	for _, t := range c.MainTransactions {
		transactions = append(transactions, domain.ReportTransaction{
			Description:  t.Description,
			CategoryName: t.Category,
			Date:         parseReportDate(t.Date),
			Value:        t.Amount,
		})
	}
	r := &domain.CategoryReport{
		Category:         c.Category,
		Total:            c.Total,
		Average:          c.Average,
		Trend:            c.Trend,
		PeakDays:         c.PeakDays,
		MainTransactions: transactions,
	}
	r.TextAnalysis = c.TextAnalysis
	r.Suggestion = c.Suggestion
	return r
}

func mapInsight(c *envelope.InsightContent) *domain.InsightReport {
	r := &domain.InsightReport{
		InsightResponse: c.InsightResponse,
	}
	r.TextAnalysis = c.TextAnalysis
	r.Suggestion = c.Suggestion
	return r
}

func mapCategories(in []envelope.CategoryBalance) []domain.ReportCategory {
	out := make([]domain.ReportCategory, 0, len(in))
	for _, c := range in {
		out = append(out, domain.ReportCategory{Name: c.Name, Balance: c.Balance})
	}
	return out
}

func mapTransactions(in []envelope.MainTransaction) []domain.ReportTransaction {
	out := make([]domain.ReportTransaction, 0, len(in))
	for _, t := range in {
		out = append(out, domain.ReportTransaction{
			Description:  t.Description,
			CategoryName: t.CategoryName,
			Date:         parseReportDate(t.TransactionDate),
			Value:        t.Value,
		})
	}
	return out
}

// parseReportDate tolerates the date formats the backends actually emit; an
// unparseable date maps to the zero time rather than failing the report.
func parseReportDate(s string) time.Time {
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
