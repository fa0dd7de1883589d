// Package savings estimates how much an account saved compared to the
// previous period, using the AI backend for the comparison analysis.
package savings

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/ai"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/report/schemas"
	"github.com/rs/zerolog"
)

// Estimate is the flat (non-envelope) answer the savings analysis uses.
type Estimate struct {
	EstimatedSavings  float64 `json:"estimated_savings"`
	SavingsPercentage float64 `json:"savings_percentage"`
	Message           string  `json:"message"`
	ComparisonPeriod  string  `json:"comparison_period"`
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// periodTotals summarizes one comparison period for the AI prompt.
type periodTotals struct {
	Transactions  []domain.Transaction `json:"transactions"`
	TotalExpenses float64              `json:"totalExpenses"`
	TotalIncome   float64              `json:"totalIncome"`
}

type comparisonData struct {
	ComparisonType string       `json:"comparisonType"`
	CurrentPeriod  periodTotals `json:"currentPeriod"`
	PreviousPeriod periodTotals `json:"previousPeriod"`
}

// Estimate splits the transactions into the current and previous period and
// asks the backend to compare them. Requests without enough data resolve
// locally with an explanatory message instead of calling the backend.
func (s *Service) Estimate(ctx context.Context, req domain.ReportRequest, client ai.Client, model domain.Model, comparison string) (*Estimate, error) {
	if comparison == "" {
		comparison = "monthly"
	}
	comparison = strings.ToLower(comparison)

	if len(req.Transactions) == 0 {
		return &Estimate{
			Message:          "cannot estimate savings without transaction data",
			ComparisonPeriod: comparison,
		}, nil
	}

	current, previous, err := splitPeriods(req.Transactions, comparison)
	if err != nil {
		return nil, err
	}
	if len(previous) == 0 {
		return &Estimate{
			Message:          fmt.Sprintf("insufficient data for a %s comparison; transactions from at least two periods are required", comparison),
			ComparisonPeriod: comparison,
		}, nil
	}
	if len(current) == 0 {
		return &Estimate{
			Message:          fmt.Sprintf("no transactions in the current period for a %s comparison", comparison),
			ComparisonPeriod: comparison,
		}, nil
	}

	data := comparisonData{
		ComparisonType: comparison,
		CurrentPeriod:  totals(current),
		PreviousPeriod: totals(previous),
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode savings comparison data: %w", err)
	}

	prompt := fmt.Sprintf(`Estimate the savings of the current period compared
to the previous one (%s comparison). Use the data below (JSON):

%s

Answer with the estimated savings amount, the savings percentage, a short
message explaining the result and the comparison period.`, comparison, dataJSON)

	raw, err := client.GenerateReport(ctx, prompt, schemas.Savings, model)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty savings estimate response from the AI service")
	}

	var estimate Estimate
	if err := json.Unmarshal([]byte(raw), &estimate); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to decode the savings estimate response")
		return nil, fmt.Errorf("decode savings estimate response: %w", err)
	}
	if estimate.ComparisonPeriod == "" {
		estimate.ComparisonPeriod = comparison
	}
	return &estimate, nil
}

// splitPeriods partitions the transactions around the most recent one:
// weekly uses the trailing 7 days, monthly the calendar month.
func splitPeriods(transactions []domain.Transaction, comparison string) (current, previous []domain.Transaction, err error) {
	latest := transactions[0].Date
	for _, t := range transactions {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}

	var currentStart, previousStart time.Time
	switch comparison {
	case "weekly":
		currentStart = latest.AddDate(0, 0, -7)
		previousStart = latest.AddDate(0, 0, -14)
	case "monthly":
		currentStart = time.Date(latest.Year(), latest.Month(), 1, 0, 0, 0, 0, latest.Location())
		previousStart = currentStart.AddDate(0, -1, 0)
	default:
		return nil, nil, fmt.Errorf("unsupported comparison type: %q", comparison)
	}

	for _, t := range transactions {
		switch {
		case !t.Date.Before(currentStart):
			current = append(current, t)
		case !t.Date.Before(previousStart):
			previous = append(previous, t)
		}
	}
	return current, previous, nil
}

func totals(transactions []domain.Transaction) periodTotals {
	t := periodTotals{Transactions: transactions}
	for _, tx := range transactions {
		if tx.Amount < 0 {
			t.TotalExpenses += math.Abs(tx.Amount)
		} else {
			t.TotalIncome += tx.Amount
		}
	}
	return t
}
