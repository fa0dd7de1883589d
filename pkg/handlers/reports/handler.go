// Package reports exposes the report generation pipelines over HTTP.
package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/api"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
	"github.com/POUPE-AI/poupeai-report-service/pkg/server/middleware"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/ai"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/categorization"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/finance"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/report"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/savings"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type Dependencies struct {
	Finance *finance.Client
	AI      ai.Client

	Overview *report.OverviewPipeline
	Expense  *report.ExpensePipeline
	Income   *report.IncomePipeline
	Category *report.CategoryPipeline
	Insight  *report.InsightPipeline

	Savings        *savings.Service
	Categorization *categorization.Service
}

type Handler struct {
	deps Dependencies
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{deps: deps}
}

// Overview handles GET /api/v1/reports/overview.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	req, model, ok := h.buildRequest(w, r)
	if !ok {
		return
	}
	writeResult(w, r, h.deps.Overview.Generate(r.Context(), req, h.deps.AI, model))
}

// Expense handles GET /api/v1/reports/expense.
func (h *Handler) Expense(w http.ResponseWriter, r *http.Request) {
	req, model, ok := h.buildRequest(w, r)
	if !ok {
		return
	}
	writeResult(w, r, h.deps.Expense.Generate(r.Context(), req, h.deps.AI, model))
}

// Income handles GET /api/v1/reports/income.
func (h *Handler) Income(w http.ResponseWriter, r *http.Request) {
	req, model, ok := h.buildRequest(w, r)
	if !ok {
		return
	}
	writeResult(w, r, h.deps.Income.Generate(r.Context(), req, h.deps.AI, model))
}

// Category handles GET /api/v1/reports/category/{category}. Only the
// transactions matching the category label are sent to the backend, so
// distinct categories cache separately.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		writeProblem(w, r, http.StatusBadRequest, "a category is required")
		return
	}

	req, model, ok := h.buildRequest(w, r)
	if !ok {
		return
	}
	req.Category = category

	filtered := make([]domain.Transaction, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		if t.Category == category {
			filtered = append(filtered, t)
		}
	}
	req.Transactions = filtered

	writeResult(w, r, h.deps.Category.Generate(r.Context(), req, h.deps.AI, model))
}

type insightRequest struct {
	AccountID      string `json:"accountId"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	InsightMessage string `json:"insightMessage"`
	Model          string `json:"model"`
}

// Insights handles POST /api/v1/reports/insights.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	var body insightRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.InsightMessage == "" {
		writeProblem(w, r, http.StatusBadRequest, "an insight message is required")
		return
	}

	model, err := domain.ParseModel(body.Model)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	start, end, err := parsePeriod(body.StartDate, body.EndDate)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req, ok := h.fetchTransactions(w, r, body.AccountID, start, end)
	if !ok {
		return
	}
	req.Insight = body.InsightMessage

	writeResult(w, r, h.deps.Insight.Generate(r.Context(), req, h.deps.AI, model))
}

type savingsRequest struct {
	AccountID      string `json:"accountId"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	ComparisonType string `json:"comparisonType"`
	Model          string `json:"model"`
}

// SavingsEstimate handles POST /api/v1/reports/savings/estimate.
func (h *Handler) SavingsEstimate(w http.ResponseWriter, r *http.Request) {
	var body savingsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	model, err := domain.ParseModel(body.Model)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	start, end, err := parsePeriod(body.StartDate, body.EndDate)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req, ok := h.fetchTransactions(w, r, body.AccountID, start, end)
	if !ok {
		return
	}

	estimate, err := h.deps.Savings.Estimate(r.Context(), req, h.deps.AI, model, body.ComparisonType)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("savings estimate failed")
		writeProblem(w, r, http.StatusInternalServerError, "failed to estimate savings")
		return
	}
	writeJSON(w, r, http.StatusOK, estimate)
}

// Categorize handles POST /api/internal/categorization/predict.
func (h *Handler) Categorize(w http.ResponseWriter, r *http.Request) {
	var body categorization.Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	model, err := domain.ParseModel(r.URL.Query().Get("model"))
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	content, err := h.deps.Categorization.Categorize(r.Context(), body, h.deps.AI, model)
	if err != nil {
		var headerErr *envelope.HeaderError
		switch {
		case errors.Is(err, categorization.ErrNoDescriptions), errors.Is(err, categorization.ErrNoCategories):
			writeProblem(w, r, http.StatusBadRequest, err.Error())
		case errors.As(err, &headerErr):
			writeHeaderResult(w, r, headerErr.Header)
		default:
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("categorization failed")
			writeProblem(w, r, http.StatusInternalServerError, "failed to categorize the transactions")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, api.ReportResponse{
		Header:  api.Header{Status: http.StatusOK},
		Content: content,
	})
}

// buildRequest assembles the report request for the GET report routes from
// the query parameters and the finance service.
func (h *Handler) buildRequest(w http.ResponseWriter, r *http.Request) (domain.ReportRequest, domain.Model, bool) {
	query := r.URL.Query()

	model, err := domain.ParseModel(query.Get("model"))
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return domain.ReportRequest{}, "", false
	}
	start, end, err := parsePeriod(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return domain.ReportRequest{}, "", false
	}

	req, ok := h.fetchTransactions(w, r, query.Get("accountId"), start, end)
	return req, model, ok
}

func (h *Handler) fetchTransactions(w http.ResponseWriter, r *http.Request, accountID string, start, end time.Time) (domain.ReportRequest, bool) {
	token := middleware.Token(r.Context())
	transactions, err := h.deps.Finance.GetTransactions(r.Context(), token, start, end)
	if err != nil {
		if errors.Is(err, finance.ErrNoAccessToken) {
			writeProblem(w, r, http.StatusUnauthorized, err.Error())
			return domain.ReportRequest{}, false
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to fetch transactions from the finance service")
		writeProblem(w, r, http.StatusBadGateway, "failed to fetch the account transactions")
		return domain.ReportRequest{}, false
	}

	return domain.ReportRequest{
		AccountID:    accountID,
		StartDate:    start,
		EndDate:      end,
		Transactions: transactions,
	}, true
}

func parsePeriod(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, errors.New("startDate and endDate are required")
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate: %q", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate: %q", endDate)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.New("startDate must not be after endDate")
	}
	return start, end, nil
}
