package report

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	storereport "github.com/POUPE-AI/poupeai-report-service/pkg/store/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAIClient struct {
	mock.Mock
}

func (m *mockAIClient) GenerateReport(ctx context.Context, prompt, outputSchema string, model domain.Model) (string, error) {
	args := m.Called(ctx, prompt, outputSchema, model)
	return args.String(0), args.Error(1)
}

// funcAIClient lets concurrency tests control the call directly.
type funcAIClient struct {
	calls    atomic.Int32
	generate func(ctx context.Context) (string, error)
}

func (c *funcAIClient) GenerateReport(ctx context.Context, _, _ string, _ domain.Model) (string, error) {
	c.calls.Add(1)
	return c.generate(ctx)
}

// flakyStore wraps a Store with injectable faults.
type flakyStore struct {
	inner  storereport.Store[domain.OverviewReport]
	getErr error
	putErr error
}

func (s *flakyStore) Get(ctx context.Context, hash string) (*domain.OverviewReport, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.inner.Get(ctx, hash)
}

func (s *flakyStore) Put(ctx context.Context, entity *domain.OverviewReport) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.inner.Put(ctx, entity)
}

func overviewMemoryStore() *storereport.Memory[domain.OverviewReport] {
	return storereport.NewMemory(func(r *domain.OverviewReport) string { return r.Hash })
}

func overviewRequest() domain.ReportRequest {
	return domain.ReportRequest{
		AccountID: "acc-1",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Transactions: []domain.Transaction{
			{ID: "tx-1", Description: "groceries", Amount: -50, Type: "expense"},
			{ID: "tx-2", Description: "salary", Amount: 2000, Type: "income"},
		},
	}
}

const overviewEnvelope = `{
	"header": {"status": 200},
	"content": {
		"text_analysis": "healthy month",
		"suggestion": "keep saving",
		"balance": 1950,
		"total_income": 2000,
		"total_expense": 50,
		"categories": [{"name": "food", "balance": -50}]
	}
}`

func TestPipeline_GeneratesAndCaches(t *testing.T) {
	store := overviewMemoryStore()
	pipeline := NewOverviewPipeline(store)
	req := overviewRequest()

	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, domain.ModelGemini).
		Return(overviewEnvelope, nil).Once()

	res := pipeline.Generate(context.Background(), req, client, domain.ModelGemini)

	assert.Equal(t, OutcomeCreated, res.Outcome)
	generated, ok := res.Report.(*domain.OverviewReport)
	assert.True(t, ok)
	assert.Equal(t, "healthy month", generated.TextAnalysis)
	assert.Equal(t, "acc-1", generated.AccountID)
	assert.Equal(t, Fingerprint(req, domain.ModelGemini), generated.Hash)
	assert.False(t, generated.CreatedAt.IsZero())
	assert.False(t, generated.UpdatedAt.IsZero())

	cached, err := store.Get(context.Background(), generated.Hash)
	assert.NoError(t, err)
	assert.NotNil(t, cached)

	// Second identical request is served from the cache without another call.
	res = pipeline.Generate(context.Background(), req, client, domain.ModelGemini)
	assert.Equal(t, OutcomeCached, res.Outcome)
	client.AssertNumberOfCalls(t, "GenerateReport", 1)
}

func TestPipeline_DifferentModelRegenerates(t *testing.T) {
	pipeline := NewOverviewPipeline(overviewMemoryStore())
	req := overviewRequest()

	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(overviewEnvelope, nil)

	first := pipeline.Generate(context.Background(), req, client, domain.ModelGemini)
	second := pipeline.Generate(context.Background(), req, client, domain.ModelDeepseek)

	assert.Equal(t, OutcomeCreated, first.Outcome)
	assert.Equal(t, OutcomeCreated, second.Outcome)
	client.AssertNumberOfCalls(t, "GenerateReport", 2)
}

func TestPipeline_ErrorHeaderIsEchoedAndNotCached(t *testing.T) {
	store := overviewMemoryStore()
	pipeline := NewOverviewPipeline(store)
	req := overviewRequest()

	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"header": {"status": 404, "message": "no transactions found"}}`, nil)

	res := pipeline.Generate(context.Background(), req, client, domain.ModelGemini)

	assert.Equal(t, OutcomeHeader, res.Outcome)
	assert.Equal(t, http.StatusNotFound, res.Header.Status)
	assert.Equal(t, "no transactions found", res.Header.Message)

	cached, err := store.Get(context.Background(), Fingerprint(req, domain.ModelGemini))
	assert.NoError(t, err)
	assert.Nil(t, cached)
}

func TestPipeline_DegradedResponses(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		detail string
	}{
		{
			name:   "empty response",
			raw:    "   ",
			detail: "empty response",
		},
		{
			name:   "malformed response",
			raw:    "not json at all",
			detail: "malformed",
		},
		{
			name:   "ok header with null content",
			raw:    `{"header": {"status": 200}, "content": null}`,
			detail: "null content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := NewOverviewPipeline(overviewMemoryStore())

			client := &mockAIClient{}
			client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(tt.raw, nil)

			res := pipeline.Generate(context.Background(), overviewRequest(), client, domain.ModelGemini)

			assert.Equal(t, OutcomeProblem, res.Outcome)
			assert.Contains(t, res.Detail, tt.detail)
		})
	}
}

func TestPipeline_ClientErrorBecomesProblem(t *testing.T) {
	pipeline := NewOverviewPipeline(overviewMemoryStore())

	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", context.Canceled)

	res := pipeline.Generate(context.Background(), overviewRequest(), client, domain.ModelGemini)

	assert.Equal(t, OutcomeProblem, res.Outcome)
	assert.Contains(t, res.Detail, "failed to generate the report")
}

func TestPipeline_CacheLookupFailureRegenerates(t *testing.T) {
	store := &flakyStore{
		inner:  overviewMemoryStore(),
		getErr: errors.New("mongo: connection refused"),
	}
	pipeline := NewOverviewPipeline(store)

	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(overviewEnvelope, nil)

	res := pipeline.Generate(context.Background(), overviewRequest(), client, domain.ModelGemini)

	assert.Equal(t, OutcomeCreated, res.Outcome)
}

func TestPipeline_PersistFailureStillReturnsReport(t *testing.T) {
	store := &flakyStore{
		inner:  overviewMemoryStore(),
		putErr: errors.New("mongo: write timeout"),
	}
	pipeline := NewOverviewPipeline(store)

	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(overviewEnvelope, nil)

	res := pipeline.Generate(context.Background(), overviewRequest(), client, domain.ModelGemini)

	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.NotNil(t, res.Report)
}

func TestPipeline_ConcurrentIdenticalRequestsCoalesce(t *testing.T) {
	pipeline := NewOverviewPipeline(overviewMemoryStore())
	req := overviewRequest()

	release := make(chan struct{})
	client := &funcAIClient{
		generate: func(ctx context.Context) (string, error) {
			<-release
			return overviewEnvelope, nil
		},
	}

	const callers = 8
	results := make([]Result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = pipeline.Generate(context.Background(), req, client, domain.ModelGemini)
		}(i)
	}

	// Let the goroutines pile up on the same flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), client.calls.Load())
	for _, res := range results {
		assert.Equal(t, OutcomeCreated, res.Outcome)
		assert.NotNil(t, res.Report)
	}
}

func TestPipeline_PanicBecomesProblem(t *testing.T) {
	store := overviewMemoryStore()
	pipeline := NewPipeline(
		KindOverview,
		storereport.Store[domain.OverviewReport](store),
		"{}",
		func(string) string { return "prompt" },
		func(*struct{}) *domain.OverviewReport { panic("mapper exploded") },
	)

	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"header": {"status": 200}, "content": {}}`, nil)

	res := pipeline.Generate(context.Background(), overviewRequest(), client, domain.ModelGemini)

	assert.Equal(t, OutcomeProblem, res.Outcome)
	assert.Contains(t, res.Detail, "unexpected error")
}

func TestPipeline_PromptCarriesRequestData(t *testing.T) {
	pipeline := NewOverviewPipeline(overviewMemoryStore())
	req := overviewRequest()

	var prompt string
	client := &mockAIClient{}
	client.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return(overviewEnvelope, nil)

	pipeline.Generate(context.Background(), req, client, domain.ModelGemini)

	assert.Contains(t, prompt, req.AccountID)
	assert.Contains(t, prompt, "groceries")
	assert.Contains(t, prompt, fmt.Sprintf("%q", "tx-1"))
}
