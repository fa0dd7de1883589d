package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/ai"
	storereport "github.com/POUPE-AI/poupeai-report-service/pkg/store/report"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Kind names a supported report category.
type Kind string

const (
	KindOverview Kind = "overview"
	KindExpense  Kind = "expense"
	KindIncome   Kind = "income"
	KindCategory Kind = "category"
	KindInsight  Kind = "insight"
)

// Outcome describes how a pipeline run resolved.
type Outcome int

const (
	// OutcomeCached means the entity was served from the cache.
	OutcomeCached Outcome = iota
	// OutcomeCreated means the entity was freshly generated and persisted.
	OutcomeCreated
	// OutcomeHeader means the backend answered with a non-200 header, echoed
	// in Result.Header.
	OutcomeHeader
	// OutcomeProblem means a fatal pipeline fault, described in Result.Detail.
	OutcomeProblem
)

// Result is the terminal state of one pipeline run. The pipeline always
// resolves to one; it never propagates a raw fault to its caller.
type Result struct {
	Outcome Outcome
	Header  envelope.Header
	Report  domain.Report
	Detail  string
}

// Entity constrains a pointer to a persisted report entity.
type Entity[E any] interface {
	*E
	domain.Report
}

// Pipeline generates one kind of report. A kind contributes only its prompt
// builder and content mapper; everything else is shared. C is the envelope
// content type, E the persisted entity type.
type Pipeline[C any, E any, PE Entity[E]] struct {
	kind        Kind
	store       storereport.Store[E]
	schema      string
	buildPrompt func(dataJSON string) string
	mapContent  func(*C) PE
	now         func() time.Time
	flight      singleflight.Group
}

func NewPipeline[C any, E any, PE Entity[E]](
	kind Kind,
	store storereport.Store[E],
	schema string,
	buildPrompt func(dataJSON string) string,
	mapContent func(*C) PE,
) *Pipeline[C, E, PE] {
	return &Pipeline[C, E, PE]{
		kind:        kind,
		store:       store,
		schema:      schema,
		buildPrompt: buildPrompt,
		mapContent:  mapContent,
		now:         time.Now,
	}
}

// Generate runs the pipeline once for the request. Concurrent calls with the
// same fingerprint are coalesced into a single flight; the entry is evicted
// once persistence completes or fails, so later calls hit the cache instead.
func (p *Pipeline[C, E, PE]) Generate(ctx context.Context, req domain.ReportRequest, client ai.Client, model domain.Model) Result {
	hash := Fingerprint(req, model)

	v, _, _ := p.flight.Do(hash, func() (out any, _ error) {
		defer func() {
			if r := recover(); r != nil {
				zerolog.Ctx(ctx).Error().
					Interface("panic", r).
					Str("hash", hash).
					Msg("report pipeline panicked")
				out = problem(fmt.Sprintf("an unexpected error occurred while generating the report: %v", r))
			}
		}()
		return p.generate(ctx, req, client, model, hash), nil
	})
	p.flight.Forget(hash)
	return v.(Result)
}

func (p *Pipeline[C, E, PE]) generate(ctx context.Context, req domain.ReportRequest, client ai.Client, model domain.Model, hash string) Result {
	logger := zerolog.Ctx(ctx).With().
		Str("kind", string(p.kind)).
		Str("hash", hash).
		Logger()

	cached, err := p.store.Get(ctx, hash)
	if err != nil {
		// Store unavailability must not fail the request; regenerate instead.
		logger.Warn().Err(err).Msg("report cache lookup failed, proceeding without cache")
	} else if cached != nil {
		logger.Info().Msg("report served from cache")
		return Result{Outcome: OutcomeCached, Report: PE(cached)}
	}

	dataJSON, err := json.Marshal(req)
	if err != nil {
		return problem(fmt.Sprintf("encode report request: %v", err))
	}
	prompt := p.buildPrompt(string(dataJSON))

	raw, err := client.GenerateReport(ctx, prompt, p.schema, model)
	if err != nil {
		logger.Error().Err(err).Msg("AI backend invocation failed")
		return problem(fmt.Sprintf("failed to generate the report: %v", err))
	}

	resp, err := envelope.Parse[C](raw)
	if err != nil {
		if errors.Is(err, envelope.ErrEmptyResponse) {
			logger.Error().Msg("AI service returned an empty response")
			return problem("failed to generate the report due to an empty response from the AI service")
		}
		logger.Error().Err(err).Msg("failed to decode the AI response")
		return problem("failed to generate the report due to a malformed AI response")
	}

	if resp.Header.Status != http.StatusOK {
		logger.Error().
			Int("status", resp.Header.Status).
			Str("message", resp.Header.Message).
			Msg("AI service returned an error header")
		return Result{Outcome: OutcomeHeader, Header: resp.Header}
	}
	if resp.Content == nil {
		logger.Error().Msg("AI response content is null")
		return problem("failed to generate the report due to null content in the AI response")
	}

	entity := p.mapContent(resp.Content)
	entity.Stamp(hash, req.AccountID, req.StartDate, req.EndDate, p.now())

	if err := p.store.Put(ctx, (*E)(entity)); err != nil {
		// Best effort: the fresh report is still returned to the caller.
		logger.Warn().Err(err).Msg("failed to cache the generated report")
	} else {
		logger.Info().Msg("report generated and cached")
	}

	return Result{Outcome: OutcomeCreated, Report: entity}
}

func problem(detail string) Result {
	return Result{Outcome: OutcomeProblem, Detail: detail}
}
