package ai

import (
	"context"
	"fmt"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
)

// responseRules are appended to every prompt so that each backend answers
// with the same envelope discipline.
const responseRules = `Follow these rules when generating the report:
1. Always answer with JSON only.
2. Use HTTP response conventions for the header status, e.g. 200.
3. In lists, return at most 5 items; fewer when there is not enough data.
4. Never invent data. If there is not enough data to build the report, return
   a header with an equivalent status and an explanatory message instead.
5. The content field may be omitted when there is not enough data.`

// Aggregator fronts the concrete AI clients: it appends the shared response
// rules to every prompt and dispatches on the model selector.
type Aggregator struct {
	gemini   Client
	deepseek Client
}

func NewAggregator(gemini, deepseek Client) *Aggregator {
	return &Aggregator{gemini: gemini, deepseek: deepseek}
}

func (a *Aggregator) GenerateReport(ctx context.Context, prompt, outputSchema string, model domain.Model) (string, error) {
	prompt = prompt + "\n\n" + responseRules

	switch model {
	case domain.ModelGemini:
		return a.gemini.GenerateReport(ctx, prompt, outputSchema, model)
	case domain.ModelDeepseek:
		return a.deepseek.GenerateReport(ctx, prompt, outputSchema, model)
	default:
		return envelope.ErrorString(fmt.Sprintf("unsupported AI model %q", model)), nil
	}
}
