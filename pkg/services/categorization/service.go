// Package categorization maps transaction descriptions onto the user's
// categories using the AI backend. Nothing is persisted.
package categorization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/ai"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/report/schemas"
	"github.com/rs/zerolog"
)

var (
	ErrNoDescriptions = errors.New("no descriptions provided for categorization")
	ErrNoCategories   = errors.New("no categories available for categorization")
)

// UserCategory is one of the caller's categories the backend may assign.
type UserCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Request struct {
	Descriptions   []string       `json:"descriptions"`
	UserCategories []UserCategory `json:"user_categories"`
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Categorize returns the categorization content on success. A non-200 header
// from the backend comes back as *envelope.HeaderError; input faults come
// back as ErrNoDescriptions/ErrNoCategories.
func (s *Service) Categorize(ctx context.Context, req Request, client ai.Client, model domain.Model) (*envelope.CategorizationContent, error) {
	logger := zerolog.Ctx(ctx)

	if len(req.Descriptions) == 0 {
		return nil, ErrNoDescriptions
	}
	if len(req.UserCategories) == 0 {
		return nil, ErrNoCategories
	}

	dataJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode categorization request: %w", err)
	}

	prompt := fmt.Sprintf(`Assign the most appropriate user category to each
transaction description below (JSON). Only use categories from the provided
list and answer with one categorization per description:

%s`, dataJSON)

	logger.Info().
		Str("model", model.String()).
		Int("descriptions", len(req.Descriptions)).
		Int("categories", len(req.UserCategories)).
		Msg("generating categorization")

	raw, err := client.GenerateReport(ctx, prompt, schemas.Categorization, model)
	if err != nil {
		return nil, err
	}

	resp, err := envelope.Parse[envelope.CategorizationContent](raw)
	if err != nil {
		logger.Error().Err(err).Msg("failed to decode the categorization response")
		return nil, fmt.Errorf("decode categorization response: %w", err)
	}
	if resp.Header.Status != http.StatusOK {
		return nil, &envelope.HeaderError{Header: resp.Header}
	}
	if resp.Content == nil || resp.Content.Categorizations == nil {
		return nil, errors.New("null content in the categorization response")
	}
	return resp.Content, nil
}
