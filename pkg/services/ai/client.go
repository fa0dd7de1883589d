// Package ai implements the generative-AI backend clients and the retry
// policy wrapping them.
package ai

import (
	"context"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
)

// Client generates a report for a prompt, instructing the backend to answer
// with JSON conforming to outputSchema. Implementations never surface
// transport faults: transient errors are retried and anything unrecoverable
// comes back as a synthesized error envelope. The error return is reserved
// for context cancellation.
type Client interface {
	GenerateReport(ctx context.Context, prompt, outputSchema string, model domain.Model) (string, error)
}
