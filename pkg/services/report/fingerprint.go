// Package report implements the generation pipeline shared by every report
// kind: fingerprinting, cache lookup, AI invocation, envelope validation,
// mapping and best-effort persistence.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
)

const dateLayout = "2006-01-02"

// Fingerprint derives the cache key for a logical report request. The digest
// covers the account, the period, the transaction ids in caller-supplied
// order and the model name; changing any of them produces a different key.
// Transaction ids are not sorted or deduplicated, so a reordered but
// otherwise identical request is a distinct key.
func Fingerprint(req domain.ReportRequest, model domain.Model) string {
	var sb strings.Builder
	sb.WriteString(req.AccountID)
	sb.WriteByte('|')
	sb.WriteString(req.StartDate.Format(dateLayout))
	sb.WriteByte('|')
	sb.WriteString(req.EndDate.Format(dateLayout))
	for _, tx := range req.Transactions {
		sb.WriteByte('|')
		sb.WriteString(tx.ID)
	}
	sb.WriteByte('|')
	sb.WriteString(model.String())

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
