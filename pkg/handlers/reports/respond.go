package reports

import (
	"encoding/json"
	"net/http"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/api"
	"github.com/POUPE-AI/poupeai-report-service/pkg/models/envelope"
	"github.com/POUPE-AI/poupeai-report-service/pkg/services/report"
	"github.com/rs/zerolog"
)

// writeResult renders a pipeline result. Cached entities answer 200, fresh
// ones 201; error headers go through the status table.
func writeResult(w http.ResponseWriter, r *http.Request, res report.Result) {
	switch res.Outcome {
	case report.OutcomeCached:
		writeJSON(w, r, http.StatusOK, api.ReportResponse{
			Header:  api.Header{Status: http.StatusOK},
			Content: res.Report,
		})
	case report.OutcomeCreated:
		writeJSON(w, r, http.StatusCreated, api.ReportResponse{
			Header:  api.Header{Status: http.StatusOK},
			Content: res.Report,
		})
	case report.OutcomeHeader:
		writeHeaderResult(w, r, res.Header)
	default:
		writeProblem(w, r, http.StatusInternalServerError, res.Detail)
	}
}

// writeHeaderResult maps an AI response header onto an HTTP result.
func writeHeaderResult(w http.ResponseWriter, r *http.Request, h envelope.Header) {
	header := api.Header{Status: h.Status, Message: h.Message}
	switch h.Status {
	case http.StatusOK:
		writeJSON(w, r, http.StatusOK, api.ReportResponse{Header: header})
	case http.StatusNoContent:
		w.WriteHeader(http.StatusNoContent)
	case http.StatusBadRequest:
		writeJSON(w, r, http.StatusBadRequest, api.ReportResponse{Header: header})
	case http.StatusUnauthorized:
		w.WriteHeader(http.StatusUnauthorized)
	case http.StatusForbidden:
		w.WriteHeader(http.StatusForbidden)
	case http.StatusNotFound:
		writeJSON(w, r, http.StatusNotFound, api.ReportResponse{Header: header})
	case http.StatusInternalServerError:
		writeProblem(w, r, http.StatusInternalServerError, h.Message)
	default:
		status := h.Status
		if status < 100 || status > 599 {
			status = http.StatusInternalServerError
		}
		writeProblem(w, r, status, "an unexpected error occurred")
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	title := http.StatusText(status)
	if title == "" {
		title = "Unexpected Error"
	}
	writeJSON(w, r, status, api.Problem{Title: title, Status: status, Detail: detail})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
