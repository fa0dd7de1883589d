package envelope

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_OKEnvelope(t *testing.T) {
	raw := `{
		"header": {"status": 200},
		"content": {"text_analysis": "steady month", "suggestion": "keep going", "balance": 120.5}
	}`

	resp, err := Parse[OverviewContent](raw)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Header.Status)
	assert.NotNil(t, resp.Content)
	assert.Equal(t, "steady month", resp.Content.TextAnalysis)
	assert.Equal(t, 120.5, resp.Content.Balance)
}

func TestParse_ErrorHeaderWithoutContent(t *testing.T) {
	raw := `{"header": {"status": 404, "message": "no transactions in the period"}}`

	resp, err := Parse[OverviewContent](raw)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Header.Status)
	assert.Equal(t, "no transactions in the period", resp.Header.Message)
	assert.Nil(t, resp.Content)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := Parse[OverviewContent](raw)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	}
}

func TestParse_MalformedInput(t *testing.T) {
	_, err := Parse[OverviewContent]("here is your report: {}")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyResponse)
}

func TestErrorString_RoundTrips(t *testing.T) {
	raw := ErrorString("backend unreachable")

	resp, err := Parse[OverviewContent](raw)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Header.Status)
	assert.Equal(t, "backend unreachable", resp.Header.Message)
	assert.Nil(t, resp.Content)
}

func TestHeaderError_Message(t *testing.T) {
	err := &HeaderError{Header: Header{Status: 403, Message: "forbidden account"}}

	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "forbidden account")
}
