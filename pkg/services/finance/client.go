// Package finance fetches account transactions from the upstream finance
// service on behalf of the caller.
package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ErrNoAccessToken means the caller's bearer token was not available; the
// finance service rejects anonymous calls.
var ErrNoAccessToken = errors.New("access token not available for finance service call")

const (
	pageSize   = 1000
	dateLayout = "2006-01-02"
)

type Config struct {
	BaseURL              string
	TransactionsEndpoint string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	endpoint   string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("finance service base URL is not configured")
	}
	endpoint := strings.TrimSuffix(cfg.TransactionsEndpoint, "/")
	if endpoint == "" {
		return nil, errors.New("finance service transactions endpoint is not configured")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		endpoint:   endpoint,
	}, nil
}

// transactionsPage mirrors the finance service listing payload. Newer
// deployments answer with content, older ones with results.
type transactionsPage struct {
	Content []transactionItem `json:"content"`
	Results []transactionItem `json:"results"`
}

type transactionItem struct {
	ID                string          `json:"id"`
	Description       string          `json:"description"`
	Amount            float64         `json:"amount"`
	TransactionDate   string          `json:"transactionDate"`
	IssueDate         string          `json:"issue_date"`
	Category          json.RawMessage `json:"category"`
	PurchaseGroupUUID string          `json:"purchaseGroupUuid"`
	Type              string          `json:"type"`
}

// GetTransactions lists the account's transactions in the period, newest
// first. token is the caller's bearer token, forwarded as-is.
func (c *Client) GetTransactions(ctx context.Context, token string, start, end time.Time) ([]domain.Transaction, error) {
	if token == "" {
		return nil, ErrNoAccessToken
	}

	query := url.Values{}
	query.Set("page", "0")
	query.Set("size", strconv.Itoa(pageSize))
	query.Set("sortBy", "transactionDate")
	query.Set("sortDirection", "DESC")
	query.Set("transactionDateStart", start.Format(dateLayout))
	query.Set("transactionDateEnd", end.Format(dateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call finance service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finance service returned %s", resp.Status)
	}

	var page transactionsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode finance service response: %w", err)
	}

	items := page.Content
	if len(items) == 0 {
		items = page.Results
	}

	logger := zerolog.Ctx(ctx)
	transactions := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		category := decodeCategory(item.Category)
		if category == "" {
			category = item.PurchaseGroupUUID
		}
		transactions = append(transactions, domain.Transaction{
			ID:          item.ID,
			Description: item.Description,
			Amount:      item.Amount,
			Date:        parseTransactionDate(logger, item),
			Category:    category,
			Type:        item.Type,
		})
	}
	return transactions, nil
}

// decodeCategory tolerates the category shapes the finance service has
// answered with over time: an object with name/id, a bare string, or a
// number.
func decodeCategory(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var obj struct {
		Name string          `json:"name"`
		ID   json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Name != "" {
			return obj.Name
		}
		if len(obj.ID) > 0 {
			return strings.Trim(string(obj.ID), `"`)
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func parseTransactionDate(logger *zerolog.Logger, item transactionItem) time.Time {
	if item.TransactionDate != "" {
		for _, layout := range []string{time.RFC3339, dateLayout} {
			if t, err := time.Parse(layout, item.TransactionDate); err == nil {
				return t
			}
		}
		logger.Warn().
			Str("transaction", item.ID).
			Str("date", item.TransactionDate).
			Msg("failed to parse transaction date")
	}
	if item.IssueDate != "" {
		if t, err := time.Parse(dateLayout, item.IssueDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
