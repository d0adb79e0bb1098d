// Package codat provides a client for the Codat platform API: company and
// connection management, reference data retrieval, and expense dataset
// submission for sync-for-expenses.
package codat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-expense-sync/internal/config"
)

// APIError is a non-success response from the Codat API. The raw body is kept
// so validation detail can be relayed for client-correctable failures.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("codat API error: status %d", e.StatusCode)
}

// ClientError reports whether the failure is client-correctable (4xx).
func (e *APIError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client provides access to the Codat API.
type Client struct {
	apiURL     string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a Codat API client authenticating with the static shared
// secret from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:     strings.TrimSuffix(cfg.CodatAPIURL, "/"),
		authHeader: cfg.CodatAuthHeader,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do sends one JSON request and decodes the response into out (when non-nil).
// Any status other than wantStatus comes back as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: data}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateCompany creates a new Codat company. A 402 means the account's plan
// limit was hit.
func (c *Client) CreateCompany(ctx context.Context, name string) (*Company, error) {
	var company Company
	err := c.do(ctx, http.MethodPost, "/companies", map[string]string{"name": name}, &company, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return &company, nil
}

// GetCompany fetches a company by id.
func (c *Client) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	var company Company
	path := fmt.Sprintf("/companies/%s", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodGet, path, nil, &company, http.StatusOK); err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &company, nil
}

// CreatePartnerExpenseConnection attaches the partner expense source to the
// company.
func (c *Client) CreatePartnerExpenseConnection(ctx context.Context, companyID string) (*Connection, error) {
	var connection Connection
	path := fmt.Sprintf("/companies/%s/connections/partnerExpense", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodPost, path, nil, &connection, http.StatusOK); err != nil {
		return nil, fmt.Errorf("create partner expense connection: %w", err)
	}
	return &connection, nil
}

// ListConnections lists the company's data connections.
func (c *Client) ListConnections(ctx context.Context, companyID string) ([]Connection, error) {
	var page struct {
		Results []Connection `json:"results"`
	}
	path := fmt.Sprintf("/companies/%s/connections", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodGet, path, nil, &page, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return page.Results, nil
}

// CreateWebhookRule registers this application as a webhook consumer for the
// given event type.
func (c *Client) CreateWebhookRule(ctx context.Context, companyID, ruleType, webhookURL string) error {
	body := map[string]any{
		"companyId": companyID,
		"type":      ruleType,
		"notifiers": map[string]string{"webhook": webhookURL},
	}
	if err := c.do(ctx, http.MethodPost, "/rules", body, nil, http.StatusOK); err != nil {
		return fmt.Errorf("create webhook rule %q: %w", ruleType, err)
	}
	return nil
}

// ListBankAccounts lists the accounting connection's bank accounts.
func (c *Client) ListBankAccounts(ctx context.Context, companyID, connectionID string) ([]BankAccount, error) {
	var page struct {
		Results []BankAccount `json:"results"`
	}
	path := fmt.Sprintf("/companies/%s/connections/%s/data/bankAccounts",
		url.PathEscape(companyID), url.PathEscape(connectionID))
	if err := c.do(ctx, http.MethodGet, path, nil, &page, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	return page.Results, nil
}

// ListCustomers lists the company's customers.
func (c *Client) ListCustomers(ctx context.Context, companyID string) ([]Customer, error) {
	var page struct {
		Results []Customer `json:"results"`
	}
	path := fmt.Sprintf("/companies/%s/data/customers", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodGet, path, nil, &page, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return page.Results, nil
}

// ListSuppliers lists the company's suppliers.
func (c *Client) ListSuppliers(ctx context.Context, companyID string) ([]Supplier, error) {
	var page struct {
		Results []Supplier `json:"results"`
	}
	path := fmt.Sprintf("/companies/%s/data/suppliers", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodGet, path, nil, &page, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return page.Results, nil
}

// SaveCompanyConfiguration saves the bank account / customer / supplier
// mapping used when pushing expenses.
func (c *Client) SaveCompanyConfiguration(ctx context.Context, companyID string, configuration CompanyConfiguration) (*CompanyConfiguration, error) {
	var saved CompanyConfiguration
	path := fmt.Sprintf("/companies/%s/sync/expenses/config", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodPost, path, configuration, &saved, http.StatusOK); err != nil {
		return nil, fmt.Errorf("save company configuration: %w", err)
	}
	return &saved, nil
}

// CreateExpenseDataset submits one batch of expense transactions and returns
// the dataset id.
func (c *Client) CreateExpenseDataset(ctx context.Context, companyID string, request CreateExpenseRequest) (string, error) {
	var response struct {
		DatasetID string `json:"datasetId"`
	}
	path := fmt.Sprintf("/companies/%s/sync/expenses/expense-transactions", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodPost, path, request, &response, http.StatusOK); err != nil {
		return "", fmt.Errorf("create expense dataset: %w", err)
	}
	return response.DatasetID, nil
}

// InitiateSync starts synchronization of the given datasets and returns the
// sync id used for status polling. The platform answers 202: the sync itself
// completes asynchronously and its outcome arrives by webhook.
func (c *Client) InitiateSync(ctx context.Context, companyID string, datasetIDs []string) (string, error) {
	var response struct {
		SyncID string `json:"syncId"`
	}
	path := fmt.Sprintf("/companies/%s/sync/expenses/syncs", url.PathEscape(companyID))
	body := map[string][]string{"datasetIds": datasetIDs}
	if err := c.do(ctx, http.MethodPost, path, body, &response, http.StatusAccepted); err != nil {
		return "", fmt.Errorf("initiate sync: %w", err)
	}
	return response.SyncID, nil
}

// GetSyncStatus fetches live status detail for one sync attempt.
func (c *Client) GetSyncStatus(ctx context.Context, companyID, syncID string) (*SyncStatus, error) {
	var status SyncStatus
	path := fmt.Sprintf("/companies/%s/sync/expenses/syncs/%s/status",
		url.PathEscape(companyID), url.PathEscape(syncID))
	if err := c.do(ctx, http.MethodGet, path, nil, &status, http.StatusOK); err != nil {
		return nil, fmt.Errorf("get sync status: %w", err)
	}
	return &status, nil
}

// UploadAttachment relays one attachment file to a synced expense
// transaction.
func (c *Client) UploadAttachment(ctx context.Context, companyID, syncID, transactionID, filename string, file io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	path := fmt.Sprintf("/companies/%s/sync/expenses/syncs/%s/transactions/%s/attachments",
		url.PathEscape(companyID), url.PathEscape(syncID), url.PathEscape(transactionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload attachment: %w", &APIError{StatusCode: resp.StatusCode, Body: data})
	}
	return nil
}
