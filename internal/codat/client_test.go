package codat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-expense-sync/internal/config"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(&config.Config{
		CodatAPIURL:     server.URL,
		CodatAuthHeader: "Basic test-secret",
	})
	return client, server
}

func TestCreateCompany(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/companies" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Basic test-secret" {
			t.Errorf("Authorization header = %q", got)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["name"] != "Acme" {
			t.Errorf("company name = %q, want Acme", body["name"])
		}

		json.NewEncoder(w).Encode(Company{ID: "company-1", Name: "Acme", Redirect: "https://link.example/company-1"})
	}))
	defer server.Close()

	company, err := client.CreateCompany(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("CreateCompany() error = %v", err)
	}
	if company.ID != "company-1" || company.Redirect == "" {
		t.Errorf("CreateCompany() = %+v", company)
	}
}

func TestCreateCompanyPlanLimit(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"plan limit"}`, http.StatusPaymentRequired)
	}))
	defer server.Close()

	_, err := client.CreateCompany(context.Background(), "Acme")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CreateCompany() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("StatusCode = %d, want 402", apiErr.StatusCode)
	}
	if !apiErr.ClientError() {
		t.Error("ClientError() = false, want true for 402")
	}
}

func TestInitiateSyncExpectsAccepted(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantSyncID string
		wantErr    bool
	}{
		{"accepted", http.StatusAccepted, "sync-1", false},
		{"ok is not accepted", http.StatusOK, "", true},
		{"validation failure", http.StatusBadRequest, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"syncId": "sync-1"})
			}))
			defer server.Close()

			syncID, err := client.InitiateSync(context.Background(), "company-1", []string{"dataset-1"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("InitiateSync() error = %v, wantErr %v", err, tt.wantErr)
			}
			if syncID != tt.wantSyncID {
				t.Errorf("InitiateSync() = %q, want %q", syncID, tt.wantSyncID)
			}
		})
	}
}

func TestListCustomers(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/companies/company-1/data/customers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []Customer{
				{ID: "cust-1", CustomerName: "Customer One", Status: CustomerStatusActive},
				{ID: "cust-2", ContactName: "Archived Contact", Status: "Archived"},
			},
		})
	}))
	defer server.Close()

	customers, err := client.ListCustomers(context.Background(), "company-1")
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("ListCustomers() returned %d customers, want 2", len(customers))
	}
	if customers[0].ID != "cust-1" {
		t.Errorf("first customer id = %q", customers[0].ID)
	}
}

func TestAPIErrorKeepsBody(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"validation":{"errors":[{"message":"accountRef required"}]}}`))
	}))
	defer server.Close()

	_, err := client.CreateExpenseDataset(context.Background(), "company-1", CreateExpenseRequest{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CreateExpenseDataset() error = %v, want *APIError", err)
	}
	if len(apiErr.Body) == 0 {
		t.Error("APIError.Body is empty, want raw validation detail")
	}
}
