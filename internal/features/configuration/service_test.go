package configuration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go-expense-sync/internal/codat"
	"go-expense-sync/internal/config"
	"go-expense-sync/internal/features/webhook"
	"go-expense-sync/internal/repository"

	"go.uber.org/zap"
)

// stubAccountingAPI serves the remote endpoints the options assembly needs.
func stubAccountingAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/companies/company-1/connections", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []codat.Connection{
				{ID: "conn-expense", SourceType: codat.SourceTypeExpense},
				{ID: "conn-accounting", SourceType: codat.SourceTypeAccounting},
			},
		})
	})
	mux.HandleFunc("/companies/company-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(codat.Company{ID: "company-1", Name: "Acme"})
	})
	mux.HandleFunc("/companies/company-1/connections/conn-accounting/data/bankAccounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []codat.BankAccount{
				{ID: "acct-1", AccountName: "Main", Currency: "GBP", Balance: 75},
			},
		})
	})
	mux.HandleFunc("/companies/company-1/data/suppliers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []codat.Supplier{
				{ID: "supp-1", SupplierName: "Paper Co", Status: codat.SupplierStatusActive},
				{ID: "supp-2", SupplierName: "Closed Co", Status: "Archived"},
			},
		})
	})
	mux.HandleFunc("/companies/company-1/data/customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []codat.Customer{
				{ID: "cust-1", ContactName: "Jane", Status: codat.CustomerStatusActive},
			},
		})
	})

	return httptest.NewServer(mux)
}

func newTestService(t *testing.T, apiURL string) (ConfigurationService, repository.Repository) {
	t.Helper()

	repo, err := repository.NewFileRepository(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}
	client := codat.NewClient(&config.Config{CodatAPIURL: apiURL, CodatAuthHeader: "Basic test"})
	return NewConfigurationService(repo, client, zap.NewNop()), repo
}

func completePull(t *testing.T, repo repository.Repository, companyID, dataType string) {
	t.Helper()
	err := repo.CompletedPullOperations().Add(context.Background(), repository.CompletedPullOperation{
		CompanyID:   companyID,
		DataType:    dataType,
		CompletedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
}

func TestGetConfigOptionsNotReadyUntilAllPullsComplete(t *testing.T) {
	server := stubAccountingAPI(t)
	defer server.Close()
	service, repo := newTestService(t, server.URL)
	ctx := context.Background()

	if _, err := service.GetConfigOptions(ctx, "company-1"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("GetConfigOptions() error = %v, want ErrNotReady before any pull", err)
	}

	completePull(t, repo, "company-1", webhook.DataTypeBankAccounts)
	completePull(t, repo, "company-1", webhook.DataTypeCustomers)

	if _, err := service.GetConfigOptions(ctx, "company-1"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("GetConfigOptions() error = %v, want ErrNotReady with suppliers missing", err)
	}

	completePull(t, repo, "company-1", webhook.DataTypeSuppliers)

	options, err := service.GetConfigOptions(ctx, "company-1")
	if err != nil {
		t.Fatalf("GetConfigOptions() error = %v after all pulls complete", err)
	}
	if options.CompanyName != "Acme" {
		t.Errorf("companyName = %q, want Acme", options.CompanyName)
	}
}

func TestGetConfigOptionsAssemblesOptions(t *testing.T) {
	server := stubAccountingAPI(t)
	defer server.Close()
	service, repo := newTestService(t, server.URL)
	ctx := context.Background()

	for _, dataType := range requiredDataTypes {
		completePull(t, repo, "company-1", dataType)
	}

	options, err := service.GetConfigOptions(ctx, "company-1")
	if err != nil {
		t.Fatalf("GetConfigOptions() error = %v", err)
	}

	if len(options.BankAccounts) != 1 {
		t.Fatalf("got %d bank accounts, want 1", len(options.BankAccounts))
	}
	if got := options.BankAccounts[0].Label; got != "(GBP)Main 75" {
		t.Errorf("bank account label = %q, want (GBP)Main 75", got)
	}

	// Archived suppliers are filtered out.
	if len(options.Suppliers) != 1 {
		t.Fatalf("got %d suppliers, want 1", len(options.Suppliers))
	}
	if options.Suppliers[0].Value != "supp-1" {
		t.Errorf("supplier value = %q, want supp-1", options.Suppliers[0].Value)
	}

	// Customers without a customerName fall back to the contact name.
	if len(options.Customers) != 1 {
		t.Fatalf("got %d customers, want 1", len(options.Customers))
	}
	if options.Customers[0].Label != "Jane" {
		t.Errorf("customer label = %q, want Jane", options.Customers[0].Label)
	}
}
