package expense

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
	"go-expense-sync/internal/repository"

	"go.uber.org/zap"
)

func newTestService(t *testing.T, handler http.Handler) (ExpenseService, repository.Repository, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	repo, err := repository.NewFileRepository(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}
	client := codat.NewClient(&config.Config{CodatAPIURL: server.URL, CodatAuthHeader: "Basic test"})
	return NewExpenseService(repo, client, zap.NewNop()), repo, server
}

func TestSubmitSyncCreatesDatasetThenInitiatesSync(t *testing.T) {
	var dataset codat.CreateExpenseRequest
	var syncedDatasets []string

	mux := http.NewServeMux()
	mux.HandleFunc("/companies/company-1/sync/expenses/expense-transactions", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&dataset); err != nil {
			t.Fatalf("decode dataset request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"datasetId": "dataset-1"})
	})
	mux.HandleFunc("/companies/company-1/sync/expenses/syncs", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DatasetIDs []string `json:"datasetIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode sync request: %v", err)
		}
		syncedDatasets = body.DatasetIDs
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"syncId": "sync-1"})
	})

	service, _, server := newTestService(t, mux)
	defer server.Close()

	items := []ExpenseItem{
		{
			ID:         "expense-1",
			Merchant:   "Cafe",
			Note:       "team lunch",
			NetAmount:  100,
			TaxAmount:  20,
			AccountID:  "acct-1",
			TaxRateID:  "tax-1",
			Categories: []TrackingCategory{{ID: "track-1", Label: "Sales"}},
		},
		{ID: "expense-2", NetAmount: 50, TaxAmount: 10, AccountID: "acct-1", TaxRateID: "tax-1"},
	}

	syncID, err := service.SubmitSync(context.Background(), "company-1", items)
	if err != nil {
		t.Fatalf("SubmitSync() error = %v", err)
	}
	if syncID != "sync-1" {
		t.Errorf("syncId = %q, want sync-1", syncID)
	}

	if len(dataset.Items) != 2 {
		t.Fatalf("dataset has %d items, want 2", len(dataset.Items))
	}
	first := dataset.Items[0]
	if first.Currency != "GBP" {
		t.Errorf("currency = %q, want GBP", first.Currency)
	}
	if first.IssueDate == "" {
		t.Error("issueDate is empty")
	}
	if len(first.Lines) != 1 {
		t.Fatalf("first item has %d lines, want 1", len(first.Lines))
	}
	if first.Lines[0].AccountRef.ID != "acct-1" || first.Lines[0].TaxRateRef.ID != "tax-1" {
		t.Errorf("line refs = %+v", first.Lines[0])
	}
	if len(first.Lines[0].TrackingRefs) != 1 || first.Lines[0].TrackingRefs[0].ID != "track-1" {
		t.Errorf("trackingRefs = %+v", first.Lines[0].TrackingRefs)
	}

	if len(syncedDatasets) != 1 || syncedDatasets[0] != "dataset-1" {
		t.Errorf("synced datasets = %v, want [dataset-1]", syncedDatasets)
	}
}

func TestGetSyncResultPendingIsNotFound(t *testing.T) {
	service, _, server := newTestService(t, http.NewServeMux())
	defer server.Close()

	_, err := service.GetSyncResult(context.Background(), "company-1", "sync-unknown")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetSyncResult() error = %v, want ErrNotFound while pending", err)
	}
}

func TestGetSyncResultMergesLiveDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/companies/company-1/sync/expenses/syncs/sync-1/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(codat.SyncStatus{
			CompanyID:    "company-1",
			SyncID:       "sync-1",
			SyncStatus:   "Failed",
			ErrorMessage: "Account acct-1 does not exist",
		})
	})

	service, repo, server := newTestService(t, mux)
	defer server.Close()
	ctx := context.Background()

	err := repo.SyncOutcomes().Add(ctx, repository.SyncOutcome{
		CompanyID: "company-1",
		SyncID:    "sync-1",
		Result:    repository.ResultFailure,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	result, err := service.GetSyncResult(ctx, "company-1", "sync-1")
	if err != nil {
		t.Fatalf("GetSyncResult() error = %v", err)
	}
	if result.Result != repository.ResultFailure {
		t.Errorf("result = %q, want failure", result.Result)
	}
	if result.ErrorMessage != "Account acct-1 does not exist" {
		t.Errorf("errorMessage = %q, want the live status detail", result.ErrorMessage)
	}
}
