package expense

import (
	"context"
	"fmt"
	"io"
	"time"

	"go-expense-sync/internal/codat"
	"go-expense-sync/internal/repository"

	"go.uber.org/zap"
)

// Submitted expenses are fixed to a single currency in this demo.
const expenseCurrency = "GBP"

const defaultTransactionType = "Payment"

type ExpenseService interface {
	// SubmitSync bundles the given expenses into one dataset, initiates its
	// synchronization and returns the sync id for polling.
	SubmitSync(ctx context.Context, companyID string, items []ExpenseItem) (string, error)
	// GetSyncResult returns repository.ErrNotFound while the completion
	// webhook has not arrived yet.
	GetSyncResult(ctx context.Context, companyID, syncID string) (*GetSyncResponse, error)
	RelayAttachment(ctx context.Context, companyID, syncID, expenseID, filename string, file io.Reader) error
	ImportExpenses(file io.Reader) ([]ExpenseItem, error)
}

type ExpenseServiceImpl struct {
	Repo   repository.Repository
	Codat  *codat.Client
	Logger *zap.Logger
}

func NewExpenseService(repo repository.Repository, client *codat.Client, logger *zap.Logger) ExpenseService {
	return &ExpenseServiceImpl{
		Repo:   repo,
		Codat:  client,
		Logger: logger,
	}
}

func (s *ExpenseServiceImpl) SubmitSync(ctx context.Context, companyID string, items []ExpenseItem) (string, error) {
	request := codat.CreateExpenseRequest{
		Items: make([]codat.ExpenseTransaction, 0, len(items)),
	}

	today := time.Now()
	issueDate := fmt.Sprintf("%d-%d-%d", today.Year(), int(today.Month()), today.Day())

	for _, item := range items {
		transaction := codat.ExpenseTransaction{
			ID:           item.ID,
			Type:         item.Type,
			Currency:     expenseCurrency,
			IssueDate:    issueDate,
			MerchantName: item.Merchant,
			Notes:        item.Note,
			Lines: []codat.ExpenseLine{
				{
					NetAmount:  item.NetAmount,
					TaxAmount:  item.TaxAmount,
					AccountRef: codat.RecordRef{ID: item.AccountID},
					TaxRateRef: codat.RecordRef{ID: item.TaxRateID},
				},
			},
		}
		if transaction.Type == "" {
			transaction.Type = defaultTransactionType
		}
		if item.ContactID != "" {
			transaction.ContactRef = &codat.ContactRef{ID: item.ContactID}
		}
		for _, category := range item.Categories {
			transaction.Lines[0].TrackingRefs = append(transaction.Lines[0].TrackingRefs, codat.RecordRef{ID: category.ID})
		}

		request.Items = append(request.Items, transaction)
	}

	datasetID, err := s.Codat.CreateExpenseDataset(ctx, companyID, request)
	if err != nil {
		return "", err
	}
	s.Logger.Info("created expense dataset",
		zap.String("companyId", companyID),
		zap.String("datasetId", datasetID),
		zap.Int("items", len(items)))

	syncID, err := s.Codat.InitiateSync(ctx, companyID, []string{datasetID})
	if err != nil {
		return "", err
	}
	s.Logger.Info("initiated sync",
		zap.String("companyId", companyID),
		zap.String("syncId", syncID))

	return syncID, nil
}

func (s *ExpenseServiceImpl) GetSyncResult(ctx context.Context, companyID, syncID string) (*GetSyncResponse, error) {
	outcome, err := s.Repo.SyncOutcomes().Get(ctx, syncID)
	if err != nil {
		return nil, err
	}

	response := &GetSyncResponse{
		Result:       outcome.Result,
		ErrorMessage: outcome.ErrorMessage,
	}

	// The webhook only says completed or failed; the live status API can
	// carry a richer error message.
	status, err := s.Codat.GetSyncStatus(ctx, companyID, syncID)
	if err != nil {
		return nil, err
	}
	if status.ErrorMessage != "" {
		response.ErrorMessage = status.ErrorMessage
	}

	return response, nil
}

func (s *ExpenseServiceImpl) RelayAttachment(ctx context.Context, companyID, syncID, expenseID, filename string, file io.Reader) error {
	s.Logger.Info("relaying attachment",
		zap.String("companyId", companyID),
		zap.String("syncId", syncID),
		zap.String("expenseId", expenseID),
		zap.String("filename", filename))

	return s.Codat.UploadAttachment(ctx, companyID, syncID, expenseID, filename, file)
}
