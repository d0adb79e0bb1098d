package company

import (
	"context"
	"fmt"

	"go-expense-sync/internal/codat"
	"go-expense-sync/internal/config"
	"go-expense-sync/internal/features/webhook"

	"go.uber.org/zap"
)

type CompanyService interface {
	// CreateCompany creates the remote company, attaches the partner expense
	// connection and registers this application's webhook consumers.
	CreateCompany(ctx context.Context, companyName string) (*CreateCompanyResponse, error)
}

type CompanyServiceImpl struct {
	Codat      *codat.Client
	WebhookURL string
	Logger     *zap.Logger
}

func NewCompanyService(client *codat.Client, cfg *config.Config, logger *zap.Logger) CompanyService {
	return &CompanyServiceImpl{
		Codat:      client,
		WebhookURL: cfg.WebhookBaseURL + "/api/webhooks",
		Logger:     logger,
	}
}

func (s *CompanyServiceImpl) CreateCompany(ctx context.Context, companyName string) (*CreateCompanyResponse, error) {
	created, err := s.Codat.CreateCompany(ctx, companyName)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("created company",
		zap.String("companyId", created.ID),
		zap.String("companyName", companyName))

	connection, err := s.Codat.CreatePartnerExpenseConnection(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("created partner expense connection",
		zap.String("companyId", created.ID),
		zap.String("connectionId", connection.ID))

	// The three events that drive the coordination layer: sync lifecycle
	// completion and failure, and reference-data pull completion.
	ruleTypes := []string{
		"sync-complete",
		"sync-failed",
		webhook.RuleTypeDataSyncCompleted,
	}
	for _, ruleType := range ruleTypes {
		if err := s.Codat.CreateWebhookRule(ctx, created.ID, ruleType, s.WebhookURL); err != nil {
			return nil, fmt.Errorf("register webhook consumers for company %s: %w", created.ID, err)
		}
	}

	return &CreateCompanyResponse{
		ID:       created.ID,
		Redirect: created.Redirect,
	}, nil
}
