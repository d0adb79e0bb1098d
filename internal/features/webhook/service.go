package webhook

import (
	"context"
	"fmt"
	"time"

	"go-expense-sync/internal/repository"

	"go.uber.org/zap"
)

type WebhookService interface {
	// Process classifies one delivered event and records it. It is safe to
	// call more than once for the same logical event: outcomes overwrite and
	// pull completions only ever need to exist.
	Process(ctx context.Context, event Envelope) error
}

type WebhookServiceImpl struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func NewWebhookService(repo repository.Repository, logger *zap.Logger) WebhookService {
	return &WebhookServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

func (s *WebhookServiceImpl) Process(ctx context.Context, event Envelope) error {
	switch event.RuleType {
	case RuleTypeDataSyncCompleted:
		return s.recordPullCompletion(ctx, event)
	case RuleTypeSyncCompleted, RuleTypeSyncFailed:
		return s.recordSyncOutcome(ctx, event)
	default:
		// The platform sends other alert types too. Anything carrying a
		// syncId is still a sync lifecycle event and counts as a failure;
		// the rest are ignored.
		if event.Data.SyncID != "" {
			return s.recordSyncOutcome(ctx, event)
		}
		s.Logger.Warn("ignoring webhook with unrecognised rule type",
			zap.String("ruleType", event.RuleType),
			zap.String("companyId", event.CompanyID))
		return nil
	}
}

func (s *WebhookServiceImpl) recordPullCompletion(ctx context.Context, event Envelope) error {
	if event.Data.DataType == "" {
		return fmt.Errorf("dataset completion event for company %s has no dataType", event.CompanyID)
	}

	s.Logger.Info("recording completed pull operation",
		zap.String("companyId", event.CompanyID),
		zap.String("dataType", event.Data.DataType))

	// Receipt time is authoritative, not any timestamp in the payload.
	return s.Repo.CompletedPullOperations().Add(ctx, repository.CompletedPullOperation{
		CompanyID:   event.CompanyID,
		DataType:    event.Data.DataType,
		CompletedAt: time.Now(),
	})
}

func (s *WebhookServiceImpl) recordSyncOutcome(ctx context.Context, event Envelope) error {
	if event.Data.SyncID == "" {
		return fmt.Errorf("sync lifecycle event for company %s has no syncId", event.CompanyID)
	}

	result := repository.ResultFailure
	if event.RuleType == RuleTypeSyncCompleted {
		result = repository.ResultSuccess
	}

	outcome := repository.SyncOutcome{
		CompanyID: event.CompanyID,
		SyncID:    event.Data.SyncID,
		Result:    result,
		CreatedAt: time.Now(),
	}
	if result == repository.ResultFailure {
		outcome.ErrorMessage = event.Message
	}

	s.Logger.Info("recording sync outcome",
		zap.String("companyId", event.CompanyID),
		zap.String("syncId", event.Data.SyncID),
		zap.String("result", result))

	return s.Repo.SyncOutcomes().Add(ctx, outcome)
}
