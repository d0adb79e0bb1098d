// Package repository persists webhook-delivered completion events so the
// polling endpoints can answer "is it ready yet" queries. Two backends exist:
// a JSON-file store for local development and a MongoDB store selected by
// setting a connection string. The choice is made once at process start and
// never changes for the process lifetime. Callers only see the Add/Get
// contracts below, never the backend's internal shape.
package repository

import (
	"context"
	"errors"
	"time"

	"go-expense-sync/internal/config"
	"go-expense-sync/internal/database"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when no record exists for the given key.
// Polling handlers translate it into the 404 retry-later sentinel.
var ErrNotFound = errors.New("record not found")

// ErrNotInitialised is returned when the document-store backend is used
// without a live connection. This is a misconfiguration and must not be
// mistaken for "data not yet arrived".
var ErrNotInitialised = errors.New("mongodb database not initialised")

// Sync results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// SyncOutcome is the terminal result of one synchronization attempt.
// At most one outcome exists per SyncID; later writes overwrite.
type SyncOutcome struct {
	CompanyID    string    `json:"companyId" bson:"companyId"`
	SyncID       string    `json:"syncId" bson:"syncId"`
	Result       string    `json:"result" bson:"result"`
	ErrorMessage string    `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// CompletedPullOperation records that a reference data type has been fully
// pulled from the source system for a company.
type CompletedPullOperation struct {
	CompanyID   string    `json:"companyId" bson:"companyId"`
	DataType    string    `json:"dataType" bson:"dataType"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}

type CompletedPullOperationStore interface {
	Add(ctx context.Context, op CompletedPullOperation) error
	// Get returns ErrNotFound when the (companyID, dataType) pair has never
	// completed a pull.
	Get(ctx context.Context, companyID, dataType string) (*CompletedPullOperation, error)
}

type SyncOutcomeStore interface {
	Add(ctx context.Context, outcome SyncOutcome) error
	// Get returns ErrNotFound while the sync is still pending.
	Get(ctx context.Context, syncID string) (*SyncOutcome, error)
}

// Repository is the facade over the two stores.
type Repository interface {
	CompletedPullOperations() CompletedPullOperationStore
	SyncOutcomes() SyncOutcomeStore
	EnsureIndexes(ctx context.Context) error
}

// NewRepository binds the storage backend chosen at startup.
func NewRepository(cfg *config.Config, db *database.MongodbDB, log *zap.Logger) (Repository, error) {
	if cfg.UseMongo() {
		log.Info("using MongoDB storage backend")
		return NewMongoRepository(db), nil
	}

	log.Info("using file-backed storage backend", zap.String("file", cfg.DBFile))
	return NewFileRepository(cfg.DBFile, log)
}
