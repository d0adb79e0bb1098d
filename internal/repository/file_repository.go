package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// fileDatabase is the on-disk layout: one JSON document holding both stores,
// read and rewritten in full on every mutation.
type fileDatabase struct {
	CompletedPullOperations []CompletedPullOperation `json:"completedPullOperations"`
	SyncOutcomes            []SyncOutcome            `json:"syncOutcomes"`
}

// FileRepository persists both stores in a single JSON file. Every
// read-modify-write cycle is serialized through one mutex, so concurrent
// webhook deliveries cannot interleave and drop an update. The lock lives in
// process memory; running more than one process against the same file is not
// supported (set a Mongo connection string for that).
type FileRepository struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger

	pullOps  *filePullOperationStore
	outcomes *fileSyncOutcomeStore
}

func NewFileRepository(path string, log *zap.Logger) (*FileRepository, error) {
	r := &FileRepository{path: path, log: log}
	r.pullOps = &filePullOperationStore{repo: r}
	r.outcomes = &fileSyncOutcomeStore{repo: r}

	// Fail at startup rather than on the first webhook if the file is
	// unreadable or corrupt.
	if _, err := r.load(); err != nil {
		return nil, fmt.Errorf("open database file %s: %w", path, err)
	}

	return r, nil
}

func (r *FileRepository) CompletedPullOperations() CompletedPullOperationStore {
	return r.pullOps
}

func (r *FileRepository) SyncOutcomes() SyncOutcomeStore {
	return r.outcomes
}

// EnsureIndexes is a no-op for the file backend.
func (r *FileRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

// load reads the whole file. A missing file is an empty database.
func (r *FileRepository) load() (*fileDatabase, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return &fileDatabase{}, nil
	}
	if err != nil {
		return nil, err
	}

	var db fileDatabase
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, err
	}

	return &db, nil
}

func (r *FileRepository) persist(db *fileDatabase) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.path, data, 0644)
}

// mutate runs one serialized read-modify-write cycle.
func (r *FileRepository) mutate(fn func(db *fileDatabase)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return err
	}

	fn(db)

	return r.persist(db)
}

// read runs fn against a consistent snapshot of the file.
func (r *FileRepository) read(fn func(db *fileDatabase)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return err
	}

	fn(db)
	return nil
}

type filePullOperationStore struct {
	repo *FileRepository
}

// Add appends the record. Duplicate webhook deliveries may record the same
// (companyId, dataType) pair more than once; Get only answers existence, so
// duplicates are harmless.
func (s *filePullOperationStore) Add(ctx context.Context, op CompletedPullOperation) error {
	return s.repo.mutate(func(db *fileDatabase) {
		db.CompletedPullOperations = append(db.CompletedPullOperations, op)
	})
}

func (s *filePullOperationStore) Get(ctx context.Context, companyID, dataType string) (*CompletedPullOperation, error) {
	var found *CompletedPullOperation
	err := s.repo.read(func(db *fileDatabase) {
		for i := range db.CompletedPullOperations {
			op := db.CompletedPullOperations[i]
			if op.CompanyID == companyID && op.DataType == dataType {
				found = &op
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}

	return found, nil
}

type fileSyncOutcomeStore struct {
	repo *FileRepository
}

// Add replaces any prior outcome for the same syncId. A sync attempt produces
// exactly one completion webhook, so last write wins.
func (s *fileSyncOutcomeStore) Add(ctx context.Context, outcome SyncOutcome) error {
	return s.repo.mutate(func(db *fileDatabase) {
		for i := range db.SyncOutcomes {
			if db.SyncOutcomes[i].SyncID == outcome.SyncID {
				db.SyncOutcomes[i] = outcome
				return
			}
		}
		db.SyncOutcomes = append(db.SyncOutcomes, outcome)
	})
}

func (s *fileSyncOutcomeStore) Get(ctx context.Context, syncID string) (*SyncOutcome, error) {
	var found *SyncOutcome
	err := s.repo.read(func(db *fileDatabase) {
		for i := range db.SyncOutcomes {
			if db.SyncOutcomes[i].SyncID == syncID {
				outcome := db.SyncOutcomes[i]
				found = &outcome
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}

	return found, nil
}
