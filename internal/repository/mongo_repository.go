package repository

import (
	"context"
	"errors"

	"go-expense-sync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sync outcomes expire after 24 hours; the demo has no use for older results.
const outcomeTTLSeconds = 86400

// MongoRepository stores each entity type in its own collection. Atomicity is
// delegated to MongoDB's single-document upsert, so no application-level
// locking is needed.
type MongoRepository struct {
	db       *mongo.Database
	pullOps  *mongoPullOperationStore
	outcomes *mongoSyncOutcomeStore
}

func NewMongoRepository(mongodb *database.MongodbDB) *MongoRepository {
	r := &MongoRepository{db: mongodb.DB}
	r.pullOps = &mongoPullOperationStore{repo: r}
	r.outcomes = &mongoSyncOutcomeStore{repo: r}
	return r
}

func (r *MongoRepository) CompletedPullOperations() CompletedPullOperationStore {
	return r.pullOps
}

func (r *MongoRepository) SyncOutcomes() SyncOutcomeStore {
	return r.outcomes
}

// collection fails fast when the backend was selected but never connected, so
// misconfiguration cannot masquerade as "data not yet arrived".
func (r *MongoRepository) collection(name string) (*mongo.Collection, error) {
	if r.db == nil {
		return nil, ErrNotInitialised
	}
	return r.db.Collection(name), nil
}

// EnsureIndexes creates the upsert key and TTL indexes.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	pullOps, err := r.collection("completedPullOperations")
	if err != nil {
		return err
	}

	_, err = pullOps.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "dataType", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	outcomes, err := r.collection("syncOutcomes")
	if err != nil {
		return err
	}

	_, err = outcomes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(outcomeTTLSeconds),
	})
	return err
}

type mongoPullOperationStore struct {
	repo *MongoRepository
}

// Add upserts on (companyId, dataType), so duplicate webhook deliveries
// collapse into one record.
func (s *mongoPullOperationStore) Add(ctx context.Context, op CompletedPullOperation) error {
	collection, err := s.repo.collection("completedPullOperations")
	if err != nil {
		return err
	}

	_, err = collection.UpdateOne(
		ctx,
		bson.M{"companyId": op.CompanyID, "dataType": op.DataType},
		bson.M{"$set": op},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *mongoPullOperationStore) Get(ctx context.Context, companyID, dataType string) (*CompletedPullOperation, error) {
	collection, err := s.repo.collection("completedPullOperations")
	if err != nil {
		return nil, err
	}

	var op CompletedPullOperation
	err = collection.FindOne(ctx, bson.M{"companyId": companyID, "dataType": dataType}).Decode(&op)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &op, nil
}

type mongoSyncOutcomeStore struct {
	repo *MongoRepository
}

// Add upserts on syncId; the last delivered outcome wins.
func (s *mongoSyncOutcomeStore) Add(ctx context.Context, outcome SyncOutcome) error {
	collection, err := s.repo.collection("syncOutcomes")
	if err != nil {
		return err
	}

	_, err = collection.UpdateOne(
		ctx,
		bson.M{"syncId": outcome.SyncID},
		bson.M{"$set": outcome},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *mongoSyncOutcomeStore) Get(ctx context.Context, syncID string) (*SyncOutcome, error) {
	collection, err := s.repo.collection("syncOutcomes")
	if err != nil {
		return nil, err
	}

	var outcome SyncOutcome
	err = collection.FindOne(ctx, bson.M{"syncId": syncID}).Decode(&outcome)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &outcome, nil
}
