package database

import (
	"context"
	"time"

	"go-expense-sync/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MongodbDB wraps the process-wide database handle. DB is nil when the
// document-store backend was not selected at startup.
type MongodbDB struct {
	DB *mongo.Database
}

// NewDatabase connects to MongoDB when a connection string is configured.
// Without one it returns an unconnected handle and the file-backed store
// is used instead.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*MongodbDB, error) {
	if !cfg.UseMongo() {
		log.Info("no MongoDB connection string set, using file-backed storage")
		return &MongodbDB{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Info("Connected to MongoDB", zap.String("database", cfg.DBName))

	db := client.Database(cfg.DBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Disconnecting from MongoDB...")
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{DB: db}, nil
}
