package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/sup/internal/shared/config"
)

// NewMongo creates the MongoDB client and database handle used by the
// repositories. The client is verified with a ping on application start and
// disconnected on shutdown; connection pooling is left to the driver.
func NewMongo(cfg *config.Config, logger zerolog.Logger, lc fx.Lifecycle) (*mongo.Client, *mongo.Database, error) {
	logger.Debug().Str("DATABASE_URI", cfg.DatabaseURI).Msg("Initializing database client")

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DatabaseURI))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create database client")
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
				logger.Error().Err(err).Msg("Database ping failed")
				return err
			}
			logger.Debug().Str("database", cfg.DatabaseName).Msg("Database connection established")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Debug().Msg("Disconnecting database client")
			return client.Disconnect(ctx)
		},
	})

	return client, client.Database(cfg.DatabaseName), nil
}
