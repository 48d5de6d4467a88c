package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrFailedToConnect = errors.New("failed to connect to mongo")

// Config represents the MongoDB connection settings.
type Config struct {
	ConnectionURL  string        `env:"MONGODB_URL,required"`
	Database       string        `env:"MONGODB_DATABASE" envDefault:"userapi"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	RetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}

// Connect establishes a MongoDB connection and returns the configured
// database, retrying per the config before giving up.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, error) {
	for attempt := 0; attempt < cfg.RetryAttempts; attempt++ {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client.Database(cfg.Database), nil
			}
			_ = client.Disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnect, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrFailedToConnect
}
