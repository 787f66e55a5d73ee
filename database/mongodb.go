package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"hockey-pool-go/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds the MongoDB connection settings
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

// MongoDB wraps a client and the application database handle
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

// ConnectionURI builds the mongodb:// connection string from the config.
// Credentials are optional; when present the application database doubles
// as the auth source.
func (c Config) ConnectionURI() string {
	credentials := ""
	authSource := ""
	if c.Username != "" && c.Password != "" {
		credentials = url.UserPassword(c.Username, c.Password).String() + "@"
		authSource = "?authSource=" + c.Database
	}
	return fmt.Sprintf("mongodb://%s%s:%s/%s%s", credentials, c.Host, c.Port, c.Database, authSource)
}

// NewMongoConnection connects to MongoDB and verifies the connection
func NewMongoConnection(config Config) (*MongoDB, error) {
	logger := logging.WithPrefix("MongoDB")

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionURI()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Infof("Connected to %s:%s database=%s auth=%t",
		config.Host, config.Port, config.Database, config.Username != "")

	return &MongoDB{
		client:   client,
		database: client.Database(config.Database),
	}, nil
}

// Close disconnects the underlying client
func (m *MongoDB) Close() error {
	logger := logging.WithPrefix("MongoDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.client.Disconnect(ctx)
	if err != nil {
		logger.Errorf("Error disconnecting: %v", err)
	} else {
		logger.Info("Connection closed successfully")
	}
	return err
}

// GetCollection returns a handle to a named collection
func (m *MongoDB) GetCollection(name string) *mongo.Collection {
	return m.database.Collection(name)
}
