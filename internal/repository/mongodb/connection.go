package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Options describe how to reach the users collection.
type Options struct {
	URI        string
	User       string
	Password   string
	Database   string
	Collection string
}

// Connection owns the process-wide Mongo client and the users collection.
type Connection struct {
	client *mongo.Client
	users  *mongo.Collection
}

// NewConnection connects to Mongo, pings it and makes sure the lookup
// indexes exist.
func NewConnection(ctx context.Context, opts Options) (*Connection, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	if opts.User != "" {
		clientOpts.SetAuth(options.Credential{
			Username: opts.User,
			Password: opts.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	conn := &Connection{
		client: client,
		users:  client.Database(opts.Database).Collection(opts.Collection),
	}

	if err := conn.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return conn, nil
}

// Usernames are not unique at the index level: registration is
// check-then-insert.
func (c *Connection) ensureIndexes(ctx context.Context) error {
	_, err := c.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_1"),
		},
		{
			Keys:    bson.D{{Key: "session", Value: 1}},
			Options: options.Index().SetName("session_1").SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (c *Connection) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}
