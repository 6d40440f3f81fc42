package publish

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/famtree/pkg/cache"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// Defaults for [MongoOptions].
const (
	DefaultDatabase    = "famtree"
	DefaultCollection  = "documents"
	DefaultDialTimeout = 10 * time.Second
)

// MongoOptions configures [NewMongoSink].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// DialTimeout bounds connecting and the initial ping.
	DialTimeout time.Duration
}

// MongoSink upserts records into one MongoDB collection.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSink connects to MongoDB and pings the primary. Connection
// failures carry the NETWORK_ERROR code.
func NewMongoSink(ctx context.Context, opts MongoOptions) (*MongoSink, error) {
	if opts.URI == "" {
		return nil, fterrors.New(fterrors.ErrCodeInvalidConfig, "mongo uri cannot be empty")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.DialTimeout).
		SetServerSelectionTimeout(opts.DialTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeNetwork, err, "connect to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fterrors.Wrap(fterrors.ErrCodeNetwork, err, "ping mongo")
	}

	return &MongoSink{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Upsert replaces the record with the same id or inserts it. It reports
// whether a new record was created. Network and timeout errors are marked
// retryable.
func (s *MongoSink) Upsert(ctx context.Context, rec *Record) (bool, error) {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		err = fmt.Errorf("replace %s: %w", rec.ID, err)
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return false, cache.Retryable(err)
		}
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// Name returns the database-qualified collection name.
func (s *MongoSink) Name() string {
	return s.coll.Database().Name() + "." + s.coll.Name()
}

// Close disconnects the client.
func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Sink = (*MongoSink)(nil)
