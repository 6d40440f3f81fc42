package publish

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/famtree/pkg/cache"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/observability"
)

// Sink stores published records.
type Sink interface {
	// Upsert stores rec under rec.ID and reports whether it was new.
	Upsert(ctx context.Context, rec *Record) (bool, error)
	// Name identifies the destination in logs and hooks.
	Name() string
	Close(ctx context.Context) error
}

// Result describes one publish.
type Result struct {
	ID      string
	RunID   string
	Created bool
}

// Publisher builds records from document bytes and writes them to a Sink.
type Publisher struct {
	Sink   Sink
	Logger *log.Logger

	// now and newRunID are replaced in tests.
	now      func() time.Time
	newRunID func() string
}

// NewPublisher returns a publisher writing to sink. A nil logger uses the
// default logger.
func NewPublisher(sink Sink, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{
		Sink:     sink,
		Logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// Publish stores the serialized document. Transient sink failures are
// retried with backoff; the final failure carries the NETWORK_ERROR code.
func (p *Publisher) Publish(ctx context.Context, data []byte) (*Result, error) {
	rec, err := NewRecord(data, p.newRunID(), p.now())
	if err != nil {
		return nil, err
	}

	p.Logger.Info("Publishing document", "id", rec.ID[:12], "run", rec.RunID, "to", p.Sink.Name())

	start := time.Now()
	var created bool
	err = cache.RetryWithBackoff(ctx, func() error {
		var upsertErr error
		created, upsertErr = p.Sink.Upsert(ctx, rec)
		if cache.IsRetryable(upsertErr) {
			p.Logger.Warn("Publish attempt failed", "error", upsertErr)
		}
		return upsertErr
	})
	observability.Publish().OnPublish(ctx, p.Sink.Name(), rec.Size, time.Since(start), err)
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeNetwork, err, "publish to %s", p.Sink.Name())
	}

	return &Result{ID: rec.ID, RunID: rec.RunID, Created: created}, nil
}

// Close closes the sink.
func (p *Publisher) Close(ctx context.Context) error {
	return p.Sink.Close(ctx)
}
