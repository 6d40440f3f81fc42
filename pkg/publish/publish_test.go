package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/cluster"
	"github.com/matzehuels/famtree/pkg/document"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/tree"
)

type memSink struct {
	records map[string]*Record
	fail    []error
	calls   int
	closed  bool
}

func (s *memSink) Upsert(_ context.Context, rec *Record) (bool, error) {
	s.calls++
	if len(s.fail) > 0 {
		err := s.fail[0]
		s.fail = s.fail[1:]
		return false, err
	}
	if s.records == nil {
		s.records = make(map[string]*Record)
	}
	_, existed := s.records[rec.ID]
	s.records[rec.ID] = rec
	return !existed, nil
}

func (s *memSink) Name() string                { return "famtree.documents" }
func (s *memSink) Close(context.Context) error { s.closed = true; return nil }

func sampleDocument(t *testing.T) []byte {
	t.Helper()
	master := &tree.Node{ID: "420", Name: "Adam", Children: []*tree.Node{{ID: "421", Name: "Seth"}}}
	sections := []cluster.Section{{
		Type:      cluster.SectionType,
		Slug:      "judges",
		Title:     "Judges",
		Scripture: []string{},
		Tree:      &cluster.Root{ID: "cluster:judges", Name: "Judges", Children: []*tree.Node{}},
	}}
	data, err := document.New("", "", master, sections).Marshal()
	require.NoError(t, err)
	return data
}

func newTestPublisher(sink Sink) *Publisher {
	p := NewPublisher(sink, log.New(io.Discard))
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600)) }
	runs := 0
	p.newRunID = func() string {
		runs++
		return []string{"run-a", "run-b", "run-c"}[runs-1]
	}
	return p
}

func TestNewRecord(t *testing.T) {
	data := sampleDocument(t)
	now := time.Date(2024, 5, 1, 13, 0, 0, 0, time.FixedZone("x", 3600))

	rec, err := NewRecord(data, "run-1", now)
	require.NoError(t, err)

	assert.Equal(t, cache.Hash(data), rec.ID)
	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, document.DefaultLabel, rec.Label)
	assert.Equal(t, time.UTC, rec.PublishedAt.Location())
	assert.Equal(t, 12, rec.PublishedAt.Hour())
	assert.Equal(t, len(data), rec.Size)
	assert.Equal(t, []string{"judges"}, rec.Clusters)

	assert.Equal(t, document.DefaultMasterTitle, rec.Title)
	assert.Equal(t, string(data), rec.Document)
}

func TestNewRecordMarshalsToBSON(t *testing.T) {
	rec, err := NewRecord(sampleDocument(t), "run-1", time.Now())
	require.NoError(t, err)

	raw, err := bson.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, bson.Raw(raw).Lookup("_id").StringValue())
	assert.Equal(t, document.DefaultMasterTitle, bson.Raw(raw).Lookup("title").StringValue())

	stored, err := document.Unmarshal([]byte(bson.Raw(raw).Lookup("document").StringValue()))
	require.NoError(t, err)
	assert.Equal(t, "Adam", stored.Master.Tree.Name)
}

// maxNesting is the deepest document MongoDB accepts.
const maxNesting = 100

// nesting returns how many document and array levels raw spans.
func nesting(t *testing.T, raw bson.Raw) int {
	t.Helper()
	elems, err := raw.Elements()
	require.NoError(t, err)

	deepest := 0
	for _, e := range elems {
		v := e.Value()
		var d int
		switch v.Type {
		case bson.TypeEmbeddedDocument:
			d = nesting(t, v.Document())
		case bson.TypeArray:
			d = nesting(t, v.Array())
		}
		deepest = max(deepest, d)
	}
	return deepest + 1
}

func TestNewRecordDeepLineage(t *testing.T) {
	// Adam to Jesus spans 77 generations.
	const generations = 77
	master := &tree.Node{ID: "1", Name: "gen 1"}
	leaf := master
	for i := 2; i <= generations; i++ {
		child := &tree.Node{ID: fmt.Sprint(i), Name: fmt.Sprintf("gen %d", i)}
		leaf.Children = []*tree.Node{child}
		leaf = child
	}
	data, err := document.New("", "", master, nil).Marshal()
	require.NoError(t, err)

	rec, err := NewRecord(data, "run-1", time.Now())
	require.NoError(t, err)

	raw, err := bson.Marshal(rec)
	require.NoError(t, err)
	assert.LessOrEqual(t, nesting(t, raw), maxNesting)

	stored, err := document.Unmarshal([]byte(bson.Raw(raw).Lookup("document").StringValue()))
	require.NoError(t, err)
	assert.Equal(t, generations-1, stored.Master.Tree.Depth())
}

func TestNewRecordInvalidDocument(t *testing.T) {
	_, err := NewRecord([]byte("not json"), "run-1", time.Now())
	require.Error(t, err)
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeInvalidFormat))
}

func TestPublishIsIdempotentOnContent(t *testing.T) {
	sink := &memSink{}
	p := newTestPublisher(sink)
	data := sampleDocument(t)

	first, err := p.Publish(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "run-a", first.RunID)

	second, err := p.Publish(context.Background(), data)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "run-b", second.RunID)

	assert.Len(t, sink.records, 1)
	assert.Equal(t, "run-b", sink.records[first.ID].RunID)
}

func TestPublishRetriesTransientErrors(t *testing.T) {
	old := cache.RetryDelay
	cache.RetryDelay = time.Millisecond
	t.Cleanup(func() { cache.RetryDelay = old })

	sink := &memSink{fail: []error{cache.Retryable(errors.New("connection reset"))}}
	res, err := newTestPublisher(sink).Publish(context.Background(), sampleDocument(t))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 2, sink.calls)
}

func TestPublishPermanentError(t *testing.T) {
	sink := &memSink{fail: []error{errors.New("unauthorized")}}
	_, err := newTestPublisher(sink).Publish(context.Background(), sampleDocument(t))
	require.Error(t, err)
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeNetwork))
	assert.Equal(t, 1, sink.calls)
}

func TestPublishClose(t *testing.T) {
	sink := &memSink{}
	require.NoError(t, newTestPublisher(sink).Close(context.Background()))
	assert.True(t, sink.closed)
}

func TestNewMongoSinkRequiresURI(t *testing.T) {
	_, err := NewMongoSink(context.Background(), MongoOptions{})
	require.Error(t, err)
	assert.True(t, fterrors.Is(err, fterrors.ErrCodeInvalidConfig))
}
