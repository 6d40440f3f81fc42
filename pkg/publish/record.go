package publish

import (
	"time"

	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/document"
)

// Record is the stored form of a published document.
//
// The document itself is kept as its serialized JSON text. Stored as nested
// BSON, every generation costs two levels (a node and its children array),
// and MongoDB rejects documents nested deeper than 100 levels, which a full
// genealogy line exceeds. The summary fields stay flat so records can be
// filtered without decoding the body.
type Record struct {
	// ID is the content hash of the serialized document.
	ID          string    `bson:"_id"`
	RunID       string    `bson:"runId"`
	Label       string    `bson:"generatedAt"`
	PublishedAt time.Time `bson:"publishedAt"`
	Size        int       `bson:"size"`
	Title       string    `bson:"title"`
	Clusters    []string  `bson:"clusters"`
	// Document is the serialized document, byte for byte.
	Document string `bson:"document"`
}

// NewRecord builds a record from serialized document bytes. The bytes must
// decode as a document.
func NewRecord(data []byte, runID string, now time.Time) (*Record, error) {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(doc.Clusters))
	for _, s := range doc.Clusters {
		slugs = append(slugs, s.Slug)
	}

	return &Record{
		ID:          cache.Hash(data),
		RunID:       runID,
		Label:       doc.GeneratedAt,
		PublishedAt: now.UTC(),
		Size:        len(data),
		Title:       doc.Master.Title,
		Clusters:    slugs,
		Document:    string(data),
	}, nil
}
