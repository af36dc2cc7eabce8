// Package similarity is the vector similarity-search invoker. Documents live
// in an embedded chromem-go store (optionally persisted to disk); invocation
// input is a query text, output is a JSON list of the closest documents,
// capped at top_k.
package similarity

import (
	"context"
	"encoding/json"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/logging"
)

// TypeName is the registry name of this adapter.
const TypeName = "similarity"

// EnvPrefix is the environment fallback prefix, e.g. SIMILARITY_COLLECTION.
const EnvPrefix = "SIMILARITY"

// DefaultTopK bounds the number of hits returned per query.
const DefaultTopK = 10

// Hit is one search result in the invoker's JSON output.
type Hit struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
}

// Document is a text to index, with optional metadata.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Invoker searches one chromem collection.
type Invoker struct {
	collection *chromem.Collection
	topK       int
}

// New constructs the invoker. Keys (each with a SIMILARITY_* environment
// alternative): collection (default "default"), persist_path (optional; an
// empty value keeps the store in memory), top_k (default 10), and the
// embedding backend: embedding_endpoint (required), embedding_api_key,
// embedding_model.
func New(cfg invoke.Config) (invoke.Invoker, error) {
	r := invoke.NewConfigReader(cfg, EnvPrefix)

	endpoint, err := r.Require("embedding_endpoint")
	if err != nil {
		return nil, err
	}
	embed := chromem.NewEmbeddingFuncOpenAICompat(
		endpoint,
		r.String("embedding_api_key", ""),
		r.String("embedding_model", "text-embedding-3-small"),
		nil,
	)
	return newWithEmbedding(r, embed)
}

func newWithEmbedding(r *invoke.ConfigReader, embed chromem.EmbeddingFunc) (*Invoker, error) {
	var (
		db  *chromem.DB
		err error
	)
	if path := r.String("persist_path", ""); path != "" {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(r.String("collection", "default"), nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	return &Invoker{
		collection: collection,
		topK:       r.Int("top_k", DefaultTopK),
	}, nil
}

// Index adds documents to the collection. Indexing happens out of band; the
// capability contract itself only searches.
func (inv *Invoker) Index(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		err := inv.collection.AddDocument(ctx, chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		})
		if err != nil {
			return fmt.Errorf("index document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Invoke searches the collection for input and returns at most top_k hits as
// a JSON list, nearest first. Search failures propagate as errors.
func (inv *Invoker) Invoke(ctx context.Context, input string) (string, error) {
	n := inv.topK
	if count := inv.collection.Count(); count < n {
		n = count
	}

	hits := []Hit{}
	if n > 0 {
		results, err := inv.collection.Query(ctx, input, n, nil, nil)
		if err != nil {
			return "", fmt.Errorf("similarity query: %w", err)
		}
		for _, res := range results {
			hits = append(hits, Hit{
				ID:         res.ID,
				Content:    res.Content,
				Similarity: res.Similarity,
			})
		}
	}

	logging.Op().Debug("similarity search",
		"query_hash", logging.Hash(input), "hits", len(hits))

	out, err := json.Marshal(hits)
	if err != nil {
		return "", fmt.Errorf("encode hits: %w", err)
	}
	return string(out), nil
}
