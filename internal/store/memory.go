package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/eclatdining/eclat-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store used by tests and by STORE_DRIVER=memory.
// Records go through a bson round-trip on insert so readers see the same
// value types a Mongo-backed store would return.
type Memory struct {
	mu          sync.RWMutex
	name        string
	collections map[string][]Document
}

func NewMemory(name string) *Memory {
	if name == "" {
		name = "memory"
	}
	return &Memory{name: name, collections: make(map[string][]Document)}
}

func (m *Memory) Available() bool { return true }

func (m *Memory) CreateDocument(ctx context.Context, collection string, payload any) (string, error) {
	doc, err := m.prepare(collection, payload)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], doc)
	m.mu.Unlock()
	metrics.DocumentsWritten.WithLabelValues(collection).Inc()
	return Reference(doc[IDField]), nil
}

func (m *Memory) CreateDocuments(ctx context.Context, collection string, payloads []any) (int, error) {
	docs := make([]Document, 0, len(payloads))
	for _, p := range payloads {
		doc, err := m.prepare(collection, p)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], docs...)
	m.mu.Unlock()
	metrics.DocumentsWritten.WithLabelValues(collection).Add(float64(len(docs)))
	return len(docs), nil
}

func (m *Memory) prepare(collection string, payload any) (Document, error) {
	doc, err := ToDocument(payload, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, collection, err)
	}
	if _, ok := doc[IDField]; !ok {
		doc[IDField] = primitive.NewObjectID()
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, collection, err)
	}
	var stored Document
	if err := bson.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, collection, err)
	}
	return stored, nil
}

func (m *Memory) GetDocuments(ctx context.Context, collection string, filter Filter, limit int) []Document {
	docs, _ := m.FindDocuments(ctx, collection, filter, limit)
	return docs
}

// FindDocuments never fails for an in-process store.
func (m *Memory) FindDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	limit = NormalizeLimit(limit)
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Document{}
	for _, d := range m.collections[collection] {
		if !matches(d, filter) {
			continue
		}
		out = append(out, copyFields(d))
		if len(out) == limit {
			break
		}
	}
	metrics.DocumentsRead.WithLabelValues(collection).Add(float64(len(out)))
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Collections(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) DatabaseName() string { return m.name }

// Count returns the number of records in collection.
func (m *Memory) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func matches(doc Document, filter Filter) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !sameValue(got, want) {
			return false
		}
	}
	return true
}

// sameValue compares like Mongo equality does for scalars: numbers match
// across int/float widths.
func sameValue(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
