package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eclatdining/eclat-api/internal/config"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newEngine wires every public and admin route without auth guards.
func newEngine(s store.Store, media MediaUploader) *gin.Engine {
	g := gin.New()
	NewContentHandler(s).Register(g)
	NewIntakeHandler(s).Register(g)
	NewAdminHandler(s, media).Register(g, nil, nil)
	NewDiagnosticsHandler(s, config.DatabaseConfig{}).Register(g)
	return g
}

func doJSON(t *testing.T, g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// failingStore accepts reads but rejects every write.
type failingStore struct {
	*store.Memory
}

func (failingStore) CreateDocument(ctx context.Context, collection string, payload any) (string, error) {
	return "", fmt.Errorf("%w: insert into %s: connection reset", store.ErrWriteFailure, collection)
}

func (failingStore) CreateDocuments(ctx context.Context, collection string, payloads []any) (int, error) {
	return 0, fmt.Errorf("%w: insert into %s: connection reset", store.ErrWriteFailure, collection)
}

// brokenListing is connected but cannot enumerate collections.
type brokenListing struct {
	*store.Memory
}

func (brokenListing) Collections(ctx context.Context) ([]string, error) {
	return nil, errors.New("(Unauthorized) not authorized on eclat to execute command { listCollections: 1 }")
}

// unreadableStore is connected but every query fails.
type unreadableStore struct {
	*store.Memory
}

func (unreadableStore) FindDocuments(ctx context.Context, collection string, filter store.Filter, limit int) ([]store.Document, error) {
	return nil, fmt.Errorf("%w: find in %s: connection reset", store.ErrReadFailure, collection)
}

type fakeMedia struct {
	keys []string
	body []byte
	err  error
}

func (f *fakeMedia) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	f.body = b
	return "https://media.eclat.test/eclat-media/" + key, nil
}

func okStatus(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
