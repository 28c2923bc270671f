package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/stretchr/testify/require"
)

func TestImportMenuIsNotIdempotent(t *testing.T) {
	mem := store.NewMemory("test")
	g := newEngine(mem, nil)

	okStatus(t, doJSON(t, g, http.MethodPost, "/admin/import-menu", menuImport))
	okStatus(t, doJSON(t, g, http.MethodPost, "/admin/import-menu", menuImport))
	require.Equal(t, 6, mem.Count("menuitem"))
}

func TestImportMenuValidation(t *testing.T) {
	mem := store.NewMemory("test")
	g := newEngine(mem, nil)

	w := doJSON(t, g, http.MethodPost, "/admin/import-menu", `{"items":[{"name":"Ok","price":1,"category":"Drinks"},{"name":"Bad","price":-1,"category":"Drinks"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), `"field":"items[1].price"`)
	require.Zero(t, mem.Count("menuitem"))

	w = doJSON(t, g, http.MethodPost, "/admin/import-menu", `{"items":[]}`)
	okStatus(t, w)
	require.JSONEq(t, `{"message":"Imported 0 menu items"}`, w.Body.String())
}

func TestImportMenuStoreUnavailable(t *testing.T) {
	w := doJSON(t, newEngine(store.NewMongo(nil), nil), http.MethodPost, "/admin/import-menu", menuImport)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"Database not available"}`, w.Body.String())
}

func TestImportMenuWriteFailure(t *testing.T) {
	w := doJSON(t, newEngine(failingStore{store.NewMemory("test")}, nil), http.MethodPost, "/admin/import-menu", menuImport)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"failed to import menu items"}`, w.Body.String())
}

func TestListReservationsNewestFirst(t *testing.T) {
	mem := store.NewMemory("test")
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	_, _ = mem.CreateDocument(ctx, "reservation", store.Document{"name": "old", "created_at": base})
	_, _ = mem.CreateDocument(ctx, "reservation", store.Document{"name": "undated", "created_at": nil})
	_, _ = mem.CreateDocument(ctx, "reservation", store.Document{"name": "new", "created_at": base.Add(48 * time.Hour)})
	_, _ = mem.CreateDocument(ctx, "reservation", store.Document{"name": "mid", "created_at": base.Add(time.Hour)})
	g := newEngine(mem, nil)

	w := doJSON(t, g, http.MethodGet, "/admin/reservations", "")
	okStatus(t, w)
	got := decodeBody[[]map[string]any](t, w)
	require.Len(t, got, 4)
	names := make([]string, 0, len(got))
	for _, r := range got {
		require.NotContains(t, r, "_id")
		names = append(names, r["name"].(string))
	}
	require.Equal(t, []string{"new", "mid", "old", "undated"}, names)

	w = doJSON(t, g, http.MethodGet, "/admin/reservations?limit=2", "")
	okStatus(t, w)
	require.Len(t, decodeBody[[]map[string]any](t, w), 2)

	w = doJSON(t, g, http.MethodGet, "/admin/reservations?limit=lots", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), `"field":"limit"`)
}

func TestListReservationsStoreUnavailable(t *testing.T) {
	w := doJSON(t, newEngine(store.NewMongo(nil), nil), http.MethodGet, "/admin/reservations", "")
	okStatus(t, w)
	require.JSONEq(t, `[]`, w.Body.String())
}

func galleryRequest(t *testing.T, filename, caption, order string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG fake image bytes"))
		require.NoError(t, err)
	}
	if caption != "" {
		require.NoError(t, mw.WriteField("caption", caption))
	}
	if order != "" {
		require.NoError(t, mw.WriteField("order", order))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/admin/gallery", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadGallery(t *testing.T) {
	mem := store.NewMemory("test")
	media := &fakeMedia{}
	g := newEngine(mem, media)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, galleryRequest(t, "terrace.png", "Terrace at dusk", "3"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[map[string]string](t, w)
	require.True(t, strings.HasPrefix(resp["url"], "https://media.eclat.test/eclat-media/gallery/"))
	require.True(t, strings.HasSuffix(resp["url"], ".png"))
	require.Len(t, media.keys, 1)
	require.Equal(t, "\x89PNG fake image bytes", string(media.body))

	w = doJSON(t, g, http.MethodGet, "/api/gallery", "")
	okStatus(t, w)
	imgs := decodeBody[[]schema.GalleryImage](t, w)
	require.Len(t, imgs, 1)
	require.Equal(t, resp["url"], imgs[0].URL)
	require.Equal(t, "Terrace at dusk", *imgs[0].Caption)
	require.Equal(t, 3, *imgs[0].Order)
}

func TestUploadGalleryErrors(t *testing.T) {
	mem := store.NewMemory("test")

	w := httptest.NewRecorder()
	newEngine(mem, nil).ServeHTTP(w, galleryRequest(t, "a.png", "", ""))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	g := newEngine(mem, &fakeMedia{})
	w = httptest.NewRecorder()
	g.ServeHTTP(w, galleryRequest(t, "", "caption only", ""))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), `"field":"file"`)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, galleryRequest(t, "a.png", "", "first"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), `"field":"order"`)

	w = httptest.NewRecorder()
	newEngine(mem, &fakeMedia{err: errors.New("bucket gone")}).ServeHTTP(w, galleryRequest(t, "a.png", "", ""))
	require.Equal(t, http.StatusBadGateway, w.Code)

	require.Zero(t, mem.Count("galleryimage"))
}
