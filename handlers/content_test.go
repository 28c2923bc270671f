package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/stretchr/testify/require"
)

const menuImport = `{"items":[
	{"name":"Margherita","description":"San Marzano, fior di latte","price":12.5,"category":"Pizzas","featured":true},
	{"name":"Tiramisu","price":7,"category":"Desserts"},
	{"name":"Carbonara","price":14,"category":"Pastas","vegetarian":false,"image_url":"https://img.test/carbonara.jpg"}
]}`

func TestImportThenListMenu(t *testing.T) {
	g := newEngine(store.NewMemory("test"), nil)

	w := doJSON(t, g, http.MethodPost, "/admin/import-menu", menuImport)
	okStatus(t, w)
	require.Equal(t, "Imported 3 menu items", decodeBody[map[string]string](t, w)["message"])

	w = doJSON(t, g, http.MethodGet, "/api/menu", "")
	okStatus(t, w)
	items := decodeBody[[]schema.MenuItem](t, w)
	require.Len(t, items, 3)

	require.Equal(t, "Margherita", items[0].Name)
	require.Equal(t, 12.5, *items[0].Price)
	require.Equal(t, "San Marzano, fior di latte", *items[0].Description)
	require.True(t, items[0].Featured)
	require.True(t, items[0].Vegetarian)

	require.Nil(t, items[1].Description)
	require.True(t, items[1].Vegetarian)

	require.False(t, items[2].Vegetarian)
	require.Equal(t, "https://img.test/carbonara.jpg", *items[2].ImageURL)

	require.NotContains(t, w.Body.String(), "_id")
	require.NotContains(t, w.Body.String(), "created_at")
}

func TestMenuFilters(t *testing.T) {
	g := newEngine(store.NewMemory("test"), nil)
	okStatus(t, doJSON(t, g, http.MethodPost, "/admin/import-menu", menuImport))

	w := doJSON(t, g, http.MethodGet, "/api/menu?category=Pastas", "")
	okStatus(t, w)
	items := decodeBody[[]schema.MenuItem](t, w)
	require.Len(t, items, 1)
	require.Equal(t, "Carbonara", items[0].Name)

	w = doJSON(t, g, http.MethodGet, "/api/menu?featured=true", "")
	items = decodeBody[[]schema.MenuItem](t, w)
	require.Len(t, items, 1)
	require.Equal(t, "Margherita", items[0].Name)

	w = doJSON(t, g, http.MethodGet, "/api/menu?featured=false", "")
	require.Len(t, decodeBody[[]schema.MenuItem](t, w), 2)

	w = doJSON(t, g, http.MethodGet, "/api/menu?featured=sometimes", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), `"field":"featured"`)
}

func TestSpecialsActiveScoping(t *testing.T) {
	mem := store.NewMemory("test")
	ctx := context.Background()
	_, err := mem.CreateDocument(ctx, "special", schema.Special{Title: "Truffle week", Active: true})
	require.NoError(t, err)
	_, err = mem.CreateDocument(ctx, "special", schema.Special{Title: "Summer terrace", Active: false})
	require.NoError(t, err)
	g := newEngine(mem, nil)

	for _, q := range []string{"", "?active=true", "?active=1", "?active=y", "?active=Y"} {
		w := doJSON(t, g, http.MethodGet, "/api/specials"+q, "")
		okStatus(t, w)
		specials := decodeBody[[]schema.Special](t, w)
		require.Len(t, specials, 1, q)
		require.Equal(t, "Truffle week", specials[0].Title)
	}

	for _, q := range []string{"?active=false", "?active=0", "?active=no", "?active=n"} {
		w := doJSON(t, g, http.MethodGet, "/api/specials"+q, "")
		okStatus(t, w)
		require.Len(t, decodeBody[[]schema.Special](t, w), 2, q)
	}
}

func TestSpecialDefaultsSurviveStorage(t *testing.T) {
	mem := store.NewMemory("test")
	_, err := mem.CreateDocument(context.Background(), "special", store.Document{"title": "Chef's table", "active": true})
	require.NoError(t, err)

	w := doJSON(t, newEngine(mem, nil), http.MethodGet, "/api/specials", "")
	okStatus(t, w)
	specials := decodeBody[[]schema.Special](t, w)
	require.Len(t, specials, 1)
	require.NotNil(t, specials[0].CTAText)
	require.Equal(t, "Reserve Now", *specials[0].CTAText)
}

func TestTestimonialsFeaturedOnly(t *testing.T) {
	mem := store.NewMemory("test")
	ctx := context.Background()
	_, _ = mem.CreateDocument(ctx, "testimonial", schema.Testimonial{Name: "Ana", Rating: 5, Comment: "Superb", Featured: true})
	_, _ = mem.CreateDocument(ctx, "testimonial", schema.Testimonial{Name: "Ben", Rating: 3, Comment: "Fine"})

	w := doJSON(t, newEngine(mem, nil), http.MethodGet, "/api/testimonials", "")
	okStatus(t, w)
	got := decodeBody[[]schema.Testimonial](t, w)
	require.Len(t, got, 1)
	require.Equal(t, "Ana", got[0].Name)
}

func TestGalleryListsEverything(t *testing.T) {
	mem := store.NewMemory("test")
	ctx := context.Background()
	_, _ = mem.CreateDocument(ctx, "galleryimage", store.Document{"url": "https://img.test/1.jpg"})
	_, _ = mem.CreateDocument(ctx, "galleryimage", store.Document{"url": "https://img.test/2.jpg", "order": 2})

	w := doJSON(t, newEngine(mem, nil), http.MethodGet, "/api/gallery", "")
	okStatus(t, w)
	got := decodeBody[[]schema.GalleryImage](t, w)
	require.Len(t, got, 2)
	require.Equal(t, 0, *got[0].Order)
	require.Equal(t, 2, *got[1].Order)
}

func TestListReadsDegradeToEmptyWhenStoreUnavailable(t *testing.T) {
	g := newEngine(store.NewMongo(nil), nil)
	for _, p := range []string{"/api/menu", "/api/specials", "/api/gallery", "/api/testimonials"} {
		w := doJSON(t, g, http.MethodGet, p, "")
		okStatus(t, w)
		require.JSONEq(t, `[]`, w.Body.String(), p)
	}
}

func TestListRejectsDriftedRecords(t *testing.T) {
	mem := store.NewMemory("test")
	_, err := mem.CreateDocument(context.Background(), "menuitem", store.Document{"name": "Ghost", "category": "Pizzas", "price": -4.0})
	require.NoError(t, err)

	w := doJSON(t, newEngine(mem, nil), http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, decodeBody[map[string]string](t, w)["error"], "MenuItem")
}
