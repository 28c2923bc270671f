package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type dish struct {
	Name     string  `bson:"name"`
	Category string  `bson:"category"`
	Price    float64 `bson:"price"`
	Featured bool    `bson:"featured"`
}

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")
	ref, err := m.CreateDocument(ctx, "menuitem", dish{Name: "Risotto", Category: "Pastas", Price: 18, Featured: true})
	require.NoError(t, err)
	require.True(t, primitive.IsValidObjectID(ref))

	_, err = m.CreateDocument(ctx, "menuitem", dish{Name: "Bruschetta", Category: "Starters", Price: 6})
	require.NoError(t, err)

	all := m.GetDocuments(ctx, "menuitem", nil, 0)
	require.Len(t, all, 2)
	require.Equal(t, "Risotto", all[0]["name"], "insertion order is kept")
	require.Contains(t, all[0], IDField)
	_, ok := all[0][CreatedAtField].(primitive.DateTime)
	require.True(t, ok, "timestamps are stored as bson datetimes")

	featured := m.GetDocuments(ctx, "menuitem", Filter{"featured": true}, 0)
	require.Len(t, featured, 1)
	require.Equal(t, "Risotto", featured[0]["name"])

	byPrice := m.GetDocuments(ctx, "menuitem", Filter{"price": 6}, 0)
	require.Len(t, byPrice, 1, "numeric filters match across int and float")

	require.Empty(t, m.GetDocuments(ctx, "menuitem", Filter{"category": "Desserts"}, 0))
	require.NotNil(t, m.GetDocuments(ctx, "special", nil, 0))
}

func TestMemoryLimitAndCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("test")
	for i := 0; i < 5; i++ {
		_, err := m.CreateDocument(ctx, "galleryimage", map[string]any{"url": "u", "order": i})
		require.NoError(t, err)
	}
	got := m.GetDocuments(ctx, "galleryimage", Filter{}, 3)
	require.Len(t, got, 3)

	StripID(got[0])
	again := m.GetDocuments(ctx, "galleryimage", Filter{}, 1)
	require.Contains(t, again[0], IDField, "callers get copies")
}

func TestMemoryCreateDocuments(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("test")
	n, err := m.CreateDocuments(ctx, "menuitem", []any{dish{Name: "A"}, dish{Name: "B"}})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = m.CreateDocuments(ctx, "menuitem", nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Equal(t, 2, m.Count("menuitem"))

	names, err := m.Collections(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"menuitem"}, names)
	require.Equal(t, "test", m.DatabaseName())
}

func TestMemoryRejectsUnencodablePayload(t *testing.T) {
	_, err := NewMemory("").CreateDocument(context.Background(), "x", 42)
	require.ErrorIs(t, err, ErrWriteFailure)
}
