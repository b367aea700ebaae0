package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/example/cityshades/domain/product"
	"github.com/example/cityshades/events"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

func newTestService(t *testing.T, seed []product.Product) (*Service, datastore.Store) {
	t.Helper()
	store := datastore.NewMemoryStore(&mockLogger{})
	if seed != nil {
		require.NoError(t, datastore.SaveAll(context.Background(), store, datastore.Products, seed))
	}
	svc := NewService(store, 2, nil, &mockLogger{})
	svc.now = func() time.Time { return base.Add(72 * time.Hour) }
	return svc, store
}

func TestService_ListAndGet(t *testing.T) {
	svc, _ := newTestService(t, fixtures())
	ctx := context.Background()

	page, total, err := svc.List(ctx, Query{Gender: "unisex"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []int64{4, 1}, ids(page))

	p, err := svc.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Sport Wrap", p.Name)

	_, err = svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.Get(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidProductID)
}

func TestService_EmptyCatalog(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	page, total, err := svc.List(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Zero(t, total)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestService_FeaturedListsAreCapped(t *testing.T) {
	svc, _ := newTestService(t, fixtures())
	ctx := context.Background()

	best, err := svc.Bestsellers(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids(best))
	for _, p := range best {
		assert.True(t, bool(p.IsBestseller))
	}

	best, err = svc.Bestsellers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(best))

	fresh, err := svc.NewArrivals(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(fresh))
}

func TestService_CreateAssignsNextID(t *testing.T) {
	svc, store := newTestService(t, fixtures())
	ctx := context.Background()

	p, err := svc.Create(ctx, decodeInput(t, `{"name":"Shield","images":"[\"a.jpg\",\"b.jpg\"]"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.ID)
	assert.Equal(t, product.StringList{"a.jpg", "b.jpg"}, p.Images)

	stored, _, err := datastore.LoadAll[product.Product](ctx, store, datastore.Products)
	require.NoError(t, err)
	require.Len(t, stored, 6)
	assert.Equal(t, "Shield", stored[5].Name)
	assert.Equal(t, product.StringList{"a.jpg", "b.jpg"}, stored[5].Images)
}

func seedRaw(t *testing.T, store datastore.Store, records ...string) {
	t.Helper()
	raw := make([]json.RawMessage, len(records))
	for i, r := range records {
		raw[i] = json.RawMessage(r)
	}
	require.NoError(t, store.Save(context.Background(), datastore.Products, raw))
}

func storedIDs(t *testing.T, store datastore.Store) []int64 {
	t.Helper()
	records, err := store.Load(context.Background(), datastore.Products)
	require.NoError(t, err)
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = datastore.MaxID([]json.RawMessage{r})
	}
	return out
}

func TestService_CreateKeepsLooselyTypedAndUndecodableRecords(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()
	seedRaw(t, store,
		`{"id":1,"name":"Aviator","price":120}`,
		`{"id":2,"name":"Wayfarer","sku":12345}`,
		`{"id":"3","name":"Round"}`,
		`{"id":7,"name":{"en":"Shield"}}`,
	)

	listed, total, err := svc.List(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	wayfarer, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "12345", wayfarer.SKU)
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids(listed))

	p, err := svc.Create(ctx, decodeInput(t, `{"name":"New"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.ID)

	assert.Equal(t, []int64{1, 2, 3, 7, 8}, storedIDs(t, store))

	records, err := store.Load(ctx, datastore.Products)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"name":"Wayfarer","sku":12345}`, string(records[1]))
	assert.JSONEq(t, `{"id":"3","name":"Round"}`, string(records[2]))
	assert.JSONEq(t, `{"id":7,"name":{"en":"Shield"}}`, string(records[3]))

	require.NoError(t, svc.Delete(ctx, 1))
	assert.ElementsMatch(t, []int64{2, 3, 7, 8}, storedIDs(t, store))
}

const storedProducts = `[
  {
    "id": 1,
    "name": "Aviator Classic",
    "brand": "Ray-Ban",
    "sku": "RB-3025",
    "description": "Metal frame",
    "price": 150,
    "category": "aviator",
    "subcategory": "",
    "gender": "men",
    "images": "[\"aviator.jpg\"]",
    "colors": [{"name": "Gold", "hex": "#d4af37"}],
    "sizes": ["M", "L"],
    "stock": "12",
    "is_bestseller": 1,
    "is_new": 0,
    "rating": 4.5,
    "created_at": "2024-01-15T10:30:00.000Z",
    "updated_at": "2024-01-15T10:30:00.000Z"
  },
  {
    "id": 2,
    "name": "Cat Eye",
    "price": "89.50",
    "category": "sunglasses",
    "gender": "women",
    "stock": 3,
    "tags": ["retro"],
    "created_at": "2024-02-01T08:00:00.000Z"
  }
]`

func TestService_WritesPreserveStoredRecords(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	var original []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(storedProducts), &original))
	require.NoError(t, store.Save(ctx, datastore.Products, original))

	// A no-op write leaves every record as it was stored.
	require.NoError(t, svc.products.Update(ctx, func(items []product.Product) ([]product.Product, error) {
		return items, nil
	}))
	records, err := store.Load(ctx, datastore.Products)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for i := range original {
		assert.JSONEq(t, string(original[i]), string(records[i]))
	}

	// Editing one product leaves the other untouched and keeps the edited
	// product's unknown keys and timestamp form.
	_, err = svc.Update(ctx, 2, decodeInput(t, `{"stock": 1}`))
	require.NoError(t, err)

	records, err = store.Load(ctx, datastore.Products)
	require.NoError(t, err)
	assert.JSONEq(t, string(original[0]), string(records[0]))

	var edited map[string]any
	require.NoError(t, json.Unmarshal(records[1], &edited))
	assert.Equal(t, float64(1), edited["stock"])
	assert.Equal(t, []any{"retro"}, edited["tags"])
	assert.Equal(t, "2024-02-01T08:00:00.000Z", edited["created_at"])
	assert.Equal(t, "2024-03-04T12:00:00.000Z", edited["updated_at"])
}

func TestService_CreateFirstProduct(t *testing.T) {
	svc, _ := newTestService(t, nil)

	p, err := svc.Create(context.Background(), ProductInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, DefaultName, p.Name)
}

func TestService_CreateInvalidSavesNothing(t *testing.T) {
	svc, store := newTestService(t, fixtures())
	ctx := context.Background()

	_, err := svc.Create(ctx, decodeInput(t, `{"price":-10}`))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	stored, _, err := datastore.LoadAll[product.Product](ctx, store, datastore.Products)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestService_Update(t *testing.T) {
	svc, _ := newTestService(t, fixtures())
	ctx := context.Background()

	p, err := svc.Update(ctx, 2, decodeInput(t, `{"price":"75","is_new":0}`))
	require.NoError(t, err)
	assert.Equal(t, 75.0, p.Price)
	assert.False(t, bool(p.IsNew))
	assert.Equal(t, "Cat Eye Glam", p.Name)
	assert.Equal(t, base.Add(72*time.Hour), p.UpdatedAt)

	got, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.Price)

	_, err = svc.Update(ctx, 99, decodeInput(t, `{"name":"x"}`))
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_DeleteThenGetIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, fixtures())
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 5))

	_, err := svc.Get(ctx, 5)
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = svc.Delete(ctx, 5)
	assert.ErrorIs(t, err, ErrProductNotFound)

	page, total, err := svc.List(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.NotContains(t, ids(page), int64(5))
}

func TestService_DecrementStock(t *testing.T) {
	seed := fixtures()
	seed[0].Stock = 5
	seed[1].Stock = 1
	svc, _ := newTestService(t, seed)
	ctx := context.Background()

	err := svc.DecrementStock(ctx, []events.OrderLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 4},
		{ProductID: 404, Quantity: 1},
	})
	require.NoError(t, err)

	p1, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p1.Stock)

	p2, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, p2.Stock)
}
