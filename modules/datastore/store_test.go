package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

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

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newFileStore(t *testing.T) (*DocumentStore, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	require.NoError(t, err)
	return NewDocumentStore(backend, &mockLogger{}), dir
}

func TestDocumentStore_LoadMissingCollectionIsEmpty(t *testing.T) {
	store, _ := newFileStore(t)

	records, err := store.Load(context.Background(), Products)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDocumentStore_LoadUnparsableIsEmpty(t *testing.T) {
	store, dir := newFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), []byte("{not json"), 0o644))

	records, err := store.Load(context.Background(), Orders)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDocumentStore_LoadObjectDocumentIsEmpty(t *testing.T) {
	store, dir := newFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), []byte(`{"id":1}`), 0o644))

	records, err := store.Load(context.Background(), Orders)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDocumentStore_SaveWritesIndentedArray(t *testing.T) {
	store, dir := newFileStore(t)
	ctx := context.Background()

	err := store.Save(ctx, Subscribers, []json.RawMessage{json.RawMessage(`{"id":1}`)})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "subscribers.json"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1\n  }\n]\n", string(data))

	records, err := store.Load(ctx, Subscribers)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"id":1}`, string(records[0]))
}

func TestDocumentStore_SaveNilWritesEmptyArray(t *testing.T) {
	store, dir := newFileStore(t)

	require.NoError(t, store.Save(context.Background(), Messages, nil))

	data, err := os.ReadFile(filepath.Join(dir, "messages.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestDocumentStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, dir := newFileStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, Products, []json.RawMessage{json.RawMessage(`{}`)}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "products.json", entries[0].Name())
}

func TestDocumentStore_InvalidCollectionName(t *testing.T) {
	store := NewMemoryStore(&mockLogger{})
	ctx := context.Background()

	for _, name := range []string{"", "../etc/passwd", "Products", "a b"} {
		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidCollection, name)

		err = store.Save(ctx, name, nil)
		assert.ErrorIs(t, err, ErrInvalidCollection, name)
	}
}

type failingBackend struct {
	MemoryBackend
	err error
}

func (b *failingBackend) Read(context.Context, string) ([]byte, error) { return nil, b.err }
func (b *failingBackend) Write(context.Context, string, []byte) error  { return b.err }

func TestDocumentStore_BackendFailureIsReturned(t *testing.T) {
	boom := errors.New("disk on fire")
	store := NewDocumentStore(&failingBackend{err: boom}, &mockLogger{})
	ctx := context.Background()

	_, err := store.Load(ctx, Products)
	assert.ErrorIs(t, err, boom)

	err = store.Save(ctx, Products, nil)
	assert.ErrorIs(t, err, boom)
}

func TestLoadAll_SkipsUndecodableRecords(t *testing.T) {
	store := NewMemoryStore(&mockLogger{})
	ctx := context.Background()

	err := store.Save(ctx, Users, []json.RawMessage{
		json.RawMessage(`{"id":1,"name":"a"}`),
		json.RawMessage(`"not a record"`),
		json.RawMessage(`{"id":2,"name":"b"}`),
	})
	require.NoError(t, err)

	items, skipped, err := LoadAll[record](ctx, store, Users)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, items)
}

func TestCollection_UpdateRoundTrip(t *testing.T) {
	store, _ := newFileStore(t)
	coll := NewCollection[record](store, Users, &mockLogger{})
	ctx := context.Background()

	assert.Equal(t, Users, coll.Name())

	err := coll.Update(ctx, func(items []record) ([]record, error) {
		return append(items, record{ID: 1, Name: "first"}), nil
	})
	require.NoError(t, err)

	items, err := coll.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: 1, Name: "first"}}, items)
}

func TestCollection_UpdateKeepsHeldAndUnchangedRecords(t *testing.T) {
	store := NewMemoryStore(&mockLogger{})
	coll := NewCollection[record](store, Users, &mockLogger{})
	ctx := context.Background()

	stored := []json.RawMessage{
		json.RawMessage(`{"name":"a","id":1,"extra":true}`),
		json.RawMessage(`{"id":"two","name":7}`),
		json.RawMessage(`{"id":3,"name":"c"}`),
	}
	require.NoError(t, store.Save(ctx, Users, stored))

	var gotHeld []json.RawMessage
	err := coll.UpdateHeld(ctx, func(items []record, held []json.RawMessage) ([]record, error) {
		gotHeld = held
		require.Len(t, items, 2)
		items[1].Name = "changed"
		return items, nil
	})
	require.NoError(t, err)
	require.Len(t, gotHeld, 1)
	assert.JSONEq(t, string(stored[1]), string(gotHeld[0]))

	records, err := store.Load(ctx, Users)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.JSONEq(t, `{"name":"a","id":1,"extra":true}`, string(records[0]))
	assert.JSONEq(t, `{"id":"two","name":7}`, string(records[1]))
	assert.JSONEq(t, `{"id":3,"name":"changed"}`, string(records[2]))
}

func TestMaxID(t *testing.T) {
	tests := []struct {
		name    string
		records []string
		want    int64
	}{
		{"none", nil, 0},
		{"numbers", []string{`{"id":4}`, `{"id":2}`}, 4},
		{"numeric strings", []string{`{"id":" 12 "}`, `{"id":3}`}, 12},
		{"unreadable ids are ignored", []string{`{"id":"abc"}`, `[1,2]`, `{"id":{}}`, `{"id":5}`}, 5},
		{"negative ids are ignored", []string{`{"id":-9}`}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := make([]json.RawMessage, len(tt.records))
			for i, r := range tt.records {
				raw[i] = json.RawMessage(r)
			}
			assert.Equal(t, tt.want, MaxID(raw))
		})
	}
}

func TestCollection_UpdateErrorSavesNothing(t *testing.T) {
	store := NewMemoryStore(&mockLogger{})
	coll := NewCollection[record](store, Users, &mockLogger{})
	ctx := context.Background()

	boom := errors.New("rejected")
	err := coll.Update(ctx, func(items []record) ([]record, error) {
		return append(items, record{ID: 1}), boom
	})
	assert.ErrorIs(t, err, boom)

	items, err := coll.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCollection_ConcurrentUpdatesAreSerialized(t *testing.T) {
	store, _ := newFileStore(t)
	coll := NewCollection[record](store, Orders, &mockLogger{})
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := coll.Update(ctx, func(items []record) ([]record, error) {
				return append(items, record{ID: id}), nil
			})
			assert.NoError(t, err)
		}(int64(i + 1))
	}
	wg.Wait()

	items, err := coll.All(ctx)
	require.NoError(t, err)
	assert.Len(t, items, writers)
}
