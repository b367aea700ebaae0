package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-monolith/mono/pkg/types"
)

// Collection names used by the storefront.
const (
	Products    = "products"
	Orders      = "orders"
	Subscribers = "subscribers"
	Messages    = "messages"
	Users       = "users"
)

var collectionName = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Store loads and saves whole collections of JSON records.
type Store interface {
	// Load returns the records of a collection. A collection that was never
	// saved, or whose document is not a JSON array, loads as empty.
	Load(ctx context.Context, collection string) ([]json.RawMessage, error)
	// Save replaces the whole collection.
	Save(ctx context.Context, collection string, records []json.RawMessage) error
}

// DocumentStore implements Store on top of a Backend.
// It has no locking of its own; concurrent savers of one collection race and
// the last write wins. Use Collection for serialized read-modify-write.
type DocumentStore struct {
	backend Backend
	logger  types.Logger
}

var _ Store = (*DocumentStore)(nil)

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore(backend Backend, logger types.Logger) *DocumentStore {
	return &DocumentStore{backend: backend, logger: logger}
}

// NewMemoryStore returns a DocumentStore over a fresh MemoryBackend.
func NewMemoryStore(logger types.Logger) *DocumentStore {
	return NewDocumentStore(NewMemoryBackend(), logger)
}

func (s *DocumentStore) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if !collectionName.MatchString(collection) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	data, err := s.backend.Read(ctx, collection)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Collection is not a JSON array, treating as empty",
			"collection", collection, "error", err.Error())
		return []json.RawMessage{}, nil
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (s *DocumentStore) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	if !collectionName.MatchString(collection) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	if records == nil {
		records = []json.RawMessage{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", collection, err)
	}
	data = append(data, '\n')

	if err := s.backend.Write(ctx, collection, data); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}
	return nil
}

// LoadAll decodes every record of a collection into T. Records that do not
// decode are skipped; skipped reports how many.
func LoadAll[T any](ctx context.Context, store Store, collection string) (items []T, skipped int, err error) {
	records, err := store.Load(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	snap := decodeRecords[T](records)
	return snap.items, len(snap.held), nil
}

// SaveAll encodes items and replaces the collection with them.
func SaveAll[T any](ctx context.Context, store Store, collection string, items []T) error {
	records := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode %s record: %w", collection, err)
		}
		records = append(records, data)
	}
	return store.Save(ctx, collection, records)
}

// MaxID returns the largest "id" found in records, reading ids given as
// numbers or numeric strings. Records without a readable id are ignored.
func MaxID(records []json.RawMessage) int64 {
	var maxID int64
	for _, rec := range records {
		var r struct {
			ID json.RawMessage `json:"id"`
		}
		if json.Unmarshal(rec, &r) != nil {
			continue
		}
		text := string(bytes.TrimSpace(r.ID))
		var s string
		if json.Unmarshal(r.ID, &s) == nil {
			text = strings.TrimSpace(s)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err == nil && f > float64(maxID) && f < math.MaxInt64 {
			maxID = int64(f)
		}
	}
	return maxID
}

// heldRecord is a stored record that does not decode as the collection's type.
type heldRecord struct {
	pos int
	raw json.RawMessage
}

// snapshot is one load of a collection: the decoded items, the records that
// did not decode, and the stored text of every decoded record keyed by its
// re-encoding.
type snapshot[T any] struct {
	items     []T
	held      []heldRecord
	originals map[string][]json.RawMessage
}

func decodeRecords[T any](records []json.RawMessage) *snapshot[T] {
	snap := &snapshot[T]{
		items:     make([]T, 0, len(records)),
		originals: make(map[string][]json.RawMessage, len(records)),
	}
	for i, rec := range records {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			snap.held = append(snap.held, heldRecord{pos: i, raw: rec})
			continue
		}
		snap.items = append(snap.items, item)
		if canon, err := json.Marshal(item); err == nil {
			snap.originals[string(canon)] = append(snap.originals[string(canon)], rec)
		}
	}
	return snap
}

func (s *snapshot[T]) heldRecords() []json.RawMessage {
	out := make([]json.RawMessage, len(s.held))
	for i, h := range s.held {
		out[i] = h.raw
	}
	return out
}

// encode turns items back into records. An item whose encoding is unchanged
// since load is written as its original stored text. Held records are put
// back at their original positions.
func (s *snapshot[T]) encode(name string, items []T) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(items)+len(s.held))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s record: %w", name, err)
		}
		if orig := s.originals[string(data)]; len(orig) > 0 {
			s.originals[string(data)] = orig[1:]
			data = orig[0]
		}
		records = append(records, data)
	}
	for _, h := range s.held {
		records = slices.Insert(records, min(h.pos, len(records)), h.raw)
	}
	return records, nil
}

// Collection is a typed view over one named collection. Update calls are
// serialized so that read-modify-write cycles within this process do not
// lose each other's changes.
type Collection[T any] struct {
	store  Store
	name   string
	logger types.Logger
	mu     sync.RWMutex
}

// NewCollection creates a typed collection view.
func NewCollection[T any](store Store, name string, logger types.Logger) *Collection[T] {
	return &Collection[T]{store: store, name: name, logger: logger}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// All loads every decodable record.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.items, nil
}

// Update loads the collection, applies fn, and saves the result. Nothing is
// saved when fn returns an error. Records that do not decode as T are not
// passed to fn and are written back unchanged.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return c.UpdateHeld(ctx, func(items []T, _ []json.RawMessage) ([]T, error) {
		return fn(items)
	})
}

// UpdateHeld is Update with the undecodable records passed to fn as held,
// so that fn can take them into account (for example when assigning ids).
// Held records are always written back unchanged.
func (c *Collection[T]) UpdateHeld(ctx context.Context, fn func(items []T, held []json.RawMessage) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(snap.items, snap.heldRecords())
	if err != nil {
		return err
	}

	records, err := snap.encode(c.name, updated)
	if err != nil {
		return err
	}
	return c.store.Save(ctx, c.name, records)
}

func (c *Collection[T]) load(ctx context.Context) (*snapshot[T], error) {
	records, err := c.store.Load(ctx, c.name)
	if err != nil {
		return nil, err
	}
	snap := decodeRecords[T](records)
	if len(snap.held) > 0 && c.logger != nil {
		c.logger.Warn("Skipped undecodable records", "collection", c.name, "skipped", len(snap.held))
	}
	return snap, nil
}
