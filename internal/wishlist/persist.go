package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/localharvest/marketclient/pkg/database"
)

// StorageKey namespaces the persisted wishlist state.
const StorageKey = "wishlist-storage"

// Persister stores the favorited product ids between runs.
type Persister interface {
	Load(ctx context.Context) ([]int64, error)
	Save(ctx context.Context, ids []int64) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps ids in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	ids []int64
}

// NewMemoryStore creates an empty in-memory persister.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ids), nil
}

func (m *MemoryStore) Save(_ context.Context, ids []int64) error {
	m.mu.Lock()
	m.ids = slices.Clone(ids)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.ids = nil
	m.mu.Unlock()
	return nil
}

// fileState is the on-disk layout of FileStore.
type fileState struct {
	Key        string  `json:"key"`
	ProductIDs []int64 `json:"product_ids"`
}

// FileStore persists ids as a JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore persists to path. Parent directories are created on save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns no ids when the file does not exist yet.
func (f *FileStore) Load(context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read wishlist file: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode wishlist file: %w", err)
	}
	if state.Key != StorageKey {
		return nil, fmt.Errorf("decode wishlist file: unexpected key %q", state.Key)
	}
	return state.ProductIDs, nil
}

// Save writes through a temp file and rename.
func (f *FileStore) Save(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(fileState{Key: StorageKey, ProductIDs: ids})
	if err != nil {
		return fmt.Errorf("encode wishlist file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create wishlist dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write wishlist file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace wishlist file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove wishlist file: %w", err)
	}
	return nil
}

// RedisStore persists ids as a Redis set, so several clients of one user can
// share them.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore stores ids under "wishlist-storage:product_ids", optionally
// scoped by a prefix such as a user id.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	key := StorageKey + ":product_ids"
	if prefix != "" {
		key = prefix + ":" + key
	}
	return &RedisStore{client: client, key: key}
}

// Key returns the Redis key in use.
func (r *RedisStore) Key() string {
	return r.key
}

func (r *RedisStore) Load(ctx context.Context) (_ []int64, err error) {
	ctx, end := database.TraceCommand(ctx, "SMEMBERS", r.key)
	defer func() { end(err) }()

	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load wishlist ids: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse wishlist id %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Save replaces the set atomically.
func (r *RedisStore) Save(ctx context.Context, ids []int64) (err error) {
	ctx, end := database.TraceCommand(ctx, "MULTI", r.key)
	defer func() { end(err) }()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(ids) > 0 {
			members := make([]any, len(ids))
			for i, id := range ids {
				members[i] = id
			}
			pipe.SAdd(ctx, r.key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save wishlist ids: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) (err error) {
	ctx, end := database.TraceCommand(ctx, "DEL", r.key)
	defer func() { end(err) }()

	if err = r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear wishlist ids: %w", err)
	}
	return nil
}
