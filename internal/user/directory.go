package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

var ErrNotFound = errors.New("user not found")

// Directory looks users up by username.
type Directory interface {
	User(ctx context.Context, username string) (*model.User, error)
}

// MemoryDirectory is a fixed set of users, handy for local runs and tests.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryDirectory(users ...*model.User) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]*model.User, len(users))}
	for _, u := range users {
		d.users[u.Username] = u
	}

	return d
}

// Fixtures are the users a memory-backed local run starts with.
func Fixtures() []*model.User {
	return []*model.User{
		{Username: "peter", Email: "peter@example.com", Bio: "writes about go", Image: "https://example.com/peter.png"},
		{Username: "julia", Email: "julia@example.com", Followers: model.NewStringSet("peter")},
	}
}

func (d *MemoryDirectory) User(_ context.Context, username string) (*model.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u

	return &c, nil
}

func (d *MemoryDirectory) Put(u *model.User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := *u
	d.users[u.Username] = &c
}

// RedisDirectory reads user records written by the identity service as
// JSON strings at "<table>:<username>".
type RedisDirectory struct {
	rdb   *redis.Client
	table string
}

func NewRedisDirectory(rdb *redis.Client, table string) *RedisDirectory {
	return &RedisDirectory{rdb: rdb, table: table}
}

func (d *RedisDirectory) User(ctx context.Context, username string) (*model.User, error) {
	raw, err := d.rdb.Get(ctx, d.table+":"+username).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get user %s: %w", username, err)
	}

	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", username, err)
	}

	return &u, nil
}

func (d *RedisDirectory) Put(ctx context.Context, u *model.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}

	return d.rdb.Set(ctx, d.table+":"+u.Username, raw, 0).Err()
}

// Purge deletes every user record in the table and returns how many went.
func (d *RedisDirectory) Purge(ctx context.Context) (int, error) {
	var (
		purged int
		cursor uint64
	)
	for {
		keys, next, err := d.rdb.Scan(ctx, cursor, d.table+":*", 100).Result()
		if err != nil {
			return purged, fmt.Errorf("redis scan %s: %w", d.table, err)
		}
		if len(keys) > 0 {
			n, err := d.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return purged, fmt.Errorf("redis del users: %w", err)
			}
			purged += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return purged, nil
}

// Table is the key prefix the directory reads from.
func (d *RedisDirectory) Table() string {
	return d.table
}

// CachedDirectory keeps recently seen users for ttl. Misses and errors are
// not cached.
type CachedDirectory struct {
	next  Directory
	cache *expirable.LRU[string, model.User]
}

func NewCachedDirectory(next Directory, size int, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:  next,
		cache: expirable.NewLRU[string, model.User](size, nil, ttl),
	}
}

func (d *CachedDirectory) User(ctx context.Context, username string) (*model.User, error) {
	if u, ok := d.cache.Get(username); ok {
		return &u, nil
	}
	u, err := d.next.User(ctx, username)
	if err != nil {
		return nil, err
	}
	d.cache.Add(username, *u)

	return u, nil
}
