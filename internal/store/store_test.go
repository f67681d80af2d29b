package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

type articleStore interface {
	Get(ctx context.Context, slug string) (*model.Article, error)
	Insert(ctx context.Context, a *model.Article) error
	Put(ctx context.Context, a *model.Article) error
	Scan(ctx context.Context) ([]*model.Article, error)
	Delete(ctx context.Context, slug string) error
}

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedis(rdb, "realworld-test-articles"), mr
}

func backends(t *testing.T) map[string]articleStore {
	rs, _ := newRedisStore(t)

	return map[string]articleStore{
		"memory": NewMemory(),
		"redis":  rs,
	}
}

func fixture(slug string) *model.Article {
	return &model.Article{
		Slug:        slug,
		Title:       "Hi",
		Description: "greeting",
		Body:        "hello there",
		CreatedAt:   1000,
		UpdatedAt:   1000,
		Author:      "peter",
		TagList:     model.NewStringSet("go", "chi"),
		Marker:      model.StoreMarker,
	}
}

func TestStores(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "hi-000000")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Insert(ctx, fixture("hi-000000")))
			assert.ErrorIs(t, s.Insert(ctx, fixture("hi-000000")), ErrExists)

			got, err := s.Get(ctx, "hi-000000")
			require.NoError(t, err)
			assert.Equal(t, fixture("hi-000000"), got)
			assert.Nil(t, got.FavoritedBy, "absent set must stay absent")

			got.Body = "changed"
			got.FavoritedBy = model.NewStringSet("julia")
			require.NoError(t, s.Put(ctx, got))

			again, err := s.Get(ctx, "hi-000000")
			require.NoError(t, err)
			assert.Equal(t, "changed", again.Body)
			assert.True(t, again.FavoritedBy.Has("julia"))

			require.NoError(t, s.Insert(ctx, fixture("sup-000001")))
			all, err := s.Scan(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)

			require.NoError(t, s.Delete(ctx, "hi-000000"))
			assert.ErrorIs(t, s.Delete(ctx, "hi-000000"), ErrNotFound)
		})
	}
}

func TestMemoryDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	a := fixture("alo-000002")
	m := NewMemory(a)

	a.Title = "mutated"
	*a.TagList = append(*a.TagList, "leak")

	got, err := m.Get(ctx, "alo-000002")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Title)
	assert.Equal(t, []string{"chi", "go"}, got.TagList.Values())
}

func TestRedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	s := NewRedis(rdb, "realworld-test-articles")
	mr.Close()

	_, err = s.Get(context.Background(), "whatever")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisScanIgnoresOtherTables(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, mr.Set("realworld-test-users:peter", `{"username":"peter"}`))
	require.NoError(t, s.Insert(context.Background(), fixture("bonjour-000003")))

	all, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "bonjour-000003", all[0].Slug)
}
