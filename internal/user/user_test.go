package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

func newProvider(t *testing.T) (*Provider, *Tokens) {
	t.Helper()
	tokens := NewTokens("test-secret", time.Hour)

	return NewProvider(tokens, NewMemoryDirectory(Fixtures()...)), tokens
}

func requestWith(header string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}

	return r
}

func TestAuthenticate(t *testing.T) {
	p, tokens := newProvider(t)
	token, err := tokens.Issue("peter")
	require.NoError(t, err)
	ghost, err := tokens.Issue("ghost")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"token scheme", "Token " + token, "peter"},
		{"bearer scheme", "Bearer " + token, "peter"},
		{"no header", "", ""},
		{"garbage", "Token not-a-jwt", ""},
		{"unknown scheme", "Basic " + token, ""},
		{"unknown user", "Token " + ghost, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := p.Authenticate(requestWith(tt.header))
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, u)
				return
			}
			require.NotNil(t, u)
			assert.Equal(t, tt.want, u.Username)
		})
	}
}

func TestTokensRejectExpiredAndForeign(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := tokens.Issue("peter")
	require.NoError(t, err)

	_, err = NewTokens("test-secret", time.Minute).Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	foreign, err := NewTokens("other-secret", time.Minute).Issue("peter")
	require.NoError(t, err)
	_, err = NewTokens("test-secret", time.Minute).Parse(foreign)
	assert.Error(t, err)
}

func TestProfileFollowing(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()
	peter := &model.User{Username: "peter"}

	prof, err := p.Profile(ctx, "julia", peter)
	require.NoError(t, err)
	assert.True(t, prof.Following)

	prof, err = p.Profile(ctx, "julia", nil)
	require.NoError(t, err)
	assert.False(t, prof.Following)

	prof, err = p.Profile(ctx, "peter", &model.User{Username: "julia"})
	require.NoError(t, err)
	assert.False(t, prof.Following)
	assert.Equal(t, "writes about go", prof.Bio)
}

func TestProfileUnknownUser(t *testing.T) {
	p, _ := newProvider(t)

	prof, err := p.Profile(context.Background(), "nobody", nil)
	require.NoError(t, err)
	assert.Equal(t, &model.Profile{Username: "nobody"}, prof)
}

type countingDirectory struct {
	Directory
	calls int
}

func (c *countingDirectory) User(ctx context.Context, username string) (*model.User, error) {
	c.calls++
	return c.Directory.User(ctx, username)
}

func TestCachedDirectory(t *testing.T) {
	inner := &countingDirectory{Directory: NewMemoryDirectory(Fixtures()...)}
	d := NewCachedDirectory(inner, 8, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		u, err := d.User(ctx, "peter")
		require.NoError(t, err)
		assert.Equal(t, "peter", u.Username)
	}
	assert.Equal(t, 1, inner.calls)

	_, err := d.User(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.User(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, inner.calls, "misses are not cached")
}

func TestRedisDirectory(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	d := NewRedisDirectory(rdb, "realworld-test-users")
	require.NoError(t, d.Put(ctx, &model.User{Username: "alice", Bio: "hi", Followers: model.NewStringSet("bob")}))

	u, err := d.User(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hi", u.Bio)
	assert.True(t, u.Followers.Has("bob"))

	_, err = d.User(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisDirectoryPurge(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	d := NewRedisDirectory(rdb, "realworld-test-users")
	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, d.Put(ctx, &model.User{Username: name}))
	}
	require.NoError(t, mr.Set("realworld-test-articles:keep-000000", "{}"))

	n, err := d.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = d.User(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, mr.Exists("realworld-test-articles:keep-000000"), "other tables are left alone")
}
