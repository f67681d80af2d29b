// client_integration_test.go
//go:build integration
// +build integration

package client

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// Run against a live server started with the memory store, and a token
// printed by `articles -token peter`.
var c = Client{
	Addr:   "http://localhost:3333",
	Client: http.Client{},
	Token:  os.Getenv("ARTICLES_TOKEN"),
}

func TestPing(t *testing.T) {
	pong, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, pong.Namespace)
}

func TestCreateGetUpdate(t *testing.T) {
	if c.Token == "" {
		t.Skip("ARTICLES_TOKEN not set")
	}
	ctx := context.Background()

	created, err := c.CreateArticle(ctx, &model.NewArticle{Title: "A", Description: "B", Body: "C"})
	require.NoError(t, err)

	got, err := c.GetArticle(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.TagList)
	assert.Zero(t, got.FavoritesCount)

	updated, err := c.UpdateArticle(ctx, created.Slug, &model.ArticleMutation{Description: "new desc"})
	require.NoError(t, err)
	assert.Equal(t, "new desc", updated.Description)
	assert.Equal(t, "A", updated.Title)
}
