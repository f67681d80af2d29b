// client_test.go
//go:build !integration
// +build !integration

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

func TestCreateArticleSendsTokenAndEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "Token t0k3n", r.Header.Get("Authorization"))

		var in struct {
			Article model.NewArticle `json:"article"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "A", in.Article.Title)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"article":{"slug":"a-abc123","title":"A","tagList":[],"author":{"username":"dave"}}}`))
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL, Token: "t0k3n"}
	view, err := c.CreateArticle(context.Background(), &model.NewArticle{Title: "A", Description: "B", Body: "C"})
	require.NoError(t, err)
	assert.Equal(t, "a-abc123", view.Slug)
	assert.Equal(t, "dave", view.Author.Username)
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":{"body":["Article not found: [nope]"]}}`))
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL}
	_, err := c.GetArticle(context.Background(), "nope")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, []string{"Article not found: [nope]"}, apiErr.Messages)
}
