package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// Client talks to the articles service. Token, when set, is sent as
// "Authorization: Token <Token>".
type Client struct {
	http.Client
	Addr  string
	Token string
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("articles api: %d %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

type Pong struct {
	Pong      time.Time `json:"pong"`
	Region    string    `json:"region"`
	Namespace string    `json:"namespace"`
}

func (c *Client) Ping(ctx context.Context) (*Pong, error) {
	var pong Pong
	if err := c.do(ctx, http.MethodGet, "/ping", nil, &pong); err != nil {
		return nil, err
	}

	return &pong, nil
}

type articleEnvelope struct {
	Article *model.ArticleView `json:"article"`
}

func (c *Client) CreateArticle(ctx context.Context, in *model.NewArticle) (*model.ArticleView, error) {
	var out articleEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/articles", map[string]interface{}{"article": in}, &out); err != nil {
		return nil, err
	}

	return out.Article, nil
}

func (c *Client) GetArticle(ctx context.Context, slug string) (*model.ArticleView, error) {
	var out articleEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/articles/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}

	return out.Article, nil
}

func (c *Client) UpdateArticle(ctx context.Context, slug string, m *model.ArticleMutation) (*model.ArticleView, error) {
	var out articleEnvelope
	err := c.do(ctx, http.MethodPut, "/api/articles/"+url.PathEscape(slug), map[string]interface{}{"article": m}, &out)
	if err != nil {
		return nil, err
	}

	return out.Article, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env struct {
			Errors struct {
				Body []string `json:"body"`
			} `json:"errors"`
		}
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Messages = env.Errors.Body
		}
		return apiErr
	}

	return json.Unmarshal(raw, out)
}
