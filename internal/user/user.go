// Package user is the identity provider: it resolves the caller of a request
// and renders other users as profiles relative to that caller.
package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

type Provider struct {
	tokens *Tokens
	dir    Directory
}

func NewProvider(tokens *Tokens, dir Directory) *Provider {
	return &Provider{tokens: tokens, dir: dir}
}

// Authenticate returns the caller or nil for anonymous requests. A missing or
// bad token, or a token for a user the directory does not know, is
// anonymous; only directory failures are errors.
func (p *Provider) Authenticate(r *http.Request) (*model.User, error) {
	token := bearer(r.Header.Get("Authorization"))
	if token == "" {
		return nil, nil
	}
	username, err := p.tokens.Parse(token)
	if err != nil {
		return nil, nil
	}

	u, err := p.dir.User(r.Context(), username)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate %s: %w", username, err)
	}

	return u, nil
}

// Profile renders username as seen by viewer, who may be nil. Unknown users
// get a bare profile carrying only the username.
func (p *Provider) Profile(ctx context.Context, username string, viewer *model.User) (*model.Profile, error) {
	u, err := p.dir.User(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return &model.Profile{Username: username}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", username, err)
	}

	return ProfileOf(u, viewer), nil
}

// ProfileOf builds the profile without a directory round trip.
func ProfileOf(u *model.User, viewer *model.User) *model.Profile {
	following := false
	if viewer != nil {
		following = u.Followers.Has(viewer.Username)
	}

	return &model.Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}

// bearer accepts both "Token <jwt>" and "Bearer <jwt>".
func bearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	switch strings.ToLower(parts[0]) {
	case "token", "bearer":
		return parts[1]
	}

	return ""
}
