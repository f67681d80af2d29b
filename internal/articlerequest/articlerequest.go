package articlerequest

import (
	"net/http"

	"github.com/SergeyParamoshkin/articles/internal/apperr"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

// CreateRequest is the request payload for POST /api/articles.
//
// Bind only checks the envelope. Field validation happens in the service,
// after authentication, so that errors come back in a fixed order.
type CreateRequest struct {
	Article *model.NewArticle `json:"article"`
}

func (a *CreateRequest) Bind(r *http.Request) error {
	// a.Article is nil if no "article" key was sent.
	if a.Article == nil {
		return apperr.New(apperr.KindMalformedRequest, "Article must be specified.")
	}

	return nil
}

// Payload is nil-safe so handlers can pass a failed bind straight through.
func (a *CreateRequest) Payload() *model.NewArticle {
	if a == nil {
		return nil
	}

	return a.Article
}

// UpdateRequest is the request payload for PUT /api/articles/{slug}.
type UpdateRequest struct {
	Article *model.ArticleMutation `json:"article"`
}

func (a *UpdateRequest) Bind(r *http.Request) error {
	if a.Article == nil {
		return apperr.New(apperr.KindMalformedRequest, "Article mutation must be specified.")
	}

	return nil
}

func (a *UpdateRequest) Payload() *model.ArticleMutation {
	if a == nil {
		return nil
	}

	return a.Article
}
