package article

import (
	"context"

	"github.com/SergeyParamoshkin/articles/internal/apperr"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

// ListQuery filters and pages the article listing.
type ListQuery struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

// The operations below are part of the API surface but have no behaviour
// yet. Favorite/Unfavorite should use an atomic set add/remove on the store
// rather than read-modify-write once implemented.

func (s *Service) Delete(ctx context.Context, slug string, viewer *model.User) error {
	return s.fail(ctx, notImplemented("delete"))
}

func (s *Service) Favorite(ctx context.Context, slug string, viewer *model.User) (*model.ArticleView, error) {
	return nil, s.fail(ctx, notImplemented("favorite"))
}

func (s *Service) Unfavorite(ctx context.Context, slug string, viewer *model.User) (*model.ArticleView, error) {
	return nil, s.fail(ctx, notImplemented("unfavorite"))
}

func (s *Service) List(ctx context.Context, q ListQuery, viewer *model.User) ([]*model.ArticleView, error) {
	return nil, s.fail(ctx, notImplemented("list"))
}

func (s *Service) Feed(ctx context.Context, q ListQuery, viewer *model.User) ([]*model.ArticleView, error) {
	return nil, s.fail(ctx, notImplemented("feed"))
}

func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return nil, s.fail(ctx, notImplemented("tags"))
}

func notImplemented(op string) error {
	return apperr.New(apperr.KindNotImplemented, "Not implemented: %s.", op)
}
