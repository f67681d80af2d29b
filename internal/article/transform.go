package article

import (
	"context"

	"github.com/SergeyParamoshkin/articles/internal/apperr"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

// Transform turns a stored article into the view returned to viewer (nil for
// anonymous). It only reads: the store is never written and the passed
// record is not modified. Its output is not a stored record and must not be
// fed back in.
func (s *Service) Transform(ctx context.Context, a *model.Article, viewer *model.User) (*model.ArticleView, error) {
	var author *model.Profile
	err := s.retry(ctx, "profile", func() error {
		var err error
		author, err = s.profiles.Profile(ctx, a.Author, viewer)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindStoreUnavailable, "Identity provider unavailable.")
	}

	return buildView(a, viewer, author), nil
}

func buildView(a *model.Article, viewer *model.User, author *model.Profile) *model.ArticleView {
	favorited := false
	if viewer != nil {
		favorited = a.FavoritedBy.Has(viewer.Username)
	}

	return &model.ArticleView{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        a.TagList.Values(),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      favorited,
		FavoritesCount: a.FavoritedBy.Len(),
		Author:         author,
	}
}
