package articleresponse

import (
	"net/http"

	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/userpayload"
)

// ArticleResponse wraps a single article view: {"article": {...}}.
//
// Render is called top-down, first on ArticleResponse, then on its Article,
// then on the author profile.
type ArticleResponse struct {
	Article *ArticlePayload `json:"article"`
}

type ArticlePayload struct {
	*model.ArticleView

	// Shadows ArticleView.Author so the profile gets its own Render.
	Author *userpayload.ProfilePayload `json:"author"`
}

func NewArticleResponse(view *model.ArticleView) *ArticleResponse {
	return &ArticleResponse{
		Article: &ArticlePayload{
			ArticleView: view,
			Author:      userpayload.NewProfilePayload(view.Author),
		},
	}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (rd *ArticlePayload) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.TagList == nil {
		rd.TagList = []string{}
	}

	return nil
}
