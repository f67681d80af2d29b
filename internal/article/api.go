package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/articles/internal/articlerequest"
	"github.com/SergeyParamoshkin/articles/internal/articleresponse"
	"github.com/SergeyParamoshkin/articles/internal/errresponse"
)

type Handler struct {
	svc  *Service
	auth Authenticator
	log  *zap.SugaredLogger
}

func NewHandler(svc *Service, auth Authenticator, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, auth: auth, log: log}
}

// Routes returns the article API, meant to be mounted under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(CORS())
	r.Use(Identify(h.auth))

	// RESTy routes for "articles" resource
	r.Route("/articles", func(r chi.Router) {
		r.With(paginate).Get("/", h.ListArticles)
		r.Post("/", h.CreateArticle)               // POST /articles
		r.With(paginate).Get("/feed", h.GetFeed) // GET /articles/feed

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", h.GetArticle)       // GET /articles/my-post-1x2y3z
			r.Put("/", h.UpdateArticle)    // PUT /articles/my-post-1x2y3z
			r.Delete("/", h.DeleteArticle) // DELETE /articles/my-post-1x2y3z
			r.Post("/favorite", h.FavoriteArticle)
			r.Delete("/favorite", h.UnfavoriteArticle)
		})
	})
	r.Get("/tags", h.GetTags)

	return r
}

// CreateArticle persists the posted article and returns its view.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.CreateRequest{}
	if err := render.Bind(r, data); err != nil {
		// An unreadable body counts as a missing envelope. The service
		// still checks the caller first.
		h.logger(r).Debugw("bind create request", "error", err)
		data = nil
	}

	view, err := h.svc.Create(r.Context(), ViewerFrom(r.Context()), data.Payload())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	h.respond(w, r, articleresponse.NewArticleResponse(view))
}

// GetArticle returns the article named by the {slug} URL param.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Get(r.Context(), chi.URLParam(r, "slug"), ViewerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, articleresponse.NewArticleResponse(view))
}

// UpdateArticle applies the posted mutation to an article the caller wrote.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.UpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		h.logger(r).Debugw("bind update request", "error", err)
		data = nil
	}

	view, err := h.svc.Update(r.Context(), chi.URLParam(r, "slug"), ViewerFrom(r.Context()), data.Payload())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, articleresponse.NewArticleResponse(view))
}

func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, h.svc.Delete(r.Context(), chi.URLParam(r, "slug"), ViewerFrom(r.Context())))
}

func (h *Handler) FavoriteArticle(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Favorite(r.Context(), chi.URLParam(r, "slug"), ViewerFrom(r.Context()))
	h.fail(w, r, err)
}

func (h *Handler) UnfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Unfavorite(r.Context(), chi.URLParam(r, "slug"), ViewerFrom(r.Context()))
	h.fail(w, r, err)
}

func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.List(r.Context(), pageFrom(r.Context()), ViewerFrom(r.Context()))
	h.fail(w, r, err)
}

func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Feed(r.Context(), pageFrom(r.Context()), ViewerFrom(r.Context()))
	h.fail(w, r, err)
}

func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Tags(r.Context())
	h.fail(w, r, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		h.logger(r).Errorw("render response", "error", err)
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			h.logger(r).Errorw(err.Error())
		}
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if err := render.Render(w, r, errresponse.From(err)); err != nil {
		h.logger(r).Errorw("render error response", "error", err)
	}
}

func (h *Handler) logger(r *http.Request) *zap.SugaredLogger {
	if l := LoggerFrom(r.Context()); l != nil {
		return l
	}

	return h.log
}
