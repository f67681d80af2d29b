package article

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric/global"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/articles/internal/apperr"
	"github.com/SergeyParamoshkin/articles/internal/metrics"
	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/slug"
	"github.com/SergeyParamoshkin/articles/internal/store"
)

// Store is the article persistence the service needs. Get returns
// store.ErrNotFound for unknown slugs and Insert returns store.ErrExists when
// the slug is taken.
type Store interface {
	Get(ctx context.Context, slug string) (*model.Article, error)
	Insert(ctx context.Context, article *model.Article) error
	Put(ctx context.Context, article *model.Article) error
}

// Profiles renders a username as seen by a viewer (nil for anonymous).
type Profiles interface {
	Profile(ctx context.Context, username string, viewer *model.User) (*model.Profile, error)
}

type Options struct {
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics

	// StoreRetries is the number of attempts per store or profile call.
	StoreRetries  int
	RetryInterval time.Duration

	// SlugAttempts bounds how many fresh slugs Create tries when the store
	// reports a collision.
	SlugAttempts int

	Now     func() time.Time
	NewSlug func(title string) string
}

type Service struct {
	store    Store
	profiles Profiles

	log           *zap.SugaredLogger
	metrics       *metrics.Metrics
	storeRetries  int
	retryInterval time.Duration
	slugAttempts  int
	now           func() time.Time
	newSlug       func(string) string
}

func NewService(st Store, profiles Profiles, opts Options) *Service {
	s := &Service{
		store:         st,
		profiles:      profiles,
		log:           opts.Logger,
		metrics:       opts.Metrics,
		storeRetries:  opts.StoreRetries,
		retryInterval: opts.RetryInterval,
		slugAttempts:  opts.SlugAttempts,
		now:           opts.Now,
		newSlug:       opts.NewSlug,
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(global.Meter("articles"))
	}
	if s.storeRetries < 1 {
		s.storeRetries = 3
	}
	if s.retryInterval <= 0 {
		s.retryInterval = 100 * time.Millisecond
	}
	if s.slugAttempts < 1 {
		s.slugAttempts = 3
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newSlug == nil {
		s.newSlug = slug.Generate
	}

	return s
}

// Create stores a new article authored by viewer.
func (s *Service) Create(ctx context.Context, viewer *model.User, in *model.NewArticle) (*model.ArticleView, error) {
	if viewer == nil {
		return nil, s.fail(ctx, apperr.New(apperr.KindUnauthenticated, "Must be logged in."))
	}
	if in == nil {
		return nil, s.fail(ctx, apperr.New(apperr.KindMalformedRequest, "Article must be specified."))
	}
	if err := validateNewArticle(in); err != nil {
		return nil, s.fail(ctx, err)
	}

	now := s.now().UnixMilli()
	article := &model.Article{
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		CreatedAt:   now,
		UpdatedAt:   now,
		Author:      viewer.Username,
		Marker:      model.StoreMarker,
	}
	if in.TagList != nil {
		article.TagList = model.NewStringSet(in.TagList...)
	}

	if err := s.insert(ctx, article); err != nil {
		return nil, s.fail(ctx, err)
	}

	s.metrics.ArticleCreated(ctx)
	s.logger(ctx).Infow("article created", "slug", article.Slug, "author", article.Author)

	// A user does not follow themself here, so no profile lookup is needed.
	author := &model.Profile{
		Username: viewer.Username,
		Bio:      viewer.Bio,
		Image:    viewer.Image,
	}

	return buildView(article, viewer, author), nil
}

// insert tries fresh slugs until the store accepts one.
func (s *Service) insert(ctx context.Context, article *model.Article) error {
	for attempt := 1; ; attempt++ {
		article.Slug = s.newSlug(article.Title)

		// After an I/O error the write may have landed anyway, so a
		// following ErrExists can be our own record rather than a collision.
		ambiguous := false
		err := s.retry(ctx, "insert", func() error {
			err := s.store.Insert(ctx, article)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, store.ErrExists):
				if !ambiguous {
					return err
				}
				written, getErr := s.store.Get(ctx, article.Slug)
				if getErr != nil {
					return getErr
				}
				if sameInsert(written, article) {
					s.logger(ctx).Infow("insert landed despite error", "slug", article.Slug)
					return nil
				}
				return err
			default:
				ambiguous = true
				return err
			}
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrExists) {
			return apperr.Wrap(err, apperr.KindStoreUnavailable, "Article store unavailable.")
		}
		if attempt >= s.slugAttempts {
			return apperr.Wrap(err, apperr.KindStoreUnavailable, "Could not allocate a unique slug.")
		}
		s.logger(ctx).Warnw("slug collision, regenerating", "slug", article.Slug, "attempt", attempt)
	}
}

// sameInsert reports whether stored is the record this create wrote.
func sameInsert(stored, article *model.Article) bool {
	return stored.Author == article.Author &&
		stored.CreatedAt == article.CreatedAt &&
		stored.Title == article.Title
}

// Get returns the article for slug as seen by viewer, who may be nil.
func (s *Service) Get(ctx context.Context, slug string, viewer *model.User) (*model.ArticleView, error) {
	if slug == "" {
		return nil, s.fail(ctx, apperr.New(apperr.KindMalformedRequest, "Slug must be specified."))
	}
	article, err := s.load(ctx, slug)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	view, err := s.Transform(ctx, article, viewer)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return view, nil
}

// Update applies the non-empty fields of m to the article, which viewer must
// have written.
func (s *Service) Update(ctx context.Context, slug string, viewer *model.User, m *model.ArticleMutation) (*model.ArticleView, error) {
	if m == nil {
		return nil, s.fail(ctx, apperr.New(apperr.KindMalformedRequest, "Article mutation must be specified."))
	}
	if m.Empty() {
		return nil, s.fail(ctx, &apperr.Error{
			Kind:    apperr.KindValidation,
			Message: "At least one field must be specified: [title, description, body].",
		})
	}
	if viewer == nil {
		return nil, s.fail(ctx, apperr.New(apperr.KindUnauthenticated, "Must be logged in."))
	}
	if slug == "" {
		return nil, s.fail(ctx, apperr.New(apperr.KindMalformedRequest, "Slug must be specified."))
	}

	article, err := s.load(ctx, slug)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if article.Author != viewer.Username {
		return nil, s.fail(ctx, apperr.New(apperr.KindForbidden,
			"Article can only be updated by author: [%s]", article.Author))
	}

	if m.Title != "" {
		article.Title = m.Title
	}
	if m.Description != "" {
		article.Description = m.Description
	}
	if m.Body != "" {
		article.Body = m.Body
	}
	article.UpdatedAt = s.now().UnixMilli()

	// Last write wins; there is no version check against concurrent updates.
	if err := s.retry(ctx, "put", func() error { return s.store.Put(ctx, article) }); err != nil {
		return nil, s.fail(ctx, apperr.Wrap(err, apperr.KindStoreUnavailable, "Article store unavailable."))
	}
	s.metrics.ArticleUpdated(ctx)
	s.logger(ctx).Infow("article updated", "slug", slug, "author", viewer.Username)

	updated, err := s.load(ctx, slug)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	view, err := s.Transform(ctx, updated, viewer)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return view, nil
}

func (s *Service) load(ctx context.Context, slug string) (*model.Article, error) {
	var article *model.Article
	err := s.retry(ctx, "get", func() error {
		var err error
		article, err = s.store.Get(ctx, slug)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "Article not found: [%s]", slug)
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindStoreUnavailable, "Article store unavailable.")
	}

	return article, nil
}

// fail logs and counts err before it is handed back to the caller.
func (s *Service) fail(ctx context.Context, err error) error {
	kind := apperr.KindOf(err)
	s.metrics.Failure(ctx, kind.String())

	switch kind {
	case apperr.KindStoreUnavailable, apperr.KindUnknown:
		s.logger(ctx).Errorw("article operation failed", "kind", kind.String(), "error", err)
	default:
		s.logger(ctx).Debugw("article request rejected", "kind", kind.String(), "error", err)
	}

	return err
}

func (s *Service) logger(ctx context.Context) *zap.SugaredLogger {
	if l := LoggerFrom(ctx); l != nil {
		return l
	}

	return s.log
}
