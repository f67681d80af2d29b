// Package maintenance serves the operational endpoints: ping and the
// dev/test data purge.
package maintenance

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// ErrProtectedTable is returned when purging a table that is not a dev or
// test table.
var ErrProtectedTable = errors.New("table is neither dev nor test, not purging")

const purgeConcurrency = 8

type Store interface {
	Scan(ctx context.Context) ([]*model.Article, error)
	Delete(ctx context.Context, slug string) error
}

// Purger empties a table the articles store does not own, such as the
// user directory.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

type extraTable struct {
	name   string
	purger Purger
}

type Maintenance struct {
	store     Store
	table     string
	extra     []extraTable
	region    string
	namespace string
	log       *zap.SugaredLogger
	now       func() time.Time
}

func New(store Store, table, region, namespace string, log *zap.SugaredLogger) *Maintenance {
	return &Maintenance{
		store:     store,
		table:     table,
		region:    region,
		namespace: namespace,
		log:       log,
		now:       time.Now,
	}
}

// WithTable adds a table to be emptied by Purge alongside the articles.
func (m *Maintenance) WithTable(name string, p Purger) *Maintenance {
	m.extra = append(m.extra, extraTable{name: name, purger: p})

	return m
}

type Pong struct {
	Pong      time.Time `json:"pong"`
	Region    string    `json:"region"`
	Namespace string    `json:"namespace"`
}

func (p *Pong) Render(w http.ResponseWriter, r *http.Request) error { return nil }

func (m *Maintenance) Ping() *Pong {
	return &Pong{Pong: m.now(), Region: m.region, Namespace: m.namespace}
}

// Purge deletes every article and empties the tables added with WithTable.
// It refuses to touch anything if one table name contains neither "dev" nor
// "test". The count is the number of records removed across all tables.
func (m *Maintenance) Purge(ctx context.Context) (int, error) {
	for _, name := range m.tableNames() {
		if !purgeable(name) {
			m.log.Warnw("refusing to purge", "table", name)
			return 0, ErrProtectedTable
		}
	}

	all, err := m.store.Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", m.table, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(purgeConcurrency)
	for _, a := range all {
		slug := a.Slug
		g.Go(func() error {
			return m.store.Delete(gctx, slug)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("purge %s: %w", m.table, err)
	}
	m.log.Infow("purged", "table", m.table, "records", len(all))

	total := len(all)
	for _, t := range m.extra {
		n, err := t.purger.Purge(ctx)
		total += n
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", t.name, err)
		}
		m.log.Infow("purged", "table", t.name, "records", n)
	}

	return total, nil
}

func (m *Maintenance) tableNames() []string {
	names := []string{m.table}
	for _, t := range m.extra {
		names = append(names, t.name)
	}

	return names
}

func purgeable(name string) bool {
	return strings.Contains(name, "dev") || strings.Contains(name, "test")
}

//--
// HTTP
//--

func (m *Maintenance) PingHandler(w http.ResponseWriter, r *http.Request) {
	if err := render.Render(w, r, m.Ping()); err != nil {
		m.log.Errorw(err.Error())
	}
}

// AdminRouter is a completely separate router for administrator routes.
func (m *Maintenance) AdminRouter(adminToken string) chi.Router {
	r := chi.NewRouter()
	r.Use(AdminOnly(adminToken))
	r.Post("/purge", func(w http.ResponseWriter, r *http.Request) {
		n, err := m.Purge(r.Context())
		switch {
		case errors.Is(err, ErrProtectedTable):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, render.M{"errors": render.M{"body": []string{err.Error()}}})
		case err != nil:
			m.log.Errorw("purge failed", "error", err)
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, render.M{"errors": render.M{"body": []string{"Article store unavailable."}}})
		default:
			render.JSON(w, r, render.M{"purged": n})
		}
	})

	return r
}

// AdminOnly middleware restricts access to callers presenting the admin
// token in X-Admin-Token.
func AdminOnly(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)

				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
