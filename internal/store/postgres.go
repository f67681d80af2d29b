package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

const articleColumns = `slug, title, description, body, created_at, updated_at, author, tag_list, favorited_by, dummy`

type Postgres struct {
	db    *sqlx.DB
	table string
}

// NewPostgres wraps an open lib/pq connection. table is used verbatim, so it
// must be a plain identifier.
func NewPostgres(db *sql.DB, table string) *Postgres {
	return &Postgres{db: sqlx.NewDb(db, "postgres"), table: pq.QuoteIdentifier(table)}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	initSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s(
  slug TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  author TEXT NOT NULL,
  tag_list JSONB,
  favorited_by JSONB,
  dummy TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s(dummy, created_at);
`, p.table, pq.QuoteIdentifier(unquoted(p.table)+"_created"))
	_, err := p.db.ExecContext(ctx, initSQL)

	return err
}

func (p *Postgres) Get(ctx context.Context, slug string) (*model.Article, error) {
	var a model.Article
	query := `SELECT ` + articleColumns + ` FROM ` + p.table + ` WHERE slug = $1`
	err := p.db.GetContext(ctx, &a, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select article %s: %w", slug, err)
	}

	return &a, nil
}

func (p *Postgres) Insert(ctx context.Context, a *model.Article) error {
	query := `INSERT INTO ` + p.table + ` (` + articleColumns + `)
VALUES (:slug, :title, :description, :body, :created_at, :updated_at, :author, :tag_list, :favorited_by, :dummy)
ON CONFLICT (slug) DO NOTHING`
	res, err := p.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("insert article %s: %w", a.Slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExists
	}

	return nil
}

func (p *Postgres) Put(ctx context.Context, a *model.Article) error {
	query := `INSERT INTO ` + p.table + ` (` + articleColumns + `)
VALUES (:slug, :title, :description, :body, :created_at, :updated_at, :author, :tag_list, :favorited_by, :dummy)
ON CONFLICT (slug) DO UPDATE SET
 title=EXCLUDED.title,
 description=EXCLUDED.description,
 body=EXCLUDED.body,
 created_at=EXCLUDED.created_at,
 updated_at=EXCLUDED.updated_at,
 author=EXCLUDED.author,
 tag_list=EXCLUDED.tag_list,
 favorited_by=EXCLUDED.favorited_by,
 dummy=EXCLUDED.dummy`
	if _, err := p.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("upsert article %s: %w", a.Slug, err)
	}

	return nil
}

func (p *Postgres) Scan(ctx context.Context) ([]*model.Article, error) {
	rows := []*model.Article{}
	query := `SELECT ` + articleColumns + ` FROM ` + p.table + ` ORDER BY slug`
	if err := p.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.table, err)
	}

	return rows, nil
}

func (p *Postgres) Delete(ctx context.Context, slug string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM `+p.table+` WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete article %s: %w", slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func unquoted(ident string) string {
	if len(ident) >= 2 && ident[0] == '"' && ident[len(ident)-1] == '"' {
		return ident[1 : len(ident)-1]
	}

	return ident
}
