package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

const scanBatch = 100

// Redis stores each article as a JSON string at "<table>:<slug>".
type Redis struct {
	rdb   *redis.Client
	table string
}

func NewRedis(rdb *redis.Client, table string) *Redis {
	return &Redis{rdb: rdb, table: table}
}

func (s *Redis) key(slug string) string {
	return s.table + ":" + slug
}

func (s *Redis) Get(ctx context.Context, slug string) (*model.Article, error) {
	raw, err := s.rdb.Get(ctx, s.key(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", slug, err)
	}

	return decode(raw)
}

// Insert writes only when the slug is free.
func (s *Redis) Insert(ctx context.Context, article *model.Article) error {
	raw, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article %s: %w", article.Slug, err)
	}
	ok, err := s.rdb.SetNX(ctx, s.key(article.Slug), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", article.Slug, err)
	}
	if !ok {
		return ErrExists
	}

	return nil
}

func (s *Redis) Put(ctx context.Context, article *model.Article) error {
	raw, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article %s: %w", article.Slug, err)
	}
	if err := s.rdb.Set(ctx, s.key(article.Slug), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", article.Slug, err)
	}

	return nil
}

func (s *Redis) Scan(ctx context.Context) ([]*model.Article, error) {
	var (
		out    []*model.Article
		cursor uint64
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.table+":*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", s.table, err)
		}
		if len(keys) > 0 {
			vals, err := s.rdb.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("redis mget: %w", err)
			}
			for _, v := range vals {
				// deleted between SCAN and MGET
				str, ok := v.(string)
				if !ok {
					continue
				}
				a, err := decode([]byte(str))
				if err != nil {
					return nil, err
				}
				out = append(out, a)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return out, nil
}

func (s *Redis) Delete(ctx context.Context, slug string) error {
	n, err := s.rdb.Del(ctx, s.key(slug)).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", slug, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func decode(raw []byte) (*model.Article, error) {
	var a model.Article
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	if strings.TrimSpace(a.Slug) == "" {
		return nil, errors.New("decode article: empty slug")
	}

	return &a, nil
}
