package store

import (
	"context"
	"sort"
	"sync"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// Memory keeps articles in process. Records are cloned on the way in and
// out so callers can never mutate stored state.
type Memory struct {
	mu       sync.RWMutex
	articles map[string]*model.Article
}

func NewMemory(fixtures ...*model.Article) *Memory {
	m := &Memory{articles: make(map[string]*model.Article, len(fixtures))}
	for _, a := range fixtures {
		m.articles[a.Slug] = a.Clone()
	}

	return m
}

func (m *Memory) Get(_ context.Context, slug string) (*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.articles[slug]
	if !ok {
		return nil, ErrNotFound
	}

	return a.Clone(), nil
}

func (m *Memory) Insert(_ context.Context, article *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[article.Slug]; ok {
		return ErrExists
	}
	m.articles[article.Slug] = article.Clone()

	return nil
}

func (m *Memory) Put(_ context.Context, article *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.articles[article.Slug] = article.Clone()

	return nil
}

// Scan returns every article ordered by slug.
func (m *Memory) Scan(_ context.Context) ([]*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Article, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })

	return out, nil
}

func (m *Memory) Delete(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[slug]; !ok {
		return ErrNotFound
	}
	delete(m.articles, slug)

	return nil
}
