// Package metrics holds the service's otel instruments.
package metrics

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	statusKey = attribute.Key("status")
	methodKey = attribute.Key("method")
	kindKey   = attribute.Key("kind")
)

type Metrics struct {
	articlesCreated metric.Int64Counter
	articlesUpdated metric.Int64Counter
	storeRetries    metric.Int64Counter
	failures        metric.Int64Counter
	completed       metric.Int64Counter
}

// New registers the instruments on meter. Pass global.Meter(name) before a
// provider is installed and they stay no-ops until one is.
func New(meter metric.Meter) *Metrics {
	m := metric.Must(meter)

	return &Metrics{
		articlesCreated: m.NewInt64Counter("articles/created",
			metric.WithDescription("Articles inserted into the store")),
		articlesUpdated: m.NewInt64Counter("articles/updated",
			metric.WithDescription("Articles overwritten by their author")),
		storeRetries: m.NewInt64Counter("articles/store_retries",
			metric.WithDescription("Store calls retried after an I/O failure")),
		failures: m.NewInt64Counter("articles/failures",
			metric.WithDescription("Failed article operations, by error kind")),
		completed: m.NewInt64Counter("http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method and response status")),
	}
}

func (m *Metrics) ArticleCreated(ctx context.Context) {
	m.articlesCreated.Add(ctx, 1)
}

func (m *Metrics) ArticleUpdated(ctx context.Context) {
	m.articlesUpdated.Add(ctx, 1)
}

func (m *Metrics) StoreRetry(ctx context.Context) {
	m.storeRetries.Add(ctx, 1)
}

func (m *Metrics) Failure(ctx context.Context, kind string) {
	m.failures.Add(ctx, 1, kindKey.String(kind))
}

func (m *Metrics) RequestCompleted(ctx context.Context, method string, status int) {
	m.completed.Add(ctx, 1, methodKey.String(method), statusKey.String(strconv.Itoa(status)))
}
