package metrics

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/global"
)

func TestInstrumentsWithoutProvider(t *testing.T) {
	m := New(global.Meter("articles-test"))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.ArticleCreated(ctx)
		m.ArticleUpdated(ctx)
		m.StoreRetry(ctx)
		m.Failure(ctx, "NotFound")
		m.RequestCompleted(ctx, http.MethodGet, http.StatusOK)
	})
}
