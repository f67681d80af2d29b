//
// Articles
// ========
// An HTTP service for RealWorld-style articles: create, read and update,
// with the rest of the article surface answering 501 for now.
//
// Pass -routes to print the router documentation instead of serving.
//
// Boot the server:
// ----------------
// $ ARTICLES_JWT_SECRET=dev go run .
//
// Client requests:
// ----------------
// $ TOKEN=$(ARTICLES_JWT_SECRET=dev go run . -token peter)
//
// $ curl -X POST -H "Authorization: Token $TOKEN" \
//     -d '{"article":{"title":"My first post","description":"d","body":"b"}}' \
//     http://localhost:3333/api/articles
// {"article":{"slug":"my-first-post-1x2y3z", ...}}
//
// $ curl http://localhost:3333/api/articles/my-first-post-1x2y3z
//
// $ curl -X PUT -H "Authorization: Token $TOKEN" -d '{"article":{"body":"new"}}' \
//     http://localhost:3333/api/articles/my-first-post-1x2y3z
//
// $ curl http://localhost:9999/metrics
//
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"github.com/SergeyParamoshkin/articles/internal/article"
	"github.com/SergeyParamoshkin/articles/internal/config"
	"github.com/SergeyParamoshkin/articles/internal/maintenance"
	"github.com/SergeyParamoshkin/articles/internal/metrics"
	"github.com/SergeyParamoshkin/articles/internal/store"
	"github.com/SergeyParamoshkin/articles/internal/user"
)

// backend is what the service and the maintenance routes need from a store.
type backend interface {
	article.Store
	maintenance.Store
}

// nolint
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar().With("service", config.ServiceName, "namespace", cfg.Namespace)

	tokens := user.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	if cfg.IssueToken != "" {
		token, err := tokens.Issue(cfg.IssueToken)
		if err != nil {
			sugar.Fatalw("issue token", "error", err)
		}
		fmt.Println(token)

		return
	}

	exporterConfig := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(exporterConfig.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(exporterConfig, c)
	if err != nil {
		sugar.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())
	m := metrics.New(global.Meter(config.ServiceName))

	ctx := context.Background()
	st, dir, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		sugar.Fatalw("open store", "store", cfg.Store, "error", err)
	}
	defer closeStore()
	sugar.Infow("store ready", "store", cfg.Store, "table", cfg.TableName("articles"))

	provider := user.NewProvider(tokens, user.NewCachedDirectory(dir, cfg.ProfileCacheSize, cfg.ProfileCacheTTL))
	svc := article.NewService(st, provider, article.Options{
		Logger:       sugar,
		Metrics:      m,
		StoreRetries: cfg.StoreRetries,
	})
	maint := maintenance.New(st, cfg.TableName("articles"), cfg.Region, cfg.Namespace, sugar)
	if rd, ok := dir.(*user.RedisDirectory); ok {
		maint.WithTable(rd.Table(), rd)
	}

	r := chi.NewRouter()

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(article.RequestLogger(sugar))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(article.Instrument(m))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("root."))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})
	r.Get("/ping", maint.PingHandler)

	r.Mount("/api", article.NewHandler(svc, provider, sugar).Routes())
	r.Mount("/admin", maint.AdminRouter(cfg.JWTSecret))

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if cfg.Routes {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/articles",
			Intro:       "Articles service generated docs.",
		}))

		return
	}

	go func() {
		sugar.Infow("listening", "addr", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, r); err != nil {
			sugar.Errorw(err.Error())
		}
	}()

	sugar.Infow("diag listening", "addr", cfg.DiagAddr)
	if err := http.ListenAndServe(cfg.DiagAddr, diagRouter); err != nil {
		sugar.Errorw(err.Error())
	}
}

// openStore builds the configured article store and user directory. The
// returned func releases whatever connections were opened.
func openStore(ctx context.Context, cfg config.Config) (backend, user.Directory, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemory(), user.NewMemoryDirectory(user.Fixtures()...), func() {}, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		closeFn := func() { _ = rdb.Close() }

		return store.NewRedis(rdb, cfg.TableName("articles")),
			user.NewRedisDirectory(rdb, cfg.TableName("users")), closeFn, nil

	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := waitForDB(ctx, db, 10); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		pg := store.NewPostgres(db, cfg.SQLTableName("articles"))
		if err := pg.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}

		// Users are not stored in postgres; the fixture directory stands in.
		return pg, user.NewMemoryDirectory(user.Fixtures()...), func() { _ = db.Close() }, nil
	}

	return nil, nil, nil, errors.New("unknown store " + cfg.Store)
}

func waitForDB(ctx context.Context, db *sql.DB, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(time.Second)
	}

	return fmt.Errorf("postgres ping: %w", err)
}
