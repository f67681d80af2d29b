package article

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/articles/internal/apperr"
	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

// Authenticator resolves the caller of a request; nil means anonymous.
type Authenticator interface {
	Authenticate(r *http.Request) (*model.User, error)
}

// Identify puts the optional caller on the request context. Rejecting
// anonymous callers is left to the operations that need a user.
func Identify(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, err := auth.Authenticate(r)
			if err != nil {
				err = apperr.Wrap(err, apperr.KindStoreUnavailable, "Identity provider unavailable.")
				if l := LoggerFrom(r.Context()); l != nil {
					l.Errorw("authenticate", "error", err)
				}
				_ = render.Render(w, r, errresponse.From(err))

				return
			}
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// CORS lets browser front ends on any origin call the API with credentials,
// on success and error responses alike, and answers preflight requests.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RequestLogger attaches base, tagged with the request id, to every request.
func RequestLogger(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base
			if id := middleware.GetReqID(r.Context()); id != "" {
				l = base.With("request_id", id)
			}
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), l)))
		})
	}
}

// RequestRecorder is told about every completed request.
type RequestRecorder interface {
	RequestCompleted(ctx context.Context, method string, status int)
}

// Instrument counts completed requests by method and status.
func Instrument(m RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RequestCompleted(r.Context(), r.Method, status)
			if l := LoggerFrom(r.Context()); l != nil {
				l.Debugw("request completed", "status", status, "elapsed", time.Since(start))
			}
		})
	}
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// paginate reads limit/offset query params into a ListQuery on the context.
func paginate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := ListQuery{
			Tag:       q.Get("tag"),
			Author:    q.Get("author"),
			Favorited: q.Get("favorited"),
			Limit:     defaultLimit,
		}
		if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
			page.Limit = l
		}
		if page.Limit > maxLimit {
			page.Limit = maxLimit
		}
		if o, err := strconv.Atoi(q.Get("offset")); err == nil && o > 0 {
			page.Offset = o
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyPage, page)))
	})
}

func pageFrom(ctx context.Context) ListQuery {
	if q, ok := ctx.Value(ctxKeyPage).(ListQuery); ok {
		return q
	}

	return ListQuery{Limit: defaultLimit}
}
