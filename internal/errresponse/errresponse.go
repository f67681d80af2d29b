package errresponse

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/articles/internal/apperr"
)

//--
// Error response payloads & renderers
//--

// ErrResponse renderer type for handling all sorts of errors.
//
// The body keeps the envelope existing clients already parse:
//
//	{"errors": {"body": ["Article not found: [foo]"]}}
type ErrResponse struct {
	Err            error       `json:"-"` // low-level runtime error
	HTTPStatusCode int         `json:"-"` // http response status code
	Kind           apperr.Kind `json:"-"`

	Errors ErrBody `json:"errors"`
}

type ErrBody struct {
	Body []string `json:"body"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindMalformedRequest, apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// From builds the envelope for any error. Unclassified errors never leak
// their text.
func From(err error) *ErrResponse {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusInternalServerError,
			Kind:           apperr.KindUnknown,
			Errors:         ErrBody{Body: []string{http.StatusText(http.StatusInternalServerError)}},
		}
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: StatusFor(e.Kind),
		Kind:           e.Kind,
		Errors:         ErrBody{Body: []string{e.Message}},
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		Errors:         ErrBody{Body: []string{"Error rendering response."}},
	}
}
