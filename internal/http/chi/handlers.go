package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/personal-library/book"
	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

// Outcomes passed to OperationRecorder
const (
	outcomeOK             = "ok"
	outcomeNotFound       = "not_found"
	outcomeMissingTitle   = "missing_title"
	outcomeMissingComment = "missing_comment"
	outcomeBadRequest     = "bad_request"
	outcomeError          = "error"
)

// OperationRecorder is notified once per handled book operation.
type OperationRecorder interface {
	RecordOperation(ctx context.Context, operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(context.Context, string, string) {}

type options struct {
	logger    *zerolog.Logger
	recorder  OperationRecorder
	metrics   http.Handler
	rateLimit func(http.Handler) http.Handler
}

type Option func(*options)

// WithLogger replaces the default JSON request logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

func WithRecorder(rec OperationRecorder) Option {
	return func(o *options) { o.recorder = rec }
}

// WithMetricsHandler serves h on GET /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(o *options) { o.metrics = h }
}

// WithRateLimit guards the /api routes with mw
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(o *options) { o.rateLimit = mw }
}

func NewLogger(json bool) zerolog.Logger {
	return httplog.NewLogger("personal-library", httplog.Options{
		JSON:    json,
		Concise: !json,
	})
}

func Handlers(ctx context.Context, bookService book.UseCase, opts ...Option) *chi.Mux {
	o := options{recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	// Logger
	logger := NewLogger(true)
	if o.logger != nil {
		logger = *o.logger
	}

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	if o.metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.metrics)
	}

	r.Group(func(r chi.Router) {
		if o.rateLimit != nil {
			r.Use(o.rateLimit)
		}
		r.Method(http.MethodGet, "/api/books", getBooks(bookService, o.recorder))
		r.Method(http.MethodPost, "/api/books", postBooks(bookService, o.recorder))
		r.Method(http.MethodDelete, "/api/books", deleteBooks(bookService, o.recorder))
		r.Method(http.MethodGet, "/api/books/{id}", getBook(bookService, o.recorder))
		r.Method(http.MethodPost, "/api/books/{id}", postComment(bookService, o.recorder))
		r.Method(http.MethodDelete, "/api/books/{id}", deleteBook(bookService, o.recorder))
	})

	return r
}
