// Package middleware exposes amis form validation over net/http: a JSON
// endpoint that validates submissions against named forms, and a middleware
// that guards an existing handler with one form.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	j "github.com/goccy/go-json"
	"github.com/google/uuid"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/node"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-Id"

// DefaultMaxBodyBytes bounds request bodies when Options leaves it zero.
const DefaultMaxBodyBytes int64 = 1 << 20

// FormLookup resolves a form schema by name.
type FormLookup interface {
	Lookup(name string) (*node.Node, bool)
}

// FormLookupFunc adapts a function to FormLookup.
type FormLookupFunc func(name string) (*node.Node, bool)

func (f FormLookupFunc) Lookup(name string) (*node.Node, bool) { return f(name) }

// RequestObserver receives one call per handled request.
type RequestObserver interface {
	RequestDone(code int, elapsed time.Duration)
}

// Options configures Handler and Validate.
type Options struct {
	Logger       *slog.Logger
	Observer     RequestObserver
	MaxBodyBytes int64             // 0 means DefaultMaxBodyBytes
	ParseOpt     *amisform.ParseOpt // nil means DefaultParseOpt
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.ParseOpt == nil {
		po := DefaultParseOpt()
		o.ParseOpt = &po
	}
	return o
}

// DefaultParseOpt returns the parse options used at the HTTP boundary:
// strict JSON with duplicate keys rejected.
func DefaultParseOpt() amisform.ParseOpt {
	return amisform.ParseOpt{Strictness: amisform.Strictness{OnDuplicateKey: amisform.Error}}
}

// Result is the response body of the validation endpoint.
type Result struct {
	Valid      bool                 `json:"valid"`
	Violations amisform.Violations `json:"violations"`
}

// ErrorPayload shapes violations for JSON responses.
func ErrorPayload(vs amisform.Violations) Result {
	if vs == nil {
		vs = amisform.Violations{}
	}
	return Result{Valid: len(vs) == 0, Violations: vs}
}

type ctxKeyData struct{}
type ctxKeyRequestID struct{}

// ContextWithData attaches the validated submission to ctx.
func ContextWithData(ctx context.Context, data *node.Node) context.Context {
	return context.WithValue(ctx, ctxKeyData{}, data)
}

// DataFromContext retrieves the submission stored by Validate.
func DataFromContext(ctx context.Context) (*node.Node, bool) {
	v, ok := ctx.Value(ctxKeyData{}).(*node.Node)
	return v, ok
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

// RequestID echoes the incoming X-Request-Id or assigns a new one, and
// stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID{}, id)))
	})
}

// Handler serves POST /forms/{name}/validate. The body is the submission
// data. Responses: 200 when valid, 422 with violations, 404 for an unknown
// form, 400 for malformed JSON and 413 for oversized bodies.
func Handler(v *amisform.Validator, forms FormLookup, opts Options) http.Handler {
	opts = opts.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /forms/{name}/validate", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		name := r.PathValue("name")
		code := serveValidate(w, r, v, forms, name, opts)
		opts.Logger.InfoContext(r.Context(), "validation request",
			"request_id", RequestIDFromContext(r.Context()), "form", name, "status", code, "elapsed", time.Since(start))
		if opts.Observer != nil {
			opts.Observer.RequestDone(code, time.Since(start))
		}
	})
	return RequestID(mux)
}

func serveValidate(w http.ResponseWriter, r *http.Request, v *amisform.Validator, forms FormLookup, name string, opts Options) int {
	form, ok := forms.Lookup(name)
	if !ok {
		return writeError(w, http.StatusNotFound, "form not found: "+name)
	}
	data, code, err := readData(w, r, opts)
	if err != nil {
		return writeError(w, code, err.Error())
	}
	vs := v.Validate(r.Context(), form, data)
	if len(vs) > 0 {
		return writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(vs))
	}
	return writeJSON(w, http.StatusOK, ErrorPayload(nil))
}

// Validate guards next with form: bodies that break a rule are answered
// with 422, valid ones reach next with the parsed data in the context and
// the body rewound.
func Validate(v *amisform.Validator, form *node.Node, opts Options) func(http.Handler) http.Handler {
	opts = opts.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, data, code, err := readBody(w, r, opts)
			if err != nil {
				writeError(w, code, err.Error())
				return
			}
			if vs := v.Validate(r.Context(), form, data); len(vs) > 0 {
				writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(vs))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			next.ServeHTTP(w, r.WithContext(ContextWithData(r.Context(), data)))
		})
	}
}

func readData(w http.ResponseWriter, r *http.Request, opts Options) (*node.Node, int, error) {
	_, data, code, err := readBody(w, r, opts)
	return data, code, err
}

func readBody(w http.ResponseWriter, r *http.Request, opts Options) ([]byte, *node.Node, int, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, opts.MaxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, nil, http.StatusRequestEntityTooLarge, err
		}
		return nil, nil, http.StatusBadRequest, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw, node.Object(), 0, nil
	}
	data, err := amisform.Parse(raw, *opts.ParseOpt)
	if err != nil {
		return nil, nil, http.StatusBadRequest, err
	}
	return raw, data, 0, nil
}

func writeError(w http.ResponseWriter, code int, msg string) int {
	return writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, body any) int {
	b, err := j.Marshal(body)
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"error":"encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
	return code
}
