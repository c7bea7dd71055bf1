package spendapi

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/apex/log"
	"github.com/fedspend/spendapi/core"
	"github.com/fedspend/spendapi/pretty"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID to and from clients.
const RequestIDHeader = "X-Request-ID"

// Middleware wraps a handler with behaviour shared by every route. It has access to the *API
type Middleware func(api *API, next http.Handler) http.Handler

// chain applies middlewares so that the first one sees the request first.
func (api *API) chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](api, handler)
	}
	return handler
}

// RequestIDMiddleware stores a request ID and the request time in the context. A valid
// UUID sent by the client is kept, otherwise a new v7 UUID is generated.
func RequestIDMiddleware(api *API, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		if err != nil {
			id, err = uuid.NewV7()
			if err != nil {
				id = uuid.New()
			}
		}
		w.Header().Set(RequestIDHeader, id.String())

		r = ContextWithRequestID(r, id)
		r = ContextWithRequestTime(r, api.now())
		next.ServeHTTP(w, r)
	})
}

// statusRecorder keeps the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

// AccessLogMiddleware logs every request once it has been served.
func AccessLogMiddleware(api *API, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, ok := RequestTimeFromContext(r.Context())
		if !ok {
			start = api.now()
		}
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		options := []func(fields log.Fields){
			core.LogWithRequest(r),
			core.LogWithStatus(rec.status, api.now().Sub(start)),
		}
		if id, ok := RequestIDFromContext(r.Context()); ok {
			options = append(options, core.LogWithRequestID(id))
		}

		entry := api.Logger.WithFields(core.AccessFields(options...))
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request")
			return
		}
		entry.Info("request")
	})
}

// compressWriter sends the body through the negotiated compressor.
type compressWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	return cw.writer.Write(b)
}

// CompressionMiddleware compresses responses with brotli or gzip, whichever the client
// prefers in Accept-Encoding.
func CompressionMiddleware(api *API, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") == "" {
			next.ServeHTTP(w, r)
			return
		}
		compressor := brotli.HTTPCompressor(w, r)
		defer compressor.Close()
		next.ServeHTTP(&compressWriter{ResponseWriter: w, writer: compressor}, r)
	})
}

// bufferedWriter holds a whole response so it can be rewritten before it is sent.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header { return bw.header }

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.status == 0 {
		bw.status = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	return bw.body.Write(b)
}

// BrowsableMiddleware renders JSON responses as an HTML page for clients that prefer
// text/html, such as browsers.
func BrowsableMiddleware(api *API, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !prefersHTML(r.Header.Get("Accept")) {
			next.ServeHTTP(w, r)
			return
		}

		buffered := &bufferedWriter{header: http.Header{}}
		next.ServeHTTP(buffered, r)
		if buffered.status == 0 {
			buffered.status = http.StatusOK
		}

		for key, values := range buffered.header {
			w.Header()[key] = values
		}
		body := buffered.body.Bytes()
		if strings.HasPrefix(buffered.header.Get("Content-Type"), "application/json") {
			body = pretty.Page("Spending API: "+r.URL.Path, buffered.status, body)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		}
		w.WriteHeader(buffered.status)
		w.Write(body)
	})
}

// prefersHTML reports whether text/html has the highest quality among the media ranges
// of an Accept header. Ties go to the range listed first.
func prefersHTML(accept string) bool {
	best, bestQ := "", -1.0
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				q = parsed
			}
		}
		if q > bestQ {
			best, bestQ = mediaType, q
		}
	}
	return best == "text/html"
}
