package spendapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fedspend/spendapi/listener"
)

const (
	defaultListenAddress = "127.0.0.1:8000"
	shutdownTimeout      = 10 * time.Second
)

// endpoint produces the JSON body of a successful response.
type endpoint func(r *http.Request) (any, error)

// Handler returns the API routes wrapped in the shared middleware. Trailing slashes
// are optional on every route.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()

	routes := map[string]endpoint{
		"/api/v2/references/filter_tree/{taxonomy}":               api.filterTree,
		"/api/v2/references/filter_tree/{taxonomy}/{path...}":     api.filterTree,
		"/api/v2/references/total_budgetary_resources":            api.totalBudgetaryResources,
		"/api/v2/references/total_budgetary_resources/{$}":        api.totalBudgetaryResources,
		"/api/v2/agency/{toptier_code}/recipients":                api.recipients,
		"/api/v2/agency/{toptier_code}/recipients/{$}":            api.recipients,
		"/api/v2/transactions/{transaction_id}/contract_data":     api.contractData,
		"/api/v2/transactions/{transaction_id}/contract_data/{$}": api.contractData,
		"/api/v2/bulk_download/files":                             api.bulkDownloadFiles,
		"/api/v2/bulk_download/files/{$}":                         api.bulkDownloadFiles,
	}
	for pattern, fn := range routes {
		mux.Handle("GET "+pattern, api.handle(strings.TrimSuffix(pattern, "/{$}"), fn))
	}
	mux.Handle("GET /metrics", api.Metrics.Handler())

	return api.chain(mux,
		RequestIDMiddleware,
		AccessLogMiddleware,
		CompressionMiddleware,
		BrowsableMiddleware,
	)
}

// handle adapts an endpoint to http.Handler, writing its result or its error as JSON
// and recording the request under route.
func (api *API) handle(route string, fn endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		result, err := fn(r)
		if err != nil {
			status := api.writeError(w, r, err)
			api.Metrics.observe(route, r.Method, status, time.Since(start))
			return
		}
		status := api.writeJSON(w, r, http.StatusOK, result)
		api.Metrics.observe(route, r.Method, status, time.Since(start))
	})
}

// writeJSON sends v with status and returns the status actually written.
func (api *API) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) int {
	body, err := json.Marshal(v)
	if err != nil {
		return api.writeError(w, r, fmt.Errorf("encoding response: %w", err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
	return status
}

// writeError sends the error detail to the client. Server errors are logged and their
// detail replaced by a generic message. It returns the status written.
func (api *API) writeError(w http.ResponseWriter, r *http.Request, err error) int {
	status, detail := statusOf(err)
	if status == http.StatusInternalServerError {
		entry := api.Logger.WithError(err).WithField("path", r.URL.Path)
		if id, ok := RequestIDFromContext(r.Context()); ok {
			entry = entry.WithField("request_id", id.String())
		}
		entry.Error("handling request")
	}

	body, _ := json.Marshal(map[string]string{"detail": detail})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
	return status
}

// Serve serves the API on ln until ctx is cancelled, then shuts down gracefully.
func (api *API) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Serve(listener.NewResilientListener(ln, api.Logger))
	}()
	api.Logger.WithField("address", ln.Addr().String()).Info("serving spending api")

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving api: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down api: %w", err)
		}
		api.Logger.Info("api stopped")
		return nil
	}
}

// ListenAndServe listens on the configured address and serves the API until ctx is cancelled.
func (api *API) ListenAndServe(ctx context.Context) error {
	address := defaultListenAddress
	if api.Config != nil && api.Config.ListenAddress != "" {
		address = api.Config.ListenAddress
	}

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", address, err)
	}
	return api.Serve(ctx, ln)
}

