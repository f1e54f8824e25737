// Package fixture serves a self-contained mock of the OmniScribe app shell:
// the DOM surface the scenarios assert against (5-button nav, header settings
// button, view text markers, recorder overlay) plus the JSON API endpoints.
// It exists so the harness and scenarios can be exercised hermetically,
// without the hosted deployment.
package fixture

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/Josephaswisher/omniscribe/internal/obs"
)

// Handler returns the fixture app's HTTP handler.
func Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(appShellHTML))
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	mux.HandleFunc("GET /api/notes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"notes": []any{}})
	})

	mux.HandleFunc("GET /api/parsers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"parsers": []map[string]string{
			{"id": "raw", "name": "Raw"},
			{"id": "summary", "name": "Summary"},
			{"id": "action-items", "name": "Action Items"},
		}})
	})

	// Plain-text endpoint for probing the non-JSON error path.
	mux.HandleFunc("GET /plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	})

	return obs.LogRequests(mux)
}

// Start serves the fixture app on addr (use "127.0.0.1:0" for an ephemeral
// port) and returns the base URL plus a shutdown function.
func Start(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}

	server := &http.Server{
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = server.Serve(listener)
	}()

	baseURL := "http://" + listener.Addr().String()
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
	return baseURL, shutdown, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
