//go:build !test

/* server.go
 * Contains the relay Start function that listens for incoming connections.
 * Excluded from test coverage as it blocks and requires real network binding.
 */

package relay

import (
	"log"
	"net/http"
	"time"
)

// Start initializes and starts the relay server with the given configuration
func Start(cfg Config) error {
	s := NewServer(cfg)

	mux := http.NewServeMux()
	mux.Handle("/", s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Println("Relay listening on", cfg.Addr)
	return srv.ListenAndServe()
}
