package server

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/dogpound/glizzy/discord"
	"github.com/dogpound/glizzy/ledger"
	"github.com/dogpound/glizzy/pkg/id"
	"github.com/dogpound/glizzy/protest"
	"github.com/dogpound/glizzy/stats"
	"github.com/dogpound/glizzy/store"
)

// Options wires the server's collaborators. PublicKey enables webhook
// signature verification on /interactions and must be set outside of tests.
// Client may be nil, in which case follow-up message edits are skipped.
type Options struct {
	Store     store.Store
	Ledger    *ledger.Service
	Stats     *stats.Engine
	Protests  *protest.Coordinator
	Client    *discord.Client
	PublicKey ed25519.PublicKey
	DBPath    string // datastore file served by the export endpoint
	Logger    *log.Logger
}

type Server struct {
	mux      *http.ServeMux
	store    store.Store
	ledger   *ledger.Service
	stats    *stats.Engine
	protests *protest.Coordinator
	client   *discord.Client
	dbPath   string
	logger   *log.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		store:    opts.Store,
		ledger:   opts.Ledger,
		stats:    opts.Stats,
		protests: opts.Protests,
		client:   opts.Client,
		dbPath:   opts.DBPath,
		logger:   logger,
	}

	var interactions http.Handler = http.HandlerFunc(s.handleInteractions)
	if opts.PublicKey != nil {
		interactions = discord.WithVerification(opts.PublicKey, interactions)
	}
	s.mux.Handle("POST /interactions", interactions)

	s.mux.HandleFunc("GET /api/hotdog-totals", s.handleTotals)
	s.mux.HandleFunc("GET /api/hotdog-events", s.handleEvents)
	s.mux.HandleFunc("GET /api/test-stats", s.handleStats)
	s.mux.HandleFunc("GET /api/export-database", s.handleExport)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := id.New()
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Printf("%s %s %s (%s)", reqID, r.Method, r.URL.Path, time.Since(start))
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Printf("listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
