// internal/httpserver/server.go
//
// HTTP wiring for the scoreboard.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     access log).
//   - Static score viewer at "/" (index.html, scripts.js).
//   - Read-only ledger endpoints: /scores.json, /rankings, /parties, /health.
//
// Notes:
//   - The ledger is reloaded from the store on every request, so rounds
//     recorded by a running console show up on the next refresh.
//   - /scores.json is the persisted document byte-for-byte in format and is
//     never cached.

package httpserver

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/roulette/internal/ledger"
)

// DefaultPartyLimit is how many rounds /parties returns without ?limit.
const DefaultPartyLimit = 10

// Loader is the read side of the ledger store.
type Loader interface {
	Load(ctx context.Context) *ledger.Ledger
}

// Server bundles the router and the ledger source.
type Server struct {
	r     *chi.Mux
	store Loader
	log   zerolog.Logger
}

// New constructs a Server serving web at "/" and the ledger from st.
func New(st Loader, web fs.FS) *Server {
	s := &Server{r: chi.NewRouter(), store: st, log: log.Logger}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(s.accessLog)                     // one debug line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

	// --- ledger API ---
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(noStore)
		r.Get("/scores.json", s.handleScores)
		r.Get("/rankings", s.handleRankings)
		r.Get("/parties", s.handleParties)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
	})

	// --- viewer ---
	s.r.Handle("/*", http.FileServer(http.FS(web)))

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ------------------------------- handlers ----------------------------------

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	data, err := ledger.Encode(s.store.Load(r.Context()))
	if err != nil {
		s.log.Error().Err(err).Msg("encode ledger")
		http.Error(w, `{"error":"encode_failed"}`, http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}

// ranking is one row of GET /rankings.
type ranking struct {
	Position    int    `json:"position"`
	Player      string `json:"player"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	standings := s.store.Load(r.Context()).Rankings()
	out := make([]ranking, len(standings))
	for i, st := range standings {
		out[i] = ranking{
			Position:    i + 1,
			Player:      st.Player,
			DisplayName: ledger.DisplayName(st.Player),
			Points:      st.Points,
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleParties(w http.ResponseWriter, r *http.Request) {
	limit := DefaultPartyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, `{"error":"invalid_limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	parties := s.store.Load(r.Context()).Recent(limit)
	if parties == nil {
		parties = []ledger.Party{}
	}
	_ = json.NewEncoder(w).Encode(parties)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// noStore keeps the viewer's periodic refresh from reading a cached ledger.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
