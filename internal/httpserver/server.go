// internal/httpserver/server.go
//
// HTTP bridge between the browser UI and the Battleship engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health".
//   - Game endpoints, one per UI action, bound to the caller's session:
//     GET /game/state, POST /game/new, POST /game/reset, POST /game/place,
//     POST /game/start, POST /game/fire, GET /game/reveal.
//   - Match history: GET /stats.
//   - WebSocket bridge carrying the same operations: GET /ws.
//
// Notes:
//   - Engine rejections are not HTTP errors: they come back as 200 with
//     "ok": false and a message, merged with the current snapshot.
//   - Every engine call runs inside Session.Do, so one session's game is
//     never touched by two requests at once.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/lexhawkins/GameSoftware/internal/game"
	"github.com/lexhawkins/GameSoftware/internal/history"
	"github.com/lexhawkins/GameSoftware/internal/store"
)

// Config carries the server's tunables and the game factory.
type Config struct {
	SessionSecret string
	ClientOrigin  string
	SecureCookies bool

	// NewGame builds the game for a fresh session.
	NewGame func(sessionID string) *game.Game
}

// Server bundles router, session store and match history.
type Server struct {
	r       *chi.Mux
	store   store.Store
	history *history.Store
	cfg     Config
	http    *http.Server

	sweepMu   sync.Mutex // guards lastSweep
	lastSweep time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// hist may be nil, in which case /stats reports 404.
func New(st store.Store, hist *history.Store, cfg Config) *Server {
	if cfg.NewGame == nil {
		cfg.NewGame = func(string) *game.Game { return game.New() }
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev_secret_change_me"
	}
	if cfg.ClientOrigin == "" {
		cfg.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), store: st, history: hist, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(s.cors)          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"battleship-go","endpoints":["/health","/game/*","/stats","/ws"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Get("/stats", s.handleStats)
		r.Route("/game", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/state", s.opHandler(opState))
			r.Post("/new", s.opHandler(opNew))
			r.Post("/reset", s.opHandler(opReset))
			r.Post("/place", s.opHandler(opPlace))
			r.Post("/start", s.opHandler(opStart))
			r.Post("/fire", s.opHandler(opFire))
			r.Get("/reveal", s.opHandler(opReveal))
		})
	})

	// long-lived; kept out of the timeout group
	s.r.With(s.withSession).Get("/ws", s.handleWS)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	return s.http.ListenAndServe()
}

// Shutdown stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "X-Session-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// ------------------------------ GAME ---------------------------------------

// opHandler adapts a bridge operation to an HTTP handler.
func (s *Server) opHandler(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req opRequest
		if r.Method == http.MethodPost {
			// an empty body is fine for operations without arguments
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				writeError(w, http.StatusBadRequest, "bad_json")
				return
			}
		}
		res, err := s.dispatch(r.Context(), sessionFrom(r.Context()), op, req)
		if err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, errBadRequest) || errors.Is(err, errUnknownOp) {
				code = http.StatusBadRequest
			}
			writeError(w, code, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
