// internal/httpserver/session.go
//
// Session cookie handling.
// Every caller is bound to one game session. The session ID travels in an
// HS256-signed JWT, either as the battleship_session cookie or as an
// "Authorization: Bearer" header. A missing, invalid or unknown token gets
// a brand-new session with a fresh game.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/lexhawkins/GameSoftware/internal/store"
)

const (
	sessionCookieName = "battleship_session"
	sessionTTL        = 7 * 24 * time.Hour

	// sweepInterval is the minimum gap between two prunes of expired sessions.
	sweepInterval = time.Minute
)

// ctxSessionKey is the context key type for the caller's *store.Session.
type ctxSessionKey struct{}

// sessionFrom returns the session installed by withSession.
func sessionFrom(ctx context.Context) *store.Session {
	s, _ := ctx.Value(ctxSessionKey{}).(*store.Session)
	return s
}

// withSession resolves the caller's session, creating one when needed, and
// stores it in the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.lookupSession(r)
		if sess == nil {
			var err error
			sess, err = s.newSession(r.Context())
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("create session")
				writeError(w, http.StatusInternalServerError, "session_failed")
				return
			}
			tok, exp, err := s.signSession(sess.ID)
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("sign session")
				writeError(w, http.StatusInternalServerError, "sign_failed")
				return
			}
			s.setSessionCookie(w, tok, exp)
			w.Header().Set("X-Session-Token", tok)
			hlog.FromRequest(r).Info().Str("session", sess.ID).Msg("new session")
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// lookupSession returns the session named by a valid token, or nil.
func (s *Server) lookupSession(r *http.Request) *store.Session {
	tok := bearerOrCookie(r)
	if tok == "" {
		return nil
	}
	sid, err := s.parseSession(tok)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("discarding session token")
		return nil
	}
	sess, err := s.store.Get(r.Context(), sid)
	if err != nil {
		return nil
	}
	return sess
}

func (s *Server) newSession(ctx context.Context) (*store.Session, error) {
	s.sweepSessions(ctx)
	sid := uuid.NewString()
	sess := store.NewSession(sid, s.cfg.NewGame(sid))
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// sweepSessions drops sessions whose cookie has expired. It runs lazily on
// session creation, at most once per sweepInterval.
func (s *Server) sweepSessions(ctx context.Context) {
	now := time.Now()
	s.sweepMu.Lock()
	if now.Sub(s.lastSweep) < sweepInterval {
		s.sweepMu.Unlock()
		return
	}
	s.lastSweep = now
	s.sweepMu.Unlock()

	n, err := s.store.Prune(ctx, now.Add(-sessionTTL))
	if err != nil {
		log.Warn().Err(err).Msg("prune sessions")
		return
	}
	if n > 0 {
		log.Info().Int("pruned", n).Int("live", s.store.Len()).Msg("expired sessions removed")
	}
}

// signSession creates an HS256 JWT carrying the session ID.
func (s *Server) signSession(sid string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(sessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.SessionSecret))
	return ss, exp, err
}

// parseSession validates a token and returns its session ID.
func (s *Server) parseSession(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("token without sid")
	}
	return sid, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
