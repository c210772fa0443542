package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/applicants/internal/core"
	"github.com/JonMunkholm/applicants/internal/logging"
)

type sessionKey struct{}

// withSession resolves the caller's session from its cookie, creating one
// (and setting the cookie) when the cookie is missing or the session has
// been evicted.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			id = c.Value
		}

		sess, created := s.sessions.GetOrCreate(id)
		if created {
			s.setSessionCookie(w, sess.ID, 0)
			logging.FromContext(r.Context()).Debug("session created", "session_id", sess.ID)
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// setSessionCookie writes the session cookie; a negative maxAge deletes it.
func (s *Server) setSessionCookie(w http.ResponseWriter, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.Security.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) (*core.Session, error) {
	sess, ok := ctx.Value(sessionKey{}).(*core.Session)
	if !ok || sess == nil {
		return nil, core.ErrSessionNotFound
	}
	return sess, nil
}
