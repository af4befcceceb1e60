package main

import (
	"context"
	"errors"
	"net/http"

	"fieldops-console/internal/session"
)

type sessionKey struct{}

func withSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

func sessionFrom(ctx context.Context) session.Session {
	sess, ok := ctx.Value(sessionKey{}).(session.Session)
	if !ok {
		return session.Anonymous
	}
	return sess
}

// audience keys notifications by signed-in employee.
func audience(sess session.Session) string {
	return "employee:" + sess.UserIDHeader()
}

// requireSession sends visitors without a valid session cookie to the login
// page.
func (s *uiServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.codec.Read(r)
		if err != nil || !sess.Authenticated() {
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				s.logger.Debug().Err(err).Msg("dropping session cookie")
				s.codec.Clear(w)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

func (s *uiServer) requireAPISession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.codec.Read(r)
		if err != nil || !sess.Authenticated() {
			if err == nil {
				err = session.ErrNoSession
			}
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}
