package http

import (
	"errors"
	"net/http"

	"finbuddy/internal/auth"
	applog "finbuddy/internal/log"
)

// The account endpoints are a local demo only. A successful login sets no
// session; it only confirms the stored credentials match.

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	err := s.auth.Signup(r.Context(), p.Get("user"), p.GetRaw("pass"))
	s.authResult(w, r, "signup", err, "Signup saved locally ✅")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	err := s.auth.Login(r.Context(), p.Get("user"), p.GetRaw("pass"))
	s.authResult(w, r, "login", err, "Logged in 🎉")
}

func (s *Server) authResult(w http.ResponseWriter, r *http.Request, op string, err error, success string) {
	switch {
	case err == nil:
		NewHTMXResponse().
			TriggerSuccessNotification(success).
			BodyHTML(`<span class="success">` + escape(success) + `</span>`).
			Write(w)
	case errors.Is(err, auth.ErrMissingCredentials):
		UnprocessableEntityError("Username and password are required").Write(w)
	case errors.Is(err, auth.ErrInvalidCredentials):
		UnprocessableEntityError("Invalid credentials ❌").Write(w)
	default:
		s.slog.LogError(r.Context(), "Demo account operation failed", err, applog.ComponentAuth, op, nil)
		InternalServerError("Could not reach the local store").Write(w)
	}
}
