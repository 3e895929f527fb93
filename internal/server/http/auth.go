package httpserver

import (
	"net"
	"net/http"

	"github.com/and161185/qna/internal/convert"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body convert.Credentials
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.auth.Register(r.Context(), body.Email, body.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, "Account created")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body convert.Credentials
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, _, err := s.auth.Login(r.Context(), body.Email, body.Password, clientIP(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, token)
}

// clientIP is the peer address without the port; proxies are not trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
