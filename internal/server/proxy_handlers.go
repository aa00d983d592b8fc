package server

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zeronista/retailops/internal/auth"
	"github.com/zeronista/retailops/internal/proxy"
)

// handleProxyForward relays a GET or POST to the category's upstream.
// Role gating depends on the category, so the check happens here
// rather than in route middleware.
func (s *Server) handleProxyForward(w http.ResponseWriter, r *http.Request) {
	cat, ok := proxy.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown proxy category")
		return
	}

	user, authed := auth.UserFrom(r.Context())
	if !authed {
		s.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	allowed := false
	for _, role := range proxy.AllowedRoles(cat) {
		if user.HasRole(role) {
			allowed = true
			break
		}
	}
	if !allowed {
		s.writeError(w, http.StatusForbidden, "insufficient role for category")
		return
	}

	var body io.Reader
	if r.Method == http.MethodPost {
		body = http.MaxBytesReader(w, r.Body, 1<<20)
	}

	resp, err := s.proxy.Forward(r.Context(), cat, r.Method, chi.URLParam(r, "*"), r.URL.RawQuery, body)
	if err != nil {
		s.log.Error().Err(err).Str("category", string(cat)).Msg("Upstream request failed")
		s.writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.log.Error().Err(err).Msg("Failed to relay upstream response body")
	}
}

// handleProxyHealth reports per-category boolean reachability.
func (s *Server) handleProxyHealth(w http.ResponseWriter, r *http.Request) {
	results := s.proxy.Health(r.Context())

	resp := make(map[string]bool, len(results))
	for cat, up := range results {
		resp[string(cat)] = up
	}
	s.writeJSON(w, http.StatusOK, resp)
}
