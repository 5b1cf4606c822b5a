package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/service"
)

type callerKey struct{}

// callerFrom returns the wallet address the auth middleware resolved for
// this request. Handlers behind RequireSession can rely on it being set.
func callerFrom(r *http.Request) domain.Address {
	addr, _ := r.Context().Value(callerKey{}).(domain.Address)
	return addr
}

// RequireSession resolves the caller address from the bearer token and
// stores it on the request context. Requests without a valid session are
// rejected before they reach a handler.
func (h *HTTPHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.respondError(w, http.StatusUnauthorized, "Missing bearer token", nil)
			return
		}

		addr, err := h.sessionService.Resolve(r.Context(), token)
		if err != nil {
			switch err {
			case service.ErrSessionNotFound:
				h.respondError(w, http.StatusUnauthorized, "Session not found", err)
			case service.ErrSessionExpired:
				h.respondError(w, http.StatusUnauthorized, "Session has expired", err)
			default:
				h.respondError(w, http.StatusUnauthorized, "Invalid session token", err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), callerKey{}, addr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
