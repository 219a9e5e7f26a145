package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type AuthMiddleware struct {
	auth  ports.AuthService
	roles ports.RoleResolver
}

func NewAuthMiddleware(auth ports.AuthService, roles ports.RoleResolver) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, roles: roles}
}

type contextKey string

const (
	sessionKey contextKey = "session"
	doctorKey  contextKey = "doctor"
)

// WithSession returns a copy of ctx carrying the authenticated session.
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session placed by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey).(*domain.Session)
	return s
}

type doctorIdentity struct {
	role    domain.DoctorRole
	profile *domain.Doctor
}

// DoctorFromContext returns the role and profile placed by RequireDoctor.
func DoctorFromContext(ctx context.Context) (domain.DoctorRole, *domain.Doctor, bool) {
	id, ok := ctx.Value(doctorKey).(doctorIdentity)
	if !ok {
		return domain.DoctorRole{}, nil, false
	}
	return id.role, id.profile, true
}

// RequireSession rejects requests without a live session with 401 and a
// redirect to the login view.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		token, ok := bearerToken(r)
		if !ok {
			logger.Debug().Msg("missing or malformed authorization header")
			WriteError(w, http.StatusUnauthorized, "Please login to continue", LoginPath)
			return
		}

		session, err := m.auth.CurrentSession(r.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrNoSession) {
				logger.Error().Err(err).Msg("session lookup failed")
			}
			WriteError(w, http.StatusUnauthorized, "Please login to continue", LoginPath)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireDoctor must run after RequireSession. The role and doctor profile
// are resolved once here and handed to handlers through the context. Users
// whose role does not resolve to an existing doctor are sent home.
func (m *AuthMiddleware) RequireDoctor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		session := SessionFromContext(r.Context())
		if session == nil {
			WriteError(w, http.StatusUnauthorized, "Please login to continue", LoginPath)
			return
		}

		role, profile, err := m.roles.ResolveDoctor(r.Context(), session)
		switch {
		case errors.Is(err, domain.ErrNoSession):
			WriteError(w, http.StatusUnauthorized, "Please login to continue", LoginPath)
			return
		case errors.Is(err, domain.ErrNotDoctor):
			logger.Info().Str("user_id", session.UserID).Msg("doctor route denied")
			WriteError(w, http.StatusForbidden, "You don't have doctor privileges", HomePath)
			return
		case err != nil:
			logger.Error().Err(err).Str("user_id", session.UserID).Msg("doctor lookup failed")
			WriteError(w, http.StatusInternalServerError, "Failed to load doctor details", "")
			return
		}

		ctx := context.WithValue(r.Context(), doctorKey, doctorIdentity{role: role, profile: profile})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken reads "Authorization: Bearer <token>". Browsers cannot set
// headers on websocket handshakes, so upgrades may pass access_token in the
// query string instead.
func bearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if websocket.IsWebSocketUpgrade(r) {
		if token := r.URL.Query().Get("access_token"); token != "" {
			return token, true
		}
	}
	return "", false
}
