package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const DefaultSessionTTL = 24 * time.Hour

type AuthService struct {
	users      ports.UserRepository
	roles      ports.RoleRepository
	sessions   ports.SessionStore
	notifier   ports.SessionNotifier
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
	now        func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	sessions ports.SessionStore,
	notifier ports.SessionNotifier,
	privateKey *rsa.PrivateKey,
	ttl time.Duration,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:      users,
		roles:      roles,
		sessions:   sessions,
		notifier:   notifier,
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		ttl:        ttl,
		now:        time.Now,
	}
}

// SignUp registers a patient. The account and its patient role record are
// written in one transaction.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := newUser(email, password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleRecord{
		UserID:    user.ID,
		Tag:       domain.RolePatient,
		CreatedAt: user.CreatedAt,
	}
	if err := s.users.CreateUserWithRole(ctx, user, role); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create patient account: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("patient account created")
	return &user, nil
}

// SignIn checks credentials and the portal against the user's role record
// before issuing a session, and returns the role resolved from that same
// record. A rejected portal never leaves a session behind.
func (s *AuthService) SignIn(ctx context.Context, email, password string, portal domain.Portal) (*domain.Session, domain.Role, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, &domain.ValidationError{Field: "email", Message: "email and password are required"}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	rec, err := s.roles.FindRole(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("find role: %w", err)
	}
	isDoctor := rec != nil && rec.Tag == domain.RoleDoctor

	switch portal {
	case domain.PortalPatient:
		if isDoctor {
			return nil, nil, domain.ErrWrongPortal
		}
	case domain.PortalDoctor:
		if !isDoctor {
			return nil, nil, domain.ErrDoctorPortalOnly
		}
	default:
		return nil, nil, &domain.ValidationError{Field: "portal", Message: "unknown login portal"}
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue session: %w", err)
	}
	if err := s.sessions.Save(ctx, *session); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}

	s.notify(ctx, domain.SessionSignedIn, session)
	log.Info().Str("user_id", user.ID).Str("portal", string(portal)).Msg("signed in")
	return session, domain.ResolveRole(rec), nil
}

// CurrentSession validates a bearer token and confirms the session has not
// been signed out. Any failure reads as domain.ErrNoSession except store
// errors.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrNoSession
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.publicKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrNoSession
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrNoSession
	}

	active, err := s.sessions.IsActive(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !active {
		return nil, domain.ErrNoSession
	}

	session := &domain.Session{
		ID:     claims.ID,
		UserID: claims.Subject,
		Email:  claims.Email,
		Token:  token,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrNoSession
	}
	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.notify(ctx, domain.SessionSignedOut, session)
	return nil
}

// Subscribe streams session changes for the signed-in user until ctx ends.
func (s *AuthService) Subscribe(ctx context.Context, session *domain.Session) (<-chan domain.SessionEvent, error) {
	if session == nil {
		return nil, domain.ErrNoSession
	}
	return s.notifier.Subscribe(ctx, session.UserID)
}

func (s *AuthService) issue(user *domain.User) (*domain.Session, error) {
	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return nil, err
	}
	session.Token = token
	return session, nil
}

func (s *AuthService) notify(ctx context.Context, kind domain.SessionEventType, session *domain.Session) {
	if s.notifier == nil {
		return
	}
	evt := domain.SessionEvent{
		Type:      kind,
		UserID:    session.UserID,
		SessionID: session.ID,
		At:        s.now().UTC(),
	}
	if err := s.notifier.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("user_id", session.UserID).Msg("publish session event")
	}
}
