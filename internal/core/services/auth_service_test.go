package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/services"
	"github.com/sowmya-kancharla03/CuraCare/internal/mocks"
)

type authFixture struct {
	repo     *mocks.MockRepository
	sessions *mocks.MockSessionStore
	notifier *mocks.MockSessionNotifier
	service  *services.AuthService
	doctor   domain.Doctor
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	repo := mocks.NewMockRepository()
	sessions := mocks.NewMockSessionStore()
	notifier := mocks.NewMockSessionNotifier()

	doctor := mocks.NewTestDoctor("Dr. A", "Cardiology")
	repo.SeedDoctor(doctor)

	patient := mocks.NewTestUser(t, "patient@example.com")
	repo.SeedUser(patient, mocks.PatientRecord(patient.ID))

	doc := mocks.NewTestUser(t, "doctor@example.com")
	repo.SeedUser(doc, mocks.DoctorRecord(doc.ID, doctor.ID))

	orphan := mocks.NewTestUser(t, "norole@example.com")
	repo.SeedUser(orphan, nil)

	unlinked := mocks.NewTestUser(t, "unlinked@example.com")
	repo.SeedUser(unlinked, mocks.DoctorRecord(unlinked.ID, ""))

	key := mocks.GenerateTestKey(t)
	return &authFixture{
		repo:     repo,
		sessions: sessions,
		notifier: notifier,
		service:  services.NewAuthService(repo, repo, sessions, notifier, key, time.Hour),
		doctor:   doctor,
	}
}

func TestAuthService_SignIn(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		portal   domain.Portal
		wantRole domain.RoleTag
		wantErr  error
	}{
		{"patient_on_patient_portal", "patient@example.com", mocks.TestPassword, domain.PortalPatient, domain.RolePatient, nil},
		{"email_is_case_insensitive", "  Patient@Example.com ", mocks.TestPassword, domain.PortalPatient, domain.RolePatient, nil},
		{"user_without_role_is_patient", "norole@example.com", mocks.TestPassword, domain.PortalPatient, domain.RolePatient, nil},
		{"doctor_on_doctor_portal", "doctor@example.com", mocks.TestPassword, domain.PortalDoctor, domain.RoleDoctor, nil},
		{"unlinked_doctor_passes_doctor_portal", "unlinked@example.com", mocks.TestPassword, domain.PortalDoctor, domain.RolePatient, nil},
		{"doctor_on_patient_portal", "doctor@example.com", mocks.TestPassword, domain.PortalPatient, "", domain.ErrWrongPortal},
		{"patient_on_doctor_portal", "patient@example.com", mocks.TestPassword, domain.PortalDoctor, "", domain.ErrDoctorPortalOnly},
		{"no_role_on_doctor_portal", "norole@example.com", mocks.TestPassword, domain.PortalDoctor, "", domain.ErrDoctorPortalOnly},
		{"wrong_password", "patient@example.com", "nope-nope", domain.PortalPatient, "", domain.ErrInvalidCredentials},
		{"unknown_email", "ghost@example.com", mocks.TestPassword, domain.PortalPatient, "", domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			session, role, err := f.service.SignIn(context.Background(), tt.email, tt.password, tt.portal)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if f.sessions.Count() != 0 {
					t.Errorf("rejected sign-in left %d sessions", f.sessions.Count())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session.Token == "" || session.ID == "" {
				t.Fatalf("expected issued session, got %+v", session)
			}
			if role.Tag() != tt.wantRole {
				t.Errorf("expected role %s, got %s", tt.wantRole, role.Tag())
			}
			if f.sessions.Count() != 1 {
				t.Errorf("expected 1 registered session, got %d", f.sessions.Count())
			}
			if len(f.notifier.Published) != 1 || f.notifier.Published[0].Type != domain.SessionSignedIn {
				t.Errorf("expected signed_in event, got %+v", f.notifier.Published)
			}
		})
	}
}

func TestAuthService_SignIn_ReadsRoleOnce(t *testing.T) {
	f := newAuthFixture(t)

	_, role, err := f.service.SignIn(context.Background(), "doctor@example.com", mocks.TestPassword, domain.PortalDoctor)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	d, ok := domain.AsDoctor(role)
	if !ok || d.DoctorID() != f.doctor.ID {
		t.Errorf("expected doctor role for %s, got %+v", f.doctor.ID, role)
	}
	if len(f.repo.FindRoleCalls) != 1 {
		t.Errorf("expected 1 role lookup, got %d", len(f.repo.FindRoleCalls))
	}
}

func TestAuthService_SignIn_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.service.SignIn(context.Background(), "", "", domain.PortalPatient)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthService_CurrentSession_RoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	issued, _, err := f.service.SignIn(ctx, "patient@example.com", mocks.TestPassword, domain.PortalPatient)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	current, err := f.service.CurrentSession(ctx, issued.Token)
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if current.ID != issued.ID || current.UserID != issued.UserID || current.Email != "patient@example.com" {
		t.Errorf("session mismatch: issued %+v, current %+v", issued, current)
	}
}

func TestAuthService_CurrentSession_Rejects(t *testing.T) {
	f := newAuthFixture(t)
	otherKey := mocks.GenerateTestKey(t)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		ID:        "sid",
		Subject:   "uid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(otherKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:      "sid",
		Subject: "uid",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, token := range map[string]string{
		"empty":           "",
		"garbage":         "not-a-token",
		"foreign_key":     foreign,
		"wrong_algorithm": hmac,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.CurrentSession(context.Background(), token)
			if !errors.Is(err, domain.ErrNoSession) {
				t.Errorf("expected ErrNoSession, got %v", err)
			}
		})
	}
}

func TestAuthService_SignOut_RevokesSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	session, _, err := f.service.SignIn(ctx, "patient@example.com", mocks.TestPassword, domain.PortalPatient)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if err := f.service.SignOut(ctx, session); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	if _, err := f.service.CurrentSession(ctx, session.Token); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("expected revoked token to be rejected, got %v", err)
	}

	last := f.notifier.Published[len(f.notifier.Published)-1]
	if last.Type != domain.SessionSignedOut || last.SessionID != session.ID {
		t.Errorf("expected signed_out event for %s, got %+v", session.ID, last)
	}
}

func TestAuthService_SignOut_NoSession(t *testing.T) {
	f := newAuthFixture(t)
	if err := f.service.SignOut(context.Background(), nil); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestAuthService_SignIn_SurvivesNotifierFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.notifier.PublishError = errors.New("redis down")

	if _, _, err := f.service.SignIn(context.Background(), "patient@example.com", mocks.TestPassword, domain.PortalPatient); err != nil {
		t.Fatalf("expected sign in to succeed, got %v", err)
	}
}

func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		setup    func(*mocks.MockRepository)
		wantErr  error
		wantVErr bool
	}{
		{name: "creates_patient", email: "New@Example.com", password: "secret1"},
		{name: "short_password", email: "new@example.com", password: "12345", wantVErr: true},
		{name: "invalid_email", email: "not-an-email", password: "secret1", wantVErr: true},
		{name: "duplicate_email", email: "patient@example.com", password: "secret1", wantErr: domain.ErrEmailTaken},
		{
			name:     "store_failure",
			email:    "new@example.com",
			password: "secret1",
			setup:    func(m *mocks.MockRepository) { m.CreateUserError = context.DeadlineExceeded },
			wantErr:  context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.setup != nil {
				tt.setup(f.repo)
			}

			user, err := f.service.SignUp(context.Background(), tt.email, tt.password)

			switch {
			case tt.wantVErr:
				var verr *domain.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			if user.Email != "new@example.com" {
				t.Errorf("expected normalised email, got %q", user.Email)
			}
			rec, ok := f.repo.Role(user.ID)
			if !ok || rec.Tag != domain.RolePatient {
				t.Errorf("expected patient role record, got %+v", rec)
			}

			if _, _, err := f.service.SignIn(context.Background(), "new@example.com", tt.password, domain.PortalPatient); err != nil {
				t.Errorf("new account cannot sign in: %v", err)
			}
		})
	}
}

func TestAuthService_Subscribe_EndsWithContext(t *testing.T) {
	f := newAuthFixture(t)
	session := mocks.NewTestSession("user-1", "a@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	events, err := f.service.Subscribe(ctx, session)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := f.notifier.Publish(context.Background(), domain.SessionEvent{Type: domain.SessionSignedOut, UserID: "user-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case evt := <-events:
		if evt.Type != domain.SessionSignedOut {
			t.Errorf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected channel to close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription not torn down")
	}
}
