package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/services"
	"github.com/sowmya-kancharla03/CuraCare/internal/mocks"
)

type authEnv struct {
	mw       *AuthMiddleware
	auth     *services.AuthService
	repo     *mocks.MockRepository
	doctorID string
	patient  string
	doctor   string
	unlinked string
	dangling string
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	repo := mocks.NewMockRepository()
	doctor := mocks.NewTestDoctor("Dr. A", "Cardiology")
	repo.SeedDoctor(doctor)

	patient := mocks.NewTestUser(t, "patient@example.com")
	repo.SeedUser(patient, mocks.PatientRecord(patient.ID))
	doc := mocks.NewTestUser(t, "doctor@example.com")
	repo.SeedUser(doc, mocks.DoctorRecord(doc.ID, doctor.ID))
	unlinked := mocks.NewTestUser(t, "unlinked@example.com")
	repo.SeedUser(unlinked, mocks.DoctorRecord(unlinked.ID, ""))
	dangling := mocks.NewTestUser(t, "dangling@example.com")
	repo.SeedUser(dangling, mocks.DoctorRecord(dangling.ID, "deleted-doctor"))

	auth := services.NewAuthService(repo, repo, mocks.NewMockSessionStore(), mocks.NewMockSessionNotifier(), mocks.GenerateTestKey(t), time.Hour)
	env := &authEnv{
		mw:       NewAuthMiddleware(auth, services.NewRoleResolver(repo, repo)),
		auth:     auth,
		repo:     repo,
		doctorID: doctor.ID,
	}
	env.patient = signIn(t, auth, "patient@example.com", domain.PortalPatient)
	env.doctor = signIn(t, auth, "doctor@example.com", domain.PortalDoctor)
	env.unlinked = signIn(t, auth, "unlinked@example.com", domain.PortalDoctor)
	env.dangling = signIn(t, auth, "dangling@example.com", domain.PortalDoctor)
	return env
}

func signIn(t *testing.T, auth *services.AuthService, email string, portal domain.Portal) string {
	t.Helper()
	s, _, err := auth.SignIn(context.Background(), email, mocks.TestPassword, portal)
	if err != nil {
		t.Fatalf("sign in %s: %v", email, err)
	}
	return s.Token
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if SessionFromContext(r.Context()) == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestRequireSession(t *testing.T) {
	env := newAuthEnv(t)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no_auth_header", "", http.StatusUnauthorized},
		{"invalid_header_format", "InvalidFormat", http.StatusUnauthorized},
		{"empty_bearer", "Bearer ", http.StatusUnauthorized},
		{"invalid_token", "Bearer invalid.token.here", http.StatusUnauthorized},
		{"valid_token", "Bearer " + env.patient, http.StatusOK},
		{"lowercase_scheme", "bearer " + env.patient, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			env.mw.RequireSession(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if body := decodeError(t, rec); body.Redirect != LoginPath {
					t.Errorf("expected redirect %q, got %q", LoginPath, body.Redirect)
				}
			}
		})
	}
}

func TestRequireSession_RevokedToken(t *testing.T) {
	env := newAuthEnv(t)

	session, err := env.auth.CurrentSession(context.Background(), env.patient)
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if err := env.auth.SignOut(context.Background(), session); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	req := httptest.NewRequest("GET", "/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+env.patient)
	rec := httptest.NewRecorder()

	env.mw.RequireSession(okHandler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after sign out, got %d", rec.Code)
	}
}

func TestRequireSession_WebSocketQueryToken(t *testing.T) {
	env := newAuthEnv(t)

	req := httptest.NewRequest("GET", "/auth/session/events?access_token="+env.patient, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()

	env.mw.RequireSession(okHandler).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected query token accepted on upgrade, got %d", rec.Code)
	}

	plain := httptest.NewRequest("GET", "/appointments?access_token="+env.patient, nil)
	rec = httptest.NewRecorder()
	env.mw.RequireSession(okHandler).ServeHTTP(rec, plain)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected query token ignored without upgrade, got %d", rec.Code)
	}
}

func TestRequireDoctor(t *testing.T) {
	env := newAuthEnv(t)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"linked_doctor", env.doctor, http.StatusOK},
		{"patient", env.patient, http.StatusForbidden},
		{"doctor_role_without_doctor_id", env.unlinked, http.StatusForbidden},
		{"doctor_profile_missing", env.dangling, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/doctor/dashboard", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				role, profile, ok := DoctorFromContext(r.Context())
				if !ok || role.DoctorID() != env.doctorID || profile == nil || profile.ID != env.doctorID {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			env.mw.RequireSession(env.mw.RequireDoctor(inner)).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusForbidden {
				if body := decodeError(t, rec); body.Redirect != HomePath {
					t.Errorf("expected redirect %q, got %q", HomePath, body.Redirect)
				}
			}
		})
	}
}

func TestRequireDoctor_ResolvesRoleOnce(t *testing.T) {
	env := newAuthEnv(t)
	before := len(env.repo.FindRoleCalls)

	req := httptest.NewRequest("GET", "/doctor/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+env.doctor)
	rec := httptest.NewRecorder()
	env.mw.RequireSession(env.mw.RequireDoctor(okHandler)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if n := len(env.repo.FindRoleCalls) - before; n != 1 {
		t.Errorf("expected 1 role lookup per doctor request, got %d", n)
	}
}

func TestRequireDoctor_ProfileLookupFails(t *testing.T) {
	env := newAuthEnv(t)
	env.repo.FindDoctorError = errors.New("connection reset")

	req := httptest.NewRequest("GET", "/doctor/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+env.doctor)
	rec := httptest.NewRecorder()
	env.mw.RequireSession(env.mw.RequireDoctor(okHandler)).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != "Failed to load doctor details" {
		t.Errorf("unexpected error message %q", body.Error)
	}
}

func TestRequireDoctor_WithoutSession(t *testing.T) {
	env := newAuthEnv(t)
	rec := httptest.NewRecorder()

	env.mw.RequireDoctor(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/doctor/dashboard", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
