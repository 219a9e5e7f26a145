package mocks

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

// TestPassword is the plain-text password of every account built by
// NewTestUser.
const TestPassword = "secret123"

// GenerateTestKey returns a small RSA key for signing test tokens.
func GenerateTestKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

// NewTestUser builds an account whose password is TestPassword.
func NewTestUser(t testing.TB, email string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
}

func NewTestDoctor(name, specialty string) domain.Doctor {
	return domain.Doctor{
		ID:              uuid.NewString(),
		Name:            name,
		Specialty:       specialty,
		ExperienceYears: 10,
		Rating:          4.5,
		Available:       true,
		CreatedAt:       time.Now().UTC(),
	}
}

// PatientRecord and DoctorRecord build role records for SeedUser.
func PatientRecord(userID string) *domain.RoleRecord {
	return &domain.RoleRecord{UserID: userID, Tag: domain.RolePatient, CreatedAt: time.Now().UTC()}
}

func DoctorRecord(userID, doctorID string) *domain.RoleRecord {
	return &domain.RoleRecord{UserID: userID, Tag: domain.RoleDoctor, DoctorID: doctorID, CreatedAt: time.Now().UTC()}
}

func NewTestSession(userID, email string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

// NewTestBooking returns a valid booking form for doctorID.
func NewTestBooking(doctorID, date, clock string) domain.BookingRequest {
	return domain.BookingRequest{
		DoctorID:     doctorID,
		PatientName:  "Jane Doe",
		PatientPhone: "555-0100",
		Date:         date,
		Time:         clock,
	}
}
