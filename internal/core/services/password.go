package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

const minPasswordLength = 6

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// newUser validates credentials and returns an account ready to be stored.
func newUser(email, password string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, &domain.ValidationError{Field: "email", Message: "a valid email is required"}
	}
	if len(password) < minPasswordLength {
		return domain.User{}, &domain.ValidationError{Field: "password", Message: "password should be at least 6 characters"}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
