package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

const uniqueViolation = "23505"

//go:embed migrations/*.sql
var migrations embed.FS

type SQLRepository struct {
	db *sql.DB
}

var (
	_ ports.UserRepository        = (*SQLRepository)(nil)
	_ ports.RoleRepository        = (*SQLRepository)(nil)
	_ ports.DoctorRepository      = (*SQLRepository)(nil)
	_ ports.AppointmentRepository = (*SQLRepository)(nil)
)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Migrate applies the bundled schema files in name order. Every statement is
// idempotent, so running it against an initialised database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return nil, fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return names, nil
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(
		ctx,
		"SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1",
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) CreateUserWithRole(ctx context.Context, user domain.User, role domain.RoleRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role, doctor_id, created_at) VALUES ($1, $2, $3, $4)",
		role.UserID,
		string(role.Tag),
		nullable(role.DoctorID),
		role.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLRepository) FindRole(ctx context.Context, userID string) (*domain.RoleRecord, error) {
	if !validID(userID) {
		return nil, domain.ErrNotFound
	}

	var (
		rec      domain.RoleRecord
		tag      string
		doctorID sql.NullString
	)
	err := r.db.QueryRowContext(
		ctx,
		"SELECT user_id, role, doctor_id, created_at FROM user_roles WHERE user_id = $1",
		userID,
	).Scan(&rec.UserID, &tag, &doctorID, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.Tag = domain.RoleTag(tag)
	rec.DoctorID = doctorID.String
	return &rec, nil
}

// Ping reports whether the database answers.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// validID guards UUID columns against arbitrary path input, which PostgreSQL
// would reject with a syntax error rather than an empty result.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
