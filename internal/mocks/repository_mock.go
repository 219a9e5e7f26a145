// Package mocks provides in-memory implementations of the port interfaces
// for tests. Each mock records its calls and accepts injected errors.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

// MockRepository implements every repository port over maps, mirroring the
// single SQL repository used in production.
type MockRepository struct {
	mu sync.Mutex

	users        map[string]*domain.User
	roles        map[string]*domain.RoleRecord
	doctors      map[string]*domain.Doctor
	appointments map[string]*domain.Appointment
	events       []ports.AppointmentEvent

	// Call tracking
	FindByEmailCalls       []string
	CreateUserCalls        []domain.User
	FindRoleCalls          []string
	CreateAppointmentCalls []domain.Appointment
	UpdateStatusCalls      []domain.StatusUpdate

	// Error injection
	FindByEmailError       error
	CreateUserError        error
	FindRoleError          error
	ListDoctorsError       error
	FindDoctorError        error
	CreateDoctorError      error
	CreateAppointmentError error
	UpdateStatusError      error
	ListAppointmentsError  error
}

var (
	_ ports.UserRepository        = (*MockRepository)(nil)
	_ ports.RoleRepository        = (*MockRepository)(nil)
	_ ports.DoctorRepository      = (*MockRepository)(nil)
	_ ports.AppointmentRepository = (*MockRepository)(nil)
)

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:        make(map[string]*domain.User),
		roles:        make(map[string]*domain.RoleRecord),
		doctors:      make(map[string]*domain.Doctor),
		appointments: make(map[string]*domain.Appointment),
	}
}

// SeedUser stores an account and, when role is non-nil, its role record.
func (m *MockRepository) SeedUser(user domain.User, role *domain.RoleRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = &user
	if role != nil {
		r := *role
		m.roles[r.UserID] = &r
	}
}

func (m *MockRepository) SeedDoctor(doctor domain.Doctor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doctors[doctor.ID] = &doctor
}

func (m *MockRepository) SeedAppointment(apt domain.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments[apt.ID] = &apt
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByEmailCalls = append(m.FindByEmailCalls, email)
	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}

	user, ok := m.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockRepository) CreateUserWithRole(ctx context.Context, user domain.User, role domain.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateUserCalls = append(m.CreateUserCalls, user)
	if m.CreateUserError != nil {
		return m.CreateUserError
	}
	if _, exists := m.users[user.Email]; exists {
		return domain.ErrEmailTaken
	}

	m.users[user.Email] = &user
	m.roles[role.UserID] = &role
	return nil
}

func (m *MockRepository) FindRole(ctx context.Context, userID string) (*domain.RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindRoleCalls = append(m.FindRoleCalls, userID)
	if m.FindRoleError != nil {
		return nil, m.FindRoleError
	}

	rec, ok := m.roles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r := *rec
	return &r, nil
}

func (m *MockRepository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListDoctorsError != nil {
		return nil, m.ListDoctorsError
	}

	out := make([]domain.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockRepository) FindDoctor(ctx context.Context, id string) (*domain.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindDoctorError != nil {
		return nil, m.FindDoctorError
	}
	d, ok := m.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	doctor := *d
	return &doctor, nil
}

func (m *MockRepository) CreateDoctor(ctx context.Context, doctor domain.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateDoctorError != nil {
		return m.CreateDoctorError
	}
	m.doctors[doctor.ID] = &doctor
	return nil
}

func (m *MockRepository) CreateAppointment(ctx context.Context, apt domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateAppointmentCalls = append(m.CreateAppointmentCalls, apt)
	if m.CreateAppointmentError != nil {
		return m.CreateAppointmentError
	}

	m.appointments[apt.ID] = &apt
	m.events = append(m.events, ports.NewAppointmentEvent(ports.EventAppointmentBooked, apt))
	return nil
}

func (m *MockRepository) UpdateStatus(ctx context.Context, update domain.StatusUpdate) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, update)
	if m.UpdateStatusError != nil {
		return nil, m.UpdateStatusError
	}

	apt, ok := m.appointments[update.AppointmentID]
	if !ok || apt.DoctorID != update.DoctorID {
		return nil, domain.ErrAppointmentNotFound
	}
	if update.ExpectedVersion > 0 && apt.Version != update.ExpectedVersion {
		return nil, domain.ErrVersionConflict
	}

	apt.Status = update.Status
	apt.Version++
	apt.UpdatedAt = time.Now().UTC()
	m.events = append(m.events, ports.NewAppointmentEvent(ports.EventAppointmentStatusChanged, *apt))

	out := *apt
	return &out, nil
}

func (m *MockRepository) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListAppointmentsError != nil {
		return nil, m.ListAppointmentsError
	}

	var out []domain.Appointment
	for _, a := range m.appointments {
		if a.UserID != userID {
			continue
		}
		apt := *a
		if d, ok := m.doctors[a.DoctorID]; ok {
			apt.Doctor = &domain.DoctorSummary{Name: d.Name, Specialty: d.Specialty}
		}
		out = append(out, apt)
	}
	sortAppointments(out)
	return out, nil
}

func (m *MockRepository) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListAppointmentsError != nil {
		return nil, m.ListAppointmentsError
	}

	var out []domain.Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	sortAppointments(out)
	return out, nil
}

// Appointment returns the stored copy of an appointment, for assertions.
func (m *MockRepository) Appointment(id string) (domain.Appointment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return domain.Appointment{}, false
	}
	return *a, true
}

// Role returns the stored role record of a user, for assertions.
func (m *MockRepository) Role(userID string) (domain.RoleRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[userID]
	if !ok {
		return domain.RoleRecord{}, false
	}
	return *r, true
}

// Events returns the outbox events written so far.
func (m *MockRepository) Events() []ports.AppointmentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.AppointmentEvent, len(m.events))
	copy(out, m.events)
	return out
}

// sortAppointments orders by date, then time, then creation, the same
// order the SQL repository uses.
func sortAppointments(list []domain.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if c := strings.Compare(list[i].Date, list[j].Date); c != 0 {
			return c < 0
		}
		if c := strings.Compare(list[i].Time, list[j].Time); c != 0 {
			return c < 0
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
