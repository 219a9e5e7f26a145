package domain

import "time"

type RoleTag string

const (
	RolePatient RoleTag = "patient"
	RoleDoctor  RoleTag = "doctor"
)

// RoleRecord is the stored association between a user and a privilege tag.
// DoctorID is only meaningful when Tag is RoleDoctor.
type RoleRecord struct {
	UserID    string    `json:"user_id"`
	Tag       RoleTag   `json:"role"`
	DoctorID  string    `json:"doctor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Role is the resolved privilege of a signed-in user. The set of
// implementations is closed: PatientRole and DoctorRole.
type Role interface {
	Tag() RoleTag
	sealed()
}

type PatientRole struct{}

func (PatientRole) Tag() RoleTag { return RolePatient }
func (PatientRole) sealed()      {}

// DoctorRole always carries the id of the linked doctor profile. Build it
// with NewDoctorRole or ResolveRole.
type DoctorRole struct {
	doctorID string
}

func NewDoctorRole(doctorID string) (DoctorRole, error) {
	if doctorID == "" {
		return DoctorRole{}, ErrNotDoctor
	}
	return DoctorRole{doctorID: doctorID}, nil
}

func (r DoctorRole) DoctorID() string { return r.doctorID }
func (DoctorRole) Tag() RoleTag       { return RoleDoctor }
func (DoctorRole) sealed()            {}

// ResolveRole maps a stored record to a Role. A missing record, a patient
// record, and a doctor record without a linked doctor all resolve to
// PatientRole.
func ResolveRole(rec *RoleRecord) Role {
	if rec == nil || rec.Tag != RoleDoctor || rec.DoctorID == "" {
		return PatientRole{}
	}
	return DoctorRole{doctorID: rec.DoctorID}
}

// AsDoctor reports whether r grants doctor privileges.
func AsDoctor(r Role) (DoctorRole, bool) {
	d, ok := r.(DoctorRole)
	if !ok || d.doctorID == "" {
		return DoctorRole{}, false
	}
	return d, true
}
