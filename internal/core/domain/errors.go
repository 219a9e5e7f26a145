package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid login credentials")
	ErrWrongPortal         = errors.New("doctor account used on patient portal")
	ErrDoctorPortalOnly    = errors.New("doctor portal requires a doctor role")
	ErrNoSession           = errors.New("no session")
	ErrNotDoctor           = errors.New("no doctor privileges")
	ErrEmailTaken          = errors.New("email already registered")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("status must be confirmed or cancelled")
	ErrVersionConflict     = errors.New("appointment version conflict")
	ErrNotFound            = errors.New("record not found")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
