package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
)

const (
	maxBodyBytes = 1 << 20

	doctorLoginPath   = "/doctor-login"
	doctorDashboard   = "/doctor-dashboard"
	appointmentsPath  = "/appointments"
	msgLoginRequired  = "Please login to continue"
	msgDoctorNotFound = "Failed to load doctor details"
)

type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

var writeJSON = middleware.WriteJSON

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request payload", "")
		return false
	}
	return true
}

// writeServiceError maps service errors to status codes and the messages a
// user sees. Unclassified errors are logged and reported as fallback.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		middleware.WriteError(w, http.StatusBadRequest, verr.Message, "")
	case errors.Is(err, domain.ErrNoSession):
		middleware.WriteError(w, http.StatusUnauthorized, msgLoginRequired, middleware.LoginPath)
	case errors.Is(err, domain.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid login credentials", "")
	case errors.Is(err, domain.ErrWrongPortal):
		middleware.WriteError(w, http.StatusForbidden, "Please use Doctor Login to access your account.", doctorLoginPath)
	case errors.Is(err, domain.ErrDoctorPortalOnly):
		middleware.WriteError(w, http.StatusForbidden, "This login is for doctors only. Please use patient login.", middleware.LoginPath)
	case errors.Is(err, domain.ErrNotDoctor):
		middleware.WriteError(w, http.StatusForbidden, "You don't have doctor privileges", middleware.HomePath)
	case errors.Is(err, domain.ErrEmailTaken):
		middleware.WriteError(w, http.StatusConflict, "User already registered", "")
	case errors.Is(err, domain.ErrDoctorNotFound):
		middleware.WriteError(w, http.StatusNotFound, msgDoctorNotFound, middleware.HomePath)
	case errors.Is(err, domain.ErrAppointmentNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Appointment not found", "")
	case errors.Is(err, domain.ErrInvalidStatus):
		middleware.WriteError(w, http.StatusBadRequest, "Status must be confirmed or cancelled", "")
	case errors.Is(err, domain.ErrVersionConflict):
		middleware.WriteError(w, http.StatusConflict, "Appointment was changed by someone else, reload and try again", "")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		middleware.WriteError(w, http.StatusInternalServerError, fallback, "")
	}
}
