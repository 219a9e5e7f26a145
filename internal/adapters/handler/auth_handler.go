package handler

import (
	"net/http"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	roles       ports.RoleResolver
}

func NewAuthHandler(auth ports.AuthService, roles ports.RoleResolver) *AuthHandler {
	return &AuthHandler{authService: auth, roles: roles}
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message  string          `json:"message"`
	Token    string          `json:"token"`
	Session  *domain.Session `json:"session"`
	Role     domain.RoleTag  `json:"role"`
	DoctorID string          `json:"doctor_id,omitempty"`
	Redirect string          `json:"redirect"`
}

type SignUpResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type SessionResponse struct {
	Session  *domain.Session `json:"session"`
	Role     domain.RoleTag  `json:"role"`
	DoctorID string          `json:"doctor_id,omitempty"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "Sign up failed")
		return
	}

	writeJSON(w, http.StatusCreated, SignUpResponse{Message: "Account created", User: user})
}

// Login is the patient portal.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, domain.PortalPatient, "Welcome back!", middleware.HomePath)
}

func (h *AuthHandler) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, domain.PortalDoctor, "Welcome, Doctor!", doctorDashboard)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, portal domain.Portal, message, redirect string) {
	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, role, err := h.authService.SignIn(r.Context(), req.Email, req.Password, portal)
	if err != nil {
		writeServiceError(w, r, err, "Login failed")
		return
	}

	resp := LoginResponse{
		Message:  message,
		Token:    session.Token,
		Session:  session,
		Role:     domain.RolePatient,
		Redirect: redirect,
	}
	if d, ok := domain.AsDoctor(role); ok {
		resp.Role = domain.RoleDoctor
		resp.DoctorID = d.DoctorID()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.SignOut(r.Context(), middleware.SessionFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err, "Logout failed")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully", Redirect: middleware.HomePath})
}

// Session returns the caller's session and resolved role.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		writeServiceError(w, r, domain.ErrNoSession, "")
		return
	}

	resp := SessionResponse{Session: session, Role: domain.RolePatient}
	if d, ok := domain.AsDoctor(h.roles.Resolve(r.Context(), session.UserID)); ok {
		resp.Role = domain.RoleDoctor
		resp.DoctorID = d.DoctorID()
	}
	writeJSON(w, http.StatusOK, resp)
}
