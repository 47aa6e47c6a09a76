package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/handler/http/middleware"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/confirm"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
	SelectCompany(w http.ResponseWriter, r *http.Request)
	ClearSelectedCompany(w http.ResponseWriter, r *http.Request)
	SSEToken(w http.ResponseWriter, r *http.Request)

	ListUsers(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
	scanLimiter *middleware.ScanLimiter
}

func NewAuthHandler(authService auth.AuthService, scanLimiter *middleware.ScanLimiter) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
		scanLimiter: scanLimiter,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	tracking := auth.SessionTrackingRequest{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
	loginResp, err := a.authService.Login(r.Context(), loginReq, tracking)
	if err != nil {
		slog.Warn("Login failed", "email", loginReq.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", loginResp)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := auth.SessionFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.Logout(r.Context()); err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}
	if a.scanLimiter != nil {
		a.scanLimiter.Forget(sess.ID)
	}

	response.SuccessWithMessage(w, "Logout successful", nil)
}

// Profile implements AuthHandler.
func (a *AuthHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := a.authService.Profile(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// SelectCompany implements AuthHandler.
func (a *AuthHandlerImpl) SelectCompany(w http.ResponseWriter, r *http.Request) {
	var req auth.SelectCompanyRequest
	if !decodeJSON(w, r, &req, "SelectCompany") {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := a.authService.SelectCompany(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company selected", view)
}

// ClearSelectedCompany implements AuthHandler.
func (a *AuthHandlerImpl) ClearSelectedCompany(w http.ResponseWriter, r *http.Request) {
	view, err := a.authService.ClearSelectedCompany(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company selection cleared", view)
}

// SSEToken implements AuthHandler.
func (a *AuthHandlerImpl) SSEToken(w http.ResponseWriter, r *http.Request) {
	token, err := a.authService.IssueSSEToken(r.Context())
	if err != nil {
		slog.Error("SSE token generation failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, token)
}

// ListUsers implements AuthHandler.
func (a *AuthHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.authService.ListUsers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, users)
}

// CreateUser implements AuthHandler.
func (a *AuthHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req, "CreateUser") {
		return
	}

	created, err := a.authService.CreateUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", created)
}

// DeleteUser implements AuthHandler.
func (a *AuthHandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "User ID")
	if !ok {
		return
	}

	if err := a.authService.DeleteUser(r.Context(), id, confirm.FromRequest(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User deleted successfully", nil)
}
