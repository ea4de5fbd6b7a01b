package usershandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/auth"
	"perftrack/internal/authz"
	"perftrack/internal/domain/employee"
	"perftrack/internal/domain/identity"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

type Handler struct {
	Users     identity.StoreAPI
	Employees employee.StoreAPI

	// AllowSharedLink keeps the historical behaviour of letting several
	// accounts point at one employee. When false the link is one-to-one.
	AllowSharedLink bool
}

func NewHandler(users identity.StoreAPI, employees employee.StoreAPI, allowSharedLink bool) *Handler {
	return &Handler{Users: users, Employees: employees, AllowSharedLink: allowSharedLink}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
	})
}

type createUserRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=admin manager employee"`
	IsActive   *bool  `json:"is_active"`
	EmployeeID *int64 `json:"employee_id" validate:"omitempty,gt=0"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != authz.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin privileges required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createUserRequest
	if err := shared.DecodeValid(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if payload.EmployeeID != nil {
		exists, err := h.Employees.EmployeeExists(r.Context(), *payload.EmployeeID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
			return
		}
		if !exists {
			api.Fail(w, http.StatusBadRequest, "employee_missing", "linked employee does not exist", middleware.GetRequestID(r.Context()))
			return
		}
		if !h.AllowSharedLink {
			linked, err := h.Users.EmployeeLinked(r.Context(), *payload.EmployeeID)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
				return
			}
			if linked {
				api.Fail(w, http.StatusBadRequest, "employee_already_linked", "employee is already linked to another user", middleware.GetRequestID(r.Context()))
				return
			}
		}
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
		return
	}

	role := payload.Role
	if role == "" {
		role = authz.RoleEmployee
	}
	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	created, err := h.Users.CreateUser(r.Context(), identity.User{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     isActive,
		EmployeeID:   payload.EmployeeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrDuplicateEmail):
			api.Fail(w, http.StatusBadRequest, "duplicate_email", "a user with this email already exists", middleware.GetRequestID(r.Context()))
		case errors.Is(err, identity.ErrEmployeeMissing):
			api.Fail(w, http.StatusBadRequest, "employee_missing", "linked employee does not exist", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Created(w, created.Public())
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != authz.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin privileges required", middleware.GetRequestID(r.Context()))
		return
	}

	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}

	projected := make([]identity.PublicUser, 0, len(users))
	for _, u := range users {
		projected = append(projected, u.Public())
	}
	api.Success(w, projected)
}
