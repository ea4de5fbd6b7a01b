package employeehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/authz"
	"perftrack/internal/domain/employee"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

type Handler struct {
	Store employee.StoreAPI
}

func NewHandler(store employee.StoreAPI) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
		})
	})
}

type employeeRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Status     string  `json:"status"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	decision := authz.ResolveList(caller, authz.Employees)
	if !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions to view employees", middleware.GetRequestID(r.Context()))
		return
	}
	if decision.Effect == authz.Scoped && decision.Scope == nil {
		api.Success(w, []employee.Employee{})
		return
	}

	employees, err := h.Store.ListEmployees(r.Context(), decision.Scope)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveRead(caller, authz.Employees, emp.ID); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only view your own employee record", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, emp)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveCreate(caller, authz.Employees, 0); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin or manager privileges required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload employeeRequest
	if err := shared.DecodeValid(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	status := payload.Status
	if status == "" {
		status = "active"
	}

	created, err := h.Store.CreateEmployee(r.Context(), employee.Employee{
		Name:       payload.Name,
		Email:      payload.Email,
		Role:       payload.Role,
		Department: payload.Department,
		Status:     status,
	})
	if err != nil {
		if errors.Is(err, employee.ErrDuplicateEmail) {
			api.Fail(w, http.StatusBadRequest, "duplicate_email", "an employee with this email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	api.Created(w, created)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveUpdate(caller, authz.Employees, id); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin or manager privileges required", middleware.GetRequestID(r.Context()))
		return
	}

	existing, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	var payload employeeRequest
	if err := shared.DecodeValid(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	// Full replace: an omitted status falls back to the default rather than
	// keeping the stored value.
	existing.Name = payload.Name
	existing.Email = payload.Email
	existing.Role = payload.Role
	existing.Department = payload.Department
	existing.Status = payload.Status
	if existing.Status == "" {
		existing.Status = "active"
	}

	if err := h.Store.UpdateEmployee(r.Context(), existing); err != nil {
		if errors.Is(err, employee.ErrDuplicateEmail) {
			api.Fail(w, http.StatusBadRequest, "duplicate_email", "another employee with this email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, existing)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := shared.ParseID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveDelete(caller, authz.Employees); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin or manager privileges required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	api.NoContent(w)
}
