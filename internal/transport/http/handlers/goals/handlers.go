package goalhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/authz"
	"perftrack/internal/domain/employee"
	"perftrack/internal/domain/goal"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

type Handler struct {
	Store     goal.StoreAPI
	Employees employee.StoreAPI
}

func NewHandler(store goal.StoreAPI, employees employee.StoreAPI) *Handler {
	return &Handler{Store: store, Employees: employees}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Route("/{goalID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
		})
	})
}

type createGoalRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status"`
	Progress    int     `json:"progress"`
	EmployeeID  int64   `json:"employee_id" validate:"required,gt=0"`
}

type updateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
	EmployeeID  *int64  `json:"employee_id" validate:"omitempty,gt=0"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	decision := authz.ResolveList(caller, authz.Goals)
	if !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions to view goals", middleware.GetRequestID(r.Context()))
		return
	}
	if decision.Effect == authz.Scoped && decision.Scope == nil {
		api.Success(w, []goal.Goal{})
		return
	}

	goals, err := h.Store.ListGoals(r.Context(), decision.Scope)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_list_failed", "failed to list goals", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, goals)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := shared.ParseID(r, "goalID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid goal id", middleware.GetRequestID(r.Context()))
		return
	}

	g, err := h.Store.GetGoal(r.Context(), id)
	if err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "goal not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "goal_get_failed", "failed to load goal", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveRead(caller, authz.Goals, g.EmployeeID); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only view your own goals", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, g)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createGoalRequest
	if err := shared.DecodeValid(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	decision := authz.ResolveCreate(caller, authz.Goals, payload.EmployeeID)
	if !decision.Allowed() {
		failDenied(w, r, decision, "goals")
		return
	}

	exists, err := h.Employees.EmployeeExists(r.Context(), payload.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_create_failed", "failed to create goal", middleware.GetRequestID(r.Context()))
		return
	}
	if !exists {
		api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
		return
	}

	status := payload.Status
	if status == "" {
		status = "in-progress"
	}

	created, err := h.Store.CreateGoal(r.Context(), goal.Goal{
		Title:       payload.Title,
		Description: payload.Description,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		Status:      status,
		Progress:    payload.Progress,
		EmployeeID:  payload.EmployeeID,
	})
	if err != nil {
		if errors.Is(err, goal.ErrEmployeeMissing) {
			api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "goal_create_failed", "failed to create goal", middleware.GetRequestID(r.Context()))
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

	id, err := shared.ParseID(r, "goalID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid goal id", middleware.GetRequestID(r.Context()))
		return
	}

	g, err := h.Store.GetGoal(r.Context(), id)
	if err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "goal not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "goal_update_failed", "failed to load goal", middleware.GetRequestID(r.Context()))
		return
	}

	decision := authz.ResolveUpdate(caller, authz.Goals, g.EmployeeID)
	if !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only update your own goals", middleware.GetRequestID(r.Context()))
		return
	}

	var payload updateGoalRequest
	if err := shared.DecodeValid(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if decision.Effect == authz.Full && payload.EmployeeID != nil && *payload.EmployeeID != g.EmployeeID {
		exists, err := h.Employees.EmployeeExists(r.Context(), *payload.EmployeeID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "goal_update_failed", "failed to update goal", middleware.GetRequestID(r.Context()))
			return
		}
		if !exists {
			api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
			return
		}
		g.EmployeeID = *payload.EmployeeID
	}

	applyGoalPatch(&g, payload, decision)

	if err := h.Store.UpdateGoal(r.Context(), g); err != nil {
		if errors.Is(err, goal.ErrEmployeeMissing) {
			api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "goal_update_failed", "failed to update goal", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, g)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := shared.ParseID(r, "goalID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid goal id", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveDelete(caller, authz.Goals); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "only admin or manager can delete goals", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.DeleteGoal(r.Context(), id); err != nil {
		if errors.Is(err, goal.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "goal not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "goal_delete_failed", "failed to delete goal", middleware.GetRequestID(r.Context()))
		return
	}

	api.NoContent(w)
}

// applyGoalPatch copies the supplied fields onto g, honouring a
// field-restricted decision: fields outside the grant are dropped silently,
// matching the lenient behaviour of the update contract.
func applyGoalPatch(g *goal.Goal, patch updateGoalRequest, decision authz.Decision) {
	allowed := func(field string) bool {
		if decision.Effect != authz.FieldRestricted {
			return true
		}
		for _, f := range decision.Fields {
			if f == field {
				return true
			}
		}
		return false
	}

	if patch.Title != nil && allowed("title") {
		g.Title = *patch.Title
	}
	if patch.Description != nil && allowed("description") {
		g.Description = patch.Description
	}
	if patch.StartDate != nil && allowed("start_date") {
		g.StartDate = patch.StartDate
	}
	if patch.EndDate != nil && allowed("end_date") {
		g.EndDate = patch.EndDate
	}
	if patch.Status != nil && allowed("status") {
		g.Status = *patch.Status
	}
	if patch.Progress != nil && allowed("progress") {
		g.Progress = *patch.Progress
	}
}

func failDenied(w http.ResponseWriter, r *http.Request, decision authz.Decision, what string) {
	if decision.Reason == authz.ReasonNotLinked {
		api.Fail(w, http.StatusBadRequest, "not_linked", "you are not linked to an employee record", middleware.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions to create "+what, middleware.GetRequestID(r.Context()))
}
