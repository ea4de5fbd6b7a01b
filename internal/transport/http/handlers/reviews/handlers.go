package reviewhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/authz"
	"perftrack/internal/domain/employee"
	"perftrack/internal/domain/review"
	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/middleware"
	"perftrack/internal/transport/http/shared"
)

type Handler struct {
	Store     review.StoreAPI
	Employees employee.StoreAPI
}

func NewHandler(store review.StoreAPI, employees employee.StoreAPI) *Handler {
	return &Handler{Store: store, Employees: employees}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
		})
	})
}

type createReviewRequest struct {
	Month        string  `json:"month" validate:"required"`
	Rating       *int    `json:"rating" validate:"required"`
	Feedback     *string `json:"feedback"`
	ReviewerName string  `json:"reviewer_name" validate:"required"`
	EmployeeID   int64   `json:"employee_id" validate:"required,gt=0"`
}

type updateReviewRequest struct {
	Month        *string `json:"month"`
	Rating       *int    `json:"rating"`
	Feedback     *string `json:"feedback"`
	ReviewerName *string `json:"reviewer_name"`
	EmployeeID   *int64  `json:"employee_id" validate:"omitempty,gt=0"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	decision := authz.ResolveList(caller, authz.Reviews)
	if !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions to view reviews", middleware.GetRequestID(r.Context()))
		return
	}
	if decision.Effect == authz.Scoped && decision.Scope == nil {
		api.Success(w, []review.Review{})
		return
	}

	reviews, err := h.Store.ListReviews(r.Context(), decision.Scope)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_list_failed", "failed to list reviews", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, reviews)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := shared.ParseID(r, "reviewID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid review id", middleware.GetRequestID(r.Context()))
		return
	}

	rev, err := h.Store.GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "review not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "review_get_failed", "failed to load review", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveRead(caller, authz.Reviews, rev.EmployeeID); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only view your own reviews", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, rev)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createReviewRequest
	if err := shared.DecodeValid(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	decision := authz.ResolveCreate(caller, authz.Reviews, payload.EmployeeID)
	if !decision.Allowed() {
		if decision.Reason == authz.ReasonNotLinked {
			api.Fail(w, http.StatusBadRequest, "not_linked", "you are not linked to an employee record", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions to create reviews", middleware.GetRequestID(r.Context()))
		return
	}

	exists, err := h.Employees.EmployeeExists(r.Context(), payload.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_create_failed", "failed to create review", middleware.GetRequestID(r.Context()))
		return
	}
	if !exists {
		api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Store.CreateReview(r.Context(), review.Review{
		Month:        payload.Month,
		Rating:       *payload.Rating,
		Feedback:     payload.Feedback,
		ReviewerName: payload.ReviewerName,
		EmployeeID:   payload.EmployeeID,
	})
	if err != nil {
		if errors.Is(err, review.ErrEmployeeMissing) {
			api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "review_create_failed", "failed to create review", middleware.GetRequestID(r.Context()))
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

	id, err := shared.ParseID(r, "reviewID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid review id", middleware.GetRequestID(r.Context()))
		return
	}

	rev, err := h.Store.GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "review not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "review_update_failed", "failed to load review", middleware.GetRequestID(r.Context()))
		return
	}

	decision := authz.ResolveUpdate(caller, authz.Reviews, rev.EmployeeID)
	if !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only update your own reviews", middleware.GetRequestID(r.Context()))
		return
	}

	var payload updateReviewRequest
	if err := shared.DecodeValid(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if decision.Effect == authz.Full && payload.EmployeeID != nil && *payload.EmployeeID != rev.EmployeeID {
		exists, err := h.Employees.EmployeeExists(r.Context(), *payload.EmployeeID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "review_update_failed", "failed to update review", middleware.GetRequestID(r.Context()))
			return
		}
		if !exists {
			api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
			return
		}
		rev.EmployeeID = *payload.EmployeeID
	}

	applyReviewPatch(&rev, payload, decision)

	if err := h.Store.UpdateReview(r.Context(), rev); err != nil {
		if errors.Is(err, review.ErrEmployeeMissing) {
			api.Fail(w, http.StatusBadRequest, "employee_missing", "owning employee does not exist", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "review_update_failed", "failed to update review", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, rev)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := shared.ParseID(r, "reviewID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid review id", middleware.GetRequestID(r.Context()))
		return
	}

	if decision := authz.ResolveDelete(caller, authz.Reviews); !decision.Allowed() {
		api.Fail(w, http.StatusForbidden, "forbidden", "only admin or manager can delete reviews", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.DeleteReview(r.Context(), id); err != nil {
		if errors.Is(err, review.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "review not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "review_delete_failed", "failed to delete review", middleware.GetRequestID(r.Context()))
		return
	}

	api.NoContent(w)
}

// applyReviewPatch copies the supplied fields onto rev. Under a
// field-restricted decision only the granted fields are applied; anything
// else in the payload is ignored.
func applyReviewPatch(rev *review.Review, patch updateReviewRequest, decision authz.Decision) {
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

	if patch.Month != nil && allowed("month") {
		rev.Month = *patch.Month
	}
	if patch.Rating != nil && allowed("rating") {
		rev.Rating = *patch.Rating
	}
	if patch.Feedback != nil && allowed("feedback") {
		rev.Feedback = patch.Feedback
	}
	if patch.ReviewerName != nil && allowed("reviewer_name") {
		rev.ReviewerName = *patch.ReviewerName
	}
}
