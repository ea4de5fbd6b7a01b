package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"perftrack/internal/auth"
	"perftrack/internal/domain/identity"
)

type fakeUserSource struct {
	users map[int64]identity.User
}

func (f *fakeUserSource) UserByID(_ context.Context, id int64) (identity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return identity.User{}, identity.ErrNotFound
	}
	return u, nil
}

func activeUser(id int64, role string, employeeID *int64) *fakeUserSource {
	return &fakeUserSource{users: map[int64]identity.User{
		id: {ID: id, Name: "Test", Email: "t@example.com", Role: role, IsActive: true, EmployeeID: employeeID},
	}}
}

func TestAuthSetsUser(t *testing.T) {
	secret := "test-secret"
	empID := int64(3)
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 1, Role: "employee", EmployeeID: &empID}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	var seen bool
	handler := Auth(secret, activeUser(1, "employee", &empID))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = true
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.ID != 1 || user.Role != "employee" {
			t.Fatalf("unexpected user: %+v", user)
		}
		caller, ok := GetCaller(r.Context())
		if !ok || caller.EmployeeID == nil || *caller.EmployeeID != empID {
			t.Fatalf("unexpected caller: %+v", caller)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !seen {
		t.Fatalf("handler not reached, status %d", rec.Code)
	}
}

func TestAuthAcceptsRawTokenAndMixedCasePrefix(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 1, Role: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	for _, header := range []string{token, "bearer " + token, "BEARER " + token} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		Auth(secret, activeUser(1, "admin", nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("header %q: status %d, want 200", header, rec.Code)
		}
	}
}

func TestAuthMissingToken(t *testing.T) {
	handler := Auth("secret", activeUser(1, "admin", nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 1, Role: "admin"}, -time.Second)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Auth(secret, activeUser(1, "admin", nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestAuthUnknownUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 99, Role: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Auth(secret, &fakeUserSource{users: map[int64]identity.User{}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestAuthInactiveUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 1, Role: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	source := &fakeUserSource{users: map[int64]identity.User{
		1: {ID: 1, Role: "admin", IsActive: false},
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Auth(secret, source)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}
