package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"perftrack/internal/auth"
	"perftrack/internal/domain/identity"
)

type fakeUserStore struct {
	byEmail map[string]identity.User
}

func (f *fakeUserStore) CreateUser(context.Context, identity.User) (identity.User, error) {
	panic("not used")
}

func (f *fakeUserStore) ListUsers(context.Context) ([]identity.User, error) {
	panic("not used")
}

func (f *fakeUserStore) UserByID(_ context.Context, id int64) (identity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return identity.User{}, identity.ErrNotFound
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (identity.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return identity.User{}, identity.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) EmployeeLinked(context.Context, int64) (bool, error) {
	return false, nil
}

func storeWithUser(t *testing.T, password string, active bool) *fakeUserStore {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	empID := int64(4)
	return &fakeUserStore{byEmail: map[string]identity.User{
		"jo@co.com": {
			ID:           7,
			Name:         "Jo",
			Email:        "jo@co.com",
			PasswordHash: hash,
			Role:         "employee",
			IsActive:     active,
			EmployeeID:   &empID,
		},
	}}
}

func doLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	h := NewHandler(storeWithUser(t, "pass1234", true), "test-secret", time.Hour)
	rec := doLogin(t, h, `{"email":"jo@co.com","password":"pass1234"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want bearer", resp.TokenType)
	}
	if resp.User.ID != 7 || resp.User.Email != "jo@co.com" {
		t.Fatalf("unexpected user projection: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}

	claims, err := auth.ParseToken("test-secret", resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "employee" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "jo@co.com" {
		t.Fatalf("subject = %q, want email", claims.Subject)
	}
	if claims.EmployeeID == nil || *claims.EmployeeID != 4 {
		t.Fatalf("unexpected employee claim: %+v", claims.EmployeeID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := NewHandler(storeWithUser(t, "pass1234", true), "test-secret", time.Hour)
	rec := doLogin(t, h, `{"email":"jo@co.com","password":"nope"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	h := NewHandler(storeWithUser(t, "pass1234", true), "test-secret", time.Hour)

	unknown := doLogin(t, h, `{"email":"ghost@co.com","password":"pass1234"}`)
	wrong := doLogin(t, h, `{"email":"jo@co.com","password":"nope"}`)

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("statuses %d/%d, want 401/401", unknown.Code, wrong.Code)
	}
	// Identical bodies so failed logins cannot be used to probe for
	// registered emails.
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", unknown.Body.String(), wrong.Body.String())
	}
}

func TestLoginInactiveUser(t *testing.T) {
	h := NewHandler(storeWithUser(t, "pass1234", false), "test-secret", time.Hour)
	rec := doLogin(t, h, `{"email":"jo@co.com","password":"pass1234"}`)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}

func TestLoginRejectsMalformedPayload(t *testing.T) {
	h := NewHandler(storeWithUser(t, "pass1234", true), "test-secret", time.Hour)

	for _, body := range []string{``, `{`, `{"email":"not-an-email","password":"x"}`, `{"email":"jo@co.com"}`} {
		rec := doLogin(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status %d, want 400", body, rec.Code)
		}
	}
}
