package usershandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"perftrack/internal/auth"
	"perftrack/internal/domain/employee"
	"perftrack/internal/domain/identity"
	"perftrack/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type fakeUserStore struct {
	users  map[int64]identity.User
	nextID int64
}

func newFakeUserStore(users ...identity.User) *fakeUserStore {
	s := &fakeUserStore{users: map[int64]identity.User{}, nextID: 1}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *fakeUserStore) CreateUser(_ context.Context, u identity.User) (identity.User, error) {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return identity.User{}, identity.ErrDuplicateEmail
		}
	}
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) ListUsers(context.Context) ([]identity.User, error) {
	out := make([]identity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) UserByID(_ context.Context, id int64) (identity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return identity.User{}, identity.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UserByEmail(_ context.Context, email string) (identity.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return identity.User{}, identity.ErrNotFound
}

func (s *fakeUserStore) EmployeeLinked(_ context.Context, employeeID int64) (bool, error) {
	for _, u := range s.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeEmployeeDir struct {
	ids map[int64]bool
}

func (f *fakeEmployeeDir) ListEmployees(context.Context, *int64) ([]employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeDir) GetEmployee(context.Context, int64) (employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeDir) CreateEmployee(context.Context, employee.Employee) (employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeDir) UpdateEmployee(context.Context, employee.Employee) error {
	panic("not used")
}
func (f *fakeEmployeeDir) DeleteEmployee(context.Context, int64) error {
	panic("not used")
}
func (f *fakeEmployeeDir) EmployeeExists(_ context.Context, id int64) (bool, error) {
	return f.ids[id], nil
}

func intp(v int64) *int64 { return &v }

var (
	adminUser    = identity.User{ID: 1, Name: "Root", Email: "root@example.com", Role: "admin", IsActive: true}
	managerUser  = identity.User{ID: 2, Name: "Meg", Email: "meg@example.com", Role: "manager", IsActive: true}
	employeeUser = identity.User{ID: 3, Name: "Eli", Email: "eli@example.com", Role: "employee", IsActive: true, EmployeeID: intp(1)}
)

func setup(t *testing.T, allowSharedLink bool) (*fakeUserStore, chi.Router) {
	t.Helper()
	store := newFakeUserStore(adminUser, managerUser, employeeUser)
	h := NewHandler(store, &fakeEmployeeDir{ids: map[int64]bool{1: true, 2: true}}, allowSharedLink)
	r := chi.NewRouter()
	r.Use(middleware.Auth(testSecret, store))
	h.RegisterRoutes(r)
	return store, r
}

func do(t *testing.T, router chi.Router, as identity.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: as.ID, Role: as.Role, EmployeeID: as.EmployeeID}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateUserAdminOnly(t *testing.T) {
	_, router := setup(t, true)

	body := `{"name":"New","email":"new@example.com","password":"s3cret"}`
	if rec := do(t, router, managerUser, http.MethodPost, "/users", body); rec.Code != http.StatusForbidden {
		t.Fatalf("manager create: status %d, want 403", rec.Code)
	}
	if rec := do(t, router, employeeUser, http.MethodPost, "/users", body); rec.Code != http.StatusForbidden {
		t.Fatalf("employee create: status %d, want 403", rec.Code)
	}

	rec := do(t, router, adminUser, http.MethodPost, "/users", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create: status %d: %s", rec.Code, rec.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created["role"] != "employee" {
		t.Fatalf("role default = %v, want employee", created["role"])
	}
	if created["is_active"] != true {
		t.Fatalf("is_active default = %v, want true", created["is_active"])
	}
	if _, leaked := created["password_hash"]; leaked {
		t.Fatal("response leaks password hash")
	}
	if strings.Contains(rec.Body.String(), "s3cret") {
		t.Fatal("response leaks password")
	}
}

func TestCreateUserValidation(t *testing.T) {
	_, router := setup(t, true)

	cases := []struct {
		name string
		body string
	}{
		{"missing password", `{"name":"X","email":"x@example.com"}`},
		{"bad email", `{"name":"X","email":"nope","password":"pw"}`},
		{"unknown role", `{"name":"X","email":"x@example.com","password":"pw","role":"superuser"}`},
		{"duplicate email", `{"name":"X","email":"root@example.com","password":"pw"}`},
		{"missing employee", `{"name":"X","email":"x@example.com","password":"pw","employee_id":42}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := do(t, router, adminUser, http.MethodPost, "/users", tc.body); rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateUserEmployeeLink(t *testing.T) {
	// Shared links allowed: a second account may point at employee 1.
	_, router := setup(t, true)
	body := `{"name":"Second","email":"second@example.com","password":"pw","employee_id":1}`
	if rec := do(t, router, adminUser, http.MethodPost, "/users", body); rec.Code != http.StatusCreated {
		t.Fatalf("shared link allowed: status %d: %s", rec.Code, rec.Body.String())
	}

	// One-to-one mode rejects a second account for the same employee.
	_, router = setup(t, false)
	rec := do(t, router, adminUser, http.MethodPost, "/users", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("one-to-one link: status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "employee_already_linked") {
		t.Fatalf("body %q, want employee_already_linked", rec.Body.String())
	}

	// An employee nobody is linked to is fine in one-to-one mode.
	body = `{"name":"Third","email":"third@example.com","password":"pw","employee_id":2}`
	if rec := do(t, router, adminUser, http.MethodPost, "/users", body); rec.Code != http.StatusCreated {
		t.Fatalf("unlinked employee: status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListUsers(t *testing.T) {
	_, router := setup(t, true)

	if rec := do(t, router, employeeUser, http.MethodGet, "/users", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("employee list: status %d, want 403", rec.Code)
	}
	if rec := do(t, router, managerUser, http.MethodGet, "/users", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("manager list: status %d, want 403", rec.Code)
	}

	rec := do(t, router, adminUser, http.MethodGet, "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: status %d", rec.Code)
	}
	var users []identity.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("admin sees %d users, want 3", len(users))
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("listing leaks password material")
	}
}
