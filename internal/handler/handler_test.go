package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskward-dev/taskward/internal/config"
	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/middleware"
)

// --- Mocks ---

type MockAccountService struct {
	RegisterFunc              func(creds domain.Credentials, name, surname string) (domain.User, error)
	VerifyEmailFunc           func(email domain.Email, ticket domain.Ticket) (domain.User, error)
	ToggleActivationFunc      func(id domain.UserId) (bool, error)
	RequestPasswordResetFunc  func(email domain.Email) error
	ConfirmResetTicketFunc    func(email domain.Email, ticket domain.Ticket) error
	CompletePasswordResetFunc func(email domain.Email, password, passwordRepeat string) error
	UserFunc                  func(id domain.UserId) (domain.User, error)
	UpdateProfileFunc         func(id domain.UserId, upd domain.ProfileUpdate, actor domain.UserId) (domain.User, error)
	DeleteFunc                func(id domain.UserId) error
	SearchFunc                func(filter domain.UserFilter, page, size int) ([]domain.User, error)
}

func (m *MockAccountService) Register(creds domain.Credentials, name, surname string) (domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(creds, name, surname)
	}
	return domain.User{Id: 1, Email: creds.Email, Name: name, Surname: surname, Role: domain.RoleUser}, nil
}

func (m *MockAccountService) VerifyEmail(email domain.Email, ticket domain.Ticket) (domain.User, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(email, ticket)
	}
	return domain.User{Id: 1, Email: email, Enabled: true, Role: domain.RoleUser}, nil
}

func (m *MockAccountService) ToggleActivation(id domain.UserId) (bool, error) {
	if m.ToggleActivationFunc != nil {
		return m.ToggleActivationFunc(id)
	}
	return false, nil
}

func (m *MockAccountService) RequestPasswordReset(email domain.Email) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(email)
	}
	return nil
}

func (m *MockAccountService) ConfirmResetTicket(email domain.Email, ticket domain.Ticket) error {
	if m.ConfirmResetTicketFunc != nil {
		return m.ConfirmResetTicketFunc(email, ticket)
	}
	return nil
}

func (m *MockAccountService) CompletePasswordReset(email domain.Email, password, passwordRepeat string) error {
	if m.CompletePasswordResetFunc != nil {
		return m.CompletePasswordResetFunc(email, password, passwordRepeat)
	}
	return nil
}

func (m *MockAccountService) IsAuthenticatable(user *domain.User) bool {
	return user.Enabled
}

func (m *MockAccountService) User(id domain.UserId) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(id)
	}
	return domain.User{Id: id, Email: "test@example.com", Enabled: true, Role: domain.RoleUser}, nil
}

func (m *MockAccountService) UpdateProfile(id domain.UserId, upd domain.ProfileUpdate, actor domain.UserId) (domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(id, upd, actor)
	}
	return domain.User{Id: id, Email: upd.Email, Name: upd.Name, Surname: upd.Surname, Role: domain.RoleUser}, nil
}

func (m *MockAccountService) Delete(id domain.UserId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

func (m *MockAccountService) Search(filter domain.UserFilter, page, size int) ([]domain.User, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(filter, page, size)
	}
	return nil, nil
}

type MockAuthService struct {
	LoginFunc func(creds domain.Credentials) (string, error)
}

func (m *MockAuthService) Login(creds domain.Credentials) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(creds)
	}
	return "test_token", nil
}

type MockTodoService struct {
	CreateFunc         func(userId domain.UserId, title string, categoryId domain.CategoryId) (domain.Todo, error)
	ListByUserFunc     func(userId domain.UserId) ([]domain.Todo, error)
	ListByStatusFunc   func(userId domain.UserId, status domain.TodoStatus) ([]domain.Todo, error)
	ListByCategoryFunc func(userId domain.UserId, categoryId domain.CategoryId) ([]domain.Todo, error)
	UpdateStatusFunc   func(id domain.TodoId, status domain.TodoStatus) (domain.Todo, error)
	DeleteFunc         func(id domain.TodoId, userId domain.UserId) error
}

func (m *MockTodoService) Create(userId domain.UserId, title string, categoryId domain.CategoryId) (domain.Todo, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(userId, title, categoryId)
	}
	return domain.Todo{Id: 1, Title: title, Status: domain.StatusNotStarted, CategoryId: categoryId, UserId: userId}, nil
}

func (m *MockTodoService) ListByUser(userId domain.UserId) ([]domain.Todo, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(userId)
	}
	return nil, nil
}

func (m *MockTodoService) ListByStatus(userId domain.UserId, status domain.TodoStatus) ([]domain.Todo, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(userId, status)
	}
	return nil, nil
}

func (m *MockTodoService) ListByCategory(userId domain.UserId, categoryId domain.CategoryId) ([]domain.Todo, error) {
	if m.ListByCategoryFunc != nil {
		return m.ListByCategoryFunc(userId, categoryId)
	}
	return nil, nil
}

func (m *MockTodoService) UpdateStatus(id domain.TodoId, status domain.TodoStatus) (domain.Todo, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(id, status)
	}
	return domain.Todo{Id: id, Status: status}, nil
}

func (m *MockTodoService) Delete(id domain.TodoId, userId domain.UserId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id, userId)
	}
	return nil
}

type MockCategoryService struct {
	CreateFunc func(name string) (domain.Category, error)
	ListFunc   func() ([]domain.Category, error)
	GetFunc    func(id domain.CategoryId) (domain.Category, error)
	UpdateFunc func(id domain.CategoryId, name string) (domain.Category, error)
	DeleteFunc func(id domain.CategoryId) error
}

func (m *MockCategoryService) Create(name string) (domain.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(name)
	}
	return domain.Category{Id: 1, Name: name}, nil
}

func (m *MockCategoryService) List() ([]domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *MockCategoryService) Get(id domain.CategoryId) (domain.Category, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return domain.Category{Id: id, Name: "Work"}, nil
}

func (m *MockCategoryService) Update(id domain.CategoryId, name string) (domain.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(id, name)
	}
	return domain.Category{Id: id, Name: name}, nil
}

func (m *MockCategoryService) Delete(id domain.CategoryId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

type testMocks struct {
	accounts   *MockAccountService
	auth       *MockAuthService
	todos      *MockTodoService
	categories *MockCategoryService
}

func newTestHandler() (*Handler, *testMocks) {
	mocks := &testMocks{
		accounts:   &MockAccountService{},
		auth:       &MockAuthService{},
		todos:      &MockTodoService{},
		categories: &MockCategoryService{},
	}
	cfg := &config.Config{
		Public: config.Public{
			JwtTTL:         time.Hour,
			SearchPageSize: 5,
		},
	}
	return New(mocks.accounts, mocks.auth, mocks.todos, mocks.categories, cfg), mocks
}

// withUser puts an authenticated user into the request context, the way the
// auth middleware would.
func withUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserClaimsKey, user))
}

// serveWithParams runs the handler through a chi route so URL params resolve.
func serveWithParams(method, pattern string, handlerFn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, handlerFn)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
