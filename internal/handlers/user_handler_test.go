package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"bellaBack/internal/repositories"
	"bellaBack/internal/services"
	"bellaBack/utils"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	manager, err := utils.NewManager("test-signing-key")
	if err != nil {
		t.Fatalf("utils.NewManager: %v", err)
	}
	userRepo := &repositories.UserRepository{DB: db}
	authService := &services.AuthService{
		UserRepo:     userRepo,
		TokenManager: manager,
	}
	userService := &services.UserService{UserRepo: userRepo}
	return &UserHandler{AuthService: authService, UserService: userService}, mock
}

func TestGetCurrentUserWithoutSession(t *testing.T) {
	handler, mock := newUserHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	rec := httptest.NewRecorder()
	handler.GetCurrentUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Authenticated {
		t.Error("authenticated = true without a token")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query issued without a session: %v", err)
	}
}

func TestSignUpRejectsInvalidBody(t *testing.T) {
	handler, mock := newUserHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/user/sign_up",
		strings.NewReader(`{"email":"broken","password":"secret1","first_name":"Léa","last_name":"Martin"}`))
	rec := httptest.NewRecorder()
	handler.SignUp(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query issued for invalid request: %v", err)
	}
}
