package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
	"bellaBack/utils"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
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

	return &AuthService{
		UserRepo:     &repositories.UserRepository{DB: db},
		TokenManager: manager,
	}, mock
}

var userTestColumns = []string{
	"id", "email", "password", "first_name", "last_name", "phone", "city", "neighborhood",
	"activity_zone", "latitude", "longitude", "avatar_url", "is_provider", "is_verified",
	"is_premium", "subscription_tier", "accepts_emergency", "bio", "skills", "instagram",
	"tiktok", "years_of_exp", "created_at", "updated_at",
}

func userRow(id int, email, hashedPassword string, isProvider, isVerified bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userTestColumns).AddRow(
		id, email, hashedPassword, "Léa", "Martin", "0600000000", "Paris", "",
		"", "", "", "", isProvider, isVerified,
		false, "", false, "", `["coiffure"]`, "",
		"", 0, now, now,
	)
}

func TestSignUpValidatesBeforeQuery(t *testing.T) {
	svc, mock := newAuthService(t)

	cases := []models.SignUpRequest{
		{Email: "not-an-email", Password: "secret1", FirstName: "Léa", LastName: "Martin"},
		{Email: "lea @example.com", Password: "secret1", FirstName: "Léa", LastName: "Martin"},
		{Email: "lea@example.com", Password: "12345", FirstName: "Léa", LastName: "Martin"},
		{Email: "lea@example.com", Password: "secret1", FirstName: "  ", LastName: "Martin"},
		{Email: "lea@example.com", Password: "secret1", FirstName: "Léa", LastName: ""},
	}
	for _, req := range cases {
		_, err := svc.SignUp(context.Background(), req)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("SignUp(%q) err = %v, want validation error", req.Email, err)
		}
	}

	// No expectations were registered: any query would fail the test.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query issued for invalid request: %v", err)
	}
}

func TestSignInValidatesBeforeQuery(t *testing.T) {
	svc, mock := newAuthService(t)

	_, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "broken", Password: "secret1"})
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query issued for invalid email: %v", err)
	}
}

func TestSignInAfterSignUp(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE email").
		WithArgs("lea@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(42, 1))

	user, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:     "lea@example.com",
		Password:  "secret1",
		FirstName: "Léa",
		LastName:  "Martin",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.ID != 42 {
		t.Errorf("ID = %d, want 42", user.ID)
	}
	if user.Password != "" {
		t.Error("SignUp leaked the password hash")
	}
	if !user.IsVerified {
		t.Error("new account is not verified, sign-in would be refused")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("lea@example.com").
		WillReturnRows(userRow(42, "lea@example.com", string(hash), false, true))
	mock.ExpectExec("UPDATE users SET refresh_token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "lea@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("SignIn returned empty tokens")
	}
	if resp.User.Password != "" {
		t.Error("SignIn leaked the password hash")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSignUpProviderFlagRoundTrip(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE email").
		WithArgs("nina@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// Column 12 of the insert is is_provider; it must carry the requested role.
	mock.ExpectExec("INSERT INTO users").
		WithArgs("nina@example.com", sqlmock.AnyArg(), "Nina", "Costa",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	user, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:      "nina@example.com",
		Password:   "secret1",
		FirstName:  "Nina",
		LastName:   "Costa",
		IsProvider: true,
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if !user.IsProvider {
		t.Error("IsProvider = false after provider sign-up")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nina@example.com").
		WillReturnRows(userRow(7, "nina@example.com", string(hash), true, true))
	mock.ExpectExec("UPDATE users SET refresh_token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "nina@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !resp.User.IsProvider {
		t.Error("IsProvider = false after provider sign-in")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc, mock := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("lea@example.com").
		WillReturnRows(userRow(42, "lea@example.com", string(hash), false, true))

	_, err = svc.SignIn(context.Background(), models.SignInRequest{Email: "lea@example.com", Password: "wrong11"})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignInUnknownEmailHidesExistence(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.SignIn(context.Background(), models.SignInRequest{Email: "ghost@example.com", Password: "secret1"})
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignInUnconfirmedEmail(t *testing.T) {
	svc, mock := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("lea@example.com").
		WillReturnRows(userRow(42, "lea@example.com", string(hash), false, false))

	_, err = svc.SignIn(context.Background(), models.SignInRequest{Email: "lea@example.com", Password: "secret1"})
	if !errors.Is(err, models.ErrEmailNotConfirmed) {
		t.Fatalf("err = %v, want ErrEmailNotConfirmed", err)
	}
}

func TestCurrentUserWithoutToken(t *testing.T) {
	svc, mock := newAuthService(t)

	user, ok, err := svc.CurrentUser(context.Background(), "")
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if ok {
		t.Error("ok = true for empty token")
	}
	if user.ID != 0 {
		t.Errorf("user = %+v, want zero value", user)
	}

	// A garbage token is also just "no session", not an error.
	_, ok, err = svc.CurrentUser(context.Background(), "not-a-jwt")
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if ok {
		t.Error("ok = true for garbage token")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query issued without a valid token: %v", err)
	}
}

func TestSignOutIsIdempotent(t *testing.T) {
	svc, mock := newAuthService(t)

	// Clearing twice issues the same no-conditions update both times.
	for i := 0; i < 2; i++ {
		mock.ExpectExec("UPDATE users SET refresh_token").
			WithArgs(42).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := svc.SignOut(context.Background(), 42); err != nil {
		t.Fatalf("first SignOut: %v", err)
	}
	if err := svc.SignOut(context.Background(), 42); err != nil {
		t.Fatalf("second SignOut: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
