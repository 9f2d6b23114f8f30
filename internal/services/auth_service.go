package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bellaBack/internal/cache"
	"bellaBack/internal/models"
	"bellaBack/internal/repositories"
	"bellaBack/utils"
)

const (
	tokenTTL        = 120 * time.Minute
	refreshTokenTTL = 24 * 30 * 2 * time.Hour
	minPasswordLen  = 6
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
	ResetCodes   *cache.ResetCodeStore
}

// validateSignUp runs every structural check before any query is issued, so a
// malformed request never reaches the database.
func validateSignUp(req models.SignUpRequest) error {
	if !emailRegex.MatchString(req.Email) {
		return models.NewValidationError("email", "invalid email address")
	}
	if len(req.Password) < minPasswordLen {
		return models.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return models.NewValidationError("first_name", "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return models.NewValidationError("last_name", "last name is required")
	}
	return nil
}

func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	if err := validateSignUp(req); err != nil {
		return models.User{}, err
	}

	exists, err := s.UserRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, models.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashedPassword),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		// Accounts are confirmed at creation; IsVerified only goes false
		// when a confirmation flow or moderation flags the account.
		IsVerified: true,
		IsProvider: req.IsProvider,
	}

	created, err := s.UserRepo.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	created.Password = ""
	return created, nil
}

func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (models.SignInResponse, error) {
	if !emailRegex.MatchString(req.Email) {
		return models.SignInResponse{}, models.NewValidationError("email", "invalid email address")
	}

	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, models.ErrUserNotFound) {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.SignInResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Printf("Invalid password for user: %s", req.Email)
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return models.SignInResponse{}, models.ErrEmailNotConfirmed
	}

	role := roleFor(user)
	accessToken, err := s.TokenManager.NewAccessToken(user.ID, role, tokenTTL)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		return models.SignInResponse{}, err
	}

	tokens, err := s.createSession(ctx, user, role, accessToken)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		return models.SignInResponse{}, err
	}

	user.Password = ""
	return models.SignInResponse{Tokens: tokens, User: user}, nil
}

func (s *AuthService) createSession(ctx context.Context, user models.User, role, accessToken string) (models.Tokens, error) {
	var (
		res models.Tokens
		err error
	)

	res.AccessToken = accessToken

	res.RefreshToken, err = s.TokenManager.NewRefreshToken()
	if err != nil {
		// UUID fallback keeps sign-in alive if the entropy read fails.
		res.RefreshToken = uuid.New().String()
	}

	session := models.Session{
		UserID:       user.ID,
		Role:         role,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}
	if err := s.UserRepo.SetSession(ctx, user.ID, session); err != nil {
		return res, err
	}
	return res, nil
}

// SignOut clears the refresh session. Calling it again after the session is
// already gone succeeds silently.
func (s *AuthService) SignOut(ctx context.Context, userID int) error {
	return s.UserRepo.ClearSession(ctx, userID)
}

// CurrentUser resolves the profile for the access token. An absent, expired
// or malformed token reads as "no session" (ok=false) and is not an error.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (models.User, bool, error) {
	if accessToken == "" {
		return models.User{}, false, nil
	}

	claims, err := s.TokenManager.ParseAccessToken(accessToken)
	if err != nil {
		return models.User{}, false, nil
	}

	user, err := s.UserRepo.GetUserByID(ctx, int(claims.UserID))
	if errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	user.Password = ""
	return user, true, nil
}

func (s *AuthService) IsAuthenticated(ctx context.Context, accessToken string) (bool, error) {
	_, ok, err := s.CurrentUser(ctx, accessToken)
	return ok, err
}

func generateResetCode() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// RequestPasswordReset stores a short-lived code for the account. Unknown
// emails succeed without side effects so the endpoint does not leak which
// addresses exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if !emailRegex.MatchString(email) {
		return "", models.NewValidationError("email", "invalid email address")
	}

	_, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, models.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	code := generateResetCode()
	if err := s.ResetCodes.Set(ctx, email, code); err != nil {
		return "", err
	}
	return code, nil
}

func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	ok, err := s.ResetCodes.Check(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrInvalidResetCode
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if len(req.NewPassword) < minPasswordLen {
		return models.NewValidationError("new_password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if err := s.VerifyResetCode(ctx, req.Email, req.Code); err != nil {
		return err
	}

	user, err := s.UserRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return err
	}
	return s.ResetCodes.Delete(ctx, req.Email)
}

func roleFor(user models.User) string {
	if user.IsProvider {
		return "provider"
	}
	return "client"
}
