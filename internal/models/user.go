package models

import (
	"time"

	"github.com/golang-jwt/jwt"
)

type User struct {
	ID               int        `json:"id"`
	Email            string     `json:"email,omitempty"`
	Password         string     `json:"password,omitempty"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Phone            string     `json:"phone,omitempty"`
	City             string     `json:"city"`
	Neighborhood     string     `json:"neighborhood"`
	ActivityZone     string     `json:"activity_zone"`
	Latitude         string     `json:"latitude"`
	Longitude        string     `json:"longitude"`
	AvatarURL        string     `json:"avatar_url"`
	IsProvider       bool       `json:"is_provider"`
	IsVerified       bool       `json:"is_verified"`
	IsPremium        bool       `json:"is_premium"`
	SubscriptionTier string     `json:"subscription_tier"`
	AcceptsEmergency bool       `json:"accepts_emergency"`
	Bio              string     `json:"bio"`
	Skills           []string   `json:"skills"`
	Instagram        string     `json:"instagram"`
	TikTok           string     `json:"tiktok"`
	YearsOfExp       int        `json:"years_of_exp"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// ProfileUpdate enumerates the columns a profile edit is allowed to touch.
// Nil fields are left unchanged by the update.
type ProfileUpdate struct {
	FirstName        *string   `json:"first_name"`
	LastName         *string   `json:"last_name"`
	Phone            *string   `json:"phone"`
	City             *string   `json:"city"`
	Neighborhood     *string   `json:"neighborhood"`
	ActivityZone     *string   `json:"activity_zone"`
	Latitude         *string   `json:"latitude"`
	Longitude        *string   `json:"longitude"`
	Bio              *string   `json:"bio"`
	Skills           *[]string `json:"skills"`
	Instagram        *string   `json:"instagram"`
	TikTok           *string   `json:"tiktok"`
	YearsOfExp       *int      `json:"years_of_exp"`
	AcceptsEmergency *bool     `json:"accepts_emergency"`
}

// ProviderFilter narrows the provider search. Zero values mean "not filtered".
type ProviderFilter struct {
	City             string   `json:"city"`
	ActivityZone     string   `json:"activity_zone"`
	MainSkills       []string `json:"main_skills"`
	IsPremium        *bool    `json:"is_premium"`
	AcceptsEmergency *bool    `json:"accepts_emergency"`
	Limit            int      `json:"limit"`
	Offset           int      `json:"offset"`
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Session struct {
	UserID       int       `json:"user_id"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SignUpRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	IsProvider bool   `json:"is_provider"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	Tokens Tokens `json:"tokens"`
	User   User   `json:"user"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}
