package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole 用户角色
type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleEmployee   UserRole = "employee"
	RoleSales      UserRole = "sales"
	RoleClient     UserRole = "client"
)

// UserStatus 账号状态
type UserStatus string

const (
	UserActive    UserStatus = "Active"
	UserSuspended UserStatus = "Suspended"
)

// User represents a staff member or an organization's client user
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Role        UserRole   `json:"role"`
	Status      UserStatus `json:"status"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsStaff 是否为内部员工（非客户账号）
func (u *User) IsStaff() bool {
	return u.Role != RoleClient
}

// UserLoginRequest represents the request payload for session login
type UserLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserLoginResponse represents the response payload for session login
type UserLoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshTokenRequest represents the request payload for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenClaims represents the JWT token claims.
// ActorID carries the original staff identity during a "Login As" session
// and is empty otherwise.
type TokenClaims struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Role        UserRole `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	ActorID     string   `json:"actor_id,omitempty"`
	Type        string   `json:"type"` // "access" or "refresh"
	Exp         int64    `json:"exp"`
	Iat         int64    `json:"iat"`
}

// GetExpirationTime implements jwt.Claims interface
func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

// GetIssuedAt implements jwt.Claims interface
func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}

// GetNotBefore implements jwt.Claims interface
func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims interface
func (c *TokenClaims) GetIssuer() (string, error) {
	return "", nil
}

// GetSubject implements jwt.Claims interface
func (c *TokenClaims) GetSubject() (string, error) {
	return c.UserID, nil
}

// GetAudience implements jwt.Claims interface
func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}
