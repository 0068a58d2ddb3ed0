// Package models defines the data types shared by the session and photo
// stores: users, credentials, authentication responses, session state,
// and photo records.
package models

import "time"

// User is an account known to the authentication backend. Users are
// immutable once created; registration is the only way to mint one.
type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
}

// LoginRequest carries login credentials. Username may hold either the
// username or the email address. Never persisted.
type LoginRequest struct {
	Username string
	Password string
}

// RegisterRequest carries the data needed to create a new account.
// Never persisted.
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

// AuthResponse is produced once per successful login or register and is
// consumed to populate the session and the persisted credential keys.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// Session is a snapshot of the authentication state.
//
// Invariant: IsAuthenticated is true iff CurrentUser is non-nil and Token
// is non-empty. Loading and Err are flags layered on top of the
// anonymous/authenticated states rather than exclusive states of their own.
type Session struct {
	IsAuthenticated bool
	CurrentUser     *User
	Token           string
	Loading         bool
	Err             string
}
