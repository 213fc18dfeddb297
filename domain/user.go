package domain

import (
	"errors"
	"time"
)

const StartingCoinGrant = 100

var (
	MessageSuccessRegister  = "user registered successfully"
	MessageSuccessLogin     = "login successful"
	MessageSuccessGetMe     = "user retrieved successfully"
	MessageSuccessVerifyOtp = "email verified successfully"

	MessageFailedRegister  = "failed to register user"
	MessageFailedLogin     = "failed to login"
	MessageFailedGetMe     = "failed to retrieve user"
	MessageFailedVerifyOtp = "failed to verify email"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrOtpInvalid         = errors.New("invalid verification code")
	ErrOtpExpired         = errors.New("verification code expired")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Coins int    `json:"coins"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	VerifyOtpRequest struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,len=6"`
	}

	UserResponse struct {
		ID              string     `json:"id"`
		Name            string     `json:"name"`
		Email           string     `json:"email"`
		EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
		Coins           int        `json:"coins"`
	}
)
