package models

import "time"

// VerificationCode is a one-time numeric code proving control of an email
// address. Records live in a process-local store keyed by email.
type VerificationCode struct {
	Code      string
	ExpiresAt time.Time
}

type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}
