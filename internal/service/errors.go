package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUpstream           = errors.New("upstream provider failure")
)

type VerificationReason string

const (
	VerificationExpired      VerificationReason = "expired"
	VerificationCodeMismatch VerificationReason = "code_mismatch"
)

// VerificationError reports why an email verification attempt failed.
type VerificationError struct {
	Reason VerificationReason
}

func (e *VerificationError) Error() string {
	switch e.Reason {
	case VerificationCodeMismatch:
		return "invalid verification code"
	default:
		return "verification code expired"
	}
}

func upstreamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}
