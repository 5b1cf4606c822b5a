package service

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrTokenEmpty         = errors.New("token is empty")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrTokenInvalidClaims = errors.New("token claims are invalid")
	ErrUnexpectedSigning  = errors.New("unexpected token signing method")
)
