package models

import "errors"

// Application-wide standard errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input data")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("resource is busy")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Credits & closet
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrClosetQuotaExceeded = errors.New("closet quota exceeded")

	ErrInternalServer = errors.New("internal server error")
)

// Коды ошибок для ErrorResponse.Code.
const (
	ErrCodeBadRequest          = 40000
	ErrCodeValidation          = 40001
	ErrCodeUnknownAction       = 40002
	ErrCodeUnauthorized        = 40100
	ErrCodeTokenInvalid        = 40101
	ErrCodeTokenExpired        = 40102
	ErrCodeForbidden           = 40300
	ErrCodeNotFound            = 40400
	ErrCodeConflict            = 40900
	ErrCodeInsufficientCredits = 40200
	ErrCodeInternal            = 50000
)
