package token

import "errors"

var (
	// ErrExpired indicates the signature checked out but the expiry is in the past.
	ErrExpired = errors.New("token: expired")
	// ErrInvalid indicates a bad signature or malformed payload.
	ErrInvalid = errors.New("token: invalid")
	// ErrWrongType indicates a refresh token presented on the access path or vice versa.
	ErrWrongType = errors.New("token: wrong token type")
)
