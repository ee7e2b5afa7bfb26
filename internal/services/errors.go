package services

import "errors"

// Error taxonomy surfaced across the service layer. Handlers map these onto
// HTTP statuses; everything unwrapped is treated as internal.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConfig     = errors.New("missing configuration")
	ErrParse      = errors.New("unparseable generation output")
)
