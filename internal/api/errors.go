package api

import "errors"

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("venuehub api: not found")

	// ErrBadRequest is returned for 4xx responses other than 404.
	ErrBadRequest = errors.New("venuehub api: rejected request")

	// ErrServer is returned for 5xx responses and transport failures.
	ErrServer = errors.New("venuehub api: server error")
)
