package client

import (
	"errors"
)

var (
	// ErrBadRequest is returned when the server rejects the request input.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned when the token is missing, invalid or
	// expired on a path that requires one.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when an anonymous viewer reads an admin
	// only setting key.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the setting key has no row.
	ErrNotFound = errors.New("not found")

	// ErrServer is returned on any other non-2xx response.
	ErrServer = errors.New("server error")

	// ErrNotEditable is returned when a control transition requires an
	// authenticated admin and there is none.
	ErrNotEditable = errors.New("viewer is not an admin")

	// ErrNotImage is returned when a selected file is not an image type.
	// The check runs locally before any network call.
	ErrNotImage = errors.New("file is not an image")

	// ErrImageTooLarge is returned when the selected file exceeds
	// MaxImageBytes. The check runs locally before any network call.
	ErrImageTooLarge = errors.New("image exceeds the size ceiling")

	// ErrEmptyFile is returned when the selected file has no bytes.
	ErrEmptyFile = errors.New("file is empty")

	// ErrMalformedValue is returned when a typed setting's raw value
	// does not parse into its registered shape.
	ErrMalformedValue = errors.New("malformed setting value")
)
