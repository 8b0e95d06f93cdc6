package settings

import "errors"

var (
	// ErrKeyRequired is returned when a write is attempted without a key.
	ErrKeyRequired = errors.New("setting key is required")
	// ErrValueRequired is returned when a write omits the value entirely.
	// An empty string is a valid value; absence is not.
	ErrValueRequired = errors.New("setting value is required")
	// ErrKeyForbidden is returned when an anonymous caller reads a key
	// outside the public set.
	ErrKeyForbidden = errors.New("access denied")
	// ErrBadBulkPayload is returned when a bulk upsert payload is not a
	// key to value map.
	ErrBadBulkPayload = errors.New("settings object is required")
	// ErrFileRequired is returned when an image upload has no file payload.
	ErrFileRequired = errors.New("image file is required")
	// ErrUpload is returned when the object storage gateway fails. No
	// setting is written in that case.
	ErrUpload = errors.New("failed to upload image")
)
