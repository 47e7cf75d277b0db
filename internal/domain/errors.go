package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidSite      = errors.New("invalid site")
	ErrPermissionDenied = errors.New("permission denied")
	ErrImageUnreadable  = errors.New("no readable image data")
	ErrTaskInFlight     = errors.New("generation already in progress")
)
