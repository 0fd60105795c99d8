package repository

import "errors"

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when a create collides with a unique key.
var ErrAlreadyExists = errors.New("record already exists")
