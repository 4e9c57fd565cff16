package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrNoFace      = errors.New("no face detected")
	ErrJobTerminal = errors.New("job already in terminal state")
)
