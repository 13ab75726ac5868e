package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidPlan           = errors.New("plan has no parseable positive price")
	ErrSessionCreationFailed = errors.New("payment session could not be created")
	ErrCreditingFailed       = errors.New("coin crediting failed")
	ErrInvalidCallback       = errors.New("payment callback is missing required parameters")
	ErrUnauthorized          = errors.New("missing or invalid credentials")
)
