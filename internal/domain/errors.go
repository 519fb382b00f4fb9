package domain

import "errors"

// ErrSessionNotFound is returned by stores and services when a session id
// has never been written to.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidStage is returned for labels outside the five known stages.
var ErrInvalidStage = errors.New("invalid stage")
