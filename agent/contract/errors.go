package contract

import "errors"

var (
	ErrModelInvoke  = errors.New("model invoke failed")
	ErrValidation   = errors.New("validation failed")
	ErrToolConflict = errors.New("tool already registered")
	ErrSessionBusy  = errors.New("session busy")
)
