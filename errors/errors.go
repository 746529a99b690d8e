package errors

import "fmt"

var (
	ErrValidation   = fmt.Errorf("validation failed")
	ErrNotFound     = fmt.Errorf("entity not found")
	ErrPhaseStalled = fmt.Errorf("phase stalled")
)
