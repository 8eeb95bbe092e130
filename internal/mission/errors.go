package mission

import "errors"

var (
	// ErrGenerationInvalid means the backend answered with blank or too-short text.
	ErrGenerationInvalid = errors.New("generated mission text is invalid")

	// ErrPolicyViolation matches any *PolicyViolationError.
	ErrPolicyViolation = errors.New("generated mission text violates policy")
)

// PolicyViolationError lists the phrases that caused rejection. Its message never includes them.
type PolicyViolationError struct {
	Violations []string
}

func (e *PolicyViolationError) Error() string { return ErrPolicyViolation.Error() }

func (e *PolicyViolationError) Is(target error) bool { return target == ErrPolicyViolation }
