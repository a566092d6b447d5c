package translate

import (
	"errors"
	"fmt"
)

// ErrNoTranslation indicates the provider responded but every candidate was
// blank, a placeholder, or identical to the input.
var ErrNoTranslation = errors.New("no translation")

// ProviderError wraps a failed provider call: the upstream was unreachable,
// returned a non-2xx status, or produced no usable candidate. The
// orchestrator recovers from it by returning an empty translation; it is
// never surfaced to the end user as a hard failure.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
