package pipeline

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrRateLimited is returned when the caller's identity exhausted its
// submission budget.
var ErrRateLimited = eris.New("pipeline: rate limited")

// PersistenceError wraps a failed lead insert. The lead was not created.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("pipeline: persist lead: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
