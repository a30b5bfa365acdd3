package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/helixtube/pkg/design"
)

// EvalTimeout is the hard limit for a single evaluation.
var EvalTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer Evaluate call started before this
// one finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// ErrTimeout is returned when evaluation runs past EvalTimeout.
var ErrTimeout = errors.New("evaluation timed out")

type evalResult struct {
	design *design.Design
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch for at most EvalTimeout. The
// generation check discards results of evaluations that a newer call has
// replaced; a timed-out goroutine may still finish later, and its result
// is dropped the same way.
func waitWithTimeout(ch <-chan evalResult, gen uint64, mu *sync.Mutex, currentGen *uint64) (*design.Design, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.design, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, EvalTimeout)
	}
}
