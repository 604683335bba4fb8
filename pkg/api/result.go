package api

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// Result is the outcome of a build or build step.
type Result string

const (
	ResultSuccess  Result = "SUCCESS"
	ResultUnstable Result = "UNSTABLE"
	ResultFailure  Result = "FAILURE"
	ResultNotBuilt Result = "NOT_BUILT"
	ResultAborted  Result = "ABORTED"
)

var resultOrdinals = map[Result]int{
	ResultSuccess:  0,
	ResultUnstable: 1,
	ResultFailure:  2,
	ResultNotBuilt: 3,
	ResultAborted:  4,
}

// IsWorseThan reports whether r is a worse outcome than o.
func (r Result) IsWorseThan(o Result) bool {
	return resultOrdinals[r] > resultOrdinals[o]
}

// InvocationResult is produced once per gprbuild invocation.
type InvocationResult struct {
	ExitStatus int    `json:"exit_status" mapstructure:"exit_status"`
	Outcome    Result `json:"outcome" mapstructure:"outcome"`
}

// Run is the overarching build a step executes in. Its result can only get
// worse over the life of the run.
type Run struct {
	ID      string
	Started time.Time

	lk     sync.Mutex
	result Result
}

// NewRun returns a run with a fresh, globally unique ID.
func NewRun() *Run {
	return &Run{ID: xid.New().String(), Started: time.Now()}
}

// SetResult records res unless the run already has a worse result.
func (r *Run) SetResult(res Result) {
	r.lk.Lock()
	defer r.lk.Unlock()

	if r.result == "" || res.IsWorseThan(r.result) {
		r.result = res
	}
}

// Result returns the run's result; a run that was never marked is a success.
func (r *Run) Result() Result {
	r.lk.Lock()
	defer r.lk.Unlock()

	if r.result == "" {
		return ResultSuccess
	}
	return r.result
}
