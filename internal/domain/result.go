package domain

// ResultKind discriminates the three outcomes an open or close submission
// can have.
type ResultKind int

const (
	// Success: the remote call completed without error.
	Success ResultKind = iota
	// RemoteFailure: the remote call was attempted and failed; Err holds
	// the raw failure.
	RemoteFailure
	// PreconditionFailure: the remote call was never attempted; Reason
	// says why.
	PreconditionFailure
)

// Result is the outcome of a trade submission. Open and close never return
// a Go error and never panic; all failure travels through this value, so a
// caller that does not branch on Kind will silently treat a failed
// submission as a successful one. That hazard is inherited from the venue
// client contract and deliberately not papered over.
type Result struct {
	Kind   ResultKind
	Err    error
	Reason string
}

// OK reports whether the submission succeeded.
func (r Result) OK() bool { return r.Kind == Success }

func Succeed() Result { return Result{Kind: Success} }

func FailRemote(err error) Result { return Result{Kind: RemoteFailure, Err: err} }

func FailPrecondition(reason string) Result {
	return Result{Kind: PreconditionFailure, Reason: reason}
}
