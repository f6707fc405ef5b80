// Package results defines the operation result envelope returned by
// application services. An operation either succeeds with a payload, fails
// with a domain failure payload (a handled outcome, not an error), or the
// caller receives an infrastructure error alongside an empty result.
package results

// OperationResult carries either a success payload or a failure payload.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](success S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &success}
}

// FailureResult wraps a handled domain failure payload.
func FailureResult[S any, F any](failure F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &failure}
}

// IsSuccess reports whether the result carries a success payload.
func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

// IsFailure reports whether the result carries a failure payload.
func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }
