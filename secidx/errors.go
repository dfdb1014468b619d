package secidx

import "fmt"

// FaultError marks an invariant violation: internal state inconsistency
// that the reference implementation this was rewritten from only logged
// (spec.md §7). This module treats it as a terminating fault distinct from
// an ordinary negative outcome — callers that receive one should stop
// using the IndexHandle; nothing attempts to repair the tree.
type FaultError struct {
	Op  string
	Msg string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("secidx: invariant violation during %s: %s", e.Op, e.Msg)
}

func faultf(op, format string, args ...any) *FaultError {
	return &FaultError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
