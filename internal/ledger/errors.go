package ledger

import (
	"fmt"
)

// ============================================================================
// Ledger error taxonomy
// ============================================================================

// Write step identifiers. A payment recording is three sequential writes
// with no rollback, so every write failure must name the step that fell
// over; that is what an operator reconciles against.
const (
	StepTransaction   = "transaction"
	StepApprovalEntry = "approval_entry"
	StepLinkBack      = "link_back"
	StepEvent         = "event" // advisory outbox enqueue, never fails the action
)

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreWriteError reports a failed write mid-sequence. Step tells the
// caller how far the sequence got; state before the failed step is kept.
type StoreWriteError struct {
	Step string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed at step %s: %v", e.Step, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// TimeoutError reports a sub-write that exceeded its bounded deadline.
// The write may or may not have landed; treat like a StoreWriteError.
type TimeoutError struct {
	Step string
	Err  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("store write timed out at step %s: %v", e.Step, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an unresolvable supplier or project reference.
// Read paths substitute a placeholder label instead of raising this.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConcurrentModificationError means the supplier+project ledger changed
// between validation and write; the caller should retry.
type ConcurrentModificationError struct {
	SupplierID int64
	ProjectID  int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("ledger for supplier %d project %d changed during write, retry", e.SupplierID, e.ProjectID)
}
