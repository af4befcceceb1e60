package workflows

import (
	"errors"
	"fmt"

	"fieldops-console/internal/modal"
)

var (
	ErrIllegalExpenseState = errors.New("illegal expense state")
	ErrIllegalTransition   = errors.New("illegal expense transition")
)

// ExpenseState is the approval status and payment status of an expense taken
// together. Payment only advances past Pending once the expense is Approved.
type ExpenseState struct {
	Status  modal.ExpenseStatus
	Payment modal.PaymentStatus
}

func NewExpenseState(status modal.ExpenseStatus, payment modal.PaymentStatus) (ExpenseState, error) {
	s := ExpenseState{Status: status, Payment: payment}
	if err := s.Validate(); err != nil {
		return ExpenseState{}, err
	}
	return s, nil
}

// StateOf reads the composite state of e. Records that violate the state
// invariant are reported as an error rather than repaired.
func StateOf(e modal.Expense) (ExpenseState, error) {
	return NewExpenseState(e.Status, e.PaymentStatus)
}

func (s ExpenseState) Validate() error {
	switch s.Status {
	case modal.ExpensePending, modal.ExpenseRejected:
		if s.Payment != modal.PaymentPending {
			return fmt.Errorf("%w: %s expense with payment %s", ErrIllegalExpenseState, s.Status, s.Payment)
		}
		return nil
	case modal.ExpenseApproved:
		switch s.Payment {
		case modal.PaymentPending, modal.PaymentProcessing, modal.PaymentPaid:
			return nil
		}
		return fmt.Errorf("%w: unknown payment status %q", ErrIllegalExpenseState, s.Payment)
	}
	return fmt.Errorf("%w: unknown status %q", ErrIllegalExpenseState, s.Status)
}

func (s ExpenseState) String() string {
	return string(s.Status) + "/" + string(s.Payment)
}

// PaymentVisible reports whether the payment status is meaningful, which is
// only the case for approved expenses.
func (s ExpenseState) PaymentVisible() bool {
	return s.Status == modal.ExpenseApproved
}

// Terminal reports whether the expense has been paid out.
func (s ExpenseState) Terminal() bool {
	return s.Status == modal.ExpenseApproved && s.Payment == modal.PaymentPaid
}

// StatusOptions returns the approval statuses the expense may be saved with.
// The approval is fixed once the expense is paid.
func (s ExpenseState) StatusOptions() []modal.ExpenseStatus {
	if s.Terminal() {
		return []modal.ExpenseStatus{s.Status}
	}
	return []modal.ExpenseStatus{modal.ExpensePending, modal.ExpenseApproved, modal.ExpenseRejected}
}

// PaymentOptions returns the payment statuses the expense may be saved with.
// It is empty unless the expense is approved.
func (s ExpenseState) PaymentOptions() []modal.PaymentStatus {
	if !s.PaymentVisible() {
		return nil
	}
	switch s.Payment {
	case modal.PaymentPending, modal.PaymentProcessing:
		return []modal.PaymentStatus{modal.PaymentPending, modal.PaymentProcessing, modal.PaymentPaid}
	}
	return []modal.PaymentStatus{s.Payment}
}

// CanChangeStatus reports whether a different approval status is reachable.
func (s ExpenseState) CanChangeStatus() bool {
	return len(s.StatusOptions()) > 1
}

// CanChangePayment reports whether a different payment status is reachable.
func (s ExpenseState) CanChangePayment() bool {
	return len(s.PaymentOptions()) > 1
}

// Apply returns the state after setting the given statuses. Empty values keep
// the current one. Leaving Approved resets payment to Pending, and a payment
// equal to the current one is then ignored.
func (s ExpenseState) Apply(status modal.ExpenseStatus, payment modal.PaymentStatus) (ExpenseState, error) {
	next := s
	if status != "" && status != s.Status {
		if !containsStatus(s.StatusOptions(), status) {
			return s, fmt.Errorf("%w: status %s -> %s", ErrIllegalTransition, s, status)
		}
		next.Status = status
		if !next.PaymentVisible() {
			next.Payment = modal.PaymentPending
		}
	}
	if !next.PaymentVisible() && payment == s.Payment {
		payment = ""
	}
	if payment != "" && payment != next.Payment {
		if !containsPayment(next.PaymentOptions(), payment) {
			return s, fmt.Errorf("%w: payment %s -> %s", ErrIllegalTransition, s, payment)
		}
		next.Payment = payment
	}
	if err := next.Validate(); err != nil {
		return s, fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	}
	return next, nil
}

func containsStatus(list []modal.ExpenseStatus, v modal.ExpenseStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsPayment(list []modal.PaymentStatus, v modal.PaymentStatus) bool {
	for _, p := range list {
		if p == v {
			return true
		}
	}
	return false
}
