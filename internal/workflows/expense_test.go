package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops-console/internal/modal"
)

func TestNewExpenseState(t *testing.T) {
	legal := []ExpenseState{
		{modal.ExpensePending, modal.PaymentPending},
		{modal.ExpenseRejected, modal.PaymentPending},
		{modal.ExpenseApproved, modal.PaymentPending},
		{modal.ExpenseApproved, modal.PaymentProcessing},
		{modal.ExpenseApproved, modal.PaymentPaid},
	}
	for _, s := range legal {
		_, err := NewExpenseState(s.Status, s.Payment)
		assert.NoError(t, err, "state %s", s)
	}

	illegal := []ExpenseState{
		{modal.ExpensePending, modal.PaymentPaid},
		{modal.ExpenseRejected, modal.PaymentProcessing},
		{modal.ExpenseApproved, "Refunded"},
		{"Draft", modal.PaymentPending},
	}
	for _, s := range illegal {
		_, err := NewExpenseState(s.Status, s.Payment)
		assert.ErrorIs(t, err, ErrIllegalExpenseState, "state %s", s)
	}
}

func TestExpenseState_PaymentOptions(t *testing.T) {
	pending := ExpenseState{modal.ExpensePending, modal.PaymentPending}
	assert.False(t, pending.PaymentVisible())
	assert.Empty(t, pending.PaymentOptions())

	approved := ExpenseState{modal.ExpenseApproved, modal.PaymentPending}
	assert.True(t, approved.PaymentVisible())
	assert.Equal(t, []modal.PaymentStatus{modal.PaymentPending, modal.PaymentProcessing, modal.PaymentPaid}, approved.PaymentOptions())

	paid := ExpenseState{modal.ExpenseApproved, modal.PaymentPaid}
	assert.True(t, paid.Terminal())
	assert.False(t, paid.CanChangePayment())
	assert.False(t, paid.CanChangeStatus())
}

func TestExpenseState_Apply(t *testing.T) {
	s := ExpenseState{modal.ExpensePending, modal.PaymentPending}

	s, err := s.Apply(modal.ExpenseApproved, "")
	require.NoError(t, err)
	assert.Equal(t, ExpenseState{modal.ExpenseApproved, modal.PaymentPending}, s)

	s, err = s.Apply("", modal.PaymentProcessing)
	require.NoError(t, err)
	assert.Equal(t, modal.PaymentProcessing, s.Payment)

	s, err = s.Apply("", modal.PaymentPaid)
	require.NoError(t, err)
	assert.True(t, s.Terminal())

	_, err = s.Apply("", modal.PaymentPending)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	same, err := s.Apply(modal.ExpenseApproved, modal.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, s, same)
}

func TestExpenseState_ApplyRejectsPaymentBeforeApproval(t *testing.T) {
	s := ExpenseState{modal.ExpensePending, modal.PaymentPending}

	_, err := s.Apply("", modal.PaymentPaid)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = s.Apply(modal.ExpenseRejected, modal.PaymentProcessing)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	next, err := s.Apply(modal.ExpenseApproved, modal.PaymentProcessing)
	require.NoError(t, err)
	assert.Equal(t, ExpenseState{modal.ExpenseApproved, modal.PaymentProcessing}, next)
}

func TestExpenseState_StatusOpenUntilPaid(t *testing.T) {
	all := []modal.ExpenseStatus{modal.ExpensePending, modal.ExpenseApproved, modal.ExpenseRejected}
	tests := []struct {
		state ExpenseState
		want  []modal.ExpenseStatus
	}{
		{ExpenseState{modal.ExpensePending, modal.PaymentPending}, all},
		{ExpenseState{modal.ExpenseRejected, modal.PaymentPending}, all},
		{ExpenseState{modal.ExpenseApproved, modal.PaymentPending}, all},
		{ExpenseState{modal.ExpenseApproved, modal.PaymentProcessing}, all},
		{ExpenseState{modal.ExpenseApproved, modal.PaymentPaid}, []modal.ExpenseStatus{modal.ExpenseApproved}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.StatusOptions(), "state %s", tt.state)
	}
}

func TestExpenseState_LeavingApprovedResetsPayment(t *testing.T) {
	processing := ExpenseState{modal.ExpenseApproved, modal.PaymentProcessing}

	next, err := processing.Apply(modal.ExpenseRejected, "")
	require.NoError(t, err)
	assert.Equal(t, ExpenseState{modal.ExpenseRejected, modal.PaymentPending}, next)

	// The payment input still shows the old value when the form is posted.
	next, err = processing.Apply(modal.ExpensePending, modal.PaymentProcessing)
	require.NoError(t, err)
	assert.Equal(t, ExpenseState{modal.ExpensePending, modal.PaymentPending}, next)

	_, err = processing.Apply(modal.ExpenseRejected, modal.PaymentPaid)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}
