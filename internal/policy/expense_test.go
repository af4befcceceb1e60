package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldops-console/internal/modal"
)

func TestCanEditField_FieldEmployee(t *testing.T) {
	for _, role := range []modal.Role{modal.RoleFieldFullTime, modal.RoleFieldVendor} {
		for _, status := range []modal.ExpenseStatus{modal.ExpensePending, modal.ExpenseRejected} {
			assert.True(t, CanEditField(role, status, modal.PaymentPending, FieldAmount))
			assert.True(t, CanEditField(role, status, modal.PaymentPending, FieldDescription))
			assert.True(t, CanEditField(role, status, modal.PaymentPending, FieldReceiptFile))
			assert.False(t, CanEditField(role, status, modal.PaymentPending, FieldCategoryID))
			assert.False(t, CanEditField(role, status, modal.PaymentPending, FieldStatus))
			assert.False(t, CanEditField(role, status, modal.PaymentPending, FieldPaymentStatus))
		}
		for _, field := range ExpenseFields {
			assert.False(t, CanEditField(role, modal.ExpenseApproved, modal.PaymentPending, field))
			assert.False(t, CanEditField(role, modal.ExpensePending, modal.PaymentPaid, field))
		}
	}
}

func TestCanEditField_Manager(t *testing.T) {
	assert.True(t, CanEditField(modal.RoleManager, modal.ExpensePending, modal.PaymentPending, FieldStatus))
	assert.True(t, CanEditField(modal.RoleManager, modal.ExpenseApproved, modal.PaymentProcessing, FieldStatus))
	assert.False(t, CanEditField(modal.RoleManager, modal.ExpenseApproved, modal.PaymentPaid, FieldStatus))
	for _, field := range []Field{FieldAmount, FieldDescription, FieldReceiptFile, FieldCategoryID, FieldPaymentStatus} {
		assert.False(t, CanEditField(modal.RoleManager, modal.ExpensePending, modal.PaymentPending, field))
	}
}

func TestCanEditField_Finance(t *testing.T) {
	for _, status := range modal.ExpenseStatuses {
		for _, payment := range modal.PaymentStatuses {
			assert.True(t, CanEditField(modal.RoleFinance, status, payment, FieldStatus))
			assert.True(t, CanEditField(modal.RoleFinance, status, payment, FieldPaymentStatus))
			assert.False(t, CanEditField(modal.RoleFinance, status, payment, FieldAmount))
			assert.False(t, CanEditField(modal.RoleFinance, status, payment, FieldReceiptFile))
		}
	}
}

func TestCanEditField_Admin(t *testing.T) {
	for _, field := range ExpenseFields {
		assert.True(t, CanEditField(modal.RoleAdmin, modal.ExpenseApproved, modal.PaymentPending, field))
		assert.False(t, CanEditField(modal.RoleAdmin, modal.ExpenseApproved, modal.PaymentProcessing, field))
		assert.False(t, CanEditField(modal.RoleAdmin, modal.ExpenseApproved, modal.PaymentPaid, field))
	}
}

func TestCanEditField_OtherRoles(t *testing.T) {
	for _, role := range []modal.Role{modal.RoleHr, "", "Auditor"} {
		for _, field := range ExpenseFields {
			assert.False(t, CanEditField(role, modal.ExpensePending, modal.PaymentPending, field), "role %q", role)
		}
	}
}

func TestCanEditField_PaidFreezesContent(t *testing.T) {
	for _, role := range modal.Roles {
		for _, field := range []Field{FieldAmount, FieldDescription, FieldReceiptFile} {
			assert.False(t, CanEditField(role, modal.ExpenseApproved, modal.PaymentPaid, field), "role %s field %s", role, field)
		}
	}
}

func TestShowPaymentSelector(t *testing.T) {
	for _, role := range modal.Roles {
		for _, status := range []modal.ExpenseStatus{modal.ExpensePending, modal.ExpenseRejected} {
			e := modal.Expense{Status: status, PaymentStatus: modal.PaymentPending}
			assert.False(t, ShowPaymentSelector(role, e), "role %s status %s", role, status)
		}
	}

	approved := modal.Expense{Status: modal.ExpenseApproved, PaymentStatus: modal.PaymentPending}
	assert.True(t, ShowPaymentSelector(modal.RoleFinance, approved))
	assert.True(t, ShowPaymentSelector(modal.RoleAdmin, approved))
	assert.False(t, ShowPaymentSelector(modal.RoleManager, approved))
	assert.False(t, ShowPaymentSelector(modal.RoleFieldFullTime, approved))
}

func TestEditableFields_ExpenseLifecycle(t *testing.T) {
	e := modal.Expense{Status: modal.ExpensePending, PaymentStatus: modal.PaymentPending}

	assert.Equal(t, []Field{FieldAmount, FieldDescription, FieldReceiptFile}, EditableFields(modal.RoleFieldVendor, e))
	assert.NotContains(t, EditableFields(modal.RoleFinance, e), FieldPaymentStatus)

	e.Status = modal.ExpenseApproved
	assert.Empty(t, EditableFields(modal.RoleFieldVendor, e))
	assert.Equal(t, []Field{FieldStatus, FieldPaymentStatus}, EditableFields(modal.RoleFinance, e))
	assert.Contains(t, EditableFields(modal.RoleAdmin, e), FieldPaymentStatus)
	assert.Equal(t, []Field{FieldStatus}, EditableFields(modal.RoleManager, e))

	e.PaymentStatus = modal.PaymentProcessing
	assert.Equal(t, []Field{FieldStatus, FieldPaymentStatus}, EditableFields(modal.RoleFinance, e))
	assert.Empty(t, EditableFields(modal.RoleAdmin, e))
	assert.Equal(t, []Field{FieldStatus}, EditableFields(modal.RoleManager, e))

	e.PaymentStatus = modal.PaymentPaid
	for _, role := range modal.Roles {
		assert.Empty(t, EditableFields(role, e), "role %s", role)
	}
}

func TestEditableFields_ProcessingPayment(t *testing.T) {
	processing := modal.Expense{Status: modal.ExpenseApproved, PaymentStatus: modal.PaymentProcessing}
	tests := []struct {
		role modal.Role
		want []Field
	}{
		{modal.RoleManager, []Field{FieldStatus}},
		{modal.RoleFinance, []Field{FieldStatus, FieldPaymentStatus}},
		{modal.RoleAdmin, nil},
		{modal.RoleHr, nil},
		{modal.RoleFieldFullTime, nil},
		{modal.RoleFieldVendor, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, EditableFields(tt.role, processing))
		})
	}
}

func TestCanOpenExpenseEditor(t *testing.T) {
	pending := modal.Expense{Status: modal.ExpensePending}
	approved := modal.Expense{Status: modal.ExpenseApproved}

	assert.True(t, CanOpenExpenseEditor(modal.RoleFieldFullTime, pending))
	assert.False(t, CanOpenExpenseEditor(modal.RoleFieldFullTime, approved))
	assert.True(t, CanOpenExpenseEditor(modal.RoleManager, approved))
	assert.False(t, CanOpenExpenseEditor("Auditor", pending))
}
