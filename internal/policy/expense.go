// Package policy decides what the console offers to a user. Every decision is
// a pure function of the user's role and the record being shown.
//
// The console applies these rules to decide what to render. They are not an
// authorization layer: the backend must enforce the same rules on its own.
package policy

import (
	"fieldops-console/internal/modal"
	"fieldops-console/internal/workflows"
)

// Field names an editable expense form input.
type Field string

const (
	FieldAmount        Field = "amount"
	FieldDescription   Field = "description"
	FieldReceiptFile   Field = "receiptFile"
	FieldCategoryID    Field = "categoryId"
	FieldStatus        Field = "status"
	FieldPaymentStatus Field = "paymentStatus"
)

var ExpenseFields = []Field{
	FieldAmount,
	FieldDescription,
	FieldCategoryID,
	FieldStatus,
	FieldPaymentStatus,
	FieldReceiptFile,
}

// CanEditField reports whether role may edit field on an expense whose
// approval status and payment status are status and payment.
func CanEditField(role modal.Role, status modal.ExpenseStatus, payment modal.PaymentStatus, field Field) bool {
	switch role {
	case modal.RoleFieldFullTime, modal.RoleFieldVendor:
		if status == modal.ExpenseApproved || payment == modal.PaymentPaid {
			return false
		}
		if status != modal.ExpensePending && status != modal.ExpenseRejected {
			return false
		}
		return field == FieldAmount || field == FieldDescription || field == FieldReceiptFile
	case modal.RoleManager:
		if payment == modal.PaymentPaid {
			return false
		}
		return field == FieldStatus
	case modal.RoleFinance:
		return field == FieldStatus || field == FieldPaymentStatus
	case modal.RoleAdmin:
		return payment == modal.PaymentPending
	case modal.RoleHr:
		return false
	}
	return false
}

// ShowPaymentSelector reports whether the payment status input is rendered at
// all. It requires both the field permission and an approved expense.
func ShowPaymentSelector(role modal.Role, e modal.Expense) bool {
	return e.Status == modal.ExpenseApproved &&
		CanEditField(role, e.Status, e.PaymentStatus, FieldPaymentStatus)
}

// EditableFields lists the fields role may change on e. Status inputs are
// only listed while the state table offers another value, so nothing is
// editable once an expense is paid.
func EditableFields(role modal.Role, e modal.Expense) []Field {
	state, err := workflows.StateOf(e)
	var fields []Field
	for _, f := range ExpenseFields {
		if !CanEditField(role, e.Status, e.PaymentStatus, f) {
			continue
		}
		switch f {
		case FieldStatus:
			if err != nil || !state.CanChangeStatus() {
				continue
			}
		case FieldPaymentStatus:
			if err != nil || !state.PaymentVisible() || !state.CanChangePayment() {
				continue
			}
		default:
			if err == nil && state.Terminal() {
				continue
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// CanOpenExpenseEditor decides whether the edit action is offered on a row.
// Field employees only get it for pending or rejected expenses.
func CanOpenExpenseEditor(role modal.Role, e modal.Expense) bool {
	if role.IsFieldEmployee() {
		return e.Status == modal.ExpensePending || e.Status == modal.ExpenseRejected
	}
	return role.Known()
}
