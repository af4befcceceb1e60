package modal

import "fmt"

type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleHr            Role = "Hr"
	RoleManager       Role = "Manager"
	RoleFinance       Role = "Finance"
	RoleFieldFullTime Role = "Field_Employee_Full_Time"
	RoleFieldVendor   Role = "Field_Employee_Vendor"
)

// Roles lists every role the console knows about.
var Roles = []Role{RoleAdmin, RoleHr, RoleManager, RoleFinance, RoleFieldFullTime, RoleFieldVendor}

func (r Role) Known() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsFieldEmployee reports whether r is one of the two operational roles that
// get tasks assigned and submit expenses.
func (r Role) IsFieldEmployee() bool {
	return r == RoleFieldFullTime || r == RoleFieldVendor
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Known() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type TaskStatus string

const (
	TaskCreated   TaskStatus = "Created"
	TaskStarted   TaskStatus = "Started"
	TaskCompleted TaskStatus = "Completed"
	TaskCancelled TaskStatus = "Cancelled"
	TaskRejected  TaskStatus = "Rejected"
)

var TaskStatuses = []TaskStatus{TaskCreated, TaskStarted, TaskCompleted, TaskCancelled, TaskRejected}

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "Pending"
	ExpenseApproved ExpenseStatus = "Approved"
	ExpenseRejected ExpenseStatus = "Rejected"
)

var ExpenseStatuses = []ExpenseStatus{ExpensePending, ExpenseApproved, ExpenseRejected}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "Pending"
	PaymentProcessing PaymentStatus = "Processing"
	PaymentPaid       PaymentStatus = "Paid"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentProcessing, PaymentPaid}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Active"
	EmployeeInactive EmployeeStatus = "Inactive"
)
