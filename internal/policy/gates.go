package policy

import "fieldops-console/internal/modal"

func CanManageCategories(role modal.Role) bool {
	return role == modal.RoleHr || role == modal.RoleAdmin
}

// CanManageEmployees gates employee create, edit and delete, and the roles
// and managers lookups that feed the employee form.
func CanManageEmployees(role modal.Role) bool {
	return role == modal.RoleHr || role == modal.RoleAdmin
}

// CanManageTasks gates task create, assignment and delete.
func CanManageTasks(role modal.Role) bool {
	return role == modal.RoleManager || role == modal.RoleAdmin
}

func CanEditTasks(role modal.Role) bool {
	switch role {
	case modal.RoleHr, modal.RoleFinance:
		return false
	}
	return role.Known()
}

func CanCreateExpense(role modal.Role) bool {
	return role.IsFieldEmployee()
}

func CanBulkDeleteExpenses(role modal.Role) bool {
	return role.Known() && role != modal.RoleFinance
}

// ShowEmployeeColumn hides the assignee column from managers, who only see
// their own field employees.
func ShowEmployeeColumn(role modal.Role) bool {
	return role != modal.RoleManager
}

// Owns reports whether user is responsible for a record with the given
// assignee and manager.
func Owns(user modal.User, employeeID, managerID int64) bool {
	switch user.Role {
	case modal.RoleAdmin:
		return true
	case modal.RoleManager:
		return managerID == user.EmployeeID
	case modal.RoleFieldFullTime, modal.RoleFieldVendor:
		return employeeID == user.EmployeeID
	}
	return false
}

// NeedsManager reports whether an employee with role reports to a manager.
// The managerId form field is only submitted for these roles.
func NeedsManager(role modal.Role) bool {
	return role.IsFieldEmployee()
}
