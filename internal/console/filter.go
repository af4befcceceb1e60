// Package console holds the view logic shared by the console pages and the
// command line client: searching, selections, edit forms and mutations.
package console

import (
	"strings"

	"fieldops-console/internal/modal"
)

func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterTasks keeps tasks whose title, description, assignee or status
// contains q, ignoring case.
func FilterTasks(tasks []modal.Task, q string) []modal.Task {
	out := make([]modal.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(q, t.Title, t.Description, t.EmployeeName, string(t.Status)) {
			out = append(out, t)
		}
	}
	return out
}

func FilterExpenses(expenses []modal.Expense, q string) []modal.Expense {
	out := make([]modal.Expense, 0, len(expenses))
	for _, e := range expenses {
		if matches(q, e.TaskTitle, e.Description, e.EmployeeName, e.CategoryName, string(e.Status)) {
			out = append(out, e)
		}
	}
	return out
}

func FilterEmployees(employees []modal.Employee, q string) []modal.Employee {
	out := make([]modal.Employee, 0, len(employees))
	for _, e := range employees {
		if matches(q, e.Name, e.Email) {
			out = append(out, e)
		}
	}
	return out
}

func FilterCategories(categories []modal.Category, q string) []modal.Category {
	out := make([]modal.Category, 0, len(categories))
	for _, c := range categories {
		if matches(q, c.Name) {
			out = append(out, c)
		}
	}
	return out
}
