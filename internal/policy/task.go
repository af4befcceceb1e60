package policy

import (
	"fieldops-console/internal/modal"
	"fieldops-console/internal/workflows"
)

// TaskForm describes the task edit form offered to a role.
type TaskForm struct {
	// Details is true when title, description and assignee are editable.
	Details  bool
	Statuses []modal.TaskStatus
	Locks    workflows.TaskLocks
}

// ReadOnly reports whether the form has no enabled input left.
func (f TaskForm) ReadOnly() bool {
	return !f.Details && f.Locks.Status && f.Locks.StartTime && f.Locks.EndTime
}

// TaskEditor returns the edit form role gets for t, or false when the role
// may not edit tasks at all. Terminal tasks still get a form with every
// control disabled.
func TaskEditor(role modal.Role, t modal.Task) (TaskForm, bool) {
	if !CanEditTasks(role) {
		return TaskForm{}, false
	}
	return TaskForm{
		Details:  CanManageTasks(role) && !workflows.IsTerminal(t.Status),
		Statuses: workflows.AvailableStatuses(t.Status),
		Locks:    workflows.LocksFor(t),
	}, true
}
