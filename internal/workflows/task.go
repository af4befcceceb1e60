package workflows

import (
	"errors"

	"fieldops-console/internal/modal"
)

var ErrIllegalTaskTransition = errors.New("illegal task transition")

var taskFlow = map[modal.TaskStatus][]modal.TaskStatus{
	modal.TaskCreated:   {modal.TaskCreated, modal.TaskStarted, modal.TaskCancelled, modal.TaskRejected},
	modal.TaskStarted:   {modal.TaskStarted, modal.TaskCompleted, modal.TaskCancelled, modal.TaskRejected},
	modal.TaskCompleted: {modal.TaskCompleted},
	modal.TaskCancelled: {modal.TaskCancelled},
	modal.TaskRejected:  {modal.TaskRejected},
}

// AvailableStatuses returns the statuses selectable as the next status of a
// task currently in status. The current status is always included so a form
// can be resubmitted unchanged. Unknown statuses only allow Created.
func AvailableStatuses(status modal.TaskStatus) []modal.TaskStatus {
	next, ok := taskFlow[status]
	if !ok {
		return []modal.TaskStatus{modal.TaskCreated}
	}
	out := make([]modal.TaskStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no status change is possible from status.
func IsTerminal(status modal.TaskStatus) bool {
	switch status {
	case modal.TaskCompleted, modal.TaskCancelled, modal.TaskRejected:
		return true
	}
	return false
}

// CanMoveTask reports whether a task in from may be saved with status to.
func CanMoveTask(from, to modal.TaskStatus) bool {
	for _, s := range AvailableStatuses(from) {
		if s == to {
			return true
		}
	}
	return false
}

// TaskLocks describes which task controls are disabled in an edit form.
type TaskLocks struct {
	Status    bool
	StartTime bool
	EndTime   bool
}

// LocksFor disables every control of a terminal task. Start and end times are
// write-once.
func LocksFor(t modal.Task) TaskLocks {
	if IsTerminal(t.Status) {
		return TaskLocks{Status: true, StartTime: true, EndTime: true}
	}
	return TaskLocks{
		StartTime: t.StartTime != nil && !t.StartTime.IsZero(),
		EndTime:   t.EndTime != nil && !t.EndTime.IsZero(),
	}
}
