package workflows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fieldops-console/internal/modal"
)

func TestAvailableStatuses(t *testing.T) {
	cases := map[modal.TaskStatus][]modal.TaskStatus{
		modal.TaskCreated:   {modal.TaskCreated, modal.TaskStarted, modal.TaskCancelled, modal.TaskRejected},
		modal.TaskStarted:   {modal.TaskStarted, modal.TaskCompleted, modal.TaskCancelled, modal.TaskRejected},
		modal.TaskCompleted: {modal.TaskCompleted},
		modal.TaskCancelled: {modal.TaskCancelled},
		modal.TaskRejected:  {modal.TaskRejected},
		"":                  {modal.TaskCreated},
		"Paused":            {modal.TaskCreated},
		"completed":         {modal.TaskCreated},
	}
	for status, want := range cases {
		assert.Equal(t, want, AvailableStatuses(status), "status %q", status)
	}
}

func TestAvailableStatuses_ReturnsCopy(t *testing.T) {
	got := AvailableStatuses(modal.TaskCreated)
	got[0] = modal.TaskRejected

	assert.Equal(t, modal.TaskCreated, AvailableStatuses(modal.TaskCreated)[0])
}

func TestCanMoveTask(t *testing.T) {
	assert.True(t, CanMoveTask(modal.TaskCreated, modal.TaskStarted))
	assert.True(t, CanMoveTask(modal.TaskStarted, modal.TaskCompleted))
	assert.False(t, CanMoveTask(modal.TaskCreated, modal.TaskCompleted))
	assert.False(t, CanMoveTask(modal.TaskCompleted, modal.TaskStarted))
	assert.True(t, CanMoveTask(modal.TaskCompleted, modal.TaskCompleted))
}

func TestLocksFor(t *testing.T) {
	started := &modal.Timestamp{Time: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)}

	for _, status := range []modal.TaskStatus{modal.TaskCompleted, modal.TaskCancelled, modal.TaskRejected} {
		locks := LocksFor(modal.Task{Status: status})
		assert.Equal(t, TaskLocks{Status: true, StartTime: true, EndTime: true}, locks, "status %s", status)
	}

	assert.Equal(t, TaskLocks{}, LocksFor(modal.Task{Status: modal.TaskCreated}))
	assert.Equal(t, TaskLocks{StartTime: true}, LocksFor(modal.Task{Status: modal.TaskStarted, StartTime: started}))
	assert.Equal(t, TaskLocks{StartTime: true, EndTime: true},
		LocksFor(modal.Task{Status: modal.TaskStarted, StartTime: started, EndTime: started}))
}
