package console

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fieldops-console/internal/gateway"
	"fieldops-console/internal/modal"
	"fieldops-console/internal/policy"
	"fieldops-console/internal/workflows"
)

var ErrNotEditable = errors.New("record is not editable")

// ExpenseForm is the edit form a role gets for one expense row.
type ExpenseForm struct {
	Expense        modal.Expense
	Editable       map[policy.Field]bool
	StatusOptions  []modal.ExpenseStatus
	PaymentOptions []modal.PaymentStatus
	ShowPayment    bool
}

// NewExpenseForm returns false when the edit action is not offered to role.
func NewExpenseForm(role modal.Role, e modal.Expense) (ExpenseForm, bool) {
	if !policy.CanOpenExpenseEditor(role, e) {
		return ExpenseForm{}, false
	}
	f := ExpenseForm{
		Expense:     e,
		Editable:    make(map[policy.Field]bool),
		ShowPayment: policy.ShowPaymentSelector(role, e),
	}
	for _, field := range policy.EditableFields(role, e) {
		f.Editable[field] = true
	}
	if state, err := workflows.StateOf(e); err == nil {
		f.StatusOptions = state.StatusOptions()
		f.PaymentOptions = state.PaymentOptions()
	} else {
		f.StatusOptions = []modal.ExpenseStatus{e.Status}
		f.PaymentOptions = []modal.PaymentStatus{e.PaymentStatus}
	}
	return f, true
}

// Can is used by templates to enable an input.
func (f ExpenseForm) Can(field string) bool {
	return f.Editable[policy.Field(field)]
}

func (f ExpenseForm) ReadOnly() bool {
	return len(f.Editable) == 0
}

// BuildExpenseUpdate turns submitted form values into an update carrying only
// the fields role may change on e. Values for locked fields are ignored.
func BuildExpenseUpdate(role modal.Role, e modal.Expense, values url.Values, receipt *gateway.File) (gateway.ExpenseUpdate, error) {
	fields := policy.EditableFields(role, e)
	if len(fields) == 0 {
		return gateway.ExpenseUpdate{}, ErrNotEditable
	}
	up := gateway.ExpenseUpdate{ExpenseID: e.ID}
	for _, field := range fields {
		v := strings.TrimSpace(values.Get(string(field)))
		switch field {
		case policy.FieldAmount:
			if v == "" {
				continue
			}
			amount, err := strconv.ParseFloat(v, 64)
			if err != nil || amount < 0 {
				return gateway.ExpenseUpdate{}, fmt.Errorf("invalid amount %q", v)
			}
			up.Amount = &amount
		case policy.FieldDescription:
			if _, ok := values[string(field)]; ok {
				up.Description = &v
			}
		case policy.FieldCategoryID:
			id, err := ParseOptionalID(v)
			if err != nil {
				return gateway.ExpenseUpdate{}, err
			}
			up.CategoryID = id
		case policy.FieldStatus:
			up.Status = modal.ExpenseStatus(v)
		case policy.FieldPaymentStatus:
			up.PaymentStatus = modal.PaymentStatus(v)
		case policy.FieldReceiptFile:
			up.Receipt = receipt
		}
	}

	if up.Status != "" || up.PaymentStatus != "" {
		state, err := workflows.StateOf(e)
		if err != nil {
			return gateway.ExpenseUpdate{}, err
		}
		next, err := state.Apply(up.Status, up.PaymentStatus)
		if err != nil {
			return gateway.ExpenseUpdate{}, err
		}
		up.PaymentStatus = ""
		if next.Payment != state.Payment {
			up.PaymentStatus = next.Payment
		}
	}
	return up, nil
}

// TaskEditForm wraps policy.TaskForm with the task it edits.
type TaskEditForm struct {
	policy.TaskForm
	Task modal.Task
}

func NewTaskForm(role modal.Role, t modal.Task) (TaskEditForm, bool) {
	f, ok := policy.TaskEditor(role, t)
	if !ok {
		return TaskEditForm{}, false
	}
	return TaskEditForm{TaskForm: f, Task: t}, true
}

// BuildTaskUpdate turns submitted form values into an update carrying only
// the fields role may change on t. A start or end time already set is never
// sent again.
func BuildTaskUpdate(role modal.Role, t modal.Task, values url.Values) (gateway.TaskUpdate, error) {
	form, ok := policy.TaskEditor(role, t)
	if !ok || form.ReadOnly() {
		return gateway.TaskUpdate{}, ErrNotEditable
	}
	up := gateway.TaskUpdate{TaskID: t.TaskID}

	if form.Details {
		if _, ok := values["title"]; ok {
			title := strings.TrimSpace(values.Get("title"))
			if title == "" {
				return gateway.TaskUpdate{}, errors.New("title is required")
			}
			up.Title = &title
		}
		if _, ok := values["description"]; ok {
			desc := strings.TrimSpace(values.Get("description"))
			up.Description = &desc
		}
		id, err := ParseOptionalID(values.Get("employeeId"))
		if err != nil {
			return gateway.TaskUpdate{}, err
		}
		up.EmployeeID = id
	}

	if !form.Locks.Status {
		if s := modal.TaskStatus(strings.TrimSpace(values.Get("status"))); s != "" {
			if !workflows.CanMoveTask(t.Status, s) {
				return gateway.TaskUpdate{}, fmt.Errorf("%w: task %s -> %s", workflows.ErrIllegalTaskTransition, t.Status, s)
			}
			up.Status = s
		}
	}
	if !form.Locks.StartTime {
		v, err := inputTime(values.Get("startTime"))
		if err != nil {
			return gateway.TaskUpdate{}, fmt.Errorf("start time: %w", err)
		}
		up.StartTime = v
	}
	if !form.Locks.EndTime {
		v, err := inputTime(values.Get("endTime"))
		if err != nil {
			return gateway.TaskUpdate{}, fmt.Errorf("end time: %w", err)
		}
		up.EndTime = v
	}
	return up, nil
}

func inputTime(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	ts, err := modal.ParseTimestamp(v)
	if err != nil {
		return "", err
	}
	return ts.Format(modal.LocalInputLayout), nil
}
