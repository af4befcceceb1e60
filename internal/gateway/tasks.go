package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"fieldops-console/internal/modal"
)

type TaskInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	EmployeeID  int64  `json:"employeeId" validate:"required,gt=0"`
}

// TaskUpdate carries only the fields the editor was allowed to change.
// StartTime and EndTime use the datetime-local layout.
type TaskUpdate struct {
	TaskID      int64            `json:"taskId" validate:"required,gt=0"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	EmployeeID  *int64           `json:"employeeId,omitempty"`
	Status      modal.TaskStatus `json:"status,omitempty"`
	StartTime   string           `json:"startTime,omitempty"`
	EndTime     string           `json:"endTime,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodPost, "/tasks/create", in)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateTask(ctx context.Context, in TaskUpdate) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodPut, "/tasks/update", in)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteTasks(ctx context.Context, ids []int64) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodDelete, "/tasks/delete", map[string][]int64{"taskIds": ids})
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tasks lists tasks, optionally limited to a date range.
func (c *Client) Tasks(ctx context.Context, r *DateRange) ([]modal.Task, error) {
	var out []modal.Task
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tasks/show", query: rangeQuery(r)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FieldEmployees lists the employees tasks can be assigned to.
func (c *Client) FieldEmployees(ctx context.Context) ([]modal.Employee, error) {
	var out []modal.Employee
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tasks/showFieldEmployee"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func rangeQuery(r *DateRange) url.Values {
	if r == nil {
		return nil
	}
	return url.Values{"range": {r.String()}}
}
