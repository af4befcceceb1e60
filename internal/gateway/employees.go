package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"fieldops-console/internal/modal"
)

type EmployeeInput struct {
	// EmployeeID is only set for updates.
	EmployeeID int64
	Name       string `validate:"required"`
	Mobile     string `validate:"required"`
	Email      string `validate:"required,email"`
	Password   string
	Role       modal.Role `validate:"required,known_role"`
	// ManagerID is dropped unless Role is a field employee role.
	ManagerID    *int64
	ProfileImage *File
}

func (in EmployeeInput) form() *form {
	f := newForm()
	f.id("employeeId", in.EmployeeID)
	f.str("name", in.Name)
	f.str("mobile", in.Mobile)
	f.str("email", in.Email)
	if strings.TrimSpace(in.Password) != "" {
		f.str("password", in.Password)
	}
	f.str("role", string(in.Role))
	if in.Role.IsFieldEmployee() {
		f.optID("managerId", in.ManagerID)
	}
	f.file("profileImage", in.ProfileImage)
	return f
}

// ProfileInput is a user's update of their own record.
type ProfileInput struct {
	Name     string `json:"name" validate:"required"`
	Mobile   string `json:"mobile" validate:"required,indian_mobile"`
	Password string `json:"password" validate:"required,strong_password"`
}

func (c *Client) CreateEmployee(ctx context.Context, in EmployeeInput) (json.RawMessage, error) {
	in.EmployeeID = 0
	req, err := in.form().request(http.MethodPost, "/employees/create")
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateEmployee leaves the password unchanged when in.Password is blank.
func (c *Client) UpdateEmployee(ctx context.Context, in EmployeeInput) (json.RawMessage, error) {
	req, err := in.form().request(http.MethodPut, "/employees/update")
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile updates the signed-in employee's name, mobile and password.
func (c *Client) UpdateProfile(ctx context.Context, employeeID int64, in ProfileInput) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodPut, "/employees/update", struct {
		EmployeeID int64 `json:"employeeId"`
		ProfileInput
	}{employeeID, in})
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteEmployees(ctx context.Context, ids []int64) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodDelete, "/employees/delete", map[string][]int64{"employeeIds": ids})
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Employees(ctx context.Context) ([]modal.Employee, error) {
	var out []modal.Employee
	if err := c.do(ctx, request{method: http.MethodGet, path: "/employees/show"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Roles(ctx context.Context) ([]modal.Role, error) {
	var out []modal.Role
	if err := c.do(ctx, request{method: http.MethodGet, path: "/employees/showRoles"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Managers(ctx context.Context) ([]modal.Employee, error) {
	var out []modal.Employee
	if err := c.do(ctx, request{method: http.MethodGet, path: "/employees/showManager"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
