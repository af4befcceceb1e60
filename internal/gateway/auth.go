package gateway

import (
	"context"
	"net/http"

	"fieldops-console/internal/modal"
)

type Credentials struct {
	// Username is the employee's email or mobile number.
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (modal.User, error) {
	req, err := jsonRequest(http.MethodPost, "/employees/login", creds)
	if err != nil {
		return modal.User{}, err
	}
	var u modal.User
	if err := c.do(ctx, req, &u); err != nil {
		return modal.User{}, err
	}
	return u, nil
}
