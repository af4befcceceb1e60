package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"fieldops-console/internal/modal"
)

func (c *Client) CreateCategory(ctx context.Context, name string) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodPost, "/expense-categories/create", map[string]string{"name": strings.TrimSpace(name)})
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteCategories(ctx context.Context, ids []int64) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodDelete, "/expense-categories/delete", map[string][]int64{"categoryIds": ids})
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]modal.Category, error) {
	var out []modal.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/expense-categories/show"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
