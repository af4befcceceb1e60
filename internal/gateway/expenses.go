package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"fieldops-console/internal/modal"
)

type ExpenseInput struct {
	TaskID      int64   `validate:"required,gt=0"`
	CategoryID  int64   `validate:"required,gt=0"`
	Amount      float64 `validate:"gte=0"`
	Description string
	Receipt     *File
}

// ExpenseUpdate carries only the fields the editor was allowed to change.
type ExpenseUpdate struct {
	ExpenseID     int64 `validate:"required,gt=0"`
	Amount        *float64
	Description   *string
	CategoryID    *int64
	Status        modal.ExpenseStatus
	PaymentStatus modal.PaymentStatus
	Receipt       *File
}

func (c *Client) CreateExpense(ctx context.Context, in ExpenseInput) (json.RawMessage, error) {
	f := newForm()
	f.id("taskId", in.TaskID)
	f.id("categoryId", in.CategoryID)
	f.amount("amount", &in.Amount)
	f.str("description", in.Description)
	f.file("receiptFile", in.Receipt)
	req, err := f.request(http.MethodPost, "/expenses/create")
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateExpense(ctx context.Context, in ExpenseUpdate) (json.RawMessage, error) {
	f := newForm()
	f.id("expenseId", in.ExpenseID)
	f.amount("amount", in.Amount)
	if in.Description != nil {
		f.set("description", *in.Description)
	}
	f.optID("categoryId", in.CategoryID)
	f.str("status", string(in.Status))
	f.str("paymentStatus", string(in.PaymentStatus))
	f.file("receiptFile", in.Receipt)
	req, err := f.request(http.MethodPut, "/expenses/update")
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteExpenses(ctx context.Context, ids []int64) (json.RawMessage, error) {
	req, err := jsonRequest(http.MethodDelete, "/expenses/delete", map[string][]int64{"expenseIds": ids})
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Expenses(ctx context.Context, r *DateRange) ([]modal.Expense, error) {
	var out []modal.Expense
	if err := c.do(ctx, request{method: http.MethodGet, path: "/expenses/show", query: rangeQuery(r)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
