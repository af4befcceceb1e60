package modal

type Task struct {
	TaskID       int64      `json:"taskId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	EmployeeID   int64      `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	ManagerID    int64      `json:"managerId"`
	ManagerName  string     `json:"managerName,omitempty"`
	Status       TaskStatus `json:"status"`
	StartTime    *Timestamp `json:"startTime,omitempty"`
	EndTime      *Timestamp `json:"endTime,omitempty"`
	CreatedAt    Timestamp  `json:"createdAt"`
	UpdatedAt    Timestamp  `json:"updatedAt"`
}

type Expense struct {
	ID            int64         `json:"id"`
	TaskID        int64         `json:"taskId"`
	TaskTitle     string        `json:"taskTitle,omitempty"`
	CategoryID    int64         `json:"categoryId"`
	CategoryName  string        `json:"categoryName,omitempty"`
	Amount        float64       `json:"amount"`
	Description   string        `json:"description,omitempty"`
	ReceiptURL    string        `json:"receiptUrl,omitempty"`
	EmployeeID    int64         `json:"employeeId"`
	EmployeeName  string        `json:"employeeName,omitempty"`
	ManagerID     int64         `json:"managerId,omitempty"`
	ManagerName   string        `json:"managerName,omitempty"`
	Status        ExpenseStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	ApproverName  string        `json:"approverName,omitempty"`
	ApprovedAt    *Timestamp    `json:"approvedAt,omitempty"`
	CreatedAt     Timestamp     `json:"createdAt"`
	UpdatedAt     Timestamp     `json:"updatedAt"`
}
