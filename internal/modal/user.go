package modal

// User is the record returned by the login endpoint and kept in the session.
type User struct {
	EmployeeID int64          `json:"employeeId"`
	Name       string         `json:"name"`
	Email      string         `json:"email,omitempty"`
	Mobile     string         `json:"mobile,omitempty"`
	Role       Role           `json:"role"`
	ManagerID  *int64         `json:"managerId,omitempty"`
	Status     EmployeeStatus `json:"status,omitempty"`
	ProfileURL string         `json:"profileUrl,omitempty"`
}

type Employee struct {
	EmployeeID  int64          `json:"employeeId"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Mobile      string         `json:"mobile"`
	Role        Role           `json:"role"`
	ManagerID   *int64         `json:"managerId,omitempty"`
	ManagerName string         `json:"managerName,omitempty"`
	Status      EmployeeStatus `json:"status"`
	ProfileURL  string         `json:"profileUrl,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
