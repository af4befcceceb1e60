package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"fieldops-console/internal/modal"
	"fieldops-console/internal/notify"
	"fieldops-console/internal/policy"
	"fieldops-console/internal/workflows"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type styles struct {
	success lipgloss.Style
	failure lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	busy    lipgloss.Style
	idle    lipgloss.Style
	header  lipgloss.Style
}

// newStyles binds the palette to one output so colors are dropped when it is
// not a terminal.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		success: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		good:    r.NewStyle().Foreground(lipgloss.Color("42")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("196")),
		busy:    r.NewStyle().Foreground(lipgloss.Color("214")),
		idle:    r.NewStyle().Foreground(lipgloss.Color("245")),
		header:  r.NewStyle().Bold(true),
	}
}

// badge colors a task, expense, payment or employee status.
func (s styles) badge(status string) string {
	switch status {
	case string(modal.TaskCompleted), string(modal.ExpenseApproved), string(modal.PaymentPaid), string(modal.EmployeeActive):
		return s.good.Render(status)
	case string(modal.TaskRejected), string(modal.TaskCancelled), string(modal.EmployeeInactive):
		return s.bad.Render(status)
	case string(modal.TaskStarted), string(modal.PaymentProcessing):
		return s.busy.Render(status)
	}
	return s.idle.Render(status)
}

func (c *cli) notice(n notify.Notification) {
	if n.Text == "" {
		return
	}
	if n.Kind == notify.Failure {
		fmt.Fprintln(c.errOut, c.styles.failure.Render("✗ ")+n.Text)
		return
	}
	fmt.Fprintln(c.out, c.styles.success.Render("✓ ")+n.Text)
}

// encode writes v as JSON or YAML. YAML goes through JSON first so both use
// the API's field names.
func (c *cli) encode(v any) error {
	switch c.format {
	case formatJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", c.format)
}

func (c *cli) table(header string, rows func(w io.Writer)) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, c.styles.header.Render(header))
	rows(w)
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func when(ts *modal.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return "-"
	}
	return ts.Format("02-01-2006 15:04")
}

func (c *cli) printUser(u modal.User) error {
	if c.format != formatTable {
		return c.encode(u)
	}
	return c.table("FIELD\tVALUE", func(w io.Writer) {
		fmt.Fprintf(w, "Employee ID\t%d\n", u.EmployeeID)
		fmt.Fprintf(w, "Name\t%s\n", u.Name)
		fmt.Fprintf(w, "Email\t%s\n", dash(u.Email))
		fmt.Fprintf(w, "Mobile\t%s\n", dash(u.Mobile))
		fmt.Fprintf(w, "Role\t%s\n", u.Role)
		fmt.Fprintf(w, "Status\t%s\n", c.styles.badge(string(u.Status)))
	})
}

func (c *cli) printTasks(tasks []modal.Task, showEmployee bool) error {
	if c.format != formatTable {
		return c.encode(tasks)
	}
	header := "ID\tTITLE\tEMPLOYEE\tSTART\tEND\tSTATUS"
	if !showEmployee {
		header = "ID\tTITLE\tSTART\tEND\tSTATUS"
	}
	return c.table(header, func(w io.Writer) {
		for _, t := range tasks {
			if showEmployee {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.TaskID, t.Title, dash(t.EmployeeName), when(t.StartTime), when(t.EndTime), c.styles.badge(string(t.Status)))
				continue
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.TaskID, t.Title, when(t.StartTime), when(t.EndTime), c.styles.badge(string(t.Status)))
		}
	})
}

func (c *cli) printExpenses(expenses []modal.Expense) error {
	if c.format != formatTable {
		return c.encode(expenses)
	}
	return c.table("ID\tTASK\tCATEGORY\tAMOUNT\tEMPLOYEE\tPAYMENT\tSTATUS", func(w io.Writer) {
		for _, e := range expenses {
			payment := "-"
			if e.Status == modal.ExpenseApproved {
				payment = c.styles.badge(string(e.PaymentStatus))
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, dash(e.TaskTitle), dash(e.CategoryName),
				strconv.FormatFloat(e.Amount, 'f', 2, 64), dash(e.EmployeeName),
				payment, c.styles.badge(string(e.Status)))
		}
	})
}

func (c *cli) printEmployees(employees []modal.Employee) error {
	if c.format != formatTable {
		return c.encode(employees)
	}
	return c.table("ID\tNAME\tEMAIL\tMOBILE\tROLE\tMANAGER\tSTATUS", func(w io.Writer) {
		for _, e := range employees {
			manager := "-"
			if policy.NeedsManager(e.Role) {
				manager = dash(e.ManagerName)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.EmployeeID, e.Name, dash(e.Email), dash(e.Mobile), e.Role, manager, c.styles.badge(string(e.Status)))
		}
	})
}

func (c *cli) printCategories(categories []modal.Category) error {
	if c.format != formatTable {
		return c.encode(categories)
	}
	return c.table("ID\tNAME", func(w io.Writer) {
		for _, cat := range categories {
			fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
		}
	})
}

type taskStatusView struct {
	Status    modal.TaskStatus   `json:"status"`
	Available []modal.TaskStatus `json:"available"`
	Terminal  bool               `json:"terminal"`
}

func (c *cli) printTaskStatuses(status modal.TaskStatus, available []modal.TaskStatus) error {
	view := taskStatusView{Status: status, Available: available, Terminal: workflows.IsTerminal(status)}
	if c.format != formatTable {
		return c.encode(view)
	}
	return c.table("NEXT STATUS", func(w io.Writer) {
		for _, s := range available {
			fmt.Fprintln(w, c.styles.badge(string(s)))
		}
	})
}

type expenseRulesView struct {
	Role           modal.Role            `json:"role"`
	State          string                `json:"state"`
	Editable       []policy.Field        `json:"editable"`
	StatusOptions  []modal.ExpenseStatus `json:"statusOptions"`
	PaymentOptions []modal.PaymentStatus `json:"paymentOptions"`
}

func (c *cli) printExpenseRules(role modal.Role, state workflows.ExpenseState) error {
	e := modal.Expense{Status: state.Status, PaymentStatus: state.Payment}
	view := expenseRulesView{
		Role:           role,
		State:          state.String(),
		Editable:       policy.EditableFields(role, e),
		StatusOptions:  state.StatusOptions(),
		PaymentOptions: state.PaymentOptions(),
	}
	if view.Editable == nil {
		view.Editable = []policy.Field{}
	}
	if c.format != formatTable {
		return c.encode(view)
	}
	return c.table("FIELD\tEDITABLE", func(w io.Writer) {
		editable := make(map[policy.Field]bool, len(view.Editable))
		for _, f := range view.Editable {
			editable[f] = true
		}
		for _, f := range policy.ExpenseFields {
			fmt.Fprintf(w, "%s\t%t\n", f, editable[f])
		}
	})
}
