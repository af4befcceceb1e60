package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"fieldops-console/internal/console"
	"fieldops-console/internal/gateway"
	"fieldops-console/internal/modal"
	"fieldops-console/internal/policy"
	"fieldops-console/internal/session"
	"fieldops-console/internal/workflows"
)

var errNotLoggedIn = errors.New(`not logged in, run "fieldctl login" first`)

func newFlagSet(c *cli, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("fieldctl "+name, pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// subcommand splits args into a verb and its arguments. A missing verb, or
// one that is really a flag, means list.
func subcommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "list", args
	}
	return args[0], args[1:]
}

func (c *cli) session() (session.Session, error) {
	sess, err := c.store.Load()
	if err != nil {
		return session.Anonymous, err
	}
	if !sess.Authenticated() {
		return session.Anonymous, errNotLoggedIn
	}
	return sess, nil
}

// mutate runs fn through the console runner, prints the resulting
// notification and, on success, calls refetch to show the updated list.
func (c *cli) mutate(ctx context.Context, action, success string, fn func(context.Context) error, refetch func() error) error {
	n, ok := c.runner.Run(ctx, cliAudience, action, success, fn)
	c.board.Dismiss(cliAudience)
	c.notice(n)
	if !ok {
		return exitError{code: 1}
	}
	if refetch == nil {
		return nil
	}
	return refetch()
}

// changed collects the flags the user actually set, keyed by form field.
func changed(fs *pflag.FlagSet, fields map[string]string) url.Values {
	v := url.Values{}
	for flagName, field := range fields {
		if fs.Changed(flagName) {
			value, _ := fs.GetString(flagName)
			v.Set(field, value)
		}
	}
	return v
}

type listFlags struct {
	from, to, search string
	all              bool
}

func (l *listFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&l.from, "from", "", "first day, YYYY-MM-DD (default: 30 days ago)")
	fs.StringVar(&l.to, "to", "", "last day, YYYY-MM-DD (default: today)")
	fs.BoolVar(&l.all, "all", false, "ignore the date range")
	fs.StringVarP(&l.search, "search", "q", "", "only show records containing this text")
}

func (l *listFlags) dateRange(c *cli) (*gateway.DateRange, error) {
	if l.all {
		return nil, nil
	}
	if l.from == "" && l.to == "" {
		r := gateway.LastDays(c.now(), gateway.DefaultRangeDays)
		return &r, nil
	}
	def := gateway.LastDays(c.now(), gateway.DefaultRangeDays)
	if l.from == "" {
		l.from = def.StartInput()
	}
	if l.to == "" {
		l.to = def.EndInput()
	}
	r, err := gateway.ParseRange(l.from, l.to)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func readFile(path string) (*gateway.File, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return &gateway.File{Name: filepath.Base(path), Content: f}, func() { f.Close() }, nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "login")
	var creds gateway.Credentials
	fs.StringVarP(&creds.Username, "username", "u", "", "email or mobile number")
	fs.StringVarP(&creds.Password, "password", "p", os.Getenv("FIELDOPS_PASSWORD"), "password (default: $FIELDOPS_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.validator.Struct(creds); err != nil {
		return err
	}

	user, err := c.api.Login(ctx, creds)
	if err != nil {
		return c.fail(err)
	}
	if err := c.store.Save(session.New(user)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.notice(c.board.Success(cliAudience, fmt.Sprintf("Logged in as %s (%s)", user.Name, user.Role)))
	c.board.Dismiss(cliAudience)
	return nil
}

func (c *cli) logout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out")
	return nil
}

func (c *cli) whoami() error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	u, _ := sess.User()
	return c.printUser(u)
}

func (c *cli) tasks(ctx context.Context, args []string) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	api := c.api.For(sess)
	role := sess.Role()
	verb, args := subcommand(args)
	fs := newFlagSet(c, "tasks "+verb)

	list := func(l listFlags) error {
		rng, err := l.dateRange(c)
		if err != nil {
			return err
		}
		tasks, err := api.Tasks(ctx, rng)
		if err != nil {
			return c.fail(err)
		}
		return c.printTasks(console.FilterTasks(tasks, l.search), policy.ShowEmployeeColumn(role))
	}
	refetch := func() error { return list(listFlags{}) }

	switch verb {
	case "list":
		var l listFlags
		l.register(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return list(l)

	case "create":
		var in gateway.TaskInput
		fs.StringVar(&in.Title, "title", "", "task title")
		fs.StringVar(&in.Description, "description", "", "task description")
		fs.Int64Var(&in.EmployeeID, "employee", 0, "assignee employee ID")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.mutate(ctx, "task.create", "Task created successfully", func(ctx context.Context) error {
			if err := c.validator.Struct(in); err != nil {
				return err
			}
			_, err := api.CreateTask(ctx, in)
			return err
		}, refetch)

	case "update":
		fs.String("title", "", "new title")
		fs.String("description", "", "new description")
		fs.String("employee", "", "new assignee employee ID")
		fs.String("status", "", "new status")
		fs.String("start", "", "start time, YYYY-MM-DDTHH:MM")
		fs.String("end", "", "end time, YYYY-MM-DDTHH:MM")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("usage: fieldctl tasks update <taskId> [flags]")
		}
		values := changed(fs, map[string]string{
			"title": "title", "description": "description", "employee": "employeeId",
			"status": "status", "start": "startTime", "end": "endTime",
		})
		return c.mutate(ctx, "task.update", "Task updated successfully", func(ctx context.Context) error {
			id, err := console.ParseID(fs.Arg(0))
			if err != nil {
				return err
			}
			current, err := findTask(ctx, api, id)
			if err != nil {
				return err
			}
			up, err := console.BuildTaskUpdate(role, current, values)
			if err != nil {
				return err
			}
			_, err = api.UpdateTask(ctx, up)
			return err
		}, refetch)

	case "delete":
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.mutate(ctx, "task.delete", "Tasks deleted successfully", func(ctx context.Context) error {
			ids, err := console.ParseIDs(fs.Args())
			if err != nil {
				return err
			}
			_, err = api.DeleteTasks(ctx, ids)
			return err
		}, refetch)
	}
	return fmt.Errorf("unknown tasks command %q", verb)
}

func findTask(ctx context.Context, api *gateway.Client, id int64) (modal.Task, error) {
	tasks, err := api.Tasks(ctx, nil)
	if err != nil {
		return modal.Task{}, err
	}
	for _, t := range tasks {
		if t.TaskID == id {
			return t, nil
		}
	}
	return modal.Task{}, fmt.Errorf("task %d not found", id)
}

func (c *cli) expenses(ctx context.Context, args []string) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	api := c.api.For(sess)
	role := sess.Role()
	verb, args := subcommand(args)
	fs := newFlagSet(c, "expenses "+verb)

	list := func(l listFlags) error {
		rng, err := l.dateRange(c)
		if err != nil {
			return err
		}
		expenses, err := api.Expenses(ctx, rng)
		if err != nil {
			return c.fail(err)
		}
		return c.printExpenses(console.FilterExpenses(expenses, l.search))
	}
	refetch := func() error { return list(listFlags{}) }

	switch verb {
	case "list":
		var l listFlags
		l.register(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return list(l)

	case "create":
		var in gateway.ExpenseInput
		var receiptPath string
		fs.Int64Var(&in.TaskID, "task", 0, "task ID")
		fs.Int64Var(&in.CategoryID, "category", 0, "category ID")
		fs.Float64Var(&in.Amount, "amount", 0, "amount")
		fs.StringVar(&in.Description, "description", "", "description")
		fs.StringVar(&receiptPath, "receipt", "", "receipt file to upload")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.mutate(ctx, "expense.create", "Expense created successfully", func(ctx context.Context) error {
			if err := c.validator.Struct(in); err != nil {
				return err
			}
			file, closeFile, err := readFile(receiptPath)
			if err != nil {
				return err
			}
			defer closeFile()
			in.Receipt = file
			_, err = api.CreateExpense(ctx, in)
			return err
		}, refetch)

	case "update":
		var receiptPath string
		fs.String("amount", "", "new amount")
		fs.String("description", "", "new description")
		fs.String("category", "", "new category ID")
		fs.String("status", "", "new approval status")
		fs.String("payment", "", "new payment status")
		fs.StringVar(&receiptPath, "receipt", "", "replacement receipt file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("usage: fieldctl expenses update <expenseId> [flags]")
		}
		values := changed(fs, map[string]string{
			"amount": "amount", "description": "description", "category": "categoryId",
			"status": "status", "payment": "paymentStatus",
		})
		return c.mutate(ctx, "expense.update", "Expense updated successfully", func(ctx context.Context) error {
			id, err := console.ParseID(fs.Arg(0))
			if err != nil {
				return err
			}
			current, err := findExpense(ctx, api, id)
			if err != nil {
				return err
			}
			file, closeFile, err := readFile(receiptPath)
			if err != nil {
				return err
			}
			defer closeFile()
			up, err := console.BuildExpenseUpdate(role, current, values, file)
			if err != nil {
				return err
			}
			_, err = api.UpdateExpense(ctx, up)
			return err
		}, refetch)

	case "delete":
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.mutate(ctx, "expense.delete", "Expenses deleted successfully", func(ctx context.Context) error {
			ids, err := console.ParseIDs(fs.Args())
			if err != nil {
				return err
			}
			_, err = api.DeleteExpenses(ctx, ids)
			return err
		}, refetch)
	}
	return fmt.Errorf("unknown expenses command %q", verb)
}

func findExpense(ctx context.Context, api *gateway.Client, id int64) (modal.Expense, error) {
	expenses, err := api.Expenses(ctx, nil)
	if err != nil {
		return modal.Expense{}, err
	}
	for _, e := range expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return modal.Expense{}, fmt.Errorf("expense %d not found", id)
}

func (c *cli) employees(ctx context.Context, args []string) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	api := c.api.For(sess)
	verb, args := subcommand(args)
	fs := newFlagSet(c, "employees "+verb)

	list := func(search string) error {
		employees, err := api.Employees(ctx)
		if err != nil {
			return c.fail(err)
		}
		return c.printEmployees(console.FilterEmployees(employees, search))
	}
	refetch := func() error { return list("") }

	employeeFlags := func(in *gateway.EmployeeInput, role, manager, image *string) {
		fs.StringVar(&in.Name, "name", "", "full name")
		fs.StringVar(&in.Mobile, "mobile", "", "mobile number")
		fs.StringVar(&in.Email, "email", "", "email address")
		fs.StringVar(&in.Password, "password", "", "password")
		fs.StringVar(role, "role", "", "role")
		fs.StringVar(manager, "manager", "", "manager employee ID, for field employees")
		fs.StringVar(image, "image", "", "profile image file")
	}
	save := func(ctx context.Context, in gateway.EmployeeInput, role, manager, image string, create bool) error {
		in.Role = modal.Role(role)
		managerID, err := console.ParseOptionalID(manager)
		if err != nil {
			return err
		}
		in.ManagerID = managerID
		if err := c.validator.Employee(in, create); err != nil {
			return err
		}
		file, closeFile, err := readFile(image)
		if err != nil {
			return err
		}
		defer closeFile()
		in.ProfileImage = file
		if create {
			_, err = api.CreateEmployee(ctx, in)
		} else {
			_, err = api.UpdateEmployee(ctx, in)
		}
		return err
	}

	switch verb {
	case "list":
		var search string
		fs.StringVarP(&search, "search", "q", "", "only show employees whose name or email contains this text")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return list(search)

	case "create":
		var in gateway.EmployeeInput
		var role, manager, image string
		employeeFlags(&in, &role, &manager, &image)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.mutate(ctx, "employee.create", "Employee created successfully", func(ctx context.Context) error {
			return save(ctx, in, role, manager, image, true)
		}, refetch)

	case "update":
		var in gateway.EmployeeInput
		var role, manager, image string
		employeeFlags(&in, &role, &manager, &image)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("usage: fieldctl employees update <employeeId> [flags]")
		}
		return c.mutate(ctx, "employee.update", "Employee updated successfully", func(ctx context.Context) error {
			id, err := console.ParseID(fs.Arg(0))
			if err != nil {
				return err
			}
			in.EmployeeID = id
			return save(ctx, in, role, manager, image, false)
		}, refetch)

	case "delete":
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.mutate(ctx, "employee.delete", "Employees deleted successfully", func(ctx context.Context) error {
			ids, err := console.ParseIDs(fs.Args())
			if err != nil {
				return err
			}
			_, err = api.DeleteEmployees(ctx, ids)
			return err
		}, refetch)
	}
	return fmt.Errorf("unknown employees command %q", verb)
}

func (c *cli) categories(ctx context.Context, args []string) error {
	sess, err := c.session()
	if err != nil {
		return err
	}
	api := c.api.For(sess)
	verb, args := subcommand(args)
	fs := newFlagSet(c, "categories "+verb)

	list := func(search string) error {
		categories, err := api.Categories(ctx)
		if err != nil {
			return c.fail(err)
		}
		return c.printCategories(console.FilterCategories(categories, search))
	}
	refetch := func() error { return list("") }

	switch verb {
	case "list":
		var search string
		fs.StringVarP(&search, "search", "q", "", "only show categories containing this text")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return list(search)

	case "create":
		if err := fs.Parse(args); err != nil {
			return err
		}
		name := strings.TrimSpace(strings.Join(fs.Args(), " "))
		return c.mutate(ctx, "category.create", "Category created successfully", func(ctx context.Context) error {
			if name == "" {
				return errors.New("category name is required")
			}
			_, err := api.CreateCategory(ctx, name)
			return err
		}, refetch)

	case "delete":
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.mutate(ctx, "category.delete", "Categories deleted successfully", func(ctx context.Context) error {
			ids, err := console.ParseIDs(fs.Args())
			if err != nil {
				return err
			}
			_, err = api.DeleteCategories(ctx, ids)
			return err
		}, refetch)
	}
	return fmt.Errorf("unknown categories command %q", verb)
}

// statuses prints what the console offers for a task or expense state. The
// expense rules depend on the role, which defaults to the signed-in user's.
func (c *cli) statuses(args []string) error {
	fs := newFlagSet(c, "statuses")
	var roleFlag string
	fs.StringVar(&roleFlag, "role", "", "evaluate expense rules for this role")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch fs.Arg(0) {
	case "task":
		if fs.NArg() != 2 {
			return errors.New("usage: fieldctl statuses task <status>")
		}
		status := modal.TaskStatus(fs.Arg(1))
		return c.printTaskStatuses(status, workflows.AvailableStatuses(status))

	case "expense":
		if fs.NArg() != 3 {
			return errors.New("usage: fieldctl statuses expense <status> <paymentStatus>")
		}
		state, err := workflows.NewExpenseState(modal.ExpenseStatus(fs.Arg(1)), modal.PaymentStatus(fs.Arg(2)))
		if err != nil {
			return err
		}
		role := modal.Role(roleFlag)
		if roleFlag == "" {
			sess, err := c.session()
			if err != nil {
				return err
			}
			role = sess.Role()
		} else if role, err = modal.ParseRole(roleFlag); err != nil {
			return err
		}
		return c.printExpenseRules(role, state)
	}
	return errors.New("usage: fieldctl statuses task|expense ...")
}

// fail reports a failed read the same way as a failed mutation.
func (c *cli) fail(err error) error {
	c.notice(c.board.Failure(cliAudience, err))
	c.board.Dismiss(cliAudience)
	return exitError{code: 1}
}
