package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"fieldops-console/internal/console"
	"fieldops-console/internal/gateway"
	"fieldops-console/internal/modal"
	"fieldops-console/internal/notify"
	"fieldops-console/internal/policy"
	"fieldops-console/internal/session"
	"fieldops-console/internal/validate"
)

const maxUploadBytes = 10 << 20

type uiServer struct {
	api       *gateway.Client
	codec     *session.Codec
	board     *notify.Board
	runner    *console.Runner
	validator *validate.Validator
	logger    zerolog.Logger
	t         *template.Template
	now       func() time.Time
}

func newUIServer(api *gateway.Client, codec *session.Codec, board *notify.Board, logger zerolog.Logger) *uiServer {
	t := template.Must(template.New("base").Funcs(uiFuncs).Parse(uiTemplates))
	return &uiServer{
		api:       api,
		codec:     codec,
		board:     board,
		runner:    console.NewRunner(board, logger),
		validator: validate.NewValidator(),
		logger:    logger,
		t:         t,
		now:       time.Now,
	}
}

// uiPage is embedded in every page's data.
type uiPage struct {
	User                modal.User
	Active              string
	Flash               *notify.Notification
	CanManageCategories bool
}

// uiList holds the search and date filters of a list page.
type uiList struct {
	Query  string
	Range  gateway.DateRange
	All    bool
	EditID int64
}

type uiTaskRow struct {
	Task    modal.Task
	Form    console.TaskEditForm
	CanEdit bool
	Owned   bool
}

type uiTasksData struct {
	uiPage
	uiList
	Rows           []uiTaskRow
	CanManage      bool
	ShowEmployee   bool
	FieldEmployees []modal.Employee
}

type uiExpenseRow struct {
	Expense modal.Expense
	Form    console.ExpenseForm
	CanEdit bool
}

type uiExpensesData struct {
	uiPage
	uiList
	Rows          []uiExpenseRow
	CanCreate     bool
	CanBulkDelete bool
	Tasks         []modal.Task
	Categories    []modal.Category
}

type uiEmployeesData struct {
	uiPage
	Query     string
	EditID    int64
	Employees []modal.Employee
	CanManage bool
	Roles     []modal.Role
	Managers  []modal.Employee
}

type uiCategoriesData struct {
	uiPage
	Query      string
	Categories []modal.Category
	CanManage  bool
}

type uiLoginData struct {
	Username string
	Error    string
}

func (s *uiServer) page(sess session.Session, active string) uiPage {
	u, _ := sess.User()
	p := uiPage{
		User:                u,
		Active:              active,
		CanManageCategories: policy.CanManageCategories(u.Role),
	}
	if n, ok := s.board.Take(audience(sess)); ok {
		p.Flash = &n
	}
	return p
}

func (s *uiServer) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.t.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("failed to render page")
	}
}

// listFilters reads q, from, to and all. Without dates the list covers the
// last DefaultRangeDays days; all=1 drops the range.
func (s *uiServer) listFilters(r *http.Request) (uiList, *gateway.DateRange, error) {
	q := r.URL.Query()
	l := uiList{Query: q.Get("q"), All: q.Get("all") == "1"}
	l.EditID, _ = strconv.ParseInt(q.Get("edit"), 10, 64)
	l.Range = gateway.LastDays(s.now(), gateway.DefaultRangeDays)
	if l.All {
		return l, nil, nil
	}
	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		return l, &l.Range, nil
	}
	rng, err := gateway.ParseRange(from, to)
	if err != nil {
		return l, &l.Range, err
	}
	l.Range = rng
	return l, &l.Range, nil
}

// back redirects to a list page after a form post, keeping the list filters.
// A failed edit reopens the form it came from.
func back(w http.ResponseWriter, r *http.Request, base string, refetch bool, editID string) {
	v := url.Values{}
	for _, k := range []string{"q", "from", "to", "all"} {
		if s := r.PostFormValue("_" + k); s != "" {
			v.Set(k, s)
		}
	}
	if !refetch && editID != "" {
		v.Set("edit", editID)
	}
	target := base
	if len(v) > 0 {
		target += "?" + v.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *uiServer) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.codec.Read(r); err == nil && sess.Authenticated() {
		http.Redirect(w, r, "/ui/tasks", http.StatusSeeOther)
		return
	}
	s.render(w, "login", uiLoginData{})
}

func (s *uiServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds := gateway.Credentials{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	fail := func(err error) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, "login", uiLoginData{Username: creds.Username, Error: notify.Message(err)})
	}
	if err := s.validator.Struct(creds); err != nil {
		fail(err)
		return
	}

	user, err := s.api.Login(r.Context(), creds)
	if err != nil {
		s.logger.Info().Err(err).Str("username", creds.Username).Msg("login failed")
		fail(err)
		return
	}
	if !user.Role.Known() {
		s.logger.Warn().Str("role", string(user.Role)).Int64("employee_id", user.EmployeeID).Msg("login with unknown role")
	}

	sess := session.New(user)
	if err := s.codec.Write(w, sess); err != nil {
		s.logger.Error().Err(err).Msg("failed to write session cookie")
		fail(err)
		return
	}
	s.board.Success(audience(sess), "Login successful")
	http.Redirect(w, r, "/ui/tasks", http.StatusSeeOther)
}

func (s *uiServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.codec.Read(r); err == nil {
		s.board.Dismiss(audience(sess))
	}
	s.codec.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleTasks lists tasks in the selected range. Assignable field employees
// are only loaded for roles that create tasks.
func (s *uiServer) handleTasks(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	role := sess.Role()
	user, _ := sess.User()
	api := s.api.For(sess)

	list, rng, err := s.listFilters(r)
	if err != nil {
		s.board.Failure(audience(sess), err)
	}
	data := uiTasksData{
		uiList:       list,
		CanManage:    policy.CanManageTasks(role),
		ShowEmployee: policy.ShowEmployeeColumn(role),
	}

	tasks, err := api.Tasks(r.Context(), rng)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load tasks")
		s.board.Failure(audience(sess), err)
	}
	for _, t := range console.FilterTasks(tasks, list.Query) {
		row := uiTaskRow{Task: t, Owned: policy.Owns(user, t.EmployeeID, t.ManagerID)}
		row.Form, row.CanEdit = console.NewTaskForm(role, t)
		data.Rows = append(data.Rows, row)
	}

	if data.CanManage {
		employees, err := api.FieldEmployees(r.Context())
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to load field employees")
			s.board.Failure(audience(sess), err)
		}
		data.FieldEmployees = employees
	}

	data.uiPage = s.page(sess, "tasks")
	s.render(w, "tasks", data)
}

func (s *uiServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "task.create", "Task created successfully", func(ctx context.Context) error {
		employeeID, err := console.ParseID(r.PostFormValue("employeeId"))
		if err != nil {
			return fmt.Errorf("select an employee: %w", err)
		}
		in := gateway.TaskInput{
			Title:       strings.TrimSpace(r.PostFormValue("title")),
			Description: strings.TrimSpace(r.PostFormValue("description")),
			EmployeeID:  employeeID,
		}
		if err := s.validator.Struct(in); err != nil {
			return err
		}
		_, err = s.api.For(sess).CreateTask(ctx, in)
		return err
	})
	back(w, r, "/ui/tasks", refetch, "")
}

// handleUpdateTask rebuilds the task from the hidden fields of its edit form
// and forwards only what the role may change.
func (s *uiServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	idParam := chi.URLParam(r, "taskId")
	_, refetch := s.runner.Run(r.Context(), audience(sess), "task.update", "Task updated successfully", func(ctx context.Context) error {
		if err := r.ParseForm(); err != nil {
			return err
		}
		id, err := console.ParseID(idParam)
		if err != nil {
			return err
		}
		current, err := taskFromForm(id, r.PostForm)
		if err != nil {
			return err
		}
		up, err := console.BuildTaskUpdate(sess.Role(), current, r.PostForm)
		if err != nil {
			return err
		}
		_, err = s.api.For(sess).UpdateTask(ctx, up)
		return err
	})
	back(w, r, "/ui/tasks", refetch, idParam)
}

func taskFromForm(id int64, v url.Values) (modal.Task, error) {
	t := modal.Task{TaskID: id, Status: modal.TaskStatus(v.Get("_status"))}
	for key, dst := range map[string]**modal.Timestamp{"_startTime": &t.StartTime, "_endTime": &t.EndTime} {
		raw := strings.TrimSpace(v.Get(key))
		if raw == "" {
			continue
		}
		ts, err := modal.ParseTimestamp(raw)
		if err != nil {
			return modal.Task{}, err
		}
		*dst = &modal.Timestamp{Time: ts}
	}
	return t, nil
}

func (s *uiServer) handleDeleteTasks(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "task.delete", "Tasks deleted successfully", func(ctx context.Context) error {
		if err := r.ParseForm(); err != nil {
			return err
		}
		ids, err := console.ParseIDs(r.PostForm["ids"])
		if err != nil {
			return err
		}
		_, err = s.api.For(sess).DeleteTasks(ctx, ids)
		return err
	})
	back(w, r, "/ui/tasks", refetch, "")
}

// handleExpenses lists expenses in the selected range. Tasks for the create
// form are only loaded for field employees.
func (s *uiServer) handleExpenses(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	role := sess.Role()
	api := s.api.For(sess)

	list, rng, err := s.listFilters(r)
	if err != nil {
		s.board.Failure(audience(sess), err)
	}
	data := uiExpensesData{
		uiList:        list,
		CanCreate:     policy.CanCreateExpense(role),
		CanBulkDelete: policy.CanBulkDeleteExpenses(role),
	}

	expenses, err := api.Expenses(r.Context(), rng)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load expenses")
		s.board.Failure(audience(sess), err)
	}
	for _, e := range console.FilterExpenses(expenses, list.Query) {
		row := uiExpenseRow{Expense: e}
		row.Form, row.CanEdit = console.NewExpenseForm(role, e)
		data.Rows = append(data.Rows, row)
	}

	if data.Categories, err = api.Categories(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("failed to load categories")
	}
	if data.CanCreate {
		if data.Tasks, err = api.Tasks(r.Context(), nil); err != nil {
			s.logger.Warn().Err(err).Msg("failed to load tasks")
			s.board.Failure(audience(sess), err)
		}
	}

	data.uiPage = s.page(sess, "expenses")
	s.render(w, "expenses", data)
}

// noFile reports whether a FormFile error only means nothing was uploaded.
func noFile(err error) bool {
	return errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)
}

// receipt returns the uploaded receipt, if any. The caller closes it.
func receipt(r *http.Request) (*gateway.File, io.Closer, error) {
	file, header, err := r.FormFile("receiptFile")
	if noFile(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &gateway.File{Name: header.Filename, Content: file}, file, nil
}

func (s *uiServer) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "expense.create", "Expense created successfully", func(ctx context.Context) error {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		taskID, err := console.ParseID(r.FormValue("taskId"))
		if err != nil {
			return fmt.Errorf("select a task: %w", err)
		}
		categoryID, err := console.ParseID(r.FormValue("categoryId"))
		if err != nil {
			return fmt.Errorf("select a category: %w", err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("amount")), 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", r.FormValue("amount"))
		}
		file, closer, err := receipt(r)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		in := gateway.ExpenseInput{
			TaskID:      taskID,
			CategoryID:  categoryID,
			Amount:      amount,
			Description: strings.TrimSpace(r.FormValue("description")),
			Receipt:     file,
		}
		if err := s.validator.Struct(in); err != nil {
			return err
		}
		_, err = s.api.For(sess).CreateExpense(ctx, in)
		return err
	})
	back(w, r, "/ui/expenses", refetch, "")
}

func (s *uiServer) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	idParam := chi.URLParam(r, "expenseId")
	_, refetch := s.runner.Run(r.Context(), audience(sess), "expense.update", "Expense updated successfully", func(ctx context.Context) error {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		id, err := console.ParseID(idParam)
		if err != nil {
			return err
		}
		current := modal.Expense{
			ID:            id,
			Status:        modal.ExpenseStatus(r.PostFormValue("_status")),
			PaymentStatus: modal.PaymentStatus(r.PostFormValue("_paymentStatus")),
		}
		file, closer, err := receipt(r)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		up, err := console.BuildExpenseUpdate(sess.Role(), current, r.PostForm, file)
		if err != nil {
			return err
		}
		_, err = s.api.For(sess).UpdateExpense(ctx, up)
		return err
	})
	back(w, r, "/ui/expenses", refetch, idParam)
}

func (s *uiServer) handleDeleteExpenses(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "expense.delete", "Expenses deleted successfully", func(ctx context.Context) error {
		if err := r.ParseForm(); err != nil {
			return err
		}
		ids, err := console.ParseIDs(r.PostForm["ids"])
		if err != nil {
			return err
		}
		_, err = s.api.For(sess).DeleteExpenses(ctx, ids)
		return err
	})
	back(w, r, "/ui/expenses", refetch, "")
}

// handleEmployees lists every employee. Roles and managers feed the employee
// form and are only loaded for roles that manage employees.
func (s *uiServer) handleEmployees(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	api := s.api.For(sess)
	data := uiEmployeesData{
		Query:     r.URL.Query().Get("q"),
		CanManage: policy.CanManageEmployees(sess.Role()),
	}
	data.EditID, _ = strconv.ParseInt(r.URL.Query().Get("edit"), 10, 64)

	employees, err := api.Employees(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load employees")
		s.board.Failure(audience(sess), err)
	}
	data.Employees = console.FilterEmployees(employees, data.Query)

	if data.CanManage {
		if data.Roles, err = api.Roles(r.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("failed to load roles")
			s.board.Failure(audience(sess), err)
		}
		if data.Managers, err = api.Managers(r.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("failed to load managers")
			s.board.Failure(audience(sess), err)
		}
	}

	data.uiPage = s.page(sess, "employees")
	s.render(w, "employees", data)
}

func employeeFromForm(r *http.Request) (gateway.EmployeeInput, io.Closer, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return gateway.EmployeeInput{}, nil, err
	}
	managerID, err := console.ParseOptionalID(r.FormValue("managerId"))
	if err != nil {
		return gateway.EmployeeInput{}, nil, err
	}
	in := gateway.EmployeeInput{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Mobile:    strings.TrimSpace(r.FormValue("mobile")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password:  r.FormValue("password"),
		Role:      modal.Role(r.FormValue("role")),
		ManagerID: managerID,
	}
	file, header, err := r.FormFile("profileImage")
	if noFile(err) {
		return in, nil, nil
	}
	if err != nil {
		return gateway.EmployeeInput{}, nil, err
	}
	in.ProfileImage = &gateway.File{Name: header.Filename, Content: file}
	return in, file, nil
}

func (s *uiServer) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "employee.create", "Employee created successfully", func(ctx context.Context) error {
		in, closer, err := employeeFromForm(r)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		if err := s.validator.Employee(in, true); err != nil {
			return err
		}
		_, err = s.api.For(sess).CreateEmployee(ctx, in)
		return err
	})
	back(w, r, "/ui/employees", refetch, "")
}

func (s *uiServer) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	idParam := chi.URLParam(r, "employeeId")
	_, refetch := s.runner.Run(r.Context(), audience(sess), "employee.update", "Employee updated successfully", func(ctx context.Context) error {
		id, err := console.ParseID(idParam)
		if err != nil {
			return err
		}
		in, closer, err := employeeFromForm(r)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		in.EmployeeID = id
		if err := s.validator.Employee(in, false); err != nil {
			return err
		}
		_, err = s.api.For(sess).UpdateEmployee(ctx, in)
		return err
	})
	back(w, r, "/ui/employees", refetch, idParam)
}

func (s *uiServer) handleDeleteEmployees(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "employee.delete", "Employees deleted successfully", func(ctx context.Context) error {
		if err := r.ParseForm(); err != nil {
			return err
		}
		ids, err := console.ParseIDs(r.PostForm["ids"])
		if err != nil {
			return err
		}
		_, err = s.api.For(sess).DeleteEmployees(ctx, ids)
		return err
	})
	back(w, r, "/ui/employees", refetch, "")
}

func (s *uiServer) handleCategories(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	data := uiCategoriesData{
		Query:     r.URL.Query().Get("q"),
		CanManage: policy.CanManageCategories(sess.Role()),
	}
	categories, err := s.api.For(sess).Categories(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load categories")
		s.board.Failure(audience(sess), err)
	}
	data.Categories = console.FilterCategories(categories, data.Query)

	data.uiPage = s.page(sess, "categories")
	s.render(w, "categories", data)
}

func (s *uiServer) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "category.create", "Category created successfully", func(ctx context.Context) error {
		name := strings.TrimSpace(r.PostFormValue("name"))
		if name == "" {
			return errors.New("category name is required")
		}
		_, err := s.api.For(sess).CreateCategory(ctx, name)
		return err
	})
	back(w, r, "/ui/categories", refetch, "")
}

func (s *uiServer) handleDeleteCategories(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	_, refetch := s.runner.Run(r.Context(), audience(sess), "category.delete", "Categories deleted successfully", func(ctx context.Context) error {
		if err := r.ParseForm(); err != nil {
			return err
		}
		ids, err := console.ParseIDs(r.PostForm["ids"])
		if err != nil {
			return err
		}
		_, err = s.api.For(sess).DeleteCategories(ctx, ids)
		return err
	})
	back(w, r, "/ui/categories", refetch, "")
}

func (s *uiServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	s.render(w, "profile", s.page(sess, "profile"))
}

// handleUpdateProfile saves the user's own name, mobile and password. The
// session cookie is reissued so the new name shows without logging in again.
func (s *uiServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	in := gateway.ProfileInput{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Mobile:   strings.TrimSpace(r.PostFormValue("mobile")),
		Password: r.PostFormValue("password"),
	}
	s.runner.Run(r.Context(), audience(sess), "profile.update", "Profile updated successfully", func(ctx context.Context) error {
		if err := s.validator.Struct(in); err != nil {
			return err
		}
		if _, err := s.api.For(sess).UpdateProfile(ctx, sess.EmployeeID(), in); err != nil {
			return err
		}
		return s.codec.Write(w, sess.WithProfile(in.Name, in.Mobile))
	})
	http.Redirect(w, r, "/ui/profile", http.StatusSeeOther)
}

var uiFuncs = template.FuncMap{
	"when": func(ts *modal.Timestamp) string {
		if ts == nil || ts.IsZero() {
			return "-"
		}
		return ts.Format("02-01-2006 15:04")
	},
	"inputTime": func(ts *modal.Timestamp) string {
		return ts.InputValue()
	},
	"money": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"lower": func(v any) string {
		return strings.ToLower(fmt.Sprint(v))
	},
	"idOf": func(v *int64) int64 {
		if v == nil {
			return 0
		}
		return *v
	},
	"needsManager": policy.NeedsManager,
}
