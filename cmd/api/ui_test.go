package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops-console/internal/gateway"
	"fieldops-console/internal/modal"
	"fieldops-console/internal/notify"
	"fieldops-console/internal/session"
)

const testSecret = "test-secret"

// fakeBackend records the calls the console makes to the REST API.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []string
	ranges []string
	users  []string
	forms  []url.Values
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.ranges = append(b.ranges, r.URL.Query().Get("range"))
	b.users = append(b.users, r.Header.Get("x-user-id"))
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			b.forms = append(b.forms, url.Values(r.MultipartForm.Value))
		}
	}
}

func (b *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.record(r)
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/employees/login", func(w http.ResponseWriter, r *http.Request) {
		var creds gateway.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "manager@example.com" || creds.Password != "Secret@123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"employeeId":7,"name":"Meera","role":"Manager","status":"Active"}`)
	})
	r.Get("/tasks/show", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"taskId":1,"title":"Survey north site","employeeId":11,"employeeName":"Ravi","managerId":7,"status":"Started","startTime":"2024-03-01T09:00:00","createdAt":"2024-03-01T08:00:00"},
			{"taskId":2,"title":"Close audit","employeeId":12,"employeeName":"Asha","managerId":7,"status":"Completed","createdAt":"2024-02-20T08:00:00"}
		]`)
	})
	r.Get("/tasks/showFieldEmployee", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"employeeId":11,"name":"Ravi","role":"Field_Employee_Full_Time"}]`)
	})
	r.Get("/expense-categories/show", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"Travel"}]`)
	})
	r.Post("/expense-categories/create", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"Category already exists"}`)
	})
	r.Put("/expenses/update", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"Expense updated"}`)
	})
	return r
}

func (b *fakeBackend) called(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

type testConsole struct {
	router  http.Handler
	backend *fakeBackend
	codec   *session.Codec
	board   *notify.Board
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	board := notify.NewBoard(time.Minute)
	t.Cleanup(board.Close)

	codec := session.NewCodec(testSecret, time.Hour, false)
	ui := newUIServer(gateway.New(srv.URL, 5*time.Second, zerolog.Nop()), codec, board, zerolog.Nop())
	ui.now = func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local) }

	return &testConsole{
		router:  newRouter(ui, []string{"https://widgets.example.com"}),
		backend: backend,
		codec:   codec,
		board:   board,
	}
}

func (c *testConsole) cookie(t *testing.T, role modal.Role) *http.Cookie {
	t.Helper()
	value, err := c.codec.Encode(session.New(modal.User{EmployeeID: 7, Name: "Meera", Role: role}))
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: value}
}

func (c *testConsole) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(postForm("/login", url.Values{"username": {"manager@example.com"}, "password": {"Secret@123"}}), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ui/tasks", rec.Header().Get("Location"))

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	sess, err := c.codec.Decode(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, modal.RoleManager, sess.Role())

	rec = c.do(httptest.NewRequest(http.MethodGet, "/ui/tasks", nil), cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login successful")
}

func TestLogin_ShowsBackendMessage(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(postForm("/login", url.Values{"username": {"manager@example.com"}, "password": {"wrong"}}), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	rec = c.do(postForm("/login", url.Values{"username": {""}}), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, c.backend.called("POST /employees/login"))
}

func TestUI_RequiresSession(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/ui/expenses", nil), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = c.do(httptest.NewRequest(http.MethodGet, "/ui/expenses", nil), &http.Cookie{Name: session.CookieName, Value: "forged"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestTasks_DefaultRangeAndUserHeader(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/ui/tasks", nil), c.cookie(t, modal.RoleManager))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Survey north site")
	assert.Contains(t, body, "Close audit")
	assert.Contains(t, body, "Create task")
	assert.Equal(t, 1, c.backend.called("GET /tasks/showFieldEmployee"))

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	assert.Equal(t, "05-02-2024 - 06-03-2024", c.backend.ranges[0])
	assert.Equal(t, "7", c.backend.users[0])
}

func TestTasks_SearchAndAllDates(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/ui/tasks?q=ravi&all=1", nil), c.cookie(t, modal.RoleFieldFullTime))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Survey north site")
	assert.NotContains(t, body, "Close audit")
	assert.NotContains(t, body, "Create task")
	assert.Zero(t, c.backend.called("GET /tasks/showFieldEmployee"))

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	assert.Empty(t, c.backend.ranges[0])
}

func TestTasks_EditLinkKeepsAllDates(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/ui/tasks?all=1", nil), c.cookie(t, modal.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `href="?edit=1&q=&all=1"`)
	assert.NotContains(t, body, "edit=1&q=&from=")
}

func TestTasks_CompletedTaskFormIsLocked(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/ui/tasks?edit=2", nil), c.cookie(t, modal.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This task can no longer be changed.")
}

func TestCreateCategory_FailureNotifiesOnce(t *testing.T) {
	c := newTestConsole(t)
	cookie := c.cookie(t, modal.RoleHr)

	rec := c.do(postForm("/ui/categories", url.Values{"name": {"Travel"}, "_q": {"tr"}}), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ui/categories?q=tr", rec.Header().Get("Location"))
	assert.Equal(t, 1, c.board.Len())

	rec = c.do(httptest.NewRequest(http.MethodGet, "/ui/categories", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "Category already exists"))
	assert.Contains(t, rec.Body.String(), "Travel")

	rec = c.do(httptest.NewRequest(http.MethodGet, "/ui/categories", nil), cookie)
	assert.NotContains(t, rec.Body.String(), "Category already exists")
}

func TestCreateCategory_BlankNameNeverReachesBackend(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(postForm("/ui/categories", url.Values{"name": {"  "}}), c.cookie(t, modal.RoleAdmin))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, c.backend.called("POST /expense-categories/create"))

	n, ok := c.board.Peek(audience(session.New(modal.User{EmployeeID: 7})))
	require.True(t, ok)
	assert.Equal(t, notify.Failure, n.Kind)
}

func TestUpdateExpense_ForwardsOnlyPermittedFields(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(postForm("/ui/expenses/31", url.Values{
		"_status":        {"Pending"},
		"_paymentStatus": {"Pending"},
		"status":         {"Approved"},
		"amount":         {"999"},
	}), c.cookie(t, modal.RoleManager))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ui/expenses", rec.Header().Get("Location"))

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()
	require.Len(t, c.backend.forms, 1)
	form := c.backend.forms[0]
	assert.Equal(t, "31", form.Get("expenseId"))
	assert.Equal(t, "Approved", form.Get("status"))
	assert.Empty(t, form.Get("amount"))
}

func TestUpdateExpense_PaidStaysOpenWithError(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(postForm("/ui/expenses/31", url.Values{
		"_status":        {"Approved"},
		"_paymentStatus": {"Paid"},
		"paymentStatus":  {"Pending"},
	}), c.cookie(t, modal.RoleFinance))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ui/expenses?edit=31", rec.Header().Get("Location"))
	assert.Zero(t, c.backend.called("PUT /expenses/update"))
}

func TestAPI_RequiresSession(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/api/me", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"no session"}`, rec.Body.String())
}

func TestAPI_Me(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/api/me", nil), c.cookie(t, modal.RoleFinance))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"employeeId":7,"name":"Meera","role":"Finance"}`, rec.Body.String())
}

func TestAPI_TaskStatuses(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/api/policy/task-statuses?status=Started", nil), c.cookie(t, modal.RoleManager))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Started","available":["Started","Completed","Cancelled","Rejected"],"terminal":false}`, rec.Body.String())
}

func TestAPI_ExpenseFields(t *testing.T) {
	c := newTestConsole(t)
	cookie := c.cookie(t, modal.RoleFinance)

	rec := c.do(httptest.NewRequest(http.MethodGet, "/api/policy/expense-fields?status=Approved&paymentStatus=Pending", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp expenseFieldsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"status", "paymentStatus"}, fieldNames(resp))
	assert.True(t, resp.ShowPayment)

	rec = c.do(httptest.NewRequest(http.MethodGet, "/api/policy/expense-fields?status=Approved&paymentStatus=Paid", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = expenseFieldsResp{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Editable)

	rec = c.do(httptest.NewRequest(http.MethodGet, "/api/policy/expense-fields?status=Pending&paymentStatus=Paid", nil), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func fieldNames(resp expenseFieldsResp) []string {
	out := make([]string, 0, len(resp.Editable))
	for _, f := range resp.Editable {
		out = append(out, string(f))
	}
	return out
}

func TestAPI_CORSPreflight(t *testing.T) {
	c := newTestConsole(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/me", nil)
	req.Header.Set("Origin", "https://widgets.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := c.do(req, nil)

	assert.Equal(t, "https://widgets.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestLogout_ClearsCookie(t *testing.T) {
	c := newTestConsole(t)

	rec := c.do(postForm("/logout", nil), c.cookie(t, modal.RoleAdmin))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
