package main

// uiTemplates holds every console page. Pages share the "head" and "foot"
// blocks; list pages pass their filters on through "keep".
const uiTemplates = `
{{define "head"}}
<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>Field Ops Console</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    nav a { margin-right: 12px; }
    nav a.on { font-weight: bold; }
    nav form { display: inline; float: right; }
    table { border-collapse: collapse; width: 100%; margin-top: 12px; }
    th, td { border: 1px solid #ddd; padding: 8px; vertical-align: top; }
    fieldset { margin-top: 12px; border: 1px solid #ddd; }
    .flash { padding: 8px 12px; margin: 12px 0; border-radius: 4px; }
    .flash.success { background: #e6f4ea; color: #1e6b34; }
    .flash.error { background: #fde7e9; color: #b00020; }
    .status { padding: 2px 6px; border-radius: 3px; background: #eee; }
    .status-approved, .status-completed, .status-paid { background: #e6f4ea; }
    .status-rejected, .status-cancelled { background: #fde7e9; }
    .muted { color: #666; }
  </style>
</head>
<body>
  <nav>
    <a href="/ui/tasks" {{if eq .Active "tasks"}}class="on"{{end}}>Tasks</a>
    <a href="/ui/expenses" {{if eq .Active "expenses"}}class="on"{{end}}>Expenses</a>
    <a href="/ui/employees" {{if eq .Active "employees"}}class="on"{{end}}>Employees</a>
    {{if .CanManageCategories}}<a href="/ui/categories" {{if eq .Active "categories"}}class="on"{{end}}>Categories</a>{{end}}
    <a href="/ui/profile" {{if eq .Active "profile"}}class="on"{{end}}>Profile</a>
    <form method="post" action="/logout">
      <span class="muted">{{.User.Name}} ({{.User.Role}})</span>
      <button type="submit">Logout</button>
    </form>
  </nav>
  {{with .Flash}}<div class="flash {{.Kind}}">{{.Text}}</div>{{end}}
{{end}}

{{define "foot"}}
</body>
</html>
{{end}}

{{define "keep"}}
  <input type="hidden" name="_q" value="{{.Query}}"/>
  {{if .All}}<input type="hidden" name="_all" value="1"/>{{else}}
  <input type="hidden" name="_from" value="{{.Range.StartInput}}"/>
  <input type="hidden" name="_to" value="{{.Range.EndInput}}"/>{{end}}
{{end}}

{{define "filters"}}
  <form method="get">
    <input name="q" placeholder="Search" value="{{.Query}}"/>
    <label>From <input type="date" name="from" value="{{.Range.StartInput}}"/></label>
    <label>To <input type="date" name="to" value="{{.Range.EndInput}}"/></label>
    <button type="submit">Apply</button>
    {{if .All}}<span class="muted">showing all dates</span>{{else}}<a href="?all=1">All dates</a>{{end}}
  </form>
{{end}}

{{define "login"}}
<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>Sign in</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    .err { color: #b00020; }
  </style>
</head>
<body>
  <h2>Field Ops Console</h2>
  {{if .Error}}<p class="err">{{.Error}}</p>{{end}}
  <form method="post" action="/login">
    <label>Email or mobile<br/><input name="username" value="{{.Username}}"/></label><br/><br/>
    <label>Password<br/><input type="password" name="password"/></label><br/><br/>
    <button type="submit">Sign in</button>
  </form>
</body>
</html>
{{end}}

{{define "tasks"}}
{{template "head" .}}
  <h2>Tasks</h2>
  {{template "filters" .}}

  {{if .CanManage}}
  <fieldset>
    <legend>Create task</legend>
    <form method="post" action="/ui/tasks">
      {{template "keep" .}}
      <input name="title" placeholder="Title"/>
      <input name="description" placeholder="Description"/>
      <select name="employeeId">
        <option value="">Assign to...</option>
        {{range .FieldEmployees}}<option value="{{.EmployeeID}}">{{.Name}}</option>{{end}}
      </select>
      <button type="submit">Create</button>
    </form>
  </fieldset>
  <form id="bulk-delete" method="post" action="/ui/tasks/delete">
    {{template "keep" .}}
    <button type="submit">Delete selected</button>
  </form>
  {{end}}

  <table>
    <thead><tr>
      {{if .CanManage}}<th></th>{{end}}
      <th>ID</th><th>Title</th>{{if .ShowEmployee}}<th>Employee</th>{{end}}<th>Manager</th>
      <th>Status</th><th>Start</th><th>End</th><th>Created</th><th></th>
    </tr></thead>
    <tbody>
    {{range .Rows}}
      <tr>
        {{if $.CanManage}}<td><input type="checkbox" name="ids" value="{{.Task.TaskID}}" form="bulk-delete"/></td>{{end}}
        <td>{{.Task.TaskID}}</td>
        <td>{{.Task.Title}}{{if .Owned}} <span class="muted">(yours)</span>{{end}}<br/><span class="muted">{{.Task.Description}}</span></td>
        {{if $.ShowEmployee}}<td>{{.Task.EmployeeName}}</td>{{end}}
        <td>{{.Task.ManagerName}}</td>
        <td><span class="status status-{{lower .Task.Status}}">{{.Task.Status}}</span></td>
        <td>{{when .Task.StartTime}}</td>
        <td>{{when .Task.EndTime}}</td>
        <td>{{.Task.CreatedAt.Format "02-01-2006"}}</td>
        <td>{{if .CanEdit}}<a href="?edit={{.Task.TaskID}}&q={{$.Query}}{{if $.All}}&all=1{{else}}&from={{$.Range.StartInput}}&to={{$.Range.EndInput}}{{end}}">Edit</a>{{end}}</td>
      </tr>
      {{if and .CanEdit (eq $.EditID .Task.TaskID)}}
      <tr><td colspan="10">
        <form method="post" action="/ui/tasks/{{.Task.TaskID}}">
          {{template "keep" $}}
          <input type="hidden" name="_status" value="{{.Task.Status}}"/>
          <input type="hidden" name="_startTime" value="{{inputTime .Task.StartTime}}"/>
          <input type="hidden" name="_endTime" value="{{inputTime .Task.EndTime}}"/>
          {{if .Form.Details}}
            <input name="title" value="{{.Task.Title}}"/>
            <input name="description" value="{{.Task.Description}}"/>
            <select name="employeeId">
              {{$assignee := .Task.EmployeeID}}
              {{range $.FieldEmployees}}<option value="{{.EmployeeID}}" {{if eq .EmployeeID $assignee}}selected{{end}}>{{.Name}}</option>{{end}}
            </select>
          {{end}}
          {{$status := .Task.Status}}
          <select name="status" {{if .Form.Locks.Status}}disabled{{end}}>
            {{range .Form.Statuses}}<option {{if eq . $status}}selected{{end}}>{{.}}</option>{{end}}
          </select>
          <label>Start <input type="datetime-local" name="startTime" value="{{inputTime .Task.StartTime}}" {{if .Form.Locks.StartTime}}disabled{{end}}/></label>
          <label>End <input type="datetime-local" name="endTime" value="{{inputTime .Task.EndTime}}" {{if .Form.Locks.EndTime}}disabled{{end}}/></label>
          {{if .Form.ReadOnly}}<span class="muted">This task can no longer be changed.</span>{{else}}<button type="submit">Save</button>{{end}}
        </form>
      </td></tr>
      {{end}}
    {{else}}
      <tr><td colspan="10" class="muted">No tasks found.</td></tr>
    {{end}}
    </tbody>
  </table>
{{template "foot" .}}
{{end}}

{{define "expenses"}}
{{template "head" .}}
  <h2>Expenses</h2>
  {{template "filters" .}}

  {{if .CanCreate}}
  <fieldset>
    <legend>Submit expense</legend>
    <form method="post" action="/ui/expenses" enctype="multipart/form-data">
      {{template "keep" .}}
      <select name="taskId">
        <option value="">Task...</option>
        {{range .Tasks}}<option value="{{.TaskID}}">{{.Title}}</option>{{end}}
      </select>
      <select name="categoryId">
        <option value="">Category...</option>
        {{range .Categories}}<option value="{{.ID}}">{{.Name}}</option>{{end}}
      </select>
      <input name="amount" type="number" step="0.01" min="0" placeholder="Amount"/>
      <input name="description" placeholder="Description"/>
      <input name="receiptFile" type="file"/>
      <button type="submit">Submit</button>
    </form>
  </fieldset>
  {{end}}
  {{if .CanBulkDelete}}
  <form id="bulk-delete" method="post" action="/ui/expenses/delete">
    {{template "keep" .}}
    <button type="submit">Delete selected</button>
  </form>
  {{end}}

  <table>
    <thead><tr>
      {{if .CanBulkDelete}}<th></th>{{end}}
      <th>ID</th><th>Task</th><th>Category</th><th>Amount</th><th>Employee</th>
      <th>Status</th><th>Payment</th><th>Approver</th><th>Receipt</th><th>Created</th><th></th>
    </tr></thead>
    <tbody>
    {{range .Rows}}
      <tr>
        {{if $.CanBulkDelete}}<td><input type="checkbox" name="ids" value="{{.Expense.ID}}" form="bulk-delete"/></td>{{end}}
        <td>{{.Expense.ID}}</td>
        <td>{{.Expense.TaskTitle}}<br/><span class="muted">{{.Expense.Description}}</span></td>
        <td>{{.Expense.CategoryName}}</td>
        <td>{{money .Expense.Amount}}</td>
        <td>{{.Expense.EmployeeName}}</td>
        <td><span class="status status-{{lower .Expense.Status}}">{{.Expense.Status}}</span></td>
        <td>{{if eq .Expense.Status "Approved"}}<span class="status status-{{lower .Expense.PaymentStatus}}">{{.Expense.PaymentStatus}}</span>{{else}}-{{end}}</td>
        <td>{{.Expense.ApproverName}} <span class="muted">{{when .Expense.ApprovedAt}}</span></td>
        <td>{{if .Expense.ReceiptURL}}<a href="{{.Expense.ReceiptURL}}" target="_blank">View</a>{{end}}</td>
        <td>{{.Expense.CreatedAt.Format "02-01-2006"}}</td>
        <td>{{if .CanEdit}}<a href="?edit={{.Expense.ID}}&q={{$.Query}}{{if $.All}}&all=1{{else}}&from={{$.Range.StartInput}}&to={{$.Range.EndInput}}{{end}}">Edit</a>{{end}}</td>
      </tr>
      {{if and .CanEdit (eq $.EditID .Expense.ID)}}
      <tr><td colspan="12">
        <form method="post" action="/ui/expenses/{{.Expense.ID}}" enctype="multipart/form-data">
          {{template "keep" $}}
          <input type="hidden" name="_status" value="{{.Expense.Status}}"/>
          <input type="hidden" name="_paymentStatus" value="{{.Expense.PaymentStatus}}"/>
          <label>Amount <input name="amount" type="number" step="0.01" min="0" value="{{money .Expense.Amount}}" {{if not (.Form.Can "amount")}}disabled{{end}}/></label>
          <label>Description <input name="description" value="{{.Expense.Description}}" {{if not (.Form.Can "description")}}disabled{{end}}/></label>
          {{$category := .Expense.CategoryID}}
          <select name="categoryId" {{if not (.Form.Can "categoryId")}}disabled{{end}}>
            {{range $.Categories}}<option value="{{.ID}}" {{if eq .ID $category}}selected{{end}}>{{.Name}}</option>{{end}}
          </select>
          {{$status := .Expense.Status}}
          <select name="status" {{if not (.Form.Can "status")}}disabled{{end}}>
            {{range .Form.StatusOptions}}<option {{if eq . $status}}selected{{end}}>{{.}}</option>{{end}}
          </select>
          {{if .Form.ShowPayment}}
          {{$payment := .Expense.PaymentStatus}}
          <select name="paymentStatus" {{if not (.Form.Can "paymentStatus")}}disabled{{end}}>
            {{range .Form.PaymentOptions}}<option {{if eq . $payment}}selected{{end}}>{{.}}</option>{{end}}
          </select>
          {{end}}
          {{if .Form.Can "receiptFile"}}<label>Receipt <input name="receiptFile" type="file"/></label>{{end}}
          {{if .Form.ReadOnly}}<span class="muted">This expense can no longer be changed.</span>{{else}}<button type="submit">Save</button>{{end}}
        </form>
      </td></tr>
      {{end}}
    {{else}}
      <tr><td colspan="12" class="muted">No expenses found.</td></tr>
    {{end}}
    </tbody>
  </table>
{{template "foot" .}}
{{end}}

{{define "employees"}}
{{template "head" .}}
  <h2>Employees</h2>
  <form method="get">
    <input name="q" placeholder="Search by name or email" value="{{.Query}}"/>
    <button type="submit">Search</button>
  </form>

  {{if .CanManage}}
  <fieldset>
    <legend>Add employee</legend>
    <form method="post" action="/ui/employees" enctype="multipart/form-data">
      <input type="hidden" name="_q" value="{{.Query}}"/>
      <input name="name" placeholder="Name"/>
      <input name="mobile" placeholder="Mobile"/>
      <input name="email" type="email" placeholder="Email"/>
      <input name="password" type="password" placeholder="Password"/>
      <select name="role">
        <option value="">Role...</option>
        {{range .Roles}}<option>{{.}}</option>{{end}}
      </select>
      <select name="managerId">
        <option value="">Manager (field employees)</option>
        {{range .Managers}}<option value="{{.EmployeeID}}">{{.Name}}</option>{{end}}
      </select>
      <input name="profileImage" type="file"/>
      <button type="submit">Add</button>
    </form>
  </fieldset>
  <form id="bulk-delete" method="post" action="/ui/employees/delete">
    <input type="hidden" name="_q" value="{{.Query}}"/>
    <button type="submit">Delete selected</button>
  </form>
  {{end}}

  <table>
    <thead><tr>
      {{if .CanManage}}<th></th>{{end}}
      <th>ID</th><th>Name</th><th>Email</th><th>Mobile</th><th>Role</th><th>Manager</th><th>Status</th><th></th>
    </tr></thead>
    <tbody>
    {{range .Employees}}
      <tr>
        {{if $.CanManage}}<td><input type="checkbox" name="ids" value="{{.EmployeeID}}" form="bulk-delete"/></td>{{end}}
        <td>{{.EmployeeID}}</td>
        <td>{{if .ProfileURL}}<img src="{{.ProfileURL}}" alt="" width="24" height="24"/> {{end}}{{.Name}}</td>
        <td>{{.Email}}</td>
        <td>{{.Mobile}}</td>
        <td>{{.Role}}</td>
        <td>{{if needsManager .Role}}{{.ManagerName}}{{else}}-{{end}}</td>
        <td><span class="status status-{{lower .Status}}">{{.Status}}</span></td>
        <td>{{if $.CanManage}}<a href="?edit={{.EmployeeID}}&q={{$.Query}}">Edit</a>{{end}}</td>
      </tr>
      {{if and $.CanManage (eq $.EditID .EmployeeID)}}
      <tr><td colspan="9">
        <form method="post" action="/ui/employees/{{.EmployeeID}}" enctype="multipart/form-data">
          <input type="hidden" name="_q" value="{{$.Query}}"/>
          <input name="name" value="{{.Name}}"/>
          <input name="mobile" value="{{.Mobile}}"/>
          <input name="email" type="email" value="{{.Email}}"/>
          <input name="password" type="password" placeholder="Leave blank to keep"/>
          {{$role := .Role}}
          <select name="role">
            {{range $.Roles}}<option {{if eq . $role}}selected{{end}}>{{.}}</option>{{end}}
          </select>
          {{$manager := idOf .ManagerID}}
          <select name="managerId">
            <option value="">No manager</option>
            {{range $.Managers}}<option value="{{.EmployeeID}}" {{if eq .EmployeeID $manager}}selected{{end}}>{{.Name}}</option>{{end}}
          </select>
          <input name="profileImage" type="file"/>
          <button type="submit">Save</button>
        </form>
      </td></tr>
      {{end}}
    {{else}}
      <tr><td colspan="9" class="muted">No employees found.</td></tr>
    {{end}}
    </tbody>
  </table>
{{template "foot" .}}
{{end}}

{{define "categories"}}
{{template "head" .}}
  <h2>Expense Categories</h2>
  <form method="get">
    <input name="q" placeholder="Search" value="{{.Query}}"/>
    <button type="submit">Search</button>
  </form>

  {{if .CanManage}}
  <fieldset>
    <legend>Add category</legend>
    <form method="post" action="/ui/categories">
      <input type="hidden" name="_q" value="{{.Query}}"/>
      <input name="name" placeholder="Name"/>
      <button type="submit">Add</button>
    </form>
  </fieldset>
  <form id="bulk-delete" method="post" action="/ui/categories/delete">
    <input type="hidden" name="_q" value="{{.Query}}"/>
    <button type="submit">Delete selected</button>
  </form>
  {{end}}

  <table>
    <thead><tr>{{if .CanManage}}<th></th>{{end}}<th>ID</th><th>Name</th></tr></thead>
    <tbody>
    {{range .Categories}}
      <tr>
        {{if $.CanManage}}<td><input type="checkbox" name="ids" value="{{.ID}}" form="bulk-delete"/></td>{{end}}
        <td>{{.ID}}</td>
        <td>{{.Name}}</td>
      </tr>
    {{else}}
      <tr><td colspan="3" class="muted">No categories found.</td></tr>
    {{end}}
    </tbody>
  </table>
{{template "foot" .}}
{{end}}

{{define "profile"}}
{{template "head" .}}
  <h2>Profile</h2>
  <table>
    <tbody>
      <tr><th>Employee ID</th><td>{{.User.EmployeeID}}</td></tr>
      <tr><th>Name</th><td>{{.User.Name}}</td></tr>
      <tr><th>Email</th><td>{{.User.Email}}</td></tr>
      <tr><th>Mobile</th><td>{{.User.Mobile}}</td></tr>
      <tr><th>Role</th><td>{{.User.Role}}</td></tr>
      <tr><th>Status</th><td>{{.User.Status}}</td></tr>
    </tbody>
  </table>

  <fieldset>
    <legend>Update profile</legend>
    <form method="post" action="/ui/profile">
      <input name="name" value="{{.User.Name}}"/>
      <input name="mobile" value="{{.User.Mobile}}"/>
      <input name="password" type="password" placeholder="New password"/>
      <button type="submit">Save</button>
    </form>
  </fieldset>
{{template "foot" .}}
{{end}}
`
