package session

import (
	"strconv"

	"fieldops-console/internal/modal"
)

// Session is the identity of the signed-in user. It is a value: logging in or
// out produces a new Session rather than changing an existing one.
type Session struct {
	user *modal.User
}

// Anonymous is the session before login and after logout.
var Anonymous = Session{}

func New(user modal.User) Session {
	u := clone(user)
	return Session{user: &u}
}

func clone(u modal.User) modal.User {
	if u.ManagerID != nil {
		id := *u.ManagerID
		u.ManagerID = &id
	}
	return u
}

func (s Session) Authenticated() bool {
	return s.user != nil
}

// User returns a copy of the signed-in user.
func (s Session) User() (modal.User, bool) {
	if s.user == nil {
		return modal.User{}, false
	}
	return clone(*s.user), true
}

// Role is empty for anonymous sessions, which the policy package treats as a
// role with no rights.
func (s Session) Role() modal.Role {
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

func (s Session) EmployeeID() int64 {
	if s.user == nil {
		return 0
	}
	return s.user.EmployeeID
}

// UserIDHeader is the value sent in the x-user-id request header. It is empty
// for anonymous sessions so the header is left out.
func (s Session) UserIDHeader() string {
	if s.user == nil || s.user.EmployeeID == 0 {
		return ""
	}
	return strconv.FormatInt(s.user.EmployeeID, 10)
}

// WithProfile returns a session whose user carries the given name and mobile,
// as after a successful profile update.
func (s Session) WithProfile(name, mobile string) Session {
	u, ok := s.User()
	if !ok {
		return s
	}
	u.Name = name
	u.Mobile = mobile
	return New(u)
}
